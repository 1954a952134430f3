package store

import (
	"github.com/google/uuid"

	"commercechain/core/events"
	"commercechain/native/admin"
	nativecommon "commercechain/native/common"
)

type catalogState interface {
	KVGet(key []byte, out interface{}) (bool, error)
	KVPut(key []byte, value interface{}) error
}

func productKey(store [32]byte, id uuid.UUID) []byte {
	key := make([]byte, 0, len("product/")+32+16)
	key = append(key, []byte("product/")...)
	key = append(key, store[:]...)
	key = append(key, id[:]...)
	return key
}

// Catalog manages per-store product records.
type Catalog struct {
	st      catalogState
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewCatalog creates a catalog backed by the provided state manager.
func NewCatalog(st catalogState) *Catalog {
	return &Catalog{st: st, emitter: events.NoopEmitter{}}
}

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (c *Catalog) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		c.emitter = events.NoopEmitter{}
		return
	}
	c.emitter = emitter
}

// SetPauses wires the module pause view.
func (c *Catalog) SetPauses(p nativecommon.PauseView) {
	if c == nil {
		return
	}
	c.pauses = p
}

func (c *Catalog) loadStore(id [32]byte) (*Store, error) {
	record := new(Store)
	found, err := c.st.KVGet(storeKey(id), record)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrStoreNotFound
	}
	return record, nil
}

// RegisterProduct creates a product under the store. The caller must hold the
// owner or manager role on the store; it becomes the product's managing
// authority.
func (c *Catalog) RegisterProduct(caller [20]byte, storeID [32]byte, id uuid.UUID, price, stock uint64, kind TokenizedKind, metadataURI string) (*Product, error) {
	if c == nil || c.st == nil {
		return nil, errNilState
	}
	if err := nativecommon.Guard(c.pauses, moduleName); err != nil {
		return nil, err
	}
	record, err := c.loadStore(storeID)
	if err != nil {
		return nil, err
	}
	if !record.Active {
		return nil, ErrStoreInactive
	}
	if !record.Admins.HasRole(caller, admin.RoleOwner, admin.RoleManager) {
		return nil, ErrUnauthorized
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	sanitizedURI, ok := boundedText(metadataURI, MaxMetadataURILen)
	if !ok {
		return nil, ErrTextTooLong
	}
	exists, err := c.st.KVGet(productKey(storeID, id), new(Product))
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrProductExists
	}
	product := &Product{
		ID:          id,
		StoreID:     storeID,
		Price:       price,
		Stock:       stock,
		Kind:        kind,
		Active:      true,
		MetadataURI: sanitizedURI,
		Authority:   caller,
	}
	if err := c.st.KVPut(productKey(storeID, id), product); err != nil {
		return nil, err
	}
	c.emit(NewProductRegisteredEvent(product))
	return product.Clone(), nil
}

// GetProduct retrieves a product by store and identifier.
func (c *Catalog) GetProduct(storeID [32]byte, id uuid.UUID) (*Product, bool) {
	out := new(Product)
	ok, err := c.st.KVGet(productKey(storeID, id), out)
	if err != nil || !ok {
		return nil, false
	}
	return out, true
}

// ProductUpdate carries the optional fields of an update call.
type ProductUpdate struct {
	Price       *uint64
	Stock       *uint64
	MetadataURI *string
	Kind        *TokenizedKind
}

func (c *Catalog) loadAuthorized(caller [20]byte, storeID [32]byte, id uuid.UUID) (*Product, error) {
	record, err := c.loadStore(storeID)
	if err != nil {
		return nil, err
	}
	product := new(Product)
	found, err := c.st.KVGet(productKey(storeID, id), product)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrProductNotFound
	}
	if caller != product.Authority && caller != record.Owner {
		return nil, ErrUnauthorized
	}
	return product, nil
}

// UpdateProduct mutates price, stock, metadata or kind. The product authority
// or the store owner may call.
func (c *Catalog) UpdateProduct(caller [20]byte, storeID [32]byte, id uuid.UUID, update ProductUpdate) error {
	if err := nativecommon.Guard(c.pauses, moduleName); err != nil {
		return err
	}
	product, err := c.loadAuthorized(caller, storeID, id)
	if err != nil {
		return err
	}
	if update.Price != nil {
		product.Price = *update.Price
	}
	if update.Stock != nil {
		product.Stock = *update.Stock
	}
	if update.MetadataURI != nil {
		sanitized, ok := boundedText(*update.MetadataURI, MaxMetadataURILen)
		if !ok {
			return ErrTextTooLong
		}
		product.MetadataURI = sanitized
	}
	if update.Kind != nil {
		if !update.Kind.Valid() {
			return ErrInvalidKind
		}
		product.Kind = *update.Kind
	}
	if err := c.st.KVPut(productKey(storeID, id), product); err != nil {
		return err
	}
	c.emit(NewProductUpdatedEvent(product))
	return nil
}

// DeactivateProduct clears the activity flag. The record is never removed.
func (c *Catalog) DeactivateProduct(caller [20]byte, storeID [32]byte, id uuid.UUID) error {
	if err := nativecommon.Guard(c.pauses, moduleName); err != nil {
		return err
	}
	product, err := c.loadAuthorized(caller, storeID, id)
	if err != nil {
		return err
	}
	product.Active = false
	if err := c.st.KVPut(productKey(storeID, id), product); err != nil {
		return err
	}
	c.emit(NewProductDeactivatedEvent(product))
	return nil
}

func (c *Catalog) emit(event events.Event) {
	if c.emitter == nil {
		return
	}
	c.emitter.Emit(event)
}
