package rpc

import (
	"net/http"

	"github.com/google/uuid"

	"commercechain/native/store"
)

type productRegisterParams struct {
	Caller      string `json:"caller"`
	StoreID     string `json:"storeId"`
	ProductID   string `json:"productId,omitempty"`
	Price       uint64 `json:"price"`
	Stock       uint64 `json:"stock"`
	Kind        string `json:"kind,omitempty"`
	MetadataURI string `json:"metadataUri,omitempty"`
}

func (s *Server) handleProductRegister(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params productRegisterParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	productID := uuid.New()
	if params.ProductID != "" {
		productID, err = parseProductID(params.ProductID)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
	}
	kind, err := parseKind(params.Kind)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	record, err := s.engines.Catalog.RegisterProduct(caller, storeID, productID, params.Price, params.Stock, kind, params.MetadataURI)
	if err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, newProductResult(record))
}

type productQueryParams struct {
	StoreID   string `json:"storeId"`
	ProductID string `json:"productId"`
}

func (s *Server) handleProductGet(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params productQueryParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	productID, err := parseProductID(params.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	record, ok := s.engines.Catalog.GetProduct(storeID, productID)
	if !ok {
		writeEngineError(w, req.ID, store.ErrProductNotFound)
		return
	}
	writeResult(w, req.ID, newProductResult(record))
}

type productUpdateParams struct {
	Caller      string  `json:"caller"`
	StoreID     string  `json:"storeId"`
	ProductID   string  `json:"productId"`
	Price       *uint64 `json:"price,omitempty"`
	Stock       *uint64 `json:"stock,omitempty"`
	MetadataURI *string `json:"metadataUri,omitempty"`
	Kind        *string `json:"kind,omitempty"`
}

func (s *Server) handleProductUpdate(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params productUpdateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	productID, err := parseProductID(params.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	update := store.ProductUpdate{
		Price:       params.Price,
		Stock:       params.Stock,
		MetadataURI: params.MetadataURI,
	}
	if params.Kind != nil {
		kind, err := parseKind(*params.Kind)
		if err != nil {
			writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
			return
		}
		update.Kind = &kind
	}
	if err := s.engines.Catalog.UpdateProduct(caller, storeID, productID, update); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	record, _ := s.engines.Catalog.GetProduct(storeID, productID)
	writeResult(w, req.ID, newProductResult(record))
}

func (s *Server) handleProductDeactivate(w http.ResponseWriter, _ *http.Request, req *RPCRequest) {
	var params productUpdateParams
	if rpcErr := singleParams(req, &params); rpcErr != nil {
		writeError(w, http.StatusBadRequest, req.ID, rpcErr.Code, rpcErr.Message, rpcErr.Data)
		return
	}
	caller, err := parseAddress(params.Caller)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	storeID, err := parseHash(params.StoreID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	productID, err := parseProductID(params.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidParams, err.Error(), nil)
		return
	}
	if err := s.engines.Catalog.DeactivateProduct(caller, storeID, productID); err != nil {
		writeEngineError(w, req.ID, err)
		return
	}
	writeResult(w, req.ID, map[string]bool{"active": false})
}
