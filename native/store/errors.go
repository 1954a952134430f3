package store

import "errors"

var (
	ErrUnauthorized      = errors.New("store: unauthorized")
	ErrStoreExists       = errors.New("store: store already exists")
	ErrStoreNotFound     = errors.New("store: store not found")
	ErrStoreInactive     = errors.New("store: store inactive")
	ErrTextTooLong       = errors.New("store: text field too long")
	ErrProductExists     = errors.New("store: product already exists")
	ErrProductNotFound   = errors.New("store: product not found")
	ErrInvalidKind       = errors.New("store: invalid tokenized kind")
	ErrCannotRemoveOwner = errors.New("store: cannot remove owner")
	errNilState          = errors.New("store: state not configured")
)
