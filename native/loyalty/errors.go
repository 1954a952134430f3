package loyalty

import "errors"

var (
	ErrUnauthorized       = errors.New("loyalty: unauthorized")
	ErrMintExists         = errors.New("loyalty: mint already initialized")
	ErrMintNotFound       = errors.New("loyalty: mint not found")
	ErrZeroRedemptionRate = errors.New("loyalty: redemption rate must be non-zero")
	ErrInsufficientPoints = errors.New("loyalty: insufficient loyalty points")
	errNilState           = errors.New("loyalty: state not configured")
)
