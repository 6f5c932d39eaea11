package props

import "errors"

var (
	ErrUnknownProperty       = errors.New("unknown property")
	ErrMalformedPropertyData = errors.New("malformed property data")
	ErrMediaRefNotFound      = errors.New("media reference not found")
)
