package types

import "errors"

var (
	ErrInvalidValidatorKey = errors.New("types: bls component does not deserialize to a valid G1 point")
	ErrUnsupportedVersion  = errors.New("types: unsupported protocol version for versioned encoding")
)
