package services

import "errors"

// Validation errors surfaced at the public write boundary.
var (
	ErrUnsupportedAsset = errors.New("unsupported asset")
	ErrInvalidOperator  = errors.New("operator must be \"above\" or \"below\"")
	ErrInvalidTarget    = errors.New("price target must be a positive amount")
	ErrInvalidPrice     = errors.New("price must be a positive amount")
	ErrInvalidSeverity  = errors.New("unknown severity")
	ErrMissingTitle     = errors.New("title is required")
	ErrMissingMessage   = errors.New("message is required")
)
