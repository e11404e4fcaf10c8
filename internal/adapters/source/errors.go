package source

import "errors"

// Sentinel kinds for record source errors.
var (
	ErrUnavailable   = errors.New("record source unavailable")
	ErrMalformed     = errors.New("record source malformed")
	ErrUnknownDriver = errors.New("unknown record source driver")
	ErrMigrate       = errors.New("schema migration failed")
)
