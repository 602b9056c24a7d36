package table

import "errors"

// ErrDuplicateKey is returned by Insert when the key already exists.
// It is a recoverable result, not a fatal error.
var ErrDuplicateKey = errors.New("duplicate key")
