package pager

import "errors"

var (
	// ErrCorruptFile is returned by Open when the file length is not a
	// whole multiple of PageSize.
	ErrCorruptFile = errors.New("corrupt file: length is not a multiple of page size")
	// ErrOutOfBounds is returned when a page number at or beyond
	// TableMaxPages is requested.
	ErrOutOfBounds = errors.New("page number out of bounds")
)
