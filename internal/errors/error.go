package errors

import "errors"

var (
	ErrViewerNotFound       = errors.New("viewer with provided key was not found")
	ErrMalformedPosition    = errors.New("malformed position")
	ErrIllegalMove          = errors.New("illegal move")
	ErrNavigationOutOfRange = errors.New("navigation target is out of range")
	ErrGameNotFound         = errors.New("game not found")
	ErrInternal             = errors.New("internal error")
)
