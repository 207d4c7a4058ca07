package dimensions

import "errors"

var (
	ErrNotFound     = errors.New("dimension not found")
	ErrInvalidInput = errors.New("invalid dimension")
	ErrDuplicate    = errors.New("dimension already exists")
	ErrProtected    = errors.New("dimension cannot be removed")
)
