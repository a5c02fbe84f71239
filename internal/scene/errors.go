package scene

import "errors"

var (
	ErrNoLayer           = errors.New("no layer")
	ErrNoSelection       = errors.New("no shape selected")
	ErrInvalidAttributes = errors.New("invalid attributes")
)
