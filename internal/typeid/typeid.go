package typeid

import (
	"fmt"

	"go.jetify.com/typeid/v2"
)

const (
	PrefixCanvas    = "canvas"
	PrefixLayer     = "layer"
	PrefixClient    = "client"
	PrefixTransform = "xform"
	PrefixUser      = "user"
)

func New(prefix string) string {
	id := typeid.MustGenerate(prefix)
	return id.String()
}

func NewCanvasID() string    { return New(PrefixCanvas) }
func NewLayerID() string     { return New(PrefixLayer) }
func NewClientID() string    { return New(PrefixClient) }
func NewTransformID() string { return New(PrefixTransform) }
func NewUserID() string      { return New(PrefixUser) }

func Validate(id, expectedPrefix string) error {
	parsed, err := typeid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid typeid %q: %w", id, err)
	}
	if parsed.Prefix() != expectedPrefix {
		return fmt.Errorf("expected prefix %q but got %q in id %q", expectedPrefix, parsed.Prefix(), id)
	}
	return nil
}
