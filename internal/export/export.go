// Package export rasterizes canvases to PNG.
package export

import (
	"fmt"
	"io"
	"log/slog"
	"math"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/render"
)

const fontPoints = 20

// WritePNG repaints the committed shapes of eng at its bounds size and
// encodes the result to w.
// A non-empty fontPath enables text rendering; a font that fails to load is
// logged and text falls back to outlines.
func WritePNG(w io.Writer, eng *engine.Engine, fontPath string) error {
	b := eng.Bounds()
	width, height := int(math.Ceil(b.Width)), int(math.Ceil(b.Height))
	if width <= 0 || height <= 0 {
		return fmt.Errorf("export png: empty canvas %dx%d", width, height)
	}
	if limit := int(math.Ceil(eng.MaxSize())); width > limit || height > limit {
		return fmt.Errorf("export png: canvas %dx%d exceeds %d", width, height, limit)
	}

	raster := render.NewRaster(width, height)
	defer raster.Close()

	if fontPath != "" {
		if err := raster.LoadFont(fontPath, fontPoints); err != nil {
			slog.Warn("export without font", "error", err)
		}
	}

	eng.RenderCommitted(raster)
	if err := raster.EncodePNG(w); err != nil {
		return fmt.Errorf("export png: %w", err)
	}
	return nil
}
