package export

import (
	"bytes"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/remote"
)

type Handler struct {
	hub      *remote.Hub
	fontPath string
}

func NewHandler(hub *remote.Hub, fontPath string) *Handler {
	return &Handler{hub: hub, fontPath: fontPath}
}

// ExportPNG serves GET /canvas/{canvasId}/export.png.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	canvasID := mux.Vars(r)["canvasId"]
	canvas, ok := h.hub.Canvas(canvasID)
	if !ok {
		http.Error(w, "canvas not found", http.StatusNotFound)
		return
	}

	var (
		buf bytes.Buffer
		err error
	)
	canvas.Do(func(eng *engine.Engine) {
		err = WritePNG(&buf, eng, h.fontPath)
	})
	if err != nil {
		slog.Error("export failed", "canvas", canvasID, "error", err)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}

	slog.Info("export complete", "canvas", canvasID, "bytes", buf.Len())

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("Content-Disposition", `attachment; filename="`+canvasID+`.png"`)
	w.Write(buf.Bytes())
}
