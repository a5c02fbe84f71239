package export

import (
	"bytes"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inamate/drawer/internal/engine"
	"github.com/inamate/drawer/internal/remote"
	"github.com/inamate/drawer/internal/scene"
)

func red() string { return "#ff0000" }

func TestWritePNG(t *testing.T) {
	eng := engine.NewEngine(engine.Options{GridSize: 20, Width: 200, Height: 150, RandomFill: red})
	defer eng.Close()
	_, err := eng.AddShape(scene.KindRectangle)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, eng, ""))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 150, img.Bounds().Dy())

	r, g, b, _ := img.At(70, 70).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Zero(t, g)
	assert.Zero(t, b)
}

func TestWritePNGLeavesOutSelectionAndDraft(t *testing.T) {
	eng := engine.NewEngine(engine.Options{GridSize: 20, Width: 200, Height: 150, RandomFill: red})
	defer eng.Close()
	s, err := eng.AddShape(scene.KindRectangle)
	require.NoError(t, err)
	eng.Select(s.ID)
	require.NoError(t, eng.AttachTransform())
	require.NoError(t, eng.SetIntent(scene.KindRectangle))
	eng.PointerDown(140, 20)
	eng.PointerMove(180, 60)
	require.NotNil(t, eng.Frame().Draft)

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, eng, ""))
	img, err := png.Decode(&buf)
	require.NoError(t, err)

	// just outside the left edge, where the selection outline would be
	r, _, _, _ := img.At(19, 70).RGBA()
	assert.Greater(t, r, uint32(0xc000))

	// inside the draft
	r, g, b, _ := img.At(165, 45).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestWritePNGClampedCanvas(t *testing.T) {
	eng := engine.NewEngine(engine.Options{Width: 1e9, Height: 20, MaxSize: 64})
	defer eng.Close()

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, eng, ""))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestWritePNGMissingFont(t *testing.T) {
	eng := engine.NewEngine(engine.Options{Width: 50, Height: 50})
	defer eng.Close()
	_, err := eng.AddShape(scene.KindText)
	require.NoError(t, err)

	var buf bytes.Buffer
	assert.NoError(t, WritePNG(&buf, eng, "/does/not/exist.ttf"))
	assert.NotZero(t, buf.Len())
}

func TestExportHandler(t *testing.T) {
	hub := remote.NewHub(engine.Options{Width: 64, Height: 48}, remote.ConnOptions{})
	client := remote.NewClient(hub, nil, "anon-1", "canvas_a", "c1")
	_, err := hub.Claim("canvas_a", client)
	require.NoError(t, err)

	router := mux.NewRouter()
	router.HandleFunc("/canvas/{canvasId}/export.png", NewHandler(hub, "").ExportPNG).Methods("GET")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/canvas/canvas_a/export.png", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/canvas/missing/export.png", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
