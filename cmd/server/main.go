package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/inamate/drawer/internal/auth"
	"github.com/inamate/drawer/internal/config"
	"github.com/inamate/drawer/internal/export"
	mw "github.com/inamate/drawer/internal/middleware"
	"github.com/inamate/drawer/internal/remote"
	"github.com/inamate/drawer/internal/render"
	"github.com/inamate/drawer/internal/typeid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	level, _ := cfg.Level()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	render.SetLogger(logger.With("component", "render"))

	authService := auth.NewService(cfg.JWTSecret)
	if !authService.Enabled() {
		slog.Warn("JWT_SECRET not set, canvases are open to anonymous clients")
	}

	hub := remote.NewHub(cfg.EngineOptions(), cfg.ConnOptions())
	go hub.Run()

	exportHandler := export.NewHandler(hub, cfg.FontPath)
	origins := cfg.Origins()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	r.Handle("/canvas", authService.AuthMiddleware(http.HandlerFunc(createCanvas))).Methods("POST", "OPTIONS")

	canvas := r.PathPrefix("/canvas").Subrouter()
	canvas.Use(authService.AuthMiddleware)
	canvas.HandleFunc("/{canvasId}/export.png", exportHandler.ExportPNG).Methods("GET", "OPTIONS")

	ws := r.PathPrefix("/ws").Subrouter()
	ws.Use(authService.AuthMiddleware)
	ws.HandleFunc("/canvas/{canvasId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")
		hub.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "grid", cfg.GridSize)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func createCanvas(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	fmt.Fprintf(w, `{"canvasId":%q}`, typeid.NewCanvasID())
}

func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *remote.Hub, origins []string) {
	canvasID := mux.Vars(r)["canvasId"]
	if err := typeid.Validate(canvasID, typeid.PrefixCanvas); err != nil {
		http.Error(w, "invalid canvas id", http.StatusBadRequest)
		return
	}
	userID := auth.UserIDFromContext(r.Context())

	client := remote.NewClient(hub, nil, userID, canvasID, typeid.NewClientID())

	// Claim before upgrading so a busy canvas gets a plain HTTP refusal.
	canvas, err := hub.Claim(canvasID, client)
	if err != nil {
		if errors.Is(err, remote.ErrCanvasBusy) {
			http.Error(w, "canvas already has a client", http.StatusConflict)
			return
		}
		slog.Error("claim canvas", "canvas", canvasID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		hub.Release(canvas, client)
		slog.Error("websocket accept", "error", err)
		return
	}
	client.Attach(conn)

	hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
