package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/gorilla/mux"

	"github.com/samui/samui/backend-go/internal/api"
	"github.com/samui/samui/backend-go/internal/auth"
	"github.com/samui/samui/backend-go/internal/config"
	"github.com/samui/samui/backend-go/internal/games"
	"github.com/samui/samui/backend-go/internal/live"
	mw "github.com/samui/samui/backend-go/internal/middleware"
	"github.com/samui/samui/backend-go/internal/preview"
	"github.com/samui/samui/backend-go/internal/progress"
)

func main() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, err := progress.Open(ctx, cfg.StoreDriver, cfg.StoreDSN())
	if err != nil {
		slog.Error("open progress store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL)
	authHandler := auth.NewHandler(authService)

	apiHandler := api.NewHandler(api.NewService(store))
	previewHandler := preview.NewHandler(cfg.PreviewMaxSize)

	hub := live.NewHub(store, cfg.FPS)
	go hub.Run()

	origins := cfg.Origins()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(origins))

	// Auth routes (public)
	r.HandleFunc("/auth/guest", authHandler.Guest).Methods("POST", "OPTIONS")

	// Health check
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	// Previews (public)
	r.HandleFunc("/games/{gameId}/preview.png", previewHandler.Render).Methods("GET")

	// Protected API routes
	apiRouter := r.PathPrefix("/api").Subrouter()
	apiRouter.Use(authService.AuthMiddleware)
	apiHandler.Routes(apiRouter)

	// WebSocket endpoint
	r.HandleFunc("/ws/games/{gameId}", func(w http.ResponseWriter, r *http.Request) {
		handleWebSocket(w, r, hub, authService, origins)
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down server")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		// Stop live sessions first so pending completions are stored
		if err := hub.Stop(shutdownCtx); err != nil {
			slog.Warn("stop live hub", "error", err)
		}
		srv.Shutdown(shutdownCtx)
	}()

	slog.Info("server starting", "addr", addr, "store", cfg.StoreDriver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

// handleWebSocket starts a live session. The token query parameter
// identifies the learner; width and height describe the client's container.
func handleWebSocket(w http.ResponseWriter, r *http.Request, hub *live.Hub, authSvc *auth.Service, origins []string) {
	gameID := mux.Vars(r)["gameId"]
	if _, err := games.Lookup(gameID); err != nil {
		http.Error(w, "unknown game", http.StatusNotFound)
		return
	}

	learnerID, err := authSvc.LearnerFromQuery(r)
	if err != nil {
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	width, _ := strconv.ParseFloat(q.Get("width"), 64)
	if width <= 0 {
		width = 800
	}
	height, _ := strconv.ParseFloat(q.Get("height"), 64)

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: origins,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	if err := hub.Serve(r.Context(), conn, learnerID, gameID, width, max(height, 0)); err != nil {
		if !errors.Is(err, live.ErrHubStopped) {
			slog.Error("live session", "error", err, "learner", learnerID, "game", gameID)
		}
		conn.Close(websocket.StatusInternalError, "session failed")
	}
}
