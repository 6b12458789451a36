package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/BlueBrain/plotly-helper/internal/config"
	mw "github.com/BlueBrain/plotly-helper/internal/middleware"
	"github.com/BlueBrain/plotly-helper/internal/render"
	"github.com/BlueBrain/plotly-helper/internal/session"
	"github.com/BlueBrain/plotly-helper/internal/share"
	"github.com/BlueBrain/plotly-helper/internal/store"
	"github.com/BlueBrain/plotly-helper/internal/viewer"
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

	var st store.Store
	if cfg.DatabaseURL == "" {
		slog.Warn("DATABASE_URL not set, keeping morphologies in memory")
		st = store.NewMemory()
	} else {
		pg, err := store.NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("connect to database", "error", err)
			os.Exit(1)
		}
		st = pg
	}
	defer st.Close()

	viewerService := viewer.NewService(st, cfg.FigureOptions())
	signer := share.NewSigner(cfg.ShareSecret, cfg.ShareTTL)
	viewerHandler := viewer.NewHandler(viewerService, signer, render.HTMLOptions{PlotlyJSURL: cfg.PlotlyJSURL})

	hub := session.NewHub(viewerService.Builder)
	go hub.Run()

	r := mux.NewRouter()

	// Global middleware
	r.Use(mw.Recovery)
	r.Use(mw.Logger)
	r.Use(mw.CORS(cfg.Origins()))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	viewerHandler.Register(r)

	r.HandleFunc("/ws/figures/{id}", hub.HandleWebSocket(cfg.OriginHosts()))

	addr := ":" + strconv.Itoa(cfg.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
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

	slog.Info("server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}
