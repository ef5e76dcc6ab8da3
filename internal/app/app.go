// Package app wires configuration, logging, the store and the session
// coordinator together for the CLI and the HTTP server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/practiz/internal/api"
	"github.com/abhisek/practiz/internal/config"
	"github.com/abhisek/practiz/internal/item"
	"github.com/abhisek/practiz/internal/jobs"
	"github.com/abhisek/practiz/internal/logging"
	"github.com/abhisek/practiz/internal/session"
	"github.com/abhisek/practiz/internal/store"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 10 * time.Second

// Options holds the dependencies of an App beyond its config.
type Options struct {
	// LogWriter defaults to os.Stderr.
	LogWriter io.Writer
	// SessionOptions are passed to the coordinator, mainly for tests.
	SessionOptions []session.Option
}

// App is the assembled application.
type App struct {
	Config      config.Config
	Log         *slog.Logger
	Store       *store.Store
	Coordinator *session.Coordinator
}

// New opens the store named by cfg and builds the coordinator.
func New(cfg config.Config, opts Options) (*App, error) {
	log, err := logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "practiz",
		Writer:  opts.LogWriter,
	})
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dbPath := cfg.DB
	if dbPath == "" {
		if dbPath, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve DB path: %w", err)
		}
	} else if err := store.EnsureDir(dbPath); err != nil {
		return nil, fmt.Errorf("create DB dir: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	log.Debug("store opened", "path", dbPath)

	sessOpts := append([]session.Option{session.WithLogger(log)}, opts.SessionOptions...)
	coord := session.New(st, session.Config{
		DefaultDailyTarget: cfg.DailyTarget,
		Location:           loc,
		Weights:            cfg.Weights,
		Mastery:            cfg.Mastery,
	}, sessOpts...)

	return &App{Config: cfg, Log: log, Store: st, Coordinator: coord}, nil
}

// Close releases the store.
func (a *App) Close() error {
	return a.Store.Close()
}

// ImportFile loads a YAML or JSON pool file and upserts its items. It
// returns the number of items stored.
func (a *App) ImportFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pool: %w", err)
	}
	defer f.Close()

	items, err := item.ParsePool(f, item.FormatFromPath(path))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	if err := a.Store.Conn().UpsertItems(ctx, items, time.Now().UTC()); err != nil {
		return 0, err
	}
	a.Log.Info("items imported", "path", path, "count", len(items))
	return len(items), nil
}

// Handler returns the HTTP handler for the API.
func (a *App) Handler() http.Handler {
	return api.NewRouter(api.NewHandlers(a.Coordinator, a.Store, a.Log))
}

// Serve runs the HTTP server and the maintenance scheduler until ctx is
// done, then shuts both down.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.Config.Listen,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	sched := jobs.New(a.Coordinator, a.Config.Jobs.SessionIdleTimeout, a.Config.Jobs.ReapInterval, a.Log)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.Log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return sched.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		a.Log.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
