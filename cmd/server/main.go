package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/crmtrail/internal/config"
	"github.com/rpggio/crmtrail/internal/domain/activity"
	"github.com/rpggio/crmtrail/internal/domain/lookup"
	"github.com/rpggio/crmtrail/internal/domain/recorder"
	"github.com/rpggio/crmtrail/internal/mcp"
	"github.com/rpggio/crmtrail/internal/sqlite"
)

const usage = `usage:
  crmtrail                                      run the MCP server
  crmtrail add-key <tenant-id> <token> [note]   register an API key`

const shutdownTimeout = 5 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, args []string) error {
	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	if err := ensureDir(cfg.DB.Path); err != nil {
		return fmt.Errorf("preparing database path: %w", err)
	}
	db, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	if len(args) > 0 {
		return runCommand(ctx, db, args)
	}

	lookupSvc := lookup.NewService(sqlite.NewLookupRepository(db), logger)
	activitySvc := activity.NewService(sqlite.NewActivityRepository(db), logger)
	formatOpts := recorder.FormatOptions{
		CurrencySymbol: cfg.Format.CurrencySymbol,
		DateLayout:     cfg.Format.DateLayout,
	}
	rec := recorder.NewRecorder(activitySvc, lookupSvc,
		recorder.NewMemoryGuard(cfg.Guard.Size, cfg.Guard.TTL), formatOpts, logger)

	logger.Info("recorder ready",
		"entities", len(recorder.DefaultRegistry()),
		"guard_size", cfg.Guard.Size,
		"guard_ttl", cfg.Guard.TTL,
		"currency", cfg.Format.CurrencySymbol,
		"date_layout", cfg.Format.DateLayout,
	)

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Lookups:  lookupSvc,
			Activity: activitySvc,
			Recorder: rec,
		},
		Resolver:      db,
		AuthEnabled:   cfg.Auth.Enabled,
		TransportMode: cfg.Transport.Mode,
		Logger:        logger,
	})

	if cfg.Transport.Mode == "stdio" {
		return serveStdio(ctx, logger, server)
	}
	return serveHTTP(ctx, logger, server, fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port), cfg.Auth.Enabled)
}

func runCommand(ctx context.Context, db *sqlite.DB, args []string) error {
	switch args[0] {
	case "add-key":
		if len(args) < 3 {
			return errors.New(usage)
		}
		note := ""
		if len(args) > 3 {
			note = args[3]
		}
		if err := db.AddAPIKey(ctx, args[2], args[1], note); err != nil {
			return fmt.Errorf("add key: %w", err)
		}
		fmt.Printf("api key registered for tenant %s\n", args[1])
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", args[0], usage)
	}
}

// newLogger writes to the configured log file, or to stderr in stdio mode
// so stdout carries only JSON-RPC.
func newLogger(cfg config.Config) (*slog.Logger, func(), error) {
	var out io.Writer = os.Stdout
	if cfg.Transport.Mode == "stdio" {
		out = os.Stderr
	}
	closeFn := func() {}

	if cfg.Log.Path != "" {
		if err := ensureDir(cfg.Log.Path); err != nil {
			return nil, nil, fmt.Errorf("preparing log path: %w", err)
		}
		file, err := os.OpenFile(cfg.Log.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		out = file
		closeFn = func() { file.Close() }
	}

	logger := slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))
	return logger, closeFn, nil
}

func serveStdio(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server) error {
	logger.Info("starting stdio transport", "auth", "disabled")

	// Run blocks until stdin closes or ctx is canceled.
	err := server.Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func serveHTTP(ctx context.Context, logger *slog.Logger, server *sdkmcp.Server, addr string, authEnabled bool) error {
	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: 30 * time.Minute},
	)

	router := http.NewServeMux()
	router.Handle("/mcp", handler)
	router.Handle("/mcp/", handler)
	router.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	httpServer := &http.Server{Addr: addr, Handler: router}
	errc := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "auth", authEnabled)
		errc <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func ensureDir(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
