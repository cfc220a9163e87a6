package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/mattn/go-sqlite3"

	"github.com/vctt94/holdemtabled/pkg/logging"
	"github.com/vctt94/holdemtabled/pkg/server"
)

func main() {
	// Optional .env for local development; flags win over env.
	_ = godotenv.Load()

	var (
		dbPath     string
		host       string
		port       int
		debugLevel string
	)
	flag.StringVar(&dbPath, "db", envOr("TABLED_DB", ""), "Path to SQLite database file (created if missing)")
	flag.StringVar(&host, "host", envOr("TABLED_HOST", "127.0.0.1"), "Host to listen on")
	flag.IntVar(&port, "port", 8080, "Port to listen on")
	flag.StringVar(&debugLevel, "debuglevel", envOr("TABLED_DEBUG", "info"), "Logging level: trace, debug, info, warn, error")
	flag.Parse()

	if dbPath == "" {
		dbPath = filepath.Join(os.TempDir(), "holdemtabled.sqlite")
	}

	logBackend, err := logging.NewBackend(os.Stderr, debugLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logging: %v\n", err)
		os.Exit(1)
	}
	log := logBackend.Logger("MAIN")

	db, err := server.NewDatabase(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init db: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := server.NewServer(db, logBackend)

	httpSrv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", host, port),
		Handler: srv.Handler(),
	}

	// Shut down cleanly on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Infof("received %s, shutting down", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(ctx); err != nil {
			log.Errorf("http shutdown: %v", err)
		}
		srv.Stop()
	}()

	log.Infof("listening on %s (db: %s)", httpSrv.Addr, dbPath)
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		fmt.Fprintf(os.Stderr, "serve error: %v\n", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
