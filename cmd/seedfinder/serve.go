package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Artimuz/nightreign-seed-finder-go/internal/api"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/catalog"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/config"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/journal"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/record"
	"github.com/Artimuz/nightreign-seed-finder-go/internal/store"
)

func serveCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP resolution service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "seedfinder.yaml", "path to the YAML config file")
	return cmd
}

func runServe(configPath string) error {
	logger := log.New(os.Stdout, "[SERVE] ", log.LstdFlags)

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return err
	}
	logger.Printf("catalog loaded: %d entries", cat.Len())

	db, err := store.NewSQLiteDB(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := db.Migrate(); err != nil {
		return err
	}

	var jw record.JournalWriter
	if cfg.JournalDir != "" {
		j := journal.New(cfg.JournalDir)
		defer j.Close()
		jw = j
	}
	rec := record.New(db, jw, cfg.ConvergenceCooldown.Std())
	defer rec.Flush()

	server := api.NewServer(cat, db, rec)
	server.SetRequestTimeout(cfg.RequestTimeout.Std())

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signalContext()
	defer cancel()
	go server.ReapSessions(ctx, cfg.SessionMaxIdle.Std(), time.Minute)
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel2 := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel2()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Printf("listening on %s", cfg.Listen)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	logger.Printf("shut down")
	return nil
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		cancel()
	}()
	return ctx, cancel
}
