package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/yourname/fileaccess/internal/app/controlhttp"
	"github.com/yourname/fileaccess/internal/config"
	"github.com/yourname/fileaccess/internal/fileserver"
	"github.com/yourname/fileaccess/internal/logging"
	"github.com/yourname/fileaccess/internal/usecase/fileaccess"
)

// main поднимает loopback файловый сервер и управляющий API, завершается по сигналу.
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	configPath := pflag.String("config", "", "path to YAML config (default $CONFIG_PATH or ./config.yaml)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	log, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return err
	}

	files := fileserver.New(fileserver.Options{
		TempDir:  cfg.TempDir,
		MaxFiles: cfg.MaxFiles,
		MaxBytes: cfg.MaxBytes,
		Logger:   log,
	})
	defer func() {
		if err := files.Close(); err != nil {
			log.Error(context.Background(), "file server close", "err", err)
		}
	}()

	fileAddr, err := files.Start()
	if err != nil {
		return err
	}

	svc := fileaccess.New(fileaccess.Deps{
		Server:    files,
		Inspector: files,
		Logger:    log,
		ChunkSize: cfg.ChunkSize,
		MaxRead:   cfg.MaxRead,
	})
	handler, _ := controlhttp.NewServer(svc, log)

	control := &http.Server{
		Addr:              cfg.ControlAddr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		log.Info(egCtx, "control API listening", "addr", cfg.ControlAddr, "files", fileAddr, "temp_dir", cfg.TempDir)
		if err := control.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Сценарий graceful shutdown при получении SIGTERM/SIGINT.
	eg.Go(func() error {
		<-egCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := control.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn(shutdownCtx, "control shutdown error", "err", err)
		}
		return nil
	})

	err = eg.Wait()
	log.Info(context.Background(), "stopped")
	return err
}
