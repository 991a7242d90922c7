package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/blauwers/receiptd/internal/api"
	"github.com/blauwers/receiptd/internal/config"
	"github.com/blauwers/receiptd/internal/driver"
	"github.com/blauwers/receiptd/internal/ledger"
	"github.com/blauwers/receiptd/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	printers, err := config.LoadPrinters(cfg.PrintersFile)
	if err != nil {
		log.Error("invalid printer inventory", "error", err)
		os.Exit(1)
	}
	for i := range printers {
		if printers[i].Width == 0 {
			printers[i].Width = driver.DefaultWidth
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Print history (optional).
	var led *ledger.Ledger
	if cfg.LedgerPath != "" {
		led, err = ledger.Open(cfg.LedgerPath)
		if err != nil {
			log.Error("open ledger", "error", err)
			os.Exit(1)
		}
	}

	// One driver and one lane per configured printer.
	lanes := make([]pipeline.Printer, 0, len(printers))
	for _, p := range printers {
		var drv driver.Driver
		switch p.Mode {
		case config.ModeRemote:
			drv = driver.NewRemote(driver.RemoteConfig{
				BaseURL: p.URL,
				APIKey:  p.APIKey,
				Width:   p.Width,
				Timeout: cfg.DriverTimeout,
			})
		default:
			drv = driver.NewPreview(p.Width, printerLog{log: log.With("printer", p.Name)})
		}
		lanes = append(lanes, pipeline.Printer{Name: p.Name, Driver: drv, Width: p.Width})
	}

	spool := pipeline.NewSpooler(lanes, cfg.MaxQueueSize, cfg.JobTTL, led, log)
	spool.Start(ctx)

	srv := api.NewServer(spool, printers, led, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown. Handlers submit to the spooler, so the listener
	// drains before the lanes stop; main blocks on done so the ledger
	// finishes flushing before the process exits.
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		spool.Stop()
		if led != nil {
			led.Close()
		}
	}()

	log.Info("starting receiptd", "port", cfg.Port, "printers", len(printers))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
	<-done
}

// printerLog feeds preview driver output into the server log, one
// rendered line per record.
type printerLog struct {
	log *slog.Logger
}

func (p printerLog) Write(b []byte) (int, error) {
	p.log.Info("print", "line", strings.TrimRight(string(b), "\n"))
	return len(b), nil
}
