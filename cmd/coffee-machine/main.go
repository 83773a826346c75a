package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/andreasstove999/coffee-machine-go/internal/config"
	"github.com/andreasstove999/coffee-machine-go/internal/console"
	"github.com/andreasstove999/coffee-machine-go/internal/events"
	"github.com/andreasstove999/coffee-machine-go/internal/inventory"
	"github.com/andreasstove999/coffee-machine-go/internal/logging"
	"github.com/andreasstove999/coffee-machine-go/internal/machine"
	"github.com/andreasstove999/coffee-machine-go/internal/menu"
	"github.com/andreasstove999/coffee-machine-go/internal/payment"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- events ---
	var publisher interface {
		machine.EventPublisher
		Close() error
	}
	if cfg.EventsEnabled() {
		conn, err := events.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("rabbitmq connect", zap.Error(err))
			return 1
		}
		defer conn.Close()

		pub, err := events.NewPublisher(conn, events.NewMemorySequence(), events.PublisherOptions{
			PublishEnveloped: cfg.PublishEnveloped,
			MachineID:        cfg.MachineID,
		})
		if err != nil {
			logger.Error("start publisher", zap.Error(err))
			return 1
		}
		publisher = pub
	} else {
		publisher = events.NewLogPublisher(logger)
	}
	defer func() { _ = publisher.Close() }()

	// --- machine ---
	ledger, err := inventory.NewLedger(cfg.InitialStock)
	if err != nil {
		logger.Error("initial stock", zap.Error(err))
		return 1
	}
	m := machine.New(menu.Default(), ledger, payment.NewProcessor(),
		machine.WithEvents(publisher),
		machine.WithLogger(logger),
	)

	logger.Info("coffee machine ready",
		zap.String("machine_id", cfg.MachineID),
		zap.Bool("events", cfg.EventsEnabled()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- console.New(m, os.Stdin, os.Stdout, logger).Run(ctx)
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal", zap.String("signal", sig.String()))
		cancel()
		m.Shutdown()
	case err := <-errCh:
		if err != nil {
			logger.Error("console stopped", zap.Error(err))
		}
	}

	logger.Info("shutdown complete")
	return 0
}
