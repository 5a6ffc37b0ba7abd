package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"FinSignal/internal/scheduler"
	xhttp "FinSignal/pkg/http"
	pkgkafka "FinSignal/pkg/kafka"
	applogger "FinSignal/pkg/logger"
)

type namedCloser struct {
	name string
	c    io.Closer
}

// App owns the long-running components and their shutdown order:
// HTTP first, then the consumer and scanner, then infrastructure clients.
type App struct {
	l               *applogger.Logger
	httpServer      *xhttp.Server
	consumer        *pkgkafka.Consumer
	handler         pkgkafka.MessageHandler
	scanner         *scheduler.Scanner
	scanSpec        string
	closers         []namedCloser
	shutdownTimeout time.Duration
}

// New creates a new App around the HTTP server.
func New(l *applogger.Logger, httpServer *xhttp.Server, shutdownTimeout time.Duration) *App {
	if l == nil {
		l = applogger.Nop()
	}
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &App{l: l, httpServer: httpServer, shutdownTimeout: shutdownTimeout}
}

// SetConsumer attaches a Kafka consumer and the handler it dispatches to.
func (a *App) SetConsumer(c *pkgkafka.Consumer, h pkgkafka.MessageHandler) {
	a.consumer = c
	a.handler = h
}

// SetScanner attaches a scheduled scanner running on a six-field cron spec.
func (a *App) SetScanner(s *scheduler.Scanner, spec string) {
	a.scanner = s
	a.scanSpec = spec
}

// AddCloser registers a resource closed at shutdown, in reverse order of registration.
func (a *App) AddCloser(name string, c io.Closer) {
	if c != nil {
		a.closers = append(a.closers, namedCloser{name: name, c: c})
	}
}

// Start launches every attached component without blocking.
func (a *App) Start() error {
	if a.consumer != nil && a.handler != nil {
		a.consumer.RegisterHandler(a.handler)
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("start kafka consumer: %w", err)
		}
		a.l.Info("kafka consumer started", applogger.String("topic", a.handler.Topic()))
	}

	if a.scanner != nil {
		if err := a.scanner.Register(a.scanSpec); err != nil {
			return err
		}
		a.scanner.Start()
	}

	if a.httpServer != nil {
		if err := a.httpServer.Start(); err != nil {
			return fmt.Errorf("start http server: %w", err)
		}
	}
	return nil
}

// Run starts the application and blocks until interrupted.
func (a *App) Run() error {
	if err := a.Start(); err != nil {
		a.l.Error("startup failed", applogger.Error(err))
		_ = a.Shutdown(context.Background())
		return err
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	a.l.Info("shutdown signal received", applogger.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()
	return a.Shutdown(ctx)
}

// Shutdown gracefully stops all components. Errors are logged; the first one is returned.
func (a *App) Shutdown(ctx context.Context) error {
	a.l.Info("shutting down...")
	var first error
	keep := func(err error) {
		if first == nil {
			first = err
		}
	}

	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			a.l.Error("http shutdown error", applogger.Error(err))
			keep(err)
		}
	}
	if a.scanner != nil {
		if err := a.scanner.Stop(ctx); err != nil {
			a.l.Warn("scanner stop error", applogger.Error(err))
			keep(err)
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			a.l.Warn("kafka consumer stop error", applogger.Error(err))
			keep(err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		nc := a.closers[i]
		if err := nc.c.Close(); err != nil {
			a.l.Warn("close error", applogger.String("resource", nc.name), applogger.Error(err))
			keep(err)
		}
	}

	a.l.Info("shutdown complete")
	return first
}
