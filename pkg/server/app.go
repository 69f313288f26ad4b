package server

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"TargetCast/internal/domain/repository"
	xhttp "TargetCast/pkg/http"
	applogger "TargetCast/pkg/logger"
)

// App encapsulates the entire application lifecycle.
type App struct {
	log   *applogger.Logger
	http  *xhttp.Server
	sink  repository.ForecastSink
	cache io.Closer
}

// New creates a new App. sink and cache may be nil.
func New(l *applogger.Logger, srv *xhttp.Server, sink repository.ForecastSink, cache io.Closer) *App {
	if l == nil {
		l = applogger.NewNop()
	}
	return &App{log: l, http: srv, sink: sink, cache: cache}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunContext(ctx)
}

// RunContext starts the HTTP server and blocks until ctx is done.
func (a *App) RunContext(ctx context.Context) error {
	if err := a.http.Start(); err != nil {
		a.log.Error("http server start error", applogger.Error(err))
		return err
	}
	<-ctx.Done()
	a.log.Info("shutdown signal received")
	return a.shutdown()
}

// shutdown stops the server and then releases the sink and cache.
func (a *App) shutdown() error {
	var firstErr error
	if err := a.http.Stop(context.Background()); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		firstErr = err
	}
	if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			a.log.Warn("forecast sink close error", applogger.Error(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.log.Warn("cache close error", applogger.Error(err))
		}
	}
	a.log.Info("shutdown complete")
	return firstErr
}
