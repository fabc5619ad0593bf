package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/biztoolkit/internal/buildinfo"
	"github.com/dmitrijs2005/biztoolkit/internal/logging"
	"github.com/dmitrijs2005/biztoolkit/internal/mockapi"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	addr := flag.String("a", ":5001", "listen address")
	secret := flag.String("s", os.Getenv("MOCKAPI_SECRET"), "token signing secret")
	ttl := flag.Duration("t", mockapi.DefaultTokenValidity, "token validity")
	backend := flag.String("log", logging.BackendSlog, "log backend (slog|zap)")
	flag.Parse()

	logger, err := logging.New(*backend, "info", os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	srv := &http.Server{
		Addr: *addr,
		Handler: mockapi.NewRouter(mockapi.Options{
			Secret:        []byte(*secret),
			TokenValidity: *ttl,
			Logger:        logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error(shutdownCtx, "shutdown failed", "error", err)
		}
	}()

	logger.Info(ctx, "mock api listening", "addr", *addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error(ctx, "server stopped", "error", err)
		os.Exit(1)
	}
}
