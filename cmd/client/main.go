package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/biztoolkit/internal/buildinfo"
	"github.com/dmitrijs2005/biztoolkit/internal/client/api"
	"github.com/dmitrijs2005/biztoolkit/internal/client/cli"
	"github.com/dmitrijs2005/biztoolkit/internal/client/config"
	"github.com/dmitrijs2005/biztoolkit/internal/client/notify"
	"github.com/dmitrijs2005/biztoolkit/internal/client/preferences"
	"github.com/dmitrijs2005/biztoolkit/internal/client/session"
	"github.com/dmitrijs2005/biztoolkit/internal/client/storage"
	"github.com/dmitrijs2005/biztoolkit/internal/client/system"
	"github.com/dmitrijs2005/biztoolkit/internal/filex"
	"github.com/dmitrijs2005/biztoolkit/internal/logging"
	"golang.org/x/sync/errgroup"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := run(cfg); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config) error {
	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stderr)
	if err != nil {
		return err
	}
	if z, ok := logger.(*logging.ZapLogger); ok {
		defer z.Sync()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dbPath, err := filex.EnsureParentDir(cfg.DatabasePath)
	if err != nil {
		return err
	}
	logger.Debug(ctx, "opening local storage", "path", dbPath)

	store, err := storage.Open(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	discarded, err := store.EnsureSchema(ctx)
	if err != nil {
		return err
	}
	if discarded {
		logger.Warn(ctx, "stored session and preferences were from another version and have been reset")
	}

	client, err := api.NewHTTPClient(cfg.APIBaseURL, cfg.RequestTimeout, api.NewStoreTokenSource(store),
		api.WithLogger(logger.With("component", "api")))
	if err != nil {
		return err
	}

	var env system.Environment
	if cfg.AppearanceFile != "" {
		path, err := filex.EnsureParentDir(cfg.AppearanceFile)
		if err != nil {
			return err
		}
		fe, err := system.NewFileEnvironment(path, logger.With("component", "appearance"))
		if err != nil {
			return err
		}
		defer fe.Close()
		env = fe
	} else {
		env = system.NewStaticEnvironment()
	}

	sess := session.New(client, store, notify.NewWriterNotifier(os.Stdout), logger.With("component", "session"))
	defer sess.Close()
	client.SetUnauthorizedHandler(sess.HandleUnauthorized)

	prefs := preferences.New(ctx, store, env, logger.With("component", "preferences"))
	defer prefs.Close()

	app := cli.NewApp(cfg, sess, prefs, client, logger, os.Stdin, os.Stdout)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		app.StartOnlineStatusWatcher(gctx, cfg.OnlineCheckInterval)
		return nil
	})

	// The REPL blocks on stdin, so it is not waited for once a signal arrives.
	replDone := make(chan struct{})
	go func() {
		defer close(replDone)
		app.Run(gctx)
	}()

	select {
	case <-replDone:
	case <-gctx.Done():
		io.WriteString(os.Stdout, "\n")
	}
	stop()

	return g.Wait()
}
