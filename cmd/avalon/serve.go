package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/mmcdole/avalon/internal/api"
	"github.com/mmcdole/avalon/internal/library"
	"github.com/mmcdole/avalon/internal/watch"
	flag "github.com/spf13/pflag"
)

func serveCommand() *command {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	listen := fs.String("listen", "", "listen address (overrides config)")
	rescan := fs.Bool("rescan", false, "crawl the collection before serving")
	watchDir := fs.Bool("watch", false, "rescan when the collection changes")

	return &command{
		name:  "serve",
		short: "Serve the collection over HTTP",
		flags: fs,
		exec: func(ctx context.Context, env *environment, _ []string) error {
			if *listen != "" {
				env.cfg.Server.Listen = *listen
			}
			if *watchDir {
				env.cfg.Collection.Watch = true
			}
			return serve(ctx, env, *rescan)
		},
	}
}

func serve(ctx context.Context, env *environment, rescanFirst bool) error {
	cfg, logger := env.cfg, env.logger
	logger.Info("starting avalon", "version", Version)

	st, err := openStore(ctx, env)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := library.NewService(st, logger)
	crawler := newCrawler(env)
	rescan := func(ctx context.Context) (library.Stats, error) {
		return svc.Rescan(ctx, crawler, cfg.Collection.Root, st)
	}

	if rescanFirst {
		_, err = rescan(ctx)
	} else {
		_, err = svc.Reload(ctx)
	}
	if err != nil {
		// Keep serving; requests get SERVER_NOT_READY_ERROR until a reload succeeds
		logger.Error("initial load failed", "error", err)
	}

	if cfg.Collection.Watch {
		w := watch.New(cfg.Collection.Root, cfg.Collection.Debounce, func(ctx context.Context) {
			if _, err := rescan(ctx); err != nil {
				logger.Error("watch rescan failed", "error", err)
			}
		}, logger)
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error("watcher stopped", "error", err)
			}
		}()
	}

	go reloadOnHangup(ctx, svc, env)

	srv := &http.Server{
		Addr:              cfg.Server.Listen,
		Handler:           api.NewHTTP(svc, rescan, logger).Handler(),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.Server.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}

// reloadOnHangup reloads the live collection from the store on every SIGHUP
func reloadOnHangup(ctx context.Context, svc *library.Service, env *environment) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			env.logger.Info("reload requested by signal")
			if _, err := svc.Reload(ctx); err != nil {
				env.logger.Error("signal reload failed", "error", err)
			}
		}
	}
}
