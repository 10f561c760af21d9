package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/screencast"
	"github.com/gogpu/screencast/internal/config"
	"github.com/gogpu/screencast/server"
	"github.com/gogpu/screencast/store"

	_ "github.com/gogpu/screencast/store/filesystem"
	_ "github.com/gogpu/screencast/store/memory"
	_ "github.com/gogpu/screencast/store/s3"
	_ "github.com/gogpu/screencast/store/sqlite"
)

const shutdownTimeout = 10 * time.Second

func serve(ctx context.Context, cfg config.Config, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", cfg.Addr, "listen address")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Store())
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr: *addr,
		Handler: server.New(st,
			server.WithMaxUploadBytes(cfg.MaxUploadBytes),
			server.WithAllowedOrigins(cfg.AllowedOrigins...),
			server.WithFrameCacheBytes(cfg.FrameCacheBytes),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		screencast.Logger().Info("server: listening", "addr", *addr, "storage", cfg.StorageType)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		screencast.Logger().Info("server: shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
