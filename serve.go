package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"co2dash/pkg/web"
)

var serveOpts struct {
	figureCache int
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the interactive dashboard over HTTP",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address (env CO2DASH_ADDR)")
	f.IntVar(&serveOpts.figureCache, "figure-cache", web.DefaultFigureCacheSize, "rendered charts kept in memory")
}

func runServe(cmd *cobra.Command, _ []string) error {
	session, log, err := openSession()
	if err != nil {
		return err
	}
	defer session.Close()

	// Load up front so a missing file or bad schema stops startup.
	ds, err := session.Dataset(cmd.Context())
	if err != nil {
		return err
	}
	log.Info("dataset ready", "records", ds.Len(), "columns", ds.Columns())

	renderer, err := newRenderer(log)
	if err != nil {
		return err
	}
	srv, err := web.New(session, renderer, serveOpts.figureCache)
	if err != nil {
		return err
	}
	httpSrv := web.NewHTTPServer(cfg.Addr, srv.Router())

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", cfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return err
	case <-quit:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
