package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"grocy-planner/internal/httpapi"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the shopping list HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := openDeps()
			if err != nil {
				return err
			}
			defer rt.close()

			if addr == "" {
				addr = rt.cfg.HTTPAddr
			}
			if rt.cfg.LogMode == "production" || rt.cfg.LogMode == "prod" {
				gin.SetMode(gin.ReleaseMode)
			}

			handler := httpapi.NewHandler(rt.newApp(rt.grocySource(), nil), rt.cfg.SnapshotDir, rt.log)
			srv := &http.Server{
				Addr:    addr,
				Handler: httpapi.NewRouter(handler),
			}

			errCh := make(chan error, 1)
			go func() {
				rt.log.Info("http server listening", "addr", addr)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
			}()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			select {
			case err := <-errCh:
				return err
			case <-quit:
			}
			rt.log.Info("shutting down server")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default HTTP_ADDR)")
	return cmd
}
