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
	"go.uber.org/zap"

	"github.com/goliatone/go-apimerge/pkg/endpoint"
)

func (app *cli) serveCmd() *cobra.Command {
	var (
		addr    string
		modules []string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the merged document over HTTP",
		Long: `Deploys the configured modules into a registry and serves the merged document
at the configured route (default /openapi). SIGHUP reloads every module.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = app.cfg.Server.Addr
			}
			deployments, err := app.deployments(modules)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			reg := app.registry()
			if _, err := reg.DeployAll(ctx, deployments); err != nil {
				return err
			}

			mux := http.NewServeMux()
			pattern, err := endpoint.RegisterRoutes(mux, "", reg,
				endpoint.WithRoutePath(app.cfg.Server.RoutePath),
				endpoint.WithDocsPath(app.cfg.Server.DocsPath),
			)
			if err != nil {
				return err
			}
			server := &http.Server{
				Addr:              addr,
				Handler:           mux,
				ReadHeaderTimeout: 10 * time.Second,
			}

			reload := make(chan os.Signal, 1)
			signal.Notify(reload, syscall.SIGHUP)
			defer signal.Stop(reload)
			go func() {
				for {
					select {
					case <-ctx.Done():
						return
					case <-reload:
						if _, err := reg.DeployAll(ctx, deployments); err != nil {
							app.logger.Warn("reload failed", zap.Error(err))
						}
					}
				}
			}()

			errCh := make(chan error, 1)
			go func() {
				app.logger.Info("serving merged document",
					zap.String("addr", addr),
					zap.String("route", pattern),
					zap.String("docs", app.cfg.Server.DocsPath),
				)
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringArrayVarP(&modules, "module", "m", nil, "module as name=source@/contextRoot (repeatable)")
	return cmd
}
