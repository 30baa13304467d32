package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/joe-stock/internal/api"
	"github.com/joestump/joe-stock/internal/auth"
	"github.com/joestump/joe-stock/internal/build"
	"github.com/joestump/joe-stock/internal/store"
	"github.com/joestump/joe-stock/internal/tags"
	"github.com/joestump/joe-stock/internal/tracing"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			e, err := openEnv(true)
			if err != nil {
				return err
			}
			defer func() { _ = e.Close() }()

			tp, err := tracing.NewProvider(ctx, e.cfg.Tracing)
			if err != nil {
				return err
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := tp.Shutdown(sctx); err != nil {
					e.logger.Warn("tracer shutdown", "err", err)
				}
			}()

			var signer *auth.JWTSigner
			if e.cfg.Auth.JWTSecret != "" {
				signer = auth.NewJWTSigner(e.cfg.Auth.JWTSecret, e.cfg.Auth.JWTTTL)
			}

			router := api.NewRouter(api.Deps{
				BearerAuth: auth.NewBearerTokenMiddleware(auth.NewSQLTokenStore(e.db), store.NewUserStore(e.db), signer, e.logger),
				Tags:       tags.NewManager(store.NewSQLUnitOfWork(e.db), e.logger),
				DB:         e.db,
				Logger:     e.logger,
			})

			srv := &http.Server{
				Addr:              e.cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}

			errCh := make(chan error, 1)
			go func() {
				e.logger.Info("listening",
					"addr", e.cfg.HTTP.Addr,
					"version", build.Version,
					"jwt", signer != nil,
					"tracing", tp.Enabled(),
				)
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			e.logger.Info("shutting down", "timeout", e.cfg.HTTP.ShutdownTimeout)
			sctx, cancel := context.WithTimeout(context.Background(), e.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(sctx)
		},
	}
}
