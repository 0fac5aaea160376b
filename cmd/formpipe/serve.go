package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-formpipe/internal/devserver"
	"github.com/goliatone/go-formpipe/pkg/config"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development server",
		Long: `Serves every configured form as a page, the thank-you page and a stub
submission endpoint that answers the way a real one would. With --config the
file is watched and reloaded on change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := *a.cfg
			if addr != "" {
				cfg.Stub.Addr = addr
			}
			srv, err := devserver.New(&cfg, devserver.WithLogger(a.logger))
			if err != nil {
				return err
			}

			g, ctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				return srv.ListenAndServe(ctx)
			})
			if watch && a.configPath != "" {
				g.Go(func() error {
					return config.Watch(ctx, a.configPath, func(next *config.Config) {
						if addr != "" {
							next.Stub.Addr = addr
						}
						srv.SetConfig(next)
						a.logger.Info("config reloaded", zap.Int("forms", len(next.Forms)))
					}, config.WithWatchLogger(a.logger))
				})
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "serving %d form(s) on http://%s\n", len(cfg.Forms), cfg.Stub.Addr)
			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&addr, "addr", "", "listen address (overrides stub.addr)")
	flags.BoolVar(&watch, "watch", true, "reload the config file when it changes")
	return cmd
}
