package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/naturepower/internal/app"
)

// runApp opens the store and launches the terminal app, keeping the
// sweeper and store sync running alongside it.
func runApp(cmd *cobra.Command) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	c, err := openContainer(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	c.progress.UpdateStreak(ctx)

	g, ctx := errgroup.WithContext(ctx)
	startBackground(ctx, g, c)
	g.Go(func() error {
		defer cancel()
		return app.Run(ctx, c.screens(), c.bus, log)
	})
	return g.Wait()
}

// startBackground runs the sweeper and, when the backend supports it, the
// store sync in g until ctx is done.
func startBackground(ctx context.Context, g *errgroup.Group, c *container) {
	sw := c.sweeper()
	g.Go(func() error {
		if err := sw.Start(ctx); err != nil {
			return err
		}
		<-ctx.Done()
		sw.RunNow(context.Background())
		return nil
	})

	if s, ok := c.syncer(); ok {
		g.Go(func() error { return s.Run(ctx) })
	} else {
		log.Debug("store sync unavailable for backend", "backend", cfg.Store.Backend)
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the learner and teacher API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		if addr == "" {
			addr = cfg.Server.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		c, err := openContainer(ctx)
		if err != nil {
			return err
		}
		defer c.Close()

		attachNotifier(c, log)

		g, ctx := errgroup.WithContext(ctx)
		startBackground(ctx, g, c)
		srv := newServer(addr, c)
		g.Go(func() error {
			if err := srv.Run(ctx); err != nil {
				return fmt.Errorf("serve %s: %w", addr, err)
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (default from server.addr)")
}
