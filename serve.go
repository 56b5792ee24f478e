package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/Jupiter-12/kanban/gateway"
	"github.com/Jupiter-12/kanban/polling"
)

const shutdownTimeout = 5 * time.Second

func (c *cli) serveCmd() *cobra.Command {
	var projectID int64
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local board gateway for a drag-and-drop UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			ctx := cmd.Context()
			if err := a.requireSession(ctx); err != nil {
				return err
			}
			if port > 0 {
				a.cfg.GatewayPort = port
			}
			if projectID > 0 {
				if err := a.board.LoadProject(ctx, projectID); err != nil {
					return err
				}
			}

			gw := gateway.New(a.board, a.logger)
			poller := polling.New(gw.Reload,
				polling.WithInterval(a.cfg.PollingInterval),
				polling.WithLogger(a.logger),
			)
			gw.SetPoller(poller)
			poller.Start(ctx)
			defer poller.Stop()

			e := gateway.NewEcho(gw, a.cfg.AllowOrigins)
			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				if err := e.Shutdown(shutdownCtx); err != nil {
					a.logger.WithField("error", err).Warn("gateway shutdown")
				}
			}()

			a.logger.WithFields(log.Fields{
				"addr":        a.cfg.GatewayAddr(),
				"api":         a.client.BaseURL(),
				"interval_ms": a.cfg.PollingInterval.Milliseconds(),
				"project_id":  projectID,
			}).Info("gateway listening")
			if err := e.Start(a.cfg.GatewayAddr()); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "project to open on start")
	cmd.Flags().IntVar(&port, "port", 0, "listen port (default $GATEWAY_PORT or 8080)")
	return cmd
}
