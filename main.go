package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Jupiter-12/kanban/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := &cli{}
	err := c.root().ExecuteContext(ctx)
	c.close()
	if err != nil {
		os.Exit(1)
	}
}

// cli holds the state shared by the commands of one invocation.
type cli struct {
	configPath string
	app        *app
}

func (c *cli) root() *cobra.Command {
	root := &cobra.Command{
		Use:           "kanban",
		Short:         "Command line client for the kanban board service",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			c.app = a
			return nil
		},
	}
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", os.Getenv("KANBAN_CONFIG"), "YAML config file")

	root.AddCommand(
		c.registerCmd(),
		c.loginCmd(),
		c.logoutCmd(),
		c.whoamiCmd(),
		c.usersCmd(),
		c.projectsCmd(),
		c.boardCmd(),
		c.moveCmd(),
		c.reorderCmd(),
		c.columnCmd(),
		c.taskCmd(),
		c.watchCmd(),
		c.commentsCmd(),
		c.serveCmd(),
	)
	return root
}

func (c *cli) close() {
	if c.app != nil {
		c.app.Close()
		c.app = nil
	}
}

func parseID(kind, s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", kind, s)
	}
	return id, nil
}

func parseIDs(kind string, args []string) ([]int64, error) {
	ids := make([]int64, len(args))
	for i, arg := range args {
		id, err := parseID(kind, arg)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
