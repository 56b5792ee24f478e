package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/Jupiter-12/kanban/domain"
	"github.com/Jupiter-12/kanban/polling"
)

// openBoard signs in and loads project into the board store.
func (c *cli) openBoard(ctx context.Context, projectID int64) error {
	if projectID <= 0 {
		return errors.New("--project is required")
	}
	if err := c.app.requireSession(ctx); err != nil {
		return err
	}
	return c.app.board.LoadProject(ctx, projectID)
}

func (c *cli) printBoard(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout(), renderBoard(c.app.board.Current()))
}

func (c *cli) boardCmd() *cobra.Command {
	var filter domain.TaskFilter
	var priority string
	var assignee int64
	cmd := &cobra.Command{
		Use:   "board <project>",
		Short: "Show a project's columns and tasks",
		Long: `Show a project's columns and tasks. The filter flags ask the service for
the matching tasks only; every column is still shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			filter.Priority = domain.Priority(priority)
			if cmd.Flags().Changed("assignee") {
				filter.AssigneeID = &assignee
			}
			if filter.IsZero() {
				if err := c.openBoard(cmd.Context(), id); err != nil {
					return err
				}
				c.printBoard(cmd)
				return nil
			}
			if err := filter.Validate(); err != nil {
				return err
			}
			if err := c.app.requireSession(cmd.Context()); err != nil {
				return err
			}
			project, err := c.app.client.FilterProject(cmd.Context(), id, filter)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderBoard(project))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter.Keyword, "keyword", "", "only tasks whose title contains this")
	cmd.Flags().StringVar(&priority, "priority", "", "only tasks with this priority (high, medium, low)")
	cmd.Flags().Int64Var(&assignee, "assignee", 0, "only tasks assigned to this user id")
	cmd.Flags().StringVar(&filter.DueDateStart, "due-from", "", "only tasks due on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&filter.DueDateEnd, "due-to", "", "only tasks due on or before this date (YYYY-MM-DD)")
	return cmd
}

func (c *cli) moveCmd() *cobra.Command {
	var projectID int64
	var index int
	cmd := &cobra.Command{
		Use:   "move <task> <column> <position>",
		Short: "Move a task to a position in a column",
		Long: `Move a task the way dropping a card on the board does. The task is placed
at --index in the target column (default: position) and position is what
the service is told. If the service rejects the move the board is reloaded.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("task/column", args[:2])
			if err != nil {
				return err
			}
			taskID, columnID := ids[0], ids[1]
			var position int
			if _, err := fmt.Sscan(args[2], &position); err != nil || position < 0 {
				return fmt.Errorf("invalid position %q", args[2])
			}
			if !cmd.Flags().Changed("index") {
				index = position
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			b := c.app.board
			source, ok := b.Current().DragTask(taskID, columnID, index)
			if !ok {
				return fmt.Errorf("task %d or column %d is not on project %d", taskID, columnID, projectID)
			}
			if err := b.MoveTask(ctx, taskID, source, columnID, position); err != nil {
				return fmt.Errorf("move rejected, board reloaded: %w", err)
			}
			c.printBoard(cmd)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "project id")
	cmd.Flags().IntVar(&index, "index", 0, "drop index in the target column")
	return cmd
}

func (c *cli) reorderCmd() *cobra.Command {
	var projectID int64
	cmd := &cobra.Command{
		Use:   "reorder <column>...",
		Short: "Set the order of a project's columns",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs("column", args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			b := c.app.board
			b.Current().ArrangeColumns(ids)
			if err := b.ReorderColumns(ctx, ids); err != nil {
				return fmt.Errorf("reorder rejected, board reloaded: %w", err)
			}
			c.printBoard(cmd)
			return nil
		},
	}
	cmd.Flags().Int64VarP(&projectID, "project", "P", 0, "project id")
	return cmd
}

func (c *cli) columnCmd() *cobra.Command {
	var projectID int64
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add, rename or remove columns",
	}
	cmd.PersistentFlags().Int64VarP(&projectID, "project", "P", 0, "project id")

	add := &cobra.Command{
		Use:   "add <name>",
		Short: "Append a column",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			if err := c.app.board.CreateColumn(ctx, domain.ColumnCreate{Name: strings.Join(args, " ")}); err != nil {
				return err
			}
			c.printBoard(cmd)
			return nil
		},
	}
	rename := &cobra.Command{
		Use:   "rename <column> <name>",
		Short: "Rename a column",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			update := domain.ColumnUpdate{Name: domain.Some(strings.Join(args[1:], " "))}
			if err := c.app.board.UpdateColumn(ctx, id, update); err != nil {
				return err
			}
			c.printBoard(cmd)
			return nil
		},
	}
	remove := &cobra.Command{
		Use:   "rm <column>",
		Short: "Delete a column and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			if err := c.app.board.DeleteColumn(ctx, id); err != nil {
				return err
			}
			c.printBoard(cmd)
			return nil
		},
	}
	cmd.AddCommand(add, rename, remove)
	return cmd
}

func (c *cli) taskCmd() *cobra.Command {
	var (
		projectID   int64
		description string
		priority    string
		title       string
		clearDesc   bool
	)
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Add, edit or remove tasks",
	}
	cmd.PersistentFlags().Int64VarP(&projectID, "project", "P", 0, "project id")

	add := &cobra.Command{
		Use:   "add <column> <title>",
		Short: "Append a task to a column",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			columnID, err := parseID("column", args[0])
			if err != nil {
				return err
			}
			req := domain.TaskCreate{Title: strings.Join(args[1:], " "), Priority: domain.Priority(priority)}
			if description != "" {
				req.Description = &description
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			if err := c.app.board.CreateTask(ctx, columnID, req); err != nil {
				return err
			}
			c.printBoard(cmd)
			return nil
		},
	}
	add.Flags().StringVarP(&description, "description", "d", "", "task description")
	add.Flags().StringVar(&priority, "priority", "", "high, medium or low")

	edit := &cobra.Command{
		Use:   "edit <task>",
		Short: "Change a task's title, description or priority",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			var update domain.TaskUpdate
			flags := cmd.Flags()
			if flags.Changed("title") {
				update.Title = domain.Some(title)
			}
			if flags.Changed("priority") {
				update.Priority = domain.Some(domain.Priority(priority))
			}
			switch {
			case clearDesc:
				update.Description = domain.Null[string]()
			case flags.Changed("description"):
				update.Description = domain.Some(description)
			}
			if update.Empty() {
				return errors.New("nothing to change")
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			if err := c.app.board.UpdateTask(ctx, id, update); err != nil {
				return err
			}
			c.printBoard(cmd)
			return nil
		},
	}
	edit.Flags().StringVar(&title, "title", "", "new title")
	edit.Flags().StringVarP(&description, "description", "d", "", "new description")
	edit.Flags().BoolVar(&clearDesc, "clear-description", false, "remove the description")
	edit.Flags().StringVar(&priority, "priority", "", "high, medium or low")

	remove := &cobra.Command{
		Use:   "rm <task>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, projectID); err != nil {
				return err
			}
			if err := c.app.board.DeleteTask(ctx, id); err != nil {
				return err
			}
			c.printBoard(cmd)
			return nil
		},
	}
	cmd.AddCommand(add, edit, remove)
	return cmd
}

func (c *cli) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <project>",
		Short: "Show a board and redraw it as it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if err := c.openBoard(ctx, id); err != nil {
				return err
			}
			a := c.app
			// the poller reloads from its own goroutine
			var mu sync.Mutex
			poller := polling.New(func(ctx context.Context) error {
				mu.Lock()
				defer mu.Unlock()
				return a.board.LoadProject(ctx, id)
			}, polling.WithInterval(a.cfg.PollingInterval), polling.WithLogger(a.logger))

			changes, release := a.board.Subscribe()
			defer release()
			c.printBoard(cmd)
			poller.Start(ctx)
			defer poller.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-changes:
					mu.Lock()
					c.printBoard(cmd)
					mu.Unlock()
				}
			}
		},
	}
}
