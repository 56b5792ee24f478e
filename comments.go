package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *cli) commentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comments <task>",
		Short: "List a task's comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			comments, err := a.client.ListComments(cmd.Context(), taskID)
			if err != nil {
				return err
			}
			if len(comments) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No comments")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderComments(comments))
			return nil
		},
	}

	add := &cobra.Command{
		Use:   "add <task> <text>",
		Short: "Comment on a task",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := parseID("task", args[0])
			if err != nil {
				return err
			}
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			comment, err := a.client.CreateComment(cmd.Context(), taskID, domain.CommentCreate{Content: strings.Join(args[1:], " ")})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added comment %d\n", comment.ID)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:   "rm <comment>",
		Short: "Delete one of your comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID("comment", args[0])
			if err != nil {
				return err
			}
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.client.DeleteComment(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted comment %d\n", id)
			return nil
		},
	}
	cmd.AddCommand(add, remove)
	return cmd
}
