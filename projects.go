package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *cli) projectsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "List your projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.projects.Fetch(cmd.Context()); err != nil {
				return err
			}
			if a.projects.Count() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderProjects(a.projects.List()))
			return nil
		},
	}

	var description string
	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a project",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			req := domain.ProjectCreate{Name: strings.Join(args, " ")}
			if description != "" {
				req.Description = &description
			}
			project, err := a.projects.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %d %s\n", project.ID, project.Name)
			return nil
		},
	}
	create.Flags().StringVarP(&description, "description", "d", "", "project description")

	rename := &cobra.Command{
		Use:   "rename <project> <name>",
		Short: "Rename a project",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			project, err := a.projects.Update(cmd.Context(), id, domain.ProjectUpdate{Name: domain.Some(strings.Join(args[1:], " "))})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed project %d to %s\n", project.ID, project.Name)
			return nil
		},
	}

	remove := &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"delete"},
		Short:   "Delete a project with its columns and tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := c.app
			id, err := parseID("project", args[0])
			if err != nil {
				return err
			}
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := a.projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %d\n", id)
			return nil
		},
	}

	cmd.AddCommand(create, rename, remove)
	return cmd
}
