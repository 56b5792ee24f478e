package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *cli) registerCmd() *cobra.Command {
	var req domain.UserRegister
	var displayName string
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("KANBAN_PASSWORD")
			}
			if req.Username == "" || req.Email == "" || req.Password == "" {
				return errors.New("username, email and password are required")
			}
			if displayName != "" {
				req.DisplayName = &displayName
			}
			user, err := c.app.session.Register(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (id %d)\n", user.Username, user.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "user name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (default $KANBAN_PASSWORD)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	return cmd
}

func (c *cli) loginCmd() *cobra.Command {
	var req domain.UserLogin
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if req.Password == "" {
				req.Password = os.Getenv("KANBAN_PASSWORD")
			}
			if req.Username == "" || req.Password == "" {
				return errors.New("username and password are required")
			}
			if err := c.app.session.Login(cmd.Context(), req); err != nil {
				return fmt.Errorf("login: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", c.app.session.User().Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "user name")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "password (default $KANBAN_PASSWORD)")
	return cmd
}

func (c *cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := c.app.session.Logout(cmd.Context())
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return err
		},
	}
}

func (c *cli) whoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			user := a.session.User()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s <%s> role=%s\n", displayName(user.Username, user.DisplayName), user.Email, user.Role)
			if claims, err := a.session.Claims(); err == nil && !claims.ExpiresAt.IsZero() {
				fmt.Fprintf(out, "token expires %s\n", claims.ExpiresAt.Local().Format("2006-01-02 15:04"))
			}
			return nil
		},
	}
}

func (c *cli) usersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "users",
		Short: "List users that tasks can be assigned to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := c.app
			if err := a.requireSession(cmd.Context()); err != nil {
				return err
			}
			users, err := a.client.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderUsers(users))
			return nil
		},
	}
}

func displayName(username string, name *string) string {
	if name != nil && *name != "" {
		return *name
	}
	return username
}
