package client

import (
	"context"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *Client) Register(ctx context.Context, req domain.UserRegister) (domain.User, error) {
	var user domain.User
	err := c.post(ctx, "/auth/register", req, &user)
	return user, err
}

func (c *Client) Login(ctx context.Context, req domain.UserLogin) (domain.TokenResponse, error) {
	var token domain.TokenResponse
	err := c.post(ctx, "/auth/login", req, &token)
	return token, err
}

// Logout revokes the current token on the service.
func (c *Client) Logout(ctx context.Context) error {
	return c.post(ctx, "/auth/logout", nil, nil)
}

func (c *Client) CurrentUser(ctx context.Context) (domain.User, error) {
	var user domain.User
	err := c.get(ctx, "/auth/me", &user)
	return user, err
}

// ListUsers returns the users that tasks can be assigned to.
func (c *Client) ListUsers(ctx context.Context) ([]domain.UserListItem, error) {
	var users []domain.UserListItem
	err := c.get(ctx, "/users", &users)
	return users, err
}
