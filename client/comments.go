package client

import (
	"context"
	"fmt"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *Client) ListComments(ctx context.Context, taskID int64) ([]domain.Comment, error) {
	var comments []domain.Comment
	err := c.get(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), &comments)
	return comments, err
}

func (c *Client) CreateComment(ctx context.Context, taskID int64, req domain.CommentCreate) (domain.Comment, error) {
	var comment domain.Comment
	err := c.post(ctx, fmt.Sprintf("/tasks/%d/comments", taskID), req, &comment)
	return comment, err
}

func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/comments/%d", id))
}
