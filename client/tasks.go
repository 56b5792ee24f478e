package client

import (
	"context"
	"fmt"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *Client) CreateTask(ctx context.Context, columnID int64, req domain.TaskCreate) (domain.Task, error) {
	var task domain.Task
	err := c.post(ctx, fmt.Sprintf("/columns/%d/tasks", columnID), req, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id int64, req domain.TaskUpdate) (domain.Task, error) {
	var task domain.Task
	err := c.put(ctx, fmt.Sprintf("/tasks/%d", id), req, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/tasks/%d", id))
}

// MoveTask relocates a task and returns the service's copy of it.
func (c *Client) MoveTask(ctx context.Context, id int64, req domain.MoveTaskRequest) (domain.Task, error) {
	var task domain.Task
	err := c.put(ctx, fmt.Sprintf("/tasks/%d/move", id), req, &task)
	return task, err
}
