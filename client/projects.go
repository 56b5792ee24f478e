package client

import (
	"context"
	"fmt"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	err := c.get(ctx, "/projects", &projects)
	return projects, err
}

// GetProject fetches the full tree of a project: columns and their tasks in
// server order.
func (c *Client) GetProject(ctx context.Context, id int64) (*domain.ProjectDetail, error) {
	var project domain.ProjectDetail
	if err := c.get(ctx, fmt.Sprintf("/projects/%d", id), &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// FilterProject fetches a project tree holding only the tasks that pass
// filter. The tree is a read-only view: positions in it are not dense.
func (c *Client) FilterProject(ctx context.Context, id int64, filter domain.TaskFilter) (*domain.ProjectDetail, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	path := fmt.Sprintf("/projects/%d", id)
	if q := filter.Query(); len(q) > 0 {
		path += "?" + q.Encode()
	}
	var project domain.ProjectDetail
	if err := c.get(ctx, path, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

func (c *Client) CreateProject(ctx context.Context, req domain.ProjectCreate) (domain.Project, error) {
	var project domain.Project
	err := c.post(ctx, "/projects", req, &project)
	return project, err
}

func (c *Client) UpdateProject(ctx context.Context, id int64, req domain.ProjectUpdate) (domain.Project, error) {
	var project domain.Project
	err := c.put(ctx, fmt.Sprintf("/projects/%d", id), req, &project)
	return project, err
}

func (c *Client) DeleteProject(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/projects/%d", id))
}
