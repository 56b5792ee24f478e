package client

import (
	"context"
	"fmt"

	"github.com/Jupiter-12/kanban/domain"
)

func (c *Client) CreateColumn(ctx context.Context, projectID int64, req domain.ColumnCreate) (domain.Column, error) {
	var column domain.Column
	err := c.post(ctx, fmt.Sprintf("/projects/%d/columns", projectID), req, &column)
	return column, err
}

func (c *Client) UpdateColumn(ctx context.Context, id int64, req domain.ColumnUpdate) (domain.Column, error) {
	var column domain.Column
	err := c.put(ctx, fmt.Sprintf("/columns/%d", id), req, &column)
	return column, err
}

func (c *Client) DeleteColumn(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/columns/%d", id))
}

// ReorderColumns sends the full ordered id list of a project's columns.
func (c *Client) ReorderColumns(ctx context.Context, req domain.ReorderColumnsRequest) ([]domain.Column, error) {
	var columns []domain.Column
	err := c.put(ctx, "/columns/reorder", req, &columns)
	return columns, err
}
