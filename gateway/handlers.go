package gateway

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Jupiter-12/kanban/domain"
)

func (g *Gateway) healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func bindJSON(c echo.Context, v any) error {
	return c.Echo().JSONSerializer.Deserialize(c, v)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}

// remoteContext keeps a change going to the service when the UI hangs up
// mid-request; a half-synced drag would otherwise be left without a reload.
func remoteContext(c echo.Context) context.Context {
	return context.WithoutCancel(c.Request().Context())
}

func (g *Gateway) getBoard(c echo.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return c.JSON(http.StatusOK, g.snapshotLocked())
}

type loadRequest struct {
	ProjectID int64 `json:"project_id"`
}

func (g *Gateway) loadBoard(c echo.Context) error {
	var req loadRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.ProjectID <= 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "project_id is required")
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.board.LoadProject(c.Request().Context(), req.ProjectID); err != nil {
		return g.fail(c, err)
	}
	return c.JSON(http.StatusOK, g.snapshotLocked())
}

// moveRequest is what the drag-and-drop layer reports on drop. Index is where
// the card landed in the target list and defaults to Position, the value sent
// to the service.
type moveRequest struct {
	TargetColumnID int64 `json:"target_column_id"`
	Position       int   `json:"position"`
	Index          *int  `json:"index,omitempty"`
}

func (g *Gateway) moveTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req moveRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Position < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "position must not be negative")
	}
	index := req.Position
	if req.Index != nil {
		index = *req.Index
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	project := g.board.Current()
	if project == nil {
		return echo.NewHTTPError(http.StatusConflict, "no project loaded")
	}
	source, ok := project.DragTask(id, req.TargetColumnID, index)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, "task or column not on the board")
	}
	if err := g.board.MoveTask(remoteContext(c), id, source, req.TargetColumnID, req.Position); err != nil {
		return g.fail(c, err)
	}
	return c.JSON(http.StatusOK, g.snapshotLocked())
}

func (g *Gateway) reorderColumns(c echo.Context) error {
	var req domain.ReorderColumnsRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if len(req.ColumnIDs) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "column_ids is required")
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	project := g.board.Current()
	if project == nil {
		return echo.NewHTTPError(http.StatusConflict, "no project loaded")
	}
	project.ArrangeColumns(req.ColumnIDs)
	if err := g.board.ReorderColumns(remoteContext(c), req.ColumnIDs); err != nil {
		return g.fail(c, err)
	}
	return c.JSON(http.StatusOK, g.snapshotLocked())
}

// mutate runs fn under the lock and answers with the board.
func (g *Gateway) mutate(c echo.Context, fn func(ctx context.Context) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.board.Current() == nil {
		return echo.NewHTTPError(http.StatusConflict, "no project loaded")
	}
	if err := fn(remoteContext(c)); err != nil {
		return g.fail(c, err)
	}
	return c.JSON(http.StatusOK, g.snapshotLocked())
}

func (g *Gateway) createColumn(c echo.Context) error {
	var req domain.ColumnCreate
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "name is required")
	}
	return g.mutate(c, func(ctx context.Context) error {
		return g.board.CreateColumn(ctx, req)
	})
}

func (g *Gateway) updateColumn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.ColumnUpdate
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	return g.mutate(c, func(ctx context.Context) error {
		return g.board.UpdateColumn(ctx, id, req)
	})
}

func (g *Gateway) deleteColumn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return g.mutate(c, func(ctx context.Context) error {
		return g.board.DeleteColumn(ctx, id)
	})
}

func (g *Gateway) createTask(c echo.Context) error {
	columnID, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.TaskCreate
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}
	return g.mutate(c, func(ctx context.Context) error {
		return g.board.CreateTask(ctx, columnID, req)
	})
}

func (g *Gateway) updateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.TaskUpdate
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	if req.Empty() {
		return echo.NewHTTPError(http.StatusBadRequest, "nothing to update")
	}
	return g.mutate(c, func(ctx context.Context) error {
		return g.board.UpdateTask(ctx, id, req)
	})
}

func (g *Gateway) deleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return g.mutate(c, func(ctx context.Context) error {
		return g.board.DeleteTask(ctx, id)
	})
}

type pollerResponse struct {
	Polling bool `json:"polling"`
	Paused  bool `json:"paused"`
}

type visibilityRequest struct {
	Hidden bool `json:"hidden"`
}

func (g *Gateway) pollerState(c echo.Context) error {
	if g.poller == nil {
		return echo.NewHTTPError(http.StatusNotFound, "polling disabled")
	}
	return c.JSON(http.StatusOK, pollerResponse{Polling: g.poller.IsPolling(), Paused: g.poller.IsPaused()})
}

// setVisibility must not hold the lock: showing the board runs the poll
// callback, which takes it.
func (g *Gateway) setVisibility(c echo.Context) error {
	if g.poller == nil {
		return echo.NewHTTPError(http.StatusNotFound, "polling disabled")
	}
	var req visibilityRequest
	if err := bindJSON(c, &req); err != nil {
		return err
	}
	g.poller.SetHidden(req.Hidden)
	return c.JSON(http.StatusOK, pollerResponse{Polling: g.poller.IsPolling(), Paused: g.poller.IsPaused()})
}
