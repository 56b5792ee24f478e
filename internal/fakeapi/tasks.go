package fakeapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Jupiter-12/kanban/domain"
)

func (s *Server) ownedTask(c echo.Context, id int64) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, detailError(http.StatusNotFound, "Task not found")
	}
	if _, err := s.ownedColumn(c, task.ColumnID); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Server) createTask(c echo.Context) error {
	columnID, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.TaskCreate
	if err := c.Bind(&req); err != nil || req.Title == "" {
		return validationError("title", "field required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedColumn(c, columnID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s.createTaskLocked(columnID, req))
}

func (s *Server) updateTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	fields, err := decodeFields(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.ownedTask(c, id)
	if err != nil {
		return err
	}
	if title, ok := fields["title"].(string); ok {
		if title == "" {
			return validationError("title", "ensure this value has at least 1 characters")
		}
		task.Title = title
	}
	if v, ok := fields["description"]; ok {
		task.Description = optionalString(v)
	}
	if v, ok := fields["priority"].(string); ok {
		task.Priority = domain.Priority(v)
	}
	if v, ok := fields["due_date"]; ok {
		task.DueDate = nil
		if raw, ok := v.(string); ok {
			due, err := domain.ParseTimestamp(raw)
			if err != nil {
				return validationError("due_date", "invalid datetime format")
			}
			task.DueDate = &due
		}
	}
	if v, ok := fields["assignee_id"]; ok {
		task.AssigneeID = nil
		if n, ok := v.(float64); ok {
			assignee := int64(n)
			task.AssigneeID = &assignee
		}
	}
	task.UpdatedAt = s.tick()
	return c.JSON(http.StatusOK, s.taskView(task))
}

func (s *Server) deleteTaskLocked(id int64) {
	for cid, comment := range s.comments {
		if comment.TaskID == id {
			delete(s.comments, cid)
		}
	}
	task := s.tasks[id]
	delete(s.tasks, id)
	if task == nil {
		return
	}
	for _, rest := range s.columnTasks(task.ColumnID) {
		if rest.Position > task.Position {
			rest.Position--
		}
	}
}

func (s *Server) deleteTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedTask(c, id); err != nil {
		return err
	}
	s.deleteTaskLocked(id)
	return c.NoContent(http.StatusNoContent)
}

// moveTask shifts the neighbours of the moved task the way the service does:
// within a column the tasks between the old and new slot close the gap, across
// columns the source closes the gap and the target opens one at position.
func (s *Server) moveTask(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.MoveTaskRequest
	if err := c.Bind(&req); err != nil {
		return validationError("target_column_id", "field required")
	}
	if req.Position < 0 {
		return validationError("position", "ensure this value is greater than or equal to 0")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	task, err := s.ownedTask(c, id)
	if err != nil {
		return err
	}
	target, ok := s.columns[req.TargetColumnID]
	if !ok {
		return detailError(http.StatusNotFound, "Target column not found")
	}
	if target.ProjectID != s.columns[task.ColumnID].ProjectID {
		return detailError(http.StatusBadRequest, "Target column must belong to the same project")
	}

	from := task.Position
	if task.ColumnID == req.TargetColumnID {
		for _, other := range s.columnTasks(task.ColumnID) {
			if other.ID == task.ID {
				continue
			}
			switch {
			case from < req.Position && other.Position > from && other.Position <= req.Position:
				other.Position--
			case from > req.Position && other.Position >= req.Position && other.Position < from:
				other.Position++
			}
		}
	} else {
		for _, other := range s.columnTasks(task.ColumnID) {
			if other.Position > from {
				other.Position--
			}
		}
		for _, other := range s.columnTasks(req.TargetColumnID) {
			if other.Position >= req.Position {
				other.Position++
			}
		}
		task.ColumnID = req.TargetColumnID
	}
	task.Position = req.Position
	task.UpdatedAt = s.tick()
	return c.JSON(http.StatusOK, s.taskView(task))
}
