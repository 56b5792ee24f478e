package fakeapi

import (
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"

	"github.com/Jupiter-12/kanban/domain"
)

// SeedProject creates a project owned by ownerID with the named columns.
func (s *Server) SeedProject(ownerID int64, name string, columns ...string) domain.ProjectDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.createProjectLocked(ownerID, name, nil)
	for _, col := range columns {
		s.createColumnLocked(p.ID, col)
	}
	return *s.detail(p.ID)
}

// AddTask appends a task to a column.
func (s *Server) AddTask(columnID int64, title string) domain.Task {
	return s.AddTaskWith(columnID, domain.TaskCreate{Title: title})
}

// AddTaskWith appends a task built from req to a column.
func (s *Server) AddTaskWith(columnID int64, req domain.TaskCreate) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createTaskLocked(columnID, req)
}

// Project returns the server's current tree, or nil.
func (s *Server) Project(id int64) *domain.ProjectDetail {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.detail(id)
}

func (s *Server) createProjectLocked(ownerID int64, name string, description *string) domain.Project {
	now := s.tick()
	p := &domain.Project{ID: s.id(), Name: name, Description: description, OwnerID: ownerID, CreatedAt: now, UpdatedAt: now}
	s.projects[p.ID] = p
	return *p
}

func (s *Server) createColumnLocked(projectID int64, name string) domain.Column {
	now := s.tick()
	col := &domain.Column{
		ID:        s.id(),
		Name:      name,
		ProjectID: projectID,
		Position:  len(s.projectColumns(projectID)),
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.columns[col.ID] = col
	return *col
}

func (s *Server) createTaskLocked(columnID int64, req domain.TaskCreate) domain.Task {
	now := s.tick()
	priority := req.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	task := &domain.Task{
		ID:          s.id(),
		Title:       req.Title,
		ColumnID:    columnID,
		Position:    len(s.columnTasks(columnID)),
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    priority,
		AssigneeID:  req.AssigneeID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.tasks[task.ID] = task
	return s.taskView(task)
}

func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, validationError("id", "value is not a valid integer")
	}
	return id, nil
}

func decodeFields(c echo.Context) (map[string]any, error) {
	fields := map[string]any{}
	dec := sonic.ConfigStd.NewDecoder(c.Request().Body)
	if err := dec.Decode(&fields); err != nil {
		return nil, detailError(http.StatusUnprocessableEntity, "invalid body")
	}
	return fields, nil
}

func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok {
		return nil
	}
	return &s
}

func (s *Server) listProjects(c echo.Context) error {
	user := currentUser(c)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.Project{}
	for id := s.nextID; id > 0; id-- {
		if p, ok := s.projects[id]; ok && p.OwnerID == user.ID {
			out = append(out, *p)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createProject(c echo.Context) error {
	var req domain.ProjectCreate
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return validationError("name", "field required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusCreated, s.createProjectLocked(currentUser(c).ID, req.Name, req.Description))
}

func (s *Server) ownedProject(c echo.Context, id int64) (*domain.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, detailError(http.StatusNotFound, "Project not found")
	}
	if p.OwnerID != currentUser(c).ID {
		return nil, detailError(http.StatusForbidden, "Not enough permissions")
	}
	return p, nil
}

func (s *Server) getProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedProject(c, id); err != nil {
		return err
	}
	filter, err := domain.ParseTaskFilter(c.QueryParams())
	if err != nil {
		return detailError(http.StatusUnprocessableEntity, err.Error())
	}
	return c.JSON(http.StatusOK, s.detail(id).Filter(filter))
}

func (s *Server) updateProject(c echo.Context) error {
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
	p, err := s.ownedProject(c, id)
	if err != nil {
		return err
	}
	if name, ok := fields["name"].(string); ok {
		p.Name = name
	}
	if v, ok := fields["description"]; ok {
		p.Description = optionalString(v)
	}
	p.UpdatedAt = s.tick()
	return c.JSON(http.StatusOK, *p)
}

func (s *Server) deleteProject(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedProject(c, id); err != nil {
		return err
	}
	for _, col := range s.projectColumns(id) {
		s.deleteColumnLocked(col.ID)
	}
	delete(s.projects, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) ownedColumn(c echo.Context, id int64) (*domain.Column, error) {
	col, ok := s.columns[id]
	if !ok {
		return nil, detailError(http.StatusNotFound, "Column not found")
	}
	if _, err := s.ownedProject(c, col.ProjectID); err != nil {
		return nil, err
	}
	return col, nil
}

func (s *Server) createColumn(c echo.Context) error {
	projectID, err := pathID(c)
	if err != nil {
		return err
	}
	var req domain.ColumnCreate
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return validationError("name", "field required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedProject(c, projectID); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, s.createColumnLocked(projectID, req.Name))
}

func (s *Server) updateColumn(c echo.Context) error {
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
	col, err := s.ownedColumn(c, id)
	if err != nil {
		return err
	}
	if name, ok := fields["name"].(string); ok {
		col.Name = name
	}
	col.UpdatedAt = s.tick()
	return c.JSON(http.StatusOK, *col)
}

func (s *Server) deleteColumnLocked(id int64) {
	for _, task := range s.columnTasks(id) {
		s.deleteTaskLocked(task.ID)
	}
	delete(s.columns, id)
}

func (s *Server) deleteColumn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.ownedColumn(c, id); err != nil {
		return err
	}
	s.deleteColumnLocked(id)
	return c.NoContent(http.StatusNoContent)
}

// reorderColumns assigns position = index in column_ids. All columns must
// belong to the first column's project.
func (s *Server) reorderColumns(c echo.Context) error {
	var req domain.ReorderColumnsRequest
	if err := c.Bind(&req); err != nil {
		return validationError("column_ids", "field required")
	}
	if len(req.ColumnIDs) == 0 {
		return detailError(http.StatusBadRequest, "column_ids must not be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	first, err := s.ownedColumn(c, req.ColumnIDs[0])
	if err != nil {
		return err
	}
	for _, id := range req.ColumnIDs[1:] {
		col, ok := s.columns[id]
		if !ok {
			return detailError(http.StatusNotFound, "Column "+strconv.FormatInt(id, 10)+" not found")
		}
		if col.ProjectID != first.ProjectID {
			return detailError(http.StatusBadRequest, "All columns must belong to the same project")
		}
	}
	for i, id := range req.ColumnIDs {
		s.columns[id].Position = i
	}
	out := []domain.Column{}
	for _, col := range s.projectColumns(first.ProjectID) {
		out = append(out, *col)
	}
	return c.JSON(http.StatusOK, out)
}
