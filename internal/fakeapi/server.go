// Package fakeapi is an in-memory stand-in for the kanban REST service. It
// keeps the service's ordering rules for task moves and column reorders and
// lets tests inject failures per route.
package fakeapi

import (
	"bytes"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Jupiter-12/kanban/domain"
)

// Call is one request observed by the server.
type Call struct {
	Method string
	Route  string
	Path   string
	Query  string
	Body   []byte
}

type failure struct {
	status int
	detail any
}

type userRecord struct {
	domain.User
	password string
}

// Server implements http.Handler.
type Server struct {
	e      *echo.Echo
	secret []byte

	mu       sync.Mutex
	clock    time.Time
	nextID   int64
	users    map[int64]*userRecord
	projects map[int64]*domain.Project
	columns  map[int64]*domain.Column
	tasks    map[int64]*domain.Task
	comments map[int64]*domain.Comment
	revoked  map[string]bool
	failures map[string]failure
	calls    []Call
}

// New returns an empty server.
func New() *Server {
	s := &Server{
		e:        echo.New(),
		secret:   []byte("fakeapi-secret"),
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		users:    make(map[int64]*userRecord),
		projects: make(map[int64]*domain.Project),
		columns:  make(map[int64]*domain.Column),
		tasks:    make(map[int64]*domain.Task),
		comments: make(map[int64]*domain.Comment),
		revoked:  make(map[string]bool),
		failures: make(map[string]failure),
	}
	s.e.HideBanner = true
	s.e.HTTPErrorHandler = s.handleError
	s.e.Use(s.record)
	s.register()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) register() {
	g := s.e.Group("/api")
	g.POST("/auth/register", s.registerUser)
	g.POST("/auth/login", s.login)
	g.POST("/auth/logout", s.logout, s.authenticated)
	g.GET("/auth/me", s.me, s.authenticated)
	g.GET("/users", s.listUsers, s.authenticated)

	g.GET("/projects", s.listProjects, s.authenticated)
	g.POST("/projects", s.createProject, s.authenticated)
	g.GET("/projects/:id", s.getProject, s.authenticated)
	g.PUT("/projects/:id", s.updateProject, s.authenticated)
	g.DELETE("/projects/:id", s.deleteProject, s.authenticated)

	g.POST("/projects/:id/columns", s.createColumn, s.authenticated)
	g.PUT("/columns/reorder", s.reorderColumns, s.authenticated)
	g.PUT("/columns/:id", s.updateColumn, s.authenticated)
	g.DELETE("/columns/:id", s.deleteColumn, s.authenticated)

	g.POST("/columns/:id/tasks", s.createTask, s.authenticated)
	g.PUT("/tasks/:id", s.updateTask, s.authenticated)
	g.DELETE("/tasks/:id", s.deleteTask, s.authenticated)
	g.PUT("/tasks/:id/move", s.moveTask, s.authenticated)

	g.GET("/tasks/:id/comments", s.listComments, s.authenticated)
	g.POST("/tasks/:id/comments", s.createComment, s.authenticated)
	g.DELETE("/comments/:id", s.deleteComment, s.authenticated)
}

// Fail makes every following request to route answer with status and detail.
// route is the method and the echo path, e.g. "PUT /api/tasks/:id/move".
func (s *Server) Fail(route string, status int, detail any) {
	s.mu.Lock()
	s.failures[route] = failure{status: status, detail: detail}
	s.mu.Unlock()
}

// Recover removes an injected failure.
func (s *Server) Recover(route string) {
	s.mu.Lock()
	delete(s.failures, route)
	s.mu.Unlock()
}

// Calls returns a copy of the requests seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallsTo returns the requests that matched route.
func (s *Server) CallsTo(route string) []Call {
	var out []Call
	for _, c := range s.Calls() {
		if c.Method+" "+c.Route == route {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls forgets the recorded requests.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

func (s *Server) record(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		var body []byte
		if req.Body != nil {
			body, _ = io.ReadAll(req.Body)
			_ = req.Body.Close()
			req.Body = io.NopCloser(bytes.NewReader(body))
		}
		route := req.Method + " " + c.Path()
		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: req.Method, Route: c.Path(), Path: req.URL.Path, Query: req.URL.RawQuery, Body: body})
		f, failing := s.failures[route]
		s.mu.Unlock()
		if failing {
			return c.JSON(f.status, map[string]any{"detail": f.detail})
		}
		return next(c)
	}
}

func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	var detail any = err.Error()
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		detail = he.Message
	}
	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, map[string]any{"detail": detail})
}

func (s *Server) tick() domain.Timestamp {
	s.clock = s.clock.Add(time.Second)
	return domain.NewTimestamp(s.clock)
}

func (s *Server) id() int64 {
	s.nextID++
	return s.nextID
}

func detailError(status int, detail string) error {
	return echo.NewHTTPError(status, detail)
}

func (s *Server) projectColumns(projectID int64) []*domain.Column {
	var out []*domain.Column
	for _, col := range s.columns {
		if col.ProjectID == projectID {
			out = append(out, col)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Server) columnTasks(columnID int64) []*domain.Task {
	var out []*domain.Task
	for _, task := range s.tasks {
		if task.ColumnID == columnID {
			out = append(out, task)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Position != out[j].Position {
			return out[i].Position < out[j].Position
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Server) detail(projectID int64) *domain.ProjectDetail {
	project, ok := s.projects[projectID]
	if !ok {
		return nil
	}
	out := &domain.ProjectDetail{Project: *project, Columns: []domain.ColumnWithTasks{}}
	for _, col := range s.projectColumns(projectID) {
		cwt := domain.ColumnWithTasks{Column: *col, Tasks: []domain.Task{}}
		for _, task := range s.columnTasks(col.ID) {
			cwt.Tasks = append(cwt.Tasks, s.taskView(task))
		}
		out.Columns = append(out.Columns, cwt)
	}
	return out
}

func (s *Server) taskView(task *domain.Task) domain.Task {
	out := *task
	out.Assignee = nil
	if task.AssigneeID != nil {
		if u, ok := s.users[*task.AssigneeID]; ok {
			out.Assignee = &domain.Assignee{ID: u.ID, Username: u.Username, DisplayName: u.DisplayName}
		}
	}
	return out
}
