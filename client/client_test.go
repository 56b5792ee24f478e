package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"

	"github.com/Jupiter-12/kanban/domain"
	"github.com/Jupiter-12/kanban/internal/assertx"
	"github.com/Jupiter-12/kanban/internal/fakeapi"
)

func TestRequestHeaders(t *testing.T) {
	var gotAuth, gotID, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(HeaderRequestID)
		gotType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":3,"title":"t","column_id":2,"position":0}`))
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("tok")))
	task, err := c.MoveTask(context.Background(), 3, domain.MoveTaskRequest{TargetColumnID: 2, Position: 0})
	assertx.NoError(t, err)
	assertx.Equal(t, int64(3), task.ID)
	assertx.Equal(t, "Bearer tok", gotAuth)
	assertx.Equal(t, "application/json", gotType)
	assertx.Equal(t, `{"target_column_id":2,"position":0}`, gotBody)
	if _, err := uuid.Parse(gotID); err != nil {
		t.Fatalf("expected uuid request id, got %q", gotID)
	}
}

func TestNoAuthorizationWithoutToken(t *testing.T) {
	var sawAuth bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuth = r.Header["Authorization"]
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(StaticToken("")))
	assertx.NoError(t, c.DeleteTask(context.Background(), 1))
	if sawAuth {
		t.Fatalf("expected no Authorization header")
	}
}

func TestAPIErrorDetail(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{name: "string", status: http.StatusNotFound, body: `{"detail":"Task not found"}`, want: "Task not found"},
		{name: "validation", status: http.StatusUnprocessableEntity,
			body: `{"detail":[{"loc":["body","position"],"msg":"ensure this value is greater than or equal to 0","type":"value_error"}]}`,
			want: "position: ensure this value is greater than or equal to 0"},
		{name: "plain", status: http.StatusBadGateway, body: `upstream down`, want: "upstream down"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := New(srv.URL).GetProject(context.Background(), 9)
			apiErr, ok := err.(*APIError)
			if !ok {
				t.Fatalf("expected *APIError, got %T %v", err, err)
			}
			assertx.Equal(t, tt.status, apiErr.StatusCode)
			assertx.Equal(t, tt.want, apiErr.Detail)
			assertx.Equal(t, "/projects/9", apiErr.Path)
			assertx.Equal(t, http.MethodGet, apiErr.Method)
			if !strings.Contains(apiErr.Error(), tt.want) {
				t.Fatalf("error string should carry detail: %s", apiErr.Error())
			}
		})
	}
}

func TestStatusHelpers(t *testing.T) {
	wrapped := &APIError{StatusCode: http.StatusUnauthorized}
	if !IsUnauthorized(wrapped) || IsNotFound(wrapped) {
		t.Fatalf("unexpected helper results for 401")
	}
	if !IsNotFound(&APIError{StatusCode: http.StatusNotFound}) {
		t.Fatalf("expected 404 to be not found")
	}
	assertx.Equal(t, 0, StatusCode(context.Canceled))
}

func TestTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, WithTimeout(50*time.Millisecond))
	if _, err := c.ListProjects(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
}

func TestDefaults(t *testing.T) {
	c := New("")
	assertx.Equal(t, DefaultBaseURL, c.BaseURL())
	assertx.Equal(t, DefaultTimeout, c.http.Timeout)
	assertx.Equal(t, "http://x/api", New("http://x/api/").BaseURL())
}

func TestDebugLogging(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(log.DebugLevel)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	_, err := New(srv.URL, WithLogger(logger)).ListUsers(context.Background())
	assertx.NoError(t, err)
	entry := hook.LastEntry()
	if entry == nil {
		t.Fatalf("expected a debug log entry")
	}
	assertx.Equal(t, "/users", entry.Data["path"].(string))
	assertx.Equal(t, http.StatusOK, entry.Data["status"].(int))
}

type sessionToken struct{ token string }

func (s *sessionToken) Token() string { return s.token }

func TestEndpointsAgainstFakeService(t *testing.T) {
	api := fakeapi.New()
	srv := httptest.NewServer(api)
	defer srv.Close()
	ctx := context.Background()

	tokens := &sessionToken{}
	c := New(srv.URL+"/api", WithTokenSource(tokens))

	user, err := c.Register(ctx, domain.UserRegister{Username: "ann", Email: "ann@example.com", Password: "pw"})
	assertx.NoError(t, err)
	tok, err := c.Login(ctx, domain.UserLogin{Username: "ann", Password: "pw"})
	assertx.NoError(t, err)
	assertx.Equal(t, "bearer", tok.TokenType)
	tokens.token = tok.AccessToken

	me, err := c.CurrentUser(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, user.ID, me.ID)

	project, err := c.CreateProject(ctx, domain.ProjectCreate{Name: "Demo"})
	assertx.NoError(t, err)
	todo, err := c.CreateColumn(ctx, project.ID, domain.ColumnCreate{Name: "Todo"})
	assertx.NoError(t, err)
	done, err := c.CreateColumn(ctx, project.ID, domain.ColumnCreate{Name: "Done"})
	assertx.NoError(t, err)
	assertx.Equal(t, 1, done.Position)

	task, err := c.CreateTask(ctx, todo.ID, domain.TaskCreate{Title: "write"})
	assertx.NoError(t, err)
	assertx.Equal(t, domain.PriorityMedium, task.Priority)

	desc := "details"
	updated, err := c.UpdateTask(ctx, task.ID, domain.TaskUpdate{Description: domain.Some(desc), AssigneeID: domain.Some(user.ID)})
	assertx.NoError(t, err)
	if updated.Description == nil || *updated.Description != desc || updated.Assignee == nil {
		t.Fatalf("unexpected update result %#v", updated)
	}
	cleared, err := c.UpdateTask(ctx, task.ID, domain.TaskUpdate{Description: domain.Null[string]()})
	assertx.NoError(t, err)
	if cleared.Description != nil || cleared.AssigneeID == nil {
		t.Fatalf("expected only description cleared, got %#v", cleared)
	}

	moved, err := c.MoveTask(ctx, task.ID, domain.MoveTaskRequest{TargetColumnID: done.ID, Position: 0})
	assertx.NoError(t, err)
	assertx.Equal(t, done.ID, moved.ColumnID)

	cols, err := c.ReorderColumns(ctx, domain.ReorderColumnsRequest{ColumnIDs: []int64{done.ID, todo.ID}})
	assertx.NoError(t, err)
	assertx.Equal(t, done.ID, cols[0].ID)

	detail, err := c.GetProject(ctx, project.ID)
	assertx.NoError(t, err)
	assertx.Equal(t, done.ID, detail.Columns[0].ID)
	assertx.Equal(t, task.ID, detail.Columns[0].Tasks[0].ID)

	comment, err := c.CreateComment(ctx, task.ID, domain.CommentCreate{Content: "looks good"})
	assertx.NoError(t, err)
	comments, err := c.ListComments(ctx, task.ID)
	assertx.NoError(t, err)
	assertx.Equal(t, 1, len(comments))
	assertx.Equal(t, "ann", comments[0].User.Username)
	assertx.NoError(t, c.DeleteComment(ctx, comment.ID))

	users, err := c.ListUsers(ctx)
	assertx.NoError(t, err)
	assertx.Equal(t, 1, len(users))

	renamed, err := c.UpdateProject(ctx, project.ID, domain.ProjectUpdate{Name: domain.Some("Renamed")})
	assertx.NoError(t, err)
	assertx.Equal(t, "Renamed", renamed.Name)
	col, err := c.UpdateColumn(ctx, todo.ID, domain.ColumnUpdate{Name: domain.Some("Backlog")})
	assertx.NoError(t, err)
	assertx.Equal(t, "Backlog", col.Name)

	assertx.NoError(t, c.DeleteColumn(ctx, todo.ID))
	assertx.NoError(t, c.DeleteProject(ctx, project.ID))
	if _, err := c.GetProject(ctx, project.ID); !IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}

	assertx.NoError(t, c.Logout(ctx))
	if _, err := c.CurrentUser(ctx); !IsUnauthorized(err) {
		t.Fatalf("expected revoked token to be rejected, got %v", err)
	}
}

func TestFilterProject(t *testing.T) {
	api := fakeapi.New()
	user := api.AddUser("ann", "pw")
	project := api.SeedProject(user.ID, "Demo", "Todo", "Done")
	todo := project.Columns[0].ID
	due := domain.NewTimestamp(time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC))
	urgent := api.AddTaskWith(todo, domain.TaskCreate{Title: "Fix login", Priority: domain.PriorityHigh, DueDate: &due, AssigneeID: &user.ID})
	api.AddTaskWith(todo, domain.TaskCreate{Title: "fix docs", Priority: domain.PriorityLow})
	api.AddTask(project.Columns[1].ID, "ship")
	srv := httptest.NewServer(api)
	defer srv.Close()
	c := New(srv.URL+"/api", WithTokenSource(StaticToken(api.IssueToken(user.ID, time.Hour))))
	ctx := context.Background()

	detail, err := c.FilterProject(ctx, project.ID, domain.TaskFilter{
		Keyword:    "FIX",
		Priority:   domain.PriorityHigh,
		AssigneeID: &user.ID,
		DueDateEnd: "2025-03-10",
	})
	assertx.NoError(t, err)
	assertx.Equal(t, 2, len(detail.Columns))
	assertx.Equal(t, 1, len(detail.Columns[0].Tasks))
	assertx.Equal(t, urgent.ID, detail.Columns[0].Tasks[0].ID)
	assertx.Equal(t, 0, len(detail.Columns[1].Tasks))

	calls := api.CallsTo("GET /api/projects/:id")
	query := calls[len(calls)-1].Query
	for _, part := range []string{"keyword=FIX", "priority=high", "due_date_end=2025-03-10"} {
		if !strings.Contains(query, part) {
			t.Fatalf("query %q is missing %s", query, part)
		}
	}

	detail, err = c.FilterProject(ctx, project.ID, domain.TaskFilter{})
	assertx.NoError(t, err)
	assertx.Equal(t, 2, len(detail.Columns[0].Tasks))
	assertx.Equal(t, "", api.CallsTo("GET /api/projects/:id")[1].Query)

	before := len(api.Calls())
	if _, err := c.FilterProject(ctx, project.ID, domain.TaskFilter{Priority: "urgent"}); err == nil {
		t.Fatalf("expected invalid priority to be rejected")
	}
	assertx.Equal(t, before, len(api.Calls()))
}
