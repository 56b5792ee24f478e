package board

import (
	"context"
	"errors"
	"testing"

	"github.com/Jupiter-12/kanban/domain"
	"github.com/Jupiter-12/kanban/internal/assertx"
)

func TestLoadProjectTogglesLoading(t *testing.T) {
	api := newFakeAPI(project(column(1, 0, task(1, 1, 0))))
	s := NewStore(api, nil)
	var during bool
	api.onGet = func() { during = s.Loading() }

	assertx.NoError(t, s.LoadProject(context.Background(), 7))
	if !during {
		t.Fatalf("expected loading while fetching")
	}
	if s.Loading() {
		t.Fatalf("expected loading cleared")
	}
	assertx.Equal(t, "Demo", s.ProjectName())
	assertx.Equal(t, 1, len(s.Columns()))
}

func TestLoadProjectFailureKeepsTree(t *testing.T) {
	api := newFakeAPI(project(column(1, 0)))
	s := NewStore(api, nil)
	assertx.NoError(t, s.LoadProject(context.Background(), 7))
	before := s.Current()

	api.getErr = errRejected
	err := s.LoadProject(context.Background(), 7)
	assertx.ErrorIs(t, err, errRejected)
	if s.Current() != before {
		t.Fatalf("expected previous tree to stay")
	}
	if s.Loading() {
		t.Fatalf("expected loading cleared after failure")
	}
}

func TestClearProject(t *testing.T) {
	api := newFakeAPI(project(column(1, 0)))
	s := NewStore(api, nil)
	assertx.NoError(t, s.LoadProject(context.Background(), 7))
	s.ClearProject()
	if s.Current() != nil || s.Columns() != nil || s.ProjectName() != "" {
		t.Fatalf("expected empty store after clear")
	}
	if s.TaskByID(1) != nil || s.ColumnByID(1) != nil {
		t.Fatalf("expected nil lookups after clear")
	}
}

func TestCrudWithoutProjectIsNoOp(t *testing.T) {
	api := newFakeAPI()
	s := NewStore(api, nil)
	ctx := context.Background()

	assertx.NoError(t, s.CreateColumn(ctx, domain.ColumnCreate{Name: "x"}))
	assertx.NoError(t, s.UpdateColumn(ctx, 1, domain.ColumnUpdate{}))
	assertx.NoError(t, s.DeleteColumn(ctx, 1))
	assertx.NoError(t, s.CreateTask(ctx, 1, domain.TaskCreate{Title: "x"}))
	assertx.NoError(t, s.UpdateTask(ctx, 1, domain.TaskUpdate{}))
	assertx.NoError(t, s.DeleteTask(ctx, 1))
	if len(api.calls) != 0 {
		t.Fatalf("expected no calls, got %v", api.calls)
	}
}

func TestColumnCrud(t *testing.T) {
	api := newFakeAPI(project(column(1, 0, task(1, 1, 0)), column(2, 1)))
	s, _ := loadedStore(t, api)
	ctx := context.Background()

	assertx.NoError(t, s.CreateColumn(ctx, domain.ColumnCreate{Name: "Done"}))
	cols := s.Columns()
	assertx.Equal(t, 3, len(cols))
	assertx.Equal(t, "Done", cols[2].Name)
	if cols[2].Tasks == nil || len(cols[2].Tasks) != 0 {
		t.Fatalf("expected new column with empty task list")
	}

	assertx.NoError(t, s.UpdateColumn(ctx, 1, domain.ColumnUpdate{Name: domain.Some("Backlog")}))
	assertx.Equal(t, "Backlog", s.ColumnByID(1).Name)
	assertx.Equal(t, 1, len(s.ColumnByID(1).Tasks))

	assertx.NoError(t, s.DeleteColumn(ctx, 2))
	assertx.EqualSlice(t, []int64{1, 101}, s.Current().ColumnIDs())
}

func TestTaskCrud(t *testing.T) {
	api := newFakeAPI(project(column(1, 0, task(1, 1, 0), task(2, 1, 1)), column(2, 1, task(2, 2, 0))))
	s, _ := loadedStore(t, api)
	ctx := context.Background()

	assertx.NoError(t, s.CreateTask(ctx, 2, domain.TaskCreate{Title: "new"}))
	assertx.EqualSlice(t, []int64{2, 101}, ids(s.ColumnByID(2)))

	// unknown column: the service accepted it but the board has nowhere to put it
	assertx.NoError(t, s.CreateTask(ctx, 42, domain.TaskCreate{Title: "lost"}))
	if s.TaskByID(102) != nil {
		t.Fatalf("task for unknown column must not be added")
	}

	assertx.NoError(t, s.UpdateTask(ctx, 2, domain.TaskUpdate{Title: domain.Some("renamed")}))
	assertx.Equal(t, "renamed", s.ColumnByID(1).Tasks[1].Title)
	assertx.Equal(t, "task 2", s.ColumnByID(2).Tasks[0].Title)

	assertx.NoError(t, s.DeleteTask(ctx, 2))
	assertx.EqualSlice(t, []int64{1}, ids(s.ColumnByID(1)))
	assertx.EqualSlice(t, []int64{2, 101}, ids(s.ColumnByID(2)))
}

func TestCrudErrorsPropagateWithoutReload(t *testing.T) {
	api := newFakeAPI(project(column(1, 0, task(1, 1, 0))))
	s, _ := loadedStore(t, api)
	api.crudErr = errRejected
	ctx := context.Background()

	errs := []error{
		s.CreateColumn(ctx, domain.ColumnCreate{Name: "x"}),
		s.UpdateColumn(ctx, 1, domain.ColumnUpdate{Name: domain.Some("x")}),
		s.DeleteColumn(ctx, 1),
		s.CreateTask(ctx, 1, domain.TaskCreate{Title: "x"}),
		s.UpdateTask(ctx, 1, domain.TaskUpdate{Title: domain.Some("x")}),
		s.DeleteTask(ctx, 1),
	}
	for i, err := range errs {
		if !errors.Is(err, errRejected) {
			t.Fatalf("op %d: want rejection, got %v", i, err)
		}
	}
	assertx.Equal(t, 0, len(api.loads))
	assertx.EqualSlice(t, []int64{1}, ids(s.ColumnByID(1)))
	assertx.Equal(t, "col 1", s.ColumnByID(1).Name)
}

func TestSubscribeSignalsChanges(t *testing.T) {
	api := newFakeAPI(project(column(1, 0, task(1, 1, 0))))
	s := NewStore(api, nil)
	ch, release := s.Subscribe()

	assertx.NoError(t, s.LoadProject(context.Background(), 7))
	assertx.NoError(t, s.CreateTask(context.Background(), 1, domain.TaskCreate{Title: "x"}))
	select {
	case <-ch:
	default:
		t.Fatalf("expected a change signal")
	}
	// signals coalesce
	select {
	case <-ch:
		t.Fatalf("expected a single pending signal")
	default:
	}

	release()
	s.ClearProject()
	select {
	case <-ch:
		t.Fatalf("released subscription must not be signalled")
	default:
	}
}
