// Package board owns the in-memory tree of the open project and keeps it in
// step with the kanban service.
package board

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/Jupiter-12/kanban/domain"
)

// API is the part of the REST service the board needs.
type API interface {
	GetProject(ctx context.Context, id int64) (*domain.ProjectDetail, error)
	CreateColumn(ctx context.Context, projectID int64, req domain.ColumnCreate) (domain.Column, error)
	UpdateColumn(ctx context.Context, id int64, req domain.ColumnUpdate) (domain.Column, error)
	DeleteColumn(ctx context.Context, id int64) error
	ReorderColumns(ctx context.Context, req domain.ReorderColumnsRequest) ([]domain.Column, error)
	CreateTask(ctx context.Context, columnID int64, req domain.TaskCreate) (domain.Task, error)
	UpdateTask(ctx context.Context, id int64, req domain.TaskUpdate) (domain.Task, error)
	DeleteTask(ctx context.Context, id int64) error
	MoveTask(ctx context.Context, id int64, req domain.MoveTaskRequest) (domain.Task, error)
}

// Store holds the current project tree. It is meant for a single actor: callers
// that share a Store across goroutines serialize access themselves. Subscribe
// is the exception and may be called from anywhere.
type Store struct {
	api    API
	logger *log.Logger

	project *domain.ProjectDetail
	loading bool
	broker  *updateBroker
}

// NewStore creates an empty Store.
func NewStore(api API, logger *log.Logger) *Store {
	if api == nil {
		panic("board.NewStore: api is nil")
	}
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &Store{api: api, logger: logger, broker: newUpdateBroker()}
}

// Subscribe returns a channel that receives a signal after every change to the
// tree, and a func that releases it.
func (s *Store) Subscribe() (<-chan struct{}, func()) {
	ch := s.broker.subscribe()
	return ch, func() { s.broker.unsubscribe(ch) }
}

func (s *Store) changed() {
	s.broker.notify()
}

// Current returns the live tree, or nil when no project is loaded. A
// drag-and-drop layer relocates tasks and columns in it before calling
// MoveTask or ReorderColumns.
func (s *Store) Current() *domain.ProjectDetail {
	return s.project
}

func (s *Store) Loading() bool {
	return s.loading
}

// Columns returns the columns of the current project in display order.
func (s *Store) Columns() []domain.ColumnWithTasks {
	if s.project == nil {
		return nil
	}
	return s.project.Columns
}

func (s *Store) ProjectName() string {
	if s.project == nil {
		return ""
	}
	return s.project.Name
}

func (s *Store) ColumnByID(id int64) *domain.ColumnWithTasks {
	return s.project.ColumnByID(id)
}

func (s *Store) TaskByID(id int64) *domain.Task {
	return s.project.TaskByID(id)
}

// LoadProject replaces the tree with the service's copy. On failure the
// previous tree stays.
func (s *Store) LoadProject(ctx context.Context, id int64) error {
	s.loading = true
	defer func() { s.loading = false }()

	project, err := s.api.GetProject(ctx, id)
	if err != nil {
		return fmt.Errorf("load project %d: %w", id, err)
	}
	s.project = project
	s.logger.WithFields(log.Fields{
		"project_id": id,
		"columns":    len(project.Columns),
	}).Debug("board loaded")
	s.changed()
	return nil
}

// ClearProject drops the tree.
func (s *Store) ClearProject() {
	if s.project == nil {
		return
	}
	s.project = nil
	s.changed()
}

func (s *Store) CreateColumn(ctx context.Context, req domain.ColumnCreate) error {
	if s.project == nil {
		return nil
	}
	column, err := s.api.CreateColumn(ctx, s.project.ID, req)
	if err != nil {
		return err
	}
	if s.project == nil {
		return nil
	}
	s.project.Columns = append(s.project.Columns, domain.ColumnWithTasks{Column: column, Tasks: []domain.Task{}})
	s.changed()
	return nil
}

// UpdateColumn applies the service's copy of the column and keeps the local
// task list.
func (s *Store) UpdateColumn(ctx context.Context, id int64, req domain.ColumnUpdate) error {
	if s.project == nil {
		return nil
	}
	column, err := s.api.UpdateColumn(ctx, id, req)
	if err != nil {
		return err
	}
	if local := s.project.ColumnByID(id); local != nil {
		local.Column = column
		s.changed()
	}
	return nil
}

func (s *Store) DeleteColumn(ctx context.Context, id int64) error {
	if s.project == nil {
		return nil
	}
	if err := s.api.DeleteColumn(ctx, id); err != nil {
		return err
	}
	if s.project == nil {
		return nil
	}
	kept := s.project.Columns[:0]
	for _, col := range s.project.Columns {
		if col.ID != id {
			kept = append(kept, col)
		}
	}
	s.project.Columns = kept
	s.changed()
	return nil
}

// CreateTask appends the new task to its column when the column is on the
// board.
func (s *Store) CreateTask(ctx context.Context, columnID int64, req domain.TaskCreate) error {
	if s.project == nil {
		return nil
	}
	task, err := s.api.CreateTask(ctx, columnID, req)
	if err != nil {
		return err
	}
	if col := s.project.ColumnByID(columnID); col != nil {
		col.Tasks = append(col.Tasks, task)
		s.changed()
	}
	return nil
}

// UpdateTask replaces the first task with the id by the service's copy.
func (s *Store) UpdateTask(ctx context.Context, id int64, req domain.TaskUpdate) error {
	if s.project == nil {
		return nil
	}
	task, err := s.api.UpdateTask(ctx, id, req)
	if err != nil {
		return err
	}
	if local := s.project.TaskByID(id); local != nil {
		*local = task
		s.changed()
	}
	return nil
}

// DeleteTask removes the first task with the id.
func (s *Store) DeleteTask(ctx context.Context, id int64) error {
	if s.project == nil {
		return nil
	}
	if err := s.api.DeleteTask(ctx, id); err != nil {
		return err
	}
	if s.project == nil {
		return nil
	}
	for i := range s.project.Columns {
		col := &s.project.Columns[i]
		if idx := col.TaskIndex(id); idx >= 0 {
			col.Tasks = append(col.Tasks[:idx], col.Tasks[idx+1:]...)
			s.changed()
			break
		}
	}
	return nil
}
