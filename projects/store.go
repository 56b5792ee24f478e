// Package projects keeps the signed-in user's project list.
package projects

import (
	"context"
	"fmt"

	"github.com/Jupiter-12/kanban/domain"
)

// API is the project part of the REST service.
type API interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, req domain.ProjectCreate) (domain.Project, error)
	UpdateProject(ctx context.Context, id int64, req domain.ProjectUpdate) (domain.Project, error)
	DeleteProject(ctx context.Context, id int64) error
}

// Store is the project list, newest first as the service returns it. Like
// board.Store it expects a single actor.
type Store struct {
	api      API
	projects []domain.Project
	loading  bool
}

func NewStore(api API) *Store {
	if api == nil {
		panic("projects.NewStore: api is nil")
	}
	return &Store{api: api}
}

func (s *Store) begin() func() {
	s.loading = true
	return func() { s.loading = false }
}

// Fetch replaces the list with the service's.
func (s *Store) Fetch(ctx context.Context) error {
	defer s.begin()()
	list, err := s.api.ListProjects(ctx)
	if err != nil {
		return fmt.Errorf("fetch projects: %w", err)
	}
	s.projects = list
	return nil
}

// Create adds the new project at the head of the list.
func (s *Store) Create(ctx context.Context, req domain.ProjectCreate) (domain.Project, error) {
	defer s.begin()()
	project, err := s.api.CreateProject(ctx, req)
	if err != nil {
		return domain.Project{}, err
	}
	s.projects = append([]domain.Project{project}, s.projects...)
	return project, nil
}

// Update replaces the listed project in place when present.
func (s *Store) Update(ctx context.Context, id int64, req domain.ProjectUpdate) (domain.Project, error) {
	defer s.begin()()
	project, err := s.api.UpdateProject(ctx, id, req)
	if err != nil {
		return domain.Project{}, err
	}
	for i := range s.projects {
		if s.projects[i].ID == id {
			s.projects[i] = project
			break
		}
	}
	return project, nil
}

func (s *Store) Delete(ctx context.Context, id int64) error {
	defer s.begin()()
	if err := s.api.DeleteProject(ctx, id); err != nil {
		return err
	}
	kept := s.projects[:0]
	for _, p := range s.projects {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	s.projects = kept
	return nil
}

// ProjectByID returns the listed project, or nil.
func (s *Store) ProjectByID(id int64) *domain.Project {
	for i := range s.projects {
		if s.projects[i].ID == id {
			return &s.projects[i]
		}
	}
	return nil
}

func (s *Store) List() []domain.Project {
	return s.projects
}

func (s *Store) Count() int {
	return len(s.projects)
}

func (s *Store) Loading() bool {
	return s.loading
}
