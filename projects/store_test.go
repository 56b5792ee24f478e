package projects

import (
	"context"
	"errors"
	"testing"

	"github.com/Jupiter-12/kanban/domain"
	"github.com/Jupiter-12/kanban/internal/assertx"
)

type fakeAPI struct {
	list   []domain.Project
	err    error
	nextID int64
	calls  []string

	store         *Store
	loadingDuring []bool
}

func (f *fakeAPI) observe(name string) {
	f.calls = append(f.calls, name)
	if f.store != nil {
		f.loadingDuring = append(f.loadingDuring, f.store.Loading())
	}
}

func (f *fakeAPI) ListProjects(context.Context) ([]domain.Project, error) {
	f.observe("ListProjects")
	if f.err != nil {
		return nil, f.err
	}
	return append([]domain.Project(nil), f.list...), nil
}

func (f *fakeAPI) CreateProject(_ context.Context, req domain.ProjectCreate) (domain.Project, error) {
	f.observe("CreateProject")
	if f.err != nil {
		return domain.Project{}, f.err
	}
	f.nextID++
	return domain.Project{ID: f.nextID, Name: req.Name}, nil
}

func (f *fakeAPI) UpdateProject(_ context.Context, id int64, req domain.ProjectUpdate) (domain.Project, error) {
	f.observe("UpdateProject")
	if f.err != nil {
		return domain.Project{}, f.err
	}
	name, _ := req.Name.Get()
	return domain.Project{ID: id, Name: name}, nil
}

func (f *fakeAPI) DeleteProject(context.Context, int64) error {
	f.observe("DeleteProject")
	return f.err
}

func names(list []domain.Project) []string {
	out := make([]string, len(list))
	for i, p := range list {
		out[i] = p.Name
	}
	return out
}

func TestStoreLifecycle(t *testing.T) {
	api := &fakeAPI{list: []domain.Project{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}, nextID: 10}
	s := NewStore(api)
	api.store = s
	ctx := context.Background()

	assertx.NoError(t, s.Fetch(ctx))
	assertx.Equal(t, 2, s.Count())

	created, err := s.Create(ctx, domain.ProjectCreate{Name: "c"})
	assertx.NoError(t, err)
	assertx.Equal(t, int64(11), created.ID)
	assertx.EqualSlice(t, []string{"c", "b", "a"}, names(s.List()))

	_, err = s.Update(ctx, 1, domain.ProjectUpdate{Name: domain.Some("A")})
	assertx.NoError(t, err)
	assertx.EqualSlice(t, []string{"c", "b", "A"}, names(s.List()))
	assertx.Equal(t, "A", s.ProjectByID(1).Name)

	assertx.NoError(t, s.Delete(ctx, 2))
	assertx.EqualSlice(t, []string{"c", "A"}, names(s.List()))
	if s.ProjectByID(2) != nil {
		t.Fatalf("expected deleted project to be gone")
	}

	for i, loading := range api.loadingDuring {
		if !loading {
			t.Fatalf("call %s ran without loading set", api.calls[i])
		}
	}
	if s.Loading() {
		t.Fatalf("expected loading cleared")
	}
}

func TestUpdateUnknownProjectLeavesList(t *testing.T) {
	api := &fakeAPI{list: []domain.Project{{ID: 1, Name: "a"}}}
	s := NewStore(api)
	assertx.NoError(t, s.Fetch(context.Background()))

	updated, err := s.Update(context.Background(), 9, domain.ProjectUpdate{Name: domain.Some("z")})
	assertx.NoError(t, err)
	assertx.Equal(t, int64(9), updated.ID)
	assertx.EqualSlice(t, []string{"a"}, names(s.List()))
}

func TestErrorsClearLoadingAndKeepList(t *testing.T) {
	api := &fakeAPI{list: []domain.Project{{ID: 1, Name: "a"}}}
	s := NewStore(api)
	ctx := context.Background()
	assertx.NoError(t, s.Fetch(ctx))

	boom := errors.New("boom")
	api.err = boom
	assertx.ErrorIs(t, s.Fetch(ctx), boom)
	_, err := s.Create(ctx, domain.ProjectCreate{Name: "x"})
	assertx.ErrorIs(t, err, boom)
	_, err = s.Update(ctx, 1, domain.ProjectUpdate{Name: domain.Some("x")})
	assertx.ErrorIs(t, err, boom)
	assertx.ErrorIs(t, s.Delete(ctx, 1), boom)

	assertx.EqualSlice(t, []string{"a"}, names(s.List()))
	if s.Loading() {
		t.Fatalf("expected loading cleared after errors")
	}
}
