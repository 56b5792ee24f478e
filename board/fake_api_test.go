package board

import (
	"context"
	"errors"
	"fmt"

	"github.com/Jupiter-12/kanban/domain"
)

type moveCall struct {
	taskID int64
	req    domain.MoveTaskRequest
}

// fakeAPI records every call and serves projects from an in-memory map.
type fakeAPI struct {
	projects map[int64]*domain.ProjectDetail

	getErr     error
	moveErr    error
	reorderErr error
	crudErr    error
	moveResult *domain.Task
	onGet      func()
	onMove     func()

	calls    []string
	loads    []int64
	moves    []moveCall
	reorders [][]int64
	nextID   int64
}

func newFakeAPI(projects ...*domain.ProjectDetail) *fakeAPI {
	f := &fakeAPI{projects: make(map[int64]*domain.ProjectDetail), nextID: 100}
	for _, p := range projects {
		f.projects[p.ID] = p
	}
	return f
}

func (f *fakeAPI) GetProject(_ context.Context, id int64) (*domain.ProjectDetail, error) {
	f.calls = append(f.calls, "GetProject")
	f.loads = append(f.loads, id)
	if f.onGet != nil {
		f.onGet()
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	p, ok := f.projects[id]
	if !ok {
		return nil, fmt.Errorf("project %d not found", id)
	}
	return cloneProject(p), nil
}

func (f *fakeAPI) CreateColumn(_ context.Context, projectID int64, req domain.ColumnCreate) (domain.Column, error) {
	f.calls = append(f.calls, "CreateColumn")
	if f.crudErr != nil {
		return domain.Column{}, f.crudErr
	}
	f.nextID++
	return domain.Column{ID: f.nextID, Name: req.Name, ProjectID: projectID}, nil
}

func (f *fakeAPI) UpdateColumn(_ context.Context, id int64, req domain.ColumnUpdate) (domain.Column, error) {
	f.calls = append(f.calls, "UpdateColumn")
	if f.crudErr != nil {
		return domain.Column{}, f.crudErr
	}
	name, _ := req.Name.Get()
	return domain.Column{ID: id, Name: name, ProjectID: 7}, nil
}

func (f *fakeAPI) DeleteColumn(context.Context, int64) error {
	f.calls = append(f.calls, "DeleteColumn")
	return f.crudErr
}

func (f *fakeAPI) ReorderColumns(_ context.Context, req domain.ReorderColumnsRequest) ([]domain.Column, error) {
	f.calls = append(f.calls, "ReorderColumns")
	f.reorders = append(f.reorders, append([]int64(nil), req.ColumnIDs...))
	if f.reorderErr != nil {
		return nil, f.reorderErr
	}
	return nil, nil
}

func (f *fakeAPI) CreateTask(_ context.Context, columnID int64, req domain.TaskCreate) (domain.Task, error) {
	f.calls = append(f.calls, "CreateTask")
	if f.crudErr != nil {
		return domain.Task{}, f.crudErr
	}
	f.nextID++
	return domain.Task{ID: f.nextID, Title: req.Title, ColumnID: columnID}, nil
}

func (f *fakeAPI) UpdateTask(_ context.Context, id int64, req domain.TaskUpdate) (domain.Task, error) {
	f.calls = append(f.calls, "UpdateTask")
	if f.crudErr != nil {
		return domain.Task{}, f.crudErr
	}
	title, _ := req.Title.Get()
	return domain.Task{ID: id, Title: title, ColumnID: 1}, nil
}

func (f *fakeAPI) DeleteTask(context.Context, int64) error {
	f.calls = append(f.calls, "DeleteTask")
	return f.crudErr
}

func (f *fakeAPI) MoveTask(_ context.Context, id int64, req domain.MoveTaskRequest) (domain.Task, error) {
	f.calls = append(f.calls, "MoveTask")
	f.moves = append(f.moves, moveCall{taskID: id, req: req})
	if f.onMove != nil {
		f.onMove()
	}
	if f.moveErr != nil {
		return domain.Task{}, f.moveErr
	}
	if f.moveResult != nil {
		return *f.moveResult, nil
	}
	return domain.Task{ID: id, ColumnID: req.TargetColumnID, Position: req.Position}, nil
}

var errRejected = errors.New("rejected")

func cloneProject(p *domain.ProjectDetail) *domain.ProjectDetail {
	out := *p
	out.Columns = make([]domain.ColumnWithTasks, len(p.Columns))
	for i, col := range p.Columns {
		out.Columns[i] = col
		out.Columns[i].Tasks = append([]domain.Task{}, col.Tasks...)
	}
	return &out
}

func task(id, columnID int64, position int) domain.Task {
	return domain.Task{ID: id, Title: fmt.Sprintf("task %d", id), ColumnID: columnID, Position: position}
}

func column(id int64, position int, tasks ...domain.Task) domain.ColumnWithTasks {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	return domain.ColumnWithTasks{
		Column: domain.Column{ID: id, Name: fmt.Sprintf("col %d", id), ProjectID: 7, Position: position},
		Tasks:  tasks,
	}
}

func project(columns ...domain.ColumnWithTasks) *domain.ProjectDetail {
	return &domain.ProjectDetail{Project: domain.Project{ID: 7, Name: "Demo"}, Columns: columns}
}
