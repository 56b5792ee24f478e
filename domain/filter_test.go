package domain

import (
	"net/url"
	"testing"
	"time"

	"github.com/Jupiter-12/kanban/internal/assertx"
)

func dueTask(title string, due time.Time) Task {
	ts := NewTimestamp(due)
	return Task{Title: title, Priority: PriorityMedium, DueDate: &ts}
}

func TestTaskFilterQuery(t *testing.T) {
	assignee := int64(0)
	f := TaskFilter{Keyword: "测试", AssigneeID: &assignee, Priority: PriorityHigh, DueDateStart: "2025-01-01"}
	assertx.Equal(t, "assignee_id=0&due_date_start=2025-01-01&keyword=%E6%B5%8B%E8%AF%95&priority=high", f.Query().Encode())
	assertx.Equal(t, 0, len(TaskFilter{}.Query()))
	assertx.Equal(t, true, TaskFilter{}.IsZero())
	assertx.Equal(t, false, f.IsZero())
}

func TestParseTaskFilter(t *testing.T) {
	f, err := ParseTaskFilter(url.Values{"assignee_id": {"4"}, "priority": {"low"}, "keyword": {"x"}})
	assertx.NoError(t, err)
	assertx.Equal(t, int64(4), *f.AssigneeID)
	assertx.Equal(t, PriorityLow, f.Priority)

	for _, q := range []url.Values{
		{"assignee_id": {"me"}},
		{"priority": {"urgent"}},
		{"due_date_start": {"tomorrow"}},
		{"due_date_end": {"2025-13-01"}},
	} {
		if _, err := ParseTaskFilter(q); err == nil {
			t.Fatalf("expected %v to be rejected", q)
		}
	}
}

func TestTaskFilterMatch(t *testing.T) {
	day := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	evening := dueTask("Fix Login", day.Add(18*time.Hour))
	tests := []struct {
		name   string
		filter TaskFilter
		task   Task
		want   bool
	}{
		{"empty", TaskFilter{}, Task{Title: "x"}, true},
		{"keyword ignores case", TaskFilter{Keyword: "login"}, evening, true},
		{"keyword misses", TaskFilter{Keyword: "docs"}, evening, false},
		{"priority", TaskFilter{Priority: PriorityHigh}, evening, false},
		{"unassigned", TaskFilter{AssigneeID: new(int64)}, evening, false},
		{"day end covers the day", TaskFilter{DueDateEnd: "2025-03-10"}, evening, true},
		{"timestamp end is inclusive", TaskFilter{DueDateEnd: "2025-03-10T18:00:00Z"}, evening, true},
		{"timestamp end before due", TaskFilter{DueDateEnd: "2025-03-10T12:00:00Z"}, evening, false},
		{"start after due", TaskFilter{DueDateStart: "2025-03-11"}, evening, false},
		{"start on the day", TaskFilter{DueDateStart: "2025-03-10"}, evening, true},
		{"no due date", TaskFilter{DueDateStart: "2025-03-10"}, Task{Title: "x"}, false},
		{"invalid bound", TaskFilter{DueDateEnd: "soon"}, evening, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assertx.Equal(t, tc.want, tc.filter.Match(tc.task))
		})
	}
}

func TestProjectFilterKeepsColumns(t *testing.T) {
	p := &ProjectDetail{Columns: []ColumnWithTasks{
		{Column: Column{ID: 1}, Tasks: []Task{{ID: 1, Title: "alpha"}, {ID: 2, Title: "beta"}}},
		{Column: Column{ID: 2}, Tasks: []Task{{ID: 3, Title: "gamma"}}},
	}}
	got := p.Filter(TaskFilter{Keyword: "ta"})
	assertx.Equal(t, 2, len(got.Columns))
	assertx.Equal(t, 1, len(got.Columns[0].Tasks))
	assertx.Equal(t, int64(2), got.Columns[0].Tasks[0].ID)
	assertx.Equal(t, 0, len(got.Columns[1].Tasks))
	assertx.Equal(t, 2, len(p.Columns[0].Tasks))

	var nilProject *ProjectDetail
	if nilProject.Filter(TaskFilter{}) != nil {
		t.Fatalf("filtering no project must give nil")
	}
}
