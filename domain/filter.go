package domain

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// TaskFilter narrows the tasks of a project tree. Due date bounds take a day
// (2025-01-31) or a timestamp; a day as the end bound covers the whole day.
// Zero fields do not filter.
type TaskFilter struct {
	Keyword      string
	AssigneeID   *int64
	Priority     Priority
	DueDateStart string
	DueDateEnd   string
}

func (f TaskFilter) IsZero() bool {
	return f.Keyword == "" && f.AssigneeID == nil && f.Priority == "" && f.DueDateStart == "" && f.DueDateEnd == ""
}

// Query encodes the set fields as the service's query parameters.
func (f TaskFilter) Query() url.Values {
	q := url.Values{}
	if f.Keyword != "" {
		q.Set("keyword", f.Keyword)
	}
	if f.AssigneeID != nil {
		q.Set("assignee_id", strconv.FormatInt(*f.AssigneeID, 10))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.DueDateStart != "" {
		q.Set("due_date_start", f.DueDateStart)
	}
	if f.DueDateEnd != "" {
		q.Set("due_date_end", f.DueDateEnd)
	}
	return q
}

// ParseTaskFilter reads a filter from query parameters and validates it.
func ParseTaskFilter(q url.Values) (TaskFilter, error) {
	f := TaskFilter{
		Keyword:      q.Get("keyword"),
		Priority:     Priority(q.Get("priority")),
		DueDateStart: q.Get("due_date_start"),
		DueDateEnd:   q.Get("due_date_end"),
	}
	if raw := q.Get("assignee_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return TaskFilter{}, fmt.Errorf("invalid assignee_id %q", raw)
		}
		f.AssigneeID = &id
	}
	return f, f.Validate()
}

func (f TaskFilter) Validate() error {
	switch f.Priority {
	case "", PriorityHigh, PriorityMedium, PriorityLow:
	default:
		return fmt.Errorf("invalid priority %q", f.Priority)
	}
	if _, err := f.dueBounds(); err != nil {
		return err
	}
	return nil
}

type dueBounds struct {
	from, until    time.Time
	untilExclusive bool
}

func (f TaskFilter) dueBounds() (dueBounds, error) {
	var b dueBounds
	if f.DueDateStart != "" {
		t, _, err := parseDueBound(f.DueDateStart)
		if err != nil {
			return b, err
		}
		b.from = t
	}
	if f.DueDateEnd != "" {
		t, day, err := parseDueBound(f.DueDateEnd)
		if err != nil {
			return b, err
		}
		if day {
			t = t.AddDate(0, 0, 1)
			b.untilExclusive = true
		}
		b.until = t
	}
	return b, nil
}

func parseDueBound(s string) (time.Time, bool, error) {
	if t, err := time.ParseInLocation(dateLayout, s, time.UTC); err == nil {
		return t, true, nil
	}
	ts, err := ParseTimestamp(s)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("invalid due date %q", s)
	}
	return ts.Time, false, nil
}

// Match applies the filter the way the service does: the keyword is a
// case-insensitive substring of the title and a task without a due date
// fails any due date bound. An invalid filter matches nothing.
func (f TaskFilter) Match(task Task) bool {
	if f.Keyword != "" && !strings.Contains(strings.ToLower(task.Title), strings.ToLower(f.Keyword)) {
		return false
	}
	if f.AssigneeID != nil && (task.AssigneeID == nil || *task.AssigneeID != *f.AssigneeID) {
		return false
	}
	if f.Priority != "" && task.Priority != f.Priority {
		return false
	}
	if f.DueDateStart == "" && f.DueDateEnd == "" {
		return true
	}
	b, err := f.dueBounds()
	if err != nil || task.DueDate == nil || task.DueDate.IsZero() {
		return false
	}
	due := task.DueDate.Time
	if !b.from.IsZero() && due.Before(b.from) {
		return false
	}
	if !b.until.IsZero() {
		if b.untilExclusive && !due.Before(b.until) {
			return false
		}
		if !b.untilExclusive && due.After(b.until) {
			return false
		}
	}
	return true
}

// Filter returns a copy of the tree holding only the tasks that match. All
// columns are kept.
func (p *ProjectDetail) Filter(f TaskFilter) *ProjectDetail {
	if p == nil {
		return nil
	}
	out := &ProjectDetail{Project: p.Project, Columns: make([]ColumnWithTasks, 0, len(p.Columns))}
	for _, col := range p.Columns {
		kept := ColumnWithTasks{Column: col.Column, Tasks: []Task{}}
		for _, task := range col.Tasks {
			if f.Match(task) {
				kept.Tasks = append(kept.Tasks, task)
			}
		}
		out.Columns = append(out.Columns, kept)
	}
	return out
}
