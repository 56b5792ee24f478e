package domain

import (
	"testing"
	"time"

	"github.com/bytedance/sonic"
)

func TestTimestampDecodesBothLayouts(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2024-02-01T00:00:00Z"`, want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
		{in: `"2024-02-01T10:30:00.123456"`, want: time.Date(2024, 2, 1, 10, 30, 0, 123456000, time.UTC)},
		{in: `"2024-02-01T02:00:00+02:00"`, want: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		var ts Timestamp
		if err := ts.UnmarshalJSON([]byte(tt.in)); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.in, err)
		}
		if !ts.Equal(tt.want) {
			t.Fatalf("%s: want %v, got %v", tt.in, tt.want, ts.Time)
		}
	}
}

func TestTimestampNullAndInvalid(t *testing.T) {
	ts := NewTimestamp(time.Now())
	if err := ts.UnmarshalJSON([]byte("null")); err != nil || !ts.IsZero() {
		t.Fatalf("expected null to reset timestamp, got %v %v", ts, err)
	}
	if err := ts.UnmarshalJSON([]byte(`"yesterday"`)); err == nil {
		t.Fatalf("expected error for invalid timestamp")
	}
	if err := ts.UnmarshalJSON([]byte(`12`)); err == nil {
		t.Fatalf("expected error for non-string timestamp")
	}
}

func TestTaskDecodesServicePayload(t *testing.T) {
	payload := []byte(`{"id":1,"title":"t","column_id":2,"position":3,"description":null,` +
		`"due_date":null,"priority":"low","assignee_id":5,` +
		`"assignee":{"id":5,"username":"bob","display_name":null},` +
		`"created_at":"2024-01-01T00:00:00","updated_at":"2024-02-01T00:00:00Z"}`)
	var task Task
	if err := sonic.Unmarshal(payload, &task); err != nil {
		t.Fatalf("unmarshal task: %v", err)
	}
	if task.ColumnID != 2 || task.Position != 3 || task.Priority != PriorityLow {
		t.Fatalf("unexpected task %#v", task)
	}
	if task.DueDate != nil || task.Description != nil {
		t.Fatalf("expected nullable fields to stay nil")
	}
	if task.AssigneeID == nil || *task.AssigneeID != 5 || task.Assignee.Username != "bob" {
		t.Fatalf("unexpected assignee %#v", task.Assignee)
	}
	if task.UpdatedAt.Month() != time.February {
		t.Fatalf("unexpected updated_at %v", task.UpdatedAt)
	}

	out, err := sonic.Marshal(task.CreatedAt)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-01-01T00:00:00Z"` {
		t.Fatalf("unexpected timestamp encoding %s", out)
	}
}
