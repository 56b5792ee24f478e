package domain

// Priority ranks a task. The service defaults to PriorityMedium.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Assignee is the compact user record embedded in a task.
type Assignee struct {
	ID          int64   `json:"id"`
	Username    string  `json:"username"`
	DisplayName *string `json:"display_name"`
}

// Task represents a single card on the board.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	ColumnID    int64      `json:"column_id"`
	Position    int        `json:"position"`
	Description *string    `json:"description"`
	DueDate     *Timestamp `json:"due_date"`
	Priority    Priority   `json:"priority,omitempty"`
	AssigneeID  *int64     `json:"assignee_id"`
	Assignee    *Assignee  `json:"assignee,omitempty"`
	CreatedAt   Timestamp  `json:"created_at"`
	UpdatedAt   Timestamp  `json:"updated_at"`
}

// TaskCreate is the body of a create-task request.
type TaskCreate struct {
	Title       string     `json:"title"`
	Description *string    `json:"description,omitempty"`
	DueDate     *Timestamp `json:"due_date,omitempty"`
	Priority    Priority   `json:"priority,omitempty"`
	AssigneeID  *int64     `json:"assignee_id,omitempty"`
}

// TaskUpdate carries partial updates for a task.
type TaskUpdate struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	DueDate     Optional[Timestamp] `json:"due_date"`
	Priority    Optional[Priority]  `json:"priority"`
	AssigneeID  Optional[int64]     `json:"assignee_id"`
}

func (u TaskUpdate) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 5)
	putOptional(fields, "title", u.Title)
	putOptional(fields, "description", u.Description)
	putOptional(fields, "due_date", u.DueDate)
	putOptional(fields, "priority", u.Priority)
	putOptional(fields, "assignee_id", u.AssigneeID)
	return marshalFields(fields)
}

// Empty reports whether the update carries no fields.
func (u TaskUpdate) Empty() bool {
	return !u.Title.Set && !u.Description.Set && !u.DueDate.Set && !u.Priority.Set && !u.AssigneeID.Set
}

// MoveTaskRequest relocates a task to position within the target column.
type MoveTaskRequest struct {
	TargetColumnID int64 `json:"target_column_id"`
	Position       int   `json:"position"`
}
