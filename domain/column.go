package domain

// Column is a board lane. Position is its 0-based rank within the project.
type Column struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	ProjectID int64     `json:"project_id"`
	Position  int       `json:"position"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
}

// ColumnWithTasks is a column together with its tasks in display order.
type ColumnWithTasks struct {
	Column
	Tasks []Task `json:"tasks"`
}

type ColumnCreate struct {
	Name string `json:"name"`
}

// ColumnUpdate carries partial updates for a column.
type ColumnUpdate struct {
	Name Optional[string] `json:"name"`
}

func (u ColumnUpdate) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 1)
	putOptional(fields, "name", u.Name)
	return marshalFields(fields)
}

// ReorderColumnsRequest lists every column of a project in its new order.
type ReorderColumnsRequest struct {
	ColumnIDs []int64 `json:"column_ids"`
}
