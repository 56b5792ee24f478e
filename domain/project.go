package domain

// Project is the summary record returned by the project list.
type Project struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	OwnerID     int64     `json:"owner_id"`
	CreatedAt   Timestamp `json:"created_at"`
	UpdatedAt   Timestamp `json:"updated_at"`
}

// ProjectDetail is the full board tree: project, columns, tasks.
type ProjectDetail struct {
	Project
	Columns []ColumnWithTasks `json:"columns"`
}

type ProjectCreate struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
}

// ProjectUpdate carries partial updates for a project.
type ProjectUpdate struct {
	Name        Optional[string] `json:"name"`
	Description Optional[string] `json:"description"`
}

func (u ProjectUpdate) MarshalJSON() ([]byte, error) {
	fields := make(map[string]any, 2)
	putOptional(fields, "name", u.Name)
	putOptional(fields, "description", u.Description)
	return marshalFields(fields)
}
