package domain

// ColumnByID returns the column with the given id, or nil.
func (p *ProjectDetail) ColumnByID(id int64) *ColumnWithTasks {
	if p == nil {
		return nil
	}
	for i := range p.Columns {
		if p.Columns[i].ID == id {
			return &p.Columns[i]
		}
	}
	return nil
}

// TaskByID scans the columns in project order and returns the first task with
// the given id, or nil.
func (p *ProjectDetail) TaskByID(id int64) *Task {
	if p == nil {
		return nil
	}
	for i := range p.Columns {
		if idx := p.Columns[i].TaskIndex(id); idx >= 0 {
			return &p.Columns[i].Tasks[idx]
		}
	}
	return nil
}

// ColumnIDs returns the column ids in display order.
func (p *ProjectDetail) ColumnIDs() []int64 {
	if p == nil {
		return nil
	}
	ids := make([]int64, len(p.Columns))
	for i := range p.Columns {
		ids[i] = p.Columns[i].ID
	}
	return ids
}

// TaskIndex returns the index of the task in the column, or -1.
func (c *ColumnWithTasks) TaskIndex(id int64) int {
	for i := range c.Tasks {
		if c.Tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// ReindexTasks stamps every task's position with its index in the column.
func (c *ColumnWithTasks) ReindexTasks() {
	for i := range c.Tasks {
		c.Tasks[i].Position = i
	}
}

// ReindexColumns stamps every column's position with its index in the project.
func (p *ProjectDetail) ReindexColumns() {
	for i := range p.Columns {
		p.Columns[i].Position = i
	}
}

// DragTask relocates a task the way the drag-and-drop board does: the task is
// removed from the column holding it and inserted at index in the target
// column. index is clamped to the target list. Positions and column_id are left
// untouched. It returns the column the task came from.
func (p *ProjectDetail) DragTask(taskID, targetColumnID int64, index int) (int64, bool) {
	if p == nil {
		return 0, false
	}
	target := p.ColumnByID(targetColumnID)
	if target == nil {
		return 0, false
	}
	var (
		source *ColumnWithTasks
		from   = -1
	)
	for i := range p.Columns {
		if idx := p.Columns[i].TaskIndex(taskID); idx >= 0 {
			source, from = &p.Columns[i], idx
			break
		}
	}
	if source == nil {
		return 0, false
	}
	task := source.Tasks[from]
	source.Tasks = append(source.Tasks[:from], source.Tasks[from+1:]...)

	if index < 0 {
		index = 0
	}
	if index > len(target.Tasks) {
		index = len(target.Tasks)
	}
	target.Tasks = append(target.Tasks, Task{})
	copy(target.Tasks[index+1:], target.Tasks[index:])
	target.Tasks[index] = task
	return source.ID, true
}

// ArrangeColumns reorders the columns to follow ids. Columns not named keep
// their relative order after the named ones; unknown ids are ignored. It
// reports whether the order changed.
func (p *ProjectDetail) ArrangeColumns(ids []int64) bool {
	if p == nil || len(p.Columns) == 0 {
		return false
	}
	placed := make(map[int64]bool, len(ids))
	arranged := make([]ColumnWithTasks, 0, len(p.Columns))
	for _, id := range ids {
		if placed[id] {
			continue
		}
		if col := p.ColumnByID(id); col != nil {
			arranged = append(arranged, *col)
			placed[id] = true
		}
	}
	for _, col := range p.Columns {
		if !placed[col.ID] {
			arranged = append(arranged, col)
		}
	}
	changed := false
	for i := range arranged {
		if arranged[i].ID != p.Columns[i].ID {
			changed = true
			break
		}
	}
	p.Columns = arranged
	return changed
}
