package board

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/Jupiter-12/kanban/domain"
)

// MoveTask syncs a task move that the drag-and-drop layer has already made in
// the tree. The task must sit in the target column; otherwise, or with no
// project or an unknown target column, it does nothing.
//
// Positions in the target column, and the source column when it differs and
// still exists, are restamped from list order before the request goes out.
// newPosition is sent as is. On success the task is replaced by the service's
// copy. On failure the project is reloaded and the move error is returned.
func (s *Store) MoveTask(ctx context.Context, taskID, sourceColumnID, targetColumnID int64, newPosition int) (err error) {
	project := s.project
	if project == nil {
		return nil
	}
	target := project.ColumnByID(targetColumnID)
	if target == nil {
		return nil
	}
	idx := target.TaskIndex(taskID)
	if idx < 0 {
		return nil
	}

	metrics, ctx := newSyncMetrics(ctx, s.logger, moveSpanName, project.ID)
	metrics.SetTask(taskID)
	defer func() { metrics.Log(err) }()

	target.Tasks[idx].ColumnID = targetColumnID
	target.ReindexTasks()
	if sourceColumnID != targetColumnID {
		if source := project.ColumnByID(sourceColumnID); source != nil {
			source.ReindexTasks()
		}
	}
	s.changed()

	start := time.Now()
	task, err := s.api.MoveTask(ctx, taskID, domain.MoveTaskRequest{
		TargetColumnID: targetColumnID,
		Position:       newPosition,
	})
	metrics.ObserveRemote(time.Since(start))
	if err != nil {
		metrics.ObserveReload(s.reload(ctx, project.ID, err))
		return err
	}

	if s.project == project && idx < len(target.Tasks) {
		target.Tasks[idx] = task
		s.changed()
	}
	return nil
}

// ReorderColumns syncs a column order that the drag-and-drop layer has already
// applied to the tree. columnIDs is only sent to the service. On failure the
// project is reloaded and the reorder error is returned.
func (s *Store) ReorderColumns(ctx context.Context, columnIDs []int64) (err error) {
	project := s.project
	if project == nil {
		return nil
	}

	metrics, ctx := newSyncMetrics(ctx, s.logger, reorderSpanName, project.ID)
	defer func() { metrics.Log(err) }()

	project.ReindexColumns()
	s.changed()

	start := time.Now()
	_, err = s.api.ReorderColumns(ctx, domain.ReorderColumnsRequest{ColumnIDs: columnIDs})
	metrics.ObserveRemote(time.Since(start))
	if err != nil {
		metrics.ObserveReload(s.reload(ctx, project.ID, err))
		return err
	}
	return nil
}

// reload refetches the project after a rejected sync. Its own failure is
// logged and returned for metrics; the caller reports cause.
func (s *Store) reload(ctx context.Context, projectID int64, cause error) error {
	err := s.LoadProject(ctx, projectID)
	if err != nil {
		s.logger.WithFields(log.Fields{
			"project_id": projectID,
			"cause":      cause.Error(),
		}).WithError(err).Error("board reload failed")
	}
	return err
}
