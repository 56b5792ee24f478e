package board

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/Jupiter-12/kanban/board"

	moveSpanName    = "board.move_task"
	reorderSpanName = "board.reorder_columns"
	syncEventName   = "board.sync.metrics"

	attrProjectID = "kanban.board.project_id"
	attrTaskID    = "kanban.board.task_id"
	attrOutcome   = "kanban.board.outcome"
	attrRemoteMS  = "kanban.board.remote_ms"
	attrTotalMS   = "kanban.board.total_ms"
	attrReloaded  = "kanban.board.reloaded"
	attrReloadErr = "kanban.board.reload_error"
)

// syncMetrics records one move or reorder round trip as a span and a log
// entry.
type syncMetrics struct {
	logger *log.Logger
	span   trace.Span
	op     string
	start  time.Time

	projectID      int64
	taskID         int64
	remoteDuration time.Duration
	reloaded       bool
	reloadErr      error
}

func newSyncMetrics(ctx context.Context, logger *log.Logger, op string, projectID int64) (*syncMetrics, context.Context) {
	ctx, span := otel.Tracer(tracerName).Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient))
	return &syncMetrics{
		logger:    logger,
		span:      span,
		op:        op,
		start:     time.Now(),
		projectID: projectID,
	}, ctx
}

func (m *syncMetrics) SetTask(id int64) {
	m.taskID = id
}

func (m *syncMetrics) ObserveRemote(d time.Duration) {
	if d <= 0 {
		return
	}
	m.remoteDuration = d
}

// ObserveReload marks that the tree was refetched after a rejected sync.
func (m *syncMetrics) ObserveReload(err error) {
	m.reloaded = true
	m.reloadErr = err
}

func (m *syncMetrics) Log(err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	total := durationToMillis(time.Since(m.start))

	attrs := []attribute.KeyValue{
		attribute.Int64(attrProjectID, m.projectID),
		attribute.String(attrOutcome, outcome),
		attribute.Float64(attrTotalMS, total),
		attribute.Float64(attrRemoteMS, durationToMillis(m.remoteDuration)),
		attribute.Bool(attrReloaded, m.reloaded),
	}
	fields := log.Fields{
		"operation":   m.op,
		"project_id":  m.projectID,
		"outcome":     outcome,
		"total_ms":    total,
		"remote_ms":   durationToMillis(m.remoteDuration),
		"reloaded":    m.reloaded,
		"trace_id":    m.span.SpanContext().TraceID().String(),
		"span_id":     m.span.SpanContext().SpanID().String(),
		"event.name":  syncEventName,
		"event.scope": tracerName,
	}
	if m.taskID != 0 {
		attrs = append(attrs, attribute.Int64(attrTaskID, m.taskID))
		fields["task_id"] = m.taskID
	}
	if m.reloadErr != nil {
		attrs = append(attrs, attribute.String(attrReloadErr, m.reloadErr.Error()))
		fields["reload_error"] = m.reloadErr.Error()
	}

	m.span.SetAttributes(attrs...)
	m.span.AddEvent(syncEventName, trace.WithAttributes(attrs...))
	if err != nil {
		m.span.RecordError(err)
		m.span.SetStatus(codes.Error, err.Error())
	} else {
		m.span.SetStatus(codes.Ok, "")
	}
	m.span.End()

	if m.logger == nil {
		return
	}
	entry := m.logger.WithFields(fields)
	if err != nil {
		entry.WithError(err).Warn(syncEventName)
		return
	}
	entry.Info(syncEventName)
}

func durationToMillis(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(d) / float64(time.Millisecond)
}
