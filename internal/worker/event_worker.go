// Package worker records report events consumed from the message queue.
package worker

import (
	"context"
	"fmt"

	"receita/internal/amqp"
	applog "receita/internal/log"
	"receita/internal/storage"
)

// EventStore persists report events; saving the same id twice is a no-op.
type EventStore interface {
	SaveReportEvent(ctx context.Context, ev storage.ReportEvent) (bool, error)
}

// EventConsumer delivers report events to a handler until its context ends.
type EventConsumer interface {
	ConsumeReportEvents(ctx context.Context, handler func(context.Context, *amqp.ReportRenderedMessage) error) error
}

// EventWorker writes every consumed report event to the audit table.
type EventWorker struct {
	store EventStore
}

func NewEventWorker(store EventStore) *EventWorker {
	return &EventWorker{store: store}
}

// HandleReportRendered stores one event. A redelivered event is acknowledged
// without writing it again.
func (w *EventWorker) HandleReportRendered(ctx context.Context, msg *amqp.ReportRenderedMessage) error {
	inserted, err := w.store.SaveReportEvent(ctx, storage.ReportEvent{
		ID:          msg.ID,
		CriteriaKey: msg.CriteriaKey,
		Rows:        msg.Rows,
		Total:       msg.Total,
		RenderedAt:  msg.RenderedAt,
	})
	if err != nil {
		return fmt.Errorf("save report event %s: %w", msg.ID, err)
	}
	logger := applog.FromContext(ctx).WithComponent(applog.ComponentWorker)
	if !inserted {
		logger.InfoContext(ctx, "Duplicate report event skipped", applog.FieldEventID, msg.ID)
		return nil
	}
	logger.InfoContext(ctx, "Report event recorded",
		applog.FieldEventID, msg.ID,
		applog.FieldCriteriaKey, msg.CriteriaKey,
		applog.FieldRows, msg.Rows)
	return nil
}

// Run consumes events until ctx is cancelled.
func (w *EventWorker) Run(ctx context.Context, consumer EventConsumer) error {
	return consumer.ConsumeReportEvents(ctx, w.HandleReportRendered)
}
