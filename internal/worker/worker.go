package worker

import (
	"context"
	"fmt"
	"log"

	"seafood-order-service/internal/broker"
	"seafood-order-service/internal/models"
	"seafood-order-service/internal/service"
	"seafood-order-service/internal/store"
	"seafood-order-service/internal/util"

	"go.uber.org/zap"
)

// FulfillmentWorker consumes order events and moves freshly submitted orders
// into processing through the validated status machine.
type FulfillmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	orders       *service.OrderService
	store        *store.Store
	logger       *zap.Logger
}

// NewFulfillmentWorker creates a new fulfillment worker
func NewFulfillmentWorker(
	consumer *broker.Consumer,
	orders *service.OrderService,
	store *store.Store,
) *FulfillmentWorker {
	w := &FulfillmentWorker{
		consumer: consumer,
		orders:   orders,
		store:    store,
		logger:   util.GetLogger(),
	}

	eventHandler := broker.NewEventHandler()
	eventHandler.OnOrderSubmitted(w.handleOrderSubmitted)
	w.eventHandler = eventHandler

	return w
}

func (w *FulfillmentWorker) handleOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error {
	processed, err := w.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		w.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	w.logger.Info("Fulfillment intake",
		zap.String("order_id", event.OrderID),
		zap.Int64("total", event.Total))

	if _, err := w.orders.ChangeStatus(ctx, event.OrderID, models.OrderStatusProcessing, "fulfillment intake"); err != nil {
		// The order may already have moved on (cancelled before intake, or a
		// redelivered event). Record the event as handled rather than retry.
		w.logger.Warn("Fulfillment intake skipped",
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}

	if err := w.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		w.logger.Error("Failed to mark event processed", zap.Error(err))
	}

	return nil
}

// Start starts the worker
func (w *FulfillmentWorker) Start(ctx context.Context) error {
	log.Println("Starting fulfillment worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *FulfillmentWorker) Stop() error {
	log.Println("Stopping fulfillment worker...")
	return w.consumer.Close()
}
