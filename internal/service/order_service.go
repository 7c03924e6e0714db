package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"seafood-order-service/internal/models"
	"seafood-order-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrEmptyCart rejects submission of a cart with no lines
	ErrEmptyCart = errors.New("cart is empty")
	// ErrMissingClientInfo rejects submission without name, contact person and phone
	ErrMissingClientInfo = errors.New("client name, contact person and phone are required")
	// ErrOrderNotFound is returned when an order ID does not resolve
	ErrOrderNotFound = errors.New("order not found")
)

// OrderStore is the storage surface the order service depends on,
// implemented by store.Store.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, order *models.Order, items []models.OrderItem) error
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	GetOrderByIdempotencyKey(ctx context.Context, key string) (*models.Order, error)
	GetOrders(ctx context.Context) ([]models.Order, error)
	GetOrdersByClientName(ctx context.Context, clientName string) ([]models.Order, error)
	GetOrderItemsByOrderID(ctx context.Context, orderID string) ([]models.OrderItem, error)
	UpdateOrderStatus(ctx context.Context, orderID, status string) error
	GetClientByID(ctx context.Context, id string) (*models.Client, error)
}

// OrderEvents publishes order lifecycle events, implemented by
// broker.EventPublisher.
type OrderEvents interface {
	PublishOrderSubmitted(ctx context.Context, event *models.OrderSubmittedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// OrderService turns carts into orders and drives the order status machine
type OrderService struct {
	store          OrderStore
	carts          *CartService
	eventPublisher OrderEvents
	logger         *zap.Logger

	defaultDeliveryDays int
}

// NewOrderService creates a new order service
func NewOrderService(
	store OrderStore,
	carts *CartService,
	eventPublisher OrderEvents,
	defaultDeliveryDays int,
) *OrderService {
	return &OrderService{
		store:               store,
		carts:               carts,
		eventPublisher:      eventPublisher,
		logger:              util.GetLogger(),
		defaultDeliveryDays: defaultDeliveryDays,
	}
}

// SubmitOrderRequest represents a request to submit the session cart
type SubmitOrderRequest struct {
	ClientID            string            `json:"client_id,omitempty"`
	ClientInfo          models.ClientInfo `json:"client_info"`
	DeliveryDate        string            `json:"delivery_date,omitempty"` // YYYY-MM-DD
	SpecialInstructions string            `json:"special_instructions,omitempty"`
	IdempotencyKey      string            `json:"idempotency_key,omitempty"`
}

// Submit converts the session cart plus client details into an immutable
// order. It either fully succeeds (order and items written in one
// transaction, cart cleared, event published) or rejects before any
// mutation; there is no state with a half-appended order.
func (s *OrderService) Submit(ctx context.Context, sessionID string, req *SubmitOrderRequest) (*models.Order, []models.OrderItem, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Submit")
	defer span.End()

	start := time.Now()
	defer func() {
		util.OrderSubmitLatency.Observe(time.Since(start).Seconds())
	}()

	if req.IdempotencyKey != "" {
		existing, err := s.store.GetOrderByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to check idempotency: %w", err)
		}
		if existing != nil {
			s.logger.Info("Duplicate order submission detected",
				zap.String("idempotency_key", req.IdempotencyKey),
				zap.String("order_id", existing.ID))
			items, err := s.store.GetOrderItemsByOrderID(ctx, existing.ID)
			if err != nil {
				return nil, nil, err
			}
			return existing, items, nil
		}
	}

	clientInfo, err := s.resolveClient(ctx, req)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("missing_client_info").Inc()
		return nil, nil, err
	}

	lines := s.carts.Lines(ctx, sessionID)
	if len(lines) == 0 {
		util.OrdersRejectedTotal.WithLabelValues("empty_cart").Inc()
		return nil, nil, ErrEmptyCart
	}

	now := time.Now()

	deliveryDate, err := s.resolveDeliveryDate(req.DeliveryDate, now)
	if err != nil {
		util.OrdersRejectedTotal.WithLabelValues("invalid_delivery_date").Inc()
		return nil, nil, err
	}

	var total int64
	items := make([]models.OrderItem, 0, len(lines))
	eventItems := make([]models.OrderItemData, 0, len(lines))
	for _, line := range lines {
		total += line.Subtotal()
		items = append(items, models.OrderItem{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
			Notes:     line.Notes,
		})
		eventItems = append(eventItems, models.OrderItemData{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
	}

	order := &models.Order{
		ID:                  NewOrderID(now),
		ClientInfo:          clientInfo,
		Status:              models.OrderStatusSubmitted,
		DeliveryDate:        deliveryDate,
		SpecialInstructions: req.SpecialInstructions,
		Total:               total,
		IdempotencyKey:      req.IdempotencyKey,
	}

	if err := s.store.CreateOrderWithItems(ctx, order, items); err != nil {
		util.OrdersRejectedTotal.WithLabelValues("db_error").Inc()
		return nil, nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.carts.Clear(ctx, sessionID)

	util.OrdersSubmittedTotal.Inc()
	s.logger.Info("Order submitted",
		zap.String("order_id", order.ID),
		zap.String("client", order.Name),
		zap.Int64("total", order.Total))

	event := &models.OrderSubmittedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderSubmitted,
			Timestamp: now,
		},
		OrderID:      order.ID,
		ClientName:   order.Name,
		DeliveryDate: order.DeliveryDate,
		Total:        order.Total,
		Items:        eventItems,
	}

	if err := s.eventPublisher.PublishOrderSubmitted(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderSubmitted event", zap.Error(err))
	}

	return order, items, nil
}

// resolveClient takes either a stored client reference or inline client info
func (s *OrderService) resolveClient(ctx context.Context, req *SubmitOrderRequest) (models.ClientInfo, error) {
	info := req.ClientInfo

	if req.ClientID != "" {
		client, err := s.store.GetClientByID(ctx, req.ClientID)
		if err != nil {
			return models.ClientInfo{}, err
		}
		info = models.ClientInfo{
			Name:          client.Name,
			Address:       client.Address,
			ContactPerson: client.ContactPerson,
			Phone:         client.Phone,
			Email:         client.Email,
		}
	}

	if err := ValidateClientInfo(info); err != nil {
		return models.ClientInfo{}, err
	}
	return info, nil
}

func (s *OrderService) resolveDeliveryDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		return now.AddDate(0, 0, s.defaultDeliveryDays), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid delivery date %q: %w", raw, err)
	}
	return d, nil
}

// ValidateClientInfo checks the minimally required client fields
func ValidateClientInfo(info models.ClientInfo) error {
	if strings.TrimSpace(info.Name) == "" ||
		strings.TrimSpace(info.ContactPerson) == "" ||
		strings.TrimSpace(info.Phone) == "" {
		return ErrMissingClientInfo
	}
	return nil
}

// NewOrderID generates a time-derived unique order ID
func NewOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%s", now.Format("20060102"), uuid.New().String()[:8])
}

// GetOrder retrieves an order with its items
func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrders retrieves the order history, optionally filtered by client name
func (s *OrderService) ListOrders(ctx context.Context, clientName string) ([]models.Order, error) {
	if clientName != "" {
		return s.store.GetOrdersByClientName(ctx, clientName)
	}
	return s.store.GetOrders(ctx)
}

// ChangeStatus moves an order through the status machine. Transitions not in
// the table are rejected and nothing is written.
func (s *OrderService) ChangeStatus(ctx context.Context, orderID, to, reason string) (*models.Order, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.ChangeStatus")
	defer span.End()

	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, orderID)
	}

	if err := models.ValidateTransition(order.Status, to); err != nil {
		return nil, err
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, to); err != nil {
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	util.OrderStatusTransitionsTotal.WithLabelValues(order.Status, to).Inc()
	s.logger.Info("Order status changed",
		zap.String("order_id", orderID),
		zap.String("from", order.Status),
		zap.String("to", to))

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		FromStatus: order.Status,
		ToStatus:   to,
		Reason:     reason,
	}

	if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}

	order.Status = to
	return order, nil
}
