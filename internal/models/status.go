package models

import "fmt"

// Order statuses
const (
	OrderStatusDraft      = "draft"
	OrderStatusSubmitted  = "submitted"
	OrderStatusProcessing = "processing"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)

// statusTransitions lists the allowed forward moves. Completed and cancelled
// are terminal.
var statusTransitions = map[string][]string{
	OrderStatusDraft:      {OrderStatusSubmitted},
	OrderStatusSubmitted:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusCompleted, OrderStatusCancelled},
}

// ValidStatus reports whether s is a known order status
func ValidStatus(s string) bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusProcessing,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from one status to another
func CanTransition(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an error describing why a status move is rejected
func ValidateTransition(from, to string) error {
	if !ValidStatus(to) {
		return fmt.Errorf("unknown order status: %s", to)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("invalid status transition: %s -> %s", from, to)
	}
	return nil
}
