package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTransitions(t *testing.T) {
	allowed := [][2]string{
		{OrderStatusDraft, OrderStatusSubmitted},
		{OrderStatusSubmitted, OrderStatusProcessing},
		{OrderStatusSubmitted, OrderStatusCancelled},
		{OrderStatusProcessing, OrderStatusCompleted},
		{OrderStatusProcessing, OrderStatusCancelled},
	}
	for _, tr := range allowed {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s -> %s should be allowed", tr[0], tr[1])
		assert.NoError(t, ValidateTransition(tr[0], tr[1]))
	}

	rejected := [][2]string{
		{OrderStatusDraft, OrderStatusProcessing},
		{OrderStatusDraft, OrderStatusCompleted},
		{OrderStatusSubmitted, OrderStatusCompleted},
		{OrderStatusSubmitted, OrderStatusDraft},
		{OrderStatusCompleted, OrderStatusCancelled},
		{OrderStatusCancelled, OrderStatusSubmitted},
		{OrderStatusProcessing, OrderStatusSubmitted},
	}
	for _, tr := range rejected {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s -> %s should be rejected", tr[0], tr[1])
		assert.Error(t, ValidateTransition(tr[0], tr[1]))
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, terminal := range []string{OrderStatusCompleted, OrderStatusCancelled} {
		for _, to := range []string{OrderStatusDraft, OrderStatusSubmitted,
			OrderStatusProcessing, OrderStatusCompleted, OrderStatusCancelled} {
			assert.False(t, CanTransition(terminal, to))
		}
	}
}

func TestValidateTransitionUnknownStatus(t *testing.T) {
	err := ValidateTransition(OrderStatusSubmitted, "shipped")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown order status")
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(OrderStatusDraft))
	assert.True(t, ValidStatus(OrderStatusCancelled))
	assert.False(t, ValidStatus("shipped"))
	assert.False(t, ValidStatus(""))
}
