package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/haletrung/vietmarket-backend/pkg/enums"
)

func TestCanTransitionHappyPath(t *testing.T) {
	steps := []enums.SubOrderStatus{
		enums.SubOrderStatusPending,
		enums.SubOrderStatusCooking,
		enums.SubOrderStatusReady,
		enums.SubOrderStatusPickedUp,
		enums.SubOrderStatusDelivered,
	}
	for i := 0; i < len(steps)-1; i++ {
		assert.True(t, CanTransition(steps[i], steps[i+1]), "%s -> %s", steps[i], steps[i+1])
	}
}

func TestCanTransitionCancellation(t *testing.T) {
	for _, from := range []enums.SubOrderStatus{
		enums.SubOrderStatusPending,
		enums.SubOrderStatusCooking,
		enums.SubOrderStatusReady,
		enums.SubOrderStatusPickedUp,
	} {
		assert.True(t, CanTransition(from, enums.SubOrderStatusCancelled), "%s -> CANCELLED", from)
	}

	assert.False(t, CanTransition(enums.SubOrderStatusDelivered, enums.SubOrderStatusCancelled))
	assert.False(t, CanTransition(enums.SubOrderStatusCancelled, enums.SubOrderStatusCancelled))
}

func TestCanTransitionRejectsSkipsAndBackwardEdges(t *testing.T) {
	cases := []struct {
		from, to enums.SubOrderStatus
	}{
		{enums.SubOrderStatusPending, enums.SubOrderStatusReady},
		{enums.SubOrderStatusPending, enums.SubOrderStatusDelivered},
		{enums.SubOrderStatusCooking, enums.SubOrderStatusPending},
		{enums.SubOrderStatusDelivered, enums.SubOrderStatusPending},
		{enums.SubOrderStatusReady, enums.SubOrderStatusCooking},
		{enums.SubOrderStatusPending, enums.SubOrderStatusPending},
	}
	for _, tc := range cases {
		assert.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be rejected", tc.from, tc.to)
	}
}

func TestDeriveOrderStatus(t *testing.T) {
	cases := []struct {
		name     string
		statuses []enums.SubOrderStatus
		want     enums.OrderStatus
	}{
		{
			name:     "all delivered completes the order",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusDelivered, enums.SubOrderStatusDelivered},
			want:     enums.OrderStatusCompleted,
		},
		{
			name:     "all cancelled cancels the order",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusCancelled, enums.SubOrderStatusCancelled},
			want:     enums.OrderStatusCancelled,
		},
		{
			name:     "any picked up wins over pending",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusPending, enums.SubOrderStatusPickedUp},
			want:     enums.OrderStatusDelivering,
		},
		{
			name:     "any ready when nothing picked up",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusPending, enums.SubOrderStatusReady},
			want:     enums.OrderStatusReady,
		},
		{
			name:     "any cooking when nothing further along",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusPending, enums.SubOrderStatusCooking},
			want:     enums.OrderStatusPreparing,
		},
		{
			name:     "all pending confirms",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusPending, enums.SubOrderStatusPending},
			want:     enums.OrderStatusConfirmed,
		},
		{
			name:     "partially cancelled with rest pending confirms",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusCancelled, enums.SubOrderStatusPending},
			want:     enums.OrderStatusConfirmed,
		},
		{
			name:     "delivered mixed with cancelled falls to confirmed",
			statuses: []enums.SubOrderStatus{enums.SubOrderStatusDelivered, enums.SubOrderStatusCancelled},
			want:     enums.OrderStatusConfirmed,
		},
		{
			name:     "empty set stays pending",
			statuses: nil,
			want:     enums.OrderStatusPending,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveOrderStatus(tc.statuses))
		})
	}
}
