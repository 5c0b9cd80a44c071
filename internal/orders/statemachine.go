package orders

import (
	"github.com/haletrung/vietmarket-backend/pkg/enums"
)

// subOrderTransitions encodes the linear fulfillment path plus cancellation.
// Terminal states have no outgoing edges.
var subOrderTransitions = map[enums.SubOrderStatus][]enums.SubOrderStatus{
	enums.SubOrderStatusPending:   {enums.SubOrderStatusCooking, enums.SubOrderStatusCancelled},
	enums.SubOrderStatusCooking:   {enums.SubOrderStatusReady, enums.SubOrderStatusCancelled},
	enums.SubOrderStatusReady:     {enums.SubOrderStatusPickedUp, enums.SubOrderStatusCancelled},
	enums.SubOrderStatusPickedUp:  {enums.SubOrderStatusDelivered, enums.SubOrderStatusCancelled},
	enums.SubOrderStatusDelivered: nil,
	enums.SubOrderStatusCancelled: nil,
}

// CanTransition reports whether moving a sub-order from one status to another
// is a legal edge.
func CanTransition(from, to enums.SubOrderStatus) bool {
	for _, allowed := range subOrderTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// DeriveOrderStatus folds the sibling sub-order statuses into the aggregate
// order status. Precedence, checked in order:
//
//	all delivered    -> COMPLETED
//	all cancelled    -> CANCELLED
//	any picked up    -> DELIVERING
//	any ready        -> READY
//	any cooking      -> PREPARING
//	otherwise        -> CONFIRMED
//
// The fallback also covers mixed pending/partially-cancelled sets.
func DeriveOrderStatus(statuses []enums.SubOrderStatus) enums.OrderStatus {
	if len(statuses) == 0 {
		return enums.OrderStatusPending
	}

	allDelivered := true
	allCancelled := true
	var anyPickedUp, anyReady, anyCooking bool

	for _, s := range statuses {
		if s != enums.SubOrderStatusDelivered {
			allDelivered = false
		}
		if s != enums.SubOrderStatusCancelled {
			allCancelled = false
		}
		switch s {
		case enums.SubOrderStatusPickedUp:
			anyPickedUp = true
		case enums.SubOrderStatusReady:
			anyReady = true
		case enums.SubOrderStatusCooking:
			anyCooking = true
		}
	}

	switch {
	case allDelivered:
		return enums.OrderStatusCompleted
	case allCancelled:
		return enums.OrderStatusCancelled
	case anyPickedUp:
		return enums.OrderStatusDelivering
	case anyReady:
		return enums.OrderStatusReady
	case anyCooking:
		return enums.OrderStatusPreparing
	default:
		return enums.OrderStatusConfirmed
	}
}
