package enums

import "fmt"

// SubOrderStatus tracks the delivery lifecycle of a single vendor's portion
// of an order.
type SubOrderStatus string

const (
	SubOrderStatusPending   SubOrderStatus = "PENDING"
	SubOrderStatusCooking   SubOrderStatus = "COOKING"
	SubOrderStatusReady     SubOrderStatus = "READY"
	SubOrderStatusPickedUp  SubOrderStatus = "PICKED_UP"
	SubOrderStatusDelivered SubOrderStatus = "DELIVERED"
	SubOrderStatusCancelled SubOrderStatus = "CANCELLED"
)

var validSubOrderStatuses = []SubOrderStatus{
	SubOrderStatusPending,
	SubOrderStatusCooking,
	SubOrderStatusReady,
	SubOrderStatusPickedUp,
	SubOrderStatusDelivered,
	SubOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (s SubOrderStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SubOrderStatus.
func (s SubOrderStatus) IsValid() bool {
	for _, candidate := range validSubOrderStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed from s.
func (s SubOrderStatus) IsTerminal() bool {
	return s == SubOrderStatusDelivered || s == SubOrderStatusCancelled
}

// ParseSubOrderStatus converts raw input into a SubOrderStatus.
func ParseSubOrderStatus(value string) (SubOrderStatus, error) {
	for _, candidate := range validSubOrderStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sub-order status %q", value)
}
