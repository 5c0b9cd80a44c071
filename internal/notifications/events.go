package notifications

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/haletrung/vietmarket-backend/pkg/enums"
)

// Default vendor-facing message for new orders.
const NewOrderMessage = "Bạn có đơn hàng mới!"

// Channel names are part of the client contract; existing subscribers listen
// on exactly these topics.
func VendorChannel(vendorID uuid.UUID) string {
	return fmt.Sprintf("topic/vendor/%s/orders", vendorID)
}

func CustomerChannel(customerID uuid.UUID) string {
	return fmt.Sprintf("topic/customer/%s/order-updates", customerID)
}

// NewOrderNotification announces one fulfillment unit to its vendor. Field
// names match the stored wire format consumed by vendor dashboards.
type NewOrderNotification struct {
	OrderNumber     string          `json:"orderNumber"`
	SubOrderNumber  string          `json:"subOrderNumber"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ItemCount       int             `json:"itemCount"`
	CustomerName    string          `json:"customerName"`
	DeliveryAddress string          `json:"deliveryAddress"`
	Timestamp       time.Time       `json:"timestamp"`
	Message         string          `json:"message"`
}

// OrderStatusUpdateNotification tells a customer that one of their fulfillment
// units moved to a new status.
type OrderStatusUpdateNotification struct {
	OrderNumber    string               `json:"orderNumber"`
	SubOrderNumber string               `json:"subOrderNumber"`
	VendorName     string               `json:"vendorName"`
	OldStatus      enums.SubOrderStatus `json:"oldStatus"`
	NewStatus      enums.SubOrderStatus `json:"newStatus"`
	Message        string               `json:"message"`
	Timestamp      time.Time            `json:"timestamp"`
}

var statusMessages = map[enums.SubOrderStatus]string{
	enums.SubOrderStatusPending:   "Đơn hàng đang chờ xác nhận",
	enums.SubOrderStatusCooking:   "Bếp đang nấu! Đơn hàng sẽ được giao trong giây lát",
	enums.SubOrderStatusReady:     "Món ăn đã sẵn sàng",
	enums.SubOrderStatusPickedUp:  "Đơn hàng đang được giao đến bạn",
	enums.SubOrderStatusDelivered: "Đơn hàng đã được giao thành công",
	enums.SubOrderStatusCancelled: "Đơn hàng đã bị hủy",
}

// StatusMessage returns the customer-facing message for a status.
func StatusMessage(status enums.SubOrderStatus) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return string(status)
}

// VendorNewOrder pairs a vendor recipient with its notification payload.
type VendorNewOrder struct {
	VendorID     uuid.UUID
	Notification NewOrderNotification
}

// StatusChange pairs a customer recipient with its notification payload.
type StatusChange struct {
	CustomerID   uuid.UUID
	Notification OrderStatusUpdateNotification
}
