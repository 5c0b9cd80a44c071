package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/haletrung/vietmarket-backend/pkg/logger"
	"github.com/haletrung/vietmarket-backend/pkg/metrics"
)

const (
	kindVendorNewOrder       = "vendor_new_order"
	kindCustomerStatusUpdate = "customer_status_update"
)

// Dispatcher fans order events out to per-recipient channels. A failed send
// is logged and counted but never propagated to the workflow that triggered
// it; sends to other recipients proceed regardless.
type Dispatcher struct {
	publisher Publisher
	logg      *logger.Logger
	metrics   *metrics.NotificationMetrics
}

// NewDispatcher builds a dispatcher. Metrics may be nil.
func NewDispatcher(publisher Publisher, logg *logger.Logger, m *metrics.NotificationMetrics) (*Dispatcher, error) {
	if publisher == nil {
		return nil, fmt.Errorf("publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Dispatcher{publisher: publisher, logg: logg, metrics: m}, nil
}

// NotifyVendorsNewOrder publishes one event per vendor unit. Failures are
// isolated per recipient; the combined error is returned for logging only and
// callers must not fail their operation on it.
func (d *Dispatcher) NotifyVendorsNewOrder(ctx context.Context, events []VendorNewOrder) error {
	var combined error
	for _, event := range events {
		if err := d.publish(ctx, kindVendorNewOrder, VendorChannel(event.VendorID), event.Notification); err != nil {
			eventCtx := d.logg.WithFields(ctx, map[string]any{
				"vendor_id":        event.VendorID.String(),
				"sub_order_number": event.Notification.SubOrderNumber,
			})
			d.logg.Error(eventCtx, "vendor notification failed", err)
			combined = multierr.Append(combined, err)
		}
	}
	return combined
}

// NotifyCustomerStatusChange publishes a status update to the order's
// customer. The error is for logging only.
func (d *Dispatcher) NotifyCustomerStatusChange(ctx context.Context, change StatusChange) error {
	err := d.publish(ctx, kindCustomerStatusUpdate, CustomerChannel(change.CustomerID), change.Notification)
	if err != nil {
		eventCtx := d.logg.WithFields(ctx, map[string]any{
			"customer_id":      change.CustomerID.String(),
			"sub_order_number": change.Notification.SubOrderNumber,
		})
		d.logg.Error(eventCtx, "customer notification failed", err)
	}
	return err
}

func (d *Dispatcher) publish(ctx context.Context, kind, channel string, payload any) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		d.metrics.IncFailed(kind)
		return fmt.Errorf("marshal %s payload: %w", kind, err)
	}

	start := time.Now()
	err = d.publisher.Publish(ctx, channel, raw)
	d.metrics.ObserveDuration(kind, time.Since(start))
	if err != nil {
		d.metrics.IncFailed(kind)
		return fmt.Errorf("publish %s to %s: %w", kind, channel, err)
	}
	d.metrics.IncDelivered(kind)
	return nil
}
