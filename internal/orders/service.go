package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/internal/notifications"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type statusNotifier interface {
	NotifyCustomerStatusChange(ctx context.Context, change notifications.StatusChange) error
}

type service struct {
	repo     Repository
	tx       txRunner
	notifier statusNotifier
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the orders service with the required dependencies.
func NewService(repo Repository, tx txRunner, notifier statusNotifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if notifier == nil {
		return nil, fmt.Errorf("status notifier required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		notifier: notifier,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) ListOrders(ctx context.Context, input ListOrdersInput) (*OrderList, error) {
	if input.Caller.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	switch input.Caller.Role {
	case enums.UserRoleCustomer:
		return s.listCustomerOrders(ctx, input.Caller.UserID, input.Params)
	case enums.UserRoleVendor:
		if input.Caller.VendorID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing")
		}
		return s.listVendorOrders(ctx, *input.Caller.VendorID, input.Params)
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown caller role")
	}
}

func (s *service) listCustomerOrders(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*OrderList, error) {
	rows, err := s.repo.ListCustomerOrders(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customer orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	vendorNames, err := s.vendorNamesForOrders(ctx, rows)
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(rows))
	for _, order := range rows {
		views = append(views, BuildOrderView(order, vendorNames))
	}
	return &OrderList{Orders: views, NextCursor: nextCursor}, nil
}

// listVendorOrders returns the caller's units grouped under their parent
// orders, in unit recency order. Other vendors' units are never included.
func (s *service) listVendorOrders(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*OrderList, error) {
	subs, err := s.repo.ListVendorSubOrders(ctx, vendorID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list vendor sub-orders")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	nextCursor := ""
	if len(subs) > limit {
		subs = subs[:limit]
		last := subs[len(subs)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	vendorNames, err := s.repo.VendorNames(ctx, []uuid.UUID{vendorID})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor names")
	}

	// Group by parent order, preserving first-seen order.
	orderIndex := map[uuid.UUID]int{}
	views := make([]OrderView, 0, len(subs))
	for _, sub := range subs {
		idx, seen := orderIndex[sub.OrderID]
		if !seen {
			if sub.Order == nil {
				return nil, pkgerrors.New(pkgerrors.CodeInternal, "sub-order missing parent order")
			}
			parent := *sub.Order
			parent.SubOrders = nil
			view := BuildOrderView(parent, vendorNames)
			orderIndex[sub.OrderID] = len(views)
			views = append(views, view)
			idx = orderIndex[sub.OrderID]
		}
		views[idx].SubOrders = append(views[idx].SubOrders, buildSubOrderView(sub, vendorNames))
	}

	return &OrderList{Orders: views, NextCursor: nextCursor}, nil
}

func (s *service) GetOrder(ctx context.Context, orderID uuid.UUID, caller Caller) (*OrderView, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if caller.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	order, err := s.repo.FindOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	switch caller.Role {
	case enums.UserRoleCustomer:
		if order.CustomerID != caller.UserID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to caller")
		}

	case enums.UserRoleVendor:
		if caller.VendorID == nil {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing")
		}
		owned := order.SubOrders[:0:0]
		for _, sub := range order.SubOrders {
			if sub.VendorID == *caller.VendorID {
				owned = append(owned, sub)
			}
		}
		if len(owned) == 0 {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order has no units for caller")
		}
		order.SubOrders = owned

	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "unknown caller role")
	}

	vendorNames, err := s.vendorNamesForOrders(ctx, []models.Order{*order})
	if err != nil {
		return nil, err
	}

	view := BuildOrderView(*order, vendorNames)
	return &view, nil
}

func (s *service) UpdateSubOrderStatus(ctx context.Context, input UpdateStatusInput) (*SubOrderView, error) {
	if input.SubOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sub-order id required")
	}
	if input.VendorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor context missing")
	}
	if !input.NewStatus.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid target status")
	}

	var (
		view   SubOrderView
		change notifications.StatusChange
	)

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		sub, err := repo.FindSubOrder(ctx, input.SubOrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "sub-order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load sub-order")
		}
		if sub.VendorID != input.VendorID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "sub-order does not belong to vendor")
		}
		if sub.Order == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "sub-order missing parent order")
		}

		oldStatus := sub.Status
		if !CanTransition(oldStatus, input.NewStatus) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "status transition not allowed").
				WithDetails(map[string]string{
					"from": oldStatus.String(),
					"to":   input.NewStatus.String(),
				})
		}

		if err := repo.UpdateSubOrderStatus(ctx, sub.ID, input.NewStatus); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update sub-order status")
		}

		siblings, err := repo.FindSubOrdersByOrder(ctx, sub.OrderID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload sibling sub-orders")
		}
		statuses := make([]enums.SubOrderStatus, 0, len(siblings))
		for _, sibling := range siblings {
			if sibling.ID == sub.ID {
				statuses = append(statuses, input.NewStatus)
				continue
			}
			statuses = append(statuses, sibling.Status)
		}

		derived := DeriveOrderStatus(statuses)
		if derived != sub.Order.Status {
			if err := repo.UpdateOrderStatus(ctx, sub.OrderID, derived); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
			}
		}

		vendorNames, err := repo.VendorNames(ctx, []uuid.UUID{sub.VendorID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor names")
		}

		sub.Status = input.NewStatus
		view = buildSubOrderView(*sub, vendorNames)

		change = notifications.StatusChange{
			CustomerID: sub.Order.CustomerID,
			Notification: notifications.OrderStatusUpdateNotification{
				OrderNumber:    sub.Order.OrderNumber,
				SubOrderNumber: sub.SubOrderNumber,
				VendorName:     vendorNames[sub.VendorID],
				OldStatus:      oldStatus,
				NewStatus:      input.NewStatus,
				Message:        notifications.StatusMessage(input.NewStatus),
				Timestamp:      s.now(),
			},
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Best-effort: the dispatcher logs failures, the status change stands.
	_ = s.notifier.NotifyCustomerStatusChange(ctx, change)

	return &view, nil
}

func (s *service) vendorNamesForOrders(ctx context.Context, orders []models.Order) (map[uuid.UUID]string, error) {
	seen := map[uuid.UUID]struct{}{}
	ids := []uuid.UUID{}
	for _, order := range orders {
		for _, sub := range order.SubOrders {
			if _, ok := seen[sub.VendorID]; ok {
				continue
			}
			seen[sub.VendorID] = struct{}{}
			ids = append(ids, sub.VendorID)
		}
	}

	names, err := s.repo.VendorNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load vendor names")
	}
	return names, nil
}
