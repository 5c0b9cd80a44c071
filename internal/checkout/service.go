package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/internal/address"
	"github.com/haletrung/vietmarket-backend/internal/cart"
	"github.com/haletrung/vietmarket-backend/internal/notifications"
	"github.com/haletrung/vietmarket-backend/internal/orders"
	"github.com/haletrung/vietmarket-backend/internal/pricing"
	"github.com/haletrung/vietmarket-backend/internal/users"
	"github.com/haletrung/vietmarket-backend/pkg/db"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type vendorNotifier interface {
	NotifyVendorsNewOrder(ctx context.Context, events []notifications.VendorNewOrder) error
}

// CreateOrderInput carries a checkout request.
type CreateOrderInput struct {
	CustomerID    uuid.UUID
	AddressID     uuid.UUID
	PaymentMethod string
	Notes         *string
}

// Service turns a cart into one aggregate order with per-vendor fulfillment
// units, then fans the new-order events out to the affected vendors.
type Service interface {
	CreateOrder(ctx context.Context, input CreateOrderInput) (*orders.OrderView, error)
}

type service struct {
	carts     cart.Repository
	addresses address.Repository
	orders    orders.Repository
	users     users.Repository
	pricer    *pricing.Engine
	seq       *NumberGenerator
	notifier  vendorNotifier
	tx        txRunner
	logg      *logger.Logger
	now       func() time.Time
}

// NewService builds the checkout orchestrator.
func NewService(
	carts cart.Repository,
	addresses address.Repository,
	ordersRepo orders.Repository,
	usersRepo users.Repository,
	pricer *pricing.Engine,
	seq *NumberGenerator,
	notifier vendorNotifier,
	tx txRunner,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: cart repository is required")
	}
	if addresses == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: address repository is required")
	}
	if ordersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: order repository is required")
	}
	if usersRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: user repository is required")
	}
	if pricer == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: pricing engine is required")
	}
	if seq == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: number generator is required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: notifier is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: tx runner is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "checkout: logger is required")
	}
	return &service{
		carts:     carts,
		addresses: addresses,
		orders:    ordersRepo,
		users:     usersRepo,
		pricer:    pricer,
		seq:       seq,
		notifier:  notifier,
		tx:        tx,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// vendorGroup is one vendor's slice of the cart, in first-seen line order.
type vendorGroup struct {
	vendorID uuid.UUID
	lines    []models.CartItem
	subtotal decimal.Decimal
}

func (s *service) CreateOrder(ctx context.Context, input CreateOrderInput) (*orders.OrderView, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "caller is required")
	}
	method, err := enums.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	customer, err := s.users.FindByID(ctx, input.CustomerID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading customer")
	}

	addr, err := s.addresses.FindByID(ctx, input.AddressID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading address")
	}
	if addr.UserID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}

	loaded, err := s.carts.FindCartByCustomer(ctx, input.CustomerID)
	if err != nil && !db.IsNotFound(err) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if loaded == nil || len(loaded.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	groups, err := s.groupByVendor(loaded.Items)
	if err != nil {
		return nil, err
	}

	total := decimal.Zero
	for _, group := range groups {
		total = total.Add(group.subtotal)
	}
	shippingFee := s.pricer.ShippingFee(addr.City, total)

	orderNumber, err := s.seq.OrderNumber(ctx, s.now())
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "minting order number")
	}

	order := s.buildOrder(orderNumber, input, method, customer, addr, groups, total, shippingFee)

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		ordersRepo := s.orders.WithTx(tx)
		cartsRepo := s.carts.WithTx(tx)

		if _, err := ordersRepo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating order")
		}
		if err := cartsRepo.DeleteCartItems(ctx, loaded.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "draining cart")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	orderCtx := s.logg.WithOrderNumber(s.logg.WithUserID(ctx, input.CustomerID.String()), orderNumber)
	s.logg.Info(orderCtx, "order placed")

	// Fanout is best-effort; the dispatcher logs per-vendor failures.
	_ = s.notifier.NotifyVendorsNewOrder(ctx, s.vendorEvents(order, customer))

	vendorNames, err := s.orders.VendorNames(ctx, vendorIDs(groups))
	if err != nil {
		s.logg.Error(orderCtx, "loading vendor names for response", err)
		vendorNames = map[uuid.UUID]string{}
	}
	view := orders.BuildOrderView(*order, vendorNames)
	return &view, nil
}

// groupByVendor partitions cart lines by owning vendor, preserving the order
// in which each vendor first appears in the cart.
func (s *service) groupByVendor(items []models.CartItem) ([]vendorGroup, error) {
	var groups []vendorGroup
	index := make(map[uuid.UUID]int)

	for _, item := range items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart references a product that no longer exists")
		}
		if !item.Product.Available {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "a product in the cart is no longer available").
				WithDetails(map[string]any{
					"product_id":   item.ProductID.String(),
					"product_name": item.Product.Name,
				})
		}

		lineSubtotal := s.pricer.LineSubtotal(item.Product.BasePrice, item.SelectedOptions, item.Quantity)

		vendorID := item.Product.VendorID
		at, seen := index[vendorID]
		if !seen {
			at = len(groups)
			index[vendorID] = at
			groups = append(groups, vendorGroup{vendorID: vendorID, subtotal: decimal.Zero})
		}
		groups[at].lines = append(groups[at].lines, item)
		groups[at].subtotal = groups[at].subtotal.Add(lineSubtotal)
	}
	return groups, nil
}

func (s *service) buildOrder(
	orderNumber string,
	input CreateOrderInput,
	method enums.PaymentMethod,
	customer *models.User,
	addr *models.Address,
	groups []vendorGroup,
	total decimal.Decimal,
	shippingFee decimal.Decimal,
) *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		OrderNumber:     orderNumber,
		CustomerID:      input.CustomerID,
		Status:          enums.OrderStatusPending,
		TotalAmount:     total,
		ShippingFee:     shippingFee,
		PaymentMethod:   method,
		DeliveryName:    addr.RecipientName,
		DeliveryPhone:   addr.RecipientPhone,
		DeliveryAddress: addr.FullText(),
		Notes:           input.Notes,
	}

	for i, group := range groups {
		sub := models.SubOrder{
			ID:             uuid.New(),
			OrderID:        order.ID,
			VendorID:       group.vendorID,
			SubOrderNumber: UnitNumber(orderNumber, i),
			Subtotal:       group.subtotal,
			Status:         enums.SubOrderStatusPending,
			Position:       i,
		}
		for _, line := range group.lines {
			productID := line.ProductID
			item := models.OrderItem{
				ID:              uuid.New(),
				SubOrderID:      sub.ID,
				ProductID:       &productID,
				ProductName:     line.Product.Name,
				Price:           s.pricer.UnitPrice(line.Product.BasePrice, line.SelectedOptions),
				Quantity:        line.Quantity,
				SelectedOptions: line.SelectedOptions,
			}
			if len(line.Product.Images) > 0 {
				image := line.Product.Images[0]
				item.ProductImage = &image
			}
			sub.Items = append(sub.Items, item)
		}
		order.SubOrders = append(order.SubOrders, sub)
	}
	return order
}

func (s *service) vendorEvents(order *models.Order, customer *models.User) []notifications.VendorNewOrder {
	now := s.now()
	events := make([]notifications.VendorNewOrder, 0, len(order.SubOrders))
	for _, sub := range order.SubOrders {
		events = append(events, notifications.VendorNewOrder{
			VendorID: sub.VendorID,
			Notification: notifications.NewOrderNotification{
				OrderNumber:     order.OrderNumber,
				SubOrderNumber:  sub.SubOrderNumber,
				Subtotal:        sub.Subtotal,
				// Number of line items, not total units; dashboards
				// subscribed to this channel rely on the distinction.
				ItemCount: len(sub.Items),
				CustomerName:    customer.FullName,
				DeliveryAddress: order.DeliveryAddress,
				Timestamp:       now,
				Message:         notifications.NewOrderMessage,
			},
		})
	}
	return events
}

func vendorIDs(groups []vendorGroup) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(groups))
	for _, group := range groups {
		ids = append(ids, group.vendorID)
	}
	return ids
}
