package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/internal/pricing"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/types"
)

const maxLineQuantity = 99

type productFinder interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     Repository
	products productFinder
	pricer   *pricing.Engine
}

// NewService builds the cart service with the required dependencies.
func NewService(repo Repository, products productFinder, pricer *pricing.Engine) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product finder required")
	}
	if pricer == nil {
		return nil, fmt.Errorf("pricing engine required")
	}
	return &service{repo: repo, products: products, pricer: pricer}, nil
}

func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*CartView, error) {
	cart, err := s.getOrCreateCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return s.buildView(cart), nil
}

func (s *service) AddLine(ctx context.Context, input AddLineInput) (*CartView, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id required")
	}
	if input.Quantity <= 0 || input.Quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range")
	}

	product, err := s.products.FindProductByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if !product.Available {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product is not available")
	}

	options, err := resolveOptions(product, input.OptionIDs)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	item := &models.CartItem{
		ID:              uuid.New(),
		CartID:          cart.ID,
		ProductID:       product.ID,
		Quantity:        input.Quantity,
		SelectedOptions: options,
	}
	if _, err := s.repo.CreateCartItem(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart item")
	}

	return s.reload(ctx, input.CustomerID)
}

func (s *service) UpdateLineQuantity(ctx context.Context, input UpdateLineInput) (*CartView, error) {
	if input.Quantity <= 0 || input.Quantity > maxLineQuantity {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity out of range")
	}

	if _, err := s.ownedItem(ctx, input.CustomerID, input.ItemID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCartItemQuantity(ctx, input.ItemID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}
	return s.reload(ctx, input.CustomerID)
}

func (s *service) RemoveLine(ctx context.Context, customerID, itemID uuid.UUID) (*CartView, error) {
	if _, err := s.ownedItem(ctx, customerID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete cart item")
	}
	return s.reload(ctx, customerID)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	cart, err := s.getOrCreateCart(ctx, customerID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteCartItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// getOrCreateCart returns the customer's cart, creating an empty one on first
// access.
func (s *service) getOrCreateCart(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	cart, err := s.repo.FindCartByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}

	created, err := s.repo.CreateCart(ctx, &models.Cart{
		ID:         uuid.New(),
		CustomerID: customerID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func (s *service) ownedItem(ctx context.Context, customerID, itemID uuid.UUID) (*models.CartItem, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if itemID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart item id required")
	}

	item, err := s.repo.FindCartItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart item")
	}

	cart, err := s.repo.FindCartByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item does not belong to caller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if item.CartID != cart.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cart item does not belong to caller")
	}
	return item, nil
}

func (s *service) reload(ctx context.Context, customerID uuid.UUID) (*CartView, error) {
	cart, err := s.repo.FindCartByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload cart")
	}
	return s.buildView(cart), nil
}

func (s *service) buildView(cart *models.Cart) *CartView {
	view := &CartView{ID: cart.ID, Items: []CartLineView{}, Subtotal: decimal.Zero}
	for _, item := range cart.Items {
		if item.Product == nil {
			continue
		}
		unitPrice := s.pricer.UnitPrice(item.Product.BasePrice, item.SelectedOptions)
		lineTotal := s.pricer.LineSubtotal(item.Product.BasePrice, item.SelectedOptions, item.Quantity)

		var image *string
		if len(item.Product.Images) > 0 {
			image = &item.Product.Images[0]
		}

		view.Items = append(view.Items, CartLineView{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductName:     item.Product.Name,
			ProductImage:    image,
			VendorID:        item.Product.VendorID,
			UnitPrice:       unitPrice,
			Quantity:        item.Quantity,
			LineTotal:       lineTotal,
			SelectedOptions: item.SelectedOptions,
		})
		view.Subtotal = view.Subtotal.Add(lineTotal)
	}
	return view
}

// resolveOptions maps option ids to snapshot records, rejecting ids that do
// not belong to the product.
func resolveOptions(product *models.Product, optionIDs []uuid.UUID) (types.SelectedOptions, error) {
	if len(optionIDs) == 0 {
		return nil, nil
	}

	byID := make(map[uuid.UUID]models.ProductOption, len(product.Options))
	for _, opt := range product.Options {
		byID[opt.ID] = opt
	}

	options := make(types.SelectedOptions, 0, len(optionIDs))
	for _, id := range optionIDs {
		opt, ok := byID[id]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "option does not belong to product").
				WithDetails(map[string]string{"option_id": id.String()})
		}
		options = append(options, types.SelectedOption{
			Group:           opt.GroupName,
			OptionName:      opt.Name,
			PriceAdjustment: opt.PriceAdjustment,
		})
	}
	return options, nil
}
