package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/internal/pricing"
	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
)

type stubCartRepo struct {
	carts    map[uuid.UUID]*models.Cart // keyed by customer id
	items    map[uuid.UUID]*models.CartItem
	products map[uuid.UUID]*models.Product // mirrors the repo's Product preload
}

func newStubCartRepo(products map[uuid.UUID]*models.Product) *stubCartRepo {
	return &stubCartRepo{
		carts:    map[uuid.UUID]*models.Cart{},
		items:    map[uuid.UUID]*models.CartItem{},
		products: products,
	}
}

func (s *stubCartRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubCartRepo) FindCartByCustomer(ctx context.Context, customerID uuid.UUID) (*models.Cart, error) {
	cart, ok := s.carts[customerID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *cart
	copied.Items = nil
	for _, item := range s.items {
		if item.CartID == cart.ID {
			line := *item
			line.Product = s.products[item.ProductID]
			copied.Items = append(copied.Items, line)
		}
	}
	return &copied, nil
}

func (s *stubCartRepo) CreateCart(ctx context.Context, cart *models.Cart) (*models.Cart, error) {
	s.carts[cart.CustomerID] = cart
	return cart, nil
}

func (s *stubCartRepo) FindCartItem(ctx context.Context, itemID uuid.UUID) (*models.CartItem, error) {
	item, ok := s.items[itemID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubCartRepo) CreateCartItem(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubCartRepo) UpdateCartItemQuantity(ctx context.Context, itemID uuid.UUID, quantity int) error {
	if item, ok := s.items[itemID]; ok {
		item.Quantity = quantity
	}
	return nil
}

func (s *stubCartRepo) DeleteCartItem(ctx context.Context, itemID uuid.UUID) error {
	delete(s.items, itemID)
	return nil
}

func (s *stubCartRepo) DeleteCartItems(ctx context.Context, cartID uuid.UUID) error {
	for id, item := range s.items {
		if item.CartID == cartID {
			delete(s.items, id)
		}
	}
	return nil
}

type stubProductFinder struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProductFinder) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

func testPricer() *pricing.Engine {
	return pricing.NewEngine(config.ShippingConfig{
		FreeShippingThreshold: 100000,
		MajorCityFee:          30000,
		RemoteProvinceFee:     35000,
		StandardFee:           20000,
	})
}

func seedProduct(finder *stubProductFinder, basePrice int64) *models.Product {
	product := &models.Product{
		ID:        uuid.New(),
		VendorID:  uuid.New(),
		Name:      "Thịt trâu gác bếp",
		BasePrice: decimal.NewFromInt(basePrice),
		Available: true,
	}
	product.Options = []models.ProductOption{
		{
			ID:              uuid.New(),
			ProductID:       product.ID,
			GroupName:       "Size",
			Name:            "500g",
			PriceAdjustment: decimal.NewFromInt(15000),
		},
		{
			ID:              uuid.New(),
			ProductID:       product.ID,
			GroupName:       "Packaging",
			Name:            "Hộp quà",
			PriceAdjustment: decimal.NewFromInt(10000),
		},
	}
	finder.products[product.ID] = product
	return product
}

func newCartService(t *testing.T, repo *stubCartRepo, finder *stubProductFinder) Service {
	t.Helper()
	svc, err := NewService(repo, finder, testPricer())
	require.NoError(t, err)
	return svc
}

func TestGetCartCreatesLazily(t *testing.T) {
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := newStubCartRepo(finder.products)
	svc := newCartService(t, repo, finder)
	customerID := uuid.New()

	view, err := svc.GetCart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.True(t, view.Subtotal.IsZero())
	assert.Contains(t, repo.carts, customerID)

	again, err := svc.GetCart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Equal(t, view.ID, again.ID)
}

func TestAddLineSnapshotsOptionsAndPrices(t *testing.T) {
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := newStubCartRepo(finder.products)
	svc := newCartService(t, repo, finder)
	product := seedProduct(finder, 50000)
	customerID := uuid.New()

	view, err := svc.AddLine(context.Background(), AddLineInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		Quantity:   2,
		OptionIDs:  []uuid.UUID{product.Options[0].ID},
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)

	line := view.Items[0]
	assert.True(t, line.UnitPrice.Equal(decimal.NewFromInt(65000)), "got %s", line.UnitPrice)
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(130000)), "got %s", line.LineTotal)
	require.Len(t, line.SelectedOptions, 1)
	assert.Equal(t, "Size", line.SelectedOptions[0].Group)
	assert.Equal(t, "500g", line.SelectedOptions[0].OptionName)
	assert.True(t, view.Subtotal.Equal(decimal.NewFromInt(130000)))
}

func TestAddLineRejectsForeignOption(t *testing.T) {
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := newStubCartRepo(finder.products)
	svc := newCartService(t, repo, finder)
	product := seedProduct(finder, 50000)

	_, err := svc.AddLine(context.Background(), AddLineInput{
		CustomerID: uuid.New(),
		ProductID:  product.ID,
		Quantity:   1,
		OptionIDs:  []uuid.UUID{uuid.New()},
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddLineRejectsUnknownProductAndBadQuantity(t *testing.T) {
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := newStubCartRepo(finder.products)
	svc := newCartService(t, repo, finder)

	_, err := svc.AddLine(context.Background(), AddLineInput{
		CustomerID: uuid.New(),
		ProductID:  uuid.New(),
		Quantity:   1,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	product := seedProduct(finder, 50000)
	_, err = svc.AddLine(context.Background(), AddLineInput{
		CustomerID: uuid.New(),
		ProductID:  product.ID,
		Quantity:   0,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdateLineQuantityOwnershipEnforced(t *testing.T) {
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := newStubCartRepo(finder.products)
	svc := newCartService(t, repo, finder)
	product := seedProduct(finder, 50000)
	owner := uuid.New()

	view, err := svc.AddLine(context.Background(), AddLineInput{
		CustomerID: owner,
		ProductID:  product.ID,
		Quantity:   1,
	})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	_, err = svc.UpdateLineQuantity(context.Background(), UpdateLineInput{
		CustomerID: uuid.New(),
		ItemID:     itemID,
		Quantity:   3,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	updated, err := svc.UpdateLineQuantity(context.Background(), UpdateLineInput{
		CustomerID: owner,
		ItemID:     itemID,
		Quantity:   3,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Items[0].Quantity)
}

func TestRemoveLineAndClear(t *testing.T) {
	finder := &stubProductFinder{products: map[uuid.UUID]*models.Product{}}
	repo := newStubCartRepo(finder.products)
	svc := newCartService(t, repo, finder)
	product := seedProduct(finder, 50000)
	customerID := uuid.New()

	view, err := svc.AddLine(context.Background(), AddLineInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		Quantity:   1,
	})
	require.NoError(t, err)

	view, err = svc.RemoveLine(context.Background(), customerID, view.Items[0].ID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)

	_, err = svc.AddLine(context.Background(), AddLineInput{
		CustomerID: customerID,
		ProductID:  product.ID,
		Quantity:   2,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(context.Background(), customerID))
	view, err = svc.GetCart(context.Background(), customerID)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}
