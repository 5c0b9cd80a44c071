package products

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type stubProductRepo struct {
	products map[uuid.UUID]*models.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{products: make(map[uuid.UUID]*models.Product)}
}

func (s *stubProductRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubProductRepo) FindProductByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *stubProductRepo) ListByVendor(_ context.Context, vendorID uuid.UUID, limit int, cursor *pagination.Cursor) ([]models.Product, error) {
	var out []models.Product
	for _, p := range s.products {
		if p.VendorID != vendorID {
			continue
		}
		if cursor != nil && !p.CreatedAt.Before(cursor.CreatedAt) {
			continue
		}
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *stubProductRepo) Create(_ context.Context, product *models.Product) (*models.Product, error) {
	copied := *product
	s.products[product.ID] = &copied
	return product, nil
}

func (s *stubProductRepo) Save(_ context.Context, product *models.Product) error {
	existing, ok := s.products[product.ID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	copied := *product
	copied.Options = existing.Options
	s.products[product.ID] = &copied
	return nil
}

func (s *stubProductRepo) ReplaceOptions(_ context.Context, productID uuid.UUID, options []models.ProductOption) error {
	p, ok := s.products[productID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Options = append([]models.ProductOption(nil), options...)
	return nil
}

func (s *stubProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.products, id)
	return nil
}

type stubProductTxRunner struct{}

func (stubProductTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestProductService(t *testing.T, repo *stubProductRepo) Service {
	t.Helper()
	svc, err := NewService(repo, stubProductTxRunner{})
	require.NoError(t, err)
	return svc
}

func sampleProductInput() UpsertInput {
	return UpsertInput{
		Name:      "Chả mực Hạ Long",
		BasePrice: decimal.NewFromInt(120000),
		Images:    []string{"https://img.example.com/cha-muc.jpg"},
		Options: []OptionInput{
			{GroupName: "Khối lượng", Name: "500g", PriceAdjustment: decimal.NewFromInt(0)},
			{GroupName: "Khối lượng", Name: "1kg", PriceAdjustment: decimal.NewFromInt(110000)},
		},
	}
}

func TestProductCreateAndGet(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(t, repo)
	vendorID := uuid.New()

	created, err := svc.Create(context.Background(), vendorID, sampleProductInput())
	require.NoError(t, err)
	assert.True(t, created.Available)
	require.Len(t, created.Options, 2)

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Chả mực Hạ Long", got.Name)
	assert.True(t, got.BasePrice.Equal(decimal.NewFromInt(120000)))
	assert.Equal(t, vendorID, got.VendorID)
}

func TestProductCreateValidation(t *testing.T) {
	svc := newTestProductService(t, newStubProductRepo())

	input := sampleProductInput()
	input.Name = " "
	_, err := svc.Create(context.Background(), uuid.New(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = sampleProductInput()
	input.BasePrice = decimal.NewFromInt(-1)
	_, err = svc.Create(context.Background(), uuid.New(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	input = sampleProductInput()
	input.Options = append(input.Options, OptionInput{GroupName: "", Name: "x"})
	_, err = svc.Create(context.Background(), uuid.New(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestProductUpdateReplacesOptions(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(t, repo)
	vendorID := uuid.New()

	created, err := svc.Create(context.Background(), vendorID, sampleProductInput())
	require.NoError(t, err)

	update := sampleProductInput()
	update.Name = "Chả mực giã tay"
	unavailable := false
	update.Available = &unavailable
	update.Options = []OptionInput{
		{GroupName: "Đóng gói", Name: "Hộp quà", PriceAdjustment: decimal.NewFromInt(25000)},
	}

	view, err := svc.Update(context.Background(), vendorID, created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Chả mực giã tay", view.Name)
	assert.False(t, view.Available)
	require.Len(t, view.Options, 1)
	assert.Equal(t, "Hộp quà", view.Options[0].Name)

	stored := repo.products[created.ID]
	require.Len(t, stored.Options, 1)
}

func TestProductUpdateOwnership(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(t, repo)
	vendorID := uuid.New()

	created, err := svc.Create(context.Background(), vendorID, sampleProductInput())
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), uuid.New(), created.ID, sampleProductInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	_, err = svc.Update(context.Background(), vendorID, uuid.New(), sampleProductInput())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestProductDelete(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(t, repo)
	vendorID := uuid.New()

	created, err := svc.Create(context.Background(), vendorID, sampleProductInput())
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	require.NoError(t, svc.Delete(context.Background(), vendorID, created.ID))
	_, err = svc.Get(context.Background(), created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestProductListByVendorPagination(t *testing.T) {
	repo := newStubProductRepo()
	svc := newTestProductService(t, repo)
	vendorID := uuid.New()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		p := &models.Product{
			ID:        uuid.New(),
			VendorID:  vendorID,
			Name:      "SP",
			BasePrice: decimal.NewFromInt(10000),
			Available: true,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		repo.products[p.ID] = p
	}

	page, err := svc.ListByVendor(context.Background(), vendorID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := svc.ListByVendor(context.Background(), vendorID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, rest.Items, 1)
	assert.Empty(t, rest.NextCursor)
}
