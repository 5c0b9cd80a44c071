package products

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the catalog service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products: repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "products: tx runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) Get(ctx context.Context, productID uuid.UUID) (*ProductView, error) {
	product, err := s.repo.FindProductByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	view := buildView(*product)
	return &view, nil
}

func (s *service) ListByVendor(ctx context.Context, vendorID uuid.UUID, params pagination.Params) (*ProductList, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	limit := pagination.NormalizeLimit(params.Limit)

	rows, err := s.repo.ListByVendor(ctx, vendorID, pagination.LimitWithBuffer(params.Limit), cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing products")
	}

	list := &ProductList{Items: make([]ProductView, 0, len(rows))}
	if len(rows) > limit {
		rows = rows[:limit]
		last := rows[len(rows)-1]
		list.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	for _, row := range rows {
		list.Items = append(list.Items, buildView(row))
	}
	return list, nil
}

func (s *service) Create(ctx context.Context, vendorID uuid.UUID, input UpsertInput) (*ProductView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		VendorID:    vendorID,
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		BasePrice:   input.BasePrice,
		Images:      pq.StringArray(input.Images),
		Available:   true,
	}
	if input.Available != nil {
		product.Available = *input.Available
	}
	for _, opt := range input.Options {
		product.Options = append(product.Options, models.ProductOption{
			ID:              uuid.New(),
			ProductID:       product.ID,
			GroupName:       strings.TrimSpace(opt.GroupName),
			Name:            strings.TrimSpace(opt.Name),
			PriceAdjustment: opt.PriceAdjustment,
		})
	}

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	view := buildView(*created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, vendorID, productID uuid.UUID, input UpsertInput) (*ProductView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.ownedProduct(ctx, repo, vendorID, productID)
		if err != nil {
			return err
		}

		product.Name = strings.TrimSpace(input.Name)
		product.Description = input.Description
		product.BasePrice = input.BasePrice
		product.Images = pq.StringArray(input.Images)
		if input.Available != nil {
			product.Available = *input.Available
		}
		if err := repo.Save(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving product")
		}

		options := make([]models.ProductOption, 0, len(input.Options))
		for _, opt := range input.Options {
			options = append(options, models.ProductOption{
				ID:              uuid.New(),
				ProductID:       product.ID,
				GroupName:       strings.TrimSpace(opt.GroupName),
				Name:            strings.TrimSpace(opt.Name),
				PriceAdjustment: opt.PriceAdjustment,
			})
		}
		if err := repo.ReplaceOptions(ctx, product.ID, options); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replacing product options")
		}
		product.Options = options
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := buildView(*updated)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, vendorID, productID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		product, err := s.ownedProduct(ctx, repo, vendorID, productID)
		if err != nil {
			return err
		}
		if err := repo.Delete(ctx, product.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting product")
		}
		return nil
	})
}

func (s *service) ownedProduct(ctx context.Context, repo Repository, vendorID, productID uuid.UUID) (*models.Product, error) {
	product, err := repo.FindProductByID(ctx, productID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading product")
	}
	if product.VendorID != vendorID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "product belongs to another vendor")
	}
	return product, nil
}

func validateInput(input UpsertInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if input.BasePrice.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
	}
	for _, opt := range input.Options {
		if strings.TrimSpace(opt.GroupName) == "" || strings.TrimSpace(opt.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "option group and name are required")
		}
	}
	return nil
}
