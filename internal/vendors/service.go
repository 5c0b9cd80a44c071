package vendors

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/db"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
)

type service struct {
	repo Repository
}

// NewService builds the vendor profile service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendors: repository is required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, vendorID uuid.UUID) (*VendorView, error) {
	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading vendor")
	}
	view := buildView(*vendor)
	return &view, nil
}

func (s *service) UpdateProfile(ctx context.Context, vendorID uuid.UUID, input ProfileInput) (*VendorView, error) {
	if strings.TrimSpace(input.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required")
	}

	vendor, err := s.repo.FindByID(ctx, vendorID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vendor not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading vendor")
	}

	vendor.StoreName = strings.TrimSpace(input.StoreName)
	vendor.Description = input.Description
	vendor.City = input.City
	if err := s.repo.Save(ctx, vendor); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving vendor")
	}

	view := buildView(*vendor)
	return &view, nil
}
