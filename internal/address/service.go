package address

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the address book service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "address: repository is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "address: tx runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) List(ctx context.Context, userID uuid.UUID) ([]AddressView, error) {
	addrs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing addresses")
	}
	views := make([]AddressView, 0, len(addrs))
	for _, a := range addrs {
		views = append(views, buildView(a))
	}
	return views, nil
}

func (s *service) Create(ctx context.Context, input UpsertInput) (*AddressView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var created *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		existing, err := repo.ListByUser(ctx, input.UserID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing addresses")
		}

		// The first address becomes the default regardless of the flag.
		makeDefault := input.IsDefault || len(existing) == 0
		if makeDefault && len(existing) > 0 {
			if err := repo.ClearDefaults(ctx, input.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing default addresses")
			}
		}

		addr := &models.Address{
			ID:             uuid.New(),
			UserID:         input.UserID,
			RecipientName:  strings.TrimSpace(input.RecipientName),
			RecipientPhone: strings.TrimSpace(input.RecipientPhone),
			AddressLine:    strings.TrimSpace(input.AddressLine),
			Ward:           strings.TrimSpace(input.Ward),
			District:       strings.TrimSpace(input.District),
			City:           strings.TrimSpace(input.City),
			Label:          input.Label,
			IsDefault:      makeDefault,
		}
		created, err = repo.Create(ctx, addr)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating address")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := buildView(*created)
	return &view, nil
}

func (s *service) Update(ctx context.Context, addressID uuid.UUID, input UpsertInput) (*AddressView, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr, err := s.ownedAddress(ctx, repo, input.UserID, addressID)
		if err != nil {
			return err
		}

		if input.IsDefault && !addr.IsDefault {
			if err := repo.ClearDefaults(ctx, input.UserID); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing default addresses")
			}
		}

		addr.RecipientName = strings.TrimSpace(input.RecipientName)
		addr.RecipientPhone = strings.TrimSpace(input.RecipientPhone)
		addr.AddressLine = strings.TrimSpace(input.AddressLine)
		addr.Ward = strings.TrimSpace(input.Ward)
		addr.District = strings.TrimSpace(input.District)
		addr.City = strings.TrimSpace(input.City)
		addr.Label = input.Label
		if input.IsDefault {
			addr.IsDefault = true
		}

		if err := repo.Save(ctx, addr); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving address")
		}
		updated = addr
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := buildView(*updated)
	return &view, nil
}

func (s *service) Delete(ctx context.Context, userID, addressID uuid.UUID) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr, err := s.ownedAddress(ctx, repo, userID, addressID)
		if err != nil {
			return err
		}

		if addr.IsDefault {
			all, err := repo.ListByUser(ctx, userID)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing addresses")
			}
			if len(all) > 1 {
				return pkgerrors.New(pkgerrors.CodeStateConflict,
					"cannot delete the default address; set another address as default first")
			}
		}

		if err := repo.Delete(ctx, addressID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting address")
		}
		return nil
	})
}

func (s *service) SetDefault(ctx context.Context, userID, addressID uuid.UUID) (*AddressView, error) {
	var updated *models.Address
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		addr, err := s.ownedAddress(ctx, repo, userID, addressID)
		if err != nil {
			return err
		}
		if addr.IsDefault {
			updated = addr
			return nil
		}

		if err := repo.ClearDefaults(ctx, userID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clearing default addresses")
		}
		addr.IsDefault = true
		if err := repo.Save(ctx, addr); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "saving address")
		}
		updated = addr
		return nil
	})
	if err != nil {
		return nil, err
	}

	view := buildView(*updated)
	return &view, nil
}

func (s *service) ownedAddress(ctx context.Context, repo Repository, userID, addressID uuid.UUID) (*models.Address, error) {
	addr, err := repo.FindByID(ctx, addressID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "address not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading address")
	}
	if addr.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "address belongs to another user")
	}
	return addr, nil
}

func validateInput(input UpsertInput) error {
	if input.UserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if strings.TrimSpace(input.RecipientName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient name is required")
	}
	if strings.TrimSpace(input.RecipientPhone) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient phone is required")
	}
	if strings.TrimSpace(input.AddressLine) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "address line is required")
	}
	if strings.TrimSpace(input.City) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "city is required")
	}
	return nil
}
