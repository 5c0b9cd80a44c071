package address

import (
	"context"
	"sort"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
)

type stubAddressRepo struct {
	addresses map[uuid.UUID]*models.Address
}

func newStubAddressRepo() *stubAddressRepo {
	return &stubAddressRepo{addresses: make(map[uuid.UUID]*models.Address)}
}

func (s *stubAddressRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubAddressRepo) ListByUser(_ context.Context, userID uuid.UUID) ([]models.Address, error) {
	var out []models.Address
	for _, a := range s.addresses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].IsDefault != out[j].IsDefault {
			return out[i].IsDefault
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *stubAddressRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Address, error) {
	a, ok := s.addresses[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *a
	return &copied, nil
}

func (s *stubAddressRepo) Create(_ context.Context, addr *models.Address) (*models.Address, error) {
	copied := *addr
	s.addresses[addr.ID] = &copied
	return addr, nil
}

func (s *stubAddressRepo) Save(_ context.Context, addr *models.Address) error {
	copied := *addr
	s.addresses[addr.ID] = &copied
	return nil
}

func (s *stubAddressRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.addresses, id)
	return nil
}

func (s *stubAddressRepo) ClearDefaults(_ context.Context, userID uuid.UUID) error {
	for _, a := range s.addresses {
		if a.UserID == userID {
			a.IsDefault = false
		}
	}
	return nil
}

type stubAddressTxRunner struct{}

func (stubAddressTxRunner) WithTx(_ context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestAddressService(t *testing.T, repo *stubAddressRepo) Service {
	t.Helper()
	svc, err := NewService(repo, stubAddressTxRunner{})
	require.NoError(t, err)
	return svc
}

func sampleInput(userID uuid.UUID) UpsertInput {
	return UpsertInput{
		UserID:         userID,
		RecipientName:  "Nguyễn Văn An",
		RecipientPhone: "0901234567",
		AddressLine:    "12 Lý Thường Kiệt",
		Ward:           "Phường 7",
		District:       "Quận 10",
		City:           "Hồ Chí Minh",
	}
}

func TestAddressCreateFirstBecomesDefault(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	view, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	assert.True(t, view.IsDefault)
	assert.Equal(t, "12 Lý Thường Kiệt, Phường 7, Quận 10, Hồ Chí Minh", view.FullAddress)
}

func TestAddressCreateDefaultUnsetsOthers(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	second := sampleInput(userID)
	second.AddressLine = "45 Trần Hưng Đạo"
	second.IsDefault = true
	secondView, err := svc.Create(context.Background(), second)
	require.NoError(t, err)
	assert.True(t, secondView.IsDefault)

	views, err := svc.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, views, 2)
	for _, v := range views {
		if v.ID == first.ID {
			assert.False(t, v.IsDefault)
		}
	}
}

func TestAddressCreateNonDefaultKeepsExistingDefault(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	second := sampleInput(userID)
	second.AddressLine = "45 Trần Hưng Đạo"
	secondView, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	assert.False(t, secondView.IsDefault)
	assert.True(t, repo.addresses[first.ID].IsDefault)
}

func TestAddressCreateValidation(t *testing.T) {
	svc := newTestAddressService(t, newStubAddressRepo())

	input := sampleInput(uuid.New())
	input.City = "  "
	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddressUpdateOwnership(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	owner := uuid.New()

	created, err := svc.Create(context.Background(), sampleInput(owner))
	require.NoError(t, err)

	stranger := sampleInput(uuid.New())
	_, err = svc.Update(context.Background(), created.ID, stranger)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))

	update := sampleInput(owner)
	update.RecipientName = "Trần Thị Bình"
	label := "Nhà riêng"
	update.Label = &label
	view, err := svc.Update(context.Background(), created.ID, update)
	require.NoError(t, err)
	assert.Equal(t, "Trần Thị Bình", view.RecipientName)
	require.NotNil(t, view.Label)
	assert.Equal(t, "Nhà riêng", *view.Label)
}

func TestAddressUpdatePromoteToDefault(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	second := sampleInput(userID)
	second.AddressLine = "45 Trần Hưng Đạo"
	secondView, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	promote := second
	promote.IsDefault = true
	view, err := svc.Update(context.Background(), secondView.ID, promote)
	require.NoError(t, err)

	assert.True(t, view.IsDefault)
	assert.False(t, repo.addresses[first.ID].IsDefault)
}

func TestAddressDeleteDefaultBlockedWhenOthersExist(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	second := sampleInput(userID)
	second.AddressLine = "45 Trần Hưng Đạo"
	_, err = svc.Create(context.Background(), second)
	require.NoError(t, err)

	err = svc.Delete(context.Background(), userID, first.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestAddressDeleteLastDefaultAllowed(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	created, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), userID, created.ID))
	assert.Empty(t, repo.addresses)
}

func TestAddressDeleteNotFoundAndForbidden(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	err := svc.Delete(context.Background(), userID, uuid.New())
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	created, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	err = svc.Delete(context.Background(), uuid.New(), created.ID)
	require.Error(t, err)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeForbidden))
}

func TestAddressSetDefault(t *testing.T) {
	repo := newStubAddressRepo()
	svc := newTestAddressService(t, repo)
	userID := uuid.New()

	first, err := svc.Create(context.Background(), sampleInput(userID))
	require.NoError(t, err)

	second := sampleInput(userID)
	second.AddressLine = "45 Trần Hưng Đạo"
	secondView, err := svc.Create(context.Background(), second)
	require.NoError(t, err)

	view, err := svc.SetDefault(context.Background(), userID, secondView.ID)
	require.NoError(t, err)
	assert.True(t, view.IsDefault)
	assert.False(t, repo.addresses[first.ID].IsDefault)

	// Setting the current default again is a no-op.
	again, err := svc.SetDefault(context.Background(), userID, secondView.ID)
	require.NoError(t, err)
	assert.True(t, again.IsDefault)
}
