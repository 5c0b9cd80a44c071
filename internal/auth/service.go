package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/haletrung/vietmarket-backend/internal/users"
	"github.com/haletrung/vietmarket-backend/internal/vendors"
	"github.com/haletrung/vietmarket-backend/pkg/auth"
	"github.com/haletrung/vietmarket-backend/pkg/config"
	"github.com/haletrung/vietmarket-backend/pkg/db"
	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
	redisclient "github.com/haletrung/vietmarket-backend/pkg/redis"
	"github.com/haletrung/vietmarket-backend/pkg/security"
)

const (
	minPasswordLength = 8
	refreshTokenTTL   = 30 * 24 * time.Hour
)

type sessionStore interface {
	StoreRefreshToken(ctx context.Context, userID, token string, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, userID string) (string, error)
	RevokeRefreshToken(ctx context.Context, userID string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes account registration and credential exchange.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

type service struct {
	users    users.Repository
	vendors  vendors.Repository
	sessions sessionStore
	tx       txRunner
	jwt      config.JWTConfig
	password config.PasswordConfig
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the auth service.
func NewService(users users.Repository, vendors vendors.Repository, sessions sessionStore, tx txRunner, jwt config.JWTConfig, password config.PasswordConfig, logg *logger.Logger) (Service, error) {
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: user store is required")
	}
	if vendors == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: vendor store is required")
	}
	if sessions == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: session store is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: tx runner is required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "auth: logger is required")
	}
	return &service{
		users:    users,
		vendors:  vendors,
		sessions: sessions,
		tx:       tx,
		jwt:      jwt,
		password: password,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "a valid email is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password must be at least 8 characters")
	}
	if strings.TrimSpace(input.FullName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name is required")
	}
	role, err := enums.ParseUserRole(input.Role)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "role must be CUSTOMER or VENDOR")
	}
	if role == enums.UserRoleVendor && strings.TrimSpace(input.StoreName) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store name is required for vendor accounts")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hashing password")
	}

	var (
		user     *models.User
		vendorID *uuid.UUID
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		vendors := s.vendors.WithTx(tx)

		user, err = users.Create(ctx, &models.User{
			ID:           uuid.New(),
			Email:        email,
			PasswordHash: hash,
			FullName:     strings.TrimSpace(input.FullName),
			Phone:        input.Phone,
			Role:         role,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "email is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating user")
		}

		if role == enums.UserRoleVendor {
			vendor, err := vendors.Create(ctx, &models.Vendor{
				ID:          uuid.New(),
				UserID:      user.ID,
				StoreName:   strings.TrimSpace(input.StoreName),
				Description: input.Description,
				City:        input.City,
			})
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating vendor profile")
			}
			vendorID = &vendor.ID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.issueTokens(ctx, user, vendorID)
}

func (s *service) Login(ctx context.Context, input LoginInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verifying password")
	}
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	vendorID, err := s.vendorIDFor(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, s.now()); err != nil {
		s.logg.Error(s.logg.WithUserID(ctx, user.ID.String()), "recording last login failed", err)
	}

	return s.issueTokens(ctx, user, vendorID)
}

// Refresh exchanges a stored refresh token for a fresh token pair. The old
// refresh token is rotated out.
func (s *service) Refresh(ctx context.Context, userID uuid.UUID, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token is required")
	}

	stored, err := s.sessions.GetRefreshToken(ctx, userID.String())
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading session")
	}
	if stored != refreshToken {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "refresh token mismatch")
	}

	user, err := s.userByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	vendorID, err := s.vendorIDFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return s.issueTokens(ctx, user, vendorID)
}

func (s *service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.sessions.RevokeRefreshToken(ctx, userID.String()); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoking session")
	}
	return nil
}

func (s *service) issueTokens(ctx context.Context, user *models.User, vendorID *uuid.UUID) (*AuthResult, error) {
	accessToken, err := auth.MintAccessToken(s.jwt, s.now(), auth.AccessTokenPayload{
		UserID:   user.ID,
		Role:     user.Role,
		VendorID: vendorID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting access token")
	}

	refreshToken := uuid.NewString()
	if err := s.sessions.StoreRefreshToken(ctx, user.ID.String(), refreshToken, refreshTokenTTL); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storing session")
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         buildUserView(*user, vendorID),
	}, nil
}

func (s *service) vendorIDFor(ctx context.Context, user *models.User) (*uuid.UUID, error) {
	if user.Role != enums.UserRoleVendor {
		return nil, nil
	}
	vendor, err := s.vendors.FindByUserID(ctx, user.ID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "vendor account has no vendor profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading vendor profile")
	}
	return &vendor.ID, nil
}

func (s *service) userByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if db.IsNotFound(err) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "account no longer exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading user")
	}
	return user, nil
}
