package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	UserID   uuid.UUID
	Role     enums.UserRole
	VendorID *uuid.UUID
}

// AccessTokenClaims represents the typed JWT issued to clients. VendorID is
// set only for vendor accounts.
type AccessTokenClaims struct {
	UserID   uuid.UUID      `json:"user_id"`
	Role     enums.UserRole `json:"role"`
	VendorID *uuid.UUID     `json:"vendor_id,omitempty"`
	jwt.RegisteredClaims
}
