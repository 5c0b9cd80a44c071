package auth

import (
	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
)

// RegisterInput carries a signup request. The vendor fields are read only
// when Role is VENDOR.
type RegisterInput struct {
	Email       string  `json:"email"`
	Password    string  `json:"password"`
	FullName    string  `json:"full_name"`
	Phone       *string `json:"phone"`
	Role        string  `json:"role"`
	StoreName   string  `json:"store_name"`
	Description *string `json:"description"`
	City        *string `json:"city"`
}

// LoginInput carries a credential check request.
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserView is the account shape returned after auth operations.
type UserView struct {
	ID       uuid.UUID      `json:"id"`
	Email    string         `json:"email"`
	FullName string         `json:"full_name"`
	Phone    *string        `json:"phone,omitempty"`
	Role     enums.UserRole `json:"role"`
	VendorID *uuid.UUID     `json:"vendor_id,omitempty"`
}

// AuthResult bundles the minted tokens with the authenticated account.
type AuthResult struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         UserView `json:"user"`
}

func buildUserView(user models.User, vendorID *uuid.UUID) UserView {
	return UserView{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
		Role:     user.Role,
		VendorID: vendorID,
	}
}
