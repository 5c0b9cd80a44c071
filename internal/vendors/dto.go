package vendors

import (
	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/db/models"
)

// ProfileInput carries the mutable storefront fields.
type ProfileInput struct {
	StoreName   string  `json:"store_name"`
	Description *string `json:"description"`
	City        *string `json:"city"`
}

// VendorView is the public read shape of a storefront.
type VendorView struct {
	ID          uuid.UUID `json:"id"`
	StoreName   string    `json:"store_name"`
	Description *string   `json:"description,omitempty"`
	City        *string   `json:"city,omitempty"`
}

func buildView(vendor models.Vendor) VendorView {
	return VendorView{
		ID:          vendor.ID,
		StoreName:   vendor.StoreName,
		Description: vendor.Description,
		City:        vendor.City,
	}
}
