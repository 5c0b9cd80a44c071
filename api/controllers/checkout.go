package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/api/responses"
	"github.com/haletrung/vietmarket-backend/api/validators"
	"github.com/haletrung/vietmarket-backend/internal/checkout"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
)

type checkoutRequest struct {
	AddressID     string  `json:"address_id" validate:"required,uuid"`
	PaymentMethod string  `json:"payment_method" validate:"required,oneof=COD BANK_TRANSFER E_WALLET"`
	Notes         *string `json:"notes"`
}

func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		customerID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := uuid.Parse(req.AddressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "address_id must be a uuid"))
			return
		}

		view, err := svc.CreateOrder(r.Context(), checkout.CreateOrderInput{
			CustomerID:    customerID,
			AddressID:     addressID,
			PaymentMethod: req.PaymentMethod,
			Notes:         req.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}
