package controllers

import (
	"net/http"

	"github.com/haletrung/vietmarket-backend/api/responses"
	"github.com/haletrung/vietmarket-backend/api/validators"
	"github.com/haletrung/vietmarket-backend/internal/address"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
)

type addressRequest struct {
	RecipientName  string  `json:"recipient_name" validate:"required"`
	RecipientPhone string  `json:"recipient_phone" validate:"required"`
	AddressLine    string  `json:"address_line" validate:"required"`
	Ward           string  `json:"ward" validate:"required"`
	District       string  `json:"district" validate:"required"`
	City           string  `json:"city" validate:"required"`
	Label          *string `json:"label"`
	IsDefault      bool    `json:"is_default"`
}

func ListAddresses(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		views, err := svc.List(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, views)
	}
}

func CreateAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Create(r.Context(), address.UpsertInput{
			UserID:         userID,
			RecipientName:  req.RecipientName,
			RecipientPhone: req.RecipientPhone,
			AddressLine:    req.AddressLine,
			Ward:           req.Ward,
			District:       req.District,
			City:           req.City,
			Label:          req.Label,
			IsDefault:      req.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

func UpdateAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.ParseUUIDParam(r, "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addressRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Update(r.Context(), addressID, address.UpsertInput{
			UserID:         userID,
			RecipientName:  req.RecipientName,
			RecipientPhone: req.RecipientPhone,
			AddressLine:    req.AddressLine,
			Ward:           req.Ward,
			District:       req.District,
			City:           req.City,
			Label:          req.Label,
			IsDefault:      req.IsDefault,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func DeleteAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.ParseUUIDParam(r, "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), userID, addressID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]bool{"deleted": true})
	}
}

func SetDefaultAddress(svc address.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "address service unavailable"))
			return
		}

		userID, err := callerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		addressID, err := validators.ParseUUIDParam(r, "addressID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.SetDefault(r.Context(), userID, addressID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
