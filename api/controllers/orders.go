package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/api/middleware"
	"github.com/haletrung/vietmarket-backend/api/responses"
	"github.com/haletrung/vietmarket-backend/api/validators"
	"github.com/haletrung/vietmarket-backend/internal/orders"
	"github.com/haletrung/vietmarket-backend/pkg/enums"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
	"github.com/haletrung/vietmarket-backend/pkg/logger"
	"github.com/haletrung/vietmarket-backend/pkg/pagination"
)

type updateSubOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING COOKING READY PICKED_UP DELIVERED CANCELLED"`
}

func orderCaller(r *http.Request) (orders.Caller, error) {
	userID, err := callerID(r)
	if err != nil {
		return orders.Caller{}, err
	}

	role, err := enums.ParseUserRole(middleware.RoleFromContext(r.Context()))
	if err != nil {
		return orders.Caller{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
	}

	caller := orders.Caller{UserID: userID, Role: role}
	if raw := middleware.VendorIDFromContext(r.Context()); raw != "" {
		vendorID, err := uuid.Parse(raw)
		if err != nil {
			return orders.Caller{}, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
		}
		caller.VendorID = &vendorID
	}
	return caller, nil
}

func ListOrders(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		caller, err := orderCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListOrders(r.Context(), orders.ListOrdersInput{
			Caller: caller,
			Params: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func GetOrder(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		caller, err := orderCaller(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orderID, err := validators.ParseUUIDParam(r, "orderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetOrder(r.Context(), orderID, caller)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

func UpdateSubOrderStatus(svc orders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		vendorID, err := callerVendorID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		subOrderID, err := validators.ParseUUIDParam(r, "subOrderID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateSubOrderStatusRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		status, err := enums.ParseSubOrderStatus(req.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		view, err := svc.UpdateSubOrderStatus(r.Context(), orders.UpdateStatusInput{
			SubOrderID: subOrderID,
			VendorID:   vendorID,
			NewStatus:  status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}
