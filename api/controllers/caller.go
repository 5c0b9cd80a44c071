package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/api/middleware"
	pkgerrors "github.com/haletrung/vietmarket-backend/pkg/errors"
)

func callerID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid credentials")
	}
	return id, nil
}

func callerVendorID(r *http.Request) (uuid.UUID, error) {
	raw := middleware.VendorIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeForbidden, "vendor profile required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeForbidden, err, "invalid vendor profile")
	}
	return id, nil
}
