// Package controllers maps HTTP requests onto the domain services. Handlers
// decode and validate, resolve the caller's organization from the auth
// context, delegate, and write the JSON envelope.
package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/api/middleware"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
)

func orgIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.OrganizationIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "organization context invalid")
	}
	return id, nil
}

func profileIDFromRequest(r *http.Request) (uuid.UUID, error) {
	raw := middleware.ProfileIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile context missing")
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "profile context invalid")
	}
	return id, nil
}
