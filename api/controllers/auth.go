package controllers

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/api/responses"
	"github.com/camachodev/puntoventa-backend/api/validators"
	"github.com/camachodev/puntoventa-backend/internal/employees"
	pkgAuth "github.com/camachodev/puntoventa-backend/pkg/auth"
	"github.com/camachodev/puntoventa-backend/pkg/config"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

type loginRequest struct {
	ProfileID string `json:"profile_id" validate:"required,uuid"`
	PIN       string `json:"pin" validate:"required,min=4,max=12"`
}

type loginResponse struct {
	Token     string               `json:"token"`
	ExpiresAt time.Time            `json:"expires_at"`
	Profile   employees.ProfileDTO `json:"profile"`
}

// Login verifies an employee PIN and issues the terminal session token.
func Login(svc employees.Service, jwtCfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload loginRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profileID, err := uuid.Parse(payload.ProfileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid profile id"))
			return
		}

		profile, err := svc.Login(r.Context(), profileID, payload.PIN)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(profile.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving role"))
			return
		}

		now := time.Now().UTC()
		token, err := pkgAuth.MintAccessToken(jwtCfg, now, pkgAuth.AccessTokenPayload{
			ProfileID:      profile.ID,
			OrganizationID: profile.OrganizationID,
			BranchID:       profile.BranchID,
			Role:           role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "minting token"))
			return
		}

		responses.WriteSuccess(w, loginResponse{
			Token:     token,
			ExpiresAt: now.Add(jwtCfg.Expiration()),
			Profile:   *profile,
		})
	}
}
