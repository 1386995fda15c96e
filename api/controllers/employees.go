package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/api/responses"
	"github.com/camachodev/puntoventa-backend/api/validators"
	"github.com/camachodev/puntoventa-backend/internal/employees"
	"github.com/camachodev/puntoventa-backend/pkg/enums"
	pkgerrors "github.com/camachodev/puntoventa-backend/pkg/errors"
	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

// ListEmployees returns the organization's employee profiles.
func ListEmployees(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		rows, err := svc.ListEmployees(r.Context(), orgID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, rows)
	}
}

// GetEmployee returns one employee profile.
func GetEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profileID, err := validators.ParseUUIDParam(chi.URLParam(r, "profileID"), "profileID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		profile, err := svc.GetEmployee(r.Context(), orgID, profileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

type createEmployeeRequest struct {
	Name      string  `json:"name" validate:"required"`
	BranchID  *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      string  `json:"role" validate:"required"`
	PIN       string  `json:"pin,omitempty" validate:"omitempty,min=4,max=12"`
}

// CreateEmployee registers an employee profile.
func CreateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(strings.TrimSpace(payload.Role))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		input := employees.CreateEmployeeInput{
			Name:      payload.Name,
			AvatarURL: payload.AvatarURL,
			Role:      role,
			PIN:       payload.PIN,
		}
		if payload.BranchID != nil {
			branchID, parseErr := uuid.Parse(*payload.BranchID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid branch id"))
				return
			}
			input.BranchID = &branchID
		}

		profile, err := svc.CreateEmployee(r.Context(), orgID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, profile)
	}
}

type updateEmployeeRequest struct {
	Name      *string `json:"name,omitempty"`
	BranchID  *string `json:"branch_id,omitempty" validate:"omitempty,uuid"`
	AvatarURL *string `json:"avatar_url,omitempty"`
	Role      *string `json:"role,omitempty"`
	IsActive  *bool   `json:"is_active,omitempty"`
	PIN       *string `json:"pin,omitempty"`
}

// UpdateEmployee applies a partial profile update. An empty pin clears it.
func UpdateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profileID, err := validators.ParseUUIDParam(chi.URLParam(r, "profileID"), "profileID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateEmployeeRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := employees.UpdateEmployeeInput{
			Name:      payload.Name,
			AvatarURL: payload.AvatarURL,
			IsActive:  payload.IsActive,
			PIN:       payload.PIN,
		}
		if payload.BranchID != nil {
			branchID, parseErr := uuid.Parse(*payload.BranchID)
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid branch id"))
				return
			}
			input.BranchID = &branchID
		}
		if payload.Role != nil {
			role, parseErr := enums.ParseUserRole(strings.TrimSpace(*payload.Role))
			if parseErr != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, parseErr, "invalid role"))
				return
			}
			input.Role = &role
		}

		profile, err := svc.UpdateEmployee(r.Context(), orgID, profileID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, profile)
	}
}

// DeactivateEmployee disables terminal access for an employee.
func DeactivateEmployee(svc employees.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orgID, err := orgIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		profileID, err := validators.ParseUUIDParam(chi.URLParam(r, "profileID"), "profileID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateEmployee(r.Context(), orgID, profileID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"deactivated": true})
	}
}
