package handler

import (
	"encoding/json"
	"net/http"

	"petid/internal/delivery/dto"
	"petid/internal/delivery/http/middleware"
	"petid/internal/usecase"
	"petid/pkg/response"
	"petid/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type GrantHandler struct {
	grantUsecase usecase.GrantUsecase
	validator    *validator.CustomValidator
}

func NewGrantHandler(grantUsecase usecase.GrantUsecase, validator *validator.CustomValidator) *GrantHandler {
	return &GrantHandler{
		grantUsecase: grantUsecase,
		validator:    validator,
	}
}

// ListDoctors returns the doctor directory owners grant access from
func (h *GrantHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.grantUsecase.ListDoctors(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to list doctors")
		return
	}

	response.Success(w, http.StatusOK, "Doctors retrieved successfully", doctors)
}

// GrantDoctor adds a doctor to the pet's grant list
func (h *GrantHandler) GrantDoctor(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	var req dto.GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.grantUsecase.GrantDoctor(r.Context(), ownerID, petID, &req); err != nil {
		switch err {
		case usecase.ErrPetNotFound:
			response.NotFound(w, "Pet not found")
		case usecase.ErrDoctorNotFound:
			response.NotFound(w, "Doctor not found")
		case usecase.ErrForbidden:
			response.Forbidden(w, "")
		default:
			response.InternalServerError(w, "Failed to grant doctor access")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor access granted successfully", nil)
}

// RevokeDoctor removes a doctor from the pet's grant list
func (h *GrantHandler) RevokeDoctor(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	doctorID, err := uuid.Parse(mux.Vars(r)["doctorID"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid doctor ID", nil)
		return
	}

	if err := h.grantUsecase.RevokeDoctor(r.Context(), ownerID, petID, doctorID); err != nil {
		switch err {
		case usecase.ErrPetNotFound:
			response.NotFound(w, "Pet not found")
		case usecase.ErrGrantNotFound:
			response.NotFound(w, "Doctor has no access to this pet")
		case usecase.ErrForbidden:
			response.Forbidden(w, "")
		default:
			response.InternalServerError(w, "Failed to revoke doctor access")
		}
		return
	}

	response.Success(w, http.StatusOK, "Doctor access revoked successfully", nil)
}

// ListPetDoctors returns the doctors currently granted on a pet
func (h *GrantHandler) ListPetDoctors(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	doctors, err := h.grantUsecase.ListPetDoctors(r.Context(), ownerID, petID)
	if err != nil {
		switch err {
		case usecase.ErrPetNotFound:
			response.NotFound(w, "Pet not found")
		case usecase.ErrForbidden:
			response.Forbidden(w, "")
		default:
			response.InternalServerError(w, "Failed to list granted doctors")
		}
		return
	}

	response.Success(w, http.StatusOK, "Granted doctors retrieved successfully", doctors)
}

// Dashboard returns the pets granted to the authenticated doctor
func (h *GrantHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	doctorID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	dashboard, err := h.grantUsecase.Dashboard(r.Context(), doctorID)
	if err != nil {
		response.InternalServerError(w, "Failed to load dashboard")
		return
	}

	response.Success(w, http.StatusOK, "Dashboard retrieved successfully", dashboard)
}
