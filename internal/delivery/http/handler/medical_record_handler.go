package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"petid/internal/delivery/dto"
	"petid/internal/delivery/http/middleware"
	"petid/internal/usecase"
	"petid/pkg/response"
	"petid/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicalRecordHandler struct {
	recordUsecase usecase.MedicalRecordUsecase
	validator     *validator.CustomValidator
}

func NewMedicalRecordHandler(recordUsecase usecase.MedicalRecordUsecase, validator *validator.CustomValidator) *MedicalRecordHandler {
	return &MedicalRecordHandler{
		recordUsecase: recordUsecase,
		validator:     validator,
	}
}

// ListByPet returns a pet's medical history, newest first. Owners see their
// own pets, doctors see pets on their grant list.
func (h *MedicalRecordHandler) ListByPet(w http.ResponseWriter, r *http.Request) {
	userID, roleID, ok := callerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	records, err := h.recordUsecase.ListByPet(r.Context(), userID, roleID, petID)
	if err != nil {
		h.writeRecordError(w, err, "Failed to list medical records")
		return
	}

	response.Success(w, http.StatusOK, "Medical records retrieved successfully", records)
}

// Create adds a medical record to a granted pet
func (h *MedicalRecordHandler) Create(w http.ResponseWriter, r *http.Request) {
	doctorID, roleID, ok := callerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	petID, err := parsePetID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid pet ID", nil)
		return
	}

	var req dto.CreateMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.Add(r.Context(), doctorID, roleID, petID, &req)
	if err != nil {
		h.writeRecordError(w, err, "Failed to create medical record")
		return
	}

	response.Success(w, http.StatusCreated, "Medical record created successfully", record)
}

// Update edits an existing medical record
func (h *MedicalRecordHandler) Update(w http.ResponseWriter, r *http.Request) {
	doctorID, roleID, ok := callerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	recordID, err := parseRecordID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	var req dto.UpdateMedicalRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	record, err := h.recordUsecase.Edit(r.Context(), doctorID, roleID, recordID, &req)
	if err != nil {
		h.writeRecordError(w, err, "Failed to update medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record updated successfully", record)
}

// Delete removes a medical record
func (h *MedicalRecordHandler) Delete(w http.ResponseWriter, r *http.Request) {
	doctorID, roleID, ok := callerFromContext(r)
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	recordID, err := parseRecordID(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid record ID", nil)
		return
	}

	if err := h.recordUsecase.Delete(r.Context(), doctorID, roleID, recordID); err != nil {
		h.writeRecordError(w, err, "Failed to delete medical record")
		return
	}

	response.Success(w, http.StatusOK, "Medical record deleted successfully", nil)
}

func (h *MedicalRecordHandler) writeRecordError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPetNotFound:
		response.NotFound(w, "Pet not found")
	case usecase.ErrRecordNotFound:
		response.NotFound(w, "Medical record not found")
	case usecase.ErrForbidden:
		response.Forbidden(w, "")
	default:
		response.InternalServerError(w, fallback)
	}
}

func callerFromContext(r *http.Request) (userID uuid.UUID, roleID int, ok bool) {
	userID, ok = middleware.GetUserIDFromContext(r.Context())
	if !ok {
		return userID, 0, false
	}
	roleID, ok = middleware.GetRoleIDFromContext(r.Context())
	return userID, roleID, ok
}

func parseRecordID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["recordID"], 10, 64)
}
