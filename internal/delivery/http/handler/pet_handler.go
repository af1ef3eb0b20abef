package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"petid/internal/delivery/dto"
	"petid/internal/delivery/http/middleware"
	"petid/internal/usecase"
	"petid/pkg/response"
	"petid/pkg/slug"
	"petid/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

// maxAvatarSize bounds avatar uploads to 5 MiB.
const maxAvatarSize = 5 << 20

type PetHandler struct {
	petUsecase usecase.PetUsecase
	validator  *validator.CustomValidator
}

func NewPetHandler(petUsecase usecase.PetUsecase, validator *validator.CustomValidator) *PetHandler {
	return &PetHandler{
		petUsecase: petUsecase,
		validator:  validator,
	}
}

// CreatePet registers a new pet under the authenticated owner
func (h *PetHandler) CreatePet(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	var req dto.CreatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pet, err := h.petUsecase.CreatePet(r.Context(), ownerID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrBirthDateInFuture:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		case usecase.ErrForbidden:
			response.Forbidden(w, "")
		default:
			response.InternalServerError(w, "Failed to create pet")
		}
		return
	}

	response.Success(w, http.StatusCreated, "Pet created successfully", pet)
}

// ListPets returns the authenticated owner's pets
func (h *PetHandler) ListPets(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Invalid token")
		return
	}

	pets, err := h.petUsecase.ListOwnPets(r.Context(), ownerID)
	if err != nil {
		response.InternalServerError(w, "Failed to list pets")
		return
	}

	response.Success(w, http.StatusOK, "Pets retrieved successfully", pets)
}

// GetPet returns one of the owner's pets by ID
func (h *PetHandler) GetPet(w http.ResponseWriter, r *http.Request) {
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

	pet, err := h.petUsecase.GetPet(r.Context(), ownerID, petID)
	if err != nil {
		h.writePetError(w, err, "Failed to get pet")
		return
	}

	response.Success(w, http.StatusOK, "Pet retrieved successfully", pet)
}

// UpdatePet updates a pet's descriptive attributes
func (h *PetHandler) UpdatePet(w http.ResponseWriter, r *http.Request) {
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

	var req dto.UpdatePetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	pet, err := h.petUsecase.UpdatePet(r.Context(), ownerID, petID, &req)
	if err != nil {
		switch err {
		case usecase.ErrInvalidDateFormat, usecase.ErrBirthDateInFuture:
			response.Error(w, http.StatusBadRequest, err.Error(), nil)
		default:
			h.writePetError(w, err, "Failed to update pet")
		}
		return
	}

	response.Success(w, http.StatusOK, "Pet updated successfully", pet)
}

// ToggleLost flips the pet's lost flag
func (h *PetHandler) ToggleLost(w http.ResponseWriter, r *http.Request) {
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

	pet, err := h.petUsecase.ToggleLost(r.Context(), ownerID, petID)
	if err != nil {
		h.writePetError(w, err, "Failed to update lost status")
		return
	}

	message := "Pet marked as found"
	if pet.IsLost {
		message = "Pet marked as lost"
	}
	response.Success(w, http.StatusOK, message, pet)
}

// GetCard serves the public identity card looked up by QR slug. No
// authentication, no ownership data beyond the owner's display name, and no
// medical history.
func (h *PetHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	qrSlug := mux.Vars(r)["slug"]
	if !slug.Valid(qrSlug) {
		response.NotFound(w, "Pet not found")
		return
	}

	card, err := h.petUsecase.ResolveCard(r.Context(), qrSlug)
	if err != nil {
		switch err {
		case usecase.ErrPetNotFound:
			response.NotFound(w, "Pet not found")
		default:
			response.InternalServerError(w, "Failed to resolve pet card")
		}
		return
	}

	response.Success(w, http.StatusOK, "Pet card retrieved successfully", card)
}

// DownloadQR streams the pet's QR code as a PNG attachment
func (h *PetHandler) DownloadQR(w http.ResponseWriter, r *http.Request) {
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

	png, filename, err := h.petUsecase.GenerateQR(r.Context(), ownerID, petID)
	if err != nil {
		h.writePetError(w, err, "Failed to generate QR code")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// UploadAvatar stores a new avatar image for the pet
func (h *PetHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
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

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Avatar file is required", nil)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType != "image/png" && contentType != "image/jpeg" {
		response.Error(w, http.StatusBadRequest, "Avatar must be a PNG or JPEG image", nil)
		return
	}

	pet, err := h.petUsecase.UploadAvatar(r.Context(), ownerID, petID, file, header.Size, contentType)
	if err != nil {
		h.writePetError(w, err, "Failed to upload avatar")
		return
	}

	response.Success(w, http.StatusOK, "Avatar uploaded successfully", pet)
}

func (h *PetHandler) writePetError(w http.ResponseWriter, err error, fallback string) {
	switch err {
	case usecase.ErrPetNotFound:
		response.NotFound(w, "Pet not found")
	case usecase.ErrForbidden:
		response.Forbidden(w, "")
	default:
		response.InternalServerError(w, fallback)
	}
}

func parsePetID(r *http.Request) (uuid.UUID, error) {
	return uuid.Parse(mux.Vars(r)["id"])
}
