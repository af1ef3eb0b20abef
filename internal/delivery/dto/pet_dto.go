package dto

import (
	"time"

	"github.com/google/uuid"
)

// CreatePetRequest registers a new pet. BirthDate uses YYYY-MM-DD and must
// not lie in the future.
type CreatePetRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Species   string `json:"species" validate:"omitempty,max=50"`
	Breed     string `json:"breed" validate:"omitempty,max=100"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	BirthDate string `json:"birth_date" validate:"omitempty"`
}

// UpdatePetRequest edits pet attributes. The QR slug is deliberately absent:
// it is assigned once at creation and never editable.
type UpdatePetRequest struct {
	Name      string `json:"name" validate:"required,max=120"`
	Species   string `json:"species" validate:"omitempty,max=50"`
	Breed     string `json:"breed" validate:"omitempty,max=100"`
	Color     string `json:"color" validate:"omitempty,max=50"`
	BirthDate string `json:"birth_date" validate:"omitempty"`
}

// PetResponse is the owner- and doctor-facing view of a pet.
type PetResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Species   string    `json:"species,omitempty"`
	Breed     string    `json:"breed,omitempty"`
	Color     string    `json:"color,omitempty"`
	BirthDate string    `json:"birth_date,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	QRSlug    string    `json:"qr_slug"`
	IsLost    bool      `json:"is_lost"`
	CreatedAt time.Time `json:"created_at"`
}

// PetCardResponse is the public identity card resolved from a scanned slug.
// It carries display attributes plus the owner contact hint a finder needs;
// medical data never appears here.
type PetCardResponse struct {
	Name       string `json:"name"`
	Species    string `json:"species,omitempty"`
	Breed      string `json:"breed,omitempty"`
	Color      string `json:"color,omitempty"`
	BirthDate  string `json:"birth_date,omitempty"`
	AvatarURL  string `json:"avatar_url,omitempty"`
	IsLost     bool   `json:"is_lost"`
	OwnerName  string `json:"owner_name,omitempty"`
	OwnerPhone string `json:"owner_phone,omitempty"`
}
