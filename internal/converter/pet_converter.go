package converter

import (
	"time"

	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// PetToResponse converts a Pet entity to the owner/doctor-facing DTO.
// avatarURL is resolved by the caller; an empty string means no avatar.
func PetToResponse(pet *entity.Pet, avatarURL string) *dto.PetResponse {
	if pet == nil {
		return nil
	}

	return &dto.PetResponse{
		ID:        pet.ID,
		Name:      pet.Name,
		Species:   pet.Species,
		Breed:     pet.Breed,
		Color:     pet.Color,
		BirthDate: formatDate(pet.BirthDate),
		AvatarURL: avatarURL,
		QRSlug:    pet.QRSlug,
		IsLost:    pet.IsLost,
		CreatedAt: pet.CreatedAt,
	}
}

// PetToCardResponse converts a Pet entity to its public identity card.
// Only display attributes cross this boundary.
func PetToCardResponse(pet *entity.Pet, avatarURL string) *dto.PetCardResponse {
	if pet == nil {
		return nil
	}

	return &dto.PetCardResponse{
		Name:       pet.Name,
		Species:    pet.Species,
		Breed:      pet.Breed,
		Color:      pet.Color,
		BirthDate:  formatDate(pet.BirthDate),
		AvatarURL:  avatarURL,
		IsLost:     pet.IsLost,
		OwnerName:  pet.Owner.FullName(),
		OwnerPhone: pet.Owner.PhoneNumber,
	}
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}
