package repository

import (
	"petid/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DoctorProfileRepository interface {
	Create(db *gorm.DB, profile *entity.DoctorProfile) error
	FindByUserID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error)
	FindAll(db *gorm.DB) ([]entity.DoctorProfile, error)

	// Grant list management. AddPet is idempotent; HasPet answers the
	// grant-membership question every record access check depends on.
	AddPet(db *gorm.DB, doctorID, petID uuid.UUID) error
	RemovePet(db *gorm.DB, doctorID, petID uuid.UUID) error
	HasPet(db *gorm.DB, doctorID, petID uuid.UUID) (bool, error)
	FindGrantedPets(db *gorm.DB, doctorID uuid.UUID) ([]entity.Pet, error)
}
