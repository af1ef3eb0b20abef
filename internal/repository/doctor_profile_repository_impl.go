package repository

import (
	"errors"

	"petid/internal/domain/entity"
	domainRepo "petid/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type doctorProfileRepository struct{}

func NewDoctorProfileRepository() domainRepo.DoctorProfileRepository {
	return &doctorProfileRepository{}
}

func (r *doctorProfileRepository) Create(db *gorm.DB, profile *entity.DoctorProfile) error {
	return db.Create(profile).Error
}

func (r *doctorProfileRepository) FindByUserID(db *gorm.DB, doctorID uuid.UUID) (*entity.DoctorProfile, error) {
	var profile entity.DoctorProfile
	err := db.Preload("User").Where("user_id = ?", doctorID).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

func (r *doctorProfileRepository) FindAll(db *gorm.DB) ([]entity.DoctorProfile, error) {
	var profiles []entity.DoctorProfile
	err := db.Preload("User").Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

// AddPet inserts into the join table directly so repeated grants stay
// idempotent instead of failing on the composite primary key.
func (r *doctorProfileRepository) AddPet(db *gorm.DB, doctorID, petID uuid.UUID) error {
	return db.Table("doctor_pets").
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(map[string]interface{}{
			"doctor_id": doctorID,
			"pet_id":    petID,
		}).Error
}

func (r *doctorProfileRepository) RemovePet(db *gorm.DB, doctorID, petID uuid.UUID) error {
	return db.Table("doctor_pets").
		Where("doctor_id = ? AND pet_id = ?", doctorID, petID).
		Delete(nil).Error
}

func (r *doctorProfileRepository) HasPet(db *gorm.DB, doctorID, petID uuid.UUID) (bool, error) {
	var count int64
	err := db.Table("doctor_pets").
		Where("doctor_id = ? AND pet_id = ?", doctorID, petID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *doctorProfileRepository) FindGrantedPets(db *gorm.DB, doctorID uuid.UUID) ([]entity.Pet, error) {
	var pets []entity.Pet
	err := db.Joins("JOIN doctor_pets ON doctor_pets.pet_id = pets.id").
		Where("doctor_pets.doctor_id = ?", doctorID).
		Order("pets.created_at DESC").
		Find(&pets).Error
	if err != nil {
		return nil, err
	}
	return pets, nil
}
