package repository

import (
	"petid/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicalRecordRepository interface {
	Create(db *gorm.DB, record *entity.MedicalRecord) error
	FindByID(db *gorm.DB, id int64) (*entity.MedicalRecord, error)
	// FindByPet returns records newest-first by date.
	FindByPet(db *gorm.DB, petID uuid.UUID) ([]entity.MedicalRecord, error)
	CountByDoctor(db *gorm.DB, doctorID uuid.UUID) (int64, error)
	Update(db *gorm.DB, record *entity.MedicalRecord) error
	Delete(db *gorm.DB, id int64) error
}
