package entity

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a clinical note attached to a pet. DoctorID is nullable:
// when a doctor account is removed the record persists with the reference
// cleared. Access is always evaluated against the pet's current grant list,
// not against the original author.
type MedicalRecord struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PetID        uuid.UUID  `gorm:"type:uuid;not null;index" json:"pet_id"`
	DoctorID     *uuid.UUID `gorm:"type:uuid;index" json:"doctor_id,omitempty"`
	Diagnosis    string     `gorm:"type:varchar(255);not null" json:"diagnosis"`
	Treatment    string     `gorm:"type:text;not null" json:"treatment"`
	Prescription string     `gorm:"type:text" json:"prescription,omitempty"`
	Notes        string     `gorm:"type:text" json:"notes,omitempty"`
	Date         time.Time  `gorm:"type:date;not null" json:"date"`

	// Relationships
	Pet    Pet            `gorm:"foreignKey:PetID" json:"pet,omitempty"`
	Doctor *DoctorProfile `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (MedicalRecord) TableName() string {
	return "medical_records"
}
