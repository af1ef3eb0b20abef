package dto

import "github.com/google/uuid"

type CreateMedicalRecordRequest struct {
	Diagnosis    string `json:"diagnosis" validate:"required,max=255"`
	Treatment    string `json:"treatment" validate:"required"`
	Prescription string `json:"prescription" validate:"omitempty"`
	Notes        string `json:"notes" validate:"omitempty"`
}

type UpdateMedicalRecordRequest struct {
	Diagnosis    string `json:"diagnosis" validate:"required,max=255"`
	Treatment    string `json:"treatment" validate:"required"`
	Prescription string `json:"prescription" validate:"omitempty"`
	Notes        string `json:"notes" validate:"omitempty"`
}

type MedicalRecordResponse struct {
	ID           int64      `json:"id"`
	PetID        uuid.UUID  `json:"pet_id"`
	DoctorID     *uuid.UUID `json:"doctor_id,omitempty"`
	DoctorName   string     `json:"doctor_name,omitempty"`
	Diagnosis    string     `json:"diagnosis"`
	Treatment    string     `json:"treatment"`
	Prescription string     `json:"prescription,omitempty"`
	Notes        string     `json:"notes,omitempty"`
	Date         string     `json:"date"`
}
