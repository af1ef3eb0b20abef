package dto

import "github.com/google/uuid"

// DoctorProfileResponse represents doctor profile data nested in a user.
type DoctorProfileResponse struct {
	Specialization string `json:"specialization"`
	ClinicName     string `json:"clinic_name,omitempty"`
	Biography      string `json:"biography,omitempty"`
}

// DoctorResponse is the directory entry owners pick from when granting
// access to a pet.
type DoctorResponse struct {
	ID             uuid.UUID `json:"id"`
	Email          string    `json:"email"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Specialization string    `json:"specialization"`
	ClinicName     string    `json:"clinic_name,omitempty"`
	Biography      string    `json:"biography,omitempty"`
}

// GrantRequest adds a doctor to a pet's grant list.
type GrantRequest struct {
	DoctorID uuid.UUID `json:"doctor_id" validate:"required"`
}

// DoctorDashboardResponse lists the pets a doctor holds grants for.
type DoctorDashboardResponse struct {
	Pets         []PetResponse `json:"pets"`
	TotalRecords int64         `json:"total_records"`
}
