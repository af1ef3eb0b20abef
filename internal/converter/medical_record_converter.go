package converter

import (
	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
)

// MedicalRecordToResponse converts a MedicalRecord entity to its DTO. The
// doctor name is resolved from the preloaded profile when still present;
// records whose author was removed keep a nil doctor reference.
func MedicalRecordToResponse(record *entity.MedicalRecord) *dto.MedicalRecordResponse {
	if record == nil {
		return nil
	}

	resp := &dto.MedicalRecordResponse{
		ID:           record.ID,
		PetID:        record.PetID,
		DoctorID:     record.DoctorID,
		Diagnosis:    record.Diagnosis,
		Treatment:    record.Treatment,
		Prescription: record.Prescription,
		Notes:        record.Notes,
		Date:         record.Date.Format(dateLayout),
	}

	if record.Doctor != nil {
		resp.DoctorName = record.Doctor.User.FullName()
	}

	return resp
}

// MedicalRecordsToResponses converts a slice of MedicalRecord entities to DTOs
func MedicalRecordsToResponses(records []entity.MedicalRecord) []dto.MedicalRecordResponse {
	responses := make([]dto.MedicalRecordResponse, len(records))
	for i := range records {
		responses[i] = *MedicalRecordToResponse(&records[i])
	}
	return responses
}
