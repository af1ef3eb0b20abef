package converter

import (
	"petid/internal/delivery/dto"
	"petid/internal/domain/entity"
)

// UserToResponse converts a User entity to UserResponse DTO
func UserToResponse(user *entity.User) *dto.UserResponse {
	if user == nil {
		return nil
	}

	resp := &dto.UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Role:        entity.RoleName(user.RoleID),
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}

	if user.DoctorProfile != nil {
		resp.DoctorProfile = &dto.DoctorProfileResponse{
			Specialization: user.DoctorProfile.Specialization,
			ClinicName:     user.DoctorProfile.ClinicName,
			Biography:      user.DoctorProfile.Biography,
		}
	}

	return resp
}
