package entity

import "github.com/google/uuid"

// DoctorProfile represents doctor-specific profile data. It is created in the
// same transaction as the doctor's user row, so its presence is a hard
// invariant for every account with the doctor role. Pets holds the grant
// list: the set of pets whose medical records this doctor may read and write.
type DoctorProfile struct {
	UserID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	Specialization string    `gorm:"type:varchar(100);not null;index" json:"specialization"`
	ClinicName     string    `gorm:"type:varchar(120)" json:"clinic_name,omitempty"`
	Biography      string    `gorm:"type:text" json:"biography,omitempty"`

	// Relationships
	User User  `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Pets []Pet `gorm:"many2many:doctor_pets;joinForeignKey:DoctorID;joinReferences:PetID" json:"pets,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}
