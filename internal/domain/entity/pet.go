package entity

import (
	"time"

	"github.com/google/uuid"
)

// Pet represents a registered animal. Every pet carries an opaque QR slug
// assigned once at creation; the slug is the only public handle to the pet
// and is never regenerated.
type Pet struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Name      string     `gorm:"type:varchar(120);not null" json:"name"`
	Species   string     `gorm:"type:varchar(50)" json:"species,omitempty"`
	Breed     string     `gorm:"type:varchar(100)" json:"breed,omitempty"`
	Color     string     `gorm:"type:varchar(50)" json:"color,omitempty"`
	BirthDate *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	AvatarKey string     `gorm:"type:varchar(255)" json:"avatar_key,omitempty"`
	QRSlug    string     `gorm:"column:qr_slug;type:char(32);uniqueIndex;not null" json:"qr_slug"`
	IsLost    bool       `gorm:"not null;default:false" json:"is_lost"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`

	// Relationships
	Owner          User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Doctors        []DoctorProfile `gorm:"many2many:doctor_pets;joinForeignKey:PetID;joinReferences:DoctorID" json:"doctors,omitempty"`
	MedicalRecords []MedicalRecord `gorm:"foreignKey:PetID" json:"medical_records,omitempty"`
}

func (Pet) TableName() string {
	return "pets"
}
