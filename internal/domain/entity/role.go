package entity

// Role represents a user role in the system
type Role struct {
	ID          int    `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName    string `gorm:"type:varchar(50);uniqueIndex;not null" json:"role_name"`
	Description string `gorm:"type:text" json:"description,omitempty"`

	// Relationships
	Users []User `gorm:"foreignKey:RoleID" json:"users,omitempty"`
}

func (Role) TableName() string {
	return "roles"
}

// Role ID constants. The role set is closed: every permission decision
// dispatches on these ids, never on free-form strings.
const (
	RoleIDOwner  = 1
	RoleIDDoctor = 2
)

// Role name constants
const (
	RoleOwner  = "OWNER"
	RoleDoctor = "DOCTOR"
)

// RoleName returns the display label for a role id.
func RoleName(roleID int) string {
	switch roleID {
	case RoleIDOwner:
		return RoleOwner
	case RoleIDDoctor:
		return RoleDoctor
	default:
		return ""
	}
}
