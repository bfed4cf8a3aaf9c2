package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Rôles possibles (ensemble fermé, décidé à la frontière de présentation)
const (
	RoleSuperAdmin       = "super_admin"
	RoleAdminAssociation = "admin_association"
	RoleResident         = "resident"
)

// UserModel représente la table users
type UserModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserName  string    `gorm:"size:50;not null" json:"user_name" validate:"required,min=3,max=50"`
	Email     string    `gorm:"size:255;unique;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=8"`
	Role      string    `gorm:"type:varchar(20);not null;default:'resident'" json:"role" validate:"omitempty,oneof=super_admin admin_association resident"`
	Telephone *string   `gorm:"size:15" json:"telephone,omitempty"`
	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(_ *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// SetDefaultValues pose les valeurs par défaut avant validation
func (u *UserModel) SetDefaultValues() {
	if u.Role == "" {
		u.Role = RoleResident
	}
}
