package dto

import (
	"time"

	"github.com/google/uuid"

	m "iltizem_backend/internals/features/users/user/model"
)

/* =============== REQUESTS =============== */

type CreateUserRequest struct {
	UserName  string  `json:"user_name" validate:"required,min=3,max=50"`
	Email     string  `json:"email"     validate:"required,email"`
	Password  string  `json:"password"  validate:"required,min=8"`
	Role      string  `json:"role"      validate:"omitempty,oneof=super_admin admin_association resident"`
	Telephone *string `json:"telephone" validate:"omitempty"`
}

func (r CreateUserRequest) ToModel() *m.UserModel {
	return &m.UserModel{
		UserName:  r.UserName,
		Email:     r.Email,
		Password:  r.Password, // hashé par le service avant insert
		Role:      r.Role,
		Telephone: r.Telephone,
	}
}

// Update (partiel)
type UpdateUserRequest struct {
	UserName  *string `json:"user_name" validate:"omitempty,min=3,max=50"`
	Email     *string `json:"email"     validate:"omitempty,email"`
	Role      *string `json:"role"      validate:"omitempty,oneof=super_admin admin_association resident"`
	Telephone *string `json:"telephone" validate:"omitempty"`
	IsActive  *bool   `json:"is_active" validate:"omitempty"`
}

func (r UpdateUserRequest) ApplyTo(mo *m.UserModel) {
	if r.UserName != nil {
		mo.UserName = *r.UserName
	}
	if r.Email != nil {
		mo.Email = *r.Email
	}
	if r.Role != nil {
		mo.Role = *r.Role
	}
	if r.Telephone != nil {
		mo.Telephone = r.Telephone
	}
	if r.IsActive != nil {
		mo.IsActive = *r.IsActive
	}
}

/* =============== RESPONSES =============== */

type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"user_name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Telephone *string   `json:"telephone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func FromModel(x m.UserModel) UserResponse {
	return UserResponse{
		ID:        x.ID,
		UserName:  x.UserName,
		Email:     x.Email,
		Role:      x.Role,
		Telephone: x.Telephone,
		IsActive:  x.IsActive,
		CreatedAt: x.CreatedAt,
	}
}

func FromModels(list []m.UserModel) []UserResponse {
	out := make([]UserResponse, 0, len(list))
	for _, it := range list {
		out = append(out, FromModel(it))
	}
	return out
}
