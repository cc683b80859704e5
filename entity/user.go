package entity

import (
	"net/http"
	"sankhyacrm/internal/lib/validate"
)

// User is a CRM user kept in the ERP (AD_USUARIOS). The password hash
// never leaves the process: it is stripped before any response.
type User struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	Avatar   string `json:"avatar,omitempty"`
	Password string `json:"-"`
}

const UserStatusActive = "ativo"

// WithoutPassword returns a copy safe for serialization.
func (u User) WithoutPassword() User {
	u.Password = ""
	return u
}

// LoginRequest is the /auth/login body.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (l *LoginRequest) Bind(_ *http.Request) error {
	return validate.Struct(l)
}

// UserAuth identifies the API caller resolved by the authenticate
// middleware.
type UserAuth struct {
	Name  string `json:"name" bson:"name" validate:"omitempty"`
	Token string `json:"token" bson:"token" validate:"required,min=1"`
}

func (u *UserAuth) Bind(_ *http.Request) error {
	return validate.Struct(u)
}
