package domain

import (
	"context"
	"strings"
	"time"
)

// User is an applicant identity. Email identifies at most one User.
type User struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	FullName    string    `json:"fullName"`
	Phone       string    `json:"phone"`
	Country     string    `json:"country"`
	City        string    `json:"city"`
	DateOfBirth string    `json:"dateOfBirth"`
	Experience  string    `json:"experience"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PersonalInfo holds the profile fields shared by the user and application forms.
type PersonalInfo struct {
	FullName    string `json:"fullName" form:"fullName" binding:"required,min=2,max=120,valid_name"`
	Email       string `json:"email" form:"email" binding:"required,email"`
	Phone       string `json:"phone" form:"phone" binding:"required,valid_phone"`
	Country     string `json:"country" form:"country" binding:"required,max=80"`
	City        string `json:"city" form:"city" binding:"required,max=80"`
	DateOfBirth string `json:"dateOfBirth" form:"dateOfBirth" binding:"required,max=32"`
	Experience  string `json:"experience" form:"experience" binding:"required,max=32"`
}

// Normalize trims surrounding whitespace from every field.
func (p PersonalInfo) Normalize() PersonalInfo {
	return PersonalInfo{
		FullName:    strings.TrimSpace(p.FullName),
		Email:       strings.TrimSpace(p.Email),
		Phone:       strings.TrimSpace(p.Phone),
		Country:     strings.TrimSpace(p.Country),
		City:        strings.TrimSpace(p.City),
		DateOfBirth: strings.TrimSpace(p.DateOfBirth),
		Experience:  strings.TrimSpace(p.Experience),
	}
}

// NewUser builds an unsaved User from the submitted profile.
func (p PersonalInfo) NewUser() *User {
	return &User{
		Email:       p.Email,
		FullName:    p.FullName,
		Phone:       p.Phone,
		Country:     p.Country,
		City:        p.City,
		DateOfBirth: p.DateOfBirth,
		Experience:  p.Experience,
	}
}

// CreateUserRequest is the body of POST /api/users
type CreateUserRequest struct {
	PersonalInfo
}

type UserRepository interface {
	// Create assigns ID and CreatedAt. Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

type UserUsecase interface {
	CreateUser(ctx context.Context, req CreateUserRequest) (*User, error)
}
