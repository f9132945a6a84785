package careapi

import (
	"strings"
	"time"
)

// Page is one page of a list endpoint
type Page[T any] struct {
	Results []T `json:"results"`
	Count   int `json:"count"`
}

// UserBase is the short user form embedded in other resources
type UserBase struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	UserType          string     `json:"user_type,omitempty"`
	ProfilePictureURL string     `json:"profile_picture_url,omitempty"`
	LastLogin         *time.Time `json:"last_login,omitempty"`
}

// DisplayName is "first last", falling back to the username
func (u UserBase) DisplayName() string {
	if n := strings.TrimSpace(u.FirstName + " " + u.LastName); n != "" {
		return n
	}
	return u.Username
}

// User is the full user record
type User struct {
	UserBase
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Gender      string `json:"gender,omitempty"`
}

// Role is an organization role
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// UserRole links a user to an organization with a role
type UserRole struct {
	ID   string `json:"id"`
	User User   `json:"user"`
	Role Role   `json:"role"`
}

// Comment is a comment on a resource request
type Comment struct {
	ID          string    `json:"id"`
	Comment     string    `json:"comment"`
	CreatedBy   UserBase  `json:"created_by"`
	CreatedDate time.Time `json:"created_date"`
}

// NewComment is the body of a comment submission
type NewComment struct {
	Comment string `json:"comment" validate:"has_text"`
}

// UserQuery filters the organization user directory
type UserQuery struct {
	Username    string
	PhoneNumber string
	Page        int
	Limit       int
	Offset      int
}

// CreateUser is the body of a user creation
type CreateUser struct {
	Username    string `json:"username" validate:"required,min=4,max=16"`
	FirstName   string `json:"first_name" validate:"has_text"`
	LastName    string `json:"last_name" validate:"has_text"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number" validate:"required,e164,phone"`
	UserType    string `json:"user_type" validate:"required,oneof=doctor nurse staff volunteer administrator"`
	Gender      string `json:"gender,omitempty" validate:"omitempty,oneof=male female non_binary transgender"`
	Password    string `json:"password,omitempty" validate:"omitempty,min=8"`
}

// LinkUser adds an existing user to an organization
type LinkUser struct {
	User string `json:"user" validate:"required"`
	Role string `json:"role" validate:"required"`
}
