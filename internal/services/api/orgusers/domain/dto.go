// Package domain holds DTOs for the organization user directory
package domain

import (
	"time"

	"careview/internal/adapters/careapi"
	"careview/internal/core/listview"
	"careview/internal/core/mutation"
)

// Member is one user of an organization
type Member struct {
	ID          string     `json:"id"           example:"ur1"`
	UserID      string     `json:"user_id"      example:"u1"`
	Username    string     `json:"username"     example:"nurse.ann"`
	DisplayName string     `json:"display_name" example:"Ann Lee"`
	UserType    string     `json:"user_type"    example:"nurse"`
	Email       string     `json:"email,omitempty"`
	PhoneNumber string     `json:"phone_number,omitempty" example:"+14155552671"`
	Role        string     `json:"role"         example:"Nurse"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

// SearchField is one field of the search box
type SearchField struct {
	Key         string `json:"key"         example:"phone_number"`
	Param       string `json:"param"       example:"phone_number"`
	Kind        string `json:"kind"        example:"phone"`
	Placeholder string `json:"placeholder" example:"Search by phone number"`
	Value       string `json:"value"       example:"+14155552671"`
}

// SearchBox is the search state of the directory
type SearchBox struct {
	Fields []SearchField `json:"fields"`
	// Active is the index of the field holding a value, 0 when none does
	Active int `json:"active"`
}

// SheetState is the open side sheet and the username the link sheet starts with
type SheetState struct {
	Open     string `json:"open"               example:"link"`
	Username string `json:"username,omitempty" example:"nurse.ann"`
}

// Badge is the member count shown next to the directory title
type Badge struct {
	Count    int  `json:"count"`
	Fetching bool `json:"fetching"`
}

// Directory is the view model of an organization's user directory
type Directory struct {
	Organization string                    `json:"organization" example:"o1"`
	Search       SearchBox                 `json:"search"`
	Sheet        SheetState                `json:"sheet"`
	Badge        Badge                     `json:"badge"`
	List         listview.Snapshot[Member] `json:"list"`
}

// CreateInput is a new user
type CreateInput = careapi.CreateUser

// LinkInput adds an existing user to the organization with a role
type LinkInput struct {
	Organization string `json:"-"`
	User         string `json:"user" validate:"required" example:"u1"`
	Role         string `json:"role" validate:"required" example:"r-nurse"`
}

// Created is the new user plus what the user is told about it
type Created struct {
	User  careapi.User    `json:"user"`
	Notes []mutation.Note `json:"notes"`
}

// Linked is the new membership plus what the user is told about it
type Linked struct {
	Member Member          `json:"member"`
	Notes  []mutation.Note `json:"notes"`
}

// Rejected echoes a refused submission with the notes it produced
type Rejected struct {
	Input any             `json:"input"`
	Notes []mutation.Note `json:"notes"`
}

// Redirect is the location a refused search would have led to
type Redirect struct {
	Location string `json:"location" example:"/api/v1/organizations/o1/users?page=1"`
}
