// Package domain holds DTOs for the comment section http and service contracts
package domain

import (
	"time"

	"careview/internal/core/listview"
	"careview/internal/core/mutation"
)

// Author is the comment's creator
type Author struct {
	ID          string `json:"id"           example:"5b7f8a1e-2c1d-4e55-9a3a-0c7d1e2f3a4b"`
	Username    string `json:"username"     example:"nurse.ann"`
	DisplayName string `json:"display_name" example:"Ann Lee"`
}

// Comment is one entry of a resource's comment section
type Comment struct {
	ID          string    `json:"id"           example:"c1"`
	Comment     string    `json:"comment"      example:"Oxygen cylinders dispatched"`
	Author      Author    `json:"created_by"`
	CreatedDate time.Time `json:"created_date" example:"2026-10-01T10:00:00Z"`
}

// Section is the comment section of one resource, newest first
type Section struct {
	Resource string                     `json:"resource" example:"r1"`
	List     listview.Snapshot[Comment] `json:"list"`
}

// AddInput is a comment submission
type AddInput struct {
	Resource string `json:"-"`
	Comment  string `json:"comment" validate:"has_text" example:"Oxygen cylinders dispatched"`
}

// AddResult is the created comment and what the user is told about it
type AddResult struct {
	Comment Comment         `json:"comment"`
	Notes   []mutation.Note `json:"notes"`
}

// Draft echoes a rejected submission back so it can be corrected
type Draft struct {
	Comment string          `json:"comment"`
	Notes   []mutation.Note `json:"notes"`
}
