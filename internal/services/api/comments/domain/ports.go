package domain

import (
	"context"

	"careview/internal/adapters/careapi"
	"careview/internal/core/query"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Section(ctx context.Context, resource string, store query.Store) (Section, error)
	Add(ctx context.Context, in AddInput) (Comment, error)
}

// Upstream is the part of the care API the comment section uses
type Upstream interface {
	ListResourceComments(ctx context.Context, resourceID string, limit, offset int) (careapi.Page[careapi.Comment], error)
	AddResourceComment(ctx context.Context, resourceID string, in careapi.NewComment) (careapi.Comment, error)
}
