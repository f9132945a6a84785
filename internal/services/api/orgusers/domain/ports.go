package domain

import (
	"context"

	"careview/internal/adapters/careapi"
	"careview/internal/core/query"
)

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Directory(ctx context.Context, org string, store query.Store) (Directory, error)
	Search(org string, store query.Store, field, value string) error
	ClearSearch(org string, store query.Store)
	SetSheet(store query.Store, open string)
	CreateUser(ctx context.Context, store query.Store, in CreateInput) (careapi.User, error)
	LinkUser(ctx context.Context, in LinkInput) (Member, error)
}

// Upstream is the part of the care API the directory uses
type Upstream interface {
	ListOrganizationUsers(ctx context.Context, orgID string, uq careapi.UserQuery) (careapi.Page[careapi.UserRole], error)
	CreateUser(ctx context.Context, in careapi.CreateUser) (careapi.User, error)
	LinkOrganizationUser(ctx context.Context, orgID string, in careapi.LinkUser) (careapi.UserRole, error)
}
