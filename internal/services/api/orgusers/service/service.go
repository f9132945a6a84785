// Package service contains the organization user directory workflows
package service

import (
	"context"

	"careview/internal/adapters/careapi"
	"careview/internal/core/filter"
	"careview/internal/core/listcache"
	"careview/internal/core/listsync"
	"careview/internal/core/mutation"
	"careview/internal/core/normalize"
	"careview/internal/core/pager"
	"careview/internal/core/query"
	"careview/internal/core/sheet"
	perr "careview/internal/platform/errors"
	"careview/internal/platform/logger"
	"careview/internal/services/api/orgusers/domain"
)

// Kind names directory pages in the list cache
const Kind = "org_users"

// DefaultLimit is the directory page size
const DefaultLimit = 15

// Search field keys
const (
	FieldUsername = "username"
	FieldPhone    = "phone_number"
)

// Fields are the search box options, username first
var Fields = []filter.Field{
	{Key: FieldUsername, Param: query.ParamName, Kind: filter.Text, Placeholder: "Search by username"},
	{Key: FieldPhone, Param: query.ParamPhoneNumber, Kind: filter.Phone, Placeholder: "Search by phone number"},
}

// Service defines the directory contract
type Service interface {
	domain.ServicePort
}

// Options tune the service
type Options struct {
	Limit int
	// Notifier receives outcome messages; nil logs them
	Notifier mutation.Notifier
}

// Svc implements the directory service
type Svc struct {
	limit   int
	fetcher *pager.Fetcher[domain.Member]
	create  *mutation.Controller[domain.CreateInput, careapi.User]
	link    *mutation.Controller[domain.LinkInput, domain.Member]
	log     logger.Logger
}

// New constructs a directory service over up, caching pages in cache
func New(up domain.Upstream, cache *listcache.Cache, opt Options) *Svc {
	if up == nil {
		panic("orgusers.Service requires a non nil Upstream")
	}
	if cache == nil {
		panic("orgusers.Service requires a non nil cache")
	}
	if opt.Limit <= 0 {
		opt.Limit = DefaultLimit
	}

	s := &Svc{limit: opt.Limit, log: *logger.Named("orgusers")}
	s.fetcher = pager.New(Kind, cache, func(ctx context.Context, q pager.Query) (pager.ListResult[domain.Member], error) {
		page, err := up.ListOrganizationUsers(ctx, q.Owner, careapi.UserQuery{
			Username:    q.Filters[query.ParamName],
			PhoneNumber: q.Filters[query.ParamPhoneNumber],
			Page:        q.Page,
			Limit:       q.Limit,
			Offset:      q.Offset,
		})
		if err != nil {
			return pager.ListResult[domain.Member]{}, err
		}
		out := make([]domain.Member, 0, len(page.Results))
		for _, ur := range page.Results {
			out = append(out, toMember(ur))
		}
		return pager.ListResult[domain.Member]{Items: out, Count: page.Count}, nil
	})

	s.create = mutation.New(cache, opt.Notifier, mutation.Config[domain.CreateInput, careapi.User]{
		Name: "create user",
		Send: up.CreateUser,
		Messages: mutation.Messages{
			Success: "User created successfully",
			Failed:  "Could not create user",
		},
	})
	s.link = mutation.New(cache, opt.Notifier, mutation.Config[domain.LinkInput, domain.Member]{
		Name: "link user",
		Send: func(ctx context.Context, in domain.LinkInput) (domain.Member, error) {
			ur, err := up.LinkOrganizationUser(ctx, in.Organization, careapi.LinkUser{User: in.User, Role: in.Role})
			if err != nil {
				return domain.Member{}, err
			}
			return toMember(ur), nil
		},
		Invalidates: func(in domain.LinkInput) []string {
			return []string{s.fetcher.Prefix(in.Organization)}
		},
		Messages: mutation.Messages{
			Success: "User added to organization successfully",
			Failed:  "Could not add user to organization",
		},
	})
	return s
}

// Limit is the page size
func (s *Svc) Limit() int { return s.limit }

// Prefix is the cache prefix of org's directory pages
func (s *Svc) Prefix(org string) string { return s.fetcher.Prefix(org) }

func (s *Svc) session(org string, store query.Store) *listsync.Session[domain.Member] {
	return listsync.New(listsync.Config[domain.Member]{
		Owner:   org,
		Limit:   s.limit,
		Fetcher: s.fetcher,
		Store:   store,
		Filter:  filter.New(store, Fields...),
	})
}

// Directory loads the directory page store points at, with the search box
// and sheet state read from the same store
func (s *Svc) Directory(ctx context.Context, org string, store query.Store) (domain.Directory, error) {
	sess := s.session(org, store)
	defer sess.Close()

	snap, err := sess.Load(ctx)
	if err != nil {
		return domain.Directory{}, err
	}

	fc := filter.New(store, Fields...)
	box := domain.SearchBox{Active: fc.Active()}
	for _, f := range fc.Fields() {
		box.Fields = append(box.Fields, domain.SearchField{
			Key:         f.Key,
			Param:       f.Param,
			Kind:        f.Kind.String(),
			Placeholder: f.Placeholder,
			Value:       fc.Value(f.Key),
		})
	}

	open := sheet.Current(store)
	st := domain.SheetState{Open: string(open)}
	if open == sheet.Link {
		st.Username = sheet.Preselected(store)
	}

	return domain.Directory{
		Organization: org,
		Search:       box,
		Sheet:        st,
		Badge:        domain.Badge{Count: snap.Count, Fetching: snap.Fetching},
		List:         snap,
	}, nil
}

// Search makes field the only active search with value and moves to page 1
// The first page starts loading in the background so the next read is
// usually a cache hit. A rejected value leaves the search cleared
func (s *Svc) Search(org string, store query.Store, field, value string) error {
	sess := s.session(org, store)
	_, err := sess.Search(field, value)
	sess.Close()
	if err != nil && !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		s.log.Debug().Str("field", field).Err(err).Msg("search value rejected")
	}
	return err
}

// ClearSearch drops every search field and moves to page 1
func (s *Svc) ClearSearch(org string, store query.Store) {
	sess := s.session(org, store)
	sess.ClearSearch()
	sess.Close()
}

// SetSheet opens the named sheet, or closes the open one when open is empty
func (s *Svc) SetSheet(store query.Store, open string) {
	next := sheet.Parse(open)
	if next == sheet.Closed {
		sheet.SetOpen(store, sheet.Current(store), false)
		return
	}
	sheet.SetOpen(store, next, true)
}

// CreateUser creates a user and moves store to the link sheet with the
// new username selected. Nothing in the directory changes until the user
// is linked, so no cached page is invalidated. Only the phone number is
// rewritten, to its E.164 form; names are sent as typed
func (s *Svc) CreateUser(ctx context.Context, store query.Store, in domain.CreateInput) (careapi.User, error) {
	in.PhoneNumber = normalize.Phone(in.PhoneNumber)
	u, err := s.create.Submit(ctx, in)
	if err != nil {
		return careapi.User{}, err
	}
	username := u.Username
	if username == "" {
		username = in.Username
	}
	sheet.UserCreated(store, username)
	return u, nil
}

// LinkUser adds a user to the organization and invalidates its directory
func (s *Svc) LinkUser(ctx context.Context, in domain.LinkInput) (domain.Member, error) {
	return s.link.Submit(ctx, in)
}

func toMember(ur careapi.UserRole) domain.Member {
	return domain.Member{
		ID:          ur.ID,
		UserID:      ur.User.ID,
		Username:    ur.User.Username,
		DisplayName: ur.User.DisplayName(),
		UserType:    ur.User.UserType,
		Email:       ur.User.Email,
		PhoneNumber: ur.User.PhoneNumber,
		Role:        ur.Role.Name,
		LastLogin:   ur.User.LastLogin,
	}
}
