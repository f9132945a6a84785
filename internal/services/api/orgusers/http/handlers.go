// Package http provides http transport for the organization user directory
//
// The directory's state lives in its URL. Search and sheet endpoints take
// the current directory params, apply one transition and redirect back to
// the directory with the resulting params
package http

import (
	stdhttp "net/http"
	"net/url"
	"strings"

	"careview/internal/core/mutation"
	"careview/internal/core/query"
	"careview/internal/modkit/httpkit"
	perr "careview/internal/platform/errors"
	"careview/internal/services/api/orgusers/domain"
	svc "careview/internal/services/api/orgusers/service"
)

// params consumed by the transition endpoints, never carried into the directory URL
const (
	paramField = "field"
	paramValue = "value"
	paramOpen  = "open"
)

// Register mounts directory endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	httpkit.Get(r, "/{id}/users", h.directory)
	r.Get("/{id}/users/search", httpkit.Handle(h.search))
	r.Get("/{id}/users/search/clear", httpkit.Handle(h.clearSearch))
	r.Get("/{id}/users/sheet", httpkit.Handle(h.sheet))

	r.Post("/{id}/users", httpkit.Handle(h.create))
	r.Post("/{id}/users/link", httpkit.Handle(h.link))
}

type handlers struct{ svc svc.Service }

// directoryStore is a store over the directory URL of r, i.e. r's path
// without suffix and r's query without the transition params
func directoryStore(r *stdhttp.Request, suffix string) *query.URLStore {
	u := *r.URL
	u.Path = strings.TrimSuffix(u.Path, suffix)
	u.RawPath = ""
	q := u.Query()
	for _, k := range []string{paramField, paramValue, paramOpen} {
		q.Del(k)
	}
	u.RawQuery = q.Encode()
	return query.NewURLStore(&u, nil)
}

func location(s *query.URLStore) string {
	u := s.URL()
	return (&url.URL{Path: u.Path, RawQuery: u.RawQuery}).String()
}

// swagger:route GET /organizations/{id}/users OrgUsers orgUsersDirectory
// @Summary User directory of an organization
// @Tags OrgUsers
// @Produce json
// @Param id path string true "Organization id"
// @Param page query int false "Page, starting at 1"
// @Param name query string false "Username search"
// @Param phone_number query string false "Phone number search, E.164"
// @Param sheet query string false "Open sheet" Enums(add, link)
// @Param username query string false "Username preselected in the link sheet"
// @Success 200 {object} domain.Directory "ok"
// @Router /organizations/{id}/users [get]
func (h *handlers) directory(r *stdhttp.Request) (any, error) {
	ctx, org := httpkit.Owner(r, "id")
	return h.svc.Directory(ctx, org, directoryStore(r, ""))
}

// swagger:route GET /organizations/{id}/users/search OrgUsers orgUsersSearch
// @Summary Apply a search field and redirect to the first page of results
// @Tags OrgUsers
// @Param id path string true "Organization id"
// @Param field query string true "Search field" Enums(username, phone_number)
// @Param value query string false "Search value"
// @Success 303 "see other"
// @Failure 400 {object} domain.Redirect "value rejected, the search was cleared"
// @Failure 422 "unknown field"
// @Router /organizations/{id}/users/search [get]
func (h *handlers) search(r *stdhttp.Request) httpkit.Response {
	store := directoryStore(r, "/search")
	q := r.URL.Query()
	err := h.svc.Search(httpkit.Param(r, "id"), store, q.Get(paramField), q.Get(paramValue))
	switch {
	case err == nil:
		return httpkit.SeeOther(location(store))
	case perr.IsCode(err, perr.ErrorCodeValidation):
		return httpkit.ErrorWith(err, domain.Redirect{Location: location(store)})
	default:
		return httpkit.Error(err)
	}
}

// swagger:route GET /organizations/{id}/users/search/clear OrgUsers orgUsersClearSearch
// @Summary Clear the search and redirect to the first page
// @Tags OrgUsers
// @Param id path string true "Organization id"
// @Success 303 "see other"
// @Router /organizations/{id}/users/search/clear [get]
func (h *handlers) clearSearch(r *stdhttp.Request) httpkit.Response {
	store := directoryStore(r, "/search/clear")
	h.svc.ClearSearch(httpkit.Param(r, "id"), store)
	return httpkit.SeeOther(location(store))
}

// swagger:route GET /organizations/{id}/users/sheet OrgUsers orgUsersSheet
// @Summary Open or close a side sheet
// @Tags OrgUsers
// @Param id path string true "Organization id"
// @Param open query string false "Sheet to open, empty closes" Enums(add, link)
// @Success 303 "see other"
// @Router /organizations/{id}/users/sheet [get]
func (h *handlers) sheet(r *stdhttp.Request) httpkit.Response {
	store := directoryStore(r, "/sheet")
	h.svc.SetSheet(store, r.URL.Query().Get(paramOpen))
	return httpkit.SeeOther(location(store))
}

// swagger:route POST /organizations/{id}/users OrgUsers orgUsersCreate
// @Summary Create a user and point at the link sheet with it selected
// @Tags OrgUsers
// @Accept json
// @Produce json
// @Param id path string true "Organization id"
// @Param payload body domain.CreateInput true "User"
// @Success 201 {object} domain.Created "created, Location is the link sheet"
// @Failure 400 {object} domain.Rejected "invalid user"
// @Router /organizations/{id}/users [post]
func (h *handlers) create(r *stdhttp.Request) httpkit.Response {
	in, err := httpkit.Decode[domain.CreateInput](r)
	if err != nil {
		return httpkit.Error(err)
	}
	ctx, _ := httpkit.Owner(r, "id")
	store := directoryStore(r, "")
	rec := &mutation.Recorder{Next: mutation.LogNotifier{}}
	u, err := h.svc.CreateUser(mutation.WithNotifier(ctx, rec), store, in)
	if err != nil {
		in.Password = ""
		return httpkit.ErrorWith(err, domain.Rejected{Input: in, Notes: rec.Notes()})
	}
	return httpkit.CreatedAt(location(store), domain.Created{User: u, Notes: rec.Notes()})
}

// swagger:route POST /organizations/{id}/users/link OrgUsers orgUsersLink
// @Summary Add an existing user to the organization
// @Tags OrgUsers
// @Accept json
// @Produce json
// @Param id path string true "Organization id"
// @Param payload body domain.LinkInput true "User and role"
// @Success 201 {object} domain.Linked "created"
// @Failure 400 {object} domain.Rejected "invalid link"
// @Router /organizations/{id}/users/link [post]
func (h *handlers) link(r *stdhttp.Request) httpkit.Response {
	in, err := httpkit.Decode[domain.LinkInput](r)
	if err != nil {
		return httpkit.Error(err)
	}
	ctx, org := httpkit.Owner(r, "id")
	in.Organization = org
	rec := &mutation.Recorder{Next: mutation.LogNotifier{}}
	m, err := h.svc.LinkUser(mutation.WithNotifier(ctx, rec), in)
	if err != nil {
		return httpkit.ErrorWith(err, domain.Rejected{Input: in, Notes: rec.Notes()})
	}
	return httpkit.Created(domain.Linked{Member: m, Notes: rec.Notes()})
}
