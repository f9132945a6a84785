package careapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

func resourceCommentsPath(resourceID string) string {
	return "/api/v1/resource/" + url.PathEscape(resourceID) + "/comment/"
}

func organizationUsersPath(orgID string) string {
	return "/api/v1/organization/" + url.PathEscape(orgID) + "/users/"
}

// ListResourceComments performs GET /api/v1/resource/{id}/comment/
func (c *Client) ListResourceComments(ctx context.Context, resourceID string, limit, offset int) (Page[Comment], error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("offset", strconv.Itoa(offset))
	var out Page[Comment]
	err := c.Do(ctx, http.MethodGet, resourceCommentsPath(resourceID), q, nil, &out)
	return out, err
}

// AddResourceComment performs POST /api/v1/resource/{id}/comment/
func (c *Client) AddResourceComment(ctx context.Context, resourceID string, in NewComment) (Comment, error) {
	var out Comment
	err := c.Do(ctx, http.MethodPost, resourceCommentsPath(resourceID), nil, in, &out)
	return out, err
}

// ListOrganizationUsers performs GET /api/v1/organization/{id}/users/
// Empty filters are not sent
func (c *Client) ListOrganizationUsers(ctx context.Context, orgID string, uq UserQuery) (Page[UserRole], error) {
	q := url.Values{}
	if uq.Username != "" {
		q.Set("username", uq.Username)
	}
	if uq.PhoneNumber != "" {
		q.Set("phone_number", uq.PhoneNumber)
	}
	if uq.Page > 0 {
		q.Set("page", strconv.Itoa(uq.Page))
	}
	q.Set("limit", strconv.Itoa(uq.Limit))
	q.Set("offset", strconv.Itoa(uq.Offset))
	var out Page[UserRole]
	err := c.Do(ctx, http.MethodGet, organizationUsersPath(orgID), q, nil, &out)
	return out, err
}

// CreateUser performs POST /api/v1/users/
func (c *Client) CreateUser(ctx context.Context, in CreateUser) (User, error) {
	var out User
	err := c.Do(ctx, http.MethodPost, "/api/v1/users/", nil, in, &out)
	return out, err
}

// LinkOrganizationUser performs POST /api/v1/organization/{id}/users/
func (c *Client) LinkOrganizationUser(ctx context.Context, orgID string, in LinkUser) (UserRole, error) {
	var out UserRole
	err := c.Do(ctx, http.MethodPost, organizationUsersPath(orgID), nil, in, &out)
	return out, err
}
