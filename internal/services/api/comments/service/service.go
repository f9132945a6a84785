// Package service contains the comment section workflows
package service

import (
	"context"

	"careview/internal/adapters/careapi"
	"careview/internal/core/listcache"
	"careview/internal/core/listsync"
	"careview/internal/core/listview"
	"careview/internal/core/mutation"
	"careview/internal/core/pager"
	"careview/internal/core/query"
	"careview/internal/services/api/comments/domain"
)

// Kind names comment pages in the list cache
const Kind = "comments"

// DefaultLimit is the comment page size
const DefaultLimit = 14

// Service defines the comment section contract
type Service interface {
	domain.ServicePort
}

// Options tune the service
type Options struct {
	Limit int
	// Notifier receives outcome messages; nil logs them
	Notifier mutation.Notifier
}

// Svc implements the comment section service
type Svc struct {
	limit   int
	fetcher *pager.Fetcher[domain.Comment]
	add     *mutation.Controller[domain.AddInput, domain.Comment]
}

// New constructs a comment section service over up, caching pages in cache
func New(up domain.Upstream, cache *listcache.Cache, opt Options) *Svc {
	if up == nil {
		panic("comments.Service requires a non nil Upstream")
	}
	if cache == nil {
		panic("comments.Service requires a non nil cache")
	}
	if opt.Limit <= 0 {
		opt.Limit = DefaultLimit
	}

	s := &Svc{limit: opt.Limit}
	s.fetcher = pager.New(Kind, cache, func(ctx context.Context, q pager.Query) (pager.ListResult[domain.Comment], error) {
		page, err := up.ListResourceComments(ctx, q.Owner, q.Limit, q.Offset)
		if err != nil {
			return pager.ListResult[domain.Comment]{}, err
		}
		out := make([]domain.Comment, 0, len(page.Results))
		for _, c := range page.Results {
			out = append(out, toComment(c))
		}
		return pager.ListResult[domain.Comment]{Items: out, Count: page.Count}, nil
	})
	s.add = mutation.New(cache, opt.Notifier, mutation.Config[domain.AddInput, domain.Comment]{
		Name: "add comment",
		Send: func(ctx context.Context, in domain.AddInput) (domain.Comment, error) {
			c, err := up.AddResourceComment(ctx, in.Resource, careapi.NewComment{Comment: in.Comment})
			if err != nil {
				return domain.Comment{}, err
			}
			return toComment(c), nil
		},
		Invalidates: func(in domain.AddInput) []string {
			return []string{s.fetcher.Prefix(in.Resource)}
		},
		Messages: mutation.Messages{
			Success: "Comment added successfully",
			Invalid: "Comment should have at least 1 character",
			Failed:  "Could not add comment",
		},
	})
	return s
}

// Limit is the page size
func (s *Svc) Limit() int { return s.limit }

// Section loads the page of resource's comments that store points at
// A failed fetch is reported in the list state, not as an error
func (s *Svc) Section(ctx context.Context, resource string, store query.Store) (domain.Section, error) {
	sess := listsync.New(listsync.Config[domain.Comment]{
		Owner:   resource,
		Limit:   s.limit,
		Fetcher: s.fetcher,
		Store:   store,
		// pages arrive oldest first, the section shows newest first
		View: listview.New[domain.Comment](s.limit, listview.WithOrder(listview.Reversed)),
	})
	defer sess.Close()

	snap, err := sess.Load(ctx)
	if err != nil {
		return domain.Section{}, err
	}
	return domain.Section{Resource: resource, List: snap}, nil
}

// Add submits the comment exactly as typed. Blank comments, counting
// invisible characters as blank, never reach the care API
func (s *Svc) Add(ctx context.Context, in domain.AddInput) (domain.Comment, error) {
	return s.add.Submit(ctx, in)
}

func toComment(c careapi.Comment) domain.Comment {
	return domain.Comment{
		ID:      c.ID,
		Comment: c.Comment,
		Author: domain.Author{
			ID:          c.CreatedBy.ID,
			Username:    c.CreatedBy.Username,
			DisplayName: c.CreatedBy.DisplayName(),
		},
		CreatedDate: c.CreatedDate,
	}
}
