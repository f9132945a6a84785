// Package http provides http transport for resource comment sections
package http

import (
	stdhttp "net/http"

	"careview/internal/core/mutation"
	"careview/internal/core/query"
	"careview/internal/modkit/httpkit"
	"careview/internal/services/api/comments/domain"
	svc "careview/internal/services/api/comments/service"
)

// Register mounts comment endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}

	// one page of the section, newest first
	httpkit.Get(r, "/{id}/comments", h.section)

	// submit a comment; rejected drafts are echoed back
	r.Post("/{id}/comments", httpkit.Handle(h.add))
}

type handlers struct{ svc svc.Service }

// swagger:route GET /resources/{id}/comments Comments commentsSection
// @Summary Comment section of a resource
// @Tags Comments
// @Produce json
// @Param id path string true "Resource id"
// @Param page query int false "Page, starting at 1"
// @Success 200 {object} domain.Section "ok"
// @Router /resources/{id}/comments [get]
func (h *handlers) section(r *stdhttp.Request) (any, error) {
	ctx, id := httpkit.Owner(r, "id")
	return h.svc.Section(ctx, id, query.NewURLStore(r.URL, nil))
}

// swagger:route POST /resources/{id}/comments Comments commentsAdd
// @Summary Add a comment to a resource
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path string true "Resource id"
// @Param payload body domain.AddInput true "Comment"
// @Success 201 {object} domain.AddResult "created"
// @Failure 400 {object} domain.Draft "blank comment"
// @Failure 503 {object} domain.Draft "care API unreachable"
// @Router /resources/{id}/comments [post]
func (h *handlers) add(r *stdhttp.Request) httpkit.Response {
	in, err := httpkit.Decode[domain.AddInput](r)
	if err != nil {
		return httpkit.Error(err)
	}
	ctx, id := httpkit.Owner(r, "id")
	in.Resource = id

	rec := &mutation.Recorder{Next: mutation.LogNotifier{}}
	c, err := h.svc.Add(mutation.WithNotifier(ctx, rec), in)
	if err != nil {
		return httpkit.ErrorWith(err, domain.Draft{Comment: in.Comment, Notes: rec.Notes()})
	}
	return httpkit.Created(domain.AddResult{Comment: c, Notes: rec.Notes()})
}
