package module

import (
	"careview/internal/modkit/swaggerkit"
)

// docs describes the comment section endpoints mounted under prefix
func docs(prefix string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		path := prefix + "/{id}/comments"
		id := swaggerkit.PathParam("id", "Resource id")

		swaggerkit.AddOperation(spec, path, "get", map[string]any{
			"tags":        []any{"Comments"},
			"summary":     "Comment section of a resource, newest first",
			"operationId": "commentsSection",
			"parameters":  []any{id, swaggerkit.QueryParam("page", "integer", "Page, starting at 1")},
			"responses": map[string]any{
				"200": map[string]any{"description": "ok"},
				"503": map[string]any{"description": "care API unreachable"},
			},
		})
		swaggerkit.AddOperation(spec, path, "post", map[string]any{
			"tags":        []any{"Comments"},
			"summary":     "Add a comment, the draft is echoed back on failure",
			"operationId": "commentsAdd",
			"parameters":  []any{id},
			"requestBody": swaggerkit.JSONBody(map[string]any{
				"type":       "object",
				"required":   []any{"comment"},
				"properties": map[string]any{"comment": map[string]any{"type": "string"}},
			}),
			"responses": map[string]any{
				"201": map[string]any{"description": "created"},
			},
		})
	}
}
