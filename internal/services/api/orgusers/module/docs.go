package module

import (
	"careview/internal/modkit/swaggerkit"
)

// docs describes the directory endpoints mounted under prefix
func docs(prefix string) swaggerkit.SpecMutator {
	return func(spec map[string]any) {
		base := prefix + "/{id}/users"
		id := swaggerkit.PathParam("id", "Organization id")
		seeOther := map[string]any{"description": "see other, Location is the directory"}

		swaggerkit.AddOperation(spec, base, "get", map[string]any{
			"tags":        []any{"OrgUsers"},
			"summary":     "User directory of an organization",
			"operationId": "orgUsersDirectory",
			"parameters": []any{
				id,
				swaggerkit.QueryParam("page", "integer", "Page, starting at 1"),
				swaggerkit.QueryParam("name", "string", "Username search"),
				swaggerkit.QueryParam("phone_number", "string", "Phone number search, E.164"),
				swaggerkit.QueryParam("sheet", "string", "Open sheet", "add", "link"),
				swaggerkit.QueryParam("username", "string", "Username preselected in the link sheet"),
			},
			"responses": map[string]any{"200": map[string]any{"description": "ok"}},
		})
		swaggerkit.AddOperation(spec, base, "post", map[string]any{
			"tags":        []any{"OrgUsers"},
			"summary":     "Create a user and point at the link sheet with it selected",
			"operationId": "orgUsersCreate",
			"parameters":  []any{id},
			"requestBody": swaggerkit.JSONBody(map[string]any{
				"type":     "object",
				"required": []any{"username", "first_name", "last_name", "email", "phone_number", "user_type"},
			}),
			"responses": map[string]any{"201": map[string]any{"description": "created, Location is the link sheet"}},
		})
		swaggerkit.AddOperation(spec, base+"/link", "post", map[string]any{
			"tags":        []any{"OrgUsers"},
			"summary":     "Add an existing user to the organization",
			"operationId": "orgUsersLink",
			"parameters":  []any{id},
			"requestBody": swaggerkit.JSONBody(map[string]any{
				"type":     "object",
				"required": []any{"user", "role"},
				"properties": map[string]any{
					"user": map[string]any{"type": "string"},
					"role": map[string]any{"type": "string"},
				},
			}),
			"responses": map[string]any{"201": map[string]any{"description": "created"}},
		})
		swaggerkit.AddOperation(spec, base+"/search", "get", map[string]any{
			"tags":        []any{"OrgUsers"},
			"summary":     "Apply a search field and redirect to the first page of results",
			"operationId": "orgUsersSearch",
			"parameters": []any{
				id,
				swaggerkit.QueryParam("field", "string", "Search field", "username", "phone_number"),
				swaggerkit.QueryParam("value", "string", "Search value"),
			},
			"responses": map[string]any{
				"303": seeOther,
				"422": map[string]any{"description": "unknown field"},
			},
		})
		swaggerkit.AddOperation(spec, base+"/search/clear", "get", map[string]any{
			"tags":        []any{"OrgUsers"},
			"summary":     "Clear the search and redirect to the first page",
			"operationId": "orgUsersClearSearch",
			"parameters":  []any{id},
			"responses":   map[string]any{"303": seeOther},
		})
		swaggerkit.AddOperation(spec, base+"/sheet", "get", map[string]any{
			"tags":        []any{"OrgUsers"},
			"summary":     "Open or close a side sheet",
			"operationId": "orgUsersSheet",
			"parameters":  []any{id, swaggerkit.QueryParam("open", "string", "Sheet to open, empty closes", "add", "link")},
			"responses":   map[string]any{"303": seeOther},
		})
	}
}
