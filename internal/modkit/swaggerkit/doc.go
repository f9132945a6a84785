package swaggerkit

import (
	"encoding/json"
	"maps"
	"net/http"
	"slices"
	"strings"
	"sync"

	"careview/internal/core/version"
	"careview/internal/platform/config"
)

// SpecMutator adds a module's paths to the OpenAPI document
type SpecMutator func(spec map[string]any)

var (
	mu       sync.RWMutex
	mutators = map[string]SpecMutator{}
)

// Register installs m under name. A later Register with the same name
// replaces it, so rebuilding a module does not duplicate its paths
func Register(name string, m SpecMutator) {
	if m == nil {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	mutators[name] = m
}

// Build is the OpenAPI 3.0 document: the base info, every mutator in name
// order, then the error envelope as the default 400 and 500 of every operation
func Build() map[string]any {
	title := "careview API"
	if suffix := config.New().Prefix("CORE_API_").MayString("DOCS_TITLE_SUFFIX", ""); suffix != "" {
		title += " " + suffix
	}
	spec := map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       title,
			"version":     version.Info().Version,
			"description": "Paginated, filterable views over care API lists with cache aware mutations",
		},
		"servers": []any{map[string]any{"url": "/api/v1"}},
		"paths":   map[string]any{},
		"components": map[string]any{
			"schemas": map[string]any{"ErrorResponse": errorSchema},
		},
	}

	mu.RLock()
	for _, name := range slices.Sorted(maps.Keys(mutators)) {
		mutators[name](spec)
	}
	mu.RUnlock()

	defaults := map[string]map[string]any{
		"400": errorResponse(http.StatusBadRequest, 8, "comment must not be blank", "comment"),
		"500": errorResponse(http.StatusInternalServerError, 1, "internal error", ""),
	}
	for _, item := range obj(spec, "paths") {
		item, _ := item.(map[string]any)
		for _, op := range item {
			op, _ := op.(map[string]any)
			if op == nil {
				continue
			}
			responses := obj(op, "responses")
			for status, resp := range defaults {
				if _, ok := responses[status]; !ok {
					responses[status] = resp
				}
			}
		}
	}
	return spec
}

func serveDocJSON() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(Build())
	}
}

// obj is m[key] as an object, created when missing
func obj(m map[string]any, key string) map[string]any {
	child, ok := m[key].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[key] = child
	}
	return child
}

// AddOperation sets the method operation of path
func AddOperation(spec map[string]any, path, method string, op map[string]any) {
	obj(obj(spec, "paths"), path)[strings.ToLower(method)] = op
}

// PathParam is a required string path parameter
func PathParam(name, desc string) map[string]any {
	return map[string]any{
		"name": name, "in": "path", "required": true, "description": desc,
		"schema": map[string]any{"type": "string"},
	}
}

// QueryParam is an optional query parameter, restricted to enum when given
func QueryParam(name, typ, desc string, enum ...string) map[string]any {
	schema := map[string]any{"type": typ}
	if len(enum) > 0 {
		schema["enum"] = enum
	}
	return map[string]any{"name": name, "in": "query", "description": desc, "schema": schema}
}

// JSONBody is a required JSON request body
func JSONBody(schema map[string]any) map[string]any {
	return map[string]any{
		"required": true,
		"content":  map[string]any{"application/json": map[string]any{"schema": schema}},
	}
}

var errorSchema = map[string]any{
	"type":        "object",
	"description": "Error envelope. data echoes a rejected draft or the location to continue from",
	"required":    []string{"status_code", "status"},
	"properties": map[string]any{
		"status_code": map[string]any{"type": "integer"},
		"status":      map[string]any{"type": "string"},
		"code":        map[string]any{"type": "integer"},
		"error":       map[string]any{"type": "string"},
		"field":       map[string]any{"type": "string"},
		"request_id":  map[string]any{"type": "string"},
		"data":        map[string]any{"type": "object"},
	},
}

func errorResponse(status, code int, msg, field string) map[string]any {
	example := map[string]any{
		"status_code": status,
		"status":      http.StatusText(status),
		"code":        code,
		"error":       msg,
		"request_id":  "careview/x1Yz-000001",
	}
	if field != "" {
		example["field"] = field
	}
	return map[string]any{
		"description": http.StatusText(status),
		"content": map[string]any{
			"application/json": map[string]any{
				"schema":  map[string]any{"$ref": "#/components/schemas/ErrorResponse"},
				"example": example,
			},
		},
	}
}
