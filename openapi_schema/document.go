package openapi_schema

import (
	"fmt"
	"sort"
	"strings"
)

// Document is a generic, decoded OpenAPI document (or any sub-document of it).
type Document map[string]any

var httpMethods = map[string]struct{}{
	"get":     {},
	"put":     {},
	"post":    {},
	"delete":  {},
	"options": {},
	"head":    {},
	"patch":   {},
	"trace":   {},
}

// IsHTTPMethod reports whether key names an operation inside an OpenAPI path item.
func IsHTTPMethod(key string) bool {
	_, ok := httpMethods[strings.ToLower(key)]
	return ok
}

// AsDocument converts generic decoded values into a Document.
// Anything that is not a string keyed mapping yields nil.
func AsDocument(value any) Document {
	switch typed := value.(type) {
	case Document:
		return typed
	case map[string]any:
		return typed
	default:
		return nil
	}
}

// Follow walks the document key by key and returns the sub-document reached.
// A missing key (or a non mapping value) at any step yields an empty Document.
func Follow(doc any, path ...string) Document {
	current := AsDocument(doc)
	for _, key := range path {
		if current == nil {
			return Document{}
		}
		current = AsDocument(current[key])
	}
	if current == nil {
		return Document{}
	}
	return current
}

// Lookup is like Follow but returns the raw value at the end of the path.
func Lookup(doc any, path ...string) (any, bool) {
	if len(path) == 0 {
		return doc, doc != nil
	}
	parent := AsDocument(doc)
	for _, key := range path[:len(path)-1] {
		if parent == nil {
			return nil, false
		}
		parent = AsDocument(parent[key])
	}
	if parent == nil {
		return nil, false
	}
	value, ok := parent[path[len(path)-1]]
	return value, ok
}

// ResolveReference follows a "#/a/b/c" style pointer through the document.
// The leading anchor segment is ignored.
func ResolveReference(doc Document, ref string) Document {
	var path []string
	for _, elem := range strings.Split(ref, "/") {
		if elem == "#" || elem == "" {
			continue
		}
		elem = strings.ReplaceAll(elem, "~1", "/")
		elem = strings.ReplaceAll(elem, "~0", "~")
		path = append(path, elem)
	}
	return Follow(doc, path...)
}

// Deref returns the referenced document when schema is a {"$ref": ...} wrapper.
func Deref(doc Document, schema Document) Document {
	if ref, ok := schema["$ref"].(string); ok && ref != "" {
		return ResolveReference(doc, ref)
	}
	return schema
}

const maxInlineDepth = 32

// Inline returns a copy of schema with every internal "$ref" replaced by its target.
// Recursive references are cut off after a fixed depth.
func Inline(doc Document, schema Document) Document {
	inlined, _ := inlineValue(doc, schema, 0).(map[string]any)
	if inlined == nil {
		return Document{}
	}
	return inlined
}

func inlineValue(doc Document, value any, depth int) any {
	if depth > maxInlineDepth {
		return map[string]any{}
	}
	switch typed := value.(type) {
	case Document:
		return inlineValue(doc, map[string]any(typed), depth)
	case map[string]any:
		if ref, ok := typed["$ref"].(string); ok && strings.HasPrefix(ref, "#") {
			return inlineValue(doc, map[string]any(ResolveReference(doc, ref)), depth+1)
		}
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = inlineValue(doc, val, depth)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = inlineValue(doc, val, depth)
		}
		return out
	default:
		return value
	}
}

// Paths returns every declared path of the document in sorted order.
func Paths(doc Document) []string {
	paths := Follow(doc, "paths")
	out := make([]string, 0, len(paths))
	for path := range paths {
		out = append(out, path)
	}
	sort.Strings(out)
	return out
}

// Methods returns the lowercase HTTP verbs declared for path, sorted.
// Path item keys that are not operations ("parameters", "summary", ...) are skipped.
func Methods(doc Document, path string) []string {
	item := Follow(doc, "paths", path)
	out := make([]string, 0, len(item))
	for key := range item {
		if IsHTTPMethod(key) {
			out = append(out, strings.ToLower(key))
		}
	}
	sort.Strings(out)
	return out
}

// FirstSegment returns the first path element of route ("/pets/{id}" -> "pets").
func FirstSegment(route string) string {
	parts := strings.Split(route, "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}

// Endpoints returns the unique "/"+first segment prefixes of every declared path.
func Endpoints(doc Document) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, path := range Paths(doc) {
		endpoint := "/" + FirstSegment(path)
		if _, ok := seen[endpoint]; ok {
			continue
		}
		seen[endpoint] = struct{}{}
		out = append(out, endpoint)
	}
	sort.Strings(out)
	return out
}

// Operation returns the operation object for (path, verb) or an empty Document.
func Operation(doc Document, path, verb string) Document {
	return Follow(doc, "paths", path, strings.ToLower(verb))
}

// RequestBodySchema returns the application/json request body schema of an operation,
// with internal references inlined.
func RequestBodySchema(doc Document, path, verb string) Document {
	schema := Follow(Operation(doc, path, verb), "requestBody", "content", ContentTypeJSON, "schema")
	return Inline(doc, schema)
}

// ResponseSchema returns the application/json schema of the given response status.
func ResponseSchema(doc Document, path, verb, status string) Document {
	schema := Follow(Operation(doc, path, verb), "responses", status, "content", ContentTypeJSON, "schema")
	return Deref(doc, schema)
}

// OperationSummary returns the summary of an operation, if any.
func OperationSummary(doc Document, path, verb string) string {
	summary, _ := Operation(doc, path, verb)["summary"].(string)
	return summary
}

// String renders a short human readable description of the document.
func (d Document) String() string {
	title, _ := Lookup(d, "info", "title")
	version, _ := Lookup(d, "info", "version")
	return fmt.Sprintf("Document{title: %v, version: %v, paths: %d}", title, version, len(Paths(d)))
}

const ContentTypeJSON = "application/json"
