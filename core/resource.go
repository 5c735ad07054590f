package core

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"

	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// AttributeType tags the JSON type of a resource attribute.
type AttributeType string

const (
	AttributeString  AttributeType = "string"
	AttributeNumber  AttributeType = "number"
	AttributeInteger AttributeType = "integer"
	AttributeBoolean AttributeType = "boolean"
	AttributeArray   AttributeType = "array"
	AttributeObject  AttributeType = "object"
	AttributeUnknown AttributeType = "unknown"
)

// AttributeTypeOf maps a JSON-Schema type name onto an AttributeType.
func AttributeTypeOf(schemaType string) AttributeType {
	switch t := AttributeType(schemaType); t {
	case AttributeString, AttributeNumber, AttributeInteger, AttributeBoolean, AttributeArray, AttributeObject:
		return t
	default:
		return AttributeUnknown
	}
}

// Cardinality of a relationship.
type Cardinality string

const (
	CardinalityOne  Cardinality = "one"
	CardinalityMany Cardinality = "many"
)

// Route is a single (verb, path) pair of the document together with its JSON request body schema.
type Route struct {
	Verb          string                  // lowercase HTTP verb
	Path          string                  // path template, e.g. /units/{id_}/get_skus/{type_name}
	RequestSchema openapi_schema.Document // empty when the operation declares no JSON body
}

func (r Route) String() string {
	return fmt.Sprintf("%s %s", strings.ToUpper(r.Verb), r.Path)
}

// DownstreamRoute is a route nested below a single resource instance.
// ShortPath is what follows "<resource>/<id separator>/".
type DownstreamRoute struct {
	ShortPath string
	Route
}

// ResourceDescriptor is everything the synthesizer needs to know about one resource.
type ResourceDescriptor struct {
	ResourceName       string
	ClassName          string
	Attributes         map[string]AttributeType
	Relationships      map[string]Cardinality
	DownstreamRoutes   []DownstreamRoute
	PostRequestSchema  openapi_schema.Document
	PatchRequestSchema openapi_schema.Document
	Ops                ResourceOps
}

// ClassNameFor returns camelize(singularize(resource)).
func ClassNameFor(resource string) string {
	return strcase.ToCamel(inflection.Singular(resource))
}

// ######################################################
//              REGISTRY
// ######################################################

// Registry maps class names to synthesized resource types.
// It is append-only: a name cannot be registered twice.
// Generated relationship helpers resolve their targets here at call time,
// so types may be registered in any order.
type Registry struct {
	mu    sync.RWMutex
	types map[string]*ResourceType
}

func NewRegistry() *Registry {
	return &Registry{types: map[string]*ResourceType{}}
}

// Register adds a resource type under its class name.
func (r *Registry) Register(t *ResourceType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[t.Name()]; exists {
		return fmt.Errorf("resource type %q is already registered", t.Name())
	}
	r.types[t.Name()] = t
	return nil
}

// Lookup returns the resource type registered under name.
func (r *Registry) Lookup(name string) (*ResourceType, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	return t, ok
}

// Names returns the registered class names in lexical order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Types returns a copy of the name to type mapping.
func (r *Registry) Types() map[string]*ResourceType {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*ResourceType, len(r.types))
	for name, t := range r.types {
		out[name] = t
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.types)
}
