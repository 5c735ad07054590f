package parser

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/vast-data/go-openapi-models/core"
	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// Endpoint groups every route of the document sharing one first path segment.
type Endpoint struct {
	BasePath string // "/" + first segment, where the list GET is expected
	Routes   []core.Route
}

// HasRoute reports whether the endpoint declares verb on exactly path.
func (e Endpoint) HasRoute(verb, path string) bool {
	for _, route := range e.Routes {
		if route.Verb == verb && route.Path == path {
			return true
		}
	}
	return false
}

// GroupRoutes groups the document routes into endpoints keyed by resource name
// (the first path segment). Routes are ordered by path then verb.
func GroupRoutes(doc openapi_schema.Document) map[string]Endpoint {
	endpoints := make(map[string]Endpoint)
	for _, path := range openapi_schema.Paths(doc) {
		resource := openapi_schema.FirstSegment(path)
		endpoint, ok := endpoints[resource]
		if !ok {
			endpoint = Endpoint{BasePath: "/" + resource}
		}
		for _, verb := range openapi_schema.Methods(doc, path) {
			endpoint.Routes = append(endpoint.Routes, core.Route{
				Verb:          verb,
				Path:          path,
				RequestSchema: openapi_schema.RequestBodySchema(doc, path, verb),
			})
		}
		endpoints[resource] = endpoint
	}
	return endpoints
}

// singularPattern matches "<base>/<id separator>" as a whole path.
func singularPattern(basePath, idSeparator string) (*regexp.Regexp, error) {
	pattern, err := regexp.Compile("^" + regexp.QuoteMeta(basePath) + "/" + idSeparator + "$")
	if err != nil {
		return nil, &core.ConfigError{Field: "IdSeparator", Reason: err.Error()}
	}
	return pattern, nil
}

// CanBecomeModel reports whether routes are enough to synthesize a model:
// a list GET on basePath and a GET on a path matched by idPattern.
// Missing create, update and delete routes only produce warnings.
func CanBecomeModel(routes []core.Route, basePath string, idPattern *regexp.Regexp, cfg *core.Config) bool {
	var listable, readable, creatable, updatable, deletable bool
	for _, route := range routes {
		singular := idPattern.MatchString(route.Path)
		switch {
		case route.Verb == "get" && route.Path == basePath:
			listable = true
		case route.Verb == "get" && singular:
			readable = true
		case route.Verb == "post" && route.Path == basePath:
			creatable = true
		case (route.Verb == "patch" || route.Verb == "put") && singular:
			updatable = true
		case route.Verb == "delete" && singular:
			deletable = true
		}
	}
	if !listable || !readable {
		return false
	}

	if !creatable {
		cfg.Warn(core.ParserWarning, basePath, fmt.Sprintf(
			"a model for %s will be generated, but it is missing POST functionality. Use POST methods at your own risk", basePath))
	}
	if !updatable {
		cfg.Warn(core.ParserWarning, basePath, fmt.Sprintf(
			"a model for %s will be generated, but it is missing PATCH functionality. Use at your own risk", basePath))
	}
	if !deletable {
		cfg.Warn(core.ParserWarning, basePath, fmt.Sprintf(
			"a model for %s will be generated, but it is missing DELETE functionality. Use DELETE methods at your own risk", basePath))
	}
	return true
}

// Classify splits the document into resources that become models and the
// remaining routes, which become standalone functions.
// Every route of an endpoint that cannot become a model is returned.
func Classify(doc openapi_schema.Document, cfg *core.Config) ([]string, []core.Route, error) {
	endpoints := GroupRoutes(doc)
	resources := make([]string, 0, len(endpoints))
	for resource := range endpoints {
		resources = append(resources, resource)
	}
	sort.Strings(resources)

	var models []string
	var functional []core.Route
	for _, resource := range resources {
		endpoint := endpoints[resource]
		idPattern, err := singularPattern(endpoint.BasePath, cfg.IdSeparator)
		if err != nil {
			return nil, nil, err
		}
		if CanBecomeModel(endpoint.Routes, endpoint.BasePath, idPattern, cfg) {
			models = append(models, resource)
			continue
		}
		functional = append(functional, endpoint.Routes...)
	}
	return models, functional, nil
}

// Ops computes which CRUD operations the endpoint declares.
func Ops(endpoint Endpoint, idPattern *regexp.Regexp) core.ResourceOps {
	var ops core.ResourceOps
	for _, route := range endpoint.Routes {
		singular := idPattern.MatchString(route.Path)
		switch {
		case route.Verb == "post" && route.Path == endpoint.BasePath:
			ops = ops.Set(core.C)
		case route.Verb == "get" && route.Path == endpoint.BasePath:
			ops = ops.Set(core.L)
		case route.Verb == "get" && singular:
			ops = ops.Set(core.R)
		case (route.Verb == "patch" || route.Verb == "put") && singular:
			ops = ops.Set(core.U)
		case route.Verb == "delete" && singular:
			ops = ops.Set(core.D)
		}
	}
	return ops
}
