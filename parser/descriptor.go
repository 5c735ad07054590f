package parser

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/vast-data/go-openapi-models/core"
	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// ResponseBodySchema returns the 200 application/json schema of GET /<resource>/<id separator>,
// with references inlined.
func ResponseBodySchema(doc openapi_schema.Document, resource, idSeparator string) (openapi_schema.Document, error) {
	pattern, err := singularPattern("/"+resource, idSeparator)
	if err != nil {
		return nil, err
	}
	for _, path := range openapi_schema.Paths(doc) {
		if !pattern.MatchString(path) {
			continue
		}
		if _, ok := openapi_schema.Follow(doc, "paths", path)["get"]; !ok {
			continue
		}
		schema := openapi_schema.ResponseSchema(doc, path, "get", "200")
		return openapi_schema.Inline(doc, schema), nil
	}
	return nil, &core.ParserError{
		Resource: resource,
		Message:  fmt.Sprintf("unable to find an associated path with resource `%s`", resource),
	}
}

// DownstreamRoutes returns every operation declared below /<resource>/<id separator>/.
func DownstreamRoutes(doc openapi_schema.Document, resource, idSeparator string) ([]core.DownstreamRoute, error) {
	pattern, err := regexp.Compile("^/" + regexp.QuoteMeta(resource) + "/" + idSeparator + "/(.+)$")
	if err != nil {
		return nil, &core.ConfigError{Field: "IdSeparator", Reason: err.Error()}
	}
	var routes []core.DownstreamRoute
	for _, path := range openapi_schema.Paths(doc) {
		match := pattern.FindStringSubmatch(path)
		if match == nil {
			continue
		}
		for _, verb := range openapi_schema.Methods(doc, path) {
			routes = append(routes, core.DownstreamRoute{
				ShortPath: match[len(match)-1],
				Route: core.Route{
					Verb:          verb,
					Path:          path,
					RequestSchema: openapi_schema.RequestBodySchema(doc, path, verb),
				},
			})
		}
	}
	return routes, nil
}

// PathRequestSchema returns the request body schema of verb on the singular
// (/<resource>/<id separator>) or collection (/<resource>) path of a resource.
// An empty Document is returned when no such path exists.
func PathRequestSchema(doc openapi_schema.Document, resource, idSeparator, verb string, singular bool, cfg *core.Config) (openapi_schema.Document, error) {
	basePath := "/" + resource
	pattern := regexp.MustCompile("^" + regexp.QuoteMeta(basePath) + "$")
	if singular {
		var err error
		if pattern, err = singularPattern(basePath, idSeparator); err != nil {
			return nil, err
		}
	}

	var candidates []string
	for _, path := range openapi_schema.Paths(doc) {
		if pattern.MatchString(path) {
			candidates = append(candidates, path)
		}
	}
	if len(candidates) == 0 {
		return openapi_schema.Document{}, nil
	}
	if len(candidates) > 1 {
		cfg.Warn(core.ParserWarning, resource, fmt.Sprintf(
			"multiple paths match the %s request body of %s: %v; using %s",
			verb, resource, candidates, candidates[len(candidates)-1]))
	}
	return openapi_schema.RequestBodySchema(doc, candidates[len(candidates)-1], verb), nil
}

// BuildDescriptor gathers everything the synthesizer needs to know about resource.
func BuildDescriptor(doc openapi_schema.Document, resource string, cfg *core.Config) (*core.ResourceDescriptor, error) {
	responseBody, err := ResponseBodySchema(doc, resource, cfg.IdSeparator)
	if err != nil {
		return nil, err
	}
	relationships, err := ExtractRelationships(responseBody, cfg.SchemaRelationshipsPath, cfg)
	if err != nil {
		var parserErr *core.ParserError
		if errors.As(err, &parserErr) && parserErr.Resource == "" {
			parserErr.Resource = resource
		}
		return nil, err
	}
	downstream, err := DownstreamRoutes(doc, resource, cfg.IdSeparator)
	if err != nil {
		return nil, err
	}
	patchSchema, err := PathRequestSchema(doc, resource, cfg.IdSeparator, "patch", true, cfg)
	if err != nil {
		return nil, err
	}
	if openapi_schema.IsEmptySchema(patchSchema) {
		if patchSchema, err = PathRequestSchema(doc, resource, cfg.IdSeparator, "put", true, cfg); err != nil {
			return nil, err
		}
	}
	postSchema, err := PathRequestSchema(doc, resource, cfg.IdSeparator, "post", false, cfg)
	if err != nil {
		return nil, err
	}

	endpoint := GroupRoutes(doc)[resource]
	idPattern, err := singularPattern(endpoint.BasePath, cfg.IdSeparator)
	if err != nil {
		return nil, err
	}

	return &core.ResourceDescriptor{
		ResourceName:       resource,
		ClassName:          core.ClassNameFor(resource),
		Attributes:         ExtractAttributes(responseBody, cfg.SchemaAttributesPath),
		Relationships:      relationships,
		DownstreamRoutes:   downstream,
		PostRequestSchema:  postSchema,
		PatchRequestSchema: patchSchema,
		Ops:                Ops(endpoint, idPattern),
	}, nil
}

// Parse classifies the document and builds a descriptor for every model resource.
// Class names must be unique across resources.
func Parse(doc openapi_schema.Document, cfg *core.Config) ([]*core.ResourceDescriptor, []core.Route, error) {
	resources, functional, err := Classify(doc, cfg)
	if err != nil {
		return nil, nil, err
	}
	seen := make(map[string]string, len(resources))
	descriptors := make([]*core.ResourceDescriptor, 0, len(resources))
	for _, resource := range resources {
		descriptor, err := BuildDescriptor(doc, resource, cfg)
		if err != nil {
			return nil, nil, err
		}
		if other, ok := seen[descriptor.ClassName]; ok {
			return nil, nil, &core.ParserError{
				Resource: resource,
				Message:  fmt.Sprintf("duplicate class name %q (also produced by resource '%s')", descriptor.ClassName, other),
			}
		}
		seen[descriptor.ClassName] = resource
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, functional, nil
}
