package core

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
)

var pathParamPattern = regexp.MustCompile(`^\{(.*)\}$`)

// Function is a standalone generated callable.
type Function interface {
	Name() string
	Call(ctx context.Context, args Params) (*Response, error)
}

// RouteFunc calls one route of the document that did not become part of a model.
type RouteFunc struct {
	name   string
	route  Route
	params []string
	config *Config
}

// FunctionName derives the name of a route function.
//
//	pretty: <verb>_<from|to>_<main>[_<static>...][_with_<param>...]  ("from" for get)
//	raw:    "<VERB> <path>"
//
// It also returns the path parameter names in order of appearance.
func FunctionName(route Route, style string) (string, []string, error) {
	verb := strings.ToLower(route.Verb)
	var segments []string
	for _, segment := range strings.Split(route.Path, "/") {
		if segment != "" {
			segments = append(segments, segment)
		}
	}
	var main string
	var statics, params []string
	for i, segment := range segments {
		if i == 0 {
			main = segment
			continue
		}
		if m := pathParamPattern.FindStringSubmatch(segment); m != nil {
			params = append(params, m[1])
		} else {
			statics = append(statics, segment)
		}
	}

	switch style {
	case NamingStylePretty:
		direction := "to"
		if verb == "get" {
			direction = "from"
		}
		name := fmt.Sprintf("%s_%s_%s", verb, direction, main)
		if len(statics) > 0 {
			name += "_" + strings.Join(statics, "_")
		}
		if len(params) > 0 {
			name += "_with_" + strings.Join(params, "_")
		}
		return name, params, nil
	case NamingStyleRaw:
		return fmt.Sprintf("%s %s", strings.ToUpper(verb), route.Path), params, nil
	default:
		return "", nil, &ConfigError{Field: "FunctionNamingStyle", Reason: fmt.Sprintf("naming style must be 'raw' or 'pretty', got %q", style)}
	}
}

// NewRouteFunc builds the callable for a route using Config.FunctionNamingStyle.
func NewRouteFunc(route Route, config *Config) (*RouteFunc, error) {
	name, params, err := FunctionName(route, config.FunctionNamingStyle)
	if err != nil {
		return nil, err
	}
	return &RouteFunc{
		name:   name,
		route:  route,
		params: params,
		config: config,
	}, nil
}

func (f *RouteFunc) Name() string {
	return f.name
}

func (f *RouteFunc) Route() Route {
	return f.route
}

// Params returns the path parameter names the function expects.
func (f *RouteFunc) Params() []string {
	return append([]string(nil), f.params...)
}

// Call substitutes every path parameter from args, validates "request_body"
// against the route schema and dispatches by verb.
//
// "action" overrides the verb; an unsupported verb returns (nil, nil) without any request.
// "params" is sent as the query string. The response is returned whatever its status.
func (f *RouteFunc) Call(ctx context.Context, args Params) (*Response, error) {
	headers, rest := f.config.Policy.BuildHeaders(args)

	path := f.route.Path
	for _, param := range f.params {
		value, ok := rest.Pop(param)
		if !ok || value == nil {
			return nil, &RuntimeError{Op: f.name, Message: fmt.Sprintf("missing path parameter '%s'", param)}
		}
		path = strings.ReplaceAll(path, "{"+param+"}", fmt.Sprintf("%v", value))
	}

	body, ok := rest.Pop(ArgRequestBody)
	if !ok || body == nil {
		body = map[string]any{}
	}
	if err := f.config.CheckPayload(f.name, body, f.route.RequestSchema); err != nil {
		return nil, err
	}

	verb := f.route.Verb
	if action := rest.GetString(ArgAction); action != "" {
		verb = action
	}
	method, ok := routeMethods[strings.ToLower(verb)]
	if !ok {
		return nil, nil
	}
	query, _ := rest.Pop(ArgParams)
	return f.config.Session.Request(ctx, method, f.config.ApiEndpoint+path, headers, asParams(query), body)
}

var routeMethods = map[string]string{
	"get":    http.MethodGet,
	"delete": http.MethodDelete,
	"post":   http.MethodPost,
	"patch":  http.MethodPatch,
	"put":    http.MethodPut,
}

// GenericFunction calls an arbitrary path below the API endpoint.
type GenericFunction struct {
	config *Config
}

// GenericFunctionName is the key of the generic function in the function table.
const GenericFunctionName = "_generic_api_function"

func NewGenericFunction(config *Config) *GenericFunction {
	return &GenericFunction{config: config}
}

func (g *GenericFunction) Name() string {
	return GenericFunctionName
}

// Call sends "request_body" (default {}) with "method" (default GET) to "path".
// Only GET, DELETE, POST and PATCH are dispatched; anything else returns (nil, nil).
func (g *GenericFunction) Call(ctx context.Context, args Params) (*Response, error) {
	headers, rest := g.config.Policy.BuildHeaders(args)
	method := strings.ToUpper(rest.GetString(ArgMethod))
	if method == "" {
		method = http.MethodGet
	}
	switch method {
	case http.MethodGet, http.MethodDelete, http.MethodPost, http.MethodPatch:
	default:
		return nil, nil
	}
	body, ok := rest[ArgRequestBody]
	if !ok || body == nil {
		body = map[string]any{}
	}
	return g.config.Session.Request(ctx, method, g.config.ApiEndpoint+rest.GetString(ArgPath), headers, asParams(rest[ArgParams]), body)
}

// Request is a typed shorthand for Call.
func (g *GenericFunction) Request(ctx context.Context, path, method string, body any) (*Response, error) {
	return g.Call(ctx, Params{ArgPath: path, ArgMethod: method, ArgRequestBody: body})
}

func asParams(value any) Params {
	switch typed := value.(type) {
	case Params:
		return typed
	case map[string]any:
		return typed
	case Record:
		return Params(typed)
	case map[string]string:
		out := make(Params, len(typed))
		for k, v := range typed {
			out[k] = v
		}
		return out
	}
	return nil
}
