package openapi_models

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
	"go.uber.org/zap"

	"github.com/vast-data/go-openapi-models/core"
	"github.com/vast-data/go-openapi-models/openapi_schema"
	"github.com/vast-data/go-openapi-models/parser"
)

// Result holds everything generated from one document.
// Models are keyed by class name and Functions by function name.
// Config is the configuration shared by every model and function.
type Result struct {
	Models    map[string]*core.ResourceType
	Functions map[string]core.Function
	Config    *core.Config
	Registry  *core.Registry
}

// Generate parses doc and synthesizes its models and standalone functions.
// A nil config is replaced by NewConfig(). The config is validated with the
// default validators before anything is parsed.
func Generate(ctx context.Context, doc openapi_schema.Document, config *core.Config) (*Result, error) {
	if config == nil {
		config = core.NewConfig()
	}
	if err := config.Validate(core.DefaultValidators()...); err != nil {
		return nil, err
	}

	if msg := openapi_schema.CheckVersion(doc); msg != "" {
		config.Warn(core.ParserWarning, "", msg)
	}
	if config.StrictSpec {
		if err := openapi_schema.CheckDocument(ctx, doc); err != nil {
			return nil, &core.ParserError{Message: "document failed structural validation", Err: err}
		}
	}

	descriptors, routes, err := parser.Parse(doc, config)
	if err != nil {
		return nil, err
	}

	classNames := make([]string, 0, len(descriptors))
	for _, desc := range descriptors {
		classNames = append(classNames, desc.ClassName)
	}
	registry := core.NewRegistry()
	models := make(map[string]*core.ResourceType, len(descriptors))
	for _, desc := range descriptors {
		resourceType, err := core.Synthesize(*desc, classNames, registry, config)
		if err != nil {
			return nil, err
		}
		models[resourceType.Name()] = resourceType
	}

	functions := make(map[string]core.Function, len(routes)+1)
	for _, route := range routes {
		fn, err := core.NewRouteFunc(route, config)
		if err != nil {
			return nil, err
		}
		if _, exists := functions[fn.Name()]; exists {
			config.Warn(core.ParserWarning, route.String(), fmt.Sprintf("generated function '%s' shadows an existing function", fn.Name()))
		}
		functions[fn.Name()] = fn
	}
	functions[core.GenericFunctionName] = core.NewGenericFunction(config)

	result := &Result{
		Models:    models,
		Functions: functions,
		Config:    config,
		Registry:  registry,
	}
	if config.PrintOnInit {
		config.Logger.Info("completed model and function generation",
			zap.Strings("models", result.ModelNames()),
			zap.Strings("functions", result.FunctionNames()),
		)
	}
	return result, nil
}

// ModelNames returns the generated class names, sorted.
func (r *Result) ModelNames() []string {
	names := make([]string, 0, len(r.Models))
	for name := range r.Models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FunctionNames returns the generated standalone function names, sorted.
func (r *Result) FunctionNames() []string {
	names := make([]string, 0, len(r.Functions))
	for name := range r.Functions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model returns the resource type generated under className.
func (r *Result) Model(className string) (*core.ResourceType, error) {
	model, ok := r.Models[className]
	if !ok {
		return nil, &core.RuntimeError{Op: "model", Message: fmt.Sprintf("no model named '%s'", className)}
	}
	return model, nil
}

// Call invokes the standalone function name.
func (r *Result) Call(ctx context.Context, name string, args core.Params) (*core.Response, error) {
	fn, ok := r.Functions[name]
	if !ok {
		return nil, &core.RuntimeError{Op: name, Message: "no such function"}
	}
	return fn.Call(ctx, args)
}

// Summary renders the generated models and functions as two grid tables.
func (r *Result) Summary() string {
	var sb strings.Builder

	modelRows := make([][]any, 0, len(r.Models))
	for _, name := range r.ModelNames() {
		model := r.Models[name]
		modelRows = append(modelRows, []any{
			name,
			"/" + model.ResourceName(),
			model.Ops().String(),
			len(model.Attributes()),
			len(model.Relationships()),
			len(model.MethodNames()),
		})
	}
	sb.WriteString(renderTable([]string{"model", "path", "ops", "attributes", "relationships", "functions"}, modelRows))

	functionRows := make([][]any, 0, len(r.Functions))
	for _, name := range r.FunctionNames() {
		verb, path := "*", "*"
		if routeFunc, ok := r.Functions[name].(*core.RouteFunc); ok {
			verb, path = strings.ToUpper(routeFunc.Route().Verb), routeFunc.Route().Path
		}
		functionRows = append(functionRows, []any{name, verb, path})
	}
	sb.WriteString(renderTable([]string{"function", "verb", "path"}, functionRows))
	return sb.String()
}

func renderTable(headers []string, rows [][]any) string {
	if len(rows) == 0 {
		return fmt.Sprintf("| %s: <none>\n", headers[0])
	}
	table := gotabulate.Create(rows)
	table.SetHeaders(headers)
	table.SetAlign("left")
	return table.Render("grid")
}
