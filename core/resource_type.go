package core

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"slices"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"

	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// MethodKind groups generated functions for introspection.
type MethodKind string

const (
	MethodCRUD          MethodKind = "crud"
	MethodFinder        MethodKind = "finder"
	MethodRelationship  MethodKind = "relationship"
	MethodDownstream    MethodKind = "downstream"
	MethodIntrospection MethodKind = "introspection"
	MethodDisabled      MethodKind = "disabled"
)

// Method is one entry of a resource type's function table.
type Method interface {
	Name() string
	Kind() MethodKind
	// InstanceBound methods need an instance; the others are type level.
	InstanceBound() bool
	Invoke(ctx context.Context, inst *Instance, args Params) (any, error)
}

type methodFunc func(ctx context.Context, inst *Instance, args Params) (any, error)

type generatedMethod struct {
	name  string
	kind  MethodKind
	bound bool
	fn    methodFunc
}

func (m *generatedMethod) Name() string        { return m.name }
func (m *generatedMethod) Kind() MethodKind    { return m.kind }
func (m *generatedMethod) InstanceBound() bool { return m.bound }
func (m *generatedMethod) Invoke(ctx context.Context, inst *Instance, args Params) (any, error) {
	return m.fn(ctx, inst, args)
}

var placeholderPattern = regexp.MustCompile(`\{(.*)\}`)

// ResourceType is a synthesized model type for one resource of the document.
// All behavior is reached through its function table, including the typed
// wrappers below, so disabled functions are honored everywhere.
type ResourceType struct {
	descriptor ResourceDescriptor
	config     *Config
	registry   *Registry

	methods     map[string]Method
	methodOrder []string

	relationshipFunctions []string
	downstreamFunctions   []string
}

// Synthesize builds the resource type described by desc and registers it.
//
// allClassNames lists every class name of the generation batch; relationship helpers
// are only generated for targets on that list. Targets are looked up in registry when
// the helper is called, so the batch may be synthesized in any order.
func Synthesize(desc ResourceDescriptor, allClassNames []string, registry *Registry, config *Config) (*ResourceType, error) {
	if desc.ClassName == "" {
		desc.ClassName = ClassNameFor(desc.ResourceName)
	}
	desc.Attributes = copyMap(desc.Attributes)
	desc.Relationships = copyMap(desc.Relationships)
	desc.DownstreamRoutes = append([]DownstreamRoute(nil), desc.DownstreamRoutes...)
	desc.PostRequestSchema = cloneSchema(desc.PostRequestSchema)
	desc.PatchRequestSchema = cloneSchema(desc.PatchRequestSchema)

	t := &ResourceType{
		descriptor: desc,
		config:     config,
		registry:   registry,
		methods:    map[string]Method{},
	}
	t.addCRUD()
	t.addFinders()
	t.addRelationships(allClassNames)
	if err := t.addDownstream(); err != nil {
		return nil, err
	}
	t.addIntrospection()
	for _, name := range config.DisabledFunctions {
		t.disable(name)
	}
	if err := registry.Register(t); err != nil {
		return nil, &ParserError{Resource: desc.ResourceName, Message: "duplicate class name", Err: err}
	}
	return t, nil
}

func (t *ResourceType) add(name string, kind MethodKind, bound bool, fn methodFunc) {
	if _, exists := t.methods[name]; exists {
		t.config.Warn(ParserWarning, t.descriptor.ResourceName, fmt.Sprintf("generated function '%s' shadows an existing function", name))
	} else {
		t.methodOrder = append(t.methodOrder, name)
	}
	t.methods[name] = &generatedMethod{name: name, kind: kind, bound: bound, fn: fn}
}

func (t *ResourceType) disable(name string) {
	if _, exists := t.methods[name]; !exists {
		t.methodOrder = append(t.methodOrder, name)
	}
	className := t.Name()
	t.methods[name] = &generatedMethod{
		name: name,
		kind: MethodDisabled,
		fn: func(context.Context, *Instance, Params) (any, error) {
			return nil, &DisabledError{Resource: className, Name: name}
		},
	}
}

// invoke dispatches name through the function table.
func (t *ResourceType) invoke(ctx context.Context, inst *Instance, name string, args Params) (any, error) {
	m, ok := t.methods[name]
	if !ok {
		return nil, &RuntimeError{Op: t.Name() + "." + name, Message: "no such function"}
	}
	if m.InstanceBound() && inst == nil {
		return nil, &RuntimeError{Op: t.Name() + "." + name, Message: "function requires an instance"}
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return m.Invoke(ctx, inst, args.Copy())
}

// ######################################################
//              CRUD
// ######################################################

func (t *ResourceType) addCRUD() {
	t.add("find", MethodCRUD, false, func(ctx context.Context, _ *Instance, args Params) (any, error) {
		return t.find(ctx, args)
	})
	t.add("where", MethodCRUD, false, func(ctx context.Context, _ *Instance, args Params) (any, error) {
		limit, err := limitFrom(args[ArgLimit])
		if err != nil {
			return nil, err
		}
		args.Without(ArgLimit)
		return newCursor(ctx, t, args, limit)
	})
	t.add("query", MethodCRUD, false, func(ctx context.Context, _ *Instance, args Params) (any, error) {
		limit, err := limitFrom(args[ArgLimit])
		if err != nil {
			return nil, err
		}
		raw := asParams(args[ArgParameters])
		args.Without(ArgLimit, ArgParameters)
		return newReadOnlyCursor(ctx, t, raw, args, limit)
	})
	t.add("post_payload", MethodCRUD, false, func(ctx context.Context, _ *Instance, args Params) (any, error) {
		return t.postPayload(ctx, args)
	})
	t.add("delete", MethodCRUD, false, func(ctx context.Context, _ *Instance, args Params) (any, error) {
		id, ok := args.Pop(ArgID)
		if !ok || isBlankID(id) {
			return nil, &RuntimeError{Op: "delete", Message: "an id is required"}
		}
		return nil, t.deleteByID(ctx, id, args)
	})
	t.add("post", MethodCRUD, true, func(ctx context.Context, inst *Instance, args Params) (any, error) {
		if inst.HasID() {
			return nil, &RuntimeError{Op: "post", Message: "can't post if already have an assigned ID"}
		}
		args[ArgPayload] = t.config.Policy.ToWire(inst.Representation())
		res, err := t.invoke(ctx, nil, "post_payload", args)
		if err != nil {
			return nil, err
		}
		if created, _ := res.(*Instance); created != nil {
			inst.SetRepresentation(created.Representation())
		}
		return nil, nil
	})
	t.add("patch", MethodCRUD, true, func(ctx context.Context, inst *Instance, args Params) (any, error) {
		return nil, t.patch(ctx, inst, args)
	})
	t.add("delete_self", MethodCRUD, true, func(ctx context.Context, inst *Instance, args Params) (any, error) {
		if !inst.HasID() {
			return nil, &RuntimeError{Op: "delete_self", Message: "can't delete without an assigned ID"}
		}
		args[ArgID] = inst.ID()
		return t.invoke(ctx, nil, "delete", args)
	})
	t.add("sync", MethodCRUD, true, func(ctx context.Context, inst *Instance, args Params) (any, error) {
		if !inst.HasID() {
			return nil, &RuntimeError{Op: "sync", Message: "can't sync without an assigned ID"}
		}
		args[ArgID] = inst.ID()
		res, err := t.invoke(ctx, nil, "find", args)
		if err != nil {
			return nil, err
		}
		remote, _ := res.(*Instance)
		if remote == nil {
			return nil, &RuntimeError{Op: "sync", Message: fmt.Sprintf("%s %v no longer exists", t.Name(), inst.ID())}
		}
		inst.SetRepresentation(remote.Representation())
		return nil, nil
	})
}

// find returns (nil, nil) on 404 and *ApiError on any other non-2xx status.
func (t *ResourceType) find(ctx context.Context, args Params) (*Instance, error) {
	id, ok := args.Pop(ArgID)
	if !ok || isBlankID(id) {
		return nil, &RuntimeError{Op: "find", Message: "an id is required"}
	}
	headers, _ := t.config.Policy.BuildHeaders(args)
	response, err := t.config.Session.Request(ctx, http.MethodGet, t.itemURL(id), headers, nil, nil)
	if err != nil {
		return nil, err
	}
	if response.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if !response.IsSuccess() {
		return nil, response.AsError()
	}
	body, err := response.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", response.URL, err)
	}
	return t.FromJSON(body), nil
}

func (t *ResourceType) postPayload(ctx context.Context, args Params) (*Instance, error) {
	payload, _ := args.Pop(ArgPayload)
	if err := t.config.CheckPayload(t.Name()+".post", payload, t.descriptor.PostRequestSchema); err != nil {
		return nil, err
	}
	headers, _ := t.config.Policy.BuildHeaders(args)
	response, err := t.config.Session.Request(ctx, http.MethodPost, t.collectionURL(), headers, nil, payload)
	if err != nil {
		return nil, err
	}
	if !response.IsSuccess() {
		return nil, response.AsError()
	}
	body, err := response.JSON()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", response.URL, err)
	}
	return t.FromJSON(body), nil
}

func (t *ResourceType) patch(ctx context.Context, inst *Instance, args Params) error {
	if !inst.HasID() {
		return &RuntimeError{Op: "patch", Message: "can't patch without an assigned ID"}
	}
	payload := t.config.Policy.ToWire(inst.Representation())
	if err := t.config.CheckPayload(t.Name()+".patch", payload, t.descriptor.PatchRequestSchema); err != nil {
		return err
	}
	headers, _ := t.config.Policy.BuildHeaders(args)
	response, err := t.config.Session.Request(ctx, http.MethodPatch, t.itemURL(inst.ID()), headers, nil, payload)
	if err != nil {
		return err
	}
	if !response.IsSuccess() {
		return response.AsError()
	}
	body, err := response.JSON()
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", response.URL, err)
	}
	if body != nil {
		inst.SetRepresentation(t.FromJSON(body).Representation())
	}
	return nil
}

func (t *ResourceType) deleteByID(ctx context.Context, id any, args Params) error {
	headers, _ := t.config.Policy.BuildHeaders(args)
	response, err := t.config.Session.Request(ctx, http.MethodDelete, t.itemURL(id), headers, nil, nil)
	if err != nil {
		return err
	}
	if !response.IsSuccess() {
		return response.AsError()
	}
	return nil
}

// ######################################################
//              ATTRIBUTE FINDERS
// ######################################################

func (t *ResourceType) addFinders() {
	for _, attr := range sortedKeys(t.descriptor.Attributes) {
		t.add("find_by_"+attr, MethodFinder, false, func(ctx context.Context, _ *Instance, args Params) (any, error) {
			value, _ := args.Pop(ArgValue)
			op := args.GetString(ArgOperation)
			if op == "" {
				op = DefaultFilterOperation
			}
			args.Without(ArgOperation)
			args[attr] = value
			args[ArgFilteringArguments] = map[string]string{attr: op}
			args[ArgLimit] = 1
			res, err := t.invoke(ctx, nil, "where", args)
			if err != nil {
				return nil, err
			}
			cursor, _ := res.(*Cursor)
			if cursor == nil || cursor.Len() != 1 {
				return (*Instance)(nil), nil
			}
			return cursor.At(0)
		})
	}
}

// ######################################################
//              RELATIONSHIPS
// ######################################################

func (t *ResourceType) addRelationships(allClassNames []string) {
	for _, rel := range sortedKeys(t.descriptor.Relationships) {
		t.addRelationship(rel, "_json", func(_ context.Context, inst *Instance, _ Params) (any, error) {
			return relationshipData(inst, rel), nil
		})

		if t.descriptor.Relationships[rel] == CardinalityMany {
			t.addManyRelationship(rel, allClassNames)
		} else {
			t.addOneRelationship(rel, allClassNames)
		}
	}
}

func (t *ResourceType) addRelationship(rel, suffix string, fn methodFunc) {
	name := rel + suffix
	t.add(name, MethodRelationship, true, fn)
	t.relationshipFunctions = append(t.relationshipFunctions, name)
}

func (t *ResourceType) addManyRelationship(rel string, allClassNames []string) {
	singular := inflection.Singular(rel)
	target := strcase.ToCamel(singular)

	if slices.Contains(allClassNames, target) {
		t.addRelationship(rel, "", func(ctx context.Context, inst *Instance, args Params) (any, error) {
			targetType, ok := t.registry.Lookup(target)
			if !ok {
				return nil, &RuntimeError{Op: rel, Message: fmt.Sprintf("resource type %s is not registered", target)}
			}
			var ids []any
			for _, entry := range toSlice(relationshipData(inst, rel)) {
				if id, ok := asRecord(entry)["id"]; ok {
					ids = append(ids, id)
				}
			}
			ops := args.StringMap(ArgFilteringArguments)
			ops["id"] = "in"
			args[ArgFilteringArguments] = ops
			if len(ids) == 0 {
				args.Without(ArgLimit)
				return newExhaustedCursor(ctx, targetType, args, 0), nil
			}
			args["id"] = ids
			args[ArgLimit] = len(ids)
			return targetType.invoke(ctx, nil, "where", args)
		})
	}

	t.addRelationship("add_"+singular, "", func(_ context.Context, inst *Instance, args Params) (any, error) {
		id, ok := args[ArgID]
		if !ok || isBlankID(id) {
			return nil, &RuntimeError{Op: "add_" + singular, Message: "an id is required"}
		}
		entries := append([]any(nil), toSlice(relationshipData(inst, rel))...)
		entries = append(entries, t.config.Policy.LinkageEntry(id, singular, args.Record(ArgMeta)))
		inst.SetRelationship(rel, Record{"data": entries})
		return nil, nil
	})

	t.addRelationship("remove_"+singular, "", func(_ context.Context, inst *Instance, args Params) (any, error) {
		id, ok := args[ArgID]
		if !ok || isBlankID(id) {
			return nil, &RuntimeError{Op: "remove_" + singular, Message: "an id is required"}
		}
		mapped := t.config.Policy.LinkageEntry(id, singular, nil)
		entries := toSlice(relationshipData(inst, rel))
		for i, entry := range entries {
			if sameLinkage(asRecord(entry), mapped) {
				kept := append(append([]any(nil), entries[:i]...), entries[i+1:]...)
				inst.SetRelationship(rel, Record{"data": kept})
				break
			}
		}
		return nil, nil
	})
}

func (t *ResourceType) addOneRelationship(rel string, allClassNames []string) {
	target := strcase.ToCamel(rel)

	if slices.Contains(allClassNames, target) {
		t.addRelationship(rel, "", func(ctx context.Context, inst *Instance, args Params) (any, error) {
			targetType, ok := t.registry.Lookup(target)
			if !ok {
				return nil, &RuntimeError{Op: rel, Message: fmt.Sprintf("resource type %s is not registered", target)}
			}
			id := asRecord(relationshipData(inst, rel))["id"]
			if isBlankID(id) {
				return (*Instance)(nil), nil
			}
			args[ArgID] = id
			return targetType.invoke(ctx, nil, "find", args)
		})
	}

	t.addRelationship("set_"+rel+"_id", "", func(_ context.Context, inst *Instance, args Params) (any, error) {
		id, ok := args[ArgID]
		if !ok || isBlankID(id) {
			return nil, &RuntimeError{Op: "set_" + rel + "_id", Message: "an id is required"}
		}
		inst.SetRelationship(rel, Record{"data": t.config.Policy.LinkageEntry(id, rel, args.Record(ArgMeta))})
		return nil, nil
	})

	t.addRelationship("set_"+rel, "", func(_ context.Context, inst *Instance, args Params) (any, error) {
		entity, _ := args[ArgEntity].(*Instance)
		if entity == nil {
			return nil, &RuntimeError{Op: "set_" + rel, Message: "an entity instance is required"}
		}
		inst.SetRelationship(rel, Record{"data": t.config.Policy.LinkageEntry(entity.ID(), rel, args.Record(ArgMeta))})
		return nil, nil
	})
}

// relationshipData returns the "data" member of a relationship region.
func relationshipData(inst *Instance, rel string) any {
	return asRecord(inst.GetRelationship(rel))["data"]
}

// sameLinkage compares a stored entry with a freshly built one.
// Entries carrying extra members (such as meta) never match.
func sameLinkage(stored, mapped Record) bool {
	if stored == nil || len(stored) != len(mapped) {
		return false
	}
	for key, value := range mapped {
		other, ok := stored[key]
		if !ok || fmt.Sprint(other) != fmt.Sprint(value) {
			return false
		}
	}
	return true
}

// ######################################################
//              DOWNSTREAM ROUTES
// ######################################################

func (t *ResourceType) addDownstream() error {
	idPattern, err := t.config.IdPattern()
	if err != nil {
		return &ConfigError{Field: "IdSeparator", Reason: err.Error()}
	}
	for _, route := range t.descriptor.DownstreamRoutes {
		first, _, _ := strings.Cut(route.ShortPath, "/")
		name := fmt.Sprintf("downstream_%s_%s", strings.ToLower(route.Verb), first)

		fn, err := NewRouteFunc(route.Route, t.config)
		if err != nil {
			return err
		}
		separator := idPattern.FindString(route.Path)
		m := placeholderPattern.FindStringSubmatch(separator)
		if m == nil {
			return &ParserError{
				Resource: t.descriptor.ResourceName,
				Message:  fmt.Sprintf("cannot find id placeholder in downstream route %s", route.Path),
			}
		}
		idLabel := m[1]

		t.add(name, MethodDownstream, true, func(ctx context.Context, inst *Instance, args Params) (any, error) {
			if !inst.HasID() {
				return nil, &RuntimeError{Op: name, Message: "downstream routes require an assigned ID"}
			}
			args[idLabel] = inst.ID()
			return fn.Call(ctx, args)
		})
		t.downstreamFunctions = append(t.downstreamFunctions, name)
	}
	return nil
}

// ######################################################
//              INTROSPECTION
// ######################################################

func (t *ResourceType) addIntrospection() {
	static := func(name string, value func() any) {
		t.add(name, MethodIntrospection, false, func(context.Context, *Instance, Params) (any, error) {
			return value(), nil
		})
	}
	static("resource_name", func() any { return t.ResourceName() })
	static("configuration", func() any { return t.config })
	static("list_attributes", func() any { return t.Attributes() })
	static("list_methods", func() any { return t.MethodNames() })
	static("list_downstream_functions", func() any { return t.DownstreamFunctionNames() })
	static("list_relationship_functions", func() any { return t.RelationshipFunctionNames() })
	static("get_post_schema", func() any { return t.PostSchema() })
	static("get_patch_schema", func() any { return t.PatchSchema() })
}

// Name returns the class name.
func (t *ResourceType) Name() string {
	return t.descriptor.ClassName
}

// ResourceName returns the path segment of the resource.
func (t *ResourceType) ResourceName() string {
	return t.descriptor.ResourceName
}

func (t *ResourceType) Config() *Config {
	return t.config
}

func (t *ResourceType) Ops() ResourceOps {
	return t.descriptor.Ops
}

// Attributes returns a copy of the attribute name to type mapping.
func (t *ResourceType) Attributes() map[string]AttributeType {
	return copyMap(t.descriptor.Attributes)
}

// Relationships returns a copy of the relationship name to cardinality mapping.
func (t *ResourceType) Relationships() map[string]Cardinality {
	return copyMap(t.descriptor.Relationships)
}

// MethodNames returns every function table entry in generation order.
func (t *ResourceType) MethodNames() []string {
	return append([]string(nil), t.methodOrder...)
}

func (t *ResourceType) RelationshipFunctionNames() []string {
	return append([]string(nil), t.relationshipFunctions...)
}

func (t *ResourceType) DownstreamFunctionNames() []string {
	return append([]string(nil), t.downstreamFunctions...)
}

// Method returns a function table entry.
func (t *ResourceType) Method(name string) (Method, bool) {
	m, ok := t.methods[name]
	return m, ok
}

func (t *ResourceType) PostSchema() openapi_schema.Document {
	return cloneSchema(t.descriptor.PostRequestSchema)
}

func (t *ResourceType) PatchSchema() openapi_schema.Document {
	return cloneSchema(t.descriptor.PatchRequestSchema)
}

func (t *ResourceType) collectionURL() string {
	return joinURL(t.config.ApiEndpoint, t.descriptor.ResourceName)
}

func (t *ResourceType) itemURL(id any) string {
	return joinURL(t.collectionURL(), url.PathEscape(fmt.Sprintf("%v", id)))
}

// ######################################################
//              TYPED WRAPPERS
// ######################################################

// Call invokes a type level function of the table.
func (t *ResourceType) Call(ctx context.Context, name string, args Params) (any, error) {
	return t.invoke(ctx, nil, name, args)
}

// New returns an instance with an empty attributes region and one empty
// linkage per relationship.
func (t *ResourceType) New() *Instance {
	relationships := Record{}
	for rel, cardinality := range t.descriptor.Relationships {
		if cardinality == CardinalityMany {
			relationships[inflection.Plural(rel)] = Record{"data": []any{}}
		} else {
			relationships[rel] = Record{"data": Record{}}
		}
	}
	inst := &Instance{resourceType: t, representation: Record{}}
	inst.region(t.config.ModelAttributesPath, true)
	if len(t.config.ModelRelationshipsPath) == 0 {
		for key, value := range relationships {
			inst.representation[key] = value
		}
	} else {
		parent := inst.region(t.config.ModelRelationshipsPath[:len(t.config.ModelRelationshipsPath)-1], true)
		parent[t.config.ModelRelationshipsPath[len(t.config.ModelRelationshipsPath)-1]] = relationships
	}
	return inst
}

// FromJSON wraps an API payload into an instance.
func (t *ResourceType) FromJSON(payload any) *Instance {
	return &Instance{resourceType: t, representation: t.config.Policy.FromWire(payload)}
}

// Find fetches one instance by id. A 404 yields (nil, nil).
func (t *ResourceType) Find(ctx context.Context, id any, args ...Params) (*Instance, error) {
	res, err := t.invoke(ctx, nil, "find", mergeArgs(args, Params{ArgID: id}))
	if err != nil {
		return nil, err
	}
	inst, _ := res.(*Instance)
	return inst, nil
}

// Where returns a chainable cursor over the instances matching args.
func (t *ResourceType) Where(ctx context.Context, args Params) (*Cursor, error) {
	res, err := t.invoke(ctx, nil, "where", args)
	if err != nil {
		return nil, err
	}
	return res.(*Cursor), nil
}

// Query returns a read-only cursor whose first request sends params verbatim.
func (t *ResourceType) Query(ctx context.Context, params Params, limit int, args ...Params) (*Cursor, error) {
	res, err := t.invoke(ctx, nil, "query", mergeArgs(args, Params{ArgParameters: params, ArgLimit: limit}))
	if err != nil {
		return nil, err
	}
	return res.(*Cursor), nil
}

// FindBy returns the single instance whose attribute matches value under operation ("" means eq).
func (t *ResourceType) FindBy(ctx context.Context, attribute string, value any, operation string) (*Instance, error) {
	res, err := t.invoke(ctx, nil, "find_by_"+attribute, Params{ArgValue: value, ArgOperation: operation})
	if err != nil {
		return nil, err
	}
	inst, _ := res.(*Instance)
	return inst, nil
}

// PostPayload sends payload to the collection and returns the created instance.
func (t *ResourceType) PostPayload(ctx context.Context, payload any, args ...Params) (*Instance, error) {
	res, err := t.invoke(ctx, nil, "post_payload", mergeArgs(args, Params{ArgPayload: payload}))
	if err != nil {
		return nil, err
	}
	inst, _ := res.(*Instance)
	return inst, nil
}

// Delete removes the instance with the given id remotely.
func (t *ResourceType) Delete(ctx context.Context, id any, args ...Params) error {
	_, err := t.invoke(ctx, nil, "delete", mergeArgs(args, Params{ArgID: id}))
	return err
}

// Describe renders the function table.
func (t *ResourceType) Describe() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("| %s (/%s) [%s]\n", t.Name(), t.ResourceName(), t.descriptor.Ops))
	rows := make([][]any, 0, len(t.methodOrder))
	for _, name := range t.methodOrder {
		m := t.methods[name]
		scope := "type"
		if m.InstanceBound() {
			scope = "instance"
		}
		rows = append(rows, []any{name, string(m.Kind()), scope})
	}
	table := gotabulate.Create(rows)
	table.SetHeaders([]string{"function", "kind", "scope"})
	table.SetAlign("left")
	sb.WriteString(table.Render("grid"))
	return sb.String()
}

func (t *ResourceType) String() string {
	return fmt.Sprintf("ResourceType(%s)", t.Name())
}

func mergeArgs(extra []Params, fixed Params) Params {
	out := Params{}
	for _, args := range extra {
		out.Update(args)
	}
	out.Update(fixed)
	return out
}

func isBlankID(id any) bool {
	if id == nil {
		return true
	}
	s, ok := id.(string)
	return ok && s == ""
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func cloneSchema(schema openapi_schema.Document) openapi_schema.Document {
	if schema == nil {
		return openapi_schema.Document{}
	}
	return openapi_schema.Document(Record(schema).Clone())
}
