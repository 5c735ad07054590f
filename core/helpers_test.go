package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// fakeBackend is an in-memory JSON:API backend for one or more collections.
type fakeBackend struct {
	t        *testing.T
	server   *httptest.Server
	mu       sync.Mutex
	store    map[string]map[string]map[string]any // collection -> id -> entity
	nextID   int
	pageCap  int // largest page the backend serves, 0 means no cap
	calls    int32
	requests []*http.Request
	bodies   []map[string]any
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{t: t, store: map[string]map[string]map[string]any{}, nextID: 100}
	b.server = httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(b.server.Close)
	return b
}

func (b *fakeBackend) URL() string {
	return b.server.URL
}

func (b *fakeBackend) Calls() int {
	return int(atomic.LoadInt32(&b.calls))
}

func (b *fakeBackend) LastRequest() *http.Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.requests) == 0 {
		return nil
	}
	return b.requests[len(b.requests)-1]
}

func (b *fakeBackend) LastBody() map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.bodies) == 0 {
		return nil
	}
	return b.bodies[len(b.bodies)-1]
}

// seed stores an entity with the given attributes and relationships.
func (b *fakeBackend) seed(collection, id string, attributes, relationships map[string]any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.store[collection] == nil {
		b.store[collection] = map[string]map[string]any{}
	}
	attrs := map[string]any{"id": id}
	for k, v := range attributes {
		attrs[k] = v
	}
	if relationships == nil {
		relationships = map[string]any{}
	}
	b.store[collection][id] = map[string]any{
		"id":            id,
		"type":          collection,
		"attributes":    attrs,
		"relationships": relationships,
	}
}

func (b *fakeBackend) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", ContentTypeJSON)
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func (b *fakeBackend) serve(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&b.calls, 1)
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	b.requests = append(b.requests, r)
	b.bodies = append(b.bodies, body)
	b.mu.Unlock()

	segments := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	collection := segments[0]

	b.mu.Lock()
	_, known := b.store[collection]
	b.mu.Unlock()

	switch {
	case !known && len(segments) > 1:
		b.echo(w, r)
	case len(segments) == 1 && r.Method == http.MethodGet:
		b.list(w, r, collection)
	case len(segments) == 1 && r.Method == http.MethodPost:
		b.create(w, collection, body)
	case len(segments) == 2:
		b.item(w, r, collection, segments[1], body)
	default:
		b.echo(w, r)
	}
}

// echo answers routes outside the stored collections with a description of the request.
func (b *fakeBackend) echo(w http.ResponseWriter, r *http.Request) {
	b.writeJSON(w, http.StatusOK, map[string]any{"path": r.URL.Path, "method": r.Method, "query": r.URL.RawQuery})
}

type testFilterClause struct {
	Name string `json:"name"`
	Op   string `json:"op"`
	Val  any    `json:"val"`
}

func matches(entity map[string]any, clauses []testFilterClause) bool {
	attrs, _ := entity["attributes"].(map[string]any)
	for _, clause := range clauses {
		actual := fmt.Sprint(attrs[clause.Name])
		switch clause.Op {
		case "in":
			values, _ := clause.Val.([]any)
			found := false
			for _, v := range values {
				if fmt.Sprint(v) == actual {
					found = true
				}
			}
			if !found {
				return false
			}
		case "ne":
			if actual == fmt.Sprint(clause.Val) {
				return false
			}
		default:
			if actual != fmt.Sprint(clause.Val) {
				return false
			}
		}
	}
	return true
}

func (b *fakeBackend) list(w http.ResponseWriter, r *http.Request, collection string) {
	query := r.URL.Query()
	var clauses []testFilterClause
	if raw := query.Get("filter"); raw != "" {
		var groups []map[string][]testFilterClause
		require.NoError(b.t, json.Unmarshal([]byte(raw), &groups))
		for _, group := range groups {
			clauses = append(clauses, group["and"]...)
		}
	}
	size := 10
	if raw := query.Get("page[size]"); raw != "" {
		size, _ = strconv.Atoi(raw)
	}
	if b.pageCap > 0 && size > b.pageCap {
		size = b.pageCap
	}
	page := 1
	if raw := query.Get("page[number]"); raw != "" {
		page, _ = strconv.Atoi(raw)
	}

	b.mu.Lock()
	ids := make([]string, 0, len(b.store[collection]))
	for id := range b.store[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var selected []any
	for _, id := range ids {
		if entity := b.store[collection][id]; matches(entity, clauses) {
			selected = append(selected, entity)
		}
	}
	b.mu.Unlock()

	start := (page - 1) * size
	end := start + size
	if start > len(selected) {
		start = len(selected)
	}
	if end > len(selected) {
		end = len(selected)
	}
	links := map[string]any{"self": b.server.URL + r.URL.RequestURI()}
	if end < len(selected) {
		query.Set("page[number]", strconv.Itoa(page+1))
		query.Set("page[size]", strconv.Itoa(size))
		links["next"] = b.server.URL + r.URL.Path + "?" + query.Encode()
	}
	data := selected[start:end]
	if data == nil {
		data = []any{}
	}
	b.writeJSON(w, http.StatusOK, map[string]any{
		"data":  data,
		"links": links,
		"meta":  map[string]any{"count": len(selected)},
	})
}

func (b *fakeBackend) create(w http.ResponseWriter, collection string, body map[string]any) {
	data, _ := body["data"].(map[string]any)
	attributes, _ := data["attributes"].(map[string]any)
	relationships, _ := data["relationships"].(map[string]any)
	b.mu.Lock()
	b.nextID++
	id := strconv.Itoa(b.nextID)
	b.mu.Unlock()
	b.seed(collection, id, attributes, relationships)
	b.mu.Lock()
	entity := b.store[collection][id]
	b.mu.Unlock()
	b.writeJSON(w, http.StatusCreated, map[string]any{"data": entity})
}

func (b *fakeBackend) item(w http.ResponseWriter, r *http.Request, collection, id string, body map[string]any) {
	b.mu.Lock()
	entity, ok := b.store[collection][id]
	b.mu.Unlock()
	if !ok {
		b.writeJSON(w, http.StatusNotFound, map[string]any{"errors": []any{map[string]any{"detail": "not found"}}})
		return
	}
	switch r.Method {
	case http.MethodGet:
		b.writeJSON(w, http.StatusOK, map[string]any{"data": entity})
	case http.MethodPatch:
		data, _ := body["data"].(map[string]any)
		b.mu.Lock()
		if attributes, ok := data["attributes"].(map[string]any); ok {
			for k, v := range attributes {
				entity["attributes"].(map[string]any)[k] = v
			}
		}
		if relationships, ok := data["relationships"].(map[string]any); ok {
			entity["relationships"] = relationships
		}
		b.mu.Unlock()
		b.writeJSON(w, http.StatusOK, map[string]any{"data": entity})
	case http.MethodDelete:
		b.mu.Lock()
		delete(b.store[collection], id)
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// newTestConfig returns a validated Config pointing at endpoint together with
// an observer capturing every log entry at debug level and above.
func newTestConfig(t *testing.T, endpoint string, opts ...func(*Config)) (*Config, *observer.ObservedLogs) {
	t.Helper()
	observed, logs := observer.New(zapcore.DebugLevel)
	config := NewConfig()
	config.ApiEndpoint = endpoint
	config.Logger = zap.New(observed)
	for _, opt := range opts {
		opt(config)
	}
	require.NoError(t, config.Validate(DefaultValidators()...))
	return config, logs
}

func factionDescriptor() ResourceDescriptor {
	return ResourceDescriptor{
		ResourceName: "factions",
		ClassName:    "Faction",
		Attributes: map[string]AttributeType{
			"id":   AttributeString,
			"name": AttributeString,
		},
		Relationships: map[string]Cardinality{"units": CardinalityMany},
		DownstreamRoutes: []DownstreamRoute{{
			ShortPath: "units",
			Route:     Route{Verb: "get", Path: "/factions/{id_}/units"},
		}},
		PostRequestSchema: map[string]any{
			"type":     "object",
			"required": []any{"data"},
			"properties": map[string]any{
				"data": map[string]any{"type": "object"},
			},
		},
		PatchRequestSchema: map[string]any{},
		Ops:                NewResourceOps(C, L, R, U, D),
	}
}

func unitDescriptor() ResourceDescriptor {
	return ResourceDescriptor{
		ResourceName: "units",
		ClassName:    "Unit",
		Attributes: map[string]AttributeType{
			"id":     AttributeString,
			"name":   AttributeString,
			"health": AttributeInteger,
		},
		Relationships: map[string]Cardinality{"faction": CardinalityOne},
		DownstreamRoutes: []DownstreamRoute{{
			ShortPath: "get_skus/{type_name}",
			Route:     Route{Verb: "get", Path: "/units/{id_}/get_skus/{type_name}"},
		}},
		Ops: NewResourceOps(C, L, R, U, D),
	}
}

// synthesizeBoth builds Faction and Unit into a fresh registry.
func synthesizeBoth(t *testing.T, config *Config) (*ResourceType, *ResourceType) {
	t.Helper()
	registry := NewRegistry()
	names := []string{"Faction", "Unit"}
	faction, err := Synthesize(factionDescriptor(), names, registry, config)
	require.NoError(t, err)
	unit, err := Synthesize(unitDescriptor(), names, registry, config)
	require.NoError(t, err)
	return faction, unit
}
