package openapi_schema

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func sampleDocument() Document {
	return Document{
		"openapi": "3.0.0",
		"info":    map[string]any{"title": "sample", "version": "1.0.0"},
		"paths": map[string]any{
			"/pets": map[string]any{
				"get": map[string]any{"summary": "list pets"},
				"post": map[string]any{
					"requestBody": map[string]any{
						"content": map[string]any{
							"application/json": map[string]any{
								"schema": map[string]any{"$ref": "#/components/schemas/NewPet"},
							},
						},
					},
				},
				"parameters": []any{},
			},
			"/pets/{id_}": map[string]any{
				"get": map[string]any{
					"responses": map[string]any{
						"200": map[string]any{
							"content": map[string]any{
								"application/json": map[string]any{
									"schema": map[string]any{"$ref": "#/components/schemas/Pet"},
								},
							},
						},
					},
				},
			},
			"/healthcheck": map[string]any{"get": map[string]any{}},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"Pet": map[string]any{"type": "object", "properties": map[string]any{"name": map[string]any{"type": "string"}}},
				"NewPet": map[string]any{
					"type":     "object",
					"required": []any{"name"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string"},
						"tag":  map[string]any{"$ref": "#/components/schemas/Tag"},
					},
				},
				"Tag": map[string]any{"type": "string"},
			},
		},
	}
}

func TestFollow_MissingKeysYieldEmpty(t *testing.T) {
	doc := sampleDocument()

	tests := []struct {
		name string
		path []string
		want int
	}{
		{"existing", []string{"components", "schemas"}, 3},
		{"missing leaf", []string{"components", "nothing"}, 0},
		{"missing intermediate", []string{"nope", "still", "nope"}, 0},
		{"through scalar", []string{"openapi", "x"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Follow(doc, tt.path...)
			if got == nil {
				t.Fatalf("Follow returned nil")
			}
			if len(got) != tt.want {
				t.Errorf("Follow(%v) has %d keys, want %d", tt.path, len(got), tt.want)
			}
		})
	}
}

func TestResolveReference(t *testing.T) {
	doc := sampleDocument()
	pet := ResolveReference(doc, "#/components/schemas/Pet")
	if GetSchemaType(pet) != TypeObject {
		t.Fatalf("expected object schema, got %v", pet)
	}
	if got := ResolveReference(doc, "#/components/schemas/Missing"); len(got) != 0 {
		t.Errorf("expected empty document for missing reference, got %v", got)
	}
}

func TestPathsMethodsEndpoints(t *testing.T) {
	doc := sampleDocument()

	if got, want := Paths(doc), []string{"/healthcheck", "/pets", "/pets/{id_}"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Paths() = %v, want %v", got, want)
	}
	if got, want := Methods(doc, "/pets"), []string{"get", "post"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Methods() = %v, want %v", got, want)
	}
	if got, want := Endpoints(doc), []string{"/healthcheck", "/pets"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Endpoints() = %v, want %v", got, want)
	}
}

func TestRequestBodySchema_InlinesReferences(t *testing.T) {
	doc := sampleDocument()
	schema := RequestBodySchema(doc, "/pets", "POST")
	if !IsObject(schema) {
		t.Fatalf("expected object schema, got %v", schema)
	}
	tag := Follow(schema, "properties", "tag")
	if GetSchemaType(tag) != TypeString {
		t.Errorf("expected nested $ref to be inlined, got %v", tag)
	}
}

func TestResponseSchema_Dereferences(t *testing.T) {
	doc := sampleDocument()
	schema := ResponseSchema(doc, "/pets/{id_}", "get", "200")
	if got := PropertyNames(schema); !reflect.DeepEqual(got, []string{"name"}) {
		t.Errorf("PropertyNames() = %v", got)
	}
}

func TestValidatePayload(t *testing.T) {
	doc := sampleDocument()
	schema := RequestBodySchema(doc, "/pets", "post")

	if err := ValidatePayload(map[string]any{"name": "rex", "tag": "dog"}, schema); err != nil {
		t.Errorf("valid payload rejected: %v", err)
	}
	if err := ValidatePayload(map[string]any{"tag": "dog"}, schema); err == nil {
		t.Error("payload without required property accepted")
	}
	if err := ValidatePayload(map[string]any{"anything": 1}, Document{}); err != nil {
		t.Errorf("empty schema must accept everything, got %v", err)
	}
}

func TestCheckVersion(t *testing.T) {
	tests := []struct {
		name    string
		doc     Document
		wantMsg bool
	}{
		{"openapi 3", Document{"openapi": "3.0.3"}, false},
		{"openapi 3.1", Document{"openapi": "3.1.0"}, false},
		{"old openapi", Document{"openapi": "2.9"}, true},
		{"swagger", Document{"swagger": "2.0"}, true},
		{"missing", Document{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckVersion(tt.doc); (got != "") != tt.wantMsg {
				t.Errorf("CheckVersion() = %q, want message: %v", got, tt.wantMsg)
			}
		})
	}
}

func TestLoadDocument_YAMLAndJSON(t *testing.T) {
	yamlDoc := []byte("openapi: 3.0.0\npaths:\n  /pets:\n    get:\n      responses:\n        200:\n          description: ok\n")
	doc, err := LoadDocument(yamlDoc)
	if err != nil {
		t.Fatalf("LoadDocument(yaml) error: %v", err)
	}
	if _, ok := Follow(doc, "paths", "/pets", "get", "responses")["200"]; !ok {
		t.Errorf("integer response keys must be normalized to strings: %v", doc)
	}

	jsonDoc := []byte(`{"openapi": "3.0.0", "paths": {"/pets": {"get": {}}}}`)
	doc, err = LoadDocument(jsonDoc)
	if err != nil {
		t.Fatalf("LoadDocument(json) error: %v", err)
	}
	if got := Methods(doc, "/pets"); !reflect.DeepEqual(got, []string{"get"}) {
		t.Errorf("Methods() = %v", got)
	}

	if _, err = LoadDocument([]byte("- just\n- a list\n")); err == nil {
		t.Error("expected error for non mapping document")
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "spec.yaml")
	if err := os.WriteFile(path, []byte("openapi: 3.0.0\npaths: {}\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile error: %v", err)
	}
	if doc["openapi"] != "3.0.0" {
		t.Errorf("unexpected document %v", doc)
	}
	if _, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/openapi.json" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"openapi": "3.0.0", "paths": {}}`))
	}))
	defer server.Close()

	doc, err := LoadURL(context.Background(), server.URL+"/openapi.json", server.Client(), nil)
	if err != nil {
		t.Fatalf("LoadURL error: %v", err)
	}
	if doc["openapi"] != "3.0.0" {
		t.Errorf("unexpected document %v", doc)
	}
	if _, err = LoadURL(context.Background(), server.URL+"/missing", server.Client(), nil); err == nil {
		t.Error("expected error for 404")
	}
}

func TestCompareSchemaValues(t *testing.T) {
	a := Document{"type": "object", "properties": map[string]any{"name": map[string]any{"type": "string"}}}
	b := Document{"type": "object", "properties": map[string]any{"name": map[string]any{"type": "integer"}}}
	if _, ok := CompareSchemaValues(a, a); !ok {
		t.Error("identical schemas reported as different")
	}
	if msg, ok := CompareSchemaValues(a, b); ok || msg == "" {
		t.Errorf("expected mismatch, got %q %v", msg, ok)
	}
}
