package openapi_schema

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/hashicorp/go-version"
	"gopkg.in/yaml.v3"
)

// minimumOpenAPIVersion is the oldest document version the parser understands.
var minimumOpenAPIVersion = version.Must(version.NewVersion("3.0.0"))

// LoadDocument decodes a JSON or YAML OpenAPI document into a generic Document.
// YAML is a superset of JSON, so both are handled by the YAML decoder.
func LoadDocument(data []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode OpenAPI document: %w", err)
	}
	doc, ok := normalize(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("OpenAPI document must be a mapping, got %T", raw)
	}
	return doc, nil
}

// LoadFile reads and decodes a document from disk.
func LoadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read OpenAPI document %q: %w", path, err)
	}
	return LoadDocument(data)
}

// LoadURL fetches a document over HTTP. Anything but 200 is an error.
// A nil client falls back to http.DefaultClient.
func LoadURL(ctx context.Context, url string, client *http.Client, headers http.Header) (Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch OpenAPI document from %s: %w", url, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching OpenAPI document from %s returned status code %d: %s", url, resp.StatusCode, body)
	}
	return LoadDocument(body)
}

// LoadTyped parses the document with the kin-openapi loader.
func LoadTyped(data []byte) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	loader.IsExternalRefsAllowed = false
	return loader.LoadFromData(data)
}

// CheckDocument runs kin-openapi structural validation over a generic document.
func CheckDocument(ctx context.Context, doc Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	typed, err := LoadTyped(data)
	if err != nil {
		return fmt.Errorf("failed to load OpenAPI document: %w", err)
	}
	if err = typed.Validate(ctx); err != nil {
		return fmt.Errorf("OpenAPI document is invalid: %w", err)
	}
	return nil
}

// CheckVersion inspects the "openapi" field of the document.
// It returns a non-empty message when the document is older than 3.0.0,
// is a Swagger 2 document, or carries a version that cannot be parsed.
func CheckVersion(doc Document) string {
	if _, ok := doc["swagger"]; ok {
		return fmt.Sprintf("document declares swagger %v; only OpenAPI 3 documents are fully supported", doc["swagger"])
	}
	raw, ok := doc["openapi"]
	if !ok {
		return "document does not declare an openapi version"
	}
	v, err := version.NewVersion(fmt.Sprintf("%v", raw))
	if err != nil {
		return fmt.Sprintf("cannot parse openapi version %q: %v", raw, err)
	}
	if v.LessThan(minimumOpenAPIVersion) {
		return fmt.Sprintf("openapi version %s is older than %s", v, minimumOpenAPIVersion)
	}
	return ""
}

// normalize converts YAML decoded values into JSON-like values
// (string keyed maps only).
func normalize(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = normalize(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[fmt.Sprintf("%v", key)] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = normalize(val)
		}
		return out
	default:
		return value
	}
}
