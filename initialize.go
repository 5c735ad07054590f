package openapi_models

import (
	"context"
	"net/http"

	"github.com/vast-data/go-openapi-models/core"
	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// InitializeWithSpec generates models from an already decoded document.
func InitializeWithSpec(ctx context.Context, doc openapi_schema.Document, config *core.Config) (*Result, error) {
	return Generate(ctx, doc, config)
}

// InitializeWithData decodes a JSON or YAML document and generates models from it.
func InitializeWithData(ctx context.Context, data []byte, config *core.Config) (*Result, error) {
	doc, err := openapi_schema.LoadDocument(data)
	if err != nil {
		return nil, &core.ParserError{Message: "cannot decode document", Err: err}
	}
	return Generate(ctx, doc, config)
}

// InitializeWithFile reads a JSON or YAML document from disk and generates models from it.
func InitializeWithFile(ctx context.Context, path string, config *core.Config) (*Result, error) {
	doc, err := openapi_schema.LoadFile(path)
	if err != nil {
		return nil, &core.ParserError{Message: "cannot load document", Err: err}
	}
	return Generate(ctx, doc, config)
}

// InitializeWithYAMLFile is InitializeWithFile; YAML and JSON share one decoder.
func InitializeWithYAMLFile(ctx context.Context, path string, config *core.Config) (*Result, error) {
	return InitializeWithFile(ctx, path, config)
}

// InitializeWithURL fetches the document over HTTP and generates models from it.
// The fetch uses the transport settings of config (TLS verification, timeout).
// Any status other than 200 is a parser error.
func InitializeWithURL(ctx context.Context, url string, config *core.Config) (*Result, error) {
	if config == nil {
		config = core.NewConfig()
	}
	if err := config.Validate(core.DefaultValidators()...); err != nil {
		return nil, err
	}
	var client *http.Client
	if session, ok := config.Session.(*core.HTTPSession); ok {
		client = session.HTTPClient()
	}
	headers := http.Header{}
	headers.Set(core.HeaderUserAgent, config.UserAgent)
	doc, err := openapi_schema.LoadURL(ctx, url, client, headers)
	if err != nil {
		return nil, &core.ParserError{Message: "error retrieving the document", Err: err}
	}
	return Generate(ctx, doc, config)
}

// InitializeWithYAMLURL is InitializeWithURL; YAML and JSON share one decoder.
func InitializeWithYAMLURL(ctx context.Context, url string, config *core.Config) (*Result, error) {
	return InitializeWithURL(ctx, url, config)
}
