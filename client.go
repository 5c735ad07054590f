package openapi_models

import (
	"github.com/vast-data/go-openapi-models/core"
	"github.com/vast-data/go-openapi-models/openapi_schema"
)

type (
	Config       = core.Config
	ConfigFunc   = core.ConfigFunc
	Params       = core.Params
	Record       = core.Record
	RecordSet    = core.RecordSet
	ResourceType = core.ResourceType
	Instance     = core.Instance
	Cursor       = core.Cursor
	Function     = core.Function
	Response     = core.Response
	Warning      = core.Warning
	Document     = openapi_schema.Document
)

// NewConfig returns a Config populated with the default values.
func NewConfig() *Config {
	return core.NewConfig()
}

// LoadConfig reads a configuration file and OPENAPI_MODELS_* environment variables.
func LoadConfig(path string) (*Config, error) {
	return core.LoadConfig(path)
}

// ClientVersion returns the version of this module.
func ClientVersion() string {
	return core.ClientVersion()
}
