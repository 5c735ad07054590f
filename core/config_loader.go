package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ConfigEnvPrefix prefixes the environment variables read by LoadConfig,
// e.g. OPENAPI_MODELS_API_ENDPOINT.
const ConfigEnvPrefix = "OPENAPI_MODELS"

// ConfigFile is the serializable subset of Config.
type ConfigFile struct {
	ApiEndpoint             string        `mapstructure:"api_endpoint"`
	Token                   string        `mapstructure:"token"`
	IdSeparator             string        `mapstructure:"id_separator"`
	HeaderArgsKey           string        `mapstructure:"header_args_key"`
	FunctionNamingStyle     string        `mapstructure:"function_naming_style"`
	ValidationOutput        string        `mapstructure:"validation_output"`
	ParamsArgs              []string      `mapstructure:"params_args"`
	SchemaAttributesPath    []string      `mapstructure:"schema_attributes_path"`
	SchemaRelationshipsPath []string      `mapstructure:"schema_relationships_path"`
	ModelAttributesPath     []string      `mapstructure:"model_attributes_path"`
	ModelRelationshipsPath  []string      `mapstructure:"model_relationships_path"`
	DisabledFunctions       []string      `mapstructure:"disabled_functions"`
	ExperimentalFunctions   bool          `mapstructure:"experimental_functions"`
	PrintOnInit             bool          `mapstructure:"print_on_init"`
	StrictSpec              bool          `mapstructure:"strict_spec"`
	SslVerify               bool          `mapstructure:"ssl_verify"`
	Timeout                 time.Duration `mapstructure:"timeout"`
	MaxConnections          int           `mapstructure:"max_connections"`
	UserAgent               string        `mapstructure:"user_agent"`
	LogLevel                string        `mapstructure:"log_level"`
}

// newConfigViper returns a viper instance preloaded with the defaults of NewConfig.
func newConfigViper() *viper.Viper {
	defaults := NewConfig()
	v := viper.New()
	v.SetDefault("api_endpoint", defaults.ApiEndpoint)
	v.SetDefault("token", "")
	v.SetDefault("id_separator", defaults.IdSeparator)
	v.SetDefault("header_args_key", defaults.HeaderArgsKey)
	v.SetDefault("function_naming_style", defaults.FunctionNamingStyle)
	v.SetDefault("validation_output", defaults.ValidationOutput)
	v.SetDefault("params_args", defaults.ParamsArgs)
	v.SetDefault("schema_attributes_path", defaults.SchemaAttributesPath)
	v.SetDefault("schema_relationships_path", defaults.SchemaRelationshipsPath)
	v.SetDefault("model_attributes_path", defaults.ModelAttributesPath)
	v.SetDefault("model_relationships_path", defaults.ModelRelationshipsPath)
	v.SetDefault("disabled_functions", []string{})
	v.SetDefault("experimental_functions", false)
	v.SetDefault("print_on_init", defaults.PrintOnInit)
	v.SetDefault("strict_spec", false)
	v.SetDefault("ssl_verify", false)
	v.SetDefault("timeout", 30*time.Second)
	v.SetDefault("max_connections", DefaultMaxConnections)
	v.SetDefault("user_agent", "")
	v.SetDefault("log_level", "")

	v.SetEnvPrefix(ConfigEnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadConfig reads a YAML, JSON or TOML file (the format follows the extension)
// and OPENAPI_MODELS_* environment variables over the defaults.
// An empty path reads the environment only.
func LoadConfig(path string) (*Config, error) {
	v := newConfigViper()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist) {
				return nil, &ConfigError{Field: "path", Reason: fmt.Sprintf("config file %s not found", path)}
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	var file ConfigFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return file.Apply(NewConfig()), nil
}

// Apply copies the file settings onto config and returns it.
func (f ConfigFile) Apply(config *Config) *Config {
	config.ApiEndpoint = f.ApiEndpoint
	config.Token = f.Token
	config.IdSeparator = f.IdSeparator
	config.HeaderArgsKey = f.HeaderArgsKey
	config.FunctionNamingStyle = f.FunctionNamingStyle
	config.ValidationOutput = f.ValidationOutput
	config.ParamsArgs = f.ParamsArgs
	config.SchemaAttributesPath = f.SchemaAttributesPath
	config.SchemaRelationshipsPath = f.SchemaRelationshipsPath
	config.ModelAttributesPath = f.ModelAttributesPath
	config.ModelRelationshipsPath = f.ModelRelationshipsPath
	config.DisabledFunctions = f.DisabledFunctions
	config.ExperimentalFunctions = f.ExperimentalFunctions
	config.PrintOnInit = f.PrintOnInit
	config.StrictSpec = f.StrictSpec
	config.SslVerify = f.SslVerify
	if f.Timeout > 0 {
		timeout := f.Timeout
		config.Timeout = &timeout
	}
	config.MaxConnections = f.MaxConnections
	config.UserAgent = f.UserAgent
	config.LogLevel = f.LogLevel
	return config
}
