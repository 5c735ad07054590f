package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"runtime"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// Config is the master configuration shared by every generated model and function.
// Generated code reads it at call time, so changes made after generation
// (for example a refreshed Token) are picked up by subsequent calls.
type Config struct {
	ApiEndpoint string `validate:"required,url"` // Base URL every resource path is appended to.
	Token       string // Bearer token placed into the authorization header by the default policy.

	// IdSeparator is the path placeholder for a resource identifier.
	// It is embedded into regular expressions, so "{(unitId|factionId)}" is a valid value.
	IdSeparator string `validate:"required"`

	HeaderArgsKey       string   `validate:"required"`                     // Argument key holding header-only arguments.
	FunctionNamingStyle string   `validate:"oneof=pretty raw"`             // Naming style of standalone route functions.
	ValidationOutput    string   `validate:"oneof=warning exception none"` // What happens when a payload fails schema validation.
	ParamsArgs          []string // Argument keys forwarded as plain query parameters instead of filters.

	SchemaAttributesPath    []string `validate:"min=1"` // Key path from a response schema to its attribute properties.
	SchemaRelationshipsPath []string `validate:"min=1"` // Key path from a response schema to its relationship properties.
	ModelAttributesPath     []string // Key path from an instance representation to its attributes.
	ModelRelationshipsPath  []string // Key path from an instance representation to its relationships.

	DisabledFunctions     []string // Generated function names replaced by a stub returning DisabledError.
	ExperimentalFunctions bool     // Enables Cursor.FilterBy and Cursor.SortBy.
	PrintOnInit           bool     // Log generated models and functions once generation completes.
	StrictSpec            bool     // Run kin-openapi structural validation before parsing.

	SslVerify      bool           // Whether to verify SSL certificates.
	Timeout        *time.Duration // HTTP client timeout. If nil, a default is applied by validators.
	MaxConnections int            // Maximum number of concurrent HTTP connections per host.
	UserAgent      string         // Optional custom User-Agent header. If empty, a default is applied.

	// LogLevel overrides the OPENAPI_MODELS_LOG environment variable when Logger is nil.
	LogLevel string
	Logger   *zap.Logger `validate:"-"`

	// WarningHandler receives every parser and runtime warning in addition to the log.
	WarningHandler func(Warning) `validate:"-"`

	Authenticator Authenticator `validate:"-"`
	Policy        Policy        `validate:"-"`
	Session       RESTSession   `validate:"-"`

	// BeforeRequestFn is an optional hook executed before an API request is sent.
	// Any error returned aborts the request.
	BeforeRequestFn func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error `validate:"-"`

	// AfterRequestFn is an optional hook executed after a response has been read.
	// It may replace the response or abort with an error.
	AfterRequestFn func(ctx context.Context, response *Response) (*Response, error) `validate:"-"`
}

// NewConfig returns a Config populated with the default values.
func NewConfig() *Config {
	return &Config{
		ApiEndpoint:             DefaultApiEndpoint,
		IdSeparator:             DefaultIdSeparator,
		HeaderArgsKey:           DefaultHeaderArgsKey,
		FunctionNamingStyle:     NamingStylePretty,
		ValidationOutput:        ValidationWarning,
		ParamsArgs:              []string{"sort"},
		SchemaAttributesPath:    []string{"properties", "data", "properties", "attributes", "properties"},
		SchemaRelationshipsPath: []string{"properties", "data", "properties", "relationships", "properties"},
		ModelAttributesPath:     []string{"attributes"},
		ModelRelationshipsPath:  []string{"relationships"},
		PrintOnInit:             true,
	}
}

// ConfigFunc defines a function that can modify or validate a Config.
type ConfigFunc func(*Config) error

var structValidator = validator.New(validator.WithRequiredStructEnabled())

// Validate applies the given ConfigFunc validators and then checks the struct constraints.
// The first failure is returned as *ConfigError.
func (config *Config) Validate(validators ...ConfigFunc) error {
	for _, fn := range validators {
		if err := fn(config); err != nil {
			if IsConfigError(err) {
				return err
			}
			return &ConfigError{Field: "config", Reason: err.Error()}
		}
	}
	if err := structValidator.Struct(config); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) && len(fieldErrors) > 0 {
			fe := fieldErrors[0]
			return &ConfigError{
				Field:  fe.Field(),
				Reason: fmt.Sprintf("value %v does not satisfy '%s'", fe.Value(), describeTag(fe)),
			}
		}
		return &ConfigError{Field: "config", Reason: err.Error()}
	}
	return nil
}

func describeTag(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}

// DefaultValidators returns the validators applied by Generate.
// Order matters: the session is built from the timeout, connection and agent settings.
func DefaultValidators() []ConfigFunc {
	return []ConfigFunc{
		WithTimeout(30 * time.Second),
		WithMaxConnections(DefaultMaxConnections),
		WithUserAgent,
		WithIdSeparator,
		WithLogger,
		WithAuthenticator,
		WithPolicy,
		WithSession,
	}
}

// WithTimeout returns a ConfigFunc that sets a default timeout if none is provided.
func WithTimeout(timeout time.Duration) ConfigFunc {
	return func(config *Config) error {
		if config.Timeout == nil {
			config.Timeout = &timeout
		}
		return nil
	}
}

// WithMaxConnections returns a ConfigFunc that sets the maximum number of connections
// if not explicitly provided.
func WithMaxConnections(maxConnections int) ConfigFunc {
	return func(config *Config) error {
		if config.MaxConnections == 0 {
			config.MaxConnections = maxConnections
		}
		return nil
	}
}

// WithUserAgent sets a default User-Agent header if none is provided in the config.
func WithUserAgent(config *Config) error {
	if config.UserAgent == "" {
		config.UserAgent = fmt.Sprintf(
			"%s,os:%s,arch:%s",
			fmt.Sprintf("go-openapi-models-%s", ClientVersion()),
			runtime.GOOS,
			runtime.GOARCH,
		)
	}
	return nil
}

// WithIdSeparator checks that the id separator can be embedded into a regular expression.
func WithIdSeparator(config *Config) error {
	if _, err := config.IdPattern(); err != nil {
		return &ConfigError{Field: "IdSeparator", Reason: err.Error()}
	}
	return nil
}

// WithLogger builds a zap logger from LogLevel (or OPENAPI_MODELS_LOG) when none is set.
func WithLogger(config *Config) error {
	if config.Logger != nil {
		return nil
	}
	logger, err := NewLogger(config.LogLevel)
	if err != nil {
		return &ConfigError{Field: "LogLevel", Reason: err.Error()}
	}
	config.Logger = logger
	return nil
}

// WithAuthenticator installs a bearer authenticator over Config.Token when none is set.
func WithAuthenticator(config *Config) error {
	if config.Authenticator == nil {
		config.Authenticator = NewBearerAuthenticator(config)
	}
	return nil
}

// WithPolicy installs the JSON:API flavoured DefaultPolicy when none is set.
func WithPolicy(config *Config) error {
	if config.Policy == nil {
		config.Policy = NewDefaultPolicy(config)
	}
	return nil
}

// WithSession installs an HTTPSession when no transport is set.
func WithSession(config *Config) error {
	if config.Session == nil {
		config.Session = NewHTTPSession(config)
	}
	return nil
}

// IdPattern compiles the id separator as a regular expression.
func (config *Config) IdPattern() (*regexp.Regexp, error) {
	return regexp.Compile(config.IdSeparator)
}

// IsDisabled reports whether a generated function name is on the deny-list.
func (config *Config) IsDisabled(name string) bool {
	return slices.Contains(config.DisabledFunctions, name)
}

func (config *Config) log() *zap.Logger {
	if config.Logger == nil {
		return zap.NewNop()
	}
	return config.Logger
}

// Warn logs a warning and forwards it to WarningHandler.
func (config *Config) Warn(kind WarningKind, resource, message string) {
	w := Warning{Kind: kind, Resource: resource, Message: message}
	config.log().Warn(message, zap.String("kind", string(kind)), zap.String("resource", resource))
	if config.WarningHandler != nil {
		config.WarningHandler(w)
	}
}

// CheckPayload validates payload against schema and applies ValidationOutput:
// "warning" logs, "exception" returns a RuntimeError, anything else ignores the result.
func (config *Config) CheckPayload(op string, payload any, schema openapi_schema.Document) error {
	if config.ValidationOutput != ValidationWarning && config.ValidationOutput != ValidationException {
		return nil
	}
	err := openapi_schema.ValidatePayload(payload, schema)
	if err == nil {
		return nil
	}
	if config.ValidationOutput == ValidationException {
		return &RuntimeError{Op: op, Message: "payload failed schema validation", Err: err}
	}
	config.Warn(RuntimeWarning, op, fmt.Sprintf("payload failed schema validation: %v", err))
	return nil
}
