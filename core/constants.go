package core

// HTTP Header Names
const (
	HeaderAccept             = "Accept"
	HeaderAuthorization      = "Authorization"
	HeaderAuthorizationToken = "authorizationtoken"
	HeaderContentType        = "Content-Type"
	HeaderUserAgent          = "User-Agent"
	HeaderRequestID          = "X-Request-Id"
)

// HTTP Content Types
const (
	ContentTypeJSON = "application/json"
)

// HTTP Authentication Types
const (
	AuthTypeBearer = "Bearer"
)

// Reserved argument keys understood by generated functions.
const (
	ArgID                 = "id"
	ArgValue              = "value"
	ArgOperation          = "operation"
	ArgMeta               = "meta"
	ArgEntity             = "entity"
	ArgPayload            = "payload"
	ArgParameters         = "parameters"
	ArgLimit              = "limit"
	ArgFilteringArguments = "filtering_arguments"
	ArgRequestBody        = "request_body"
	ArgAction             = "action"
	ArgPath               = "path"
	ArgMethod             = "method"
	ArgParams             = "params"
)

// Naming styles for standalone route functions.
const (
	NamingStylePretty = "pretty"
	NamingStyleRaw    = "raw"
)

// Validation policies applied before a request body is sent.
const (
	ValidationWarning   = "warning"
	ValidationException = "exception"
	ValidationNone      = "none"
)

// Default values used by NewConfig.
const (
	DefaultApiEndpoint     = "http://localhost:80/api/v1"
	DefaultIdSeparator     = "{id_}"
	DefaultHeaderArgsKey   = "header_args"
	DefaultTypeUndefined   = "TypeUndefined"
	DefaultFilterOperation = "eq"
	DefaultMaxConnections  = 10
)
