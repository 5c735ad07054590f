package core

import (
	"errors"
	"fmt"
	"strings"
)

// ParserError is raised for malformed or ambiguous schema input that cannot be
// resolved heuristically. Generation of the affected resource is aborted.
type ParserError struct {
	Resource string
	Message  string
	Err      error
}

func (e *ParserError) Error() string {
	msg := e.Message
	if e.Resource != "" {
		msg = fmt.Sprintf("resource '%s': %s", e.Resource, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("parser error: %s: %v", msg, e.Err)
	}
	return "parser error: " + msg
}

func (e *ParserError) Unwrap() error {
	return e.Err
}

// RuntimeError signals an invalid operation attempted at call time
// (posting an entity that already has an id, chaining a read-only cursor, ...).
type RuntimeError struct {
	Op      string
	Message string
	Err     error
}

func (e *RuntimeError) Error() string {
	var sb strings.Builder
	sb.WriteString("runtime error")
	if e.Op != "" {
		sb.WriteString(" in ")
		sb.WriteString(e.Op)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Message)
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// ApiError represents a non-success HTTP status returned by the remote API.
type ApiError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *ApiError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("response body: %s", e.Body)
	}
	return fmt.Sprintf(
		"%s request to %s returned status code %d"+
			" - response body: %s", e.Method, e.URL, e.StatusCode, e.Body,
	)
}

// DisabledError is returned by every generated function listed in Config.DisabledFunctions.
type DisabledError struct {
	Resource string
	Name     string
}

func (e *DisabledError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("function '%s' has been disabled", e.Name)
	}
	return fmt.Sprintf("function '%s' of %s has been disabled", e.Name, e.Resource)
}

// ConfigError is returned when the configuration holds an illegal value.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// ErrIndexOutOfRange is wrapped by Cursor.At when the requested index does not exist remotely.
var ErrIndexOutOfRange = errors.New("index out of range")

func IsParserError(err error) bool {
	var target *ParserError
	return errors.As(err, &target)
}

func IsRuntimeError(err error) bool {
	var target *RuntimeError
	return errors.As(err, &target)
}

func IsApiError(err error) bool {
	var apiErr *ApiError
	return errors.As(err, &apiErr)
}

func IsDisabledError(err error) bool {
	var target *DisabledError
	return errors.As(err, &target)
}

func IsConfigError(err error) bool {
	var target *ConfigError
	return errors.As(err, &target)
}

func IgnoreStatusCodes(err error, codes ...int) error {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return err
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return nil
		}
	}
	return err
}

func ExpectStatusCodes(err error, codes ...int) bool {
	var apiErr *ApiError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, code := range codes {
		if apiErr.StatusCode == code {
			return true
		}
	}
	return false
}

// ######################################################
//              WARNINGS
// ######################################################

type WarningKind string

const (
	ParserWarning  WarningKind = "parser"
	RuntimeWarning WarningKind = "runtime"
)

// Warning is a non-fatal issue resolved by a heuristic or by the validation policy.
type Warning struct {
	Kind     WarningKind
	Resource string
	Message  string
}

func (w Warning) String() string {
	if w.Resource == "" {
		return fmt.Sprintf("%s warning: %s", w.Kind, w.Message)
	}
	return fmt.Sprintf("%s warning (%s): %s", w.Kind, w.Resource, w.Message)
}
