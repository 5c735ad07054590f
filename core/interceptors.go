package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevelEnv selects the log level when Config.LogLevel is empty.
const LogLevelEnv = "OPENAPI_MODELS_LOG"

// NewLogger builds a console zap logger.
// An empty level falls back to OPENAPI_MODELS_LOG and then to "warn".
func NewLogger(level string) (*zap.Logger, error) {
	if level == "" {
		level = strings.ToLower(os.Getenv(LogLevelEnv))
	}
	if level == "" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg.Build()
}

// ######################################################
//
//	REQUEST/RESPONSE INTERCEPTORS
//
// ######################################################

// doBeforeRequest logs the outgoing request and runs the user-defined hook.
func doBeforeRequest(ctx context.Context, config *Config, r *http.Request, body []byte) error {
	beforeRequestLog(config.log(), r.Method, r.URL.String(), body)
	if config.BeforeRequestFn != nil {
		return config.BeforeRequestFn(ctx, r, r.Method, r.URL.String(), bytes.NewReader(body))
	}
	return nil
}

// doAfterRequest logs the response and runs the user-defined hook.
func doAfterRequest(ctx context.Context, config *Config, response *Response) (*Response, error) {
	afterRequestLog(config.log(), response)
	if config.AfterRequestFn != nil {
		return config.AfterRequestFn(ctx, response)
	}
	return response, nil
}

// ######################################################
//
//	REQUEST/RESPONSE LOGGING
//
// ######################################################

// beforeRequestLog logs HTTP request details before sending the request.
// The body is only attached at debug level.
func beforeRequestLog(logger *zap.Logger, verb, url string, body []byte) {
	if ce := logger.Check(zapcore.DebugLevel, "http request start"); ce != nil {
		fields := []zap.Field{zap.String("method", verb), zap.String("url", url)}
		if msg := compactBody(body); msg != "" {
			fields = append(fields, zap.String("body", msg))
		}
		ce.Write(fields...)
		return
	}
	logger.Info("http request start", zap.String("method", verb), zap.String("url", url))
}

// afterRequestLog logs HTTP response details after receiving the response.
// In debug mode the full body is logged, otherwise a summary only.
func afterRequestLog(logger *zap.Logger, response *Response) {
	fields := []zap.Field{
		zap.String("method", response.Method),
		zap.String("url", response.URL),
		zap.Int("status", response.StatusCode),
	}
	if ce := logger.Check(zapcore.DebugLevel, "http response"); ce != nil {
		if msg := compactBody(response.Body); msg != "" {
			fields = append(fields, zap.String("body", msg))
		}
		ce.Write(fields...)
		return
	}
	logger.Info("http response", append(fields, zap.Int("bytes", len(response.Body)))...)
}

func compactBody(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, trimmed); err == nil {
		return compact.String()
	}
	return string(trimmed)
}
