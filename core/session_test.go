package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestHTTPSession_Request(t *testing.T) {
	var got *http.Request
	var body []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r
		body, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", ContentTypeJSON)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()
	config, _ := newTestConfig(t, server.URL, func(c *Config) { c.UserAgent = "tests" })
	session := NewHTTPSession(config)

	headers := http.Header{}
	headers.Set("X-Custom", "1")
	response, err := session.Request(context.Background(), "post", server.URL+"/things", headers, Params{"a": "b"}, map[string]any{"name": "x"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, response.Method)
	assert.Equal(t, http.StatusCreated, response.StatusCode)
	assert.True(t, response.IsSuccess())
	record, err := response.Record()
	require.NoError(t, err)
	assert.Equal(t, Record{"ok": true}, record)

	assert.Equal(t, "/things", got.URL.Path)
	assert.Equal(t, "b", got.URL.Query().Get("a"))
	assert.JSONEq(t, `{"name":"x"}`, string(body))
	assert.Equal(t, ContentTypeJSON, got.Header.Get(HeaderAccept))
	assert.Equal(t, ContentTypeJSON, got.Header.Get(HeaderContentType))
	assert.Equal(t, "tests", got.Header.Get(HeaderUserAgent))
	assert.Equal(t, "1", got.Header.Get("X-Custom"))
	assert.Len(t, got.Header.Get(HeaderRequestID), 36)
}

func TestHTTPSession_Hooks(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(r.Header.Get("X-Hooked")))
	}))
	defer server.Close()

	config, _ := newTestConfig(t, server.URL, func(c *Config) {
		c.BeforeRequestFn = func(ctx context.Context, r *http.Request, verb, url string, body io.Reader) error {
			r.Header.Set("X-Hooked", "yes")
			return nil
		}
		c.AfterRequestFn = func(ctx context.Context, response *Response) (*Response, error) {
			response.Body = append([]byte("after:"), response.Body...)
			return response, nil
		}
	})
	response, err := config.Session.Request(context.Background(), http.MethodGet, server.URL, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "after:yes", string(response.Body))

	abort := errors.New("abort")
	config.BeforeRequestFn = func(context.Context, *http.Request, string, string, io.Reader) error { return abort }
	_, err = config.Session.Request(context.Background(), http.MethodGet, server.URL, nil, nil, nil)
	assert.ErrorIs(t, err, abort)
}

func TestHTTPSession_LogsRequests(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"a": 1}`))
	}))
	defer server.Close()

	t.Run("debug includes bodies", func(t *testing.T) {
		config, logs := newTestConfig(t, server.URL)
		_, err := config.Session.Request(context.Background(), http.MethodPost, server.URL, nil, nil, map[string]any{"x": 1})
		require.NoError(t, err)

		starts := logs.FilterMessage("http request start").All()
		require.Len(t, starts, 1)
		assert.Equal(t, `{"x":1}`, starts[0].ContextMap()["body"])
		responses := logs.FilterMessage("http response").All()
		require.Len(t, responses, 1)
		assert.Equal(t, `{"a":1}`, responses[0].ContextMap()["body"])
	})

	t.Run("info omits bodies", func(t *testing.T) {
		observed, logs := observer.New(zapcore.InfoLevel)
		config, _ := newTestConfig(t, server.URL, func(c *Config) { c.Logger = zap.New(observed) })
		_, err := config.Session.Request(context.Background(), http.MethodPost, server.URL, nil, nil, map[string]any{"x": 1})
		require.NoError(t, err)

		responses := logs.FilterMessage("http response").All()
		require.Len(t, responses, 1)
		assert.NotContains(t, responses[0].ContextMap(), "body")
		assert.Equal(t, int64(8), responses[0].ContextMap()["bytes"])
	})
}

func TestResponse_AsError(t *testing.T) {
	response := &Response{Method: http.MethodDelete, URL: "http://h/x", StatusCode: 409, Body: []byte("conflict")}
	assert.False(t, response.IsSuccess())
	err := response.AsError()
	assert.True(t, ExpectStatusCodes(err, 409))
	assert.Contains(t, err.Error(), "conflict")

	_, err = (&Response{URL: "http://h/x", Body: []byte(`[1]`)}).Record()
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	t.Setenv(LogLevelEnv, "debug")
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	logger, err = NewLogger("error")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger("chatty")
	assert.Error(t, err)
}
