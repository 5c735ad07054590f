package core

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RESTSession is the transport used by every generated function.
// Implementations return the response whatever its status; callers decide what is an error.
type RESTSession interface {
	Request(ctx context.Context, method, url string, headers http.Header, params Params, body any) (*Response, error)
	GetConfig() *Config
}

// Response is a fully read HTTP response.
type Response struct {
	Method     string
	StatusCode int
	URL        string
	Header     http.Header
	Body       []byte
}

// JSON decodes the body. An empty body yields nil.
func (r *Response) JSON() (any, error) {
	return decodeJSON(r.Body)
}

// Record decodes the body as a JSON object. An empty body yields an empty Record.
func (r *Response) Record() (Record, error) {
	value, err := r.JSON()
	if err != nil {
		return nil, err
	}
	if value == nil {
		return Record{}, nil
	}
	record := asRecord(value)
	if record == nil {
		return nil, fmt.Errorf("expected JSON object from %s, got %T", r.URL, value)
	}
	return record, nil
}

// IsSuccess reports a 2xx status.
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// AsError converts the response into an *ApiError.
func (r *Response) AsError() error {
	return &ApiError{
		Method:     r.Method,
		URL:        r.URL,
		StatusCode: r.StatusCode,
		Body:       string(r.Body),
	}
}

// HTTPSession is the net/http backed RESTSession.
type HTTPSession struct {
	config *Config
	client *http.Client
}

func NewHTTPSession(config *Config) *HTTPSession {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: !config.SslVerify}
	transport.MaxConnsPerHost = config.MaxConnections
	client := &http.Client{Transport: transport}
	if config.Timeout != nil {
		transport.IdleConnTimeout = *config.Timeout
		client.Timeout = *config.Timeout
	}
	return &HTTPSession{
		config: config,
		client: client,
	}
}

func (s *HTTPSession) GetConfig() *Config {
	return s.config
}

// HTTPClient returns the underlying client. Document loading reuses it.
func (s *HTTPSession) HTTPClient() *http.Client {
	return s.client
}

func (s *HTTPSession) Request(ctx context.Context, method, url string, headers http.Header, params Params, body any) (*Response, error) {
	var (
		payload []byte
		err     error
	)
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.ToUpper(method)
	if len(params) > 0 {
		url = withQuery(url, params.ToQuery())
	}
	if body != nil {
		if payload, err = json.Marshal(body); err != nil {
			return nil, fmt.Errorf("failed to encode %s request body for %s: %w", method, url, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	for key, values := range consolidateHeaders(s, headers) {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if err = doBeforeRequest(ctx, s.config, req, payload); err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to perform %s request to %s, error %v", method, url, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body of %s %s: %w", method, url, err)
	}
	response := &Response{
		Method:     method,
		StatusCode: resp.StatusCode,
		URL:        resp.Request.URL.String(),
		Header:     resp.Header,
		Body:       data,
	}
	return doAfterRequest(ctx, s.config, response)
}

func consolidateHeaders(s RESTSession, customHeaders http.Header) http.Header {
	finalHeaders := make(http.Header)

	for key, values := range customHeaders {
		for _, value := range values {
			finalHeaders.Add(key, value)
		}
	}

	// Set default headers only if not already provided
	if finalHeaders.Get(HeaderAccept) == "" {
		finalHeaders.Set(HeaderAccept, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderContentType) == "" {
		finalHeaders.Set(HeaderContentType, ContentTypeJSON)
	}
	if finalHeaders.Get(HeaderUserAgent) == "" && s.GetConfig().UserAgent != "" {
		finalHeaders.Set(HeaderUserAgent, s.GetConfig().UserAgent)
	}
	if finalHeaders.Get(HeaderRequestID) == "" {
		finalHeaders.Set(HeaderRequestID, uuid.NewString())
	}
	return finalHeaders
}
