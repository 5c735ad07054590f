package core

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Authenticator places credentials onto outgoing request headers.
type Authenticator interface {
	SetAuthHeader(headers http.Header)
}

// BearerAuthenticator sends "Bearer <token>" under the authorizationtoken header.
// The token is read from the Config on every call so it can be rotated at runtime.
type BearerAuthenticator struct {
	Header string
	config *Config

	mu      sync.Mutex
	checked string
}

func NewBearerAuthenticator(config *Config) *BearerAuthenticator {
	return &BearerAuthenticator{Header: HeaderAuthorizationToken, config: config}
}

func (auth *BearerAuthenticator) SetAuthHeader(headers http.Header) {
	token := auth.config.Token
	auth.inspect(token)
	headers.Set(auth.Header, fmt.Sprintf("%s %s", AuthTypeBearer, token))
}

// inspect warns once per token when the token is a JWT whose exp claim lies in the past.
// The signature is not verified.
func (auth *BearerAuthenticator) inspect(token string) {
	auth.mu.Lock()
	defer auth.mu.Unlock()
	if token == "" || token == auth.checked {
		return
	}
	auth.checked = token
	expiresAt, ok := TokenExpiry(token)
	if ok && expiresAt.Before(time.Now()) {
		auth.config.Warn(RuntimeWarning, "", fmt.Sprintf("bearer token expired at %s", expiresAt.Format(time.RFC3339)))
	}
}

// TokenExpiry returns the exp claim of a JWT without verifying its signature.
// The second return value is false for opaque tokens or tokens without exp.
func TokenExpiry(token string) (time.Time, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
