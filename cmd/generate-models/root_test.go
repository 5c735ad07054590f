package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testingSpec = "../../testdata/testing_spec.json"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	out, err := run(t, "summary", testingSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 3 models and 7 functions")
	assert.Contains(t, out, "InsufficientModel")
	assert.Contains(t, out, "post_to_convert_name_with_name")
}

func TestSummaryCommand_RawNaming(t *testing.T) {
	out, err := run(t, "summary", "--naming-style", "raw", testingSpec)
	require.NoError(t, err)
	assert.Contains(t, out, "GET /healthcheck")
}

func TestDescribeCommand(t *testing.T) {
	out, err := run(t, "describe", testingSpec, "Unit")
	require.NoError(t, err)
	assert.Contains(t, out, "find_by_title")
	assert.Contains(t, out, "downstream_get_get_skus")

	_, err = run(t, "describe", testingSpec, "Nothing")
	assert.Error(t, err)
}

func TestCallCommand(t *testing.T) {
	var gotPath, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath, gotMethod = r.URL.Path, r.Method
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"hi"}`))
	}))
	defer server.Close()

	out, err := run(t, "call", "--endpoint", server.URL+"/api/v1", testingSpec, "get_from_healthcheck_with_msg_", "msg_=hi")
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/healthcheck/hi", gotPath)
	assert.Equal(t, http.MethodGet, gotMethod)
	assert.Contains(t, out, "200")
	assert.Contains(t, out, `"message": "hi"`)

	out, err = run(t, "call", "--endpoint", server.URL+"/api/v1", "--action", "trace", testingSpec, "get_from_healthcheck")
	require.NoError(t, err)
	assert.Contains(t, out, "no request was sent")

	_, err = run(t, "call", testingSpec, "get_from_healthcheck", "--body", "{")
	assert.Error(t, err)
}

func TestCallCommand_LogFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()
	logFile := filepath.Join(t.TempDir(), "models.log")

	_, err := run(t, "call", "--endpoint", server.URL, "--log-level", "debug", "--log-file", logFile, testingSpec, "get_from_healthcheck")
	require.NoError(t, err)
	assert.FileExists(t, logFile)
}

func TestParseKeyValues(t *testing.T) {
	params, err := parseKeyValues([]string{"name=bob", "expr=a=b"})
	require.NoError(t, err)
	assert.Equal(t, "bob", params["name"])
	assert.Equal(t, "a=b", params["expr"])

	_, err = parseKeyValues([]string{"novalue"})
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "generate-models version: dev")
}

func TestBuildConfig_BadLogLevel(t *testing.T) {
	_, err := run(t, "summary", "--log-level", "chatty", testingSpec)
	assert.Error(t, err)
}

func TestListCommand(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("page[size]")
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Path == "/factions" {
			_, _ = w.Write([]byte(`{"data":[{"id":"1","type":"factions","attributes":{"id":"1","title":"Necrons"}}],"links":{}}`))
			return
		}
		_, _ = w.Write([]byte(`{"data":[],"links":{}}`))
	}))
	defer server.Close()

	out, err := run(t, "list", "--endpoint", server.URL, testingSpec, "Faction", "title=Necrons")
	require.NoError(t, err)
	assert.Equal(t, "10", gotQuery)
	assert.Contains(t, out, "Necrons")
	assert.Contains(t, out, "factions")

	out, err = run(t, "list", "--endpoint", server.URL, "-o", "json", "--limit", "0", testingSpec, "Faction")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
	assert.Contains(t, out, `"title": "Necrons"`)

	out, err = run(t, "list", "--endpoint", server.URL, testingSpec, "Unit")
	require.NoError(t, err)
	assert.Contains(t, out, "no Unit items")

	_, err = run(t, "list", "-o", "yaml", testingSpec, "Faction")
	assert.Error(t, err)
}
