package core

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPolicy_BuildParams(t *testing.T) {
	config, _ := newTestConfig(t, "http://localhost:5000")
	policy := NewDefaultPolicy(config)

	tests := []struct {
		name  string
		limit int
		args  Params
		want  Params
	}{
		{
			name: "no arguments still sends an empty filter",
			args: Params{},
			want: Params{"filter": `[{"and":[]}]`},
		},
		{
			name:  "limit becomes page size",
			limit: 5,
			args:  Params{"name": "red"},
			want: Params{
				"filter":     `[{"and":[{"name":"name","op":"eq","val":"red"}]}]`,
				"page[size]": 5,
			},
		},
		{
			name: "params args and operations",
			args: Params{
				"sort":                "-id",
				"id":                  []any{1, 2},
				"name":                "red",
				ArgFilteringArguments: map[string]string{"id": "in"},
				config.HeaderArgsKey:  Params{"x": 1},
				ArgLimit:              3,
			},
			want: Params{
				"sort":   "-id",
				"filter": `[{"and":[{"name":"id","op":"in","val":[1,2]},{"name":"name","op":"eq","val":"red"}]}]`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.BuildParams(tt.limit, tt.args))
		})
	}
}

func TestDefaultPolicy_BuildParamsDoesNotMutateArgs(t *testing.T) {
	config, _ := newTestConfig(t, "http://localhost:5000")
	policy := NewDefaultPolicy(config)
	args := Params{"sort": "id", "name": "red"}

	policy.BuildParams(0, args)
	assert.Equal(t, Params{"sort": "id", "name": "red"}, args)
}

func TestDefaultPolicy_BuildHeaders(t *testing.T) {
	config, _ := newTestConfig(t, "http://localhost:5000", func(c *Config) { c.Token = "abc" })
	policy := NewDefaultPolicy(config)

	headers, rest := policy.BuildHeaders(Params{"name": "red", config.HeaderArgsKey: Params{"a": 1}})
	assert.Equal(t, "Bearer abc", headers.Get(HeaderAuthorizationToken))
	assert.Equal(t, Params{"name": "red"}, rest)
}

func TestDefaultPolicy_WireConversion(t *testing.T) {
	config, _ := newTestConfig(t, "http://localhost:5000")
	policy := NewDefaultPolicy(config)

	representation := Record{"attributes": Record{"name": "red"}}
	assert.Equal(t, Record{"data": representation}, policy.ToWire(representation))
	assert.Equal(t, Record{"data": "x"}, policy.ToWire(Record{"data": "x"}))

	payload := map[string]any{"data": map[string]any{"id": "1"}}
	assert.Equal(t, Record{"id": "1"}, policy.FromWire(payload))
	assert.Equal(t, Record{"id": "2"}, policy.FromWire(map[string]any{"id": "2"}))
	assert.Equal(t, Record{}, policy.FromWire("scalar"))
}

func TestDefaultPolicy_ListingExtraction(t *testing.T) {
	config, _ := newTestConfig(t, "http://localhost:5000")
	policy := NewDefaultPolicy(config)

	response := &Response{
		StatusCode: http.StatusOK,
		Body:       []byte(`{"data":[{"id":"1"},{"id":"2"}],"links":{"next":"http://x/factions?page[number]=2"},"meta":{"count":7}}`),
	}
	body, err := response.JSON()
	require.NoError(t, err)

	assert.Len(t, policy.ExtractList(body), 2)
	assert.Equal(t, "http://x/factions?page[number]=2", policy.ExtractNextLink(response))
	metadata := policy.ExtractMetadata(response)
	assert.Equal(t, float64(7), metadata["meta"].(Record)["count"])

	last := &Response{StatusCode: http.StatusOK, Body: []byte(`{"data":[],"links":{"next":null}}`)}
	assert.Equal(t, "", policy.ExtractNextLink(last))
	assert.Nil(t, policy.ExtractList("not a listing"))
}

func TestDefaultPolicy_LinkageEntry(t *testing.T) {
	config, _ := newTestConfig(t, "http://localhost:5000")
	policy := NewDefaultPolicy(config)

	assert.Equal(t, Record{"id": 1, "type": "unit"}, policy.LinkageEntry(1, "unit", nil))
	assert.Equal(t, Record{"id": 1, "type": DefaultTypeUndefined}, policy.LinkageEntry(1, "", Record{}))
	assert.Equal(t,
		Record{"id": 1, "type": "unit", "meta": Record{"a": 1}},
		policy.LinkageEntry(1, "unit", Record{"a": 1}),
	)
}
