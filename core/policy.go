package core

import (
	"encoding/json"
	"net/http"
)

// Policy translates between generated code and a concrete API dialect:
// how headers and query parameters are built and where data lives inside payloads.
type Policy interface {
	// BuildHeaders returns request headers and the arguments with header-only keys removed.
	BuildHeaders(args Params) (http.Header, Params)
	// BuildParams returns the query parameters of the first page of a listing.
	// A limit of 0 means no limit.
	BuildParams(limit int, args Params) Params
	// BuildFilters converts attribute assignments into filter parameters.
	BuildFilters(ops map[string]string, args Params) Params
	// ToWire converts an instance representation into a request payload.
	ToWire(representation Record) any
	// FromWire converts a response payload into an instance representation.
	FromWire(payload any) Record
	// ExtractList returns the entity payloads of a listing response body.
	ExtractList(body any) []any
	// ExtractNextLink returns the URL of the next page, or "" on the last page.
	ExtractNextLink(response *Response) string
	// ExtractMetadata returns the metadata of a listing response.
	ExtractMetadata(response *Response) Record
	// LinkageEntry builds the entry stored in a relationship region for a related id.
	LinkageEntry(id any, typ string, meta Record) Record
}

// DefaultPolicy implements the JSON:API conventions used by flask-rest-jsonapi backends.
type DefaultPolicy struct {
	config *Config
}

func NewDefaultPolicy(config *Config) *DefaultPolicy {
	return &DefaultPolicy{config: config}
}

type filterClause struct {
	Name string `json:"name"`
	Op   string `json:"op"`
	Val  any    `json:"val"`
}

func (p *DefaultPolicy) BuildHeaders(args Params) (http.Header, Params) {
	rest := args.Copy()
	rest.Without(p.config.HeaderArgsKey)
	headers := make(http.Header)
	if p.config.Authenticator != nil {
		p.config.Authenticator.SetAuthHeader(headers)
	}
	return headers, rest
}

// BuildParams pulls every key listed in Config.ParamsArgs out as a plain parameter,
// turns the remaining arguments into filters and sets page[size] from limit.
func (p *DefaultPolicy) BuildParams(limit int, args Params) Params {
	rest := args.Copy()
	rest.Without(p.config.HeaderArgsKey, ArgLimit)
	ops := rest.StringMap(ArgFilteringArguments)
	rest.Without(ArgFilteringArguments)

	params := Params{}
	for _, key := range p.config.ParamsArgs {
		if value, ok := rest.Pop(key); ok {
			params[key] = value
		}
	}
	params.Update(p.BuildFilters(ops, rest))
	if limit > 0 {
		params["page[size]"] = limit
	}
	return params
}

// BuildFilters renders {"filter": "[{\"and\": [{name, op, val}, ...]}]"}.
// Attributes without an explicit operation use "eq".
func (p *DefaultPolicy) BuildFilters(ops map[string]string, args Params) Params {
	clauses := make([]filterClause, 0, len(args))
	for _, name := range sortedKeys(args) {
		op, ok := ops[name]
		if !ok || op == "" {
			op = DefaultFilterOperation
		}
		clauses = append(clauses, filterClause{Name: name, Op: op, Val: args[name]})
	}
	raw, err := json.Marshal([]map[string][]filterClause{{"and": clauses}})
	if err != nil {
		panic(err)
	}
	return Params{"filter": string(raw)}
}

func (p *DefaultPolicy) ToWire(representation Record) any {
	if data, ok := representation["data"]; ok {
		return Record{"data": data}
	}
	return Record{"data": representation}
}

func (p *DefaultPolicy) FromWire(payload any) Record {
	record := asRecord(payload)
	if record == nil {
		return Record{}
	}
	if data := asRecord(record["data"]); data != nil {
		return data
	}
	return record
}

func (p *DefaultPolicy) ExtractList(body any) []any {
	record := asRecord(body)
	if record == nil {
		return nil
	}
	list, _ := record["data"].([]any)
	return list
}

func (p *DefaultPolicy) ExtractNextLink(response *Response) string {
	body, err := response.Record()
	if err != nil {
		return ""
	}
	next, _ := asRecord(body["links"])["next"].(string)
	return next
}

func (p *DefaultPolicy) ExtractMetadata(response *Response) Record {
	body, err := response.Record()
	if err != nil {
		body = Record{}
	}
	meta := asRecord(body["meta"])
	if meta == nil {
		meta = Record{}
	}
	links := asRecord(body["links"])
	if links == nil {
		links = Record{}
	}
	return Record{"meta": meta, "links": links}
}

func (p *DefaultPolicy) LinkageEntry(id any, typ string, meta Record) Record {
	if typ == "" {
		typ = DefaultTypeUndefined
	}
	entry := Record{"id": id, "type": typ}
	if len(meta) > 0 {
		entry["meta"] = meta
	}
	return entry
}
