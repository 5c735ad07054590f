package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/bndr/gotabulate"
	"github.com/vmihailenco/msgpack/v5"
)

var empty = struct{}{}
var printableAttrs = map[string]struct{}{
	"id":    empty,
	"type":  empty,
	"name":  empty,
	"title": empty,
}

//  ######################################################
//              FUNCTION PARAMS
//  ######################################################

// Params represents a generic set of key-value arguments,
// used for constructing query strings, request bodies and generated function calls.
type Params map[string]any

// ToQuery serializes the Params into a URL-encoded query string.
func (pr *Params) ToQuery() string {
	return convertMapToQuery(*pr)
}

// Update merges another Params map into the original Params.
// Existing keys are overwritten.
func (pr *Params) Update(other Params) {
	if *pr == nil {
		*pr = make(Params, len(other))
	}
	for key, value := range other {
		(*pr)[key] = value
	}
}

// UpdateWithout merges another Params map into the original Params,
// skipping every key listed in `without`.
func (pr *Params) UpdateWithout(other Params, without []string) {
	if *pr == nil {
		*pr = make(Params, len(other))
	}
	for key, value := range other {
		if contains(without, key) {
			continue
		}
		(*pr)[key] = value
	}
}

// Without removes the specified keys from the Params map.
func (pr *Params) Without(keys ...string) {
	for _, key := range keys {
		delete(*pr, key)
	}
}

// Copy returns a shallow copy. A nil receiver yields an empty map.
func (pr Params) Copy() Params {
	out := make(Params, len(pr))
	for key, value := range pr {
		out[key] = value
	}
	return out
}

// Pop removes key and returns its value.
func (pr Params) Pop(key string) (any, bool) {
	value, ok := pr[key]
	if ok {
		delete(pr, key)
	}
	return value, ok
}

// GetString returns the value under key formatted as a string, or "" when absent.
func (pr Params) GetString(key string) string {
	value, ok := pr[key]
	if !ok || value == nil {
		return ""
	}
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", value)
}

// StringMap returns the value under key as a string to string mapping.
// Non-string values are formatted with %v.
func (pr Params) StringMap(key string) map[string]string {
	out := map[string]string{}
	switch typed := pr[key].(type) {
	case map[string]string:
		for k, v := range typed {
			out[k] = v
		}
	case map[string]any:
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
	case Params:
		for k, v := range typed {
			out[k] = fmt.Sprintf("%v", v)
		}
	}
	return out
}

// Record returns the value under key as a Record, or nil.
func (pr Params) Record(key string) Record {
	return asRecord(pr[key])
}

//  ######################################################
//              RETURN TYPES
//  ######################################################

// getPrintableAttrs returns a slice of keys to be printed from the Record
func getPrintableAttrs(r Record) []string {
	var attrs []string
	for key := range r {
		if _, ok := printableAttrs[key]; ok {
			attrs = append(attrs, key)
		}
	}
	sort.Strings(attrs)
	return attrs
}

// Renderable is implemented by Record and RecordSet for CLI display.
type Renderable interface {
	PrettyTable() string
	PrettyJson(indent ...string) string
}

// Record represents a single generic JSON object.
// Instance representations, response payloads and linkage entries are all Records.
type Record map[string]any

// RecordSet represents a list of Record objects, e.g. the items of a Cursor.
type RecordSet []Record

// Fill populates the exported fields of the given struct pointer using values
// from the Record via JSON marshaling based on the struct's `json` tags.
func (r Record) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a struct")
	}
	if val.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("container must point to a struct")
	}
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, container)
}

// Clone returns a deep copy of the Record.
// Integers come back as int64 and floats as float64.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	data, err := msgpack.Marshal(map[string]any(r))
	if err != nil {
		panic(fmt.Sprintf("failed to clone record: %v", err))
	}
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.UseLooseInterfaceDecoding(true)
	var out map[string]any
	if err = dec.Decode(&out); err != nil {
		panic(fmt.Sprintf("failed to clone record: %v", err))
	}
	return normalizeRecords(out).(map[string]any)
}

// PrettyTable prints a single Record as a table
func (r Record) PrettyTable() string {
	headers := []string{"attr", "value"}
	var rows [][]any
	if len(r) == 0 {
		return "<>"
	}
	for _, key := range getPrintableAttrs(r) {
		if val, ok := r[key]; ok && val != nil {
			rows = append(rows, []any{key, fmt.Sprintf("%v", val)})
		}
	}

	// Collect remaining attributes that are not in printableAttrs
	remainingKeys := make([]string, 0, len(r))
	for key, value := range r {
		if _, ok := printableAttrs[key]; !ok && value != nil {
			remainingKeys = append(remainingKeys, key)
		}
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		raw, _ := json.Marshal(r[key])
		rows = append(rows, []any{key, string(raw)})
	}
	t := gotabulate.Create(rows)
	t.SetHeaders(headers)
	t.SetAlign("left")
	t.SetWrapStrings(true)
	t.SetMaxCellSize(85)
	return fmt.Sprintf("\n%s", t.Render("grid"))
}

// PrettyJson prints the Record as JSON, optionally indented
func (r Record) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(r, "", indent[0])
	} else {
		b, err = json.Marshal(r)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

func (r Record) Empty() bool {
	return len(r) == 0
}

func (r Record) String() string {
	return r.PrettyTable()
}

// Fill populates the provided container slice with data from the RecordSet.
// The container must be a non-nil pointer to a slice of structs.
func (rs RecordSet) Fill(container any) error {
	val := reflect.ValueOf(container)
	if val.Kind() != reflect.Ptr || val.IsNil() {
		return fmt.Errorf("container must be a non-nil pointer to a slice")
	}
	if val.Elem().Kind() != reflect.Slice {
		return fmt.Errorf("container must point to a slice")
	}
	data, err := json.Marshal(rs)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, container)
}

// PrettyTable prints the full RecordSet by rendering each individual Record
func (rs RecordSet) PrettyTable() string {
	if len(rs) == 0 {
		return "[]"
	}
	var out strings.Builder
	out.WriteString("[\n")
	for i, record := range rs {
		out.WriteString(record.PrettyTable())
		if i < len(rs)-1 {
			out.WriteString("\n\n")
		}
	}
	out.WriteString("\n]")
	return out.String()
}

func (rs RecordSet) Empty() bool {
	return len(rs) == 0
}

// PrettyJson prints the RecordSet as JSON, optionally indented
func (rs RecordSet) PrettyJson(indent ...string) string {
	var b []byte
	var err error
	if len(indent) > 0 {
		b, err = json.MarshalIndent(rs, "", indent[0])
	} else {
		b, err = json.Marshal(rs)
	}
	if err != nil {
		return fmt.Sprintf("failed to marshal JSON: %v", err)
	}
	return string(b)
}

// decodeJSON parses a response body into generic JSON values.
// An empty body decodes to nil.
func decodeJSON(body []byte) (any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var value any
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil, err
	}
	return value, nil
}

// asRecord converts generic map values into a Record, returning nil for anything else.
func asRecord(value any) Record {
	switch typed := value.(type) {
	case Record:
		return typed
	case map[string]any:
		return typed
	case Params:
		return Record(typed)
	}
	return nil
}

// normalizeRecords rewrites nested Record and Params values as plain maps.
func normalizeRecords(value any) any {
	switch typed := value.(type) {
	case Record:
		return normalizeRecords(map[string]any(typed))
	case Params:
		return normalizeRecords(map[string]any(typed))
	case map[string]any:
		for key, val := range typed {
			typed[key] = normalizeRecords(val)
		}
		return typed
	case []any:
		for i, val := range typed {
			typed[i] = normalizeRecords(val)
		}
		return typed
	}
	return value
}
