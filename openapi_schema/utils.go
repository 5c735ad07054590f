package openapi_schema

import (
	"fmt"
	"sort"
)

// JSON-Schema primitive type names.
const (
	TypeString  = "string"
	TypeNumber  = "number"
	TypeInteger = "integer"
	TypeBoolean = "boolean"
	TypeArray   = "array"
	TypeObject  = "object"
)

// GetSchemaType returns the declared "type" of the schema.
// Multi-type declarations (["string", "null"]) report their first non-null entry.
func GetSchemaType(schema Document) string {
	switch typed := schema["type"].(type) {
	case string:
		return typed
	case []any:
		for _, entry := range typed {
			if s, ok := entry.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

// HasType reports whether the schema declares a "type" key at all.
func HasType(schema Document) bool {
	_, ok := schema["type"]
	return ok
}

// IsObject returns true if the given schema represents an object type
func IsObject(schema Document) bool {
	return GetSchemaType(schema) == TypeObject
}

// IsArray returns true if the given schema represents an array type
func IsArray(schema Document) bool {
	return GetSchemaType(schema) == TypeArray
}

// IsPrimitive returns true if the given schema represents a primitive type
// (string, integer, number, or boolean).
func IsPrimitive(schema Document) bool {
	switch GetSchemaType(schema) {
	case TypeString, TypeInteger, TypeNumber, TypeBoolean:
		return true
	default:
		return false
	}
}

// IsEmptySchema returns true if the schema is nil or carries no constraints
func IsEmptySchema(schema Document) bool {
	if len(schema) == 0 {
		return true
	}
	for _, key := range []string{"type", "properties", "items", "allOf", "oneOf", "anyOf", "required", "enum", "$ref"} {
		if _, ok := schema[key]; ok {
			return false
		}
	}
	return true
}

// Properties returns the "properties" mapping of an object schema.
func Properties(schema Document) Document {
	return Follow(schema, "properties")
}

// PropertyNames returns the sorted property names of an object schema.
func PropertyNames(schema Document) []string {
	props := Properties(schema)
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CompareSchemaValues compares two schemas by type and shape and returns a description of any differences.
// Returns an empty string and true if schemas match, or an error message and false if they differ.
func CompareSchemaValues(a, b Document) (string, bool) {
	if a == nil || b == nil {
		if len(a) == len(b) {
			return "", true
		}
		return "One schema is nil while the other is not", false
	}

	typeA := GetSchemaType(a)
	typeB := GetSchemaType(b)
	if typeA != typeB {
		return fmt.Sprintf("Type mismatch: %q vs %q", typeA, typeB), false
	}

	if typeA == TypeArray {
		msg, ok := CompareSchemaValues(Follow(a, "items"), Follow(b, "items"))
		if !ok {
			return fmt.Sprintf("Array item mismatch: %s", msg), false
		}
		return "", true
	}

	if typeA == TypeObject {
		propsA, propsB := Properties(a), Properties(b)
		if len(propsA) != len(propsB) {
			return fmt.Sprintf("Object property count mismatch: %d vs %d", len(propsA), len(propsB)), false
		}
		for key := range propsA {
			if _, ok := propsB[key]; !ok {
				return fmt.Sprintf("Property %q missing in one schema", key), false
			}
			msg, ok := CompareSchemaValues(Follow(propsA, key), Follow(propsB, key))
			if !ok {
				return fmt.Sprintf("Property %q mismatch: %s", key, msg), false
			}
		}
	}

	return "", true
}
