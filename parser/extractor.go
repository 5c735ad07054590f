package parser

import (
	"fmt"

	"github.com/jinzhu/inflection"

	"github.com/vast-data/go-openapi-models/core"
	"github.com/vast-data/go-openapi-models/openapi_schema"
)

// ExtractAttributes walks path into schema and maps every property found there
// to its attribute type. Undeclared or unsupported types map to core.AttributeUnknown.
func ExtractAttributes(schema openapi_schema.Document, path []string) map[string]core.AttributeType {
	properties := openapi_schema.Follow(schema, path...)
	attributes := make(map[string]core.AttributeType, len(properties))
	for name := range properties {
		property := openapi_schema.Follow(properties, name)
		attributes[name] = core.AttributeTypeOf(openapi_schema.GetSchemaType(property))
	}
	return attributes
}

// ExtractRelationships walks path into schema and categorizes every relationship found there.
func ExtractRelationships(schema openapi_schema.Document, path []string, cfg *core.Config) (map[string]core.Cardinality, error) {
	properties := openapi_schema.Follow(schema, path...)
	relationships := make(map[string]core.Cardinality, len(properties))
	for name := range properties {
		cardinality, err := CategorizeRelationship(name, openapi_schema.Follow(properties, name), cfg)
		if err != nil {
			return nil, err
		}
		relationships[name] = cardinality
	}
	return relationships, nil
}

// CategorizeRelationship descends through single-property object layers
// until it reaches an array (many) or any other type (one).
// An object layer with zero or several properties falls back to the plural form of name.
func CategorizeRelationship(name string, schema openapi_schema.Document, cfg *core.Config) (core.Cardinality, error) {
	for {
		if !openapi_schema.HasType(schema) {
			return "", &core.ParserError{
				Message: fmt.Sprintf("unable to access key `type` when parsing the `%s` relationship. Is your JSON Schema malformed?", name),
			}
		}
		switch {
		case openapi_schema.IsObject(schema):
			properties := openapi_schema.Properties(schema)
			if len(properties) != 1 {
				cfg.Warn(core.ParserWarning, name, fmt.Sprintf(
					"unable to discern relationship type for %s. Defaulting to inflection categorization", name))
				return cardinalityByName(name), nil
			}
			for key := range properties {
				schema = openapi_schema.Follow(properties, key)
			}
		case openapi_schema.IsArray(schema):
			return core.CardinalityMany, nil
		default:
			return core.CardinalityOne, nil
		}
	}
}

func cardinalityByName(name string) core.Cardinality {
	if inflection.Singular(name) == name {
		return core.CardinalityOne
	}
	return core.CardinalityMany
}
