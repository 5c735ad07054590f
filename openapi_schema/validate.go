package openapi_schema

import (
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// ValidatePayload checks payload against a JSON-Schema shaped document.
// An empty schema accepts everything.
func ValidatePayload(payload any, schema Document) error {
	if IsEmptySchema(schema) {
		return nil
	}
	typed, err := ToSchema(schema)
	if err != nil {
		return err
	}
	value, err := toJSONValue(payload)
	if err != nil {
		return fmt.Errorf("payload is not JSON serializable: %w", err)
	}
	return typed.VisitJSON(value)
}

// ToSchema converts a generic schema document into a kin-openapi Schema.
func ToSchema(schema Document) (*openapi3.Schema, error) {
	raw, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	typed := openapi3.NewSchema()
	if err = json.Unmarshal(raw, typed); err != nil {
		return nil, fmt.Errorf("invalid schema: %w", err)
	}
	return typed, nil
}

func toJSONValue(payload any) (any, error) {
	if payload == nil {
		return map[string]any{}, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var value any
	if err = json.Unmarshal(raw, &value); err != nil {
		return nil, err
	}
	return value, nil
}
