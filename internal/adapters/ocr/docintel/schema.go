package docintel

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// resultSchema describe lo mínimo que necesitamos de un resultado de análisis:
// documents[].fields con content/confidence y tablas como valueArray de valueObject.
const resultSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"definitions": {
		"confidence": {"type": ["number", "null"], "minimum": 0, "maximum": 1},
		"cell": {
			"type": ["object", "null"],
			"properties": {
				"content": {"type": "string"},
				"confidence": {"$ref": "#/definitions/confidence"}
			}
		},
		"field": {
			"type": ["object", "null"],
			"properties": {
				"type": {"type": "string"},
				"content": {"type": "string"},
				"confidence": {"$ref": "#/definitions/confidence"},
				"valueArray": {
					"type": "array",
					"items": {
						"type": "object",
						"properties": {
							"valueObject": {
								"type": ["object", "null"],
								"additionalProperties": {"$ref": "#/definitions/cell"}
							}
						}
					}
				}
			}
		},
		"analyzeResult": {
			"type": "object",
			"required": ["documents"],
			"properties": {
				"modelId": {"type": "string"},
				"documents": {
					"type": "array",
					"items": {
						"type": "object",
						"required": ["fields"],
						"properties": {
							"docType": {"type": "string"},
							"fields": {
								"type": "object",
								"additionalProperties": {"$ref": "#/definitions/field"}
							}
						}
					}
				}
			}
		}
	},
	"anyOf": [
		{
			"type": "object",
			"required": ["analyzeResult"],
			"properties": {
				"status": {"type": "string"},
				"analyzeResult": {"$ref": "#/definitions/analyzeResult"}
			}
		},
		{"$ref": "#/definitions/analyzeResult"}
	]
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func loadSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("analyze_result.json", strings.NewReader(resultSchema)); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile("analyze_result.json")
		if schemaErr != nil {
			schemaErr = fmt.Errorf("compile schema: %w", schemaErr)
		}
	})
	return compiledSchema, schemaErr
}

// validateResult comprueba el JSON crudo contra resultSchema.
func validateResult(raw []byte) error {
	schema, err := loadSchema()
	if err != nil {
		return err
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("unmarshal data: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("json does not match schema: %w", err)
	}
	return nil
}
