package catalog

import "github.com/abhisek/naturepower/internal/schema"

var lessonsSchema = schema.Schema{
	Name: "catalog-lessons",
	Definition: `{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id":           {"type": "string", "pattern": "^L[0-9]+$"},
				"title":        {"type": "string", "minLength": 1},
				"badge":        {"type": "string"},
				"time_minutes": {"type": "integer", "minimum": 0},
				"subjects":     {"type": "array", "items": {"type": "string"}}
			}
		}
	}`,
}

var badgesSchema = schema.Schema{
	Name: "catalog-badges",
	Definition: `{
		"type": "array",
		"minItems": 1,
		"items": {
			"type": "object",
			"required": ["id", "title"],
			"properties": {
				"id":      {"type": "string", "minLength": 1},
				"title":   {"type": "string", "minLength": 1},
				"icon":    {"type": "string"},
				"caption": {"type": "string"}
			}
		}
	}`,
}

var glossarySchema = schema.Schema{
	Name: "catalog-glossary",
	Definition: `{
		"type": "object",
		"required": ["terms"],
		"properties": {
			"terms": {"type": "object", "additionalProperties": {"type": "string"}}
		}
	}`,
}
