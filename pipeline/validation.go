package pipeline

import "fmt"

// FieldType is the recognized JSON-ish value kind a schema field expects.
type FieldType string

const (
	TypeString FieldType = "string"
	TypeNumber FieldType = "number"
	TypeBool   FieldType = "bool"
	TypeArray  FieldType = "array"
	TypeObject FieldType = "object"
)

// FieldSchema describes one recognized argument.
type FieldSchema struct {
	Name     string
	Type     FieldType
	Required bool
	Enum     []string // only checked for TypeString
}

// ToolSchema is the closed-form validation record for one tool: its
// recognized fields and whether extra, unrecognized fields are rejected.
type ToolSchema struct {
	Tool                 string
	Fields               []FieldSchema
	AdditionalProperties bool
}

var knownSeverities = []string{"critical", "high", "medium", "low", "info"}

// Schemas is the per-tool schema table implementing §4.F stage 3.
var Schemas = map[string]ToolSchema{
	"search_knowledge_base": {
		Tool: "search_knowledge_base",
		Fields: []FieldSchema{
			{Name: "query", Type: TypeString, Required: true},
			{Name: "max_results", Type: TypeNumber},
			{Name: "context", Type: TypeObject},
		},
		AdditionalProperties: false,
	},
	"search_runbooks": {
		Tool: "search_runbooks",
		Fields: []FieldSchema{
			{Name: "alert_type", Type: TypeString, Required: true},
			{Name: "severity", Type: TypeString, Required: true, Enum: knownSeverities},
			{Name: "affected_systems", Type: TypeArray, Required: true},
			{Name: "context", Type: TypeObject},
		},
		AdditionalProperties: false,
	},
	"get_escalation_path": {
		Tool: "get_escalation_path",
		Fields: []FieldSchema{
			{Name: "severity", Type: TypeString, Required: true, Enum: knownSeverities},
			{Name: "business_hours", Type: TypeBool, Required: true},
			{Name: "failed_attempts", Type: TypeNumber},
		},
		AdditionalProperties: false,
	},
	"get_procedure": {
		Tool: "get_procedure",
		Fields: []FieldSchema{
			{Name: "id", Type: TypeString, Required: true},
		},
		AdditionalProperties: true,
	},
	"get_decision_tree": {
		Tool: "get_decision_tree",
		Fields: []FieldSchema{
			{Name: "id", Type: TypeString, Required: true},
		},
		AdditionalProperties: true,
	},
	"list_sources": {
		Tool:                 "list_sources",
		Fields:               nil,
		AdditionalProperties: true,
	},
	"record_resolution_feedback": {
		Tool: "record_resolution_feedback",
		Fields: []FieldSchema{
			{Name: "incident_id", Type: TypeString, Required: true},
			{Name: "resolved", Type: TypeBool, Required: true},
			{Name: "notes", Type: TypeString},
		},
		AdditionalProperties: true,
	},
}

// Validate checks args against tool's schema and returns every violation
// found; an empty slice means args is valid. An unrecognized tool itself
// is a single violation rather than a panic, since the dispatcher (not
// this stage) is responsible for rejecting unknown tool names outright.
func Validate(tool string, args map[string]any) []string {
	schema, ok := Schemas[tool]
	if !ok {
		return []string{fmt.Sprintf("unrecognized tool %q", tool)}
	}

	var violations []string
	recognized := make(map[string]bool, len(schema.Fields))

	for _, f := range schema.Fields {
		recognized[f.Name] = true
		v, present := args[f.Name]
		if !present {
			if f.Required {
				violations = append(violations, fmt.Sprintf("%q is required", f.Name))
			}
			continue
		}
		if msg, ok := checkType(f, v); !ok {
			violations = append(violations, msg)
		}
	}

	if !schema.AdditionalProperties {
		for k := range args {
			if !recognized[k] {
				violations = append(violations, fmt.Sprintf("unrecognized field %q", k))
			}
		}
	}

	return violations
}

func checkType(f FieldSchema, v any) (string, bool) {
	switch f.Type {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return fmt.Sprintf("%q must be a string", f.Name), false
		}
		if len(f.Enum) > 0 && !contains(f.Enum, s) {
			return fmt.Sprintf("%q must be one of %v", f.Name, f.Enum), false
		}
	case TypeNumber:
		switch v.(type) {
		case float64, float32, int, int64:
		default:
			return fmt.Sprintf("%q must be a number", f.Name), false
		}
	case TypeBool:
		if _, ok := v.(bool); !ok {
			return fmt.Sprintf("%q must be a boolean", f.Name), false
		}
	case TypeArray:
		if _, ok := v.([]any); !ok {
			return fmt.Sprintf("%q must be an array", f.Name), false
		}
	case TypeObject:
		if _, ok := v.(map[string]any); !ok {
			return fmt.Sprintf("%q must be an object", f.Name), false
		}
	}
	return "", true
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
