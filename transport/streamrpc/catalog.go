package streamrpc

import "github.com/opsknowledge/retrieval-core/pipeline"

// toolDescriptions gives each tool name a one-line description for the
// tools/list catalog; the JSON schema itself is derived mechanically from
// pipeline.Schemas so the two never drift apart.
var toolDescriptions = map[string]string{
	"search_knowledge_base":      "Search the knowledge base for articles matching a free-text query.",
	"search_runbooks":            "Find runbooks matching an alert type, severity, and affected systems.",
	"get_decision_tree":          "Fetch the decision tree for a given id.",
	"get_procedure":              "Fetch (or, via /execute, run) the procedure with the given id.",
	"get_escalation_path":        "Resolve the escalation path for a severity, business-hours flag, and failed-attempt count.",
	"list_sources":               "List every configured knowledge source and its health.",
	"record_resolution_feedback": "Record whether an incident was resolved using the retrieved material.",
}

// catalog builds the tools/list response from pipeline.Schemas, the single
// source of truth for each tool's recognized arguments.
func catalog() []Tool {
	tools := make([]Tool, 0, len(pipeline.Schemas))
	for name, schema := range pipeline.Schemas {
		tools = append(tools, Tool{
			Name:        name,
			Description: toolDescriptions[name],
			InputSchema: toJSONSchema(schema),
		})
	}
	return tools
}

func toJSONSchema(schema pipeline.ToolSchema) map[string]any {
	properties := map[string]any{}
	var required []string

	for _, f := range schema.Fields {
		prop := map[string]any{"type": jsonSchemaType(f.Type)}
		if len(f.Enum) > 0 {
			enum := make([]any, len(f.Enum))
			for i, v := range f.Enum {
				enum[i] = v
			}
			prop["enum"] = enum
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	out := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": schema.AdditionalProperties,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func jsonSchemaType(t pipeline.FieldType) string {
	switch t {
	case pipeline.TypeString:
		return "string"
	case pipeline.TypeNumber:
		return "number"
	case pipeline.TypeBool:
		return "boolean"
	case pipeline.TypeArray:
		return "array"
	case pipeline.TypeObject:
		return "object"
	default:
		return "string"
	}
}
