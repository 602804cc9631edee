package assistant

import "github.com/neurotrack/neurotrack/internal/llm"

// HealthReportSchema is the structured output requested for report
// analysis.
var HealthReportSchema = &llm.Schema{
	Name:        "health-report",
	Description: "Short empathetic summary of tracked health data with one recommendation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"summary": map[string]any{
				"type":        "string",
				"description": "At most three sentences describing the current situation",
				"minLength":   1,
			},
			"recommendation": map[string]any{
				"type":        "string",
				"description": "One concrete, actionable suggestion",
				"minLength":   1,
			},
		},
		"required":             []any{"summary", "recommendation"},
		"additionalProperties": false,
	},
}
