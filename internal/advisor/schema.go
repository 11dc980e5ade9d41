package advisor

import "github.com/abhisek/coursematch/internal/schema"

// AdviceSchema is the structured output the model must return.
var AdviceSchema = schema.Definition{
	Name: "course-advice",
	Body: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "One encouraging sentence naming the strongest match (8-20 words)",
			},
			"summary": map[string]any{
				"type":        "string",
				"description": "3-5 sentences on how the student's traits connect to the top courses",
			},
			"next_steps": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2-4 concrete things the student can do this month",
			},
			"caveats": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "0-2 honest notes, e.g. grade requirements or a low-confidence result",
			},
		},
		"required":             []any{"headline", "summary", "next_steps", "caveats"},
		"additionalProperties": false,
	},
}
