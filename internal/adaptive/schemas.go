package adaptive

import "github.com/abhisek/coursematch/internal/schema"

// Response schemas are deliberately loose: they pin down the fields the
// controller relies on for control flow and leave advisory fields open.

var idSchema = map[string]any{"type": []any{"string", "integer"}}

func questionSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"question_id":   idSchema,
			"question_text": map[string]any{"type": "string", "minLength": 1},
			"category":      map[string]any{"type": []any{"string", "null"}},
			"options": map[string]any{
				"type":     "array",
				"minItems": 1,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"option_id":   idSchema,
						"option_text": map[string]any{"type": "string"},
					},
					"required": []any{"option_id", "option_text"},
				},
			},
		},
		"required": []any{"question_id", "question_text", "options"},
	}
}

func recommendationsSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"course_name":    map[string]any{"type": "string", "minLength": 1},
				"matched_traits": map[string]any{"type": []any{"array", "null"}},
			},
			"required": []any{"course_name"},
		},
	}
}

var roundSchema = map[string]any{"type": "integer", "minimum": 1}

var startSchema = schema.Definition{
	Name: "assessment-start",
	Body: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"session_id":    idSchema,
			"max_questions": map[string]any{"type": "integer", "minimum": 0},
			"min_questions": map[string]any{"type": "integer", "minimum": 0},
			"first_question": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"question": questionSchema(),
					"round":    roundSchema,
				},
				"required": []any{"question"},
			},
		},
		"required": []any{"session_id", "first_question"},
	},
}

var answerSchema = schema.Definition{
	Name: "assessment-answer",
	Body: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"is_complete":     map[string]any{"type": "boolean"},
			"current_round":   roundSchema,
			"next_question":   questionSchema(),
			"recommendations": recommendationsSchema(),
		},
		"required": []any{"is_complete"},
		"if": map[string]any{
			"properties": map[string]any{"is_complete": map[string]any{"const": true}},
		},
		"then": map[string]any{"required": []any{"recommendations"}},
		"else": map[string]any{"required": []any{"current_round", "next_question"}},
	},
}

var previousSchema = schema.Definition{
	Name: "assessment-previous",
	Body: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"current_round": roundSchema,
			"next_question": questionSchema(),
		},
		"required": []any{"current_round", "next_question"},
	},
}

var finishSchema = schema.Definition{
	Name: "assessment-finish",
	Body: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"success":         map[string]any{"type": "boolean"},
			"recommendations": recommendationsSchema(),
		},
		"required": []any{"recommendations"},
	},
}
