package generation

import "openlearner_backend/internal/llm"

var outlineSchema = &llm.Schema{
	Name: "course-outline",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"icon":        map[string]any{"type": "string"},
			"chapters": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
			"levels": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "object"},
			},
		},
	},
}

var levelSchema = &llm.Schema{
	Name: "level-content",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"options": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "object"},
						},
					},
				},
			},
		},
	},
}
