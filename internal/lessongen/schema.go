package lessongen

import "github.com/thanida/engbee/internal/llm"

// BatchSchema defines the JSON schema for one generator response: a batch of
// candidate sentences with Thai translations.
var BatchSchema = &llm.Schema{
	Name:        "sentence-batch",
	Description: "A batch of English practice sentences with Thai translations",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"items": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"description": "Item kind marker; always \"s\" for sentence drills",
						},
						"en": map[string]any{
							"type":        "string",
							"description": "The English sentence, plain ASCII",
						},
						"th": map[string]any{
							"type":        "string",
							"description": "Polite Thai translation",
						},
					},
					"required": []any{"en", "th"},
				},
				"description": "Generated candidate sentences",
			},
		},
		"required": []any{"items"},
	},
}

// batchOutput is the raw generator response before candidate evaluation.
type batchOutput struct {
	Items []batchItem `json:"items"`
}

type batchItem struct {
	Type string `json:"type"`
	En   string `json:"en"`
	Th   string `json:"th"`
}
