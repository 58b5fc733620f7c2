package tutor

import "github.com/abhisek/algoquest/internal/llm"

// ExplanationSchema is the structured output of ExplainStep.
var ExplanationSchema = &llm.Schema{
	Name:        "step-explanation",
	Description: "A short explanation of one algorithm step",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":        "string",
				"description": "What the algorithm is doing at this step and why (2-4 sentences)",
			},
			"next": map[string]any{
				"type":        "string",
				"description": "What the learner should expect in the next step (1 sentence)",
			},
		},
		"required":             []any{"explanation", "next"},
		"additionalProperties": false,
	},
}

// HintSchema is the structured output of Hint.
var HintSchema = &llm.Schema{
	Name:        "challenge-hint",
	Description: "A nudge toward fixing a failing challenge solution",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"hint": map[string]any{
				"type":        "string",
				"description": "A hint that points at the mistake without giving the full solution (1-3 sentences)",
			},
			"concept": map[string]any{
				"type":        "string",
				"description": "The concept the learner should revisit, in a few words",
			},
		},
		"required":             []any{"hint", "concept"},
		"additionalProperties": false,
	},
}
