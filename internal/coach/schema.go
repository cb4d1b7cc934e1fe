package coach

import "github.com/abhisek/mathpace/internal/llm"

// Focus areas the coach may point at.
const (
	FocusAdd      = "add"
	FocusSub      = "sub"
	FocusMul      = "mul"
	FocusDiv      = "div"
	FocusSpeed    = "speed"
	FocusAccuracy = "accuracy"
	FocusNone     = "none"
)

// AdviceSchema is the structured output of one advice call.
var AdviceSchema = &llm.Schema{
	Name:        "session-advice",
	Description: "Short end-of-session coaching advice for a young learner",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"headline": map[string]any{
				"type":        "string",
				"description": "Encouraging headline (2-6 words)",
			},
			"advice": map[string]any{
				"type":        "string",
				"description": "Two or three sentences of concrete, kind advice for the next session",
			},
			"focus": map[string]any{
				"type":        "string",
				"description": "The one area to practice next",
				"enum": []any{
					FocusAdd, FocusSub, FocusMul, FocusDiv,
					FocusSpeed, FocusAccuracy, FocusNone,
				},
			},
		},
		"required":             []any{"headline", "advice", "focus"},
		"additionalProperties": false,
	},
}
