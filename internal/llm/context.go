package llm

import "context"

type purposeKey struct{}

// Request purposes recorded with each LLM event.
const (
	PurposeExplain = "explain"
	PurposeHint    = "hint"
)

// WithPurpose labels requests made with ctx for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok {
		return v
	}
	return "unknown"
}
