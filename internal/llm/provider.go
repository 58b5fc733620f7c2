// Package llm is a small provider abstraction over the Anthropic, OpenAI
// and Gemini SDKs, with retry and request logging decorators.
package llm

import (
	"context"
	"encoding/json"
)

// Provider generates one completion per call.
type Provider interface {
	// Generate sends req and returns the completion. When req.Schema is
	// set the provider asks for structured output and Content is JSON
	// that has been validated against the schema.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID names the configured model.
	ModelID() string
}

// Request is a single-turn or multi-turn prompt.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

// Message is one conversation turn.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// UserPrompt builds a Request with a system prompt and one user message.
func UserPrompt(system, prompt string) Request {
	return Request{
		System:   system,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Schema is the JSON Schema a structured response must satisfy. Name is
// kebab-case and doubles as the tool or schema name sent to providers.
type Schema struct {
	Name        string
	Description string
	Definition  map[string]any
}

// Response is a completion.
type Response struct {
	// Content is validated JSON when the request carried a Schema, raw
	// text otherwise.
	Content json.RawMessage
	Usage   Usage
	Model   string

	// StopReason is "end" or "max_tokens".
	StopReason string
}

// Decode unmarshals a structured response into v.
func (r *Response) Decode(v any) error {
	return json.Unmarshal(r.Content, v)
}

// Usage is the token accounting for one request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

const (
	stopEnd       = "end"
	stopMaxTokens = "max_tokens"
)
