package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

var explainSchema = &Schema{
	Name: "step-explanation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string"},
		},
		"required":             []any{"explanation"},
		"additionalProperties": false,
	},
}

func serve(t *testing.T, status int, body any) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func anthropicAt(t *testing.T, url string) *AnthropicProvider {
	t.Helper()
	p, err := NewAnthropicProvider(AnthropicConfig{APIKey: "test-key", Model: "claude-haiku"},
		option.WithBaseURL(url), option.WithMaxRetries(0))
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func openaiAt(t *testing.T, url string) *OpenAIProvider {
	t.Helper()
	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "test-key", Model: "gpt-4o-mini", BaseURL: url + "/v1"})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func anthropicMessage(text, stop string) map[string]any {
	return map[string]any{
		"id":          "msg_test",
		"type":        "message",
		"role":        "assistant",
		"content":     []map[string]any{{"type": "text", "text": text}},
		"model":       "claude-haiku-4-5-20251001",
		"stop_reason": stop,
		"usage":       map[string]any{"input_tokens": 50, "output_tokens": 30},
	}
}

func openaiCompletion(text, finish string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": 1234567890,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": text},
			"finish_reason": finish,
		}},
		"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
	}
}

func TestProvidersStructuredOutput(t *testing.T) {
	const answer = `{"explanation":"14 and 7 swap because 14 > 7."}`
	providers := map[string]Provider{
		"anthropic": anthropicAt(t, serve(t, http.StatusOK, anthropicMessage(answer, "end_turn"))),
		"openai":    openaiAt(t, serve(t, http.StatusOK, openaiCompletion(answer, "stop"))),
	}
	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			req := UserPrompt("You explain sorting.", "Why swap?")
			req.Schema = explainSchema
			resp, err := p.Generate(context.Background(), req)
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			var out struct{ Explanation string }
			if err := resp.Decode(&out); err != nil {
				t.Fatal(err)
			}
			if out.Explanation == "" || resp.StopReason != stopEnd || resp.Usage.InputTokens == 0 {
				t.Errorf("resp = %+v", resp)
			}
		})
	}
}

func TestProvidersPlainText(t *testing.T) {
	p := openaiAt(t, serve(t, http.StatusOK, openaiCompletion("just text", "stop")))
	resp, err := p.Generate(context.Background(), UserPrompt("", "hi"))
	if err != nil {
		t.Fatal(err)
	}
	if got := string(resp.Content); got != `"just text"` {
		t.Errorf("content = %s, want a JSON string", got)
	}
}

func TestProvidersRejectInvalidStructuredOutput(t *testing.T) {
	p := anthropicAt(t, serve(t, http.StatusOK, anthropicMessage(`{"nope":1}`, "end_turn")))
	req := UserPrompt("", "x")
	req.Schema = explainSchema
	_, err := p.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Fatalf("err = %T %v, want *ErrInvalidResponse", err, err)
	}
}

func TestProvidersTruncated(t *testing.T) {
	p := openaiAt(t, serve(t, http.StatusOK, openaiCompletion(`{"explanation":"cut`, "length")))
	req := UserPrompt("", "x")
	req.Schema = explainSchema
	_, err := p.Generate(context.Background(), req)
	var mt *ErrMaxTokensExceeded
	if !errors.As(err, &mt) {
		t.Fatalf("err = %T %v, want *ErrMaxTokensExceeded", err, err)
	}
}

func TestProvidersErrorMapping(t *testing.T) {
	anthropicErr := func(kind string) map[string]any {
		return map[string]any{"type": "error", "error": map[string]any{"type": kind, "message": "nope"}}
	}
	openaiErr := map[string]any{"error": map[string]any{"type": "x", "message": "nope"}}

	tests := []struct {
		name      string
		provider  func(t *testing.T) Provider
		rateLimit bool
	}{
		{"anthropic 429", func(t *testing.T) Provider {
			return anthropicAt(t, serve(t, http.StatusTooManyRequests, anthropicErr("rate_limit_error")))
		}, true},
		{"anthropic 500", func(t *testing.T) Provider {
			return anthropicAt(t, serve(t, http.StatusInternalServerError, anthropicErr("api_error")))
		}, false},
		{"openai 429", func(t *testing.T) Provider {
			return openaiAt(t, serve(t, http.StatusTooManyRequests, openaiErr))
		}, true},
		{"openai 503", func(t *testing.T) Provider {
			return openaiAt(t, serve(t, http.StatusServiceUnavailable, openaiErr))
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.provider(t).Generate(context.Background(), UserPrompt("", "x"))
			var rl *ErrRateLimit
			var un *ErrProviderUnavailable
			switch {
			case tt.rateLimit && !errors.As(err, &rl):
				t.Errorf("err = %T %v, want *ErrRateLimit", err, err)
			case !tt.rateLimit && !errors.As(err, &un):
				t.Errorf("err = %T %v, want *ErrProviderUnavailable", err, err)
			}
		})
	}
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		models map[string]string
		in     string
		want   string
	}{
		{anthropicModels, "claude-haiku", "claude-haiku-4-5-20251001"},
		{anthropicModels, "claude-opus-4-1", "claude-opus-4-1"},
		{geminiModels, "gemini-flash", "gemini-2.5-flash"},
	}
	for _, tt := range tests {
		if got := resolveModel(tt.in, tt.models); got != tt.want {
			t.Errorf("resolveModel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGeminiSchema(t *testing.T) {
	s := geminiSchema(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"explanation": map[string]any{"type": "string", "description": "why"},
			"tags":        map[string]any{"type": "array", "items": map[string]any{"type": "string", "enum": []any{"compare", "swap"}}},
			"step":        map[string]any{"type": "integer"},
		},
		"required": []any{"explanation"},
	})
	if s.Type != genai.TypeObject || len(s.Properties) != 3 {
		t.Fatalf("schema = %+v", s)
	}
	if s.Properties["explanation"].Description != "why" {
		t.Error("description lost")
	}
	if s.Properties["step"].Type != genai.TypeInteger {
		t.Error("integer type lost")
	}
	tags := s.Properties["tags"]
	if tags.Items == nil || len(tags.Items.Enum) != 2 {
		t.Errorf("tags = %+v", tags)
	}
	if len(s.Required) != 1 || s.Required[0] != "explanation" {
		t.Errorf("required = %v", s.Required)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		cfg     Config
		wantErr bool
	}{
		{Config{}, false},
		{Config{Provider: ProviderMock}, false},
		{Config{Provider: ProviderAnthropic}, true},
		{Config{Provider: ProviderAnthropic, Anthropic: AnthropicConfig{APIKey: "k"}}, false},
		{Config{Provider: ProviderOpenRouter, OpenAI: OpenAIConfig{APIKey: "k"}}, false},
		{Config{Provider: ProviderGemini}, true},
		{Config{Provider: "llama"}, true},
	}
	for _, tt := range tests {
		if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
			t.Errorf("Validate(%q) err = %v, wantErr %v", tt.cfg.Provider, err, tt.wantErr)
		}
	}
}
