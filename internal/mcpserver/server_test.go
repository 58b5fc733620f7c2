package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/abhisek/algoquest/internal/cache"
	"github.com/abhisek/algoquest/internal/steps"
)

func newCallToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func TestServeRequiresConfiguredServer(t *testing.T) {
	var s *Server
	if err := s.Serve(); err == nil {
		t.Fatal("expected error")
	}
	if err := (&Server{}).Serve(); err == nil {
		t.Fatal("expected error")
	}
}

func TestListAlgorithms(t *testing.T) {
	s := New("test", nil)
	result, err := s.handleListAlgorithms(context.Background(), newCallToolRequest("list_algorithms", nil))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	list, ok := result.StructuredContent.(AlgorithmList)
	if !ok {
		t.Fatalf("expected AlgorithmList, got %T", result.StructuredContent)
	}
	if len(list.Algorithms) != len(steps.All()) {
		t.Fatalf("expected %d algorithms, got %d", len(steps.All()), len(list.Algorithms))
	}
}

func TestGenerateSteps(t *testing.T) {
	s := New("test", cache.NewMemory(4))
	result, err := s.handleGenerateSteps(context.Background(), newCallToolRequest("generate_steps", map[string]any{
		"algorithm": "binary-search",
		"data":      []any{1, 3, 5, 7, 9},
		"target":    9,
	}))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if result.IsError {
		t.Fatalf("unexpected error result: %+v", result.Content)
	}
	got, ok := result.StructuredContent.(StepsResult)
	if !ok {
		t.Fatalf("expected StepsResult, got %T", result.StructuredContent)
	}
	if !got.Outcome.Found || got.Outcome.Index != 4 {
		t.Fatalf("unexpected outcome %+v", got.Outcome)
	}
	if got.Steps != got.History.Len() {
		t.Fatalf("steps %d != history length %d", got.Steps, got.History.Len())
	}
}

func TestGenerateStepsSample(t *testing.T) {
	s := New("test", nil)
	result, err := s.handleGenerateSteps(context.Background(), newCallToolRequest("generate_steps", map[string]any{
		"algorithm": "selection-sort",
	}))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got := result.StructuredContent.(StepsResult)
	if got.Outcome.Kind != steps.OutcomeSorted {
		t.Fatalf("expected sorted outcome, got %q", got.Outcome.Kind)
	}
}

func TestExplainOutcome(t *testing.T) {
	s := New("test", nil)
	result, err := s.handleExplainOutcome(context.Background(), newCallToolRequest("explain_outcome", map[string]any{
		"algorithm": "linear-search",
		"data":      []any{5, 8, 12},
		"target":    100,
	}))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	got, ok := result.StructuredContent.(OutcomeResult)
	if !ok {
		t.Fatalf("expected OutcomeResult, got %T", result.StructuredContent)
	}
	if got.Outcome.Found {
		t.Fatal("expected not found")
	}
	if !strings.Contains(got.Summary, "did not find 100") {
		t.Fatalf("unexpected summary %q", got.Summary)
	}
}

func TestToolErrors(t *testing.T) {
	s := New("test", nil)
	tests := []struct {
		name string
		args map[string]any
	}{
		{"unknown algorithm", map[string]any{"algorithm": "bogo-sort"}},
		{"value out of range", map[string]any{"algorithm": "bubble-sort", "data": []any{1, 50000}}},
		{"target out of range", map[string]any{"algorithm": "linear-search", "data": []any{1}, "target": -20000}},
		{"unsorted binary search", map[string]any{"algorithm": "binary-search", "data": []any{9, 1}, "target": 1}},
		{"wrong data type", map[string]any{"algorithm": "bubble-sort", "data": "1,2,3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := s.handleGenerateSteps(context.Background(), newCallToolRequest("generate_steps", tt.args))
			if err != nil {
				t.Fatalf("expected nil error, got %v", err)
			}
			if result == nil || !result.IsError {
				t.Fatal("expected error result")
			}
		})
	}
}
