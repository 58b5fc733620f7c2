// Package tutor asks an LLM to explain visualization steps and to hint at
// fixes for failing challenge solutions.
package tutor

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/llm"
	"github.com/abhisek/algoquest/internal/steps"
)

// ErrDisabled is returned when no provider is configured.
var ErrDisabled = errors.New("tutor is not configured")

const (
	maxTokens   = 512
	temperature = 0.3
)

// ExplainInput describes the step to explain.
type ExplainInput struct {
	Algorithm steps.Algorithm
	Frame     steps.Frame
	Previous  *steps.Frame
	Total     int
	Target    *int
}

// Explanation is the tutor's account of one step.
type Explanation struct {
	Step        int    `json:"-"`
	Explanation string `json:"explanation"`
	Next        string `json:"next"`
}

// HintInput describes a failing attempt.
type HintInput struct {
	Challenge content.Challenge
	Source    string
	Failures  []challenge.CaseResult
}

// Hint nudges the learner toward a fix.
type Hint struct {
	Hint    string `json:"hint"`
	Concept string `json:"concept"`
}

// Reply is the outcome of an asynchronous request.
type Reply struct {
	Explanation *Explanation
	Hint        *Hint
	Err         error
}

// Service wraps a provider. A Service with a nil provider is disabled and
// every call returns ErrDisabled.
type Service struct {
	provider llm.Provider

	mu      sync.Mutex
	gen     int
	pending *Reply
}

// New creates a Service. p may be nil.
func New(p llm.Provider) *Service {
	return &Service{provider: p}
}

// Enabled reports whether a provider is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.provider != nil
}

// ExplainStep asks for an explanation of in.Frame.
func (s *Service) ExplainStep(ctx context.Context, in ExplainInput) (*Explanation, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	req := llm.UserPrompt(explainSystemPrompt, buildExplainMessage(in))
	req.Schema = ExplanationSchema
	req.MaxTokens = maxTokens
	req.Temperature = temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeExplain), req)
	if err != nil {
		return nil, fmt.Errorf("explain step: %w", err)
	}
	var out Explanation
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse explanation: %w", err)
	}
	out.Step = in.Frame.Index
	return &out, nil
}

// Hint asks for a hint on a failing attempt.
func (s *Service) Hint(ctx context.Context, in HintInput) (*Hint, error) {
	if !s.Enabled() {
		return nil, ErrDisabled
	}
	req := llm.UserPrompt(hintSystemPrompt, buildHintMessage(in))
	req.Schema = HintSchema
	req.MaxTokens = maxTokens
	req.Temperature = temperature

	resp, err := s.provider.Generate(llm.WithPurpose(ctx, llm.PurposeHint), req)
	if err != nil {
		return nil, fmt.Errorf("challenge hint: %w", err)
	}
	var out Hint
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse hint: %w", err)
	}
	return &out, nil
}

// RequestExplanation runs ExplainStep in the background. Only one request
// is tracked; a newer request makes older replies stale and they are
// dropped.
func (s *Service) RequestExplanation(ctx context.Context, in ExplainInput) {
	s.request(ctx, func(ctx context.Context) Reply {
		e, err := s.ExplainStep(ctx, in)
		return Reply{Explanation: e, Err: err}
	})
}

// RequestHint runs Hint in the background, replacing any pending request.
func (s *Service) RequestHint(ctx context.Context, in HintInput) {
	s.request(ctx, func(ctx context.Context) Reply {
		h, err := s.Hint(ctx, in)
		return Reply{Hint: h, Err: err}
	})
}

// Consume returns the finished reply, if any, and clears the slot.
func (s *Service) Consume() (Reply, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == nil {
		return Reply{}, false
	}
	r := *s.pending
	s.pending = nil
	return r, true
}

// Cancel drops any in-flight or unconsumed reply.
func (s *Service) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.pending = nil
}

func (s *Service) request(ctx context.Context, run func(context.Context) Reply) {
	s.mu.Lock()
	s.gen++
	gen := s.gen
	s.pending = nil
	s.mu.Unlock()

	go func() {
		r := run(ctx)
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen == s.gen {
			s.pending = &r
		}
	}()
}
