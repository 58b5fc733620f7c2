package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/abhisek/algoquest/internal/store"
)

func fastRetry(attempts int) RetryConfig {
	return RetryConfig{MaxAttempts: attempts, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

func TestRetry(t *testing.T) {
	down := MockResponse{Err: &ErrProviderUnavailable{Err: errors.New("down")}}
	ok := MockResponse{Content: json.RawMessage(`{"ok":true}`)}
	invalid := MockResponse{Err: &ErrInvalidResponse{Err: errors.New("bad")}}

	tests := []struct {
		name      string
		responses []MockResponse
		attempts  int
		wantCalls int
		wantErr   bool
	}{
		{"first try", []MockResponse{ok}, 3, 1, false},
		{"transient then ok", []MockResponse{down, ok}, 3, 2, false},
		{"all fail", []MockResponse{down, down, down, ok}, 3, 3, true},
		{"invalid retried once", []MockResponse{invalid, ok}, 3, 2, false},
		{"invalid twice gives up", []MockResponse{invalid, invalid, ok}, 3, 2, true},
		{"max tokens not retried", []MockResponse{{Err: &ErrMaxTokensExceeded{}}, ok}, 3, 1, true},
		{"canceled not retried", []MockResponse{{Err: context.Canceled}, ok}, 3, 1, true},
		{"zero attempts means one", []MockResponse{down, ok}, 0, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.responses...)
			_, err := WithRetry(mock, fastRetry(tt.attempts)).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got := mock.CallCount(); got != tt.wantCalls {
				t.Errorf("calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestRetryHonorsContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &ErrRateLimit{RetryAfter: time.Hour}})
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := WithRetry(mock, fastRetry(3)).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
}

func TestBackoffBounds(t *testing.T) {
	r := &RetryProvider{config: RetryConfig{InitialWait: 100 * time.Millisecond, MaxWait: time.Second, Multiplier: 2}}
	for attempt, base := range []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond, time.Second, time.Second} {
		got := r.backoff(attempt, errors.New("x"))
		lo, hi := base*8/10, base*12/10
		if got < lo || got > hi {
			t.Errorf("backoff(%d) = %s, want within [%s, %s]", attempt, got, lo, hi)
		}
	}
	if got := r.backoff(0, &ErrRateLimit{RetryAfter: 3 * time.Second}); got != 3*time.Second {
		t.Errorf("rate-limit backoff = %s, want 3s", got)
	}
}

func TestValidateResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"valid", `{"explanation":"ok"}`, false},
		{"missing required", `{}`, true},
		{"extra property", `{"explanation":"ok","x":1}`, true},
		{"wrong type", `{"explanation":3}`, true},
		{"not json", `explanation`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateResponse(explainSchema, json.RawMessage(tt.raw))
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			var inv *ErrInvalidResponse
			if err != nil && !errors.As(err, &inv) {
				t.Errorf("err = %T, want *ErrInvalidResponse", err)
			}
		})
	}
	if err := validateResponse(nil, json.RawMessage(`anything`)); err != nil {
		t.Errorf("nil schema: %v", err)
	}
}

func TestMockProvider(t *testing.T) {
	mock := NewMockProvider()
	mock.Reply(map[string]string{"explanation": "first"})
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"wrong":true}`)})

	req := UserPrompt("sys", "one")
	req.Schema = explainSchema
	resp, err := mock.Generate(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Model != "mock" || resp.StopReason != stopEnd {
		t.Errorf("resp = %+v", resp)
	}

	_, err = mock.Generate(context.Background(), req)
	var inv *ErrInvalidResponse
	if !errors.As(err, &inv) {
		t.Errorf("err = %v, want schema violation", err)
	}

	_, err = mock.Generate(context.Background(), req)
	var un *ErrProviderUnavailable
	if !errors.As(err, &un) {
		t.Errorf("empty queue err = %v", err)
	}

	calls := mock.Calls()
	if len(calls) != 3 || calls[0].System != "sys" || calls[0].Messages[0].Content != "one" {
		t.Errorf("calls = %+v", calls)
	}
}

type recordingEvents struct {
	store.EventRepo
	got []store.LLMRequestEventData
	err error
}

func (r *recordingEvents) AppendLLMRequest(_ context.Context, d store.LLMRequestEventData) error {
	r.got = append(r.got, d)
	return r.err
}

func TestLoggingRecordsEvents(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`"hi"`), Usage: Usage{InputTokens: 7, OutputTokens: 3}},
		MockResponse{Err: errors.New("boom")},
	)
	events := &recordingEvents{}
	p := WithLogging(mock, ProviderMock, events, nil)

	ctx := WithPurpose(context.Background(), PurposeExplain)
	if _, err := p.Generate(ctx, Request{}); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Generate(context.Background(), Request{}); err == nil {
		t.Fatal("expected error")
	}

	if len(events.got) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events.got))
	}
	first, second := events.got[0], events.got[1]
	if !first.Success || first.Purpose != PurposeExplain || first.InputTokens != 7 || first.Provider != ProviderMock {
		t.Errorf("first = %+v", first)
	}
	if second.Success || second.ErrorMessage != "boom" || second.Purpose != "unknown" {
		t.Errorf("second = %+v", second)
	}
}

func TestLoggingSurvivesStoreFailure(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`"hi"`)})
	p := WithLogging(mock, ProviderMock, &recordingEvents{err: errors.New("disk full")}, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Errorf("Generate failed because logging failed: %v", err)
	}
}
