// Package challenge runs a learner's Lua solution against a challenge's
// cases and reports per-case results with a diff of expected and actual
// output.
package challenge

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/Shopify/go-lua"

	"github.com/abhisek/algoquest/internal/content"
)

// EntryPoint is the global function every solution must define.
const EntryPoint = "solve"

// DefaultBudget bounds the VM instructions one case may execute.
const DefaultBudget = 5_000_000

const hookInterval = 1000

var errBudget = errors.New("instruction budget exceeded")

// CompileError reports source that could not be loaded or that does not
// define the entry point.
type CompileError struct {
	Msg string
}

func (e *CompileError) Error() string { return "compile: " + e.Msg }

// CaseResult is the outcome of one case.
type CaseResult struct {
	Index  int    `json:"index"`
	Input  []int  `json:"input"`
	Target *int   `json:"target,omitempty"`
	Want   string `json:"want"`
	Got    string `json:"got"`
	Passed bool   `json:"passed"`
	Err    string `json:"error,omitempty"`
	Diff   string `json:"diff,omitempty"`
}

// Result is the outcome of a full run.
type Result struct {
	ChallengeID string       `json:"challenge_id"`
	Cases       []CaseResult `json:"cases"`
	Passed      int          `json:"passed"`
	Total       int          `json:"total"`
}

// Solved reports whether every case passed.
func (r *Result) Solved() bool {
	return r.Total > 0 && r.Passed == r.Total
}

// Runner executes solutions. The zero value is not usable; call NewRunner.
type Runner struct {
	budget int
}

// Option configures a Runner.
type Option func(*Runner)

// WithBudget sets the per-case instruction budget.
func WithBudget(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.budget = n
		}
	}
}

// NewRunner returns a Runner with the default budget.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{budget: DefaultBudget}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run checks source against every case of ch. Each case gets a fresh Lua
// state with only the base, table, string and math libraries. A
// *CompileError is returned when the source does not load; runtime errors
// fail the case instead. Cancellation is checked between cases and while a
// case runs.
func (r *Runner) Run(ctx context.Context, ch content.Challenge, source string) (*Result, error) {
	if err := r.probe(ctx, source); err != nil {
		return nil, err
	}

	res := &Result{ChallengeID: ch.ID, Total: len(ch.Cases)}
	for i, c := range ch.Cases {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		cr := CaseResult{
			Index:  i,
			Input:  c.Input,
			Target: c.Target,
			Want:   Format(c.Want),
		}
		got, err := r.runCase(ctx, source, c)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return res, err
		case err != nil:
			cr.Err = err.Error()
		default:
			cr.Got = Format(got)
			cr.Passed = equal(c.Want, got)
		}
		if !cr.Passed {
			cr.Diff = Diff(cr.Want, cr.Got)
		} else {
			res.Passed++
		}
		res.Cases = append(res.Cases, cr)
	}
	return res, nil
}

// probe loads source once to surface syntax errors and a missing entry
// point before any case runs.
func (r *Runner) probe(ctx context.Context, source string) error {
	l := newState()
	stopped := r.guard(ctx, l)
	if err := lua.LoadString(l, source); err != nil {
		return &CompileError{Msg: luaMessage(err)}
	}
	if err := l.ProtectedCall(0, 0, 0); err != nil {
		if stop := stopped(); stop != nil {
			return stop
		}
		return &CompileError{Msg: luaMessage(err)}
	}
	l.Global(EntryPoint)
	defer l.Pop(1)
	if !l.IsFunction(-1) {
		return &CompileError{Msg: fmt.Sprintf("%s is not defined as a function", EntryPoint)}
	}
	return nil
}

func (r *Runner) runCase(ctx context.Context, source string, c content.Case) (any, error) {
	l := newState()
	stopped := r.guard(ctx, l)

	if err := lua.DoString(l, source); err != nil {
		return nil, runError(stopped(), err)
	}

	l.Global(EntryPoint)
	pushList(l, c.Input)
	nargs := 1
	if c.Target != nil {
		l.PushInteger(*c.Target)
		nargs = 2
	}
	if err := l.ProtectedCall(nargs, 1, 0); err != nil {
		return nil, runError(stopped(), err)
	}
	defer l.Pop(1)

	return toValue(l, -1, c.Want)
}

// guard installs a count hook that aborts the script when ctx ends or the
// instruction budget runs out. The returned func reports which happened.
func (r *Runner) guard(ctx context.Context, l *lua.State) func() error {
	executed := 0
	var stop error
	lua.SetDebugHook(l, func(l *lua.State, _ lua.Debug) {
		executed += hookInterval
		if err := ctx.Err(); err != nil {
			stop = err
		} else if executed > r.budget {
			stop = errBudget
		}
		if stop != nil {
			lua.Errorf(l, "%s", stop.Error())
		}
	}, lua.MaskCount, hookInterval)
	return func() error { return stop }
}

func runError(stop, err error) error {
	if stop != nil {
		return stop
	}
	return errors.New(luaMessage(err))
}

// newState opens a sandbox: no io, os, package or debug, and no way to
// load files.
func newState() *lua.State {
	l := lua.NewState()
	libs := []lua.RegistryFunction{
		{Name: "_G", Function: lua.BaseOpen},
		{Name: "table", Function: lua.TableOpen},
		{Name: "string", Function: lua.StringOpen},
		{Name: "math", Function: lua.MathOpen},
	}
	for _, lib := range libs {
		lua.Require(l, lib.Name, lib.Function, true)
		l.Pop(1)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require"} {
		l.PushNil()
		l.SetGlobal(name)
	}
	return l
}

func pushList(l *lua.State, values []int) {
	l.CreateTable(len(values), 0)
	for i, v := range values {
		l.PushInteger(v)
		l.RawSetInt(-2, i+1)
	}
}

// toValue converts the Lua value at idx into the shape of want: an int or
// a []int.
func toValue(l *lua.State, idx int, want any) (any, error) {
	idx = l.AbsIndex(idx)
	if _, isList := want.([]int); isList {
		if !l.IsTable(idx) {
			return nil, fmt.Errorf("expected a list, got %s", lua.TypeNameOf(l, idx))
		}
		n := l.RawLength(idx)
		out := make([]int, 0, n)
		for i := 1; i <= n; i++ {
			l.RawGetInt(idx, i)
			v, err := integerAt(l, -1)
			l.Pop(1)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", i, err)
			}
			out = append(out, v)
		}
		return out, nil
	}
	return integerAt(l, idx)
}

func integerAt(l *lua.State, idx int) (int, error) {
	if l.TypeOf(idx) != lua.TypeNumber {
		return 0, fmt.Errorf("expected a number, got %s", lua.TypeNameOf(l, idx))
	}
	f, _ := l.ToNumber(idx)
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("expected a whole number, got %v", f)
	}
	return int(f), nil
}

func equal(want, got any) bool {
	switch w := want.(type) {
	case int:
		g, ok := got.(int)
		return ok && g == w
	case []int:
		g, ok := got.([]int)
		return ok && slices.Equal(w, g)
	}
	return false
}

// Format renders a case value the way results display it.
func Format(v any) string {
	switch t := v.(type) {
	case int:
		return strconv.Itoa(t)
	case []int:
		parts := make([]string, len(t))
		for i, n := range t {
			parts[i] = strconv.Itoa(n)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}

func luaMessage(err error) string {
	msg := err.Error()
	// go-lua prefixes chunk names like [string "..."]:3:; keep the line.
	if i := strings.Index(msg, "]:"); i >= 0 && strings.HasPrefix(msg, "[string") {
		return "line " + msg[i+2:]
	}
	return msg
}
