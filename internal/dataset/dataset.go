// Package dataset validates user-entered numbers before they reach a
// step generator.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	// MaxLen is the largest dataset the visualizer will lay out.
	MaxLen = 32
	// MaxValue bounds the magnitude of any single value.
	MaxValue = 9999
)

// InvalidInputError reports a rejected token and why.
type InvalidInputError struct {
	Input  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Input == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input %q: %s", e.Input, e.Reason)
}

// Parse reads comma or whitespace separated integers. Empty tokens are
// skipped, so "1,,2" and " 1 2 " both yield [1 2].
func Parse(s string) ([]int, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	if len(fields) > MaxLen {
		return nil, &InvalidInputError{Reason: fmt.Sprintf("at most %d values allowed, got %d", MaxLen, len(fields))}
	}

	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := ParseValue(f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ParseValue reads a single integer within ±MaxValue.
func ParseValue(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, &InvalidInputError{Reason: "empty value"}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &InvalidInputError{Input: s, Reason: "not a whole number"}
	}
	if v > MaxValue || v < -MaxValue {
		return 0, &InvalidInputError{Input: s, Reason: fmt.Sprintf("must be between %d and %d", -MaxValue, MaxValue)}
	}
	return v, nil
}

// Check validates an already-parsed dataset.
func Check(data []int) error {
	if len(data) > MaxLen {
		return &InvalidInputError{Reason: fmt.Sprintf("at most %d values allowed, got %d", MaxLen, len(data))}
	}
	for _, v := range data {
		if v > MaxValue || v < -MaxValue {
			return &InvalidInputError{Input: strconv.Itoa(v), Reason: fmt.Sprintf("must be between %d and %d", -MaxValue, MaxValue)}
		}
	}
	return nil
}

// Format renders data the way Parse reads it.
func Format(data []int) string {
	parts := make([]string, len(data))
	for i, v := range data {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ", ")
}

// Random returns n values in [1, 99] drawn from a generator seeded with
// seed. The same seed always yields the same dataset.
func Random(n int, seed uint64) []int {
	n = max(0, min(n, MaxLen))
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	out := make([]int, n)
	for i := range out {
		out[i] = 1 + rng.IntN(99)
	}
	return out
}
