package steps

import (
	"errors"
	"fmt"
	"slices"
)

// Tag is the highlight status of a single element at one step.
type Tag uint8

const (
	TagNormal    Tag = iota // not involved in the current step
	TagChecking             // being compared against a search target
	TagComparing            // one side of a pairwise comparison
	TagFound                // matched the search target
	TagSorted               // in its final sorted position
	TagNotFound             // ruled out by a search
)

var tagNames = [...]string{
	TagNormal:    "normal",
	TagChecking:  "checking",
	TagComparing: "comparing",
	TagFound:     "found",
	TagSorted:    "sorted",
	TagNotFound:  "not-found",
}

// String returns the wire name of the tag.
func (t Tag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return "unknown"
}

// MarshalText encodes the tag by name so JSON output stays readable.
func (t Tag) MarshalText() ([]byte, error) {
	if int(t) >= len(tagNames) {
		return nil, fmt.Errorf("unknown tag %d", t)
	}
	return []byte(tagNames[t]), nil
}

// UnmarshalText decodes a tag name.
func (t *Tag) UnmarshalText(b []byte) error {
	for i, name := range tagNames {
		if name == string(b) {
			*t = Tag(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tag %q", b)
}

// OutcomeKind classifies how an algorithm run ended.
type OutcomeKind string

const (
	OutcomeSorted   OutcomeKind = "sorted"
	OutcomeFound    OutcomeKind = "found"
	OutcomeNotFound OutcomeKind = "not-found"
)

// Outcome is the algorithm-specific result of a run. Index is the matched
// position for searches and -1 otherwise.
type Outcome struct {
	Kind  OutcomeKind `json:"kind"`
	Found bool        `json:"found"`
	Index int         `json:"index"`
}

// History is the complete precomputed step sequence of one run.
// Snapshots[i] and Markers[i] together describe step i.
type History struct {
	Snapshots [][]int `json:"snapshots"`
	Markers   [][]Tag `json:"markers"`
	Outcome   Outcome `json:"outcome"`
}

// Frame is a single step of a History.
type Frame struct {
	Index   int   `json:"index"`
	Values  []int `json:"values"`
	Markers []Tag `json:"markers"`
}

// Len returns the number of steps.
func (h *History) Len() int {
	return len(h.Snapshots)
}

// Frame returns step i. It panics if i is out of range.
func (h *History) Frame(i int) Frame {
	return Frame{Index: i, Values: h.Snapshots[i], Markers: h.Markers[i]}
}

// Last returns the final step.
func (h *History) Last() Frame {
	return h.Frame(h.Len() - 1)
}

// Count returns how many steps have at least one element tagged t.
func (h *History) Count(t Tag) int {
	n := 0
	for _, row := range h.Markers {
		for _, m := range row {
			if m == t {
				n++
				break
			}
		}
	}
	return n
}

// Comparisons counts the steps that introduce a comparison: a comparing
// marker with values unchanged from the previous step. Swap steps keep the
// comparing markers but change the values.
func (h *History) Comparisons() int {
	n := 0
	for i := 1; i < h.Len(); i++ {
		if slices.Contains(h.Markers[i], TagComparing) && slices.Equal(h.Snapshots[i], h.Snapshots[i-1]) {
			n++
		}
	}
	return n
}

// ErrMalformedHistory is returned by Validate for histories that break the
// snapshot/marker parity.
var ErrMalformedHistory = errors.New("malformed step history")

// Validate checks that h has at least one step, that snapshots and markers
// are parallel, and that every row has exactly n elements.
func Validate(h *History, n int) error {
	if h == nil || h.Len() == 0 {
		return fmt.Errorf("%w: no steps", ErrMalformedHistory)
	}
	if len(h.Snapshots) != len(h.Markers) {
		return fmt.Errorf("%w: %d snapshots, %d marker rows", ErrMalformedHistory, len(h.Snapshots), len(h.Markers))
	}
	for i := range h.Snapshots {
		if len(h.Snapshots[i]) != n || len(h.Markers[i]) != n {
			return fmt.Errorf("%w: step %d has %d values and %d markers, want %d",
				ErrMalformedHistory, i, len(h.Snapshots[i]), len(h.Markers[i]), n)
		}
	}
	return nil
}

// recorder accumulates steps over a private working copy of the dataset.
type recorder struct {
	values []int
	marks  []Tag
	h      *History
}

// newRecorder copies data and records the all-normal initial step.
func newRecorder(data []int) *recorder {
	r := &recorder{
		values: append([]int(nil), data...),
		marks:  make([]Tag, len(data)),
		h:      &History{Outcome: Outcome{Index: -1}},
	}
	r.emit()
	return r
}

func (r *recorder) emit() {
	r.h.Snapshots = append(r.h.Snapshots, append([]int(nil), r.values...))
	r.h.Markers = append(r.h.Markers, append([]Tag(nil), r.marks...))
}

func (r *recorder) mark(t Tag, idx ...int) {
	for _, i := range idx {
		r.marks[i] = t
	}
}

func (r *recorder) markAll(t Tag) {
	for i := range r.marks {
		r.marks[i] = t
	}
}

func (r *recorder) swap(i, j int) {
	r.values[i], r.values[j] = r.values[j], r.values[i]
}

// unsorted resets every marker that is not already sorted.
func (r *recorder) unsorted() {
	for i, m := range r.marks {
		if m != TagSorted {
			r.marks[i] = TagNormal
		}
	}
}

func (r *recorder) finishSorted() *History {
	r.markAll(TagSorted)
	r.emit()
	r.h.Outcome = Outcome{Kind: OutcomeSorted, Index: -1}
	return r.h
}
