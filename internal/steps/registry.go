package steps

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownAlgorithm is returned by Lookup for unregistered names.
var ErrUnknownAlgorithm = errors.New("unknown algorithm")

// Kind groups algorithms by what they do.
type Kind string

const (
	KindSearch Kind = "search"
	KindSort   Kind = "sort"
)

// Algorithm describes a visualizable algorithm and its defaults.
type Algorithm struct {
	Name         string        `json:"name"`
	Title        string        `json:"title"`
	Kind         Kind          `json:"kind"`
	NeedsTarget  bool          `json:"needs_target"`
	Delay        time.Duration `json:"delay"`
	Sample       []int         `json:"sample"`
	SampleTarget int           `json:"sample_target,omitempty"`

	generate func(data []int, target int) (*History, error)
}

// Generate computes the step history for data. target is ignored by
// algorithms that do not search.
func (a Algorithm) Generate(data []int, target int) (*History, error) {
	h, err := a.generate(data, target)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", a.Name, err)
	}
	return h, nil
}

const (
	searchDelay = 800 * time.Millisecond
	sortDelay   = 500 * time.Millisecond
)

var registry = []Algorithm{
	{
		Name:         "linear-search",
		Title:        "Linear Search",
		Kind:         KindSearch,
		NeedsTarget:  true,
		Delay:        searchDelay,
		Sample:       []int{7, 14, 21, 28, 35, 42, 49, 56, 63, 70, 77, 84, 91, 98},
		SampleTarget: 42,
		generate: func(data []int, target int) (*History, error) {
			return LinearSearch(data, target), nil
		},
	},
	{
		Name:         "binary-search",
		Title:        "Binary Search",
		Kind:         KindSearch,
		NeedsTarget:  true,
		Delay:        searchDelay,
		Sample:       []int{5, 8, 12, 15, 23, 27, 33, 39, 41, 50, 62, 70, 75, 80, 85, 90, 95},
		SampleTarget: 62,
		generate:     BinarySearch,
	},
	{
		Name:   "bubble-sort",
		Title:  "Bubble Sort",
		Kind:   KindSort,
		Delay:  sortDelay,
		Sample: []int{64, 34, 25, 12, 22, 11, 90},
		generate: func(data []int, _ int) (*History, error) {
			return BubbleSort(data), nil
		},
	},
	{
		Name:   "selection-sort",
		Title:  "Selection Sort",
		Kind:   KindSort,
		Delay:  sortDelay,
		Sample: []int{29, 10, 14, 37, 13, 5, 88},
		generate: func(data []int, _ int) (*History, error) {
			return SelectionSort(data), nil
		},
	},
	{
		Name:   "insertion-sort",
		Title:  "Insertion Sort",
		Kind:   KindSort,
		Delay:  sortDelay,
		Sample: []int{12, 11, 13, 5, 6, 3, 9},
		generate: func(data []int, _ int) (*History, error) {
			return InsertionSort(data), nil
		},
	},
}

// All returns every registered algorithm in menu order.
func All() []Algorithm {
	out := make([]Algorithm, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the algorithm registered under name.
func Lookup(name string) (Algorithm, error) {
	for _, a := range registry {
		if a.Name == name {
			return a, nil
		}
	}
	return Algorithm{}, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}
