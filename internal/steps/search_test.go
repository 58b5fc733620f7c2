package steps

import (
	"errors"
	"reflect"
	"testing"
)

func TestLinearSearchFound(t *testing.T) {
	data := []int{7, 14, 21, 28, 35, 42, 49, 56, 63, 70, 77, 84, 91, 98}
	h := LinearSearch(data, 42)

	if err := Validate(h, len(data)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !h.Outcome.Found || h.Outcome.Index != 5 {
		t.Fatalf("Outcome = %+v, want found at 5", h.Outcome)
	}

	// initial + (check, reset) for 0..4 + check 5 + found 5
	if h.Len() != 1+2*5+2 {
		t.Fatalf("Len = %d, want %d", h.Len(), 1+2*5+2)
	}

	var checked []int
	for i := 1; i < h.Len(); i++ {
		for idx, m := range h.Markers[i] {
			if m == TagChecking {
				checked = append(checked, idx)
			}
		}
	}
	if want := []int{0, 1, 2, 3, 4, 5}; !reflect.DeepEqual(checked, want) {
		t.Errorf("checked indices = %v, want %v", checked, want)
	}

	last := h.Last()
	if last.Markers[5] != TagFound {
		t.Errorf("last marker at 5 = %s, want found", last.Markers[5])
	}
	if last.Values[5] != 42 {
		t.Errorf("found value = %d, want 42", last.Values[5])
	}
	if h.Count(TagFound) != 1 {
		t.Errorf("steps with found marker = %d, want 1 (history must stop at found)", h.Count(TagFound))
	}
}

func TestLinearSearchNotFound(t *testing.T) {
	data := []int{5, 8, 12, 15, 23, 27, 33, 39, 41, 50, 62, 70, 75, 80, 85, 90, 95}
	h := LinearSearch(data, 100)

	if err := Validate(h, len(data)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if h.Outcome.Found || h.Outcome.Kind != OutcomeNotFound || h.Outcome.Index != -1 {
		t.Fatalf("Outcome = %+v, want not found", h.Outcome)
	}
	if h.Len() != 1+2*len(data) {
		t.Errorf("Len = %d, want %d", h.Len(), 1+2*len(data))
	}

	next := 0
	for i := 1; i < h.Len(); i++ {
		for idx, m := range h.Markers[i] {
			if m == TagChecking {
				if idx != next {
					t.Fatalf("step %d checks index %d, want %d", i, idx, next)
				}
				next++
			}
		}
	}
	if next != len(data) {
		t.Errorf("checked %d indices, want %d", next, len(data))
	}
	for idx, m := range h.Last().Markers {
		if m != TagNormal {
			t.Errorf("final marker %d = %s, want normal", idx, m)
		}
	}
	if h.Count(TagFound) != 0 {
		t.Error("expected no found marker")
	}
}

func TestLinearSearchEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		data    []int
		target  int
		wantLen int
		found   bool
	}{
		{"empty", nil, 3, 1, false},
		{"single match", []int{3}, 3, 3, true},
		{"single miss", []int{4}, 3, 3, false},
		{"duplicates stop at first", []int{1, 3, 3}, 3, 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := LinearSearch(tt.data, tt.target)
			if err := Validate(h, len(tt.data)); err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if h.Len() != tt.wantLen {
				t.Errorf("Len = %d, want %d", h.Len(), tt.wantLen)
			}
			if h.Outcome.Found != tt.found {
				t.Errorf("Found = %v, want %v", h.Outcome.Found, tt.found)
			}
		})
	}
}

func TestSearchTerminationInvariant(t *testing.T) {
	inputs := [][]int{
		{1, 2, 3, 4, 5},
		{9, 4, 4, 1},
		{},
		{-3, 0, 8},
	}
	for _, data := range inputs {
		for target := -4; target <= 10; target++ {
			h := LinearSearch(data, target)
			found := -1
			for idx, m := range h.Last().Markers {
				if m == TagFound {
					if found != -1 {
						t.Fatalf("%v/%d: more than one found marker", data, target)
					}
					found = idx
				}
			}
			present := false
			for _, v := range data {
				if v == target {
					present = true
				}
			}
			if found >= 0 && h.Last().Values[found] != target {
				t.Errorf("%v/%d: found value %d", data, target, h.Last().Values[found])
			}
			if (found >= 0) != present {
				t.Errorf("%v/%d: found=%d, present=%v", data, target, found, present)
			}
		}
	}
}

func TestLinearSearchDeterministic(t *testing.T) {
	data := []int{4, 8, 15, 16, 23, 42}
	a := LinearSearch(data, 23)
	b := LinearSearch(data, 23)
	if !reflect.DeepEqual(a, b) {
		t.Error("two runs over the same input differ")
	}
}

func TestLinearSearchDoesNotMutateInput(t *testing.T) {
	data := []int{3, 1, 2}
	_ = LinearSearch(data, 2)
	if !reflect.DeepEqual(data, []int{3, 1, 2}) {
		t.Errorf("input mutated to %v", data)
	}
}

func TestBinarySearch(t *testing.T) {
	data := []int{5, 8, 12, 15, 23, 27, 33, 39, 41, 50, 62, 70, 75, 80, 85, 90, 95}

	h, err := BinarySearch(data, 62)
	if err != nil {
		t.Fatalf("BinarySearch: %v", err)
	}
	if err := Validate(h, len(data)); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if !h.Outcome.Found || data[h.Outcome.Index] != 62 {
		t.Fatalf("Outcome = %+v, want found 62", h.Outcome)
	}
	if h.Last().Markers[h.Outcome.Index] != TagFound {
		t.Error("last step should mark the match found")
	}

	miss, err := BinarySearch(data, 100)
	if err != nil {
		t.Fatalf("BinarySearch: %v", err)
	}
	if miss.Outcome.Found {
		t.Error("expected not found")
	}
	for idx, m := range miss.Last().Markers {
		if m != TagNotFound {
			t.Errorf("final marker %d = %s, want not-found", idx, m)
		}
	}
}

func TestBinarySearchRejectsUnsorted(t *testing.T) {
	_, err := BinarySearch([]int{3, 1, 2}, 1)
	if !errors.Is(err, ErrUnsorted) {
		t.Fatalf("err = %v, want ErrUnsorted", err)
	}
}
