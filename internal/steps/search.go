package steps

import "errors"

// ErrUnsorted is returned by BinarySearch for input that is not in
// ascending order.
var ErrUnsorted = errors.New("binary search needs ascending input")

// LinearSearch records a left-to-right scan for target.
//
// Each index is first marked checking. A match is marked found and ends
// the history; a miss is reset to normal before moving on. When the scan
// is exhausted the final step has no marked elements.
func LinearSearch(data []int, target int) *History {
	r := newRecorder(data)
	r.h.Outcome = Outcome{Kind: OutcomeNotFound, Index: -1}

	for i, v := range r.values {
		r.mark(TagChecking, i)
		r.emit()

		if v == target {
			r.mark(TagFound, i)
			r.emit()
			r.h.Outcome = Outcome{Kind: OutcomeFound, Found: true, Index: i}
			return r.h
		}

		r.mark(TagNormal, i)
		r.emit()
	}
	return r.h
}

// BinarySearch records a classic lo/hi bisection. Every probe marks mid as
// checking and everything outside the live window as not-found.
func BinarySearch(data []int, target int) (*History, error) {
	for i := 1; i < len(data); i++ {
		if data[i-1] > data[i] {
			return nil, ErrUnsorted
		}
	}

	r := newRecorder(data)
	r.h.Outcome = Outcome{Kind: OutcomeNotFound, Index: -1}

	lo, hi := 0, len(data)-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		r.window(lo, hi)
		r.mark(TagChecking, mid)
		r.emit()

		switch {
		case r.values[mid] == target:
			r.mark(TagFound, mid)
			r.emit()
			r.h.Outcome = Outcome{Kind: OutcomeFound, Found: true, Index: mid}
			return r.h, nil
		case r.values[mid] < target:
			lo = mid + 1
		default:
			hi = mid - 1
		}
	}

	r.markAll(TagNotFound)
	r.emit()
	return r.h, nil
}

// window marks indices outside [lo, hi] as ruled out.
func (r *recorder) window(lo, hi int) {
	for i := range r.marks {
		if i < lo || i > hi {
			r.marks[i] = TagNotFound
		} else {
			r.marks[i] = TagNormal
		}
	}
}
