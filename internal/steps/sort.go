package steps

// BubbleSort records an ascending bubble sort that always runs every pass.
//
// Before each comparison both indices are marked comparing and a step is
// emitted; a swap emits a second step with the same markers. After each
// pass the rightmost unsorted index is marked sorted. The last step marks
// every index sorted.
func BubbleSort(data []int) *History {
	r := newRecorder(data)
	n := len(r.values)

	for i := 0; i < n-1; i++ {
		for j := 0; j < n-i-1; j++ {
			r.unsorted()
			r.mark(TagComparing, j, j+1)
			r.emit()

			if r.values[j] > r.values[j+1] {
				r.swap(j, j+1)
				r.emit()
			}
		}
		r.unsorted()
		r.mark(TagSorted, n-i-1)
		r.emit()
	}

	return r.finishSorted()
}

// SelectionSort records an ascending selection sort. The running minimum
// is compared against each remaining index; the minimum is swapped into
// place at the end of the pass and that index is marked sorted.
func SelectionSort(data []int) *History {
	r := newRecorder(data)
	n := len(r.values)

	for i := 0; i < n-1; i++ {
		minIdx := i
		for j := i + 1; j < n; j++ {
			r.unsorted()
			r.mark(TagComparing, minIdx, j)
			r.emit()

			if r.values[j] < r.values[minIdx] {
				minIdx = j
			}
		}
		if minIdx != i {
			r.unsorted()
			r.mark(TagComparing, i, minIdx)
			r.swap(i, minIdx)
			r.emit()
		}
		r.unsorted()
		r.mark(TagSorted, i)
		r.emit()
	}

	return r.finishSorted()
}

// InsertionSort records an ascending insertion sort. Each new element is
// walked left by adjacent comparisons; every swap emits a step.
func InsertionSort(data []int) *History {
	r := newRecorder(data)
	n := len(r.values)

	for i := 1; i < n; i++ {
		for j := i; j > 0; j-- {
			r.markAll(TagNormal)
			r.mark(TagComparing, j-1, j)
			r.emit()

			if r.values[j-1] <= r.values[j] {
				break
			}
			r.swap(j-1, j)
			r.emit()
		}
	}

	return r.finishSorted()
}
