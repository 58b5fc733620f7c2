// Package ds holds the bounded containers used by the stack and queue
// demos. Rejected operations leave the container unchanged.
package ds

import (
	"errors"
	"slices"
)

var (
	ErrFull  = errors.New("container is full")
	ErrEmpty = errors.New("container is empty")
)

// Stack is a fixed-capacity LIFO.
type Stack struct {
	items []int
	cap   int
}

// NewStack returns an empty stack holding at most capacity items.
func NewStack(capacity int) *Stack {
	return &Stack{items: make([]int, 0, capacity), cap: capacity}
}

func (s *Stack) Push(v int) error {
	if len(s.items) >= s.cap {
		return ErrFull
	}
	s.items = append(s.items, v)
	return nil
}

func (s *Stack) Pop() (int, error) {
	if len(s.items) == 0 {
		return 0, ErrEmpty
	}
	v := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return v, nil
}

func (s *Stack) Peek() (int, error) {
	if len(s.items) == 0 {
		return 0, ErrEmpty
	}
	return s.items[len(s.items)-1], nil
}

func (s *Stack) Len() int { return len(s.items) }
func (s *Stack) Cap() int { return s.cap }

// Items returns the contents bottom to top.
func (s *Stack) Items() []int { return slices.Clone(s.items) }

// Queue is a fixed-capacity FIFO backed by a ring buffer.
type Queue struct {
	buf  []int
	head int
	n    int
}

// NewQueue returns an empty queue holding at most capacity items.
func NewQueue(capacity int) *Queue {
	return &Queue{buf: make([]int, capacity)}
}

func (q *Queue) Enqueue(v int) error {
	if q.n == len(q.buf) {
		return ErrFull
	}
	q.buf[(q.head+q.n)%len(q.buf)] = v
	q.n++
	return nil
}

func (q *Queue) Dequeue() (int, error) {
	if q.n == 0 {
		return 0, ErrEmpty
	}
	v := q.buf[q.head]
	q.head = (q.head + 1) % len(q.buf)
	q.n--
	return v, nil
}

func (q *Queue) Front() (int, error) {
	if q.n == 0 {
		return 0, ErrEmpty
	}
	return q.buf[q.head], nil
}

func (q *Queue) Len() int { return q.n }
func (q *Queue) Cap() int { return len(q.buf) }

// Items returns the contents front to back.
func (q *Queue) Items() []int {
	out := make([]int, q.n)
	for i := range out {
		out[i] = q.buf[(q.head+i)%len(q.buf)]
	}
	return out
}
