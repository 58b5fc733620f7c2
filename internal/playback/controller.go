package playback

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/abhisek/algoquest/internal/steps"
)

// State is the replay phase of a Controller.
type State int

const (
	StateIdle State = iota
	StatePlaying
	StatePaused
	StateComplete
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Observer receives every frame the Controller delivers. It is called with
// the Controller's lock held, so it must not block or call back into the
// Controller.
type Observer func(frame steps.Frame, state State)

// View is a read-only copy of the playback position for UI binding.
// Frame slices are shared with the history and must not be modified.
type View struct {
	Cursor  int
	Total   int
	State   State
	Frame   steps.Frame
	Outcome steps.Outcome
}

// Option configures a Controller.
type Option func(*Controller)

// WithScheduler replaces the runtime timer, mainly for tests.
func WithScheduler(s Scheduler) Option {
	return func(c *Controller) { c.sched = s }
}

// WithDelay overrides the algorithm's per-step delay.
func WithDelay(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.delay = d
		}
	}
}

// WithObserver registers the frame observer.
func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

// WithTarget sets the initial search target.
func WithTarget(target int) Option {
	return func(c *Controller) { c.target = target }
}

// Controller replays a precomputed step history. It owns the dataset, the
// history, the cursor and the single pending timer; its methods are the
// only mutators. A Controller is safe for concurrent use.
type Controller struct {
	mu sync.Mutex

	alg     steps.Algorithm
	dataset []int
	target  int
	history *steps.History
	cursor  int
	state   State

	delay    time.Duration
	sched    Scheduler
	timer    Timer
	gen      uint64
	observer Observer
}

// New builds a Controller for alg over data and generates its history.
func New(alg steps.Algorithm, data []int, opts ...Option) (*Controller, error) {
	c := &Controller{
		alg:   alg,
		delay: alg.Delay,
		sched: RealScheduler{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.delay <= 0 {
		return nil, fmt.Errorf("playback: non-positive step delay for %s", alg.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.regenerateLocked(slices.Clone(data), c.target); err != nil {
		return nil, err
	}
	return c, nil
}

// Play starts or resumes replay from the current cursor. The frame at the
// cursor is delivered immediately, then one frame per delay. Play reports
// false and changes nothing when the cursor is already on the last frame.
func (c *Controller) Play() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cursor >= c.lastIndex() {
		return false
	}

	c.cancelLocked()
	c.state = StatePlaying
	c.publishLocked()
	c.armLocked()
	return true
}

// Pause stops replay and keeps the cursor. Calling it when nothing is
// scheduled is harmless.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelLocked()
	if c.state == StatePlaying {
		c.state = StatePaused
	}
}

// Toggle pauses a playing controller and plays any other.
func (c *Controller) Toggle() {
	if c.View().State == StatePlaying {
		c.Pause()
		return
	}
	c.Play()
}

// Reset cancels replay, regenerates the history from the current dataset
// and target, and rewinds to the all-normal first frame.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regenerateLocked(c.dataset, c.target)
}

// Seek cancels replay and moves the cursor to i, clamped to the history.
// Landing on the last frame completes playback; anything else pauses it.
func (c *Controller) Seek(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(i)
}

// StepForward seeks one frame ahead.
func (c *Controller) StepForward() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(c.cursor + 1)
}

// StepBack seeks one frame back.
func (c *Controller) StepBack() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seekLocked(c.cursor - 1)
}

// SetDataset replaces the dataset and resets. On error nothing changes.
func (c *Controller) SetDataset(data []int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regenerateLocked(slices.Clone(data), c.target)
}

// SetTarget replaces the search target and resets.
func (c *Controller) SetTarget(target int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regenerateLocked(c.dataset, target)
}

// Insert appends v to the dataset and resets.
func (c *Controller) Insert(v int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.regenerateLocked(append(slices.Clone(c.dataset), v), c.target)
}

// Delete removes the first occurrence of v and resets. It reports false
// when v is not in the dataset.
func (c *Controller) Delete(v int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx := slices.Index(c.dataset, v)
	if idx < 0 {
		return false, nil
	}
	data := slices.Delete(slices.Clone(c.dataset), idx, idx+1)
	if err := c.regenerateLocked(data, c.target); err != nil {
		return false, err
	}
	return true, nil
}

// SetDelay changes the per-step delay. A running replay picks it up on the
// next frame.
func (c *Controller) SetDelay(d time.Duration) {
	if d <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.delay = d
}

// Close cancels any pending frame without touching the cursor or state.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// View returns the current playback position.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return View{
		Cursor:  c.cursor,
		Total:   c.history.Len(),
		State:   c.state,
		Frame:   c.history.Frame(c.cursor),
		Outcome: c.history.Outcome,
	}
}

// Algorithm returns the algorithm being replayed.
func (c *Controller) Algorithm() steps.Algorithm { return c.alg }

// Dataset returns a copy of the current dataset.
func (c *Controller) Dataset() []int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.dataset)
}

// Target returns the current search target.
func (c *Controller) Target() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.target
}

// Delay returns the per-step delay.
func (c *Controller) Delay() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.delay
}

// History returns the current step history. It is replaced, never
// modified, on reset.
func (c *Controller) History() *steps.History {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history
}

func (c *Controller) lastIndex() int {
	return c.history.Len() - 1
}

func (c *Controller) regenerateLocked(data []int, target int) error {
	h, err := c.alg.Generate(data, target)
	if err != nil {
		return err
	}
	c.cancelLocked()
	c.dataset = data
	c.target = target
	c.history = h
	c.cursor = 0
	c.state = StateIdle
	c.publishLocked()
	return nil
}

func (c *Controller) seekLocked(i int) {
	c.cancelLocked()
	c.cursor = max(0, min(i, c.lastIndex()))
	if c.cursor == c.lastIndex() {
		c.state = StateComplete
	} else {
		c.state = StatePaused
	}
	c.publishLocked()
}

// cancelLocked drops the pending timer and invalidates any callback that
// already escaped Stop.
func (c *Controller) cancelLocked() {
	c.gen++
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) armLocked() {
	gen := c.gen
	c.timer = c.sched.AfterFunc(c.delay, func() { c.fire(gen) })
}

func (c *Controller) fire(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if gen != c.gen || c.state != StatePlaying {
		return
	}
	c.timer = nil

	c.cursor++
	if c.cursor >= c.lastIndex() {
		c.cursor = c.lastIndex()
		c.state = StateComplete
	}
	c.publishLocked()

	if c.state == StatePlaying {
		c.armLocked()
	}
}

func (c *Controller) publishLocked() {
	if c.observer != nil {
		c.observer(c.history.Frame(c.cursor), c.state)
	}
}
