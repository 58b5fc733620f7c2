package playback

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/algoquest/internal/steps"
)

type fakeTimer struct {
	f       func()
	d       time.Duration
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	was := !t.stopped
	t.stopped = true
	return was
}

// fakeScheduler records armed callbacks and fires them on demand.
type fakeScheduler struct {
	mu     sync.Mutex
	timers []*fakeTimer
}

func (s *fakeScheduler) AfterFunc(d time.Duration, f func()) Timer {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTimer{f: f, d: d}
	s.timers = append(s.timers, t)
	return t
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.timers {
		if !t.stopped {
			n++
		}
	}
	return n
}

func (s *fakeScheduler) last() *fakeTimer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.timers) == 0 {
		return nil
	}
	return s.timers[len(s.timers)-1]
}

// tick fires the most recent live timer, the way the runtime would.
func (s *fakeScheduler) tick(t *testing.T) {
	t.Helper()
	tm := s.last()
	require.NotNil(t, tm, "no timer armed")
	require.False(t, tm.stopped, "latest timer was stopped")
	tm.stopped = true
	tm.f()
}

type recorded struct {
	cursor int
	state  State
}

func newTestController(t *testing.T, name string) (*Controller, *fakeScheduler, *[]recorded) {
	t.Helper()
	alg, err := steps.Lookup(name)
	require.NoError(t, err)

	sched := &fakeScheduler{}
	var frames []recorded
	c, err := New(alg, alg.Sample,
		WithTarget(alg.SampleTarget),
		WithScheduler(sched),
		WithObserver(func(f steps.Frame, s State) {
			frames = append(frames, recorded{cursor: f.Index, state: s})
		}),
	)
	require.NoError(t, err)
	return c, sched, &frames
}

func TestNewDeliversInitialFrame(t *testing.T) {
	c, sched, frames := newTestController(t, "bubble-sort")

	require.Len(t, *frames, 1)
	assert.Equal(t, recorded{0, StateIdle}, (*frames)[0])
	assert.Equal(t, 0, sched.pending())

	v := c.View()
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, StateIdle, v.State)
	for _, m := range v.Frame.Markers {
		assert.Equal(t, steps.TagNormal, m)
	}
}

func TestPlayRunsToCompletion(t *testing.T) {
	c, sched, frames := newTestController(t, "bubble-sort")
	total := c.View().Total

	require.True(t, c.Play())
	assert.Equal(t, 1, sched.pending())
	assert.Equal(t, sortDelayFor(t, "bubble-sort"), sched.last().d)

	for i := 1; i < total; i++ {
		sched.tick(t)
	}

	v := c.View()
	assert.Equal(t, total-1, v.Cursor)
	assert.Equal(t, StateComplete, v.State)
	assert.Equal(t, 0, sched.pending(), "no timer should remain after completion")

	// cursor never leaves [0, total)
	for _, f := range *frames {
		assert.GreaterOrEqual(t, f.cursor, 0)
		assert.Less(t, f.cursor, total)
	}
	assert.Equal(t, StateComplete, (*frames)[len(*frames)-1].state)
}

func sortDelayFor(t *testing.T, name string) time.Duration {
	t.Helper()
	alg, err := steps.Lookup(name)
	require.NoError(t, err)
	return alg.Delay
}

func TestPlayAtEndIsNoop(t *testing.T) {
	c, sched, frames := newTestController(t, "linear-search")
	c.Seek(1 << 20)

	v := c.View()
	require.Equal(t, v.Total-1, v.Cursor)
	require.Equal(t, StateComplete, v.State)

	before := len(*frames)
	assert.False(t, c.Play())
	assert.Equal(t, before, len(*frames), "play at end must not deliver frames")
	assert.Equal(t, StateComplete, c.View().State)
	assert.Equal(t, 0, sched.pending())
}

func TestOneFrameHistoryCompletesOnlyBySeek(t *testing.T) {
	c, sched, _ := newTestController(t, "linear-search")
	require.NoError(t, c.SetDataset([]int{}))

	v := c.View()
	require.Equal(t, 1, v.Total)
	assert.Equal(t, StateIdle, v.State, "reset always lands on idle")
	assert.False(t, c.Play())
	assert.Equal(t, StateIdle, c.View().State)
	assert.Equal(t, 0, sched.pending())

	c.Seek(0)
	assert.Equal(t, StateComplete, c.View().State)
}

func TestPauseResumeContinuity(t *testing.T) {
	c, sched, frames := newTestController(t, "bubble-sort")

	require.True(t, c.Play())
	sched.tick(t)
	sched.tick(t)
	sched.tick(t)
	require.Equal(t, 3, c.View().Cursor)

	c.Pause()
	assert.Equal(t, StatePaused, c.View().State)
	assert.Equal(t, 0, sched.pending())

	require.True(t, c.Play())
	assert.Equal(t, 3, c.View().Cursor, "resume must not skip or repeat a step")
	sched.tick(t)
	assert.Equal(t, 4, c.View().Cursor)

	// Every delivered cursor after the first moves by at most one.
	prev := 0
	for _, f := range *frames {
		assert.LessOrEqual(t, f.cursor-prev, 1)
		prev = f.cursor
	}
}

func TestPauseAndResetAreIdempotent(t *testing.T) {
	c, sched, _ := newTestController(t, "selection-sort")

	c.Pause()
	c.Pause()
	assert.Equal(t, StateIdle, c.View().State)

	require.True(t, c.Play())
	sched.tick(t)
	c.Pause()
	c.Pause()
	assert.Equal(t, StatePaused, c.View().State)
	assert.Equal(t, 1, c.View().Cursor)

	require.NoError(t, c.Reset())
	require.NoError(t, c.Reset())
	v := c.View()
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, StateIdle, v.State)
	assert.Equal(t, 0, sched.pending())
}

func TestStaleCallbackAfterResetIsIgnored(t *testing.T) {
	c, sched, frames := newTestController(t, "insertion-sort")

	require.True(t, c.Play())
	stale := sched.last()

	require.NoError(t, c.Reset())
	before := len(*frames)

	// Simulate a callback that escaped Stop and runs anyway.
	stale.f()

	assert.Equal(t, before, len(*frames), "stale callback delivered a frame")
	v := c.View()
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, StateIdle, v.State)
}

func TestPlayWhilePlayingKeepsSingleTimer(t *testing.T) {
	c, sched, _ := newTestController(t, "bubble-sort")

	require.True(t, c.Play())
	first := sched.last()
	require.True(t, c.Play())

	assert.True(t, first.stopped, "previous schedule must be cancelled")
	assert.Equal(t, 1, sched.pending())

	first.f()
	assert.Equal(t, 0, c.View().Cursor, "cancelled callback must not advance")

	sched.tick(t)
	assert.Equal(t, 1, c.View().Cursor)
}

func TestSeekClampsAndStep(t *testing.T) {
	c, sched, _ := newTestController(t, "linear-search")
	total := c.View().Total

	c.Seek(-5)
	assert.Equal(t, 0, c.View().Cursor)
	assert.Equal(t, StatePaused, c.View().State)

	c.StepBack()
	assert.Equal(t, 0, c.View().Cursor)

	c.StepForward()
	c.StepForward()
	assert.Equal(t, 2, c.View().Cursor)

	require.True(t, c.Play())
	c.Seek(4)
	assert.Equal(t, StatePaused, c.View().State)
	assert.Equal(t, 0, sched.pending(), "seek cancels playback")

	c.Seek(total + 10)
	assert.Equal(t, total-1, c.View().Cursor)
	assert.Equal(t, StateComplete, c.View().State)
}

func TestDatasetEditsReset(t *testing.T) {
	c, sched, _ := newTestController(t, "linear-search")

	require.True(t, c.Play())
	sched.tick(t)

	require.NoError(t, c.Insert(101))
	v := c.View()
	assert.Equal(t, 0, v.Cursor)
	assert.Equal(t, StateIdle, v.State)
	assert.Equal(t, 0, sched.pending())
	assert.Equal(t, 101, c.Dataset()[len(c.Dataset())-1])

	ok, err := c.Delete(101)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.Delete(12345)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.SetTarget(98))
	assert.True(t, c.History().Outcome.Found)
	assert.Equal(t, 98, c.Target())
}

func TestSetDatasetErrorLeavesStateUntouched(t *testing.T) {
	c, _, _ := newTestController(t, "binary-search")
	before := c.Dataset()

	err := c.SetDataset([]int{9, 3, 1})
	require.ErrorIs(t, err, steps.ErrUnsorted)
	assert.Equal(t, before, c.Dataset())
}

func TestSetDelayAppliesToNextFrame(t *testing.T) {
	c, sched, _ := newTestController(t, "bubble-sort")

	require.True(t, c.Play())
	c.SetDelay(50 * time.Millisecond)
	sched.tick(t)
	assert.Equal(t, 50*time.Millisecond, sched.last().d)

	c.SetDelay(0)
	assert.Equal(t, 50*time.Millisecond, c.Delay())
}

func TestRealSchedulerDrivesPlayback(t *testing.T) {
	alg, err := steps.Lookup("insertion-sort")
	require.NoError(t, err)

	done := make(chan struct{})
	c, err := New(alg, []int{2, 1},
		WithDelay(time.Millisecond),
		WithObserver(func(_ steps.Frame, s State) {
			if s == StateComplete {
				close(done)
			}
		}),
	)
	require.NoError(t, err)
	require.True(t, c.Play())

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("playback did not complete")
	}
	assert.Equal(t, StateComplete, c.View().State)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "playing", StatePlaying.String())
	assert.Equal(t, "paused", StatePaused.String())
	assert.Equal(t, "complete", StateComplete.String())
	assert.Equal(t, "unknown", State(42).String())
}
