package visualize

import (
	"time"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/playback"
	"github.com/abhisek/algoquest/internal/steps"
)

// frameMsg carries the latest frame published by the controller.
type frameMsg struct {
	Frame steps.Frame
	State playback.State
}

// recordedMsg is sent once a completed run is in the activity log.
type recordedMsg struct {
	Awards []achievements.Award
	Err    error
}

// tutorTickMsg polls the tutor for a finished explanation.
type tutorTickMsg time.Time
