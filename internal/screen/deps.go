package screen

import (
	"time"

	"github.com/abhisek/algoquest/internal/challenge"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/tutor"
)

// Deps are the services screens share. Learner and Tutor may be nil; the
// screens hide what they cannot offer.
type Deps struct {
	Learner *learner.Service
	Catalog *content.Catalog
	Runner  *challenge.Runner
	Tutor   *tutor.Service
	Delay   func(steps.Algorithm) time.Duration
}

// TutorEnabled reports whether AI explanations can be requested.
func (d Deps) TutorEnabled() bool {
	return d.Tutor.Enabled()
}

// DelayFor returns the configured step delay for alg.
func (d Deps) DelayFor(alg steps.Algorithm) time.Duration {
	if d.Delay != nil {
		if v := d.Delay(alg); v > 0 {
			return v
		}
	}
	return alg.Delay
}
