// Package achievements maps a learner's progress counters to unlocked
// achievements and clamped progress values. Evaluation is a pure lookup:
// each definition carries one threshold rule and one clamp rule.
package achievements

// Metric names a progress counter.
type Metric string

const (
	MetricTutorialsCompleted Metric = "tutorials_completed"
	MetricStreakDays         Metric = "streak_days"
	MetricVisualizationsRun  Metric = "visualizations_run"
	MetricSortsRun           Metric = "sorts_run"
	MetricSearchesRun        Metric = "searches_run"
	MetricChallengesSolved   Metric = "challenges_solved"
	MetricStackOps           Metric = "stack_ops"
	MetricQueueOps           Metric = "queue_ops"
	MetricXP                 Metric = "xp"
)

// Metrics returns every known metric.
func Metrics() []Metric {
	return []Metric{
		MetricTutorialsCompleted,
		MetricStreakDays,
		MetricVisualizationsRun,
		MetricSortsRun,
		MetricSearchesRun,
		MetricChallengesSolved,
		MetricStackOps,
		MetricQueueOps,
		MetricXP,
	}
}

// Known reports whether m is a metric Progress can answer.
func (m Metric) Known() bool {
	_, ok := Progress{}.Value(m)
	return ok
}

// Progress is the learner's counters at one moment.
type Progress struct {
	TutorialsCompleted int `json:"tutorials_completed"`
	StreakDays         int `json:"streak_days"`
	VisualizationsRun  int `json:"visualizations_run"`
	SortsRun           int `json:"sorts_run"`
	SearchesRun        int `json:"searches_run"`
	ChallengesSolved   int `json:"challenges_solved"`
	StackOps           int `json:"stack_ops"`
	QueueOps           int `json:"queue_ops"`
	XP                 int `json:"xp"`
}

// Value returns the counter named by m.
func (p Progress) Value(m Metric) (int, bool) {
	switch m {
	case MetricTutorialsCompleted:
		return p.TutorialsCompleted, true
	case MetricStreakDays:
		return p.StreakDays, true
	case MetricVisualizationsRun:
		return p.VisualizationsRun, true
	case MetricSortsRun:
		return p.SortsRun, true
	case MetricSearchesRun:
		return p.SearchesRun, true
	case MetricChallengesSolved:
		return p.ChallengesSolved, true
	case MetricStackOps:
		return p.StackOps, true
	case MetricQueueOps:
		return p.QueueOps, true
	case MetricXP:
		return p.XP, true
	}
	return 0, false
}

// Counters returns the progress as a metric-keyed map.
func (p Progress) Counters() map[string]int {
	out := make(map[string]int, len(Metrics()))
	for _, m := range Metrics() {
		v, _ := p.Value(m)
		out[string(m)] = v
	}
	return out
}

// Definition is one achievement: unlocked once Metric reaches Threshold,
// with progress reported as min(value, MaxProgress).
type Definition struct {
	ID          string `json:"id" mapstructure:"id"`
	Title       string `json:"title" mapstructure:"title"`
	Description string `json:"description" mapstructure:"description"`
	Metric      Metric `json:"metric" mapstructure:"metric"`
	Threshold   int    `json:"threshold" mapstructure:"threshold"`
	MaxProgress int    `json:"max_progress" mapstructure:"max_progress"`
	XPReward    int    `json:"xp_reward" mapstructure:"xp_reward"`
	Rarity      Rarity `json:"rarity" mapstructure:"rarity"`
}

// Status is a definition evaluated against a Progress.
type Status struct {
	Definition
	Unlocked bool `json:"unlocked"`
	Progress int  `json:"progress"`
}

// Unlocked reports whether p satisfies def's threshold. Unknown metrics
// never unlock.
func Unlocked(def Definition, p Progress) bool {
	v, ok := p.Value(def.Metric)
	return ok && v >= def.Threshold
}

// ProgressFor returns def's progress clamped to [0, MaxProgress].
func ProgressFor(def Definition, p Progress) int {
	v, _ := p.Value(def.Metric)
	return max(0, min(v, def.MaxProgress))
}

// Evaluate returns the status of every definition in order.
func Evaluate(defs []Definition, p Progress) []Status {
	out := make([]Status, len(defs))
	for i, d := range defs {
		out[i] = Status{
			Definition: d,
			Unlocked:   Unlocked(d, p),
			Progress:   ProgressFor(d, p),
		}
	}
	return out
}

// NewlyUnlocked returns the definitions unlocked by after but not by before.
func NewlyUnlocked(defs []Definition, before, after Progress) []Definition {
	var out []Definition
	for _, d := range defs {
		if !Unlocked(d, before) && Unlocked(d, after) {
			out = append(out, d)
		}
	}
	return out
}

// Find returns the definition with id.
func Find(defs []Definition, id string) (Definition, bool) {
	for _, d := range defs {
		if d.ID == id {
			return d, true
		}
	}
	return Definition{}, false
}
