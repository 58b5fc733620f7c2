package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	After   int64     // sequence > After
	Before  int64     // sequence < Before
	From    time.Time // timestamp >= From
	To      time.Time // timestamp <= To
	Kind    string    // activity kind, empty for all
	Subject string    // activity subject, empty for all
}

// Activity kinds recorded in activity_events.
const (
	ActivityVisualization = "visualization"
	ActivityTutorial      = "tutorial"
	ActivityChallenge     = "challenge"
	ActivityStackOp       = "stack_op"
	ActivityQueueOp       = "queue_op"
	ActivityAchievement   = "achievement"
	ActivityBonus         = "xp_bonus"
)

// Activity details for tutorial and challenge events.
const (
	DetailFirst  = "first"
	DetailRepeat = "repeat"
	DetailFailed = "failed"
)

// ActivityEventData captures one learner action. Subject names what the
// action was about (algorithm, tutorial, challenge or achievement id);
// Detail is a free-form qualifier such as the algorithm kind.
type ActivityEventData struct {
	Kind    string
	Subject string
	Detail  string
	XP      int
}

// ActivityEventRecord is a persisted activity event.
type ActivityEventRecord struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Kind      string
	Subject   string
	Detail    string
	XP        int
}

// ActivityCount is the number of events sharing a kind and detail.
type ActivityCount struct {
	Kind   string
	Detail string
	Count  int
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
}

// LLMRequestEventRecord is a persisted LLM request event.
type LLMRequestEventRecord struct {
	LLMRequestEventData
	ID        int
	Sequence  int64
	Timestamp time.Time
}

// EventRepo provides append and query access to learner events.
type EventRepo interface {
	// AppendActivity records a learner action.
	AppendActivity(ctx context.Context, data ActivityEventData) error

	// QueryActivity returns activity events, newest first.
	QueryActivity(ctx context.Context, opts QueryOpts) ([]ActivityEventRecord, error)

	// ActivityCounts groups all activity by kind and detail.
	ActivityCounts(ctx context.Context) ([]ActivityCount, error)

	// ActiveDays returns the timestamps of activity at or after since.
	ActiveDays(ctx context.Context, since time.Time) ([]time.Time, error)

	// TotalXP sums the XP of every activity event.
	TotalXP(ctx context.Context) (int, error)

	// UnlockedAchievements maps achievement ids to their unlock time.
	UnlockedAchievements(ctx context.Context) (map[string]time.Time, error)

	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns LLM request events, newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)
}

// ProfileRecord is the local learner profile.
type ProfileRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfileRepo reads and writes learner profiles.
type ProfileRepo interface {
	// GetProfile returns the profile with id, or ErrNotFound.
	GetProfile(ctx context.Context, id string) (*ProfileRecord, error)

	// FirstProfile returns the oldest profile, or ErrNotFound.
	FirstProfile(ctx context.Context) (*ProfileRecord, error)

	// UpsertProfile inserts or replaces the profile with p.ID.
	UpsertProfile(ctx context.Context, p ProfileRecord) error
}

// SnapshotData captures derived learner progress at a point in time.
type SnapshotData struct {
	Version  int            `json:"version"`
	Counters map[string]int `json:"counters,omitempty"`
	XP       int            `json:"xp"`
	Level    int            `json:"level"`
	Unlocked []string       `json:"unlocked,omitempty"`
}

// Snapshot represents a point-in-time capture of learner progress.
type Snapshot struct {
	ID        int
	Sequence  int64
	Timestamp time.Time
	Data      SnapshotData
}

// SnapshotRepo manages progress snapshots.
type SnapshotRepo interface {
	// Save stores a new snapshot. A zero Sequence is filled with the
	// current global sequence.
	Save(ctx context.Context, snap *Snapshot) error

	// Latest returns the most recent snapshot, or nil if none exist.
	Latest(ctx context.Context) (*Snapshot, error)

	// Prune deletes all but the N most recent snapshots.
	Prune(ctx context.Context, keep int) error
}
