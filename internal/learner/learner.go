// Package learner derives progress from the activity log and implements the
// profile collaborator used by the TUI and the servers.
package learner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/store"
)

// XPPerLevel is the XP needed to advance one level.
const XPPerLevel = 250

// VisualizationXP is granted for every visualization played to completion.
const VisualizationXP = 5

// streakWindow bounds how far back ActiveDays looks.
const streakWindow = 400 * 24 * time.Hour

// keepSnapshots is how many progress snapshots survive a prune.
const keepSnapshots = 10

// DefaultName names the profile created on first launch.
const DefaultName = "Learner"

// ErrInvalidXP is returned by AddXP for non-positive amounts.
var ErrInvalidXP = errors.New("xp amount must be positive")

// Profile is the learner as the UI sees it. XP and Level are derived from
// the activity log and are ignored by SaveProfile.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	XP        int       `json:"xp"`
	Level     int       `json:"level"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileStore is the narrow profile collaborator.
type ProfileStore interface {
	GetProfile(ctx context.Context, id string) (*Profile, error)
	SaveProfile(ctx context.Context, p Profile) error
	AddXP(ctx context.Context, id string, amount int) (int, error)
}

// Service tracks a single local learner.
type Service struct {
	events       store.EventRepo
	profiles     store.ProfileRepo
	snapshots    store.SnapshotRepo
	achievements *achievements.Service
	logger       *slog.Logger
	now          func() time.Time
}

var _ ProfileStore = (*Service)(nil)

// Option configures a Service.
type Option func(*Service)

// WithSnapshots enables progress snapshots after each recorded action.
func WithSnapshots(r store.SnapshotRepo) Option {
	return func(s *Service) { s.snapshots = r }
}

// WithLogger sets the logger used for non-fatal failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a learner Service.
func NewService(events store.EventRepo, profiles store.ProfileRepo, ach *achievements.Service, opts ...Option) *Service {
	s := &Service{
		events:       events,
		profiles:     profiles,
		achievements: ach,
		logger:       slog.Default(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Achievements returns the achievement service the learner syncs against.
func (s *Service) Achievements() *achievements.Service {
	return s.achievements
}

// EnsureProfile returns the local profile, creating one named name on
// first use.
func (s *Service) EnsureProfile(ctx context.Context, name string) (*Profile, error) {
	rec, err := s.profiles.FirstProfile(ctx)
	if err == nil {
		return s.withXP(ctx, rec)
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	if name == "" {
		name = DefaultName
	}
	now := s.now()
	rec = &store.ProfileRecord{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.profiles.UpsertProfile(ctx, *rec); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.withXP(ctx, rec)
}

// GetProfile returns the profile with id.
func (s *Service) GetProfile(ctx context.Context, id string) (*Profile, error) {
	rec, err := s.profiles.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withXP(ctx, rec)
}

// SaveProfile stores the profile's name.
func (s *Service) SaveProfile(ctx context.Context, p Profile) error {
	if p.ID == "" {
		return errors.New("profile id is required")
	}
	created := p.CreatedAt
	if created.IsZero() {
		created = s.now()
	}
	return s.profiles.UpsertProfile(ctx, store.ProfileRecord{
		ID:        p.ID,
		Name:      p.Name,
		CreatedAt: created,
		UpdatedAt: s.now(),
	})
}

// AddXP grants a bonus to the learner and returns the new total.
func (s *Service) AddXP(ctx context.Context, id string, amount int) (int, error) {
	if amount <= 0 {
		return 0, ErrInvalidXP
	}
	if _, err := s.profiles.GetProfile(ctx, id); err != nil {
		return 0, err
	}
	err := s.events.AppendActivity(ctx, store.ActivityEventData{
		Kind:    store.ActivityBonus,
		Subject: id,
		XP:      amount,
	})
	if err != nil {
		return 0, fmt.Errorf("record xp bonus: %w", err)
	}
	if _, err := s.sync(ctx); err != nil {
		return 0, err
	}
	return s.events.TotalXP(ctx)
}

// Progress derives the achievement counters from the activity log.
func (s *Service) Progress(ctx context.Context) (achievements.Progress, error) {
	var p achievements.Progress

	counts, err := s.events.ActivityCounts(ctx)
	if err != nil {
		return p, err
	}
	for _, c := range counts {
		switch c.Kind {
		case store.ActivityVisualization:
			p.VisualizationsRun += c.Count
			switch steps.Kind(c.Detail) {
			case steps.KindSort:
				p.SortsRun += c.Count
			case steps.KindSearch:
				p.SearchesRun += c.Count
			}
		case store.ActivityTutorial:
			if c.Detail == store.DetailFirst {
				p.TutorialsCompleted += c.Count
			}
		case store.ActivityChallenge:
			if c.Detail == store.DetailFirst {
				p.ChallengesSolved += c.Count
			}
		case store.ActivityStackOp:
			p.StackOps += c.Count
		case store.ActivityQueueOp:
			p.QueueOps += c.Count
		}
	}

	now := s.now()
	days, err := s.events.ActiveDays(ctx, now.Add(-streakWindow))
	if err != nil {
		return p, err
	}
	p.StreakDays = Streak(days, now)

	if p.XP, err = s.events.TotalXP(ctx); err != nil {
		return p, err
	}
	return p, nil
}

// Statuses evaluates every achievement against the current progress.
func (s *Service) Statuses(ctx context.Context) ([]achievements.Status, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return nil, err
	}
	return s.achievements.Statuses(ctx, p)
}

// RecordVisualization logs a visualization played to completion.
func (s *Service) RecordVisualization(ctx context.Context, alg steps.Algorithm) ([]achievements.Award, error) {
	return s.record(ctx, store.ActivityEventData{
		Kind:    store.ActivityVisualization,
		Subject: alg.Name,
		Detail:  string(alg.Kind),
		XP:      VisualizationXP,
	})
}

// RecordTutorial logs a finished tutorial. Only the first completion of a
// tutorial earns its XP and counts toward tutorial achievements.
func (s *Service) RecordTutorial(ctx context.Context, t content.Tutorial) ([]achievements.Award, error) {
	first, err := s.firstTime(ctx, store.ActivityTutorial, t.ID)
	if err != nil {
		return nil, err
	}
	ev := store.ActivityEventData{Kind: store.ActivityTutorial, Subject: t.ID, Detail: store.DetailRepeat}
	if first {
		ev.Detail = store.DetailFirst
		ev.XP = t.XPReward
	}
	return s.record(ctx, ev)
}

// RecordChallenge logs a challenge attempt. A first solve earns the
// challenge's XP; failed attempts are kept for the history view.
func (s *Service) RecordChallenge(ctx context.Context, ch content.Challenge, solved bool) ([]achievements.Award, error) {
	ev := store.ActivityEventData{Kind: store.ActivityChallenge, Subject: ch.ID, Detail: store.DetailFailed}
	if solved {
		first, err := s.firstTime(ctx, store.ActivityChallenge, ch.ID)
		if err != nil {
			return nil, err
		}
		ev.Detail = store.DetailRepeat
		if first {
			ev.Detail = store.DetailFirst
			ev.XP = ch.XPReward
		}
	}
	return s.record(ctx, ev)
}

// RecordStackOp logs a push or pop on the structures screen.
func (s *Service) RecordStackOp(ctx context.Context, op string) ([]achievements.Award, error) {
	return s.record(ctx, store.ActivityEventData{Kind: store.ActivityStackOp, Subject: "stack", Detail: op})
}

// RecordQueueOp logs an enqueue or dequeue on the structures screen.
func (s *Service) RecordQueueOp(ctx context.Context, op string) ([]achievements.Award, error) {
	return s.record(ctx, store.ActivityEventData{Kind: store.ActivityQueueOp, Subject: "queue", Detail: op})
}

// History returns the most recent activity, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]store.ActivityEventRecord, error) {
	return s.events.QueryActivity(ctx, store.QueryOpts{Limit: limit})
}

func (s *Service) record(ctx context.Context, ev store.ActivityEventData) ([]achievements.Award, error) {
	if err := s.events.AppendActivity(ctx, ev); err != nil {
		return nil, fmt.Errorf("record %s: %w", ev.Kind, err)
	}
	return s.sync(ctx)
}

// sync awards newly reached achievements and snapshots the result.
func (s *Service) sync(ctx context.Context) ([]achievements.Award, error) {
	p, err := s.Progress(ctx)
	if err != nil {
		return nil, fmt.Errorf("derive progress: %w", err)
	}
	awards, err := s.achievements.Sync(ctx, p)
	if err != nil {
		return awards, err
	}
	for _, a := range awards {
		p.XP += a.XPReward
		s.logger.Info("achievement unlocked", "id", a.ID, "xp", a.XPReward)
	}
	if s.snapshots != nil {
		s.noteLevelUp(ctx, p.XP)
		if err := s.snapshot(ctx, p); err != nil {
			s.logger.Warn("snapshot failed", "error", err)
		}
	}
	return awards, nil
}

// noteLevelUp logs when xp crosses into a level above the last snapshot.
func (s *Service) noteLevelUp(ctx context.Context, xp int) {
	prev, err := s.snapshots.Latest(ctx)
	if err != nil || prev == nil {
		return
	}
	if lvl := Level(xp); lvl > prev.Data.Level {
		s.logger.Info("level up", "from", prev.Data.Level, "to", lvl, "xp", xp)
	}
}

// LastSnapshot returns the most recent progress snapshot, or nil when
// snapshots are disabled or none was taken yet.
func (s *Service) LastSnapshot(ctx context.Context) (*store.Snapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.Latest(ctx)
}

func (s *Service) snapshot(ctx context.Context, p achievements.Progress) error {
	statuses, err := s.achievements.Statuses(ctx, p)
	if err != nil {
		return err
	}
	var unlocked []string
	for _, st := range statuses {
		if st.Unlocked {
			unlocked = append(unlocked, st.ID)
		}
	}
	snap := &store.Snapshot{Data: store.SnapshotData{
		Version:  1,
		Counters: p.Counters(),
		XP:       p.XP,
		Level:    Level(p.XP),
		Unlocked: unlocked,
	}}
	if err := s.snapshots.Save(ctx, snap); err != nil {
		return err
	}
	return s.snapshots.Prune(ctx, keepSnapshots)
}

func (s *Service) firstTime(ctx context.Context, kind, subject string) (bool, error) {
	prior, err := s.events.QueryActivity(ctx, store.QueryOpts{Kind: kind, Subject: subject})
	if err != nil {
		return false, err
	}
	for _, e := range prior {
		if e.Detail == store.DetailFirst {
			return false, nil
		}
	}
	return true, nil
}

func (s *Service) withXP(ctx context.Context, rec *store.ProfileRecord) (*Profile, error) {
	xp, err := s.events.TotalXP(ctx)
	if err != nil {
		return nil, err
	}
	return &Profile{
		ID:        rec.ID,
		Name:      rec.Name,
		XP:        xp,
		Level:     Level(xp),
		CreatedAt: rec.CreatedAt,
	}, nil
}

// Streak counts consecutive active calendar days ending today, or ending
// yesterday when there is no activity yet today. days need not be sorted
// or distinct.
func Streak(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}
	loc := now.Location()
	active := make(map[string]bool, len(days))
	for _, d := range days {
		active[dayKey(d.In(loc))] = true
	}

	day := now
	if !active[dayKey(day)] {
		day = day.AddDate(0, 0, -1)
		if !active[dayKey(day)] {
			return 0
		}
	}
	n := 0
	for active[dayKey(day)] {
		n++
		day = day.AddDate(0, 0, -1)
	}
	return n
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

// Level returns the 1-based level for xp.
func Level(xp int) int {
	if xp < 0 {
		xp = 0
	}
	return 1 + xp/XPPerLevel
}

// LevelProgress returns XP earned within the current level and the XP the
// level spans.
func LevelProgress(xp int) (int, int) {
	if xp < 0 {
		xp = 0
	}
	return xp % XPPerLevel, XPPerLevel
}
