package learner

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/content"
	"github.com/abhisek/algoquest/internal/logging"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/store"
)

func newTestService(t *testing.T, defs []achievements.Definition) (*Service, *store.Store) {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:learner_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	ach := achievements.NewService(defs, st.EventRepo())
	svc := NewService(st.EventRepo(), st.ProfileRepo(), ach, WithSnapshots(st.SnapshotRepo()))
	return svc, st
}

func mustAlg(t *testing.T, name string) steps.Algorithm {
	t.Helper()
	alg, err := steps.Lookup(name)
	require.NoError(t, err)
	return alg
}

func TestStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time { return now.AddDate(0, 0, -offset) }

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"none", nil, 0},
		{"today only", []time.Time{day(0)}, 1},
		{"yesterday only", []time.Time{day(1)}, 1},
		{"two days ago breaks", []time.Time{day(2), day(3)}, 0},
		{"run with duplicates", []time.Time{day(0), day(0), day(1), day(2), day(4)}, 3},
		{"unsorted", []time.Time{day(2), day(0), day(1)}, 3},
		{"run ending yesterday", []time.Time{day(1), day(2), day(3), day(4), day(5), day(6), day(7)}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Streak(tt.days, now); got != tt.want {
				t.Errorf("Streak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestLevel(t *testing.T) {
	tests := []struct {
		xp, want int
	}{
		{-5, 1}, {0, 1}, {249, 1}, {250, 2}, {999, 4}, {1000, 5},
	}
	for _, tt := range tests {
		if got := Level(tt.xp); got != tt.want {
			t.Errorf("Level(%d) = %d, want %d", tt.xp, got, tt.want)
		}
	}
	cur, span := LevelProgress(260)
	assert.Equal(t, 10, cur)
	assert.Equal(t, XPPerLevel, span)
}

func TestEnsureProfileCreatesOnce(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p, err := svc.EnsureProfile(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultName, p.Name)
	assert.NotEmpty(t, p.ID)
	assert.Equal(t, 1, p.Level)

	again, err := svc.EnsureProfile(ctx, "Other")
	require.NoError(t, err)
	assert.Equal(t, p.ID, again.ID)
	assert.Equal(t, DefaultName, again.Name)
}

func TestSaveAndGetProfile(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p, err := svc.EnsureProfile(ctx, "Ada")
	require.NoError(t, err)

	p.Name = "Grace"
	require.NoError(t, svc.SaveProfile(ctx, *p))

	got, err := svc.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", got.Name)

	_, err = svc.GetProfile(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	assert.Error(t, svc.SaveProfile(ctx, Profile{Name: "no id"}))
}

func TestAddXP(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	p, err := svc.EnsureProfile(ctx, "")
	require.NoError(t, err)

	total, err := svc.AddXP(ctx, p.ID, 300)
	require.NoError(t, err)
	assert.Equal(t, 300, total)

	got, err := svc.GetProfile(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Level)

	_, err = svc.AddXP(ctx, p.ID, 0)
	assert.ErrorIs(t, err, ErrInvalidXP)
	_, err = svc.AddXP(ctx, "missing", 10)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestProgressFromActivity(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	for _, name := range []string{"bubble-sort", "insertion-sort", "binary-search"} {
		_, err := svc.RecordVisualization(ctx, mustAlg(t, name))
		require.NoError(t, err)
	}
	tut := content.Tutorial{ID: "stack", XPReward: 20}
	_, err := svc.RecordTutorial(ctx, tut)
	require.NoError(t, err)
	_, err = svc.RecordTutorial(ctx, tut)
	require.NoError(t, err)

	ch := content.Challenge{ID: "max-value", XPReward: 30}
	_, err = svc.RecordChallenge(ctx, ch, false)
	require.NoError(t, err)
	_, err = svc.RecordChallenge(ctx, ch, true)
	require.NoError(t, err)
	_, err = svc.RecordChallenge(ctx, ch, true)
	require.NoError(t, err)

	_, err = svc.RecordStackOp(ctx, "push")
	require.NoError(t, err)
	_, err = svc.RecordQueueOp(ctx, "enqueue")
	require.NoError(t, err)
	_, err = svc.RecordQueueOp(ctx, "dequeue")
	require.NoError(t, err)

	p, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, achievements.Progress{
		TutorialsCompleted: 1,
		StreakDays:         1,
		VisualizationsRun:  3,
		SortsRun:           2,
		SearchesRun:        1,
		ChallengesSolved:   1,
		StackOps:           1,
		QueueOps:           2,
		XP:                 3*VisualizationXP + 20 + 30,
	}, p)
}

func TestRecordAwardsAchievements(t *testing.T) {
	defs := []achievements.Definition{
		{ID: "first_steps", Metric: achievements.MetricVisualizationsRun, Threshold: 1, MaxProgress: 1, XPReward: 10, Rarity: achievements.RarityCommon},
		{ID: "sort_fan", Metric: achievements.MetricSortsRun, Threshold: 2, MaxProgress: 2, XPReward: 20, Rarity: achievements.RarityRare},
	}
	svc, st := newTestService(t, defs)
	ctx := context.Background()

	awards, err := svc.RecordVisualization(ctx, mustAlg(t, "bubble-sort"))
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "first_steps", awards[0].ID)

	awards, err = svc.RecordVisualization(ctx, mustAlg(t, "linear-search"))
	require.NoError(t, err)
	assert.Empty(t, awards)

	awards, err = svc.RecordVisualization(ctx, mustAlg(t, "selection-sort"))
	require.NoError(t, err)
	require.Len(t, awards, 1)
	assert.Equal(t, "sort_fan", awards[0].ID)

	p, err := svc.Progress(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3*VisualizationXP+10+20, p.XP)

	statuses, err := svc.Statuses(ctx)
	require.NoError(t, err)
	for _, s := range statuses {
		assert.True(t, s.Unlocked, s.ID)
	}

	snap, err := st.SnapshotRepo().Latest(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, p.XP, snap.Data.XP)
	assert.ElementsMatch(t, []string{"first_steps", "sort_fan"}, snap.Data.Unlocked)
}

func TestHistoryNewestFirst(t *testing.T) {
	svc, _ := newTestService(t, nil)
	ctx := context.Background()

	_, err := svc.RecordStackOp(ctx, "push")
	require.NoError(t, err)
	_, err = svc.RecordStackOp(ctx, "pop")
	require.NoError(t, err)

	events, err := svc.History(ctx, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "pop", events[0].Detail)
}

func TestLastSnapshotAndLevelUp(t *testing.T) {
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:learner_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	var logs bytes.Buffer
	svc := NewService(st.EventRepo(), st.ProfileRepo(), achievements.NewService(nil, st.EventRepo()),
		WithSnapshots(st.SnapshotRepo()),
		WithLogger(logging.New(slog.LevelInfo, &logs)),
	)
	ctx := context.Background()

	snap, err := svc.LastSnapshot(ctx)
	require.NoError(t, err)
	assert.Nil(t, snap)

	p, err := svc.EnsureProfile(ctx, "")
	require.NoError(t, err)
	_, err = svc.RecordVisualization(ctx, mustAlg(t, "bubble-sort"))
	require.NoError(t, err)
	assert.NotContains(t, logs.String(), "level up")

	_, err = svc.AddXP(ctx, p.ID, XPPerLevel)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "level up")
	assert.Contains(t, logs.String(), "to=2")

	snap, err = svc.LastSnapshot(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.Equal(t, 2, snap.Data.Level)
	assert.Equal(t, VisualizationXP+XPPerLevel, snap.Data.XP)
}

func TestLastSnapshotDisabled(t *testing.T) {
	svc, _ := newTestService(t, nil)
	plain := NewService(svc.events, svc.profiles, svc.achievements)

	snap, err := plain.LastSnapshot(context.Background())
	assert.NoError(t, err)
	assert.Nil(t, snap)
}
