package content

import (
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/steps"
)

func TestLoadEmbedded(t *testing.T) {
	cat, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	dl, ok := cat.Achievement("daily_learner")
	if !ok {
		t.Fatal("daily_learner missing from catalog")
	}
	if dl.Metric != achievements.MetricStreakDays || dl.Threshold != 7 || dl.MaxProgress != 7 {
		t.Errorf("daily_learner = %+v", dl)
	}
	if got := achievements.ProgressFor(dl, achievements.Progress{StreakDays: 30}); got != 7 {
		t.Errorf("daily_learner progress at streak 30 = %d, want 7", got)
	}

	for _, alg := range steps.All() {
		if _, ok := cat.Tutorial(alg.Name); !ok {
			t.Errorf("no tutorial for %s", alg.Name)
		}
	}

	ch, ok := cat.Challenge("sort-ascending")
	if !ok {
		t.Fatal("sort-ascending missing")
	}
	if _, ok := ch.Cases[0].Want.([]int); !ok {
		t.Errorf("list want decoded as %T", ch.Cases[0].Want)
	}
	if ch.Cases[0].Target != nil {
		t.Error("sort case should have no target")
	}

	find, _ := cat.Challenge("find-index")
	if find.Cases[0].Target == nil || *find.Cases[0].Target != 42 {
		t.Errorf("find-index target = %v", find.Cases[0].Target)
	}
	if want, ok := find.Cases[0].Want.(int); !ok || want != 5 {
		t.Errorf("find-index want = %#v", find.Cases[0].Want)
	}

	empty, _ := cat.Challenge("sort-ascending")
	last := empty.Cases[len(empty.Cases)-1]
	if w, ok := last.Want.([]int); len(last.Input) != 0 || !ok || len(w) != 0 {
		t.Errorf("empty case = %+v", last)
	}
}

func TestTutorialLookupByAlgorithm(t *testing.T) {
	cat := &Catalog{Tutorials: []Tutorial{{ID: "intro-sorting", Algorithm: "bubble-sort"}}}
	tut, ok := cat.Tutorial("bubble-sort")
	if !ok || tut.ID != "intro-sorting" {
		t.Errorf("Tutorial(bubble-sort) = %+v, %v", tut, ok)
	}
	if _, ok := cat.Tutorial("missing"); ok {
		t.Error("found a missing tutorial")
	}
}

const (
	goodAchievements = `schema_version: v1.0.0
achievements:
  - id: first_steps
    title: First Steps
    metric: visualizations_run
    threshold: 1
    max_progress: 1
    xp_reward: 10
    rarity: common
`
	goodChallenges = `schema_version: v1.1.0
challenges:
  - id: max-value
    title: Max
    prompt: Return the max.
    signature: solve(list) -> number
    xp_reward: 5
    cases:
      - input: [1, 2]
        want: 2
`
	goodTutorials = `schema_version: v1.0.0
tutorials:
  - id: stack
    title: Stacks
    summary: LIFO
    xp_reward: 5
    steps:
      - title: Push
        body: push it
`
)

func testCatalog(ach, ch, tut string) fstest.MapFS {
	return fstest.MapFS{
		"achievements.yaml": {Data: []byte(ach)},
		"challenges.yaml":   {Data: []byte(ch)},
		"tutorials.yaml":    {Data: []byte(tut)},
	}
}

func TestLoadFSValid(t *testing.T) {
	cat, err := LoadFS(testCatalog(goodAchievements, goodChallenges, goodTutorials))
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if len(cat.Achievements) != 1 || len(cat.Challenges) != 1 || len(cat.Tutorials) != 1 {
		t.Errorf("catalog = %+v", cat)
	}
}

func TestLoadFSRejects(t *testing.T) {
	tests := []struct {
		name    string
		fsys    fstest.MapFS
		wantErr string
		is      error
	}{
		{
			name:    "major version 2",
			fsys:    testCatalog(strings.Replace(goodAchievements, "v1.0.0", "v2.0.0", 1), goodChallenges, goodTutorials),
			wantErr: "achievements.yaml",
			is:      ErrVersion,
		},
		{
			name:    "missing required field",
			fsys:    testCatalog(strings.Replace(goodAchievements, "    rarity: common\n", "", 1), goodChallenges, goodTutorials),
			wantErr: "validate achievements.yaml",
		},
		{
			name:    "unknown metric",
			fsys:    testCatalog(strings.Replace(goodAchievements, "visualizations_run", "lines_written", 1), goodChallenges, goodTutorials),
			wantErr: "unknown metric",
		},
		{
			name:    "unknown tutorial algorithm",
			fsys:    testCatalog(goodAchievements, goodChallenges, strings.Replace(goodTutorials, "    summary: LIFO\n", "    algorithm: bogo-sort\n    summary: LIFO\n", 1)),
			wantErr: "unknown algorithm",
			is:      steps.ErrUnknownAlgorithm,
		},
		{
			name:    "want is a string",
			fsys:    testCatalog(goodAchievements, strings.Replace(goodChallenges, "want: 2", "want: two", 1), goodTutorials),
			wantErr: "validate challenges.yaml",
		},
		{
			name:    "missing file",
			fsys:    fstest.MapFS{"achievements.yaml": {Data: []byte(goodAchievements)}},
			wantErr: "read challenges.yaml",
		},
		{
			name:    "bad yaml",
			fsys:    testCatalog("achievements: [", goodChallenges, goodTutorials),
			wantErr: "parse achievements.yaml",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFS(tt.fsys)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want errors.Is %v", err, tt.is)
			}
		})
	}
}

func TestDuplicateIDs(t *testing.T) {
	dup := goodAchievements + strings.TrimPrefix(goodAchievements, "schema_version: v1.0.0\nachievements:\n")
	_, err := LoadFS(testCatalog(dup, goodChallenges, goodTutorials))
	if err == nil || !strings.Contains(err.Error(), "duplicate achievement") {
		t.Errorf("err = %v, want duplicate achievement", err)
	}
}
