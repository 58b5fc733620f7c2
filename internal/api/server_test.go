package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/algoquest/internal/achievements"
	"github.com/abhisek/algoquest/internal/cache"
	"github.com/abhisek/algoquest/internal/learner"
	"github.com/abhisek/algoquest/internal/logging"
	"github.com/abhisek/algoquest/internal/steps"
	"github.com/abhisek/algoquest/internal/store"
)

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	opts = append([]Option{WithCache(cache.NewMemory(16)), WithLogger(logging.NewNop())}, opts...)
	ts := httptest.NewServer(NewServer(opts...).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func newTestLearner(t *testing.T) *learner.Service {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	st, err := store.Open(fmt.Sprintf("file:api_%s?mode=memory&cache=shared", name))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	defs := []achievements.Definition{
		{ID: "first_steps", Title: "First Steps", Metric: achievements.MetricVisualizationsRun, Threshold: 1, MaxProgress: 1, XPReward: 10, Rarity: achievements.RarityCommon},
	}
	return learner.NewService(st.EventRepo(), st.ProfileRepo(), achievements.NewService(defs, st.EventRepo()))
}

func postSteps(t *testing.T, ts *httptest.Server, name, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(ts.URL+"/api/algorithms/"+name+"/steps", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, b
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
}

func TestListAlgorithms(t *testing.T) {
	ts := newTestServer(t)
	resp, err := http.Get(ts.URL + "/api/algorithms")
	require.NoError(t, err)
	defer resp.Body.Close()

	var algs []steps.Algorithm
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&algs))
	require.Len(t, algs, len(steps.All()))
	for i, a := range steps.All() {
		assert.Equal(t, a.Name, algs[i].Name)
	}
}

func TestGenerateSteps(t *testing.T) {
	ts := newTestServer(t)

	resp, body := postSteps(t, ts, "binary-search", `{"data":[1,3,5,7,9],"target":7}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got StepsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "binary-search", got.Algorithm)
	assert.False(t, got.Cached)
	require.NotNil(t, got.Target)
	assert.Equal(t, 7, *got.Target)
	assert.Equal(t, got.Steps, got.History.Len())
	assert.True(t, got.History.Outcome.Found)
	assert.Equal(t, 3, got.History.Outcome.Index)

	_, body = postSteps(t, ts, "binary-search", `{"data":[1,3,5,7,9],"target":7}`)
	require.NoError(t, json.Unmarshal(body, &got))
	assert.True(t, got.Cached)
}

func TestGenerateStepsUsesSample(t *testing.T) {
	ts := newTestServer(t)
	alg, err := steps.Lookup("bubble-sort")
	require.NoError(t, err)

	resp, body := postSteps(t, ts, "bubble-sort", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var got StepsResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, alg.Sample, got.Data)
	assert.Nil(t, got.Target)
	assert.Equal(t, steps.OutcomeSorted, got.History.Outcome.Kind)
}

func TestGenerateStepsErrors(t *testing.T) {
	ts := newTestServer(t)
	tooMany := make([]string, 40)
	for i := range tooMany {
		tooMany[i] = "1"
	}

	tests := []struct {
		name   string
		alg    string
		body   string
		status int
	}{
		{"unknown algorithm", "bogo-sort", `{}`, http.StatusBadRequest},
		{"bad json", "bubble-sort", `{"data":`, http.StatusBadRequest},
		{"too many values", "bubble-sort", `{"data":[` + strings.Join(tooMany, ",") + `]}`, http.StatusBadRequest},
		{"value out of range", "bubble-sort", `{"data":[1,100000]}`, http.StatusBadRequest},
		{"unsorted binary search", "binary-search", `{"data":[3,1,2],"target":1}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postSteps(t, ts, tt.alg, tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)

			var e errorBody
			require.NoError(t, json.Unmarshal(body, &e))
			assert.NotEmpty(t, e.Error)
		})
	}
}

func TestLearnerRoutes(t *testing.T) {
	l := newTestLearner(t)
	alg, err := steps.Lookup("linear-search")
	require.NoError(t, err)
	_, err = l.RecordVisualization(context.Background(), alg)
	require.NoError(t, err)

	ts := newTestServer(t, WithLearner(l))

	resp, err := http.Get(ts.URL + "/api/progress")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var p ProgressResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&p))
	assert.Equal(t, 1, p.Progress.VisualizationsRun)
	assert.Equal(t, learner.VisualizationXP+10, p.Progress.XP)
	require.NotNil(t, p.Profile)
	assert.Equal(t, learner.DefaultName, p.Profile.Name)

	resp2, err := http.Get(ts.URL + "/api/achievements")
	require.NoError(t, err)
	defer resp2.Body.Close()

	var statuses []achievements.Status
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&statuses))
	require.Len(t, statuses, 1)
	assert.True(t, statuses[0].Unlocked)
}

func TestLearnerRoutesWithoutStore(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/api/progress", "/api/achievements"} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode, path)
	}
}

func TestMetrics(t *testing.T) {
	ts := newTestServer(t)
	postSteps(t, ts, "insertion-sort", `{"data":[3,2,1]}`)
	postSteps(t, ts, "insertion-sort", `{"data":[3,2,1]}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(b)
	assert.Contains(t, text, `algoquest_histories_generated_total{algorithm="insertion-sort"} 2`)
	assert.Contains(t, text, "algoquest_history_cache_hits_total 1")
	assert.Contains(t, text, "algoquest_history_cache_misses_total 1")
	assert.Contains(t, text, `algoquest_http_requests_total{code="200",route="/api/algorithms/{name}/steps"} 2`)
}
