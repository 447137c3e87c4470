package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursetable/ga-engine/internal/ga"
)

func TestRecorderObserveAndScrape(t *testing.T) {
	r := New()
	r.Observe(ga.GenerationStats{
		Generation:      3,
		BestFitness:     0.75,
		BestHardPenalty: 0,
		BestSoftPenalty: 12.5,
		IsFeasible:      true,
		AvgFitness:      0.5,
		Stagnation:      2,
	})
	r.SetCacheHitRatio(0.42)
	r.ObserveRun(1.5)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "ga_generation 3")
	assert.Contains(t, body, "ga_best_is_feasible 1")
	assert.True(t, strings.Contains(body, "ga_fitness_cache_hit_ratio"))
}

func TestNilRecorderMethodsAreNoOps(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Observe(ga.GenerationStats{})
		r.SetCacheHitRatio(1)
		r.ObserveRun(1)
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	r.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
