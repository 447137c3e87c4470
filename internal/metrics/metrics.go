// Package metrics exposes Prometheus instrumentation for the GA engine:
// per-generation fitness/penalty gauges, cache hit ratio, and run
// counters, registered on a private registry so multiple engine runs in
// the same process don't collide.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/coursetable/ga-engine/internal/ga"
)

// Recorder instruments a single engine run.
type Recorder struct {
	registry *prometheus.Registry
	handler  http.Handler

	generation      prometheus.Gauge
	bestFitness     prometheus.Gauge
	bestHardPenalty prometheus.Gauge
	bestSoftPenalty prometheus.Gauge
	avgFitness      prometheus.Gauge
	stagnation      prometheus.Gauge
	feasible        prometheus.Gauge
	cacheHitRatio   prometheus.Gauge
	runsTotal       prometheus.Counter
	runDuration     prometheus.Histogram
}

// New registers the engine's collectors on a fresh registry.
func New() *Recorder {
	registry := prometheus.NewRegistry()

	r := &Recorder{
		registry: registry,
		generation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_generation",
			Help: "Index of the most recently completed generation",
		}),
		bestFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_best_fitness",
			Help: "Fitness of the best chromosome found so far",
		}),
		bestHardPenalty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_best_hard_penalty",
			Help: "Hard constraint penalty of the best chromosome found so far",
		}),
		bestSoftPenalty: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_best_soft_penalty",
			Help: "Soft constraint penalty of the best chromosome found so far",
		}),
		avgFitness: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_avg_fitness",
			Help: "Average fitness across the current population",
		}),
		stagnation: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_stagnation_generations",
			Help: "Consecutive generations without improvement to the best fitness",
		}),
		feasible: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_best_is_feasible",
			Help: "1 if the best chromosome found so far has zero hard violations, else 0",
		}),
		cacheHitRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "ga_fitness_cache_hit_ratio",
			Help: "Fitness cache hit ratio for the current run",
		}),
		runsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ga_runs_total",
			Help: "Total number of engine runs started in this process",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ga_run_duration_seconds",
			Help:    "Wall-clock duration of completed engine runs",
			Buckets: prometheus.DefBuckets,
		}),
	}

	registry.MustRegister(
		r.generation,
		r.bestFitness,
		r.bestHardPenalty,
		r.bestSoftPenalty,
		r.avgFitness,
		r.stagnation,
		r.feasible,
		r.cacheHitRatio,
		r.runsTotal,
		r.runDuration,
	)
	r.handler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	return r
}

// Handler exposes the Prometheus scrape endpoint for this recorder.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return r.handler
}

// Observe updates the per-generation gauges from a GenerationStats
// record. Intended as a ga.ProgressFunc body.
func (r *Recorder) Observe(stats ga.GenerationStats) {
	if r == nil {
		return
	}
	r.generation.Set(float64(stats.Generation))
	r.bestFitness.Set(stats.BestFitness)
	r.bestHardPenalty.Set(stats.BestHardPenalty)
	r.bestSoftPenalty.Set(stats.BestSoftPenalty)
	r.avgFitness.Set(stats.AvgFitness)
	r.stagnation.Set(float64(stats.Stagnation))
	if stats.IsFeasible {
		r.feasible.Set(1)
	} else {
		r.feasible.Set(0)
	}
}

// SetCacheHitRatio records the fitness cache's hit ratio at run end.
func (r *Recorder) SetCacheHitRatio(ratio float64) {
	if r == nil {
		return
	}
	r.cacheHitRatio.Set(ratio)
}

// ObserveRun records that a run finished, with its total wall-clock time.
func (r *Recorder) ObserveRun(seconds float64) {
	if r == nil {
		return
	}
	r.runsTotal.Inc()
	r.runDuration.Observe(seconds)
}
