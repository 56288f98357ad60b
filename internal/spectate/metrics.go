package spectate

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vovakirdan/tui-badminton/internal/games/badminton"
)

// Metrics holds the engine and spectator collectors on a private registry.
// Label values are bounded: winner is a side, cause an event kind.
type Metrics struct {
	registry *prometheus.Registry

	ticks       prometheus.Counter
	points      *prometheus.CounterVec
	matches     *prometheus.CounterVec
	rankUps     prometheus.Counter
	faults      prometheus.Counter
	rallyHits   prometheus.Histogram
	rallyTicks  prometheus.Histogram
	tickSeconds prometheus.Histogram
	spectators  prometheus.Gauge
	dropped     prometheus.Counter
}

// NewMetrics registers all collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "badminton_ticks_total",
			Help: "Simulation ticks observed",
		}),
		points: f.NewCounterVec(prometheus.CounterOpts{
			Name: "badminton_points_total",
			Help: "Rallies won",
		}, []string{"winner", "cause"}),
		matches: f.NewCounterVec(prometheus.CounterOpts{
			Name: "badminton_matches_total",
			Help: "Matches finished",
		}, []string{"winner"}),
		rankUps: f.NewCounter(prometheus.CounterOpts{
			Name: "badminton_rank_ups_total",
			Help: "Matches that advanced the human at least one tier",
		}),
		faults: f.NewCounter(prometheus.CounterOpts{
			Name: "badminton_faults_total",
			Help: "Sessions halted by an internal consistency fault",
		}),
		rallyHits: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "badminton_rally_hits",
			Help:    "Racket contacts per rally, serve included",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}),
		rallyTicks: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "badminton_rally_ticks",
			Help:    "Ticks the shuttle was in play per rally",
			Buckets: prometheus.ExponentialBuckets(30, 2, 8),
		}),
		tickSeconds: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "badminton_tick_duration_seconds",
			Help:    "Time spent in one simulation step",
			Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.016},
		}),
		spectators: f.NewGauge(prometheus.GaugeOpts{
			Name: "badminton_spectators",
			Help: "Connected WebSocket spectators",
		}),
		dropped: f.NewCounter(prometheus.CounterOpts{
			Name: "badminton_spectator_frames_dropped_total",
			Help: "Frames dropped because a queue was full",
		}),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveTick records the wall time of one simulation step.
func (m *Metrics) ObserveTick(d time.Duration) {
	m.tickSeconds.Observe(d.Seconds())
}

// observe records the counters for one tick result.
func (m *Metrics) observe(res badminton.TickResult) {
	m.ticks.Inc()
	if p := res.Point; p != nil {
		m.points.WithLabelValues(p.Winner.String(), p.Cause.String()).Inc()
		m.rallyHits.Observe(float64(p.Hits))
		m.rallyTicks.Observe(float64(p.Ticks))
	}
	if r := res.Match; r != nil {
		m.matches.WithLabelValues(r.Winner.String()).Inc()
		if r.Rank.RankedUp() {
			m.rankUps.Inc()
		}
	}
}
