// Package metrics turns session events into prometheus series.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"reactiongame/internal/events"
)

const namespace = "reactiongame"

type Metrics struct {
	reg *prometheus.Registry

	started    *prometheus.CounterVec
	ended      *prometheus.CounterVec
	finalScore *prometheus.HistogramVec
	spawned    *prometheus.CounterVec
	hits       *prometheus.CounterVec
	points     *prometheus.CounterVec
	misses     *prometheus.CounterVec
	reaction   prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_started_total",
			Help:      "Sessions started, by mode.",
		}, []string{"mode"}),
		ended: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_ended_total",
			Help:      "Sessions that reached game over, by mode.",
		}, []string{"mode"}),
		finalScore: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "final_score",
			Help:      "Score at game over, by mode.",
			Buckets:   prometheus.ExponentialBuckets(5, 2, 8),
		}, []string{"mode"}),
		spawned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "targets_spawned_total",
			Help:      "Targets spawned, by target type.",
		}, []string{"type"}),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Direct target hits, by target type.",
		}, []string{"type"}),
		points: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hit_points_total",
			Help:      "Points awarded by hits, by target type.",
		}, []string{"type"}),
		misses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Targets that expired unhit, by mode.",
		}, []string{"mode"}),
		reaction: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "reaction_seconds",
			Help:      "Time from spawn to hit.",
			Buckets:   prometheus.LinearBuckets(0.1, 0.1, 15),
		}),
	}
	m.reg.MustRegister(
		m.started, m.ended, m.finalScore,
		m.spawned, m.hits, m.points, m.misses, m.reaction,
		collectors.NewGoCollector(),
	)
	return m
}

// TrackActiveSessions exposes the registry size as a gauge.
func (m *Metrics) TrackActiveSessions(count func() int) {
	m.reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_sessions",
		Help:      "Sessions currently held in memory.",
	}, func() float64 {
		return float64(count())
	}))
}

// Observe records one session event. It matches the broadcast observer
// signature.
func (m *Metrics) Observe(ev events.Event) {
	switch ev.Kind {
	case events.KindPhase:
		switch {
		case ev.Phase == "playing" && ev.From != "paused":
			m.started.WithLabelValues(ev.Mode).Inc()
		case ev.Phase == "gameOver":
			m.ended.WithLabelValues(ev.Mode).Inc()
			m.finalScore.WithLabelValues(ev.Mode).Observe(float64(ev.Score))
		}
	case events.KindSpawn:
		m.spawned.WithLabelValues(ev.TargetType).Inc()
	case events.KindHit:
		m.hits.WithLabelValues(ev.TargetType).Inc()
		m.points.WithLabelValues(ev.TargetType).Add(float64(ev.Points))
		if !ev.SpawnedAt.IsZero() && ev.At.After(ev.SpawnedAt) {
			m.reaction.Observe(ev.At.Sub(ev.SpawnedAt).Seconds())
		}
	case events.KindMiss:
		m.misses.WithLabelValues(ev.Mode).Inc()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
