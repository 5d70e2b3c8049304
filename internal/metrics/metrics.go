// Package metrics exposes clock engine activity as Prometheus metrics.
package metrics

import (
	"github.com/acolita/ringclock/internal/clock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements clock.Observer by updating Prometheus collectors.
type Recorder struct {
	ticks     prometheus.Counter
	carries   *prometheus.CounterVec
	syncs     prometheus.Counter
	adjusts   prometheus.Counter
	position  *prometheus.GaugeVec
	wsClients prometheus.Gauge
}

// NewRecorder registers the clock collectors with reg.
// Passing prometheus.DefaultRegisterer exposes them on the default /metrics handler.
func NewRecorder(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		ticks: f.NewCounter(prometheus.CounterOpts{
			Name: "ringclock_ticks_total",
			Help: "Number of one-second ticks applied to the engine",
		}),
		carries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ringclock_carries_total",
			Help: "Number of carries into a coarser ring",
		}, []string{"ring"}),
		syncs: f.NewCounter(prometheus.CounterOpts{
			Name: "ringclock_syncs_total",
			Help: "Number of synchronizations with the host clock",
		}),
		adjusts: f.NewCounter(prometheus.CounterOpts{
			Name: "ringclock_adjustments_total",
			Help: "Number of explicit set-time calls",
		}),
		position: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ringclock_position",
			Help: "Current value of each ring",
		}, []string{"ring"}),
		wsClients: f.NewGauge(prometheus.GaugeOpts{
			Name: "ringclock_stream_clients",
			Help: "Number of connected live stream clients",
		}),
	}
}

func (r *Recorder) setPosition(t clock.Time) {
	r.position.WithLabelValues("hour").Set(float64(t.Hour))
	r.position.WithLabelValues("minute").Set(float64(t.Minute))
	r.position.WithLabelValues("second").Set(float64(t.Second))
}

// Ticked implements clock.Observer.
func (r *Recorder) Ticked(t clock.Time, c clock.Carry) {
	r.ticks.Inc()
	if c.Minute {
		r.carries.WithLabelValues("minute").Inc()
	}
	if c.Hour {
		r.carries.WithLabelValues("hour").Inc()
	}
	r.setPosition(t)
}

// Synced implements clock.Observer.
func (r *Recorder) Synced(t clock.Time) {
	r.syncs.Inc()
	r.setPosition(t)
}

// Adjusted implements clock.Observer.
func (r *Recorder) Adjusted(t clock.Time) {
	r.adjusts.Inc()
	r.setPosition(t)
}

// StreamClientConnected tracks a new live stream client.
func (r *Recorder) StreamClientConnected() { r.wsClients.Inc() }

// StreamClientDisconnected tracks a closed live stream client.
func (r *Recorder) StreamClientDisconnected() { r.wsClients.Dec() }

var _ clock.Observer = (*Recorder)(nil)
