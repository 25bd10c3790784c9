package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusRecorder implements the Recorder interface using Prometheus metrics.
type PrometheusRecorder struct {
	reconcileTotal    *prometheus.CounterVec
	agentChangesTotal *prometheus.CounterVec
	reconcileDuration *prometheus.HistogramVec
	poolSize          prometheus.Gauge
	assignedAgents    prometheus.Gauge
	movingAgents      prometheus.Gauge
	frameDuration     prometheus.Histogram
}

// NewPrometheusRecorder creates a Prometheus-based recorder registered on reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusRecorder(reg prometheus.Registerer) *PrometheusRecorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &PrometheusRecorder{
		reconcileTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crowd_reconcile_total",
				Help: "Total number of reconciliation passes by mode",
			},
			[]string{"mode"},
		),
		agentChangesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "crowd_agent_changes_total",
				Help: "Agents spawned, retired, orphaned, recruited or released by reconciliation",
			},
			[]string{"mode", "change"},
		),
		reconcileDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "crowd_reconcile_duration_seconds",
				Help:    "Duration of reconciliation passes in seconds",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"mode"},
		),
		poolSize: factory.NewGauge(prometheus.GaugeOpts{
			Name: "crowd_pool_size",
			Help: "Number of agents in the pool after the last reconciliation",
		}),
		assignedAgents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "crowd_assigned_agents",
			Help: "Number of agents assigned to a target after the last reconciliation",
		}),
		movingAgents: factory.NewGauge(prometheus.GaugeOpts{
			Name: "crowd_moving_agents",
			Help: "Number of agents that moved during the last frame",
		}),
		frameDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "crowd_frame_duration_seconds",
			Help:    "Duration of the per-frame steering pass in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
		}),
	}
}

// ObserveReconcile records metrics for a completed reconciliation pass.
func (p *PrometheusRecorder) ObserveReconcile(
	mode string,
	spawned, retired, orphaned, recruited, released int,
	poolSize, assigned int,
	duration time.Duration,
) {
	p.reconcileTotal.WithLabelValues(mode).Inc()

	for change, n := range map[string]int{
		"spawned":   spawned,
		"retired":   retired,
		"orphaned":  orphaned,
		"recruited": recruited,
		"released":  released,
	} {
		if n > 0 {
			p.agentChangesTotal.WithLabelValues(mode, change).Add(float64(n))
		}
	}

	p.reconcileDuration.WithLabelValues(mode).Observe(duration.Seconds())
	p.poolSize.Set(float64(poolSize))
	p.assignedAgents.Set(float64(assigned))
}

// ObserveFrame records metrics for one frame pass.
func (p *PrometheusRecorder) ObserveFrame(_ int, moving int, duration time.Duration) {
	p.movingAgents.Set(float64(moving))
	p.frameDuration.Observe(duration.Seconds())
}

var _ Recorder = (*PrometheusRecorder)(nil)
