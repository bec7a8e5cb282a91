package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/justschema/pkg/domain"
)

// Metrics holds the Prometheus collectors fed by the engine hooks.
type Metrics struct {
	ModelsRegistered   prometheus.Counter
	Definitions        *prometheus.GaugeVec
	Validations        *prometheus.CounterVec
	ValidationErrors   *prometheus.CounterVec
	ValidationDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ModelsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "justschema_models_registered_total",
			Help: "Total number of registered models",
		}),
		Definitions: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "justschema_model_definitions",
				Help: "Number of flattened definitions per registered model",
			},
			[]string{"model"},
		),
		Validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justschema_validations_total",
				Help: "Total number of validation runs",
			},
			[]string{"model", "result"},
		),
		ValidationErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "justschema_validation_errors_total",
				Help: "Total number of reported validation errors",
			},
			[]string{"model"},
		),
		ValidationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "justschema_validation_duration_seconds",
				Help:    "Duration of validation runs",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
			},
			[]string{"model"},
		),
	}
	collectors := []prometheus.Collector{
		m.ModelsRegistered, m.Definitions, m.Validations, m.ValidationErrors, m.ValidationDuration,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record every event.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnModelRegistered: func(_ context.Context, e *domain.ModelEvent) {
			m.ModelsRegistered.Inc()
			m.Definitions.WithLabelValues(e.Model).Set(float64(e.Definitions))
		},
		OnValidation: func(_ context.Context, e *domain.ValidationEvent) {
			result := "valid"
			if !e.Valid() {
				result = "invalid"
			}
			m.Validations.WithLabelValues(e.Model, result).Inc()
			m.ValidationErrors.WithLabelValues(e.Model).Add(float64(e.Errors))
			m.ValidationDuration.WithLabelValues(e.Model).Observe(e.Duration.Seconds())
		},
	}
}
