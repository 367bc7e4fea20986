package provider

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// instrumented records call counts and latency around another provider.
type instrumented struct {
	next     ChatProvider
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// Instrument wraps p so every completion is counted in reg.
func Instrument(p ChatProvider, reg prometheus.Registerer) ChatProvider {
	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "mistral_chat_completions_total",
		Help: "Completion calls by model and outcome.",
	}, []string{"provider", "model", "outcome"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mistral_chat_completion_duration_seconds",
		Help:    "Completion round-trip latency.",
		Buckets: []float64{.25, .5, 1, 2, 5, 10, 20, 30},
	}, []string{"provider", "model"})
	reg.MustRegister(calls, duration)
	return &instrumented{next: p, calls: calls, duration: duration}
}

func (i *instrumented) Name() string { return i.next.Name() }

func (i *instrumented) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	start := time.Now()
	text, err := i.next.Complete(ctx, req)
	i.duration.WithLabelValues(i.next.Name(), req.Model).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	i.calls.WithLabelValues(i.next.Name(), req.Model, outcome).Inc()
	return text, err
}
