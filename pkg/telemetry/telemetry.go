// Package telemetry records user interaction events from the new-tab
// surface: clicks on story cards, spotlight items, and onboarding controls.
package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Hwangyonghwan/activity-stream/pkg/actions"
)

// UserEvent is one interaction notification.
type UserEvent struct {
	// Event is the interaction kind (e.g., "CLICK", "BLOCK", "DELETE").
	Event string `json:"event"`

	// Page identifies the surface page (e.g., "NEW_TAB").
	Page string `json:"page"`

	// Source identifies the originating component (e.g., "TOP_STORIES").
	Source string `json:"source"`

	// ActionPosition is the zero-based index of the clicked item.
	ActionPosition int `json:"action_position"`
}

// Collector records user events.
type Collector interface {
	Record(UserEvent)
}

// CollectorFunc adapts a function to the Collector interface.
type CollectorFunc func(UserEvent)

// Record implements Collector.
func (f CollectorFunc) Record(ev UserEvent) {
	f(ev)
}

// Discard is a Collector that drops all events. Useful in tests.
var Discard = CollectorFunc(func(UserEvent) {})

// DispatchCollector forwards user events onto the action stream as
// TypeUserEvent actions, instrumented with prometheus and otel.
type DispatchCollector struct {
	out    actions.Dispatcher
	tracer trace.Tracer
	events *prometheus.CounterVec
}

// CollectorOption configures a DispatchCollector.
type CollectorOption func(*collectorConfig)

type collectorConfig struct {
	namespace string
	registry  prometheus.Registerer
}

// WithNamespace sets the metrics namespace.
func WithNamespace(ns string) CollectorOption {
	return func(c *collectorConfig) {
		c.namespace = ns
	}
}

// WithRegistry sets the prometheus registry.
func WithRegistry(r prometheus.Registerer) CollectorOption {
	return func(c *collectorConfig) {
		c.registry = r
	}
}

// NewDispatchCollector creates a collector that dispatches user events to
// out and counts them by event and source.
func NewDispatchCollector(out actions.Dispatcher, opts ...CollectorOption) *DispatchCollector {
	config := collectorConfig{
		namespace: "activitystream",
		registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(config.registry)
	return &DispatchCollector{
		out:    out,
		tracer: otel.Tracer("activity-stream/telemetry"),
		events: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: config.namespace,
			Name:      "user_events_total",
			Help:      "Total user interaction events by event kind and source",
		}, []string{"event", "source"}),
	}
}

// Record implements Collector.
func (c *DispatchCollector) Record(ev UserEvent) {
	_, span := c.tracer.Start(context.Background(), "telemetry.user_event",
		trace.WithAttributes(
			attribute.String("event", ev.Event),
			attribute.String("source", ev.Source),
			attribute.Int("action_position", ev.ActionPosition),
		))
	defer span.End()

	c.events.WithLabelValues(ev.Event, ev.Source).Inc()
	c.out.Dispatch(actions.OnlyToMain(actions.TypeUserEvent, ev))
}
