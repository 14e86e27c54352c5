package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventCatalogLoad EventType = "catalog_load"
	EventEvaluate    EventType = "evaluate"
	EventRejected    EventType = "rejected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CatalogEvent reports the outcome of one catalog load.
// A non-nil Err means the source failed and the catalog degraded to defaults.
type CatalogEvent struct {
	EventBase
	Catalog  string `json:"catalog"`
	Entries  int    `json:"entries"`
	Dropped  int    `json:"dropped"`
	Duration time.Duration
	Err      error `json:"-"`
}

// EvaluateEvent reports a successful pipeline run.
type EvaluateEvent struct {
	EventBase
	Zone  ZoneCode `json:"zone"`
	S     float64  `json:"s"`
	R     float64  `json:"r"`
	Focus string   `json:"focus"`
}

// RejectedEvent reports an answer set that failed validation.
type RejectedEvent struct {
	EventBase
	Missing []string `json:"missing"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnCatalogLoad func(context.Context, *CatalogEvent)
	OnEvaluate    func(context.Context, *EvaluateEvent)
	OnRejected    func(context.Context, *RejectedEvent)
}
