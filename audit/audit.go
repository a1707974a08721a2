// Package audit records every orchestrator action as an immutable event.
// The engine appends an event before a state change is considered
// committed, so the sink is the compliance trail for the whole system.
package audit

import (
	"time"
)

// Event is one orchestrator action: a state transition, a collaborator
// call, a retry or an escalation.
type Event struct {
	EventId      string         `json:"eventId"`
	WorkflowId   string         `json:"workflowId"`
	Actor        string         `json:"actor"`
	Action       string         `json:"action"`
	Outcome      string         `json:"outcome"`
	Latency      time.Duration  `json:"latencyMs"`
	AnomalyScore float64        `json:"anomalyScore"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Sink accepts events for durable recording. Record must return only after
// the event is handed to the underlying collector; depending logic does
// not proceed until then.
type Sink interface {
	Record(event Event) error
}

// Scorer assigns an anomaly score to an event before it is recorded. The
// scoring algorithm is pluggable; zero means unremarkable.
type Scorer interface {
	Score(event Event) float64
}

type sinkWithScorer struct {
	collector Collector
	scorer    Scorer
}

// Collector is the storage side of a sink: a log file, a redis stream.
type Collector interface {
	Collect(event Event) error
}

func NewSink(collector Collector, scorer Scorer) Sink {
	return &sinkWithScorer{collector: collector, scorer: scorer}
}

func (s *sinkWithScorer) Record(event Event) error {
	if s.scorer != nil {
		event.AnomalyScore = s.scorer.Score(event)
	}
	return s.collector.Collect(event)
}
