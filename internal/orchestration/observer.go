package orchestration

import (
	"sort"
	"time"

	"github.com/go-logr/logr"
)

// Observer receives structured events while the orchestrator runs.
type Observer interface {
	Event(event Event)
}

// Event represents a structured orchestration event.
type Event struct {
	Type      EventType         // Type of event
	Node      string            // Node address, empty for cluster-wide events
	Message   string            // Human-readable message
	Timestamp time.Time         // When the event occurred
	Fields    map[string]string // Additional contextual fields
}

// EventType represents the type of orchestration event.
type EventType string

const (
	// EventNodeProbed indicates a node's swarm status was read.
	EventNodeProbed EventType = "node.probed"
	// EventNodeInitialized indicates a new swarm was created on the primary.
	EventNodeInitialized EventType = "node.initialized"
	// EventNodeJoined indicates a node joined the swarm.
	EventNodeJoined EventType = "node.joined"
	// EventNodeUnchanged indicates a node already was a swarm member.
	EventNodeUnchanged EventType = "node.unchanged"
	// EventCredentialsIssued indicates join credentials were read from the primary.
	EventCredentialsIssued EventType = "credentials.issued"
	// EventLabelsApplied indicates a node's labels were applied.
	EventLabelsApplied EventType = "labels.applied"
)

// LogObserver writes events to a logr.Logger.
type LogObserver struct {
	log logr.Logger
}

// NewLogObserver creates an observer logging at info level.
func NewLogObserver(log logr.Logger) *LogObserver {
	return &LogObserver{log: log}
}

// Event implements Observer.
func (o *LogObserver) Event(event Event) {
	kv := make([]any, 0, 4+2*len(event.Fields))
	kv = append(kv, "event", string(event.Type))
	if event.Node != "" {
		kv = append(kv, "node", event.Node)
	}

	keys := make([]string, 0, len(event.Fields))
	for k := range event.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		kv = append(kv, k, event.Fields[k])
	}

	o.log.Info(event.Message, kv...)
}

type nopObserver struct{}

func (nopObserver) Event(Event) {}

func emit(observer Observer, typ EventType, node, message string, fields map[string]string) {
	observer.Event(Event{
		Type:      typ,
		Node:      node,
		Message:   message,
		Timestamp: time.Now(),
		Fields:    fields,
	})
}
