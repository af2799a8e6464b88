package analytics

import (
	"sync"

	"github.com/rs/zerolog"

	"media-sweep/internal/asset"
)

// Event is a named analytics event with a typed property bag. Event names
// are fixed per type; payload shape cannot drift silently.
type Event interface {
	Name() string
	Fields() map[string]interface{}
}

// Sink receives events fire-and-forget. Implementations must never block
// core behavior; failures are swallowed.
type Sink interface {
	Track(e Event)
}

// PreviewOpened fires when a category preview is loaded.
type PreviewOpened struct {
	Category asset.Category
}

func (PreviewOpened) Name() string { return "File Preview Opened" }

func (e PreviewOpened) Fields() map[string]interface{} {
	return map[string]interface{}{"category": e.Category.Title()}
}

// FilesDeleted fires after a successful batch deletion.
type FilesDeleted struct {
	Count      int
	Category   asset.Category
	SpaceFreed int64
}

func (FilesDeleted) Name() string { return "Files Deleted" }

func (e FilesDeleted) Fields() map[string]interface{} {
	return map[string]interface{}{
		"count":       e.Count,
		"category":    e.Category.Title(),
		"space_freed": e.SpaceFreed,
	}
}

// PaywallShown fires when a gated action redirects to the purchase offer.
type PaywallShown struct {
	Trigger string
}

func (PaywallShown) Name() string { return "Paywall Shown" }

func (e PaywallShown) Fields() map[string]interface{} {
	return map[string]interface{}{"trigger": e.Trigger}
}

// PageView fires on screen transitions.
type PageView struct {
	Page string
}

func (PageView) Name() string { return "Page View" }

func (e PageView) Fields() map[string]interface{} {
	return map[string]interface{}{"page_name": e.Page}
}

// LogSink writes events to the application log at debug level.
type LogSink struct {
	log zerolog.Logger
}

// NewLogSink builds a sink over the given logger.
func NewLogSink(log zerolog.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Track(e Event) {
	s.log.Debug().Str("event", e.Name()).Fields(e.Fields()).Msg("analytics")
}

// NopSink discards every event.
type NopSink struct{}

func (NopSink) Track(Event) {}

// CaptureSink records events for assertions in tests.
type CaptureSink struct {
	mu     sync.Mutex
	events []Event
}

func (s *CaptureSink) Track(e Event) {
	s.mu.Lock()
	s.events = append(s.events, e)
	s.mu.Unlock()
}

// Events returns the events tracked so far.
func (s *CaptureSink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Event, len(s.events))
	copy(out, s.events)
	return out
}
