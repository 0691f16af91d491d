package playback

import (
	"context"
	"sync"
	"time"
)

// EventKind names a recorded executor call.
type EventKind string

const (
	EventSleep EventKind = "sleep"
	EventMove  EventKind = "move"
	EventKeys  EventKind = "keys"
	EventPaste EventKind = "paste"
)

// Event is one recorded executor call.
type Event struct {
	Kind     EventKind     `json:"kind"`
	DX       int           `json:"dx,omitempty"`
	DY       int           `json:"dy,omitempty"`
	Text     string        `json:"text,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
}

// Recorder is an Executor that records every call. In realtime mode Sleep
// actually waits, which makes it a dry-run backend for the CLI; otherwise
// it returns immediately.
type Recorder struct {
	mu       sync.Mutex
	realtime bool
	events   []Event
	x, y     int
	typed    []rune
}

// NewRecorder creates a Recorder.
func NewRecorder(realtime bool) *Recorder {
	return &Recorder{realtime: realtime, events: make([]Event, 0)}
}

func (r *Recorder) Sleep(ctx context.Context, d time.Duration) error {
	r.record(Event{Kind: EventSleep, Duration: d})
	if !r.realtime || d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (r *Recorder) MoveBy(ctx context.Context, dx, dy int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventMove, DX: dx, DY: dy})
	r.x += dx
	r.y += dy
	return nil
}

func (r *Recorder) SendKeys(ctx context.Context, keys string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventKeys, Text: keys})
	for _, k := range keys {
		if k == '\b' {
			if len(r.typed) > 0 {
				r.typed = r.typed[:len(r.typed)-1]
			}
			continue
		}
		r.typed = append(r.typed, k)
	}
	return nil
}

func (r *Recorder) Paste(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, Event{Kind: EventPaste, Text: text})
	r.typed = append(r.typed, []rune(text)...)
	return nil
}

func (r *Recorder) record(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of everything recorded so far.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)
	return out
}

// Position is the pointer offset accumulated from all moves.
func (r *Recorder) Position() (x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.x, r.y
}

// Typed is the text a focused field would hold after the recorded keys.
func (r *Recorder) Typed() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return string(r.typed)
}

// Elapsed sums the recorded sleeps.
func (r *Recorder) Elapsed() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total time.Duration
	for _, e := range r.events {
		if e.Kind == EventSleep {
			total += e.Duration
		}
	}
	return total
}
