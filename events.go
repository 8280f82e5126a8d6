package spotlight

import "time"

// EventType identifies an outbound viewer event.
type EventType uint8

const (
	EventOpen       EventType = iota // viewer opened on an item
	EventLoad                        // an item load was requested
	EventNavigate                    // next/prev moved the active index
	EventClose                       // viewer closed
	EventCalibrated                  // trackpad direction measured and stored
	EventFullscreen                  // fullscreen toggled
)

var eventTypeNames = [...]string{
	EventOpen:       "open",
	EventLoad:       "load",
	EventNavigate:   "navigate",
	EventClose:      "close",
	EventCalibrated: "calibrated",
	EventFullscreen: "fullscreen",
}

func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "unknown"
}

// Event is a notification emitted to the EventSink.
type Event struct {
	Type            EventType
	Time            time.Time
	CollectionIndex int
	ItemIndex       int
	Direction       int  // EventNavigate/EventLoad: +1 next, -1 prev, 0 none
	Natural         bool // EventCalibrated
	Fullscreen      bool // EventFullscreen
}

// EventSink receives viewer events. Adapters bridge it to an ECS world or a
// network broadcast.
type EventSink interface {
	EmitEvent(Event)
}

// SetEventSink attaches a sink. Pass nil to detach.
func (v *Viewer) SetEventSink(sink EventSink) {
	v.sink = sink
}

func (v *Viewer) emit(e Event) {
	if v.sink == nil {
		return
	}
	if e.Time.IsZero() {
		e.Time = v.sched.Now()
	}
	v.sink.EmitEvent(e)
}
