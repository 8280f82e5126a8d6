package ecs

import (
	"github.com/phanxgames/spotlight"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ViewerEventType is the Donburi event type for viewer events.
var ViewerEventType = events.NewEventType[spotlight.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink that publishes to ViewerEventType.
// Events are queued until ProcessEvents or events.ProcessAllEvents runs.
func NewDonburiSink(world donburi.World) spotlight.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(e spotlight.Event) {
	ViewerEventType.Publish(s.world, e)
}

// MultiSink fans one event out to several sinks in order. Nil sinks are skipped.
func MultiSink(sinks ...spotlight.EventSink) spotlight.EventSink {
	return multiSink(sinks)
}

type multiSink []spotlight.EventSink

func (m multiSink) EmitEvent(e spotlight.Event) {
	for _, s := range m {
		if s != nil {
			s.EmitEvent(e)
		}
	}
}
