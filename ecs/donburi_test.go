package ecs

import (
	"testing"

	"github.com/phanxgames/spotlight"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []spotlight.Event
	ViewerEventType.Subscribe(world, func(w donburi.World, e spotlight.Event) {
		received = append(received, e)
	})

	sink.EmitEvent(spotlight.Event{Type: spotlight.EventNavigate, CollectionIndex: 1, ItemIndex: 4, Direction: 1})
	sink.EmitEvent(spotlight.Event{Type: spotlight.EventCalibrated, Natural: true})

	if len(received) != 0 {
		t.Fatalf("events delivered before ProcessEvents: %d", len(received))
	}
	ViewerEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != spotlight.EventNavigate || e.ItemIndex != 4 || e.Direction != 1 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != spotlight.EventCalibrated || !e.Natural {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_ViewerEvents(t *testing.T) {
	world := donburi.NewWorld()
	var types []spotlight.EventType
	ViewerEventType.Subscribe(world, func(w donburi.World, e spotlight.Event) {
		types = append(types, e.Type)
	})

	v := spotlight.New(spotlight.Options{})
	v.SetEventSink(NewDonburiSink(world))
	v.SetCollections([]spotlight.Collection{{Items: []spotlight.Item{{Src: "a"}, {Src: "b"}}}})
	v.SetViewport(800, 600)
	if err := v.OpenAt(0, 0); err != nil {
		t.Fatal(err)
	}
	v.Next()
	v.Close()
	events.ProcessAllEvents(world)

	want := []spotlight.EventType{
		spotlight.EventOpen, spotlight.EventLoad,
		spotlight.EventNavigate, spotlight.EventLoad,
		spotlight.EventClose,
	}
	if len(types) != len(want) {
		t.Fatalf("types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, types[i], want[i])
		}
	}
}

func TestMultiSink(t *testing.T) {
	world := donburi.NewWorld()
	var a, b int
	ViewerEventType.Subscribe(world, func(w donburi.World, e spotlight.Event) { a++ })

	other := donburi.NewWorld()
	ViewerEventType.Subscribe(other, func(w donburi.World, e spotlight.Event) { b++ })

	sink := MultiSink(NewDonburiSink(world), nil, NewDonburiSink(other))
	sink.EmitEvent(spotlight.Event{Type: spotlight.EventClose})
	events.ProcessAllEvents(world)
	events.ProcessAllEvents(other)

	if a != 1 || b != 1 {
		t.Errorf("deliveries = %d, %d; want 1, 1", a, b)
	}
}
