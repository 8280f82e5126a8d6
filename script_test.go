package spotlight

import "testing"

func TestLoadScript(t *testing.T) {
	data := []byte(`{
		"steps": [
			{"action": "wheel", "dx": 8, "dy": 1, "repeat": 3},
			{"action": "wait", "frames": 3},
			{"action": "drag", "pointer": "touch", "fromX": 500, "fromY": 300, "toX": 500, "toY": 500, "frames": 6},
			{"action": "pinch", "x": 500, "y": 400, "startDist": 100, "endDist": 200, "frames": 4},
			{"action": "key", "key": "Escape"}
		]
	}`)
	runner, err := LoadScript(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runner.steps) != 5 {
		t.Fatalf("expected 5 steps, got %d", len(runner.steps))
	}
	if s := runner.steps[0]; s.Action != "wheel" || s.DX != 8 || s.Repeat != 3 {
		t.Errorf("step 0 mismatch: %+v", s)
	}
	if s := runner.steps[2]; s.Pointer != "touch" || s.ToY != 500 || s.Frames != 6 {
		t.Errorf("step 2 mismatch: %+v", s)
	}
	if s := runner.steps[3]; s.StartDist != 100 || s.EndDist != 200 {
		t.Errorf("step 3 mismatch: %+v", s)
	}
}

func TestLoadScript_Invalid(t *testing.T) {
	if _, err := LoadScript([]byte(`not json`)); err == nil {
		t.Error("expected error for invalid JSON")
	}
}

func TestLoadScript_Empty(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": []}`)); err == nil {
		t.Error("expected error for empty steps")
	}
}

func TestLoadScript_UnknownAction(t *testing.T) {
	if _, err := LoadScript([]byte(`{"steps": [{"action": "click"}]}`)); err == nil {
		t.Error("expected error for unknown action")
	}
}

func TestRunnerStep_Wheel(t *testing.T) {
	f := newFixture(t, "false")
	runner, err := LoadScript([]byte(`{"steps": [{"action": "wheel", "x": 500, "y": 400, "dx": 8, "dy": 1, "repeat": 3}]}`))
	if err != nil {
		t.Fatal(err)
	}
	f.v.SetScript(runner)

	f.v.Update(at(16))
	if got := f.v.Injected(); got != 2 {
		t.Errorf("queued after first frame = %d, want 2", got)
	}
	if runner.Done() {
		t.Error("Done with events still queued")
	}
	for tm := 32; tm <= 96 && !runner.Done(); tm += 16 {
		f.v.Update(at(tm))
	}
	if !runner.Done() {
		t.Error("runner not done after the queue drained")
	}
	if _, item := f.v.Position(); item != 1 {
		t.Errorf("item = %d after scripted swipe, want 1", item)
	}
}

func TestRunnerStep_Wait(t *testing.T) {
	f := newFixture(t, "false")
	runner, err := LoadScript([]byte(`{"steps": [{"action": "wait", "frames": 3}, {"action": "key", "key": "ArrowRight"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	f.v.SetScript(runner)
	for i := 1; i <= 3; i++ {
		f.v.Update(at(i * 16))
	}
	if _, item := f.v.Position(); item != 0 {
		t.Fatalf("key ran during the wait, item = %d", item)
	}
	f.v.Update(at(64))
	if _, item := f.v.Position(); item != 1 {
		t.Errorf("item = %d after wait, want 1", item)
	}
}

func TestInjectDragQueuesFrames(t *testing.T) {
	v := New(Options{})
	v.InjectDrag(PointerMouse, Vec2{0, 0}, Vec2{100, 0}, 5)
	if v.Injected() != 5 {
		t.Errorf("Injected = %d, want 5", v.Injected())
	}
	first := v.inject[0].(PointerEvent)
	last := v.inject[4].(PointerEvent)
	if first.Phase != PointerDown || last.Phase != PointerUp || last.X != 100 {
		t.Errorf("first=%+v last=%+v", first, last)
	}
	mid := v.inject[2].(PointerEvent)
	if mid.Phase != PointerMove || mid.X != 50 {
		t.Errorf("mid = %+v, want move at x=50", mid)
	}
}

func TestInjectPinchQueuesFrames(t *testing.T) {
	v := New(Options{})
	v.InjectPinch(Vec2{500, 400}, 100, 300, 4)
	if v.Injected() != 12 {
		t.Errorf("Injected = %d, want 12", v.Injected())
	}
}

func TestInjectedTouchDragCloses(t *testing.T) {
	f := newFixture(t, "false")
	f.v.InjectDrag(PointerTouch, Vec2{500, 300}, Vec2{500, 500}, 6)
	for i := 1; i <= 6; i++ {
		f.v.Update(at(i * 16))
	}
	if f.v.IsOpen() {
		t.Error("injected swipe-down did not close")
	}
	if f.v.Injected() != 0 {
		t.Errorf("Injected = %d after close", f.v.Injected())
	}
}

func TestInjectedSwipeNavigates(t *testing.T) {
	f := newFixture(t, "false")
	f.v.InjectSwipe(Vec2{600, 400}, Vec2{500, 400})
	f.v.Update(at(16))
	f.v.Update(at(32))
	if _, item := f.v.Position(); item != 1 {
		t.Errorf("item = %d, want 1", item)
	}
}

func TestInjectedPinchZooms(t *testing.T) {
	f := newFixture(t, "false")
	f.v.InjectPinch(Vec2{500, 400}, 100, 200, 4)
	for i := 1; i <= 12; i++ {
		f.v.Update(at(i * 16))
	}
	if f.v.Target().Scale <= 0.5 {
		t.Errorf("Scale = %v, pinch did not zoom in", f.v.Target().Scale)
	}
	if f.v.Gesture() != GestureIdle {
		t.Errorf("Gesture = %v after the pinch, want idle", f.v.Gesture())
	}
}

func TestStampSetsTime(t *testing.T) {
	e := Stamp(KeyEvent{Key: "a"}, at(5))
	if !e.at().Equal(at(5)) {
		t.Errorf("at() = %v", e.at())
	}
}
