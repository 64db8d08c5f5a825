package spin

import (
	"testing"
	"time"
)

func TestFrameLoop_RunsInOrderOnce(t *testing.T) {
	loop := NewFrameLoop()
	var got []int
	loop.RequestFrame(func(time.Time) { got = append(got, 1) })
	loop.RequestFrame(func(time.Time) { got = append(got, 2) })

	if n := loop.Step(time.Now()); n != 2 {
		t.Fatalf("ran %d, want 2", n)
	}
	if n := loop.Step(time.Now()); n != 0 {
		t.Fatalf("second step ran %d, want 0", n)
	}
	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("order = %v", got)
	}
}

func TestFrameLoop_RequestDuringStepDefers(t *testing.T) {
	loop := NewFrameLoop()
	calls := 0
	var fn func(time.Time)
	fn = func(time.Time) {
		calls++
		loop.RequestFrame(fn)
	}
	loop.RequestFrame(fn)

	loop.Step(time.Now())
	if calls != 1 {
		t.Fatalf("calls = %d after one step, want 1", calls)
	}
	if !loop.Pending() {
		t.Fatal("re-requested frame should be pending")
	}
	loop.Step(time.Now())
	if calls != 2 {
		t.Errorf("calls = %d after two steps, want 2", calls)
	}
}

func TestFrameLoop_Cancel(t *testing.T) {
	loop := NewFrameLoop()
	ran := false
	id := loop.RequestFrame(func(time.Time) { ran = true })
	loop.CancelFrame(id)

	if loop.Pending() {
		t.Error("cancelled frame still pending")
	}
	loop.Step(time.Now())
	if ran {
		t.Error("cancelled frame ran")
	}
}

func TestFrameLoop_CancelWithinStep(t *testing.T) {
	loop := NewFrameLoop()
	secondRan := false
	var second FrameID
	loop.RequestFrame(func(time.Time) { loop.CancelFrame(second) })
	second = loop.RequestFrame(func(time.Time) { secondRan = true })

	if n := loop.Step(time.Now()); n != 1 {
		t.Errorf("ran %d, want 1", n)
	}
	if secondRan {
		t.Error("frame cancelled earlier in the same step still ran")
	}
}
