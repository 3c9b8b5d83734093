package state

import "testing"

func TestClampCursor(t *testing.T) {
	if got := ClampCursor(-1, 3); got != 0 {
		t.Fatalf("expected clamp to 0, got %d", got)
	}
	if got := ClampCursor(3, 3); got != 2 {
		t.Fatalf("expected clamp to 2, got %d", got)
	}
	if got := ClampCursor(1, 3); got != 1 {
		t.Fatalf("expected keep 1, got %d", got)
	}
	if got := ClampCursor(5, 0); got != 0 {
		t.Fatalf("expected 0 for empty list, got %d", got)
	}
}

func TestPageStep(t *testing.T) {
	if got := PageStep(0, false); got != 10 {
		t.Fatalf("expected default step 10, got %d", got)
	}
	if got := PageStep(12, false); got != 6 {
		t.Fatalf("expected step 6, got %d", got)
	}
	if got := PageStep(12, true); got != 4 {
		t.Fatalf("expected step 4 with status, got %d", got)
	}
	if got := PageStep(5, true); got != 3 {
		t.Fatalf("expected minimum step 3, got %d", got)
	}
}

func TestCenteredWindow(t *testing.T) {
	if start, end := CenteredWindow(5, 3, 3); start != 2 || end != 5 {
		t.Fatalf("unexpected window: start=%d end=%d", start, end)
	}
	if start, end := CenteredWindow(10, 0, 4); start != 0 || end != 4 {
		t.Fatalf("unexpected top window: start=%d end=%d", start, end)
	}
	if start, end := CenteredWindow(3, 2, 10); start != 0 || end != 3 {
		t.Fatalf("unexpected short window: start=%d end=%d", start, end)
	}
}

func TestEndTrigger_EdgeTriggered(t *testing.T) {
	tr := NewEndTrigger()

	if tr.Observe(0, 3) {
		t.Fatal("must not fire away from the end")
	}
	if !tr.Observe(2, 3) {
		t.Fatal("expected fire on reaching the last row")
	}
	if tr.Observe(2, 3) {
		t.Fatal("must not fire again while resting on the last row")
	}

	// Leaving and returning fires again.
	tr.Observe(1, 3)
	if !tr.Observe(2, 3) {
		t.Fatal("expected fire after returning to the last row")
	}

	// Growth re-arms: the old last row is no longer last.
	if tr.Observe(2, 5) {
		t.Fatal("must not fire when the cursor is no longer on the last row")
	}
	if !tr.Observe(4, 5) {
		t.Fatal("expected fire on the new last row")
	}
}

func TestEndTrigger_EmptyAndReset(t *testing.T) {
	tr := NewEndTrigger()
	if tr.Observe(0, 0) {
		t.Fatal("empty list must not fire")
	}
	if !tr.Observe(0, 1) {
		t.Fatal("single row list fires once")
	}
	if tr.Observe(0, 1) {
		t.Fatal("must not fire twice")
	}
	tr.Reset()
	if !tr.Observe(0, 1) {
		t.Fatal("expected fire after reset")
	}
}
