package state

func ClampCursor(cursor, size int) int {
	if size <= 0 {
		return 0
	}
	if cursor >= size {
		return size - 1
	}
	if cursor < 0 {
		return 0
	}
	return cursor
}

func PageStep(height int, hasStatus bool) int {
	if height <= 0 {
		return 10
	}
	headerLines := 6
	if hasStatus {
		headerLines += 2
	}
	return max(3, height-headerLines)
}

func CenteredWindow(totalRows, cursor, height int) (int, int) {
	if totalRows <= 0 {
		return 0, 0
	}
	if height <= 0 || totalRows <= height {
		return 0, totalRows
	}
	cursor = ClampCursor(cursor, totalRows)
	start := max(0, cursor-height/2)
	start = min(start, totalRows-height)
	return start, start + height
}

// EndTrigger fires once each time the cursor arrives on the last row. It is
// re-armed when the cursor leaves the last row or the list grows.
type EndTrigger struct {
	armed    bool
	lastSize int
}

func NewEndTrigger() EndTrigger {
	return EndTrigger{armed: true}
}

// Observe records the cursor position and reports whether the end was reached.
func (t *EndTrigger) Observe(cursor, size int) bool {
	if size != t.lastSize {
		t.lastSize = size
		t.armed = true
	}
	if size == 0 {
		return false
	}
	if cursor != size-1 {
		t.armed = true
		return false
	}
	if !t.armed {
		return false
	}
	t.armed = false
	return true
}

// Reset re-arms the trigger, e.g. after the list was replaced.
func (t *EndTrigger) Reset() {
	t.armed = true
	t.lastSize = 0
}
