package spotlight

import (
	"errors"
	"time"
)

var (
	// ErrNoCollection is returned by OpenAt for an unknown collection index.
	ErrNoCollection = errors.New("spotlight: no such collection")
	// ErrItemOutOfRange is returned by OpenAt for an item index outside the collection.
	ErrItemOutOfRange = errors.New("spotlight: item index out of range")
	// ErrFullscreenUnsupported is captured when no Platform can toggle fullscreen.
	ErrFullscreenUnsupported = errors.New("spotlight: fullscreen unsupported")
)

// CapturedError is a non-fatal failure recorded by the viewer.
type CapturedError struct {
	Op   string
	Err  error
	Time time.Time
}

// errorLog keeps the most recent failures, dropping the oldest past limit.
type errorLog struct {
	entries []CapturedError
	limit   int
}

func (l *errorLog) add(e CapturedError) {
	if l.limit > 0 && len(l.entries) >= l.limit {
		n := copy(l.entries, l.entries[len(l.entries)-l.limit+1:])
		l.entries = l.entries[:n]
	}
	l.entries = append(l.entries, e)
}

func (l *errorLog) snapshot() []CapturedError {
	out := make([]CapturedError, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *errorLog) clear() {
	l.entries = nil
}

// reportError records a non-fatal failure. It never panics and never
// propagates the error to the caller.
func (v *Viewer) reportError(op string, err error) {
	if err == nil {
		return
	}
	v.errs.add(CapturedError{Op: op, Err: err, Time: v.sched.Now()})
	v.logger.Debug("captured error", "op", op, "error", err)
}

// Errors returns a copy of the captured non-fatal failures, oldest first.
func (v *Viewer) Errors() []CapturedError {
	return v.errs.snapshot()
}

// ClearErrors empties the captured error log.
func (v *Viewer) ClearErrors() {
	v.errs.clear()
}
