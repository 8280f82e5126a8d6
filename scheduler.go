package spotlight

import "time"

// Scheduler runs deferred callbacks against an externally supplied clock.
// Nothing fires on its own: Advance moves the clock forward and runs every
// task that came due, in due-time order. All debounce, cooldown and idle
// timers of the viewer live here, which makes them cancellable as a group
// and testable under simulated time.
type Scheduler struct {
	now   time.Time
	tasks []*Task
	seq   uint64
}

// Task is a pending callback. Cancel is safe to call more than once and on
// a nil Task.
type Task struct {
	at       time.Time
	seq      uint64
	fn       func()
	canceled bool
	fired    bool
}

// Now returns the scheduler clock.
func (s *Scheduler) Now() time.Time { return s.now }

// After schedules fn to run d after the current clock.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	s.seq++
	t := &Task{at: s.now.Add(d), seq: s.seq, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Advance moves the clock to now, firing due tasks. Tasks scheduled by a
// firing task run in the same call if they also fall due. The clock never
// moves backwards. The first non-zero reading starts the clock; tasks
// scheduled before that are delayed relative to it.
func (s *Scheduler) Advance(now time.Time) {
	if s.now.IsZero() && !now.IsZero() {
		var zero time.Time
		for _, t := range s.tasks {
			t.at = now.Add(t.at.Sub(zero))
		}
		s.now = now
	}
	if !now.Before(s.now) {
		for {
			t := s.popDue(now)
			if t == nil {
				break
			}
			if t.at.After(s.now) {
				s.now = t.at
			}
			t.fired = true
			t.fn()
		}
		s.now = now
	}
}

func (s *Scheduler) popDue(now time.Time) *Task {
	s.compact()
	t := s.findDue(now)
	if t != nil {
		s.remove(t)
	}
	return t
}

func (s *Scheduler) findDue(now time.Time) *Task {
	var best *Task
	for _, t := range s.tasks {
		if t.at.After(now) {
			continue
		}
		if best == nil || t.at.Before(best.at) || (t.at.Equal(best.at) && t.seq < best.seq) {
			best = t
		}
	}
	return best
}

func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.canceled {
			live = append(live, t)
		}
	}
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}

func (s *Scheduler) remove(t *Task) {
	for i, x := range s.tasks {
		if x == t {
			copy(s.tasks[i:], s.tasks[i+1:])
			s.tasks[len(s.tasks)-1] = nil
			s.tasks = s.tasks[:len(s.tasks)-1]
			return
		}
	}
}

// CancelAll cancels every pending task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.canceled = true
	}
	s.tasks = s.tasks[:0]
}

// Pending returns the number of tasks still waiting to fire.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Cancel stops the task from firing.
func (t *Task) Cancel() {
	if t != nil {
		t.canceled = true
	}
}

// Active reports whether the task is still waiting to fire.
func (t *Task) Active() bool {
	return t != nil && !t.canceled && !t.fired
}
