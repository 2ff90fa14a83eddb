package imguiui

import "sync"

// Android input constants from <android/input.h>.
const (
	inputEventTypeMotion = 2

	motionActionMask   = 0xff
	motionActionDown   = 0
	motionActionUp     = 1
	motionActionMove   = 2
	motionActionCancel = 3
)

// MotionEvent is the part of a host motion event the UI uses. Fields are
// copied out of the host event immediately; the host owns and recycles it.
type MotionEvent struct {
	Type   int32
	Action int32
	X, Y   float32
}

// EventReader extracts a MotionEvent from a host AInputEvent pointer.
type EventReader interface {
	Read(event uintptr) (MotionEvent, bool)
}

type pointerState struct {
	x, y float32
	down bool
}

// apply folds ev into the pointer state. It reports false for events the UI
// ignores.
func (p *pointerState) apply(ev MotionEvent) bool {
	if ev.Type != inputEventTypeMotion {
		return false
	}
	switch ev.Action & motionActionMask {
	case motionActionDown, motionActionMove:
		p.down = true
	case motionActionUp, motionActionCancel:
		p.down = false
	default:
		return false
	}
	p.x, p.y = ev.X, ev.Y
	return true
}

// take applies the events of one frame in order. The button changes state at
// most once per frame; the event that would change it again is returned,
// with everything after it, for the next frame.
func (p *pointerState) take(events []MotionEvent) (rest []MotionEvent) {
	toggled := false
	for i, ev := range events {
		next := *p
		if !next.apply(ev) {
			continue
		}
		if next.down != p.down {
			if toggled {
				return events[i:]
			}
			toggled = true
		}
		*p = next
	}
	return nil
}

// eventQueue hands events from the input thread to the render thread.
type eventQueue struct {
	mu     sync.Mutex
	events []MotionEvent
}

func (q *eventQueue) push(ev MotionEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// drain returns the queued events in arrival order and empties the queue.
func (q *eventQueue) drain() []MotionEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.events
	q.events = nil
	return events
}

// requeue puts events back in front of anything queued since drain.
func (q *eventQueue) requeue(events []MotionEvent) {
	if len(events) == 0 {
		return
	}
	q.mu.Lock()
	q.events = append(append([]MotionEvent(nil), events...), q.events...)
	q.mu.Unlock()
}
