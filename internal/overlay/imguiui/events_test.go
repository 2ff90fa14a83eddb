package imguiui

import (
	"reflect"
	"testing"
)

func motion(action int32, x, y float32) MotionEvent {
	return MotionEvent{Type: inputEventTypeMotion, Action: action, X: x, Y: y}
}

func TestPointerApply(t *testing.T) {
	tests := []struct {
		name     string
		ev       MotionEvent
		wantOK   bool
		wantDown bool
	}{
		{"down", motion(motionActionDown, 1, 2), true, true},
		{"move", motion(motionActionMove, 1, 2), true, true},
		{"up", motion(motionActionUp, 1, 2), true, false},
		{"cancel", motion(motionActionCancel, 1, 2), true, false},
		{"pointer index bits are masked", motion(0x0100|motionActionDown, 1, 2), true, true},
		{"key event", MotionEvent{Type: 1, Action: motionActionDown}, false, false},
		{"hover exit", motion(10, 1, 2), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p pointerState
			if got := p.apply(tt.ev); got != tt.wantOK {
				t.Fatalf("apply() = %v, want %v", got, tt.wantOK)
			}
			if p.down != tt.wantDown {
				t.Errorf("down = %v, want %v", p.down, tt.wantDown)
			}
			if tt.wantOK && (p.x != tt.ev.X || p.y != tt.ev.Y) {
				t.Errorf("position = %v,%v, want %v,%v", p.x, p.y, tt.ev.X, tt.ev.Y)
			}
		})
	}
}

func TestTapSpansTwoFrames(t *testing.T) {
	var q eventQueue
	var p pointerState
	q.push(motion(motionActionDown, 10, 20))
	q.push(motion(motionActionUp, 10, 20))
	q.push(motion(motionActionDown, 30, 40))

	q.requeue(p.take(q.drain()))
	if !p.down || p.x != 10 {
		t.Fatalf("frame 1 pointer = %+v, want down at 10,20", p)
	}

	q.push(motion(motionActionMove, 31, 41))
	q.requeue(p.take(q.drain()))
	if p.down {
		t.Fatalf("frame 2 pointer = %+v, want released", p)
	}
	want := []MotionEvent{motion(motionActionDown, 30, 40), motion(motionActionMove, 31, 41)}
	if got := q.drain(); !reflect.DeepEqual(got, want) {
		t.Errorf("queue = %+v, want %+v", got, want)
	}
}

func TestDragIsAppliedInOneFrame(t *testing.T) {
	var p pointerState
	rest := p.take([]MotionEvent{
		motion(motionActionDown, 0, 0),
		motion(motionActionMove, 5, 5),
		motion(motionActionMove, 9, 9),
	})
	if rest != nil {
		t.Errorf("take() rest = %+v, want nil", rest)
	}
	if !p.down || p.x != 9 || p.y != 9 {
		t.Errorf("pointer = %+v, want down at 9,9", p)
	}
}
