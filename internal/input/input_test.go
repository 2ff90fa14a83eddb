package input

import (
	"reflect"
	"testing"
)

type fakeSink struct {
	active bool
	events []uintptr
	panics bool
}

func (s *fakeSink) Active() bool { return s.active }

func (s *fakeSink) HandleInputEvent(ev uintptr) {
	if s.panics {
		panic("decode failed")
	}
	s.events = append(s.events, ev)
}

type consumeArgs [6]uintptr

func TestOnConsume(t *testing.T) {
	const slot = 0x7000
	tests := []struct {
		name       string
		status     uintptr
		outEvent   uintptr
		stored     uintptr
		active     bool
		wantEvents []uintptr
	}{
		{"delivered", 0, slot, 0xe1, true, []uintptr{0xe1}},
		{"overlay inactive", 0, slot, 0xe1, false, nil},
		{"would block", 0xfffffff5, slot, 0xe1, true, nil},
		{"garbage upper bits", 0xdead_0000_0000, slot, 0xe1, true, []uintptr{0xe1}},
		{"no out pointer", 0, 0, 0, true, nil},
		{"no event", 0, slot, 0, true, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &fakeSink{active: tt.active}
			i := New(sink)
			i.deref = func(p uintptr) uintptr {
				if p != slot {
					t.Fatalf("deref(%#x), want %#x", p, slot)
				}
				return tt.stored
			}
			var got []consumeArgs
			i.Consume = func(a, b, c, d, e, f uintptr) uintptr {
				got = append(got, consumeArgs{a, b, c, d, e, f})
				return tt.status
			}

			status := i.OnConsume(1, 2, 3, 4, 5, tt.outEvent)
			if status != tt.status {
				t.Errorf("OnConsume() = %#x, want %#x", status, tt.status)
			}
			want := []consumeArgs{{1, 2, 3, 4, 5, tt.outEvent}}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("original calls = %v, want %v", got, want)
			}
			if !reflect.DeepEqual(sink.events, tt.wantEvents) {
				t.Errorf("forwarded = %v, want %v", sink.events, tt.wantEvents)
			}
		})
	}
}

func TestOnDeliver(t *testing.T) {
	sink := &fakeSink{active: true}
	i := New(sink)
	var calls [][3]uintptr
	i.Deliver = func(ev, a1, a2 uintptr) { calls = append(calls, [3]uintptr{ev, a1, a2}) }

	i.OnDeliver(0xe1, 7, 8)
	i.OnDeliver(0, 7, 8)

	if want := [][3]uintptr{{0xe1, 7, 8}, {0, 7, 8}}; !reflect.DeepEqual(calls, want) {
		t.Errorf("original calls = %v, want %v", calls, want)
	}
	if want := []uintptr{0xe1}; !reflect.DeepEqual(sink.events, want) {
		t.Errorf("forwarded = %v, want %v", sink.events, want)
	}
}

func TestForwardPanicIsContained(t *testing.T) {
	sink := &fakeSink{active: true, panics: true}
	i := New(sink)
	i.deref = func(uintptr) uintptr { return 0xe1 }
	i.Consume = func(_, _, _, _, _, _ uintptr) uintptr { return 0 }

	for n := 0; n < 2; n++ {
		if got := i.OnConsume(1, 2, 3, 4, 5, 6); got != 0 {
			t.Errorf("OnConsume() = %d, want 0", got)
		}
		i.OnDeliver(0xe2, 0, 0)
	}
}

func TestNoOriginal(t *testing.T) {
	sink := &fakeSink{active: true}
	i := New(sink)
	i.deref = func(uintptr) uintptr { return 0xe1 }
	if got := i.OnConsume(1, 2, 3, 4, 5, 6); got != 0 {
		t.Errorf("OnConsume() = %d, want 0", got)
	}
	if len(sink.events) != 0 {
		t.Errorf("forwarded %v without an original", sink.events)
	}
	i.OnDeliver(0xe2, 0, 0)
	if want := []uintptr{0xe2}; !reflect.DeepEqual(sink.events, want) {
		t.Errorf("forwarded = %v, want %v", sink.events, want)
	}
}
