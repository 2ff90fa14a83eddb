// Package input intercepts the host's input delivery and shows each
// delivered event to the overlay after the host has received it.
package input

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"blurhook/internal/logging"
)

// ConsumeFunc has the shape of InputConsumer::consume: it returns a status
// and on success stores the event pointer in *outEvent.
type ConsumeFunc func(consumer, factory, wait, timeout, outSeq, outEvent uintptr) uintptr

// DeliverFunc has the shape of a fire-and-forget event handler.
type DeliverFunc func(event, a1, a2 uintptr)

// Sink receives events for the overlay.
type Sink interface {
	Active() bool
	HandleInputEvent(event uintptr)
}

// Interceptor forwards events the host received to a Sink. It never changes
// arguments, return values or the number of calls to the original.
type Interceptor struct {
	// Consume and Deliver are the original functions.
	Consume ConsumeFunc
	Deliver DeliverFunc

	sink Sink
	// deref reads the event pointer stored at outEvent.
	deref func(outEvent uintptr) uintptr
	log   *slog.Logger

	mu   sync.Mutex
	seen map[string]bool
}

func New(sink Sink) *Interceptor {
	return &Interceptor{
		sink:  sink,
		deref: loadPointer,
		log:   logging.L("input"),
		seen:  map[string]bool{},
	}
}

func loadPointer(p uintptr) uintptr {
	return *(*uintptr)(unsafe.Pointer(p))
}

// OnConsume replaces the consume function.
func (i *Interceptor) OnConsume(consumer, factory, wait, timeout, outSeq, outEvent uintptr) uintptr {
	if i.Consume == nil {
		return 0
	}
	status := i.Consume(consumer, factory, wait, timeout, outSeq, outEvent)
	// status_t is 32 bits; the upper half of the register is undefined.
	if int32(status) != 0 || outEvent == 0 {
		return status
	}
	if ev := i.deref(outEvent); ev != 0 {
		i.forward(ev)
	}
	return status
}

// OnDeliver replaces the fire-and-forget handler.
func (i *Interceptor) OnDeliver(event, a1, a2 uintptr) {
	if i.Deliver != nil {
		i.Deliver(event, a1, a2)
	}
	if event != 0 {
		i.forward(event)
	}
}

func (i *Interceptor) forward(event uintptr) {
	defer func() {
		if r := recover(); r != nil {
			i.warnOnce(fmt.Sprint(r))
		}
	}()
	if i.sink.Active() {
		i.sink.HandleInputEvent(event)
	}
}

func (i *Interceptor) warnOnce(detail string) {
	i.mu.Lock()
	seen := i.seen[detail]
	i.seen[detail] = true
	i.mu.Unlock()
	if !seen {
		i.log.Warn("forwarding input event panicked", logging.KeyError, detail)
	}
}
