package domain

// Event is an immutable fact produced by an aggregate mutation. Events have
// no storage of their own; they live in memory between the mutation that
// raised them and post-commit dispatch.
type Event interface {
	EventName() string
}

// EventCarrier is the capability every aggregate gains by embedding Events.
type EventCarrier interface {
	PullEvents() []Event
}

// Events is the per-aggregate pending event buffer. Aggregates embed it by
// value and raise events as a side effect of their own mutations; they never
// dispatch anything themselves.
type Events struct {
	pending []Event
}

// Raise appends an event to the buffer in raise order.
func (e *Events) Raise(event Event) {
	if event == nil {
		return
	}
	e.pending = append(e.pending, event)
}

// PullEvents returns the buffered events in raise order and clears the
// buffer. Draining twice yields nothing the second time.
func (e *Events) PullEvents() []Event {
	if len(e.pending) == 0 {
		return nil
	}
	drained := e.pending
	e.pending = nil
	return drained
}
