// Package input turns button presses into a bounded event queue. The
// hardware half runs in interrupt context and must never block, so the
// queue drops presses once full rather than stalling the handler.
package input

// Button identifies one of the three front buttons.
type Button uint8

const (
	Up Button = iota
	Select
	Down
)

func (b Button) String() string {
	switch b {
	case Up:
		return "up"
	case Select:
		return "select"
	case Down:
		return "down"
	}
	return "unknown"
}

// Event is a single debounced press.
type Event struct {
	Button  Button
	Pressed bool
}

// QueueDepth bounds how many presses can wait between polls.
const QueueDepth = 10

// Source is the FIFO between interrupt handlers and the controller loop.
type Source struct {
	ch chan Event
}

func NewSource() *Source {
	return &Source{ch: make(chan Event, QueueDepth)}
}

// Events returns the receive side of the queue.
func (s *Source) Events() <-chan Event {
	return s.ch
}

// Push enqueues an event without blocking. It reports false when the
// queue is full and the event was dropped.
func (s *Source) Push(e Event) bool {
	select {
	case s.ch <- e:
		return true
	default:
		return false
	}
}
