package window

import "fmt"

// EventType identifies the kind of window event.
type EventType int

const (
	// EventQuit is a close request: the window close button or the Escape key.
	EventQuit EventType = iota

	// EventFocusGained is sent when the window becomes the input focus.
	EventFocusGained

	// EventFocusLost is sent when the window loses the input focus.
	EventFocusLost

	// EventResize carries the new framebuffer size in pixels. Zero and unchanged sizes are not sent.
	EventResize

	// EventKeyDown carries a pressed or repeating key.
	EventKeyDown

	// EventKeyUp carries a released key.
	EventKeyUp
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventFocusGained:
		return "focus-gained"
	case EventFocusLost:
		return "focus-lost"
	case EventResize:
		return "resize"
	case EventKeyDown:
		return "key-down"
	case EventKeyUp:
		return "key-up"
	default:
		return fmt.Sprintf("EventType(%d)", int(t))
	}
}

// Event is a single input or window event returned by PollEvents.
type Event struct {
	Type EventType

	// Key is the key code for EventKeyDown and EventKeyUp, see the common.Key* constants.
	Key uint32

	// Width and Height are the framebuffer size in pixels for EventResize.
	Width, Height int
}

// eventQueue buffers events raised by platform callbacks until the next PollEvents.
type eventQueue struct {
	events []Event
}

func (q *eventQueue) push(e Event) {
	q.events = append(q.events, e)
}

// drain returns the buffered events and empties the queue. The returned slice is owned by the caller.
func (q *eventQueue) drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = make([]Event, 0, cap(out))
	return out
}
