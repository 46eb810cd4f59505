package api

import "sync"

// EventType labels a BroadcastEvent's payload shape.
type EventType string

const (
	// EventState carries a guest register/PSTATE snapshot after a step.
	EventState EventType = "state"
	// EventTrace carries one trace.Sink entry as it is recorded.
	EventTrace EventType = "trace"
	// EventBreakpoint carries a breakpoint hit.
	EventBreakpoint EventType = "breakpoint"
)

// BroadcastEvent is one message fanned out to every subscribed
// WebSocket client.
type BroadcastEvent struct {
	Type EventType              `json:"type"`
	Data map[string]interface{} `json:"data"`
}

// Subscription is one client's event feed, optionally filtered by type.
type Subscription struct {
	EventTypes map[EventType]bool
	Channel    chan BroadcastEvent
}

// Broadcaster fans events out to every subscribed client without
// blocking the publisher: a slow or stalled client simply misses events
// rather than stalling translation.
type Broadcaster struct {
	mu            sync.RWMutex
	subscriptions map[*Subscription]bool
	broadcast     chan BroadcastEvent
	register      chan *Subscription
	unregister    chan *Subscription
	done          chan struct{}
}

// NewBroadcaster starts the fan-out goroutine and returns the
// broadcaster handle.
func NewBroadcaster() *Broadcaster {
	b := &Broadcaster{
		subscriptions: make(map[*Subscription]bool),
		broadcast:     make(chan BroadcastEvent, 256),
		register:      make(chan *Subscription),
		unregister:    make(chan *Subscription),
		done:          make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Broadcaster) run() {
	for {
		select {
		case sub := <-b.register:
			b.mu.Lock()
			b.subscriptions[sub] = true
			b.mu.Unlock()
		case sub := <-b.unregister:
			b.mu.Lock()
			if b.subscriptions[sub] {
				delete(b.subscriptions, sub)
				close(sub.Channel)
			}
			b.mu.Unlock()
		case event := <-b.broadcast:
			b.mu.RLock()
			for sub := range b.subscriptions {
				if len(sub.EventTypes) > 0 && !sub.EventTypes[event.Type] {
					continue
				}
				select {
				case sub.Channel <- event:
				default:
				}
			}
			b.mu.RUnlock()
		case <-b.done:
			b.mu.Lock()
			for sub := range b.subscriptions {
				close(sub.Channel)
			}
			b.subscriptions = make(map[*Subscription]bool)
			b.mu.Unlock()
			return
		}
	}
}

// Publish enqueues event for delivery, dropping it if the internal
// buffer is full rather than blocking the caller.
func (b *Broadcaster) Publish(event BroadcastEvent) {
	select {
	case b.broadcast <- event:
	default:
	}
}

// Subscribe registers a new client feed. Passing no event types
// subscribes to everything.
func (b *Broadcaster) Subscribe(eventTypes []EventType) *Subscription {
	filter := make(map[EventType]bool, len(eventTypes))
	for _, t := range eventTypes {
		filter[t] = true
	}
	sub := &Subscription{EventTypes: filter, Channel: make(chan BroadcastEvent, 64)}
	b.register <- sub
	return sub
}

// Unsubscribe removes sub and closes its channel.
func (b *Broadcaster) Unsubscribe(sub *Subscription) {
	b.unregister <- sub
}

// Close shuts the broadcaster down and disconnects every subscriber.
func (b *Broadcaster) Close() {
	close(b.done)
}
