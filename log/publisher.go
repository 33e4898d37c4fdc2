package log

import (
	"sync"
	"sync/atomic"
)

const defaultBufferSize = 64

// Event is a named UI event.
type Event struct {
	Payload any
	Name    string
}

// Publisher is an [Emitter] that fans events out to subscribers. It stands in
// for the UI event bus when the embedding host has none, and feeds in-process
// viewers.
//
// Each call to [Publisher.Emit] delivers the event to every active
// [Subscription] via a buffered channel with ring-buffer semantics: when a
// subscriber's channel is full the oldest event is dropped so Emit never
// blocks. Safe for concurrent use.
//
// Create instances with [NewPublisher].
type Publisher struct {
	subscribers []*Subscription
	bufSize     int
	mu          sync.Mutex
	closed      bool
}

// NewPublisher creates a [Publisher] with the given options.
// The default buffer size is 64.
func NewPublisher(opts ...PublisherOption) *Publisher {
	p := &Publisher{
		bufSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// PublisherOption configures a [Publisher].
type PublisherOption func(*Publisher)

// WithBufferSize sets the channel buffer size for new subscriptions.
// Values less than 1 are clamped to 1.
func WithBufferSize(n int) PublisherOption {
	return func(p *Publisher) {
		if n < 1 {
			n = 1
		}

		p.bufSize = n
	}
}

// Emit implements [Emitter]. Closed subscriptions are compacted out of the
// subscriber list. After [Publisher.Close], Emit returns [ErrPublisherClosed].
func (p *Publisher) Emit(event string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrPublisherClosed
	}

	ev := Event{Name: event, Payload: payload}

	alive := p.subscribers[:0]
	for _, sub := range p.subscribers {
		if sub.closed.Load() {
			close(sub.ch)
			continue
		}
		// Ring-buffer: drop oldest if full.
		select {
		case sub.ch <- ev:
		default:
			select {
			case <-sub.ch:
			default:
			}

			sub.ch <- ev
		}

		alive = append(alive, sub)
	}

	for i := len(alive); i < len(p.subscribers); i++ {
		p.subscribers[i] = nil
	}

	p.subscribers = alive

	return nil
}

// Subscribe creates and registers a new [Subscription]. If the Publisher is
// already closed the returned subscription's channel is immediately closed.
func (p *Publisher) Subscribe() *Subscription {
	p.mu.Lock()
	defer p.mu.Unlock()

	sub := &Subscription{
		ch: make(chan Event, p.bufSize),
	}

	if p.closed {
		close(sub.ch)
		return sub
	}

	p.subscribers = append(p.subscribers, sub)

	return sub
}

// Close marks the Publisher as closed and closes all subscription channels.
// Idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}

	p.closed = true
	for _, sub := range p.subscribers {
		close(sub.ch)
	}

	p.subscribers = nil

	return nil
}

// Subscription receives events from a [Publisher].
type Subscription struct {
	ch     chan Event
	closed atomic.Bool
}

// C returns the read-only channel that delivers events.
func (s *Subscription) C() <-chan Event {
	return s.ch
}

// Close marks the subscription as closed. The Publisher closes the underlying
// channel on its next Emit or Close call. Idempotent.
func (s *Subscription) Close() {
	s.closed.Store(true)
}
