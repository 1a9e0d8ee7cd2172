// Package pubsub provides a small publish/subscribe fan-out for state
// snapshots. Subscriber channels hold one pending item; a subscriber that
// falls behind misses intermediate snapshots rather than blocking the
// publisher.
package pubsub

import (
	"sync"
)

// Publisher fans out items to all subscribed channels.
type Publisher[T any] struct {
	subscribers map[chan T]struct{}
	lock        sync.RWMutex
}

func New[T any]() *Publisher[T] {
	return &Publisher[T]{subscribers: make(map[chan T]struct{})}
}

// Subscribe registers a new subscriber and returns the channel it will
// receive published items on.
func (p *Publisher[T]) Subscribe() chan T {
	p.lock.Lock()
	defer p.lock.Unlock()
	ch := make(chan T, 1)
	p.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a channel returned by Subscribe.
func (p *Publisher[T]) Unsubscribe(ch chan T) {
	p.lock.Lock()
	defer p.lock.Unlock()
	delete(p.subscribers, ch)
}

// Publish sends item to all subscribers. If a subscriber still has an unread
// item pending, that stale item is replaced by the new one.
func (p *Publisher[T]) Publish(item T) {
	p.lock.RLock()
	defer p.lock.RUnlock()
	for ch := range p.subscribers {
		select {
		case ch <- item:
		default:
			// drop the pending item and retry with the fresh one
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- item:
			default:
			}
		}
	}
}

// Subscribers returns the current number of subscribers.
func (p *Publisher[T]) Subscribers() int {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return len(p.subscribers)
}
