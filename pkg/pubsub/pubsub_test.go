package pubsub

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPublisher(t *testing.T) {
	p := New[int]()

	const clients = 10
	var channels []chan int
	for range clients {
		channels = append(channels, p.Subscribe())
	}
	assert.Equal(t, clients, p.Subscribers())

	p.Publish(123)
	for _, ch := range channels {
		assert.Equal(t, 123, <-ch)
		p.Unsubscribe(ch)
	}
	assert.Zero(t, p.Subscribers())
}

func TestPublisher_SlowSubscriber(t *testing.T) {
	p := New[int]()
	ch := p.Subscribe()

	// a subscriber that hasn't read yet only sees the latest item
	p.Publish(1)
	p.Publish(2)
	p.Publish(3)
	assert.Equal(t, 3, <-ch)
}
