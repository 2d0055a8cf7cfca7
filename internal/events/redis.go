package events

import (
	"context"
	"encoding/json"
	"log"

	"github.com/redis/go-redis/v9"
)

// RedisPublisher publishes events over a Redis pub/sub channel. Redis
// delivers to subscribers in publish order per channel, which is the
// ordering guarantee the fan-out contract needs.
type RedisPublisher struct {
	client *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{client: client}
}

func (p *RedisPublisher) Publish(ctx context.Context, event Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("events: failed to marshal %s event for %s: %v", event.Name, event.Room, err)
		return
	}
	if err := p.client.Publish(ctx, Channel, data).Err(); err != nil {
		// Best effort: realtime state is re-syncable via snapshot.
		log.Printf("events: publish %s to %s failed: %v", event.Name, event.Room, err)
	}
}

// Subscriber consumes the shared channel and forwards each event to a
// handler (the websocket hub). One subscriber runs per broadcast-serving
// process.
type Subscriber struct {
	client  *redis.Client
	handler Handler
}

func NewSubscriber(client *redis.Client, handler Handler) *Subscriber {
	return &Subscriber{client: client, handler: handler}
}

// Run blocks consuming events until ctx is cancelled.
func (s *Subscriber) Run(ctx context.Context) {
	sub := s.client.Subscribe(ctx, Channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			s.dispatch(msg.Payload)
		}
	}
}

func (s *Subscriber) dispatch(payload string) {
	var event struct {
		Room string          `json:"room"`
		Name string          `json:"event"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		log.Printf("events: dropping malformed event: %v", err)
		return
	}
	s.handler.HandleEvent(event.Room, event.Name, event.Data)
}
