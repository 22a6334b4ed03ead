package pubsub

import (
	"context"
	"errors"

	pubsub "cloud.google.com/go/pubsub/v2"
)

// TopicPublisher publishes raw payloads and waits for the server-assigned id.
type TopicPublisher struct {
	publisher *pubsub.Publisher
}

func NewTopicPublisher(p *pubsub.Publisher) *TopicPublisher {
	return &TopicPublisher{publisher: p}
}

func (p *TopicPublisher) Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error) {
	if p == nil || p.publisher == nil {
		return "", errors.New("pubsub publisher not initialized")
	}
	result := p.publisher.Publish(ctx, &pubsub.Message{
		Data:       data,
		Attributes: attrs,
	})
	return result.Get(ctx)
}

// Stop flushes pending messages.
func (p *TopicPublisher) Stop() {
	if p == nil || p.publisher == nil {
		return
	}
	p.publisher.Stop()
}
