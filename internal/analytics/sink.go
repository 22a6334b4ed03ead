package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/angelmondragon/luxe-storefront/pkg/logger"
)

// LogSink writes events to the structured log.
type LogSink struct {
	logg *logger.Logger
}

func NewLogSink(logg *logger.Logger) *LogSink {
	return &LogSink{logg: logg}
}

func (s *LogSink) Send(ctx context.Context, env Envelope) error {
	if s.logg == nil {
		return nil
	}
	ctx = s.logg.WithFields(ctx, map[string]any{
		"event_id":       env.EventID,
		"event_name":     env.EventName,
		"measurement_id": env.MeasurementID,
		"params":         env.Params,
	})
	s.logg.Info(ctx, "analytics.event")
	return nil
}

type publisher interface {
	Publish(ctx context.Context, data []byte, attrs map[string]string) (string, error)
}

// PubSubSink publishes each envelope as one Pub/Sub message.
type PubSubSink struct {
	pub publisher
}

func NewPubSubSink(pub publisher) *PubSubSink {
	return &PubSubSink{pub: pub}
}

func (s *PubSubSink) Send(ctx context.Context, env Envelope) error {
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal analytics envelope: %w", err)
	}
	if _, err := s.pub.Publish(ctx, data, map[string]string{
		"event_name":     env.EventName,
		"measurement_id": env.MeasurementID,
	}); err != nil {
		return fmt.Errorf("publish %s: %w", env.EventName, err)
	}
	return nil
}
