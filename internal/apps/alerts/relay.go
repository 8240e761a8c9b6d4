package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamRelay publishes one Redis stream entry per unregistered number for
// an SMS worker to pick up.
type StreamRelay struct {
	client *redis.Client
	stream string
	now    func() time.Time
}

func NewStreamRelay(client *redis.Client, stream string) *StreamRelay {
	return &StreamRelay{client: client, stream: stream, now: time.Now}
}

// Relay writes every entry in one MULTI/EXEC block.
func (r *StreamRelay) Relay(ctx context.Context, alert FallbackAlert) error {
	ts := r.now().Unix()
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, phone := range alert.Phones {
			pipe.XAdd(ctx, &redis.XAddArgs{
				Stream: r.stream,
				Values: map[string]interface{}{
					"phone":     phone,
					"message":   alert.Message,
					"sender":    alert.SenderEmail,
					"timestamp": ts,
				},
			})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish to stream %s: %w", r.stream, err)
	}
	return nil
}
