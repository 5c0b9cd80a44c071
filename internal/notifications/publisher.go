package notifications

import (
	"context"
	"fmt"

	"github.com/haletrung/vietmarket-backend/pkg/redis"
)

// Publisher hands a serialized payload to the transport. Delivery is
// best-effort; subscribers not listening at publish time miss the event.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) error
}

type redisPublisher struct {
	client *redis.Client
}

// NewRedisPublisher wraps the shared redis client as a pub/sub publisher.
func NewRedisPublisher(client *redis.Client) (Publisher, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisPublisher{client: client}, nil
}

func (p *redisPublisher) Publish(ctx context.Context, channel string, payload []byte) error {
	return p.client.Publish(ctx, channel, payload)
}
