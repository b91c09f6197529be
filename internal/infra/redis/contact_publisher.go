package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"eneagramas-site/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ContactPublisher fans contacts out on a Redis channel for whatever mailer
// subscribes to it. Nothing is stored.
type ContactPublisher struct {
	client  *redis.Client
	channel string
}

func NewContactPublisher(client *redis.Client, channel string) *ContactPublisher {
	return &ContactPublisher{client: client, channel: channel}
}

func (p *ContactPublisher) Notify(ctx context.Context, contact domain.Contact) error {
	raw, err := json.Marshal(contact)
	if err != nil {
		return fmt.Errorf("encode contact: %w", err)
	}
	if err := p.client.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("publish contact: %w", err)
	}
	return nil
}
