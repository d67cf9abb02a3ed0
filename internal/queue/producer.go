package queue

import (
	"context"
	"encoding/json"

	"github.com/chaudhryu/police-report-request-backend/internal/config"
	"github.com/chaudhryu/police-report-request-backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// Producer pushes notification jobs onto the outbound queue. The HTTP side
// only ever enqueues; composing and sending happens in the worker binary.
type Producer struct {
	client *redis.Client
	cfg    *config.Config
}

func NewProducer(redisClient *RedisClient, cfg *config.Config) *Producer {
	return &Producer{
		client: redisClient.Client(),
		cfg:    cfg,
	}
}

func (p *Producer) EnqueueNotification(ctx context.Context, job model.NotificationJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}

	return p.client.LPush(ctx, p.cfg.Redis.NotificationQueue, data).Err()
}
