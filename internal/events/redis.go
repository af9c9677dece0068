package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Channel returns the pub/sub channel of a company.
func Channel(companyID string) string {
	return "inventory:" + companyID
}

type RedisPublisher struct {
	client *redis.Client
	log    logrus.FieldLogger
}

func NewRedisPublisher(client *redis.Client, log logrus.FieldLogger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

func (p *RedisPublisher) Publish(ctx context.Context, e Event) {
	payload, err := json.Marshal(e)
	if err != nil {
		p.log.WithError(err).Warn("marshal change event")
		return
	}
	if err := p.client.Publish(ctx, Channel(e.CompanyID), payload).Err(); err != nil {
		p.log.WithFields(logrus.Fields{
			"entity": e.Entity,
			"action": e.Action,
		}).WithError(err).Warn("publish change event")
	}
}

// Connect returns a client for addr, or nil when addr is empty or the server
// does not answer; callers fall back to Nop.
func Connect(ctx context.Context, addr, password string) (*redis.Client, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
