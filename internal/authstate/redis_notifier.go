package authstate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/juntape/junta/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultChannel carries session change events between API instances
const DefaultChannel = "junta:auth:changes"

// PubSubClient is the part of the Redis client the notifier needs
type PubSubClient interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
	Subscribe(ctx context.Context, channels ...string) *redis.PubSub
}

// RedisNotifier publishes through Redis pub/sub so every instance sees every change
type RedisNotifier struct {
	rdb     PubSubClient
	channel string
	local   *LocalNotifier
	log     *logger.Logger
}

// NewRedisNotifier creates a notifier; call Run to start receiving
func NewRedisNotifier(rdb PubSubClient, channel string, log *logger.Logger) *RedisNotifier {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisNotifier{
		rdb:     rdb,
		channel: channel,
		local:   NewLocalNotifier(),
		log:     log,
	}
}

// Publish sends ev to Redis; local subscribers receive it from Run
func (n *RedisNotifier) Publish(ctx context.Context, ev ChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := n.rdb.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

func (n *RedisNotifier) Subscribe(fn func(ChangeEvent)) func() {
	return n.local.Subscribe(fn)
}

// Run relays messages from Redis to local subscribers until ctx is done
func (n *RedisNotifier) Run(ctx context.Context) error {
	sub := n.rdb.Subscribe(ctx, n.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", n.channel, err)
	}

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			n.dispatch(ctx, msg.Payload)
		}
	}
}

func (n *RedisNotifier) dispatch(ctx context.Context, payload string) {
	var ev ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		n.log.Warn("Dropping malformed session change event", zap.Error(err))
		return
	}
	_ = n.local.Publish(ctx, ev)
}
