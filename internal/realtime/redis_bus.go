package realtime

import (
	"strings"

	"github.com/go-redis/redis/v7"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const channelPrefix = "hackmate:team:"

// RedisBus fans room broadcasts out over Redis pub/sub, one channel per room.
type RedisBus struct {
	client *redis.Client
	pubsub *redis.PubSub
}

// NewRedisBus connects to Redis at addr.
func NewRedisBus(addr, password string) (*RedisBus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
	})
	if err := client.Ping().Err(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis at %s", addr)
	}
	return &RedisBus{client: client}, nil
}

// Publish sends payload to room's channel.
func (b *RedisBus) Publish(room string, payload []byte) error {
	return b.client.Publish(channelPrefix+room, payload).Err()
}

// Subscribe listens on every room channel and calls deliver for each message.
func (b *RedisBus) Subscribe(deliver func(room string, payload []byte)) error {
	pubsub := b.client.PSubscribe(channelPrefix + "*")
	if _, err := pubsub.Receive(); err != nil {
		pubsub.Close()
		return err
	}
	b.pubsub = pubsub

	ch := pubsub.Channel()
	go func() {
		for msg := range ch {
			room := strings.TrimPrefix(msg.Channel, channelPrefix)
			deliver(room, []byte(msg.Payload))
		}
		logrus.WithField("component", "realtime").Info("Redis subscription closed.")
	}()
	return nil
}

// Close ends the subscription and the connection pool.
func (b *RedisBus) Close() error {
	if b.pubsub != nil {
		if err := b.pubsub.Close(); err != nil {
			return err
		}
	}
	return b.client.Close()
}
