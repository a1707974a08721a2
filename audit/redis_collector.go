package audit

import (
	"context"
	"encoding/json"

	rd "github.com/go-redis/redis/v9"
)

const STREAM_KEY string = "audit:events"

// RedisStreamCollector appends events to a redis stream for downstream
// analytics and compliance consumers.
type RedisStreamCollector struct {
	redisClient rd.UniversalClient
	stream      string
}

var _ Collector = new(RedisStreamCollector)

func NewRedisStreamCollector(addrs []string, namespace string) *RedisStreamCollector {
	return &RedisStreamCollector{
		redisClient: rd.NewUniversalClient(&rd.UniversalOptions{Addrs: addrs}),
		stream:      namespace + ":" + STREAM_KEY,
	}
}

func (rc *RedisStreamCollector) Collect(event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return rc.redisClient.XAdd(context.Background(), &rd.XAddArgs{
		Stream: rc.stream,
		Values: map[string]any{"event": string(data)},
	}).Err()
}
