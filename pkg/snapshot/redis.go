package snapshot

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const defaultKeyPrefix = "doppelkopf"

// RedisSink appends snapshots to a per-table redis list. External loggers
// and replayers read the list back in write order.
type RedisSink struct {
	rdb    redis.Cmdable
	prefix string
	ttl    time.Duration
}

type RedisOption func(*RedisSink)

// WithKeyPrefix overrides the key prefix, default "doppelkopf".
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisSink) {
		s.prefix = prefix
	}
}

// WithTTL expires a table's snapshot list some time after its last write.
// Zero keeps lists forever.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisSink) {
		s.ttl = ttl
	}
}

func NewRedisSink(rdb redis.Cmdable, opts ...RedisOption) *RedisSink {
	s := &RedisSink{
		rdb:    rdb,
		prefix: defaultKeyPrefix,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSink) key(tableID string) string {
	return s.prefix + ":snapshots:" + tableID
}

func (s *RedisSink) Write(ctx context.Context, tableID string, data []byte) error {
	key := s.key(tableID)
	if err := s.rdb.RPush(ctx, key, data).Err(); err != nil {
		log.Warn().Str("table", tableID).Err(err).Msg("snapshot: redis write failed")
		return err
	}
	if s.ttl > 0 {
		if err := s.rdb.Expire(ctx, key, s.ttl).Err(); err != nil {
			log.Warn().Str("table", tableID).Err(err).Msg("snapshot: redis expire failed")
		}
	}
	return nil
}

// Range reads back snapshots [start, stop] (redis list semantics, -1 for the
// end) for replay.
func (s *RedisSink) Range(ctx context.Context, tableID string, start, stop int64) ([][]byte, error) {
	vals, err := s.rdb.LRange(ctx, s.key(tableID), start, stop).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}

// Len returns the number of snapshots stored for the table.
func (s *RedisSink) Len(ctx context.Context, tableID string) (int64, error) {
	return s.rdb.LLen(ctx, s.key(tableID)).Result()
}
