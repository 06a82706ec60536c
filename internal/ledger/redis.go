package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Stigz/eigernordvan/internal/trip"
)

const (
	// LedgerStream is the Redis stream holding the ledger.
	LedgerStream = "vanlog:ledger"

	entryField = "entry"
	pageSize   = 100
)

// RedisStore appends entries to a Redis stream.
type RedisStore struct {
	rdb    *goredis.Client
	stream string
}

// OpenRedis connects to addr and verifies the connection.
func OpenRedis(ctx context.Context, addr string) (*RedisStore, error) {
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStore(rdb, LedgerStream), nil
}

// NewRedisStore wraps an existing client.
func NewRedisStore(rdb *goredis.Client, stream string) *RedisStore {
	return &RedisStore{rdb: rdb, stream: stream}
}

// Append adds the JSON-encoded entry to the stream with XADD.
func (s *RedisStore) Append(ctx context.Context, entry trip.Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("ledger.RedisStore.Append: %w", err)
	}

	err = s.rdb.XAdd(ctx, &goredis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{entryField: string(data)},
	}).Err()
	if err != nil {
		return fmt.Errorf("ledger.RedisStore.Append: %w", err)
	}
	return nil
}

// List reads the stream backwards with XREVRANGE, paging until the limit is
// filled or the stream is exhausted.
func (s *RedisStore) List(ctx context.Context, q Query) ([]trip.Entry, error) {
	q = q.normalized()

	var out []trip.Entry
	end := "+"
	for len(out) < q.Limit {
		msgs, err := s.rdb.XRevRangeN(ctx, s.stream, end, "-", pageSize).Result()
		if err != nil {
			return nil, fmt.Errorf("ledger.RedisStore.List: %w", err)
		}

		for _, msg := range msgs {
			entry, err := decodeStreamEntry(msg)
			if err != nil {
				return nil, fmt.Errorf("ledger.RedisStore.List: %w", err)
			}
			if q.UserName != "" && entry.UserName != q.UserName {
				continue
			}
			out = append(out, entry)
			if len(out) == q.Limit {
				break
			}
		}

		if len(msgs) < pageSize {
			break
		}
		// Exclusive range start, Redis >= 6.2
		end = "(" + msgs[len(msgs)-1].ID
	}

	return out, nil
}

func decodeStreamEntry(msg goredis.XMessage) (trip.Entry, error) {
	raw, ok := msg.Values[entryField].(string)
	if !ok {
		return trip.Entry{}, fmt.Errorf("stream message %s has no %q field", msg.ID, entryField)
	}

	var entry trip.Entry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		return trip.Entry{}, fmt.Errorf("decode stream message %s: %w", msg.ID, err)
	}
	return entry, nil
}

// Close tears down the Redis connection.
func (s *RedisStore) Close() error { return s.rdb.Close() }
