package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"bookingdesk/internal/models"

	"github.com/redis/go-redis/v9"
)

const defaultRedisRetries = 32

// RedisStore keeps each booking as a JSON value and the insertion order in a list.
// Updates use WATCH/MULTI/EXEC and retry when another writer touched the key.
type RedisStore struct {
	client     *redis.Client
	prefix     string
	maxRetries int
}

func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "bookingdesk"
	}
	return &RedisStore{client: client, prefix: prefix, maxRetries: defaultRedisRetries}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:booking:%s", s.prefix, id)
}

func (s *RedisStore) orderKey() string {
	return s.prefix + ":bookings"
}

func (s *RedisStore) Insert(ctx context.Context, b *models.Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("marshal booking: %w", err)
	}
	key := s.key(b.ID)

	return s.withRetry(func() error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			n, err := tx.Exists(ctx, key).Result()
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("insert %s: %w", b.ID, models.ErrDuplicate)
			}
			_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				p.Set(ctx, key, data, 0)
				p.RPush(ctx, s.orderKey(), b.ID)
				return nil
			})
			return err
		}, key)
	})
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Booking, error) {
	val, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("get %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", id, err)
	}
	return decodeBooking(val)
}

func (s *RedisStore) List(ctx context.Context) ([]models.Booking, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	out := make([]models.Booking, 0, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load bookings: %w", err)
	}

	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // deleted administratively
		}
		b, err := decodeBooking([]byte(str))
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (*models.Booking, error) {
	key := s.key(id)
	var result *models.Booking

	err := s.withRetry(func() error {
		return s.client.Watch(ctx, func(tx *redis.Tx) error {
			val, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("update %s: %w", id, models.ErrNotFound)
			}
			if err != nil {
				return err
			}
			b, err := decodeBooking(val)
			if err != nil {
				return err
			}
			if err := fn(b); err != nil {
				return err
			}
			data, err := json.Marshal(b)
			if err != nil {
				return fmt.Errorf("marshal booking: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(p redis.Pipeliner) error {
				p.Set(ctx, key, data, 0)
				return nil
			})
			if err == nil {
				result = b
			}
			return err
		}, key)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *RedisStore) withRetry(op func() error) error {
	for i := 0; i < s.maxRetries; i++ {
		err := op()
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return fmt.Errorf("redis transaction retries exhausted: %w", redis.TxFailedErr)
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeBooking(data []byte) (*models.Booking, error) {
	var b models.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("decode booking: %w", err)
	}
	return &b, nil
}
