package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"github.com/stanstork/gpl-website-api/internal/models"
)

// ErrMiss is returned when no snapshot has been stored yet or it expired.
var ErrMiss = errors.New("cache miss")

const emergencyContactsKey = "gpl:emergency_contacts:last_known_good"

type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	SetEx(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	Close() error
}

// ContactsCache keeps the last active emergency contact list read from the
// database so it can be served while the database is down.
type ContactsCache struct {
	redis RedisClient
	ttl   time.Duration
}

func NewContactsCache(client RedisClient, ttl time.Duration) *ContactsCache {
	if ttl <= 0 {
		ttl = 72 * time.Hour
	}
	return &ContactsCache{redis: client, ttl: ttl}
}

func (c *ContactsCache) Store(ctx context.Context, contacts []models.EmergencyContact) error {
	data, err := json.Marshal(contacts)
	if err != nil {
		return errors.Wrap(err, "encode emergency contacts")
	}
	return errors.Wrap(c.redis.SetEx(ctx, emergencyContactsKey, data, c.ttl).Err(), "store emergency contacts")
}

func (c *ContactsCache) Load(ctx context.Context) ([]models.EmergencyContact, error) {
	data, err := c.redis.Get(ctx, emergencyContactsKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, errors.Wrap(err, "load emergency contacts")
	}

	var contacts []models.EmergencyContact
	if err := json.Unmarshal(data, &contacts); err != nil {
		return nil, errors.Wrap(err, "decode emergency contacts")
	}
	if len(contacts) == 0 {
		return nil, ErrMiss
	}
	return contacts, nil
}

// Invalidate drops the snapshot after an admin edit so the next read refreshes it.
func (c *ContactsCache) Invalidate(ctx context.Context) error {
	return errors.Wrap(c.redis.Del(ctx, emergencyContactsKey).Err(), "invalidate emergency contacts")
}

// Ping checks redis connectivity for the health endpoint.
func (c *ContactsCache) Ping(ctx context.Context) error {
	return c.redis.Ping(ctx).Err()
}

func (c *ContactsCache) Close() error {
	return c.redis.Close()
}
