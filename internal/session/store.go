package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrInvalidSession  = errors.New("invalid session payload")
)

type Session struct {
	ID        string    `json:"id"`
	Principal Principal `json:"principal"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type Store interface {
	Create(ctx context.Context, p Principal) (*Session, error)
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type redisStore struct {
	redis *redis.Client
	ttl   time.Duration
	newID func() string
	now   func() time.Time
}

func NewRedisStore(client *redis.Client, ttl time.Duration) Store {
	return &redisStore{
		redis: client,
		ttl:   ttl,
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (s *redisStore) Create(ctx context.Context, p Principal) (*Session, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	sess := &Session{
		ID:        s.newID(),
		Principal: p,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("marshal session: %w", err)
	}

	if err := s.redis.Set(ctx, keyPrefix+sess.ID, data, s.ttl).Err(); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return sess, nil
}

func (s *redisStore) Get(ctx context.Context, id string) (*Session, error) {
	data, err := s.redis.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil || sess.ID != id || sess.Principal.Validate() != nil {
		// Drop payloads we cannot trust so they are not retried.
		s.redis.Del(ctx, keyPrefix+id)
		return nil, ErrInvalidSession
	}
	return &sess, nil
}

func (s *redisStore) Delete(ctx context.Context, id string) error {
	return s.redis.Del(ctx, keyPrefix+id).Err()
}
