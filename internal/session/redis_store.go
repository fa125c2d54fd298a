// Package session stores login sessions in Redis.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"collabnote-be/internal/pkg/apperror"

	"github.com/redis/go-redis/v9"
)

type Session struct {
	Id        string    `json:"-"`
	UserId    uint      `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type IStore interface {
	CreateSession(ctx context.Context, sessionId string, userId uint, expiresAt time.Time) error
	GetSession(ctx context.Context, sessionId string) (*Session, error)
	UpdateSession(ctx context.Context, sessionId string, expiresAt time.Time) error
	DeleteSession(ctx context.Context, sessionId string) error
}

// RedisStore keeps one key per session; Redis expiry removes stale ones.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:",
	}
}

func (s *RedisStore) key(sessionId string) string {
	return s.prefix + sessionId
}

func (s *RedisStore) CreateSession(ctx context.Context, sessionId string, userId uint, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("session %s already expired", sessionId)
	}

	data, err := json.Marshal(Session{
		UserId:    userId,
		CreatedAt: time.Now().UTC(),
		ExpiresAt: expiresAt.UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	// SETNX keeps an existing session from being overwritten by an id collision.
	ok, err := s.client.SetNX(ctx, s.key(sessionId), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	if !ok {
		return &apperror.AlreadyInDBError{Message: fmt.Sprintf("session %s already exists", sessionId)}
	}
	return nil
}

func (s *RedisStore) GetSession(ctx context.Context, sessionId string) (*Session, error) {
	raw, err := s.client.Get(ctx, s.key(sessionId)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperror.NotInDB("session %s not found or expired", sessionId)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup session: %w", err)
	}

	var sess Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		return nil, fmt.Errorf("unmarshal session: %w", err)
	}
	sess.Id = sessionId
	return &sess, nil
}

// UpdateSession moves the expiry of an existing session.
func (s *RedisStore) UpdateSession(ctx context.Context, sessionId string, expiresAt time.Time) error {
	sess, err := s.GetSession(ctx, sessionId)
	if err != nil {
		return err
	}
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return s.DeleteSession(ctx, sessionId)
	}

	sess.ExpiresAt = expiresAt.UTC()
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ok, err := s.client.SetXX(ctx, s.key(sessionId), data, ttl).Result()
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	if !ok {
		return apperror.NotInDB("session %s not found or expired", sessionId)
	}
	return nil
}

func (s *RedisStore) DeleteSession(ctx context.Context, sessionId string) error {
	n, err := s.client.Del(ctx, s.key(sessionId)).Result()
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	if n == 0 {
		return apperror.NotInDB("session %s not found", sessionId)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
