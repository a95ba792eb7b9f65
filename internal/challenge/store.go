// Package challenge keeps pending two-factor login state in Redis.
//
// A login that hits a confirmed authenticator does not produce tokens.
// It produces a short-lived challenge record keyed by an opaque token,
// and the client finishes by presenting that token with a TOTP or
// backup code. Keeping the record out of the session table means a
// crashed or restarted login flow simply expires instead of leaving
// half-authenticated state behind.
package challenge

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "2fa:challenge:"

// Pending is what the verify step needs to finish a challenged login.
// Provider records how the first factor was satisfied (password, google,
// facebook) for the audit log.
type Pending struct {
	UserID   uuid.UUID `json:"user_id"`
	Provider string    `json:"provider"`
	IssuedAt time.Time `json:"issued_at"`
}

type Store interface {
	Create(ctx context.Context, pending Pending) (string, error)
	// Consume returns the pending record and deletes it in one step so
	// a token can only ever complete one login.
	Consume(ctx context.Context, token string) (*Pending, error)
}

type store struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

func NewStore(client *redis.Client, ttl time.Duration, log *zap.Logger) Store {
	return &store{
		client: client,
		ttl:    ttl,
		log:    log.With(zap.String("component", "challenge_store")),
	}
}

func (s *store) Create(ctx context.Context, pending Pending) (string, error) {
	token := uuid.New().String()

	payload, err := json.Marshal(pending)
	if err != nil {
		return "", fmt.Errorf("marshal pending challenge: %w", err)
	}

	err = s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err()
	if err != nil {
		s.log.Error("Failed to store pending challenge",
			zap.Error(err),
			zap.String("user_id", pending.UserID.String()),
		)
		return "", fmt.Errorf("store pending challenge: %w", err)
	}

	return token, nil
}

func (s *store) Consume(ctx context.Context, token string) (*Pending, error) {
	// GETDEL keeps lookup and invalidation atomic. Two concurrent
	// verify calls can race on the same token; exactly one wins.
	payload, err := s.client.GetDel(ctx, keyPrefix+token).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		s.log.Error("Failed to consume pending challenge", zap.Error(err))
		return nil, fmt.Errorf("consume pending challenge: %w", err)
	}

	var pending Pending
	if err := json.Unmarshal([]byte(payload), &pending); err != nil {
		return nil, fmt.Errorf("unmarshal pending challenge: %w", err)
	}

	return &pending, nil
}
