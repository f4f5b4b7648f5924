package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/go-redis/redis/v8"
)

// sessionTTL bounds how long an idle visitor session survives.
const sessionTTL = 7 * 24 * time.Hour

// SessionRepository stores the per-visitor view state.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (*model.Session, error)
	Save(ctx context.Context, session *model.Session) error
}

type redisSessionRepository struct {
	redisClient *redis.Client
}

// NewSessionRepository creates a new SessionRepository instance.
func NewSessionRepository(redisClient *redis.Client) SessionRepository {
	return &redisSessionRepository{redisClient: redisClient}
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

// Get loads a session. An unknown session id yields a fresh session on the
// landing view, so every visitor starts in the same place.
func (r *redisSessionRepository) Get(ctx context.Context, sessionID string) (*model.Session, error) {
	jsonData, err := r.redisClient.Get(ctx, sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return &model.Session{ID: sessionID, State: model.StateLanding}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	var session model.Session
	if err := json.Unmarshal([]byte(jsonData), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	return &session, nil
}

// Save stores a session state.
func (r *redisSessionRepository) Save(ctx context.Context, session *model.Session) error {
	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := r.redisClient.Set(ctx, sessionKey(session.ID), jsonData, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}
	return nil
}
