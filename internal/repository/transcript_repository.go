package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/go-redis/redis/v8"
)

// transcriptTTL bounds how long an abandoned visitor transcript lingers.
const transcriptTTL = 24 * time.Hour

// TranscriptRepository stores the per-session conversation transcript. The
// transcript is derived state: append-only while the visitor chats, cleared
// when the session returns to the landing view.
type TranscriptRepository interface {
	GetTranscript(ctx context.Context, sessionID string) ([]model.ChatTurn, error)
	AppendTurns(ctx context.Context, sessionID string, turns ...model.ChatTurn) error
	Clear(ctx context.Context, sessionID string) error
}

type redisTranscriptRepository struct {
	redisClient *redis.Client
}

// NewTranscriptRepository creates a new TranscriptRepository instance.
func NewTranscriptRepository(redisClient *redis.Client) TranscriptRepository {
	return &redisTranscriptRepository{redisClient: redisClient}
}

func transcriptKey(sessionID string) string {
	return fmt.Sprintf("transcript:%s", sessionID)
}

// GetTranscript loads the full transcript for a session, oldest turn first.
func (r *redisTranscriptRepository) GetTranscript(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	jsonData, err := r.redisClient.Get(ctx, transcriptKey(sessionID)).Result()
	if err == redis.Nil {
		return []model.ChatTurn{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transcript: %w", err)
	}
	var turns []model.ChatTurn
	if err := json.Unmarshal([]byte(jsonData), &turns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal transcript: %w", err)
	}
	return turns, nil
}

// AppendTurns appends turns to the end of the session's transcript.
func (r *redisTranscriptRepository) AppendTurns(ctx context.Context, sessionID string, turns ...model.ChatTurn) error {
	existing, err := r.GetTranscript(ctx, sessionID)
	if err != nil {
		return err
	}
	existing = append(existing, turns...)

	jsonData, err := json.Marshal(existing)
	if err != nil {
		return fmt.Errorf("failed to marshal transcript: %w", err)
	}
	if err := r.redisClient.Set(ctx, transcriptKey(sessionID), jsonData, transcriptTTL).Err(); err != nil {
		return fmt.Errorf("failed to set transcript: %w", err)
	}
	return nil
}

// Clear drops the session's transcript.
func (r *redisTranscriptRepository) Clear(ctx context.Context, sessionID string) error {
	return r.redisClient.Del(ctx, transcriptKey(sessionID)).Err()
}
