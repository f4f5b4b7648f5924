package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/go-redis/redis/v8"
)

const (
	feedbackKeyPrefix    = "feedback:"
	feedbackIDSetKey     = "feedback:ids"
	feedbackEventChannel = "feedback:events"
)

// FeedbackRepository defines operations on the realtime feedback store. Every
// mutation publishes an event; Subscribe turns those events into a stream of
// whole-collection snapshots, never deltas.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *model.Feedback) (string, error)
	FindAll(ctx context.Context) ([]model.Feedback, error)
	FindByID(ctx context.Context, id string) (*model.Feedback, error)
	SetResolved(ctx context.Context, id string, resolved bool) error
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, onSnapshot func([]model.Feedback)) (func(), error)
}

type redisFeedbackRepository struct {
	redisClient *redis.Client
}

// NewFeedbackRepository creates a new FeedbackRepository instance.
func NewFeedbackRepository(redisClient *redis.Client) FeedbackRepository {
	return &redisFeedbackRepository{redisClient: redisClient}
}

// Create stores a new feedback entry and returns its store-assigned id.
func (r *redisFeedbackRepository) Create(ctx context.Context, feedback *model.Feedback) (string, error) {
	feedback.ID = fmt.Sprintf("%d", time.Now().UnixNano())

	data, err := json.Marshal(feedback)
	if err != nil {
		return "", fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := r.redisClient.Set(ctx, feedbackKeyPrefix+feedback.ID, data, 0).Err(); err != nil {
		return "", fmt.Errorf("failed to store feedback: %w", err)
	}
	if err := r.redisClient.SAdd(ctx, feedbackIDSetKey, feedback.ID).Err(); err != nil {
		return "", fmt.Errorf("failed to index feedback id: %w", err)
	}

	r.publish(ctx)
	return feedback.ID, nil
}

// FindAll loads the full feedback collection. Order is unspecified here; the
// inbox sorts every snapshot itself.
func (r *redisFeedbackRepository) FindAll(ctx context.Context) ([]model.Feedback, error) {
	ids, err := r.redisClient.SMembers(ctx, feedbackIDSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback ids: %w", err)
	}

	entries := make([]model.Feedback, 0, len(ids))
	for _, id := range ids {
		entry, err := r.FindByID(ctx, id)
		if err != nil {
			// A concurrently deleted entry is not an error for the snapshot.
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// FindByID loads a single feedback entry.
func (r *redisFeedbackRepository) FindByID(ctx context.Context, id string) (*model.Feedback, error) {
	data, err := r.redisClient.Get(ctx, feedbackKeyPrefix+id).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback %s: %w", id, err)
	}
	var feedback model.Feedback
	if err := json.Unmarshal([]byte(data), &feedback); err != nil {
		return nil, fmt.Errorf("failed to unmarshal feedback %s: %w", id, err)
	}
	return &feedback, nil
}

// SetResolved flips the resolved flag of one entry.
func (r *redisFeedbackRepository) SetResolved(ctx context.Context, id string, resolved bool) error {
	feedback, err := r.FindByID(ctx, id)
	if err != nil {
		return err
	}
	feedback.Resolved = resolved

	data, err := json.Marshal(feedback)
	if err != nil {
		return fmt.Errorf("failed to marshal feedback: %w", err)
	}
	if err := r.redisClient.Set(ctx, feedbackKeyPrefix+id, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to update feedback: %w", err)
	}

	r.publish(ctx)
	return nil
}

// Delete removes one entry from the store.
func (r *redisFeedbackRepository) Delete(ctx context.Context, id string) error {
	if err := r.redisClient.Del(ctx, feedbackKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("failed to delete feedback: %w", err)
	}
	if err := r.redisClient.SRem(ctx, feedbackIDSetKey, id).Err(); err != nil {
		return fmt.Errorf("failed to unindex feedback id: %w", err)
	}

	r.publish(ctx)
	return nil
}

// Subscribe delivers an initial snapshot immediately, then a fresh snapshot
// after every store mutation, until the returned unsubscribe func is called
// or ctx is cancelled.
func (r *redisFeedbackRepository) Subscribe(ctx context.Context, onSnapshot func([]model.Feedback)) (func(), error) {
	pubsub := r.redisClient.Subscribe(ctx, feedbackEventChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("failed to subscribe to feedback events: %w", err)
	}

	snapshot, err := r.FindAll(ctx)
	if err != nil {
		_ = pubsub.Close()
		return nil, err
	}
	onSnapshot(snapshot)

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-ch:
				if !ok {
					return
				}
				snapshot, err := r.FindAll(ctx)
				if err != nil {
					log.Errorf("failed to reload feedback snapshot: %v", err)
					continue
				}
				onSnapshot(snapshot)
			}
		}
	}()

	return func() { _ = pubsub.Close() }, nil
}

func (r *redisFeedbackRepository) publish(ctx context.Context) {
	if err := r.redisClient.Publish(ctx, feedbackEventChannel, "changed").Err(); err != nil {
		log.Errorf("failed to publish feedback event: %v", err)
	}
}
