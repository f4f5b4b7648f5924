package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/repository"
	"github.com/gamisaur/gccan/pkg/log"
	"github.com/gamisaur/gccan/pkg/mailer"
	"github.com/gamisaur/gccan/pkg/tasks"
)

// bannerDuration is how long the transient new-feedback banner stays up
// before it self-clears.
const bannerDuration = 5 * time.Second

// FeedbackService maintains the feedback inbox: a live-synchronized list of
// visitor submissions, most recent first.
type FeedbackService interface {
	SubscribeLive(ctx context.Context) (func(), error)
	AddListener(onSnapshot func([]model.Feedback)) func()
	Snapshot() []model.Feedback
	BannerActive() bool
	Submit(ctx context.Context, email, message string) (*model.Feedback, error)
	MarkResolved(ctx context.Context, id string, confirmed bool) error
	Remove(ctx context.Context, id string, confirmed bool) error
	Reply(ctx context.Context, id, replyText string) (bool, error)
}

type feedbackService struct {
	feedbackRepo repository.FeedbackRepository
	mail         mailer.Mailer
	// produce publishes the feedback-submitted event; nil disables fan-out.
	produce func(tasks.FeedbackSubmittedTask) error
	now     func() time.Time

	mu          sync.RWMutex
	entries     []model.Feedback
	gotFirst    bool
	bannerUntil time.Time
	listeners   map[int]func([]model.Feedback)
	nextListen  int
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(feedbackRepo repository.FeedbackRepository, mail mailer.Mailer, produce func(tasks.FeedbackSubmittedTask) error) FeedbackService {
	return &feedbackService{
		feedbackRepo: feedbackRepo,
		mail:         mail,
		produce:      produce,
		now:          time.Now,
		listeners:    make(map[int]func([]model.Feedback)),
	}
}

// SubscribeLive establishes the push subscription on the feedback store. Each
// emission replaces the inbox with the new snapshot; the returned func tears
// the subscription down.
func (s *feedbackService) SubscribeLive(ctx context.Context) (func(), error) {
	return s.feedbackRepo.Subscribe(ctx, s.applySnapshot)
}

// AddListener registers a callback invoked with every applied snapshot (used
// by the admin console's websocket stream). The returned func unregisters it.
func (s *feedbackService) AddListener(onSnapshot func([]model.Feedback)) func() {
	s.mu.Lock()
	id := s.nextListen
	s.nextListen++
	s.listeners[id] = onSnapshot
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// applySnapshot replaces the inbox with an authoritative snapshot, sorted by
// timestamp descending. If the count grew since the previous emission (and
// this is not the first one), the transient banner is raised.
func (s *feedbackService) applySnapshot(snapshot []model.Feedback) {
	sorted := make([]model.Feedback, len(snapshot))
	copy(sorted, snapshot)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Timestamp != sorted[j].Timestamp {
			return sorted[i].Timestamp > sorted[j].Timestamp
		}
		return sorted[i].ID > sorted[j].ID
	})

	s.mu.Lock()
	grew := s.gotFirst && len(sorted) > len(s.entries)
	s.entries = sorted
	s.gotFirst = true
	if grew {
		s.bannerUntil = s.now().Add(bannerDuration)
	}
	listeners := make([]func([]model.Feedback), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(sorted)
	}
}

// Snapshot returns the current inbox, most recent first.
func (s *feedbackService) Snapshot() []model.Feedback {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.entries
}

// BannerActive reports whether the new-feedback banner is currently up.
func (s *feedbackService) BannerActive() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.now().Before(s.bannerUntil)
}

// Submit validates and stores one visitor submission, unresolved, stamped at
// send time, and fans the event out to the notifier topic.
func (s *feedbackService) Submit(ctx context.Context, email, message string) (*model.Feedback, error) {
	email = strings.TrimSpace(email)
	message = strings.TrimSpace(message)
	if email == "" || message == "" {
		return nil, &ValidationError{Message: "email and message are required"}
	}

	feedback := &model.Feedback{
		Email:     email,
		Message:   message,
		Timestamp: s.now().UnixMilli(),
		Resolved:  false,
	}
	id, err := s.feedbackRepo.Create(ctx, feedback)
	if err != nil {
		return nil, err
	}
	feedback.ID = id

	if s.produce != nil {
		task := tasks.FeedbackSubmittedTask{
			FeedbackID: feedback.ID,
			Email:      feedback.Email,
			Message:    feedback.Message,
			Timestamp:  feedback.Timestamp,
		}
		if err := s.produce(task); err != nil {
			// The notification is best-effort; the submission already stands.
			log.Errorf("failed to produce feedback event %s: %v", feedback.ID, err)
		}
	}

	return feedback, nil
}

// MarkResolved flips an entry to resolved after confirmation.
func (s *feedbackService) MarkResolved(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return &ConfirmationRequiredError{
			Kind:   "feedback.resolve",
			Prompt: "Mark this feedback as resolved?",
		}
	}
	return s.feedbackRepo.SetResolved(ctx, id, true)
}

// Remove deletes an entry after confirmation. Allowed at any lifecycle stage.
func (s *feedbackService) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return &ConfirmationRequiredError{
			Kind:   "feedback.delete",
			Prompt: "Are you sure you want to delete this feedback?",
		}
	}
	return s.feedbackRepo.Delete(ctx, id)
}

// Reply dispatches the reply through the transactional mailer and, only on
// successful dispatch, marks the entry resolved. A failed dispatch leaves the
// resolved flag untouched. Empty reply text is a no-op; the bool reports
// whether a reply was sent.
func (s *feedbackService) Reply(ctx context.Context, id, replyText string) (bool, error) {
	replyText = strings.TrimSpace(replyText)
	if replyText == "" {
		return false, nil
	}

	entry, err := s.feedbackRepo.FindByID(ctx, id)
	if err != nil {
		return false, err
	}

	if err := s.mail.SendReply(entry.Email, entry.Message, replyText); err != nil {
		return false, err
	}

	if err := s.feedbackRepo.SetResolved(ctx, id, true); err != nil {
		return true, err
	}
	return true, nil
}
