package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/repository"
	"github.com/gamisaur/gccan/pkg/log"
)

// ErrUnknownQuestion is returned when a clicked question is not in the FAQ
// directory.
var ErrUnknownQuestion = errors.New("question not found in FAQ directory")

// ChatService drives the visitor conversation: it appends user/bot turn pairs
// to the session transcript and renders bot answers (linkified HTML plus a
// markup-free speech text).
type ChatService interface {
	Transcript(ctx context.Context, sessionID string) ([]model.ChatTurn, error)
	AskFAQ(ctx context.Context, sessionID, category, question string) ([]model.ChatTurn, error)
	Ask(ctx context.Context, sessionID, question string) ([]model.ChatTurn, error)
	ClearTranscript(ctx context.Context, sessionID string) error
}

type chatService struct {
	faqService     FAQService
	transcriptRepo repository.TranscriptRepository
	index          FAQIndex
	fallbackAnswer string
	now            func() time.Time
}

// NewChatService creates a new ChatService instance. index may be nil, in
// which case free-text questions always get the fallback answer.
func NewChatService(faqService FAQService, transcriptRepo repository.TranscriptRepository, index FAQIndex, fallbackAnswer string) ChatService {
	if fallbackAnswer == "" {
		fallbackAnswer = "Sorry, I don't have an answer for that yet. Please pick a question from the list or send us your question as feedback."
	}
	return &chatService{
		faqService:     faqService,
		transcriptRepo: transcriptRepo,
		index:          index,
		fallbackAnswer: fallbackAnswer,
		now:            time.Now,
	}
}

// Transcript returns the session's conversation so far.
func (s *chatService) Transcript(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	return s.transcriptRepo.GetTranscript(ctx, sessionID)
}

// AskFAQ handles a visitor clicking a known question: the question and its
// stored answer are appended to the transcript as a user/bot turn pair.
func (s *chatService) AskFAQ(ctx context.Context, sessionID, category, question string) ([]model.ChatTurn, error) {
	faq, ok := s.faqService.Lookup(category, question)
	if !ok {
		return nil, ErrUnknownQuestion
	}
	return s.appendExchange(ctx, sessionID, question, faq.Answer, faq.MediaURL)
}

// Ask handles a free-text question: the best-matching FAQ answers it, or the
// fallback apology if nothing matches.
func (s *chatService) Ask(ctx context.Context, sessionID, question string) ([]model.ChatTurn, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, &ValidationError{Message: "question is required"}
	}

	answer := s.fallbackAnswer
	mediaURL := ""
	if s.index != nil {
		docs, err := s.index.Search(ctx, question, 1)
		if err != nil {
			// Degrade to the fallback answer rather than failing the chat.
			log.Warnf("FAQ search failed for %q: %v", question, err)
		} else if len(docs) > 0 {
			answer = docs[0].Answer
			mediaURL = docs[0].MediaURL
		}
	}

	return s.appendExchange(ctx, sessionID, question, answer, mediaURL)
}

// ClearTranscript drops the session's conversation (used when the visitor
// returns to the landing view).
func (s *chatService) ClearTranscript(ctx context.Context, sessionID string) error {
	return s.transcriptRepo.Clear(ctx, sessionID)
}

func (s *chatService) appendExchange(ctx context.Context, sessionID, question, answer, mediaURL string) ([]model.ChatTurn, error) {
	now := s.now()
	rendered := linkify(answer)
	turns := []model.ChatTurn{
		{Speaker: model.SpeakerUser, Text: question, Timestamp: now},
		{
			Speaker:    model.SpeakerBot,
			Text:       rendered,
			SpeechText: stripTags(rendered),
			MediaURL:   mediaURL,
			Timestamp:  now,
		},
	}
	if err := s.transcriptRepo.AppendTurns(ctx, sessionID, turns...); err != nil {
		return nil, err
	}
	return turns, nil
}

var urlRegex = regexp.MustCompile(`https?://[^\s]+`)

// linkify wraps bare URLs in anchor tags opening in a new context.
func linkify(text string) string {
	return urlRegex.ReplaceAllStringFunc(text, func(url string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank" rel="noopener noreferrer">%s</a>`, url, url)
	})
}

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// stripTags removes HTML markup so the spoken text reads cleanly.
func stripTags(text string) string {
	return tagRegex.ReplaceAllString(text, "")
}
