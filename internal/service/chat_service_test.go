package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gamisaur/gccan/internal/model"
)

func newTestChatService(t *testing.T, index FAQIndex) (ChatService, *fakeTranscriptRepo, FAQService) {
	t.Helper()
	faqRepo := newFakeFAQRepo()
	faqSvc := NewFAQService(faqRepo, nil)
	transcripts := newFakeTranscriptRepo()
	return NewChatService(faqSvc, transcripts, index, ""), transcripts, faqSvc
}

func TestAskFAQAppendsExchange(t *testing.T) {
	svc, transcripts, faqSvc := newTestChatService(t, nil)
	if _, err := faqSvc.Create(context.Background(), "Fees", "How much is tuition?", "See the cashier.", "", true); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	turns, err := svc.AskFAQ(context.Background(), "s1", "Fees", "How much is tuition?")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if len(turns) != 2 {
		t.Fatalf("expected a user/bot turn pair, got %d turns", len(turns))
	}
	if turns[0].Speaker != "user" || turns[0].Text != "How much is tuition?" {
		t.Errorf("unexpected user turn: %+v", turns[0])
	}
	if turns[1].Speaker != "bot" || !strings.Contains(turns[1].Text, "See the cashier.") {
		t.Errorf("unexpected bot turn: %+v", turns[1])
	}

	stored, _ := transcripts.GetTranscript(context.Background(), "s1")
	if len(stored) != 2 {
		t.Errorf("transcript should hold the appended pair, got %d turns", len(stored))
	}
}

func TestAskFAQUnknownQuestion(t *testing.T) {
	svc, _, _ := newTestChatService(t, nil)

	_, err := svc.AskFAQ(context.Background(), "s1", "Fees", "Nonexistent?")
	if !errors.Is(err, ErrUnknownQuestion) {
		t.Fatalf("expected ErrUnknownQuestion, got %v", err)
	}
}

func TestBotAnswerLinkifiedWithCleanSpeechText(t *testing.T) {
	svc, _, faqSvc := newTestChatService(t, nil)
	if _, err := faqSvc.Create(context.Background(), "Enrollment", "Where do I apply?",
		"Apply at https://gccan.edu.ph/apply today.", "", true); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	turns, err := svc.AskFAQ(context.Background(), "s1", "Enrollment", "Where do I apply?")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	bot := turns[1]

	if !strings.Contains(bot.Text, `<a href="https://gccan.edu.ph/apply"`) {
		t.Errorf("URL not wrapped in an anchor: %q", bot.Text)
	}
	if !strings.Contains(bot.Text, `target="_blank"`) || !strings.Contains(bot.Text, `rel="noopener noreferrer"`) {
		t.Errorf("anchor must open in a new context: %q", bot.Text)
	}
	if strings.ContainsAny(bot.SpeechText, "<>") {
		t.Errorf("speech text must carry no markup: %q", bot.SpeechText)
	}
	if !strings.Contains(bot.SpeechText, "https://gccan.edu.ph/apply") {
		t.Errorf("speech text lost the URL text: %q", bot.SpeechText)
	}
}

func TestAskFreeTextUsesIndexWithFallback(t *testing.T) {
	index := &fakeFAQIndex{}
	svc, _, _ := newTestChatService(t, index)
	if err := index.Index(context.Background(), model.FAQDocument{
		FAQID:    "1",
		Category: "Fees",
		Question: "How much is tuition?",
		Answer:   "See the cashier.",
	}); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	turns, err := svc.Ask(context.Background(), "s1", "tuition")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !strings.Contains(turns[1].Text, "See the cashier.") {
		t.Errorf("expected the matched answer, got %q", turns[1].Text)
	}

	turns, err = svc.Ask(context.Background(), "s1", "parking rules")
	if err != nil {
		t.Fatalf("ask failed: %v", err)
	}
	if !strings.Contains(turns[1].Text, "Sorry") {
		t.Errorf("unmatched question should get the fallback answer, got %q", turns[1].Text)
	}
}

func TestAskDegradesToFallbackWhenIndexFails(t *testing.T) {
	index := &fakeFAQIndex{failing: true}
	svc, _, _ := newTestChatService(t, index)

	turns, err := svc.Ask(context.Background(), "s1", "tuition")
	if err != nil {
		t.Fatalf("index failure must not fail the chat: %v", err)
	}
	if !strings.Contains(turns[1].Text, "Sorry") {
		t.Errorf("expected the fallback answer, got %q", turns[1].Text)
	}
}

func TestAskEmptyQuestionIsValidationError(t *testing.T) {
	svc, _, _ := newTestChatService(t, nil)

	_, err := svc.Ask(context.Background(), "s1", "   ")
	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestClearTranscript(t *testing.T) {
	svc, transcripts, faqSvc := newTestChatService(t, nil)
	if _, err := faqSvc.Create(context.Background(), "Fees", "How much is tuition?", "A lot.", "", true); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if _, err := svc.AskFAQ(context.Background(), "s1", "Fees", "How much is tuition?"); err != nil {
		t.Fatalf("ask failed: %v", err)
	}

	if err := svc.ClearTranscript(context.Background(), "s1"); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	stored, _ := transcripts.GetTranscript(context.Background(), "s1")
	if len(stored) != 0 {
		t.Errorf("transcript should be empty after clear, got %d turns", len(stored))
	}
}
