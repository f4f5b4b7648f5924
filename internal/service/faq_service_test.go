package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gamisaur/gccan/internal/model"
)

func newTestFAQService() (FAQService, *fakeFAQRepo, *fakeFAQIndex) {
	repo := newFakeFAQRepo()
	index := &fakeFAQIndex{}
	return NewFAQService(repo, index), repo, index
}

func TestFAQCreateRequiresConfirmation(t *testing.T) {
	svc, repo, _ := newTestFAQService()

	_, err := svc.Create(context.Background(), "Enrollment", "How do I enroll?", "Visit the registrar.", "", false)
	var confirmErr *ConfirmationRequiredError
	if !errors.As(err, &confirmErr) {
		t.Fatalf("expected ConfirmationRequiredError, got %v", err)
	}
	if confirmErr.Kind != "faq.create" {
		t.Errorf("unexpected confirmation kind %q", confirmErr.Kind)
	}
	if len(repo.faqs) != 0 {
		t.Errorf("expected no write before confirmation, found %d records", len(repo.faqs))
	}

	faq, err := svc.Create(context.Background(), "Enrollment", "How do I enroll?", "Visit the registrar.", "", true)
	if err != nil {
		t.Fatalf("confirmed create failed: %v", err)
	}
	if faq.ID == 0 {
		t.Error("expected a store-assigned id")
	}
	if _, ok := svc.Lookup("Enrollment", "How do I enroll?"); !ok {
		t.Error("created FAQ missing from the refreshed directory")
	}
}

func TestFAQCreateEmptyFieldIsValidationError(t *testing.T) {
	svc, repo, _ := newTestFAQService()

	cases := []struct {
		name     string
		category string
		question string
		answer   string
	}{
		{"empty category", "", "Q", "A"},
		{"empty question", "Cat", "  ", "A"},
		{"empty answer", "Cat", "Q", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), tc.category, tc.question, tc.answer, "", true)
			var validationErr *ValidationError
			if !errors.As(err, &validationErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if len(repo.faqs) != 0 {
				t.Error("validation failure must not reach the store")
			}
		})
	}
}

func TestFAQDirectoryDuplicateQuestionLastWriteWins(t *testing.T) {
	svc, repo, _ := newTestFAQService()

	for _, answer := range []string{"first answer", "second answer"} {
		if err := repo.Create(&model.FAQ{
			Category: "Fees",
			Question: "How much is tuition?",
			Answer:   answer,
		}); err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}

	if err := svc.Refresh(); err != nil {
		t.Fatalf("refresh failed: %v", err)
	}

	faq, ok := svc.Lookup("Fees", "How much is tuition?")
	if !ok {
		t.Fatal("question missing from directory")
	}
	if faq.Answer != "second answer" {
		t.Errorf("expected the later record to win, got %q", faq.Answer)
	}
	if got := len(svc.List()); got != 2 {
		t.Errorf("raw record list should keep both rows, got %d", got)
	}
}

func TestFAQUpdateAnswerEmptyInputIsNoOp(t *testing.T) {
	svc, repo, _ := newTestFAQService()
	faq, err := svc.Create(context.Background(), "Fees", "How much is tuition?", "old answer", "", true)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateAnswer(context.Background(), faq.ID, "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated {
		t.Error("empty input must be a no-op")
	}
	if repo.faqs[faq.ID].Answer != "old answer" {
		t.Error("stored answer changed on a no-op")
	}

	updated, err = svc.UpdateAnswer(context.Background(), faq.ID, "new answer")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !updated {
		t.Error("expected a write to be reported")
	}
	got, _ := svc.Lookup("Fees", "How much is tuition?")
	if got.Answer != "new answer" {
		t.Errorf("directory kept the stale answer %q", got.Answer)
	}
}

func TestFAQRemoveConfirmationNamesQuestion(t *testing.T) {
	svc, repo, index := newTestFAQService()
	faq, err := svc.Create(context.Background(), "Fees", "How much is tuition?", "A lot.", "", true)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = svc.Remove(context.Background(), faq.ID, false)
	var confirmErr *ConfirmationRequiredError
	if !errors.As(err, &confirmErr) {
		t.Fatalf("expected ConfirmationRequiredError, got %v", err)
	}
	if confirmErr.Kind != "faq.delete" {
		t.Errorf("unexpected confirmation kind %q", confirmErr.Kind)
	}
	if want := "How much is tuition?"; !strings.Contains(confirmErr.Prompt, want) {
		t.Errorf("prompt %q does not name the question", confirmErr.Prompt)
	}
	if len(repo.faqs) != 1 {
		t.Error("record deleted before confirmation")
	}

	if err := svc.Remove(context.Background(), faq.ID, true); err != nil {
		t.Fatalf("confirmed remove failed: %v", err)
	}
	if len(repo.faqs) != 0 {
		t.Error("record survived a confirmed remove")
	}
	if len(index.deleted) != 1 {
		t.Error("search index entry was not removed")
	}
	if _, ok := svc.Lookup("Fees", "How much is tuition?"); ok {
		t.Error("directory still lists the deleted question")
	}
}
