package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/internal/repository"
	"github.com/gamisaur/gccan/pkg/log"
)

// FAQService maintains the FAQ directory: an in-memory category -> question ->
// entry mapping rebuilt wholesale from the store on every Refresh.
type FAQService interface {
	Refresh() error
	Directory() map[string]map[string]model.FAQ
	List() []model.FAQ
	Lookup(category, question string) (model.FAQ, bool)
	Create(ctx context.Context, category, question, answer, mediaURL string, confirmed bool) (*model.FAQ, error)
	UpdateAnswer(ctx context.Context, id uint, newAnswer string) (bool, error)
	Remove(ctx context.Context, id uint, confirmed bool) error
}

type faqService struct {
	faqRepo repository.FAQRepository
	index   FAQIndex

	mu        sync.RWMutex
	directory map[string]map[string]model.FAQ
	records   []model.FAQ
}

// NewFAQService creates a new FAQService instance. index may be nil when
// free-text search is disabled.
func NewFAQService(faqRepo repository.FAQRepository, index FAQIndex) FAQService {
	return &faqService{
		faqRepo:   faqRepo,
		index:     index,
		directory: make(map[string]map[string]model.FAQ),
	}
}

// Refresh fetches all FAQ records and rebuilds the directory from scratch.
// Duplicate question text within a category resolves last-write-wins, since
// the mapping is keyed by question text.
func (s *faqService) Refresh() error {
	faqs, err := s.faqRepo.FindAll()
	if err != nil {
		return fmt.Errorf("failed to fetch FAQs: %w", err)
	}

	directory := make(map[string]map[string]model.FAQ)
	for _, faq := range faqs {
		if directory[faq.Category] == nil {
			directory[faq.Category] = make(map[string]model.FAQ)
		}
		directory[faq.Category][faq.Question] = faq
	}

	s.mu.Lock()
	s.directory = directory
	s.records = faqs
	s.mu.Unlock()
	return nil
}

// Directory returns the current category -> question -> entry mapping.
func (s *faqService) Directory() map[string]map[string]model.FAQ {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.directory
}

// List returns the raw records from the last refresh, for the admin console.
func (s *faqService) List() []model.FAQ {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.records
}

// Lookup finds one directory entry by category and question text.
func (s *faqService) Lookup(category, question string) (model.FAQ, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	questions, ok := s.directory[category]
	if !ok {
		return model.FAQ{}, false
	}
	faq, ok := questions[question]
	return faq, ok
}

// Create validates, asks for confirmation, then writes the new FAQ and
// refreshes the directory. With any required field empty, no store write is
// attempted.
func (s *faqService) Create(ctx context.Context, category, question, answer, mediaURL string, confirmed bool) (*model.FAQ, error) {
	category = strings.TrimSpace(category)
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	if category == "" || question == "" || answer == "" {
		return nil, &ValidationError{Message: "category, question and answer are required"}
	}

	if !confirmed {
		return nil, &ConfirmationRequiredError{
			Kind:   "faq.create",
			Prompt: fmt.Sprintf("Add new FAQ?\n\nCategory: %s\nQuestion: %s\nAnswer: %s", category, question, answer),
		}
	}

	faq := &model.FAQ{
		Category: category,
		Question: question,
		Answer:   answer,
		MediaURL: strings.TrimSpace(mediaURL),
	}
	if err := s.faqRepo.Create(faq); err != nil {
		return nil, err
	}

	s.indexFAQ(ctx, faq)

	if err := s.Refresh(); err != nil {
		return nil, err
	}
	return faq, nil
}

// UpdateAnswer replaces only the answer of an FAQ. Empty or cancelled input is
// a no-op; the bool reports whether a write happened.
func (s *faqService) UpdateAnswer(ctx context.Context, id uint, newAnswer string) (bool, error) {
	newAnswer = strings.TrimSpace(newAnswer)
	if newAnswer == "" {
		return false, nil
	}

	faq, err := s.faqRepo.FindByID(id)
	if err != nil {
		return false, err
	}
	if err := s.faqRepo.UpdateAnswer(id, newAnswer); err != nil {
		return false, err
	}

	faq.Answer = newAnswer
	s.indexFAQ(ctx, faq)

	if err := s.Refresh(); err != nil {
		return true, err
	}
	return true, nil
}

// Remove deletes an FAQ after a confirmation naming the question being
// deleted.
func (s *faqService) Remove(ctx context.Context, id uint, confirmed bool) error {
	faq, err := s.faqRepo.FindByID(id)
	if err != nil {
		return err
	}

	if !confirmed {
		return &ConfirmationRequiredError{
			Kind:   "faq.delete",
			Prompt: fmt.Sprintf("Are you sure you want to delete the question: %q?", faq.Question),
		}
	}

	if err := s.faqRepo.Delete(id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.Delete(ctx, strconv.FormatUint(uint64(id), 10)); err != nil {
			// Search falls out of step until the next reindex; the store
			// stays authoritative.
			log.Warnf("failed to remove FAQ %d from search index: %v", id, err)
		}
	}

	return s.Refresh()
}

func (s *faqService) indexFAQ(ctx context.Context, faq *model.FAQ) {
	if s.index == nil {
		return
	}
	doc := model.FAQDocument{
		FAQID:    strconv.FormatUint(uint64(faq.ID), 10),
		Category: faq.Category,
		Question: faq.Question,
		Answer:   faq.Answer,
		MediaURL: faq.MediaURL,
	}
	if err := s.index.Index(ctx, doc); err != nil {
		log.Warnf("failed to index FAQ %d: %v", faq.ID, err)
	}
}
