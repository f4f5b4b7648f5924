package service

import (
	"context"

	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/pkg/es"
)

// FAQIndex is the search index over FAQ records. Create/edit/delete keep it in
// step with the store; Ask queries it for free-text questions.
type FAQIndex interface {
	Index(ctx context.Context, doc model.FAQDocument) error
	Delete(ctx context.Context, faqID string) error
	Search(ctx context.Context, query string, size int) ([]model.FAQDocument, error)
}

type esFAQIndex struct {
	indexName string
}

// NewESFAQIndex creates the Elasticsearch-backed FAQIndex. es.InitES must have
// run first.
func NewESFAQIndex(indexName string) FAQIndex {
	return &esFAQIndex{indexName: indexName}
}

func (i *esFAQIndex) Index(ctx context.Context, doc model.FAQDocument) error {
	return es.IndexFAQ(ctx, i.indexName, doc)
}

func (i *esFAQIndex) Delete(ctx context.Context, faqID string) error {
	return es.DeleteFAQ(ctx, i.indexName, faqID)
}

func (i *esFAQIndex) Search(ctx context.Context, query string, size int) ([]model.FAQDocument, error) {
	return es.SearchFAQs(ctx, i.indexName, query, size)
}
