// Package es provides the Elasticsearch client backing free-text FAQ search.
package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/gamisaur/gccan/internal/config"
	"github.com/gamisaur/gccan/internal/model"
	"github.com/gamisaur/gccan/pkg/log"
)

var ESClient *elasticsearch.Client

// InitES initializes the Elasticsearch client and ensures the FAQ index exists.
func InitES(esCfg config.ElasticsearchConfig) error {
	cfg := elasticsearch.Config{
		Addresses: []string{esCfg.Addresses},
		Username:  esCfg.Username,
		Password:  esCfg.Password,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	client, err := elasticsearch.NewClient(cfg)
	if err != nil {
		return err
	}
	ESClient = client
	return createIndexIfNotExists(esCfg.IndexName)
}

// createIndexIfNotExists creates the FAQ index when it is missing.
func createIndexIfNotExists(indexName string) error {
	res, err := ESClient.Indices.Exists([]string{indexName})
	if err != nil {
		log.Errorf("failed to check index existence: %v", err)
		return err
	}
	if !res.IsError() && res.StatusCode == http.StatusOK {
		log.Infof("index '%s' already exists", indexName)
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Errorf("unexpected status code while checking index '%s': %d", indexName, res.StatusCode)
		return fmt.Errorf("unexpected status code while checking index: %d", res.StatusCode)
	}

	mapping := `{
		"mappings": {
			"properties": {
				"faq_id": { "type": "keyword" },
				"category": { "type": "keyword" },
				"question": { "type": "text" },
				"answer": { "type": "text" },
				"media_url": { "type": "keyword" }
			}
		}
	}`

	res, err = ESClient.Indices.Create(
		indexName,
		ESClient.Indices.Create.WithBody(strings.NewReader(mapping)),
	)
	if err != nil {
		log.Errorf("failed to create index '%s': %v", indexName, err)
		return err
	}
	if res.IsError() {
		log.Errorf("Elasticsearch returned an error creating index '%s': %s", indexName, res.String())
		return errors.New("elasticsearch returned an error creating index")
	}

	log.Infof("index '%s' created successfully", indexName)
	return nil
}

// IndexFAQ indexes (or reindexes) a single FAQ document.
func IndexFAQ(ctx context.Context, indexName string, doc model.FAQDocument) error {
	docBytes, err := json.Marshal(doc)
	if err != nil {
		return err
	}

	req := esapi.IndexRequest{
		Index:      indexName,
		DocumentID: doc.FAQID,
		Body:       bytes.NewReader(docBytes),
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("failed to index FAQ document: %s", res.String())
		return errors.New("failed to index document")
	}

	return nil
}

// SearchFAQs runs a free-text match over question and answer text and returns
// the best-scoring FAQ documents.
func SearchFAQs(ctx context.Context, indexName, query string, size int) ([]model.FAQDocument, error) {
	esQuery := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":  query,
				"fields": []string{"question^2", "answer"},
			},
		},
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(esQuery); err != nil {
		return nil, fmt.Errorf("failed to encode es query: %w", err)
	}

	res, err := ESClient.Search(
		ESClient.Search.WithContext(ctx),
		ESClient.Search.WithIndex(indexName),
		ESClient.Search.WithBody(&buf),
	)
	if err != nil {
		return nil, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		log.Errorf("Elasticsearch search returned an error: %s", res.String())
		return nil, errors.New("elasticsearch returned an error")
	}

	var esResponse struct {
		Hits struct {
			Hits []struct {
				Source model.FAQDocument `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&esResponse); err != nil {
		return nil, fmt.Errorf("failed to decode es response: %w", err)
	}

	docs := make([]model.FAQDocument, 0, len(esResponse.Hits.Hits))
	for _, hit := range esResponse.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs, nil
}

// DeleteFAQ removes a FAQ document from the index. A missing document is not
// an error: the index and the store may briefly disagree after admin edits.
func DeleteFAQ(ctx context.Context, indexName, faqID string) error {
	req := esapi.DeleteRequest{
		Index:      indexName,
		DocumentID: faqID,
		Refresh:    "true",
	}

	res, err := req.Do(ctx, ESClient)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		log.Errorf("failed to delete FAQ document: %s", res.String())
		return errors.New("failed to delete document")
	}

	return nil
}
