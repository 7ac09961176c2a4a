package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"

	"moviecatalog/internal/models"
)

const ReviewIndex = "review"

// ReviewIndexer mirrors reviews into Elasticsearch for full-text search.
// All methods are no-ops on a nil indexer; indexing is best effort and
// never fails the originating request.
type ReviewIndexer struct {
	ES    *elasticsearch.Client
	Index string
}

func NewReviewIndexer(es *elasticsearch.Client) *ReviewIndexer {
	return &ReviewIndexer{ES: es, Index: ReviewIndex}
}

func (i *ReviewIndexer) IndexReview(ctx context.Context, review *models.Review) error {
	if i == nil || i.ES == nil {
		return nil
	}

	data, err := json.Marshal(review)
	if err != nil {
		return fmt.Errorf("es: marshal review: %w", err)
	}

	res, err := i.ES.Index(
		i.Index,
		bytes.NewReader(data),
		i.ES.Index.WithDocumentID(strconv.FormatUint(uint64(review.ID), 10)),
		i.ES.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: index review: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("es: index review: %s", res.Status())
	}
	return nil
}

func (i *ReviewIndexer) DeleteReview(ctx context.Context, id uint) error {
	if i == nil || i.ES == nil {
		return nil
	}

	res, err := i.ES.Delete(
		i.Index,
		strconv.FormatUint(uint64(id), 10),
		i.ES.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("es: delete review: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != 404 {
		return fmt.Errorf("es: delete review: %s", res.Status())
	}
	return nil
}

// SearchReviews runs a fuzzy full-text query over review content.
func SearchReviews(ctx context.Context, es *elasticsearch.Client, index, query string, from, size int) (int64, []models.Review, error) {
	body := map[string]interface{}{
		"query": map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query,
				"fields":    []string{"content^2", "movie_id"},
				"fuzziness": "AUTO",
			},
		},
		"from": from,
		"size": size,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return 0, nil, fmt.Errorf("es: encode query: %w", err)
	}

	res, err := es.Search(
		es.Search.WithContext(ctx),
		es.Search.WithIndex(index),
		es.Search.WithBody(&buf),
	)
	if err != nil {
		return 0, nil, fmt.Errorf("es: search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return 0, nil, fmt.Errorf("es: search: %s", res.Status())
	}

	var r struct {
		Hits struct {
			Total struct {
				Value int64 `json:"value"`
			} `json:"total"`
			Hits []struct {
				Source models.Review `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&r); err != nil {
		return 0, nil, err
	}

	reviews := make([]models.Review, len(r.Hits.Hits))
	for i, hit := range r.Hits.Hits {
		reviews[i] = hit.Source
	}
	return r.Hits.Total.Value, reviews, nil
}
