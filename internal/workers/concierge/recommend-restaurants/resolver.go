// internal/workers/concierge/recommend-restaurants/resolver.go
package recommendrestaurants

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/elastic/go-elasticsearch/v8"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/models"
)

// maxBatchGetKeys caps how many candidate ids go to the store in one lookup.
const maxBatchGetKeys = 10

// Searcher finds candidate business ids for a cuisine.
type Searcher interface {
	SearchCuisine(ctx context.Context, cuisine string, limit int) ([]string, error)
}

// Store fetches full restaurant records by key.
type Store interface {
	BatchGetRestaurants(ctx context.Context, cuisine string, businessIDs []string) ([]models.RestaurantRecord, error)
}

// Resolver turns a cuisine into a rating-ordered list of full records.
type Resolver struct {
	searcher Searcher
	store    Store
	logger   logger.Logger
}

func NewResolver(searcher Searcher, store Store, log logger.Logger) *Resolver {
	return &Resolver{searcher: searcher, store: store, logger: log}
}

// Resolve searches for candidates, hydrates them from the store, drops
// records rated strictly below minRating, and returns at most limit records
// sorted by rating, highest first. Equal ratings keep their store order.
func (r *Resolver) Resolve(ctx context.Context, cuisine string, limit int, minRating float64) ([]models.RestaurantRecord, error) {
	// The cuisine originates from free text; escape it before it becomes a key.
	cuisine = html.EscapeString(strings.ToLower(strings.TrimSpace(cuisine)))

	ids, err := r.searcher.SearchCuisine(ctx, cuisine, limit)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrSearchTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	if len(ids) == 0 {
		r.logger.Info("no candidates for cuisine", map[string]interface{}{"cuisine": cuisine})
		return nil, nil
	}

	if len(ids) > maxBatchGetKeys {
		ids = ids[:maxBatchGetKeys]
	}

	records, err := r.store.BatchGetRestaurants(ctx, cuisine, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreLookupFailed, err)
	}

	filtered := records[:0:0]
	for _, rec := range records {
		if rec.RatingValue() < minRating {
			continue
		}
		filtered = append(filtered, rec)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].RatingValue() > filtered[j].RatingValue()
	})

	if limit > 0 && len(filtered) > limit {
		filtered = filtered[:limit]
	}
	return filtered, nil
}

// esSearcher queries the search index for business ids by cuisine.
type esSearcher struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchSearcher(client *elasticsearch.Client, index string) Searcher {
	return &esSearcher{client: client, index: index}
}

func (s *esSearcher) SearchCuisine(ctx context.Context, cuisine string, limit int) ([]string, error) {
	query := map[string]interface{}{
		"size": limit,
		"query": map[string]interface{}{
			"query_string": map[string]interface{}{
				"default_field": "cuisine",
				"query":         cuisine,
			},
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("marshal search query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search returned %s: %s", res.Status(), string(msg))
	}

	var parsed struct {
		Hits struct {
			Hits []struct {
				Source struct {
					BusinessID string `json:"business_id"`
				} `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	ids := make([]string, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		if hit.Source.BusinessID != "" {
			ids = append(ids, hit.Source.BusinessID)
		}
	}
	return ids, nil
}

// DynamoDBAPI is the slice of the DynamoDB client the store needs.
type DynamoDBAPI interface {
	BatchGetItem(ctx context.Context, params *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error)
}

type dynamoStore struct {
	client DynamoDBAPI
	table  string
}

func NewDynamoDBStore(client DynamoDBAPI, table string) Store {
	return &dynamoStore{client: client, table: table}
}

func (s *dynamoStore) BatchGetRestaurants(ctx context.Context, cuisine string, businessIDs []string) ([]models.RestaurantRecord, error) {
	keys := make([]map[string]ddbtypes.AttributeValue, 0, len(businessIDs))
	for _, id := range businessIDs {
		keys = append(keys, map[string]ddbtypes.AttributeValue{
			"cuisine":     &ddbtypes.AttributeValueMemberS{Value: cuisine},
			"business_id": &ddbtypes.AttributeValueMemberS{Value: id},
		})
	}

	out, err := s.client.BatchGetItem(ctx, &dynamodb.BatchGetItemInput{
		RequestItems: map[string]ddbtypes.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("batch get restaurants: %w", err)
	}

	items := out.Responses[s.table]
	records := make([]models.RestaurantRecord, 0, len(items))
	for _, item := range items {
		records = append(records, models.RecordFromItem(item))
	}
	return records, nil
}
