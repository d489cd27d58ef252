package recommendrestaurants

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/models"
)

type mockSearcher struct {
	SearchCuisineFunc func(ctx context.Context, cuisine string, limit int) ([]string, error)
}

func (m *mockSearcher) SearchCuisine(ctx context.Context, cuisine string, limit int) ([]string, error) {
	return m.SearchCuisineFunc(ctx, cuisine, limit)
}

type mockStore struct {
	BatchGetFunc func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error)
	calls        int
}

func (m *mockStore) BatchGetRestaurants(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
	m.calls++
	return m.BatchGetFunc(ctx, cuisine, ids)
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func testRecord(id string, rating float64) models.RestaurantRecord {
	return models.RestaurantRecord{
		BusinessID: id,
		Cuisine:    "japanese",
		Name:       models.NewAttr("Restaurant " + id),
		Rating:     models.NewAttr(rating),
	}
}

func TestResolverSortsByRatingDescending(t *testing.T) {
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return []string{"a", "b", "c"}, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			return []models.RestaurantRecord{
				testRecord("a", 3.5),
				testRecord("b", 4.5),
				testRecord("c", 4.0),
			}, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	records, err := resolver.Resolve(context.Background(), "japanese", 10, 0)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "b", records[0].BusinessID)
	assert.Equal(t, "c", records[1].BusinessID)
	assert.Equal(t, "a", records[2].BusinessID)
}

func TestResolverStableOrderForEqualRatings(t *testing.T) {
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return []string{"a", "b", "c"}, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			return []models.RestaurantRecord{
				testRecord("a", 4.0),
				testRecord("b", 4.0),
				testRecord("c", 4.0),
			}, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	records, err := resolver.Resolve(context.Background(), "japanese", 10, 0)

	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].BusinessID)
	assert.Equal(t, "b", records[1].BusinessID)
	assert.Equal(t, "c", records[2].BusinessID)
}

func TestResolverDropsBelowMinRatingAndTruncates(t *testing.T) {
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return []string{"a", "b", "c", "d"}, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			return []models.RestaurantRecord{
				testRecord("a", 2.0),
				testRecord("b", 4.5),
				testRecord("c", 4.0),
				testRecord("d", 3.5),
			}, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	records, err := resolver.Resolve(context.Background(), "japanese", 2, 3.0)

	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].BusinessID)
	assert.Equal(t, "c", records[1].BusinessID)
}

func TestResolverMinRatingIsStrict(t *testing.T) {
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return []string{"a", "b"}, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			return []models.RestaurantRecord{
				testRecord("exactly", 3.0),
				testRecord("below", 2.9),
			}, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	records, err := resolver.Resolve(context.Background(), "japanese", 10, 3.0)

	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "exactly", records[0].BusinessID)
}

func TestResolverCapsBatchKeys(t *testing.T) {
	many := make([]string, 0, 25)
	for i := 0; i < 25; i++ {
		many = append(many, fmt.Sprintf("id-%02d", i))
	}

	var gotIDs []string
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return many, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			gotIDs = ids
			return nil, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	_, err := resolver.Resolve(context.Background(), "japanese", 50, 0)

	require.NoError(t, err)
	require.Len(t, gotIDs, maxBatchGetKeys)
	assert.Equal(t, many[:maxBatchGetKeys], gotIDs)
}

func TestResolverEmptyCandidatesSkipsStore(t *testing.T) {
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return nil, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			return nil, errors.New("should not be called")
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	records, err := resolver.Resolve(context.Background(), "japanese", 10, 0)

	require.NoError(t, err)
	assert.Empty(t, records)
	assert.Equal(t, 0, store.calls)
}

func TestResolverWrapsErrors(t *testing.T) {
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			return nil, errors.New("index unavailable")
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			return nil, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	_, err := resolver.Resolve(context.Background(), "japanese", 10, 0)
	assert.ErrorIs(t, err, ErrSearchQueryFailed)

	searcher.SearchCuisineFunc = func(ctx context.Context, cuisine string, limit int) ([]string, error) {
		return []string{"a"}, nil
	}
	store.BatchGetFunc = func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
		return nil, errors.New("throughput exceeded")
	}
	_, err = resolver.Resolve(context.Background(), "japanese", 10, 0)
	assert.ErrorIs(t, err, ErrStoreLookupFailed)
}

func TestResolverNormalizesCuisineKey(t *testing.T) {
	var searchedFor, fetchedFor string
	searcher := &mockSearcher{
		SearchCuisineFunc: func(ctx context.Context, cuisine string, limit int) ([]string, error) {
			searchedFor = cuisine
			return []string{"biz-1"}, nil
		},
	}
	store := &mockStore{
		BatchGetFunc: func(ctx context.Context, cuisine string, ids []string) ([]models.RestaurantRecord, error) {
			fetchedFor = cuisine
			return []models.RestaurantRecord{testRecord("biz-1", 4.0)}, nil
		},
	}

	resolver := NewResolver(searcher, store, createTestLogger(t))
	_, err := resolver.Resolve(context.Background(), "  Japanese <Fusion> ", 10, 0)

	require.NoError(t, err)
	assert.Equal(t, "japanese &lt;fusion&gt;", searchedFor)
	assert.Equal(t, "japanese &lt;fusion&gt;", fetchedFor)
}
