package syncdirectory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/models"
)

type mockStoreWriter struct {
	WriteFunc func(ctx context.Context, records []models.RestaurantRecord) (int, error)
	records   []models.RestaurantRecord
}

func (m *mockStoreWriter) WriteRecords(ctx context.Context, records []models.RestaurantRecord) (int, error) {
	m.records = append(m.records, records...)
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, records)
	}
	return len(records), nil
}

type mockIndexer struct {
	IndexFunc func(ctx context.Context, record models.RestaurantRecord) error
	indexed   []models.RestaurantRecord
}

func (m *mockIndexer) IndexRecord(ctx context.Context, record models.RestaurantRecord) error {
	if m.IndexFunc != nil {
		if err := m.IndexFunc(ctx, record); err != nil {
			return err
		}
	}
	m.indexed = append(m.indexed, record)
	return nil
}

type mockNotifier struct {
	NotifyFunc func(ctx context.Context, summary *Output) error
	notices    []*Output
}

func (m *mockNotifier) NotifySyncComplete(ctx context.Context, summary *Output) error {
	if m.NotifyFunc != nil {
		if err := m.NotifyFunc(ctx, summary); err != nil {
			return err
		}
	}
	m.notices = append(m.notices, summary)
	return nil
}

func createTestLogger(t *testing.T) logger.Logger {
	return logger.NewZapAdapter(zaptest.NewLogger(t))
}

func validListing(id, name string, categories ...string) map[string]interface{} {
	cats := make([]map[string]string, 0, len(categories))
	for _, c := range categories {
		cats = append(cats, map[string]string{"alias": c, "title": c})
	}
	return map[string]interface{}{
		"id":           id,
		"name":         name,
		"review_count": 100,
		"rating":       4.2,
		"price":        "$$",
		"coordinates":  map[string]float64{"latitude": 40.65, "longitude": -73.95},
		"location": map[string]string{
			"address1": "1 Main St",
			"city":     "Brooklyn",
			"state":    "NY",
			"zip_code": "11201",
		},
		"categories": cats,
		"business_hours": []map[string]interface{}{
			{"open": []map[string]string{{"start": "1100", "end": "2200"}}},
		},
	}
}

func directoryServer(t *testing.T, pages map[string][][]map[string]interface{}) *httptest.Server {
	offsets := make(map[string]int)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cuisine := r.URL.Query().Get("categories")
		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

		var businesses []map[string]interface{}
		pageIdx := offsets[cuisine]
		if cuisinePages, ok := pages[cuisine]; ok && pageIdx < len(cuisinePages) {
			businesses = cuisinePages[pageIdx]
			offsets[cuisine]++
		}
		_ = offset

		json.NewEncoder(w).Encode(map[string]interface{}{"businesses": businesses})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testServiceConfig(baseURL string) *Config {
	return &Config{
		BaseURL:       baseURL,
		Location:      "Brooklyn",
		Term:          "restaurants",
		PageSize:      2,
		MaxPerCuisine: 4,
		Cuisines:      []string{"japanese"},
		TableName:     "yelp-restaurants",
		SearchIndex:   "restaurant_index",
		Timeout:       10 * time.Second,
	}
}

func TestRunFetchesWritesAndIndexes(t *testing.T) {
	srv := directoryServer(t, map[string][][]map[string]interface{}{
		"japanese": {
			{validListing("a", "Sushi A", "japanese"), validListing("b", "Sushi B", "sushi")},
			{validListing("c", "Sushi C", "japanese")},
		},
	})

	store := &mockStoreWriter{}
	indexer := &mockIndexer{}
	notifier := &mockNotifier{}
	svc := NewService(testServiceConfig(srv.URL), nil, store, indexer, notifier, createTestLogger(t))

	output, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 3, output.Fetched)
	assert.Equal(t, 3, output.Written)
	assert.Equal(t, 3, output.Indexed)
	assert.Equal(t, 0, output.Skipped)
	assert.Equal(t, "SYNCED", output.Status)
	assert.True(t, output.Notified)
	require.Len(t, notifier.notices, 1)

	require.Len(t, store.records, 3)
	assert.Equal(t, "japanese", store.records[0].Cuisine)
	// No matching category alias falls back to the queried cuisine.
	assert.Equal(t, "japanese", store.records[1].Cuisine)
}

func TestRunHonorsPerCuisineCeiling(t *testing.T) {
	page := []map[string]interface{}{
		validListing("a", "A", "japanese"), validListing("b", "B", "japanese"),
	}
	srv := directoryServer(t, map[string][][]map[string]interface{}{
		"japanese": {page, page, page, page, page},
	})

	store := &mockStoreWriter{}
	svc := NewService(testServiceConfig(srv.URL), nil, store, &mockIndexer{}, nil, createTestLogger(t))

	output, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 4, output.Fetched)
}

func TestRunSkipsInvalidListings(t *testing.T) {
	missingName := validListing("bad", "x", "japanese")
	delete(missingName, "name")
	srv := directoryServer(t, map[string][][]map[string]interface{}{
		"japanese": {{validListing("good", "Good Place", "japanese"), missingName}},
	})

	store := &mockStoreWriter{}
	svc := NewService(testServiceConfig(srv.URL), nil, store, &mockIndexer{}, nil, createTestLogger(t))

	output, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 2, output.Fetched)
	assert.Equal(t, 1, output.Skipped)
	require.Len(t, store.records, 1)
	assert.Equal(t, "good", store.records[0].BusinessID)
}

func TestRunEmptyDirectory(t *testing.T) {
	srv := directoryServer(t, nil)
	store := &mockStoreWriter{}
	svc := NewService(testServiceConfig(srv.URL), nil, store, &mockIndexer{}, nil, createTestLogger(t))

	output, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "EMPTY", output.Status)
	assert.Empty(t, store.records)
}

func TestRunFetchFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	t.Cleanup(srv.Close)

	svc := NewService(testServiceConfig(srv.URL), nil, &mockStoreWriter{}, &mockIndexer{}, nil, createTestLogger(t))
	_, err := svc.Run(context.Background(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDirectoryFetch)
}

func TestRunNotifierFailureIsNonFatal(t *testing.T) {
	srv := directoryServer(t, map[string][][]map[string]interface{}{
		"japanese": {{validListing("a", "A", "japanese")}},
	})
	notifier := &mockNotifier{
		NotifyFunc: func(ctx context.Context, summary *Output) error {
			return errors.New("topic gone")
		},
	}

	svc := NewService(testServiceConfig(srv.URL), nil, &mockStoreWriter{}, &mockIndexer{}, notifier, createTestLogger(t))
	output, err := svc.Run(context.Background(), nil)
	require.NoError(t, err)
	assert.False(t, output.Notified)
	assert.Equal(t, "SYNCED", output.Status)
}

func TestRecordFromListingFallbacks(t *testing.T) {
	var listing Listing
	raw, _ := json.Marshal(map[string]interface{}{
		"id":          "bare",
		"name":        "Bare Bones",
		"coordinates": map[string]float64{"latitude": 1, "longitude": 2},
		"location":    map[string]string{},
	})
	require.NoError(t, json.Unmarshal(raw, &listing))
	listing.queriedCuisine = ""

	record := recordFromListing(listing)
	assert.Equal(t, models.CuisineOther, record.Cuisine)
	assert.Equal(t, "N/A", record.Price.String())
	assert.Equal(t, "00000", record.ZipCode.String())
	assert.Empty(t, record.BusinessHours)
	assert.Equal(t, 0.0, record.RatingValue())
}

func TestRecordFromListingKeepsFirstHoursWindowOnly(t *testing.T) {
	raw, _ := json.Marshal(validListing("a", "A", "japanese"))
	record, err := NewService(testServiceConfig("http://unused"), nil, nil, nil, nil, createTestLogger(t)).
		convertListing(raw, "japanese")
	require.NoError(t, err)

	require.Len(t, record.BusinessHours, 1)
	assert.Equal(t, "1100", record.BusinessHours[0].Start.String())
	assert.Equal(t, "2200", record.BusinessHours[0].End.String())
}
