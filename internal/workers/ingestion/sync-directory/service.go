// internal/workers/ingestion/sync-directory/service.go
package syncdirectory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/elastic/go-elasticsearch/v8"

	commonhttp "github.com/sankirthk/Dining-Concierge/internal/common/http"
	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/common/metrics"
	"github.com/sankirthk/Dining-Concierge/internal/models"
)

// dynamoBatchWriteLimit is the service-side maximum per BatchWriteItem call.
const dynamoBatchWriteLimit = 25

// StoreWriter persists converted records.
type StoreWriter interface {
	WriteRecords(ctx context.Context, records []models.RestaurantRecord) (int, error)
}

// Indexer makes records searchable by cuisine.
type Indexer interface {
	IndexRecord(ctx context.Context, record models.RestaurantRecord) error
}

// Notifier announces a finished sync run.
type Notifier interface {
	NotifySyncComplete(ctx context.Context, summary *Output) error
}

// Service runs the directory sync: fetch pages per cuisine, validate and
// convert listings, write them to the store, index them for search, then
// send the completion notice.
type Service struct {
	config   *Config
	client   *commonhttp.Client
	store    StoreWriter
	indexer  Indexer
	notifier Notifier
	logger   logger.Logger
}

func NewService(config *Config, client *commonhttp.Client, store StoreWriter, indexer Indexer, notifier Notifier, log logger.Logger) *Service {
	if client == nil {
		client = commonhttp.NewClient(config.Timeout)
	}
	return &Service{
		config:   config,
		client:   client,
		store:    store,
		indexer:  indexer,
		notifier: notifier,
		logger:   log,
	}
}

// Run executes one full sync over the given cuisines (all configured
// cuisines when empty).
func (s *Service) Run(ctx context.Context, cuisines []string) (*Output, error) {
	if len(cuisines) == 0 {
		cuisines = s.config.Cuisines
	}

	output := &Output{PerCuisine: make(map[string]int)}
	var records []models.RestaurantRecord

	for _, cuisine := range cuisines {
		raws, err := s.fetchCuisine(ctx, cuisine)
		if err != nil {
			return nil, fmt.Errorf("%w: fetch %s: %v", ErrDirectoryFetch, cuisine, err)
		}
		output.Fetched += len(raws)

		for _, raw := range raws {
			record, err := s.convertListing(raw, cuisine)
			if err != nil {
				output.Skipped++
				s.logger.Warn("skipping listing", map[string]interface{}{
					"cuisine": cuisine,
					"error":   err.Error(),
				})
				continue
			}
			records = append(records, record)
			output.PerCuisine[record.Cuisine]++
		}
	}

	if len(records) == 0 {
		s.logger.Warn("no valid listings parsed", map[string]interface{}{"fetched": output.Fetched})
		output.Status = "EMPTY"
		return output, nil
	}

	written, err := s.store.WriteRecords(ctx, records)
	output.Written = written
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreWrite, err)
	}

	for _, record := range records {
		if err := s.indexer.IndexRecord(ctx, record); err != nil {
			s.logger.Warn("index write failed", map[string]interface{}{
				"businessId": record.BusinessID,
				"error":      err.Error(),
			})
			continue
		}
		output.Indexed++
	}

	for cuisine, count := range output.PerCuisine {
		metrics.ListingsIngested.WithLabelValues(cuisine).Add(float64(count))
	}

	if s.notifier != nil {
		if err := s.notifier.NotifySyncComplete(ctx, output); err != nil {
			s.logger.Warn("sync notice failed", map[string]interface{}{"error": err.Error()})
		} else {
			output.Notified = true
		}
	}

	output.Status = "SYNCED"
	s.logger.Info("directory sync finished", map[string]interface{}{
		"fetched": output.Fetched,
		"written": output.Written,
		"indexed": output.Indexed,
		"skipped": output.Skipped,
	})
	return output, nil
}

// fetchCuisine pages through the search endpoint until a page comes back
// empty or the per-cuisine ceiling is reached.
func (s *Service) fetchCuisine(ctx context.Context, cuisine string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	offset := 0

	for offset < s.config.MaxPerCuisine {
		page, err := s.fetchPage(ctx, cuisine, offset)
		if err != nil {
			return nil, err
		}
		if len(page) == 0 {
			break
		}
		all = append(all, page...)
		offset += len(page)
	}

	if len(all) > s.config.MaxPerCuisine {
		all = all[:s.config.MaxPerCuisine]
	}
	return all, nil
}

func (s *Service) fetchPage(ctx context.Context, cuisine string, offset int) ([]json.RawMessage, error) {
	params := url.Values{}
	params.Set("location", s.config.Location)
	params.Set("term", s.config.Term)
	params.Set("categories", cuisine)
	params.Set("sort_by", "best_match")
	params.Set("limit", strconv.Itoa(s.config.PageSize))
	params.Set("offset", strconv.Itoa(offset))

	var headers map[string]string
	if s.config.APIKey != "" {
		headers = map[string]string{"Authorization": "Bearer " + s.config.APIKey}
	}

	var page struct {
		Businesses []json.RawMessage `json:"businesses"`
	}
	if err := s.client.GetJSON(ctx, s.config.BaseURL+"/businesses/search", params, headers, &page); err != nil {
		return nil, err
	}
	return page.Businesses, nil
}

// convertListing validates a raw listing and maps it onto a record, applying
// the ingest fallbacks for rating, price, zip code and hours.
func (s *Service) convertListing(raw json.RawMessage, queriedCuisine string) (models.RestaurantRecord, error) {
	if err := validateListing(raw); err != nil {
		return models.RestaurantRecord{}, err
	}

	var listing Listing
	if err := json.Unmarshal(raw, &listing); err != nil {
		return models.RestaurantRecord{}, fmt.Errorf("decode listing: %w", err)
	}
	listing.queriedCuisine = queriedCuisine

	return recordFromListing(listing), nil
}

func recordFromListing(listing Listing) models.RestaurantRecord {
	record := models.RestaurantRecord{
		BusinessID:  listing.ID,
		Cuisine:     resolveCuisine(listing),
		Name:        models.NewAttr(listing.Name),
		Rating:      models.NewAttr(listing.Rating),
		ReviewCount: listing.ReviewCount,
		Price:       models.NewAttr(priceOrDefault(listing.Price)),
		Coordinates: &models.Coordinates{
			Latitude:  listing.Coordinates.Latitude,
			Longitude: listing.Coordinates.Longitude,
		},
		Location: &models.Location{
			Address1: models.NewAttr(listing.Location.Address1),
			Address2: models.NewAttr(listing.Location.Address2),
			City:     models.NewAttr(listing.Location.City),
			State:    models.NewAttr(listing.Location.State),
			ZipCode:  models.NewAttr(listing.Location.ZipCode),
		},
		ZipCode: models.NewAttr(zipOrDefault(listing.Location.ZipCode)),
	}

	// Only the first open window of the first hours block is kept.
	if len(listing.BusinessHours) > 0 && len(listing.BusinessHours[0].Open) > 0 {
		open := listing.BusinessHours[0].Open[0]
		record.BusinessHours = []models.HoursWindow{{
			Start: models.NewAttr(open.Start),
			End:   models.NewAttr(open.End),
		}}
	}

	return record
}

func resolveCuisine(listing Listing) string {
	for _, category := range listing.Categories {
		if models.Cuisines[category.Alias] {
			return category.Alias
		}
	}
	if listing.queriedCuisine != "" {
		return listing.queriedCuisine
	}
	return models.CuisineOther
}

func priceOrDefault(price string) string {
	if price == "" {
		return "N/A"
	}
	return price
}

func zipOrDefault(zip string) string {
	if zip == "" {
		return "00000"
	}
	return zip
}

// DynamoDBWriter is the slice of the DynamoDB client the store writer needs.
type DynamoDBWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

type dynamoStoreWriter struct {
	client DynamoDBWriter
	table  string
	logger logger.Logger
}

func NewDynamoDBStoreWriter(client DynamoDBWriter, table string, log logger.Logger) StoreWriter {
	return &dynamoStoreWriter{client: client, table: table, logger: log}
}

// WriteRecords writes records in service-limit sized batches. A failed batch
// is logged and skipped; the count of written records is returned either way.
func (w *dynamoStoreWriter) WriteRecords(ctx context.Context, records []models.RestaurantRecord) (int, error) {
	written := 0
	for start := 0; start < len(records); start += dynamoBatchWriteLimit {
		end := start + dynamoBatchWriteLimit
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		requests := make([]ddbtypes.WriteRequest, 0, len(chunk))
		for _, record := range chunk {
			requests = append(requests, ddbtypes.WriteRequest{
				PutRequest: &ddbtypes.PutRequest{Item: models.ItemFromRecord(record)},
			})
		}

		_, err := w.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]ddbtypes.WriteRequest{w.table: requests},
		})
		if err != nil {
			w.logger.Error("batch write failed", map[string]interface{}{
				"from":  start,
				"to":    end,
				"error": err.Error(),
			})
			continue
		}
		written += len(chunk)
	}

	if written == 0 && len(records) > 0 {
		return 0, fmt.Errorf("no batch could be written")
	}
	return written, nil
}

// searchDoc is the slim document kept in the search index.
type searchDoc struct {
	BusinessID string  `json:"business_id"`
	Cuisine    string  `json:"cuisine"`
	Rating     float64 `json:"rating"`
}

type esIndexer struct {
	client *elasticsearch.Client
	index  string
}

func NewElasticsearchIndexer(client *elasticsearch.Client, index string) Indexer {
	return &esIndexer{client: client, index: index}
}

func (i *esIndexer) IndexRecord(ctx context.Context, record models.RestaurantRecord) error {
	doc, err := json.Marshal(searchDoc{
		BusinessID: record.BusinessID,
		Cuisine:    record.Cuisine,
		Rating:     record.RatingValue(),
	})
	if err != nil {
		return fmt.Errorf("marshal search doc: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(doc),
		i.client.Index.WithContext(ctx),
		i.client.Index.WithDocumentID(record.BusinessID),
	)
	if err != nil {
		return fmt.Errorf("index %s: %w", record.BusinessID, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("index %s: %s", record.BusinessID, res.Status())
	}
	return nil
}

// SNSService is the slice of the SNS client the notifier needs.
type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type snsNotifier struct {
	client SNSService
	topic  string
}

func NewSNSNotifier(client SNSService, topic string) Notifier {
	return &snsNotifier{client: client, topic: topic}
}

func (n *snsNotifier) NotifySyncComplete(ctx context.Context, summary *Output) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal sync notice: %w", err)
	}

	_, err = n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topic),
		Subject:  aws.String("Restaurant directory sync complete"),
		Message:  aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("publish sync notice: %w", err)
	}
	return nil
}
