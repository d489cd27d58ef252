// cmd/tools/directory-sync/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	commonaws "github.com/sankirthk/Dining-Concierge/internal/common/aws"
	"github.com/sankirthk/Dining-Concierge/internal/common/config"
	"github.com/sankirthk/Dining-Concierge/internal/common/database"
	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/models"
	sd "github.com/sankirthk/Dining-Concierge/internal/workers/ingestion/sync-directory"
)

// One-shot directory sync runner for seeding or refreshing the restaurant
// store without going through the broker.
func main() {
	cuisinesFlag := flag.String("cuisines", "", "comma-separated cuisine aliases (default: all configured)")
	dryRun := flag.Bool("dry-run", false, "fetch and validate only, skip store and index writes")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	sdConfig := &sd.Config{
		BaseURL:       cfg.Integrations.Directory.BaseURL,
		APIKey:        cfg.Integrations.Directory.APIKey,
		Location:      cfg.Integrations.Directory.Location,
		Term:          "restaurants",
		PageSize:      cfg.Integrations.Directory.PageSize,
		MaxPerCuisine: cfg.Integrations.Directory.MaxPerCuisine,
		Cuisines:      []string{"chinese", "japanese", "italian", "mexican", "american"},
		TableName:     cfg.Database.DynamoDB.TableName,
		SearchIndex:   cfg.Concierge.SearchIndex,
		TopicARN:      cfg.Integrations.AWS.SNS.TopicARN,
		Timeout:       10 * time.Minute,
	}

	var store sd.StoreWriter = noopStore{}
	var indexer sd.Indexer = noopIndexer{}
	var notifier sd.Notifier

	if !*dryRun {
		dynamoClient, err := commonaws.NewDynamoDBClient(ctx, cfg.Database.DynamoDB.Region, cfg.Database.DynamoDB.Endpoint)
		if err != nil {
			zapLog.Fatal("dynamodb client failed", zap.Error(err))
		}
		store = sd.NewDynamoDBStoreWriter(dynamoClient, sdConfig.TableName, log)

		esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			zapLog.Fatal("elasticsearch client failed", zap.Error(err))
		}
		indexer = sd.NewElasticsearchIndexer(esClient.Client, sdConfig.SearchIndex)

		if cfg.Integrations.AWS.SNS.Enabled && sdConfig.TopicARN != "" {
			snsClient, err := commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
			if err != nil {
				zapLog.Fatal("sns client failed", zap.Error(err))
			}
			notifier = sd.NewSNSNotifier(snsClient, sdConfig.TopicARN)
		}
	}

	var cuisines []string
	if *cuisinesFlag != "" {
		for _, c := range strings.Split(*cuisinesFlag, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cuisines = append(cuisines, strings.ToLower(c))
			}
		}
	}

	service := sd.NewService(sdConfig, nil, store, indexer, notifier, log)
	output, err := service.Run(ctx, cuisines)
	if err != nil {
		zapLog.Fatal("directory sync failed", zap.Error(err))
	}

	summary, _ := json.MarshalIndent(output, "", "  ")
	fmt.Fprintln(os.Stdout, string(summary))
}

type noopStore struct{}

func (noopStore) WriteRecords(ctx context.Context, records []models.RestaurantRecord) (int, error) {
	return len(records), nil
}

type noopIndexer struct{}

func (noopIndexer) IndexRecord(ctx context.Context, record models.RestaurantRecord) error {
	return nil
}
