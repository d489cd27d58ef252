// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "github.com/sankirthk/Dining-Concierge/internal/common/aws"
	"github.com/sankirthk/Dining-Concierge/internal/common/camunda"
	"github.com/sankirthk/Dining-Concierge/internal/common/config"
	"github.com/sankirthk/Dining-Concierge/internal/common/database"
	"github.com/sankirthk/Dining-Concierge/internal/common/logger"
	"github.com/sankirthk/Dining-Concierge/internal/common/observability"
	"github.com/sankirthk/Dining-Concierge/pkg/registry"

	cds "github.com/sankirthk/Dining-Concierge/internal/workers/chat/collect-dining-slots"
	ru "github.com/sankirthk/Dining-Concierge/internal/workers/chat/relay-utterance"
	rr "github.com/sankirthk/Dining-Concierge/internal/workers/concierge/recommend-restaurants"
	sd "github.com/sankirthk/Dining-Concierge/internal/workers/ingestion/sync-directory"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

// activeWorkers holds every opened job worker so shutdown can drain them.
var activeWorkers []*camunda.CamundaWorker

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("worker-manager")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init Camunda client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClient(cfg.Camunda.BrokerAddress)
		return err
	}, 10, 2*time.Second, zapLog, "Camunda client initialization")
	if err != nil {
		zapLog.Fatal("camunda client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Camunda client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")
	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init AWS service clients ---
	sesClient, err := commonaws.NewSESClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("ses client failed", zap.Error(err))
	}
	snsClient, err := commonaws.NewSNSClient(ctx, cfg.Integrations.AWS.Region)
	if err != nil {
		zapLog.Fatal("sns client failed", zap.Error(err))
	}
	dynamoClient, err := commonaws.NewDynamoDBClient(ctx, cfg.Database.DynamoDB.Region, cfg.Database.DynamoDB.Endpoint)
	if err != nil {
		zapLog.Fatal("dynamodb client failed", zap.Error(err))
	}
	zapLog.Info("All external service clients initialized")

	reg := registry.Default()
	for _, activity := range reg.Activities {
		zapLog.Info("activity registered",
			zap.String("id", activity.ID),
			zap.String("taskType", activity.TaskType),
		)
	}

	// --- Register workers ---

	// Chat front door
	if cfg.Workers[ru.TaskType].Enabled {
		handler := ru.NewHandler(
			&ru.Config{
				NLUBaseURL: cfg.Integrations.NLU.BaseURL,
				BotID:      cfg.Integrations.NLU.BotID,
				LocaleID:   cfg.Integrations.NLU.LocaleID,
				MaxRetries: cfg.Integrations.NLU.MaxRetries,
				SessionTTL: 30 * time.Minute,
				Timeout:    time.Duration(cfg.Workers[ru.TaskType].Timeout) * time.Millisecond,
			},
			ru.NewRedisSessionCache(redisClient.Client, 30*time.Minute),
			log,
		)
		startWorker(zeebeClient, ru.TaskType, cfg.Workers[ru.TaskType], handler, zapLog)
	}

	// Dialog slot collection
	if cfg.Workers[cds.TaskType].Enabled {
		handler := cds.NewHandler(
			&cds.Config{
				FulfillmentMessage: "dining-request-ready",
				Timeout:            time.Duration(cfg.Workers[cds.TaskType].Timeout) * time.Millisecond,
			},
			camundaClient,
			log,
		)
		startWorker(zeebeClient, cds.TaskType, cfg.Workers[cds.TaskType], handler, zapLog)
	}

	// Recommendation pipeline
	if cfg.Workers[rr.TaskType].Enabled {
		resolver := rr.NewResolver(
			rr.NewElasticsearchSearcher(esClient.Client, cfg.Concierge.SearchIndex),
			rr.NewDynamoDBStore(dynamoClient, cfg.Database.DynamoDB.TableName),
			log,
		)
		handler := rr.NewHandler(
			&rr.Config{
				SearchIndex:        cfg.Concierge.SearchIndex,
				TableName:          cfg.Database.DynamoDB.TableName,
				ResultLimit:        cfg.Concierge.ResultLimit,
				MinRating:          cfg.Concierge.MinRating,
				UnknownHoursPolicy: rr.UnknownHoursPolicy(cfg.Concierge.UnknownHoursPolicy),
				Sender:             cfg.Concierge.Sender,
				Subject:            cfg.Concierge.Subject,
				IntroText:          cfg.Concierge.IntroText,
				Timeout:            time.Duration(cfg.Workers[rr.TaskType].Timeout) * time.Millisecond,
			},
			resolver,
			sesClient,
			rr.NewPostgresDeliveryLog(pg.DB),
			log,
		)
		startWorker(zeebeClient, rr.TaskType, cfg.Workers[rr.TaskType], handler, zapLog)
	}

	// Directory ingestion
	if cfg.Workers[sd.TaskType].Enabled {
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
			Timeout:       time.Duration(cfg.Workers[sd.TaskType].Timeout) * time.Millisecond,
		}

		var notifier sd.Notifier
		if cfg.Integrations.AWS.SNS.Enabled && sdConfig.TopicARN != "" {
			notifier = sd.NewSNSNotifier(snsClient, sdConfig.TopicARN)
		}

		service := sd.NewService(
			sdConfig,
			nil,
			sd.NewDynamoDBStoreWriter(dynamoClient, sdConfig.TableName, log),
			sd.NewElasticsearchIndexer(esClient.Client, sdConfig.SearchIndex),
			notifier,
			log,
		)
		handler := sd.NewHandler(sdConfig, service, log)
		startWorker(zeebeClient, sd.TaskType, cfg.Workers[sd.TaskType], handler, zapLog)
	}

	zapLog.Info("All workers registered successfully")

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()
	for _, w := range activeWorkers {
		w.Stop(stopCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Camunda client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func startWorker(client zbc.Client, taskType string, wcfg config.WorkerConfig, handler camunda.JobHandler, log *zap.Logger) {
	if !wcfg.Enabled {
		log.Info("worker disabled", zap.String("taskType", taskType))
		return
	}

	w := camunda.NewWorker(
		client,
		taskType,
		wcfg.MaxJobsActive,
		time.Duration(wcfg.Timeout)*time.Millisecond,
		handler,
		log,
	)
	activeWorkers = append(activeWorkers, w)

	log.Info("worker started",
		zap.String("taskType", taskType),
		zap.Int("maxJobsActive", wcfg.MaxJobsActive),
		zap.Int("timeout_ms", wcfg.Timeout),
	)
}
