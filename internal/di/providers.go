package di

import (
	"context"
	"fmt"
	"time"

	"PacePulse/internal/domain/repository"
	"PacePulse/internal/handler/api"
	"PacePulse/internal/insight"
	mid "PacePulse/internal/middleware"
	internalrepo "PacePulse/internal/repository"
	icache "PacePulse/internal/service/cache"
	"PacePulse/internal/service/livestore"
	"PacePulse/internal/service/oddsfeed"
	"PacePulse/internal/service/profiles"
	"PacePulse/internal/usecase"
	"PacePulse/pkg/cache"
	pkgch "PacePulse/pkg/clickhouse"
	"PacePulse/pkg/config"
	xhttp "PacePulse/pkg/http"
	pkgkafka "PacePulse/pkg/kafka"
	applogger "PacePulse/pkg/logger"
	"PacePulse/pkg/metrics"
	"PacePulse/pkg/server"
)

// ProvideLogger creates the application logger.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	level := "info"
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	return applogger.New(&applogger.Config{Level: level, Format: format, Output: "stdout"})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCacheService creates the cache layer: in-memory by default, layered
// with Redis when enabled.
func ProvideCacheService(cfg *config.Config) (cache.Service, error) {
	if !cfg.Redis.Enabled {
		return cache.NewMemoryCache(), nil
	}
	redisCache, err := cache.NewRedisCache(
		cache.WithRedisHost(cfg.Redis.Host),
		cache.WithRedisPort(cfg.Redis.Port),
		cache.WithRedisPassword(cfg.Redis.Password),
		cache.WithRedisDB(cfg.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return cache.NewLayeredCache(redisCache), nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideLineHistoryStore creates the durable tick store and ensures schema.
func ProvideLineHistoryStore(chClient *pkgch.Client) (repository.LineHistoryStore, error) {
	store := internalrepo.NewClickHouseLineHistory(chClient)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := store.Init(ctx); err != nil {
		return nil, fmt.Errorf("line history schema: %w", err)
	}
	return store, nil
}

// ProvideKafkaProducer creates a Kafka producer. Nil when the backend does not
// publish to Kafka.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return producer, nil
}

// ProvideLinePublisher creates the Kafka line publisher. Nil for the
// clickhouse backend.
func ProvideLinePublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.LinePublisher {
	if producer == nil {
		return nil
	}
	return internalrepo.NewKafkaLinePublisher(producer, cfg.Kafka.Topic)
}

// ProvideKafkaConsumer creates a Kafka consumer for the kafka backend.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	if cfg.Backend.Type != "kafka" {
		return nil, nil
	}
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideKafkaLinesHandler registers the handler for the line ticks topic.
func ProvideKafkaLinesHandler(store repository.LineHistoryStore, m repository.Metrics, cfg *config.Config) *usecase.KafkaLinesHandler {
	return usecase.NewKafkaLinesHandler(cfg.Kafka.Topic, store, m)
}

// ProvideLiveStore creates the cache-backed live snapshot store.
func ProvideLiveStore(c cache.Service, cfg *config.Config, l *applogger.Logger) *livestore.Store {
	opts := []livestore.Option{livestore.WithLogger(l)}
	if cfg.Live.HistoryLimit > 0 {
		opts = append(opts, livestore.WithHistoryLimit(cfg.Live.HistoryLimit))
	}
	if cfg.Live.SnapshotTTL > 0 {
		opts = append(opts, livestore.WithSnapshotTTL(cfg.Live.SnapshotTTL))
	}
	return livestore.New(c, opts...)
}

// ProvideOddsFeedStream creates the odds feed WebSocket stream.
func ProvideOddsFeedStream(cfg *config.Config, l *applogger.Logger) repository.LineStream {
	return oddsfeed.New(
		cfg.Feed.APIKey,
		cfg.Feed.URL,
		cfg.Feed.Games,
		cfg.Feed.ReconnectDelay,
		cfg.Feed.PingInterval,
		l,
	)
}

// ProvideLineProcessor creates the tick processor use case.
func ProvideLineProcessor(
	pub repository.LinePublisher,
	store repository.LineHistoryStore,
	m repository.Metrics,
	cfg *config.Config,
) *usecase.LineProcessor {
	return usecase.NewLineProcessor(pub, store, m, cfg.Backend.Type)
}

// ProvideLineCollector creates the feed collector use case.
func ProvideLineCollector(
	stream repository.LineStream,
	processor *usecase.LineProcessor,
	live *livestore.Store,
	m repository.Metrics,
) *usecase.LineCollector {
	// Middleware pipeline between WebSocket and backend
	pipe := mid.NewLinePipeline(processor, m,
		mid.WithMaxTPS(10),
		mid.WithBufferSize(2000),
	)
	return usecase.NewLineCollector(stream, processor, live, m, pipe)
}

// ProvideProfileSource creates the season profile service over the stats
// provider.
func ProvideProfileSource(cfg *config.Config, c cache.Service, l *applogger.Logger) repository.ProfileSource {
	provider := profiles.NewProvider(profiles.ProviderConfig{
		BaseURL:    cfg.Provider.BaseURL,
		APIKey:     cfg.Provider.APIKey,
		Season:     cfg.Provider.Season,
		SeasonType: cfg.Provider.SeasonType,
		Timeout:    cfg.Provider.Timeout,
	})

	opts := []profiles.Option{
		profiles.WithCache(c),
		profiles.WithServiceLogger(l),
		profiles.WithCallBudget(cfg.Provider.MaxCallsMonth),
	}
	if cfg.Profiles.Freshness > 0 {
		opts = append(opts, profiles.WithFreshness(cfg.Profiles.Freshness))
	}
	return profiles.NewService(provider, cfg.ProfileCachePath(), opts...)
}

// ProvideInsightEngine creates the insight engine.
func ProvideInsightEngine(live *livestore.Store, l *applogger.Logger, m repository.Metrics) *insight.Engine {
	return insight.NewEngine(live,
		insight.WithLogger(l),
		insight.WithMetrics(m),
	)
}

// ProvideInsightService creates the read-side usecase.
func ProvideInsightService(
	src repository.ProfileSource,
	engine *insight.Engine,
	live *livestore.Store,
	history repository.LineHistoryStore,
) *usecase.InsightService {
	return usecase.NewInsightService(src, engine, live, history)
}

// ProvideHTTPHandler creates the Echo API handler.
func ProvideHTTPHandler(
	l *applogger.Logger,
	svc *usecase.InsightService,
	history repository.LineHistoryStore,
	cfg *config.Config,
) xhttp.Handler {
	h := api.NewInsightsEchoHandler(l, svc, cfg.Insight.Enabled)
	if cfg.Redis.Enabled {
		h.SetCache(icache.NewRedisCache(icache.RedisConfig{
			Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}))
	} else {
		h.SetCache(icache.NewTTLCache())
	}
	if history != nil {
		h.SetHealthCheck(history.Health)
	}
	return h
}

// telemetrySink ships aggregated error telemetry to Kafka.
type telemetrySink struct {
	producer *pkgkafka.Producer
}

func (s telemetrySink) PublishMessage(ctx context.Context, topic string, payload interface{}) error {
	return s.producer.Publish(ctx, topic, nil, payload)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	collector *usecase.LineCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaLinesHandler,
	chClient *pkgch.Client,
	handler xhttp.Handler,
	live *livestore.Store,
	l *applogger.Logger,
	producer *pkgkafka.Producer,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}

	// Aggregate repeated error logs into a telemetry topic on the kafka backend
	if producer != nil {
		l.AddCollector(&applogger.CollectionConfig{
			TimeInterval:   30 * time.Second,
			CountThreshold: 100,
			Topic:          cfg.Kafka.Topic + "_telemetry",
			Publisher:      telemetrySink{producer: producer},
		})
	}

	var mh pkgkafka.MessageHandler
	if consumer != nil {
		mh = kh
	}

	app := server.New(cfg, collector, consumer, mh, chClient)
	app.SetHTTPHandler(handler)
	app.SetSeeder(live)
	if collector != nil {
		app.LineProc = collector.Processor()
	}
	return app
}
