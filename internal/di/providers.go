package di

import (
	"context"
	"fmt"
	"time"

	"TargetCast/internal/domain/repository"
	domsvc "TargetCast/internal/domain/service"
	"TargetCast/internal/handler/api"
	internalrepo "TargetCast/internal/repository"
	"TargetCast/internal/service/cache"
	"TargetCast/internal/service/coingecko"
	"TargetCast/internal/services/lstm"
	"TargetCast/internal/usecase"
	pkgch "TargetCast/pkg/clickhouse"
	"TargetCast/pkg/config"
	xhttp "TargetCast/pkg/http"
	pkgkafka "TargetCast/pkg/kafka"
	applogger "TargetCast/pkg/logger"
	"TargetCast/pkg/metrics"
	"TargetCast/pkg/server"
)

const initTimeout = 10 * time.Second

// ProvideLogger builds the application logger from the log section.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	lc := cfg.Log
	l, err := applogger.New(&lc)
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l.With(applogger.String("env", cfg.Environment)), nil
}

// ProvideMetrics creates a Prometheus metrics recorder, or a no-op one when
// metrics are disabled.
func ProvideMetrics(cfg *config.Config) repository.Metrics {
	if !cfg.Metrics.Enabled {
		return metrics.Nop{}
	}
	return metrics.New()
}

// ProvideBytesCache returns the price-history cache, or nil when caching is off.
func ProvideBytesCache(cfg *config.Config) (cache.BytesCache, error) {
	switch cfg.Cache.Type {
	case "memory":
		return cache.NewTTLCache(), nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		return rc, nil
	default:
		return nil, nil
	}
}

// ProvidePriceProvider creates the CoinGecko client, behind the cache if one is configured.
func ProvidePriceProvider(cfg *config.Config, l *applogger.Logger, c cache.BytesCache) repository.PriceProvider {
	cg := cfg.Provider.CoinGecko
	var p repository.PriceProvider = coingecko.New(
		coingecko.WithBaseURL(cg.BaseURL),
		coingecko.WithAPIKey(cg.APIKey),
		coingecko.WithVsCurrency(cg.VsCurrency),
		coingecko.WithTimeout(cg.Timeout),
		coingecko.WithLogger(l),
	)
	if c != nil {
		p = internalrepo.NewCachedPriceProvider(p, c, cfg.Cache.TTL, l)
	}
	return p
}

// ProvideForecastSink creates the configured report sink.
func ProvideForecastSink(cfg *config.Config, l *applogger.Logger) (repository.ForecastSink, error) {
	switch cfg.Sink.Type {
	case "kafka":
		kc := cfg.Sink.Kafka
		producer, err := pkgkafka.NewProducer(
			pkgkafka.WithBrokers(kc.Brokers),
			pkgkafka.WithCompression(kc.Compression),
			pkgkafka.WithRequiredAcks(kc.RequiredAcks),
			pkgkafka.WithMaxAttempts(kc.MaxAttempts),
			pkgkafka.WithWriteTimeout(kc.WriteTimeout),
			pkgkafka.WithHashByKey(true),
		)
		if err != nil {
			return nil, fmt.Errorf("kafka producer: %w", err)
		}
		return internalrepo.NewKafkaForecastSink(producer, kc.Topic, l), nil
	case "clickhouse":
		cc := cfg.Sink.ClickHouse
		ctx, cancel := context.WithTimeout(context.Background(), initTimeout)
		defer cancel()
		client, err := pkgch.NewClient(ctx,
			pkgch.WithHost(cc.Host),
			pkgch.WithPort(cc.Port),
			pkgch.WithDatabase(cc.Database),
			pkgch.WithCredentials(cc.User, cc.Password),
			pkgch.WithHTTP(cc.UseHTTP),
			pkgch.WithAsyncInsert(cc.AsyncInsert, cc.WaitForAsync),
			pkgch.WithTimeouts(cc.DialTimeout, cc.ReadTimeout),
		)
		if err != nil {
			return nil, fmt.Errorf("clickhouse client: %w", err)
		}
		if err := client.InitSchema(ctx, internalrepo.ForecastSchema); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("clickhouse schema: %w", err)
		}
		return internalrepo.NewClickHouseForecastSink(client.DB(), client.Close, l), nil
	default:
		return internalrepo.NoopSink{}, nil
	}
}

// ProvidePredictorFactory builds a fresh LSTM per request from the model section.
func ProvidePredictorFactory(cfg *config.Config) domsvc.PredictorFactory {
	return lstm.Factory(cfg.Model)
}

// ProvideForecastOrchestrator creates the forecast use case.
func ProvideForecastOrchestrator(
	cfg *config.Config,
	provider repository.PriceProvider,
	factory domsvc.PredictorFactory,
	sink repository.ForecastSink,
	m repository.Metrics,
	l *applogger.Logger,
) *usecase.ForecastOrchestrator {
	return usecase.NewForecastOrchestrator(provider, factory,
		usecase.WithSequenceLength(cfg.Model.SequenceLength),
		usecase.WithMinHistory(cfg.Forecast.MinHistory),
		usecase.WithLookback(cfg.Provider.CoinGecko.LookbackDays),
		usecase.WithSink(sink),
		usecase.WithMetrics(m),
		usecase.WithLogger(l),
	)
}

// ProvidePredictHandler creates the /predict handler.
func ProvidePredictHandler(l *applogger.Logger, orch *usecase.ForecastOrchestrator) *api.PredictEchoHandler {
	return api.NewPredictEchoHandler(l, orch)
}

// ProvideHTTPServer creates the Echo server with all routes registered.
func ProvideHTTPServer(cfg *config.Config, l *applogger.Logger, h *api.PredictEchoHandler) *xhttp.Server {
	metricsPath := ""
	if cfg.Metrics.Enabled {
		metricsPath = cfg.Metrics.Path
	}
	return xhttp.NewServer([]xhttp.Handler{h},
		xhttp.WithPort(cfg.Server.Port),
		xhttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout, cfg.Server.ShutdownTimeout),
		xhttp.WithCORS(cfg.CORSEnabled()),
		xhttp.WithMetricsPath(metricsPath),
		xhttp.WithLogger(l),
	)
}

// ProvideApp creates the application server.
func ProvideApp(
	l *applogger.Logger,
	srv *xhttp.Server,
	sink repository.ForecastSink,
	c cache.BytesCache,
) *server.App {
	return server.New(l, srv, sink, c)
}
