package di

import (
	"context"
	"fmt"
	"time"

	domrepo "QuantPro/internal/domain/repository"
	"QuantPro/internal/handler/api"
	"QuantPro/internal/indicator"
	"QuantPro/internal/normalize"
	internalrepo "QuantPro/internal/repository"
	"QuantPro/internal/service/yahoo"
	"QuantPro/internal/usecase"
	"QuantPro/pkg/cache"
	pkgch "QuantPro/pkg/clickhouse"
	"QuantPro/pkg/config"
	xhttp "QuantPro/pkg/http"
	applogger "QuantPro/pkg/logger"
	"QuantPro/pkg/metrics"
	"QuantPro/pkg/server"
)

// ProvideLogger creates the application logger from config.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	return applogger.New(&applogger.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() domrepo.Metrics {
	return metrics.New()
}

// ProvideCache creates the result cache. Returns nil when caching is
// disabled; callers treat a nil Service as a pass-through.
func ProvideCache(cfg *config.Config, log *applogger.Logger) (cache.Service, error) {
	if !cfg.Cache.Enabled {
		return nil, nil
	}

	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisHost(cfg.Cache.Redis.Host),
			cache.WithRedisPort(cfg.Cache.Redis.Port),
			cache.WithRedisAuth(cfg.Cache.Redis.Password, cfg.Cache.Redis.DB),
			cache.WithRedisPrefix(cfg.Cache.Redis.Prefix),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		log.Info("layered cache enabled",
			applogger.String("redis", fmt.Sprintf("%s:%d", cfg.Cache.Redis.Host, cfg.Cache.Redis.Port)),
		)
		return cache.NewLayeredCache(rc, cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
	}

	log.Info("memory cache enabled", applogger.Int("max_size", cfg.Cache.MemoryMaxSize))
	return cache.NewMemoryCache(cache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize)), nil
}

// ProvideClickHouseClient creates the ClickHouse client, or nil when the
// bar archive is disabled.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	if !cfg.Archive.Enabled {
		return nil, nil
	}

	ch := cfg.Archive.ClickHouse
	client, err := pkgch.NewClient(
		pkgch.WithHost(ch.Host),
		pkgch.WithPort(ch.Port),
		pkgch.WithDatabase(ch.Database),
		pkgch.WithCredentials(ch.User, ch.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(ch.DialTimeout, ch.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return client, nil
}

// ProvideBarArchive creates the ClickHouse-backed bar archive. A nil
// client (archive disabled) yields a nil archive.
func ProvideBarArchive(client *pkgch.Client, log *applogger.Logger) (domrepo.BarArchive, error) {
	if client == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	archive, err := internalrepo.NewCHBarArchive(ctx, client, log)
	if err != nil {
		return nil, err
	}
	return archive, nil
}

// ProvideBarSource creates the Yahoo chart client.
func ProvideBarSource(cfg *config.Config, log *applogger.Logger) domrepo.BarSource {
	return yahoo.New(
		cfg.Upstream.BaseURL,
		cfg.Upstream.Timeout,
		log,
		yahoo.WithRateLimit(cfg.Upstream.RateCapacity, cfg.Upstream.RateRefillPerSec),
	)
}

// ProvideNormalizer creates the series normalizer.
func ProvideNormalizer(src domrepo.BarSource, cfg *config.Config, log *applogger.Logger) *normalize.Normalizer {
	return normalize.New(src, cfg.Upstream.ExchangeSuffix, cfg.Upstream.IntradayLookbackDays, log)
}

// ProvideQuoteUseCase creates the analysis use case.
func ProvideQuoteUseCase(
	norm *normalize.Normalizer,
	cacheSvc cache.Service,
	archive domrepo.BarArchive,
	m domrepo.Metrics,
	cfg *config.Config,
	log *applogger.Logger,
) *usecase.QuoteUseCase {
	engine := indicator.Config{
		RSIPeriod:     cfg.Engine.RSIPeriod,
		EMAPeriod:     cfg.Engine.EMAPeriod,
		SMAPeriod:     cfg.Engine.SMAPeriod,
		ExtremaWindow: cfg.Engine.ExtremaWindow,
	}
	return usecase.NewQuoteUseCase(norm, cacheSvc, archive, m, log, cfg.Cache.TTL, engine)
}

// ProvideQuoteHandler creates the HTTP handler.
func ProvideQuoteHandler(uc *usecase.QuoteUseCase, log *applogger.Logger) xhttp.Handler {
	return api.NewQuoteHandler(uc, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	handler xhttp.Handler,
	cacheSvc cache.Service,
	chClient *pkgch.Client,
) *server.App {
	return server.New(cfg, log, handler, cacheSvc, chClient)
}
