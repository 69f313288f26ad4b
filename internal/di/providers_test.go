package di

import (
	"testing"

	internalrepo "TargetCast/internal/repository"
	"TargetCast/internal/service/cache"
	"TargetCast/pkg/config"
	"TargetCast/pkg/metrics"
)

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("environment: test\nlog:\n  level: error\n" + extra))
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	return cfg
}

func TestProvideBytesCache(t *testing.T) {
	c, err := ProvideBytesCache(testConfig(t, "cache:\n  type: none\n"))
	if err != nil || c != nil {
		t.Fatalf("none: got %v, %v", c, err)
	}
	c, err = ProvideBytesCache(testConfig(t, "cache:\n  type: memory\n"))
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := c.(*cache.TTLCache); !ok {
		t.Fatalf("memory: got %T", c)
	}
}

func TestProvidePriceProviderWrapsCache(t *testing.T) {
	cfg := testConfig(t, "")
	l, _ := ProvideLogger(cfg)
	if _, ok := ProvidePriceProvider(cfg, l, cache.NewTTLCache()).(*internalrepo.CachedPriceProvider); !ok {
		t.Fatalf("expected cached provider when a cache is configured")
	}
	if _, ok := ProvidePriceProvider(cfg, l, nil).(*internalrepo.CachedPriceProvider); ok {
		t.Fatalf("expected bare provider without a cache")
	}
}

func TestProvideForecastSinkDefaultsToNoop(t *testing.T) {
	cfg := testConfig(t, "")
	l, _ := ProvideLogger(cfg)
	s, err := ProvideForecastSink(cfg, l)
	if err != nil {
		t.Fatalf("sink: %v", err)
	}
	if _, ok := s.(internalrepo.NoopSink); !ok {
		t.Fatalf("expected noop sink, got %T", s)
	}
}

func TestProvideMetricsDisabled(t *testing.T) {
	if _, ok := ProvideMetrics(testConfig(t, "metrics:\n  enabled: false\n")).(metrics.Nop); !ok {
		t.Fatalf("expected nop metrics when disabled")
	}
}

func TestInitializeApp(t *testing.T) {
	cfg := testConfig(t, "metrics:\n  enabled: false\ncache:\n  type: memory\n")
	app, err := InitializeApp(cfg)
	if err != nil || app == nil {
		t.Fatalf("initialize: %v", err)
	}
}
