package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"TargetCast/internal/domain/models"
	domrepo "TargetCast/internal/domain/repository"
	"TargetCast/internal/service/cache"
	applogger "TargetCast/pkg/logger"
	xutil "TargetCast/pkg/util"
)

// CachedPriceProvider serves price histories from a BytesCache and falls
// through to the wrapped provider on a miss. Cache failures are logged and
// treated as misses.
type CachedPriceProvider struct {
	next  domrepo.PriceProvider
	cache cache.BytesCache
	ttl   time.Duration
	l     *applogger.Logger
}

func NewCachedPriceProvider(next domrepo.PriceProvider, c cache.BytesCache, ttl time.Duration, l *applogger.Logger) *CachedPriceProvider {
	if l == nil {
		l = applogger.NewNop()
	}
	return &CachedPriceProvider{next: next, cache: c, ttl: ttl, l: l}
}

func historyKey(coinID string, days int) string {
	return fmt.Sprintf("history:%s:%d", xutil.CanonicalCoinID(coinID), days)
}

func (p *CachedPriceProvider) FetchHistory(ctx context.Context, coinID string, days int) ([]models.PriceSample, error) {
	key := historyKey(coinID, days)

	b, ok, err := p.cache.GetBytes(ctx, key)
	if err != nil {
		p.l.Warn("price cache read failed", applogger.String("key", key), applogger.Error(err))
	}
	if ok {
		var samples []models.PriceSample
		if err := json.Unmarshal(b, &samples); err == nil && len(samples) > 0 {
			p.l.Debug("price cache hit", applogger.String("key", key))
			return samples, nil
		}
		p.l.Warn("price cache entry unreadable", applogger.String("key", key))
	}

	samples, err := p.next.FetchHistory(ctx, coinID, days)
	if err != nil {
		return nil, err
	}

	if b, err := json.Marshal(samples); err == nil {
		if err := p.cache.SetBytes(ctx, key, b, p.ttl); err != nil {
			p.l.Warn("price cache write failed", applogger.String("key", key), applogger.Error(err))
		}
	}
	return samples, nil
}

var _ domrepo.PriceProvider = (*CachedPriceProvider)(nil)
