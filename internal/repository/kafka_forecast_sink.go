package repository

import (
	"context"
	"fmt"
	"time"

	"TargetCast/internal/domain/models"
	domrepo "TargetCast/internal/domain/repository"
	applogger "TargetCast/pkg/logger"
)

// Publisher is the subset of pkg/kafka.Producer the sink needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaForecastSink publishes each report as a JSON ForecastEvent keyed by coin.
type KafkaForecastSink struct {
	pub   Publisher
	topic string
	l     *applogger.Logger
	now   func() time.Time
}

func NewKafkaForecastSink(pub Publisher, topic string, l *applogger.Logger) *KafkaForecastSink {
	if l == nil {
		l = applogger.NewNop()
	}
	return &KafkaForecastSink{pub: pub, topic: topic, l: l, now: time.Now}
}

func (s *KafkaForecastSink) Record(ctx context.Context, r *models.ForecastReport) error {
	ev := newForecastEvent(r, s.now())
	if err := s.pub.Publish(ctx, s.topic, []byte(r.CoinID), ev); err != nil {
		s.l.Error("kafka publish forecast failed",
			applogger.String("topic", s.topic),
			applogger.String("coin_id", r.CoinID),
			applogger.Error(err),
		)
		return fmt.Errorf("publish forecast: %w", err)
	}
	return nil
}

func (s *KafkaForecastSink) Close() error {
	return s.pub.Close()
}

var _ domrepo.ForecastSink = (*KafkaForecastSink)(nil)
