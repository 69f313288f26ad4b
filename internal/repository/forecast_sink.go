package repository

import (
	"context"

	"TargetCast/internal/domain/models"
	domrepo "TargetCast/internal/domain/repository"
)

// NoopSink drops every report.
type NoopSink struct{}

func (NoopSink) Record(context.Context, *models.ForecastReport) error { return nil }
func (NoopSink) Close() error { return nil }

var _ domrepo.ForecastSink = NoopSink{}
