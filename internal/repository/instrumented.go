package repository

import (
	"context"
	"time"

	"translatedtext/internal/domain"
	"translatedtext/internal/logger"
	"translatedtext/internal/metrics"
)

// Instrumented wraps a TableAccessor with metrics and debug logging
type Instrumented struct {
	next    TableAccessor
	metrics *metrics.Metrics
	log     *logger.Logger
}

var _ TableAccessor = (*Instrumented)(nil)

// NewInstrumented decorates next. A nil metrics or logger disables that concern.
func NewInstrumented(next TableAccessor, m *metrics.Metrics, log *logger.Logger) *Instrumented {
	if log == nil {
		log = logger.Nop()
	}
	return &Instrumented{next: next, metrics: m, log: log}
}

func (i *Instrumented) observe(op string, start time.Time, rows int, err error) {
	d := time.Since(start)
	i.metrics.RecordDbOperation(op, rows, d, err)
	i.log.LogDbOperation(op, d, rows, err)
}

// Fetch implements TableAccessor
func (i *Instrumented) Fetch(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) (domain.ResultMap, error) {
	start := time.Now()
	rows, err := i.next.Fetch(ctx, att, lang, ids)
	i.observe("fetch", start, len(rows), err)
	return rows, err
}

// DistinctValues implements TableAccessor
func (i *Instrumented) DistinctValues(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) ([]string, error) {
	start := time.Now()
	values, err := i.next.DistinctValues(ctx, att, lang, ids)
	i.observe("distinct", start, len(values), err)
	return values, err
}

// Insert implements TableAccessor
func (i *Instrumented) Insert(ctx context.Context, row domain.ValueRow) error {
	start := time.Now()
	err := i.next.Insert(ctx, row)
	i.observe("insert", start, 1, err)
	return err
}

// Update implements TableAccessor
func (i *Instrumented) Update(ctx context.Context, row domain.ValueRow) error {
	start := time.Now()
	err := i.next.Update(ctx, row)
	i.observe("update", start, 1, err)
	return err
}

// Delete implements TableAccessor
func (i *Instrumented) Delete(ctx context.Context, att domain.AttributeID, lang domain.LanguageCode, ids []domain.EntityID) error {
	start := time.Now()
	err := i.next.Delete(ctx, att, lang, ids)
	i.observe("delete", start, len(ids), err)
	return err
}
