package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"receita/internal/amqp"
	"receita/internal/cache"
	"receita/internal/core"
	"receita/internal/dataset"
	applog "receita/internal/log"
	"receita/internal/report"
	"receita/internal/source"
)

// ErrNotLoaded is returned when a report is requested before Init succeeded.
var ErrNotLoaded = errors.New("dataset not loaded")

// EventPublisher receives one event per report served.
type EventPublisher interface {
	PublishReportRendered(ctx context.Context, msg *amqp.ReportRenderedMessage) error
}

// Snapshot is the dataset loaded once at start-up. It is never modified.
type Snapshot struct {
	Table    *core.Table
	Options  report.FilterOptions
	Stats    dataset.NormalizeStats
	LoadedAt time.Time
}

// ReportService owns the loaded dataset and serves filtered reports from it.
type ReportService struct {
	reader    source.RowsReader
	publisher EventPublisher
	cache     *cache.LRUCache[report.Report]
	group     singleflight.Group
	logger    *applog.Logger

	once    sync.Once
	mu      sync.RWMutex
	snap    *Snapshot
	loadErr error
}

// NewReportService wires a service. publisher may be nil to disable events.
func NewReportService(reader source.RowsReader, publisher EventPublisher, reports *cache.LRUCache[report.Report], logger *applog.Logger) *ReportService {
	if reports == nil {
		reports = cache.NewLRUCache[report.Report](100, 5*time.Minute)
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReportService{
		reader:    reader,
		publisher: publisher,
		cache:     reports,
		logger:    logger.WithComponent(applog.ComponentReport),
	}
}

// Init loads and normalizes the dataset exactly once. Later calls return the
// outcome of the first one.
func (s *ReportService) Init(ctx context.Context) error {
	s.once.Do(func() {
		snap, err := s.load(ctx)
		s.mu.Lock()
		s.snap, s.loadErr = snap, err
		s.mu.Unlock()
	})
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

func (s *ReportService) load(ctx context.Context) (*Snapshot, error) {
	raw, err := s.reader.ReadRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("read dataset: %w", err)
	}
	tbl, stats, err := dataset.Normalize(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize dataset: %w", err)
	}

	if stats.InvalidDates > 0 || stats.InvalidMoneyCells > 0 {
		s.logger.WarnContext(ctx, "Dataset cells fell back to defaults",
			"invalid_dates", stats.InvalidDates,
			"invalid_money_cells", stats.InvalidMoneyCells)
	}
	if len(stats.MissingMoneyColumns) > 0 || !stats.FlagColumnPresent {
		s.logger.WarnContext(ctx, "Dataset optional columns missing",
			"missing_money_columns", stats.MissingMoneyColumns,
			"flag_column_present", stats.FlagColumnPresent)
	}
	s.logger.InfoContext(ctx, "Dataset loaded", applog.FieldRows, stats.Rows, applog.FieldOperation, applog.OpLoad)

	return &Snapshot{
		Table:    tbl,
		Options:  report.Options(tbl),
		Stats:    stats,
		LoadedAt: time.Now(),
	}, nil
}

// Snapshot returns the loaded dataset.
func (s *ReportService) Snapshot() (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snap == nil {
		if s.loadErr != nil {
			return nil, s.loadErr
		}
		return nil, ErrNotLoaded
	}
	return s.snap, nil
}

// Ready reports whether the dataset is loaded.
func (s *ReportService) Ready() bool {
	_, err := s.Snapshot()
	return err == nil
}

// Options returns the selectable filter values.
func (s *ReportService) Options() (report.FilterOptions, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return report.FilterOptions{}, err
	}
	return snap.Options, nil
}

// DefaultCriteria returns the initial filter selection.
func (s *ReportService) DefaultCriteria() (report.Criteria, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return report.Criteria{}, err
	}
	return report.DefaultCriteria(snap.Table), nil
}

// Report returns the report for c and whether it came from the cache.
// Concurrent requests for the same criteria share one computation.
func (s *ReportService) Report(ctx context.Context, c report.Criteria) (report.Report, bool, error) {
	snap, err := s.Snapshot()
	if err != nil {
		return report.Report{}, false, err
	}

	key := c.Key()
	rep, hit := s.cache.Get(key)
	if !hit {
		v, _, _ := s.group.Do(key, func() (any, error) {
			r := report.Build(snap.Table, c)
			s.cache.Set(key, r)
			return r, nil
		})
		rep = v.(report.Report)
	}

	s.publish(ctx, key, rep)
	return rep, hit, nil
}

func (s *ReportService) publish(ctx context.Context, key string, rep report.Report) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewReportRenderedMessage(key, rep.Rows, rep.Totals.Total.String())
	if err := s.publisher.PublishReportRendered(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish report event",
			applog.FieldEventID, msg.ID,
			applog.FieldError, err)
	}
}

// CacheStats exposes the report cache counters.
func (s *ReportService) CacheStats() cache.Stats { return s.cache.Stats() }
