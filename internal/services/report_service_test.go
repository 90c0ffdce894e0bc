package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"receita/internal/amqp"
	"receita/internal/cache"
	"receita/internal/core"
	"receita/internal/dataset"
	"receita/internal/report"
	"receita/internal/source/memory"
)

const twoRows = "Data;Equipe;Função;Total R$;R$ HS1;R$ HS2;R$ HS3;Flag\n" +
	"01/01/2024;A;X;R$ 100,00;R$ 50,00;R$ 30,00;R$ 20,00;FAFEM\n" +
	"02/01/2024;B;Y;R$ 200,00;R$ 0,00;R$ 0,00;R$ 200,00;\n"

type countingReader struct {
	calls int32
	inner *memory.Store
}

func (r *countingReader) ReadRows(ctx context.Context) (*dataset.RawTable, error) {
	atomic.AddInt32(&r.calls, 1)
	return r.inner.ReadRows(ctx)
}

type recordingPublisher struct {
	mu   sync.Mutex
	msgs []*amqp.ReportRenderedMessage
	err  error
}

func (p *recordingPublisher) PublishReportRendered(_ context.Context, m *amqp.ReportRenderedMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.msgs = append(p.msgs, m)
	return p.err
}

func newService(t *testing.T, pub EventPublisher) (*ReportService, *countingReader) {
	t.Helper()
	reader := &countingReader{inner: memory.New("test", twoRows)}
	svc := NewReportService(reader, pub, cache.NewLRUCache[report.Report](10, time.Minute), nil)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("init: %v", err)
	}
	return svc, reader
}

func TestReportServiceLoadsOnce(t *testing.T) {
	svc, reader := newService(t, nil)
	if err := svc.Init(context.Background()); err != nil {
		t.Fatalf("second init: %v", err)
	}
	if atomic.LoadInt32(&reader.calls) != 1 {
		t.Fatalf("dataset read %d times", reader.calls)
	}
	if !svc.Ready() {
		t.Fatalf("service should be ready")
	}
	opts, err := svc.Options()
	if err != nil || len(opts.Teams) != 2 {
		t.Fatalf("options = %+v err=%v", opts, err)
	}
}

func TestReportServiceCachesAndPublishes(t *testing.T) {
	pub := &recordingPublisher{}
	svc, _ := newService(t, pub)
	c, err := svc.DefaultCriteria()
	if err != nil {
		t.Fatalf("default criteria: %v", err)
	}

	first, hit, err := svc.Report(context.Background(), c)
	if err != nil || hit {
		t.Fatalf("first report: hit=%v err=%v", hit, err)
	}
	second, hit, err := svc.Report(context.Background(), c)
	if err != nil || !hit {
		t.Fatalf("second report should be a cache hit: hit=%v err=%v", hit, err)
	}
	if first.Rows != 2 || second.Totals.Total.String() != "300" {
		t.Fatalf("unexpected report %+v", second)
	}
	if len(pub.msgs) != 2 || pub.msgs[0].CriteriaKey != c.Key() || pub.msgs[0].Total != "300" {
		t.Fatalf("unexpected events %+v", pub.msgs)
	}
}

func TestReportServicePublishFailureIsNotSurfaced(t *testing.T) {
	svc, _ := newService(t, &recordingPublisher{err: errors.New("broker down")})
	c := report.NewCriteria(core.Date{}, core.Date{}, []string{"A"}, nil, nil)
	rep, _, err := svc.Report(context.Background(), c)
	if err != nil {
		t.Fatalf("publish failure leaked: %v", err)
	}
	if rep.Rows != 1 {
		t.Fatalf("rows = %d", rep.Rows)
	}
}

func TestReportServiceConcurrentRequests(t *testing.T) {
	svc, _ := newService(t, nil)
	c := report.NewCriteria(core.Date{}, core.Date{}, []string{"A", "B"}, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rep, _, err := svc.Report(context.Background(), c); err != nil || rep.Rows != 2 {
				t.Errorf("rows=%d err=%v", rep.Rows, err)
			}
		}()
	}
	wg.Wait()
	if svc.CacheStats().Hits+svc.CacheStats().Misses != 16 {
		t.Fatalf("stats = %+v", svc.CacheStats())
	}
}

func TestReportServiceNotLoaded(t *testing.T) {
	svc := NewReportService(memory.New("bad", "Data;Equipe\n"), nil, nil, nil)
	if _, _, err := svc.Report(context.Background(), report.Criteria{}); !errors.Is(err, ErrNotLoaded) {
		t.Fatalf("expected ErrNotLoaded, got %v", err)
	}
	if err := svc.Init(context.Background()); !errors.Is(err, dataset.ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
	if _, err := svc.Options(); !errors.Is(err, dataset.ErrMalformedInput) {
		t.Fatalf("load error should be reported, got %v", err)
	}
	if svc.Ready() {
		t.Fatalf("service should not be ready")
	}
}
