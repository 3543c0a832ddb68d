package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/adapters"
	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Source fetches the raw documents of a collection
type Source interface {
	Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error)
}

// Engine holds the loaded record collections and the last computed snapshot
type Engine struct {
	now      func() time.Time
	location *time.Location

	mu       sync.RWMutex
	records  domain.RecordSet
	snapshot *domain.Snapshot
}

type Option func(*Engine)

// WithClock sets the time source used for "today" and lastUpdated
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithLocation sets the location calendar days are computed in. Defaults to the clock's location.
func WithLocation(loc *time.Location) Option {
	return func(e *Engine) {
		e.location = loc
	}
}

func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		now:      time.Now,
		snapshot: &domain.Snapshot{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Load replaces the stored collections. It does not compute metrics.
func (e *Engine) Load(records domain.RecordSet) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.records = records
}

// LoadFrom fetches all collections from src concurrently and loads them.
// A collection whose fetch fails is replaced with an empty one; the failures
// are returned joined as *domain.DataSourceError values.
func (e *Engine) LoadFrom(ctx context.Context, src Source) error {
	logger := zerolog.Ctx(ctx)

	docs := make([][]store.Document, len(domain.Collections))
	errs := make([]error, len(domain.Collections))

	var g errgroup.Group
	for i, collection := range domain.Collections {
		g.Go(func() error {
			fetched, err := src.Fetch(ctx, collection)
			if err != nil {
				logger.Error().
					Err(err).
					Str("collection", string(collection)).
					Msg("failed to fetch collection, using empty data")
				errs[i] = &domain.DataSourceError{Collection: collection, Err: err}
				return nil
			}
			docs[i] = fetched
			return nil
		})
	}
	_ = g.Wait()

	e.Load(domain.RecordSet{
		Attendance: adapters.MapStoreDocumentsToAttendance(docs[0]),
		Messages:   adapters.MapStoreDocumentsToMessages(docs[1]),
		Users:      adapters.MapStoreDocumentsToUsers(docs[2]),
		Sessions:   adapters.MapStoreDocumentsToSessions(docs[3]),
	})

	logger.Debug().
		Int("attendance", len(docs[0])).
		Int("messages", len(docs[1])).
		Int("users", len(docs[2])).
		Int("sessions", len(docs[3])).
		Msg("collections loaded")

	return errors.Join(errs...)
}

// Records returns the stored collections
func (e *Engine) Records() domain.RecordSet {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.records
}

// Compute derives a new snapshot from the stored collections and publishes it
func (e *Engine) Compute() *domain.Snapshot {
	e.mu.RLock()
	records := e.records
	e.mu.RUnlock()

	now := e.clock()
	c := calculator{records: records, now: now}
	snapshot := &domain.Snapshot{
		ComputedAt: now,
		Attendance: c.attendance(),
		Messaging:  c.messaging(),
		Users:      c.users(),
		Sessions:   c.sessions(),
		Overview:   c.overview(),
	}

	e.mu.Lock()
	e.snapshot = snapshot
	e.mu.Unlock()
	return snapshot
}

// Refresh loads from src and computes in one pass. The snapshot is computed
// even when some collections failed to load.
func (e *Engine) Refresh(ctx context.Context, src Source) (*domain.Snapshot, error) {
	err := e.LoadFrom(ctx, src)
	return e.Compute(), err
}

// Snapshot returns the last computed snapshot, or an empty one before the first Compute
func (e *Engine) Snapshot() *domain.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// Metric returns the metrics object of d from the current snapshot
func (e *Engine) Metric(d domain.Domain) (any, bool) {
	return e.Snapshot().Metric(d)
}

// MetricByName is Metric for untyped callers such as the HTTP and CLI layers
func (e *Engine) MetricByName(name string) (any, error) {
	d, ok := domain.ParseDomain(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownDomain, name)
	}
	m, ok := e.Metric(d)
	if !ok {
		return nil, nil
	}
	return m, nil
}

func (e *Engine) clock() time.Time {
	now := e.now()
	if e.location != nil {
		now = now.In(e.location)
	}
	return now
}
