package sql

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/syssam/tabula"
	"github.com/syssam/tabula/dialect"
)

// QueryStats holds statement execution statistics.
type QueryStats struct {
	// TotalQueries is the total number of statements that returned rows.
	TotalQueries atomic.Int64
	// TotalExecs is the total number of statements that returned no rows.
	TotalExecs atomic.Int64
	// TotalDuration is the total time spent executing statements.
	TotalDuration atomic.Int64 // nanoseconds
	// SlowQueries is the count of statements exceeding the slow threshold.
	SlowQueries atomic.Int64
	// Errors is the count of failed statements.
	Errors atomic.Int64
	// Pages is the count of paging rewrites applied.
	Pages atomic.Int64
	// RejectedPages is the count of limit/offset pairs the dialect
	// could not express.
	RejectedPages atomic.Int64
	// Transactions is the count of transactions begun.
	Transactions atomic.Int64
	// Rollbacks is the count of transactions rolled back.
	Rollbacks atomic.Int64
}

// Stats returns a snapshot of the current statistics.
func (s *QueryStats) Stats() StatsSnapshot {
	return StatsSnapshot{
		TotalQueries:  s.TotalQueries.Load(),
		TotalExecs:    s.TotalExecs.Load(),
		TotalDuration: time.Duration(s.TotalDuration.Load()),
		SlowQueries:   s.SlowQueries.Load(),
		Errors:        s.Errors.Load(),
		Pages:         s.Pages.Load(),
		RejectedPages: s.RejectedPages.Load(),
		Transactions:  s.Transactions.Load(),
		Rollbacks:     s.Rollbacks.Load(),
	}
}

// Reset resets all statistics to zero.
func (s *QueryStats) Reset() {
	s.TotalQueries.Store(0)
	s.TotalExecs.Store(0)
	s.TotalDuration.Store(0)
	s.SlowQueries.Store(0)
	s.Errors.Store(0)
	s.Pages.Store(0)
	s.RejectedPages.Store(0)
	s.Transactions.Store(0)
	s.Rollbacks.Store(0)
}

// StatsSnapshot is a point-in-time snapshot of query statistics.
type StatsSnapshot struct {
	TotalQueries  int64
	TotalExecs    int64
	TotalDuration time.Duration
	SlowQueries   int64
	Errors        int64
	Pages         int64
	RejectedPages int64
	Transactions  int64
	Rollbacks     int64
}

// AvgQueryDuration returns the average statement duration.
func (s StatsSnapshot) AvgQueryDuration() time.Duration {
	total := s.TotalQueries + s.TotalExecs
	if total == 0 {
		return 0
	}
	return s.TotalDuration / time.Duration(total)
}

// String returns a human-readable summary of the statistics.
func (s StatsSnapshot) String() string {
	return fmt.Sprintf(
		"queries=%d execs=%d duration=%s avg=%s slow=%d errors=%d pages=%d/%d txs=%d/%d",
		s.TotalQueries, s.TotalExecs, s.TotalDuration, s.AvgQueryDuration(),
		s.SlowQueries, s.Errors,
		s.Pages, s.Pages+s.RejectedPages,
		s.Transactions-s.Rollbacks, s.Transactions,
	)
}

// SlowQueryHook is a function called when a slow statement is detected.
type SlowQueryHook func(ctx context.Context, query string, duration time.Duration)

// StatsDriver wraps a dialect.Driver with statement statistics collection.
type StatsDriver struct {
	dialect.Driver
	stats         *QueryStats
	slowThreshold time.Duration
	slowHook      SlowQueryHook
	mu            sync.RWMutex
}

// StatsOption configures the StatsDriver.
type StatsOption func(*StatsDriver)

// WithSlowThreshold sets the threshold for slow statement detection.
// Default is 100ms.
func WithSlowThreshold(d time.Duration) StatsOption {
	return func(s *StatsDriver) {
		s.slowThreshold = d
	}
}

// WithSlowQueryHook sets a callback function for slow statements.
func WithSlowQueryHook(hook SlowQueryHook) StatsOption {
	return func(s *StatsDriver) {
		s.slowHook = hook
	}
}

// WithSlowQueryLog logs slow statements to the default logger.
func WithSlowQueryLog() StatsOption {
	return WithSlowQueryHook(func(_ context.Context, query string, duration time.Duration) {
		slog.Warn("slow query detected", "duration", duration, "query", query)
	})
}

// NewStatsDriver wraps a Driver with statistics collection.
//
// Example:
//
//	drv, _ := dialect.Connect(ctx, cfg)
//	statsDriver := sql.NewStatsDriver(drv,
//	    sql.WithSlowThreshold(200*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//
//	// Later, check statistics:
//	fmt.Println(statsDriver.QueryStats().Stats())
func NewStatsDriver(drv dialect.Driver, opts ...StatsOption) *StatsDriver {
	s := &StatsDriver{
		Driver:        drv,
		stats:         &QueryStats{},
		slowThreshold: 100 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// QueryStats returns the underlying QueryStats for reading statistics.
func (d *StatsDriver) QueryStats() *QueryStats {
	return d.stats
}

// SlowThreshold returns the current slow statement threshold.
func (d *StatsDriver) SlowThreshold() time.Duration {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.slowThreshold
}

// SetSlowThreshold updates the slow statement threshold.
func (d *StatsDriver) SetSlowThreshold(threshold time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.slowThreshold = threshold
}

// Execute runs a statement and records statistics.
func (d *StatsDriver) Execute(ctx context.Context, query string) (dialect.Result, error) {
	start := time.Now()
	res, err := d.Driver.Execute(ctx, query)
	d.record(ctx, query, start, err, res != nil)
	return res, err
}

// ApplyLimit rewrites a query for paging and counts the outcome.
func (d *StatsDriver) ApplyLimit(query string, order dialect.OrderSpec, limit, offset int) (string, error) {
	rewritten, err := d.Driver.ApplyLimit(query, order, limit, offset)
	switch {
	case tabula.IsUnsupportedPaging(err):
		d.stats.RejectedPages.Add(1)
	case err == nil && rewritten != query:
		d.stats.Pages.Add(1)
	}
	return rewritten, err
}

// Begin starts a transaction and counts it.
func (d *StatsDriver) Begin(ctx context.Context, savepoint string) error {
	if err := d.Driver.Begin(ctx, savepoint); err != nil {
		return err
	}
	d.stats.Transactions.Add(1)
	return nil
}

// Rollback rolls back the transaction and counts it.
func (d *StatsDriver) Rollback(ctx context.Context, savepoint string) error {
	if err := d.Driver.Rollback(ctx, savepoint); err != nil {
		return err
	}
	d.stats.Rollbacks.Add(1)
	return nil
}

func (d *StatsDriver) record(ctx context.Context, query string, start time.Time, err error, isQuery bool) {
	duration := time.Since(start)
	if isQuery {
		d.stats.TotalQueries.Add(1)
	} else {
		d.stats.TotalExecs.Add(1)
	}
	d.stats.TotalDuration.Add(int64(duration))

	if err != nil {
		d.stats.Errors.Add(1)
	}

	d.mu.RLock()
	threshold := d.slowThreshold
	hook := d.slowHook
	d.mu.RUnlock()

	if duration > threshold {
		d.stats.SlowQueries.Add(1)
		if hook != nil {
			hook(ctx, query, duration)
		}
	}
}

// DebugDriver wraps a dialect.Driver with debug logging.
type DebugDriver struct {
	dialect.Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with debug logging.
//
// Example:
//
//	debugDriver := sql.NewDebugDriver(drv, sql.DebugWithLog(func(ctx context.Context, v ...any) {
//	    log.Println(v...)
//	}))
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs a statement and logs it.
func (d *DebugDriver) Execute(ctx context.Context, query string) (dialect.Result, error) {
	d.log(ctx, fmt.Sprintf("execute: %s", query))
	return d.Driver.Execute(ctx, query)
}

// ApplyLimit rewrites a query and logs the result.
func (d *DebugDriver) ApplyLimit(query string, order dialect.OrderSpec, limit, offset int) (string, error) {
	rewritten, err := d.Driver.ApplyLimit(query, order, limit, offset)
	if err != nil {
		d.log(context.Background(), fmt.Sprintf("limit %d offset %d rejected: %v", limit, offset, err))
		return "", err
	}
	d.log(context.Background(), fmt.Sprintf("limit %d offset %d: %s", limit, offset, rewritten))
	return rewritten, nil
}

// Begin starts a transaction and logs it.
func (d *DebugDriver) Begin(ctx context.Context, savepoint string) error {
	d.log(ctx, "begin transaction")
	return d.Driver.Begin(ctx, savepoint)
}

// Commit commits the transaction and logs it.
func (d *DebugDriver) Commit(ctx context.Context, savepoint string) error {
	d.log(ctx, "commit transaction")
	return d.Driver.Commit(ctx, savepoint)
}

// Rollback rolls back the transaction and logs it.
func (d *DebugDriver) Rollback(ctx context.Context, savepoint string) error {
	d.log(ctx, "rollback transaction")
	return d.Driver.Rollback(ctx, savepoint)
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*StatsDriver)(nil)
	_ dialect.Driver = (*DebugDriver)(nil)
)

// ConnectWithStats connects the dialect named by cfg.Driver with statistics
// collection enabled.
//
// Example:
//
//	drv, stats, err := sql.ConnectWithStats(ctx, cfg,
//	    sql.WithSlowThreshold(100*time.Millisecond),
//	    sql.WithSlowQueryLog(),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer drv.Disconnect()
func ConnectWithStats(ctx context.Context, cfg *dialect.Config, opts ...StatsOption) (*StatsDriver, *QueryStats, error) {
	drv, err := dialect.Connect(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	statsDriver := NewStatsDriver(drv, opts...)
	return statsDriver, statsDriver.QueryStats(), nil
}
