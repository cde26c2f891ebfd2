package observability

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/profileforms-backend/internal/platform/logger"
)

type Metrics struct {
	apiRequests *CounterVec
	apiLatency  *HistogramVec
	apiInflight *Gauge
	apiReqTotal *Counter
	apiReqError *Counter

	aggregateOps       *CounterVec
	aggregateLatency   *HistogramVec
	aggregateConflicts *CounterVec
	aggregateRetries   *CounterVec

	sectionSaves        *CounterVec
	validationFailures  *CounterVec
	migrations          *CounterVec
	usersRecanonicalize *Counter
	eventPublishFailed  *CounterVec

	dbStats   *GaugeVec
	redisUp   *Gauge
	redisPing *Gauge

	scrapeInterval time.Duration
}

var (
	initOnce sync.Once
	instance *Metrics
)

// Current returns the process-wide collector, or nil when metrics are off.
func Current() *Metrics {
	return instance
}

// Init builds the process-wide collector once. It returns nil when disabled;
// every Metrics method is safe on a nil receiver.
func Init(enabled bool, log *logger.Logger) *Metrics {
	if !enabled {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("metrics enabled")
		}
	})
	return instance
}

func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("pf_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"pf_api_request_duration_seconds",
			"API request latency in seconds by method/route/status.",
			[]string{"method", "route", "status"},
			[]float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		),
		apiInflight: NewGauge("pf_api_inflight_requests", "In-flight API requests."),
		apiReqTotal: NewCounter("pf_api_requests_total_all", "Total API requests (all)."),
		apiReqError: NewCounter("pf_api_requests_error_total", "Total API requests answered with 5xx."),

		aggregateOps: NewCounterVec("pf_aggregate_operations_total", "Aggregate writes by operation/status.", []string{"operation", "status"}),
		aggregateLatency: NewHistogramVec(
			"pf_aggregate_operation_duration_seconds",
			"Aggregate write latency in seconds by operation/status.",
			[]string{"operation", "status"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2},
		),
		aggregateConflicts: NewCounterVec("pf_aggregate_conflicts_total", "Aggregate version conflicts by operation.", []string{"operation"}),
		aggregateRetries:   NewCounterVec("pf_aggregate_retries_total", "Retryable aggregate failures by operation.", []string{"operation"}),

		sectionSaves:        NewCounterVec("pf_section_saves_total", "Section answer saves by status.", []string{"status"}),
		validationFailures:  NewCounterVec("pf_answer_validation_failures_total", "Rejected answers by reason.", []string{"reason"}),
		migrations:          NewCounterVec("pf_schema_migrations_total", "Profile type migrations by status.", []string{"status"}),
		usersRecanonicalize: NewCounter("pf_users_recanonicalized_total", "Users moved to a renamed profile type id."),
		eventPublishFailed:  NewCounterVec("pf_event_publish_failures_total", "Events that could not be published by event.", []string{"event"}),

		dbStats:   NewGaugeVec("pf_db_pool_stats", "Database connection pool stats.", []string{"stat"}),
		redisUp:   NewGauge("pf_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing: NewGauge("pf_redis_ping_seconds", "Redis ping latency in seconds."),

		scrapeInterval: 10 * time.Second,
	}
}

// SetScrapeInterval changes how often the pool and redis collectors sample.
func (m *Metrics) SetScrapeInterval(d time.Duration) {
	if m == nil || d <= 0 {
		return
	}
	m.scrapeInterval = d
}

func (m *Metrics) StartServer(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           http.HandlerFunc(m.WriteHTTP),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = srv.Shutdown(shutdownCtx)
		cancel()
	}()
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if log != nil {
				log.Error("metrics server failed", "error", err, "addr", addr)
			}
		}
	}()
}

func (m *Metrics) WriteHTTP(w http.ResponseWriter, r *http.Request) {
	if m == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	_ = m.WritePrometheus(w)
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	for _, c := range m.collectors() {
		if err := c.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) collectors() []collector {
	return []collector{
		m.apiRequests, m.apiLatency, m.apiInflight, m.apiReqTotal, m.apiReqError,
		m.aggregateOps, m.aggregateLatency, m.aggregateConflicts, m.aggregateRetries,
		m.sectionSaves, m.validationFailures, m.migrations, m.usersRecanonicalize, m.eventPublishFailed,
		m.dbStats, m.redisUp, m.redisPing,
	}
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route, status)
	m.apiReqTotal.Inc()
	if isServerErrorStatus(status) {
		m.apiReqError.Inc()
	}
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAggregateOperation(operation, status string, dur time.Duration) {
	if m == nil {
		return
	}
	operation = orUnknown(operation)
	status = orUnknown(status)
	m.aggregateOps.Inc(operation, status)
	m.aggregateLatency.Observe(dur.Seconds(), operation, status)
}

func (m *Metrics) IncAggregateConflict(operation string) {
	if m == nil {
		return
	}
	m.aggregateConflicts.Inc(orUnknown(operation))
}

func (m *Metrics) IncAggregateRetry(operation string) {
	if m == nil {
		return
	}
	m.aggregateRetries.Inc(orUnknown(operation))
}

// IncSectionSave counts SaveAnswers outcomes: "saved", "invalid" or "error".
func (m *Metrics) IncSectionSave(status string) {
	if m == nil {
		return
	}
	m.sectionSaves.Inc(orUnknown(status))
}

func (m *Metrics) IncAnswerValidationFailure(reason string) {
	if m == nil {
		return
	}
	m.validationFailures.Inc(orUnknown(reason))
}

func (m *Metrics) ObserveMigration(status string, usersMoved int64) {
	if m == nil {
		return
	}
	m.migrations.Inc(orUnknown(status))
	if usersMoved > 0 {
		m.usersRecanonicalize.Add(float64(usersMoved))
	}
}

func (m *Metrics) IncEventPublishFailure(event string) {
	if m == nil {
		return
	}
	m.eventPublishFailed.Inc(orUnknown(event))
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := m.scrapeInterval
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sampleDB(log, db)
			}
		}
	}()
}

func (m *Metrics) sampleDB(log *logger.Logger, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		if log != nil {
			log.Warn("metrics: db stats unavailable", "error", err)
		}
		return
	}
	stats := sqlDB.Stats()
	m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
	m.dbStats.Set(float64(stats.InUse), "in_use")
	m.dbStats.Set(float64(stats.Idle), "idle")
	m.dbStats.Set(float64(stats.WaitCount), "wait_count")
	m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
	m.dbStats.Set(float64(stats.MaxOpenConnections), "max_open_connections")
}

func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, addr string) {
	if m == nil {
		return
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return
	}
	interval := m.scrapeInterval
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				_ = rdb.Close()
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}

func orUnknown(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return s
}

func isServerErrorStatus(status string) bool {
	status = strings.TrimSpace(status)
	if len(status) < 3 {
		return false
	}
	return status[0] == '5'
}
