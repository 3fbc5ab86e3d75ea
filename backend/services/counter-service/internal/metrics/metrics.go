package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus counters for the counter service. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	sessionsStarted *prometheus.CounterVec
	sessionsStopped *prometheus.CounterVec
	revenue         *prometheus.CounterVec
	bulkRecords     *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		sessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bclub_billiard_sessions_started_total",
			Help: "Billiard sessions started, by table.",
		}, []string{"table"}),
		sessionsStopped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bclub_billiard_sessions_stopped_total",
			Help: "Billiard sessions stopped or recorded manually, by table.",
		}, []string{"table"}),
		revenue: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bclub_revenue_millimes_total",
			Help: "Billed amounts in millimes, by category.",
		}, []string{"category"}),
		bulkRecords: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bclub_ledger_bulk_records_total",
			Help: "Records touched by bulk ledger operations, by operation and category.",
		}, []string{"operation", "category"}),
	}

	for _, c := range []prometheus.Collector{m.sessionsStarted, m.sessionsStopped, m.revenue, m.bulkRecords} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// SessionStarted counts a started billiard session.
func (m *Metrics) SessionStarted(table string) {
	if m == nil {
		return
	}
	m.sessionsStarted.WithLabelValues(table).Inc()
}

// SessionStopped counts a finished billiard session and its price.
func (m *Metrics) SessionStopped(table string, price int64) {
	if m == nil {
		return
	}
	m.sessionsStopped.WithLabelValues(table).Inc()
	m.Revenue("billiard", price)
}

// Revenue adds a billed amount to a category.
func (m *Metrics) Revenue(category string, amount int64) {
	if m == nil || amount <= 0 {
		return
	}
	m.revenue.WithLabelValues(category).Add(float64(amount))
}

// BulkRecords counts rows touched by a bulk ledger operation.
func (m *Metrics) BulkRecords(operation, category string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bulkRecords.WithLabelValues(operation, category).Add(float64(n))
}
