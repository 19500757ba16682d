package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates request counts and latency per AI operation.
type Metrics struct {
	mu sync.Mutex

	requestTotal  atomic.Int64
	requestFailed atomic.Int64

	operations map[string]*OperationMetrics
}

// OperationMetrics holds the counters of one operation.
type OperationMetrics struct {
	executionCount atomic.Int64
	totalDuration  atomic.Int64 // milliseconds
	errorCount     atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{operations: make(map[string]*OperationMetrics)}
}

var globalMetrics = NewMetrics()

// GlobalMetrics returns the process wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// Record counts one finished request of operation.
func (m *Metrics) Record(operation string, duration time.Duration, failed bool) {
	m.requestTotal.Add(1)
	om := m.operation(operation)
	om.executionCount.Add(1)
	om.totalDuration.Add(duration.Milliseconds())
	if failed {
		m.requestFailed.Add(1)
		om.errorCount.Add(1)
	}
}

func (m *Metrics) operation(name string) *OperationMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	om, ok := m.operations[name]
	if !ok {
		om = &OperationMetrics{}
		m.operations[name] = om
	}
	return om
}

// Reset clears all counters.
func (m *Metrics) Reset() {
	m.requestTotal.Store(0)
	m.requestFailed.Store(0)

	m.mu.Lock()
	m.operations = make(map[string]*OperationMetrics)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the counters.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	operations := make(map[string]*OperationSnapshot, len(m.operations))
	for name, om := range m.operations {
		count := om.executionCount.Load()
		total := om.totalDuration.Load()
		var avg int64
		if count > 0 {
			avg = total / count
		}
		operations[name] = &OperationSnapshot{
			ExecutionCount:  count,
			ErrorCount:      om.errorCount.Load(),
			AverageDuration: avg,
		}
	}

	return &MetricsSnapshot{
		RequestTotal:  m.requestTotal.Load(),
		RequestFailed: m.requestFailed.Load(),
		Operations:    operations,
	}
}

type MetricsSnapshot struct {
	RequestTotal  int64                         `json:"requestTotal"`
	RequestFailed int64                         `json:"requestFailed"`
	Operations    map[string]*OperationSnapshot `json:"operations"`
}

type OperationSnapshot struct {
	ExecutionCount int64 `json:"executionCount"`
	ErrorCount     int64 `json:"errorCount"`
	// AverageDuration in milliseconds.
	AverageDuration int64 `json:"averageDurationMs"`
}

// SuccessRate returns the success rate as a percentage (0-100).
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.RequestTotal == 0 {
		return 100.0
	}
	return float64(s.RequestTotal-s.RequestFailed) / float64(s.RequestTotal) * 100.0
}
