package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/auth/login", "POST", 200, 20*time.Millisecond)
	m.RecordRequest("/api/auth/login", "POST", 200, 40*time.Millisecond)
	m.RecordError("/api/auth/login", "POST", "INVALID_CREDENTIAL")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/auth/login|POST|200"])
	assert.Equal(t, int64(30), snap.AvgLatencyMilli["/api/auth/login|POST|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/auth/login|POST|INVALID_CREDENTIAL"])

	// Snapshot is detached from later writes.
	m.RecordError("/api/auth/login", "POST", "INVALID_CREDENTIAL")
	assert.Equal(t, int64(1), snap.Errors["/api/auth/login|POST|INVALID_CREDENTIAL"])
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
		assert.Empty(t, m.Snapshot().Requests)
	})
}
