package health

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixed(status Status) CheckFunc {
	return func() Check { return Check{Status: status} }
}

func TestNewChecker(t *testing.T) {
	c := NewChecker()
	resp := c.Check()
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Empty(t, resp.Checks)
	assert.GreaterOrEqual(t, resp.Uptime, time.Duration(0))
}

func TestCheckStatusAggregation(t *testing.T) {
	tests := []struct {
		name   string
		checks []Status
		want   Status
	}{
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewChecker()
			for i, s := range tt.checks {
				c.RegisterLivenessCheck(string(rune('a'+i)), fixed(s))
			}
			assert.Equal(t, tt.want, c.CheckLiveness().Status)
		})
	}
}

func TestCheck_FillsNameAndTiming(t *testing.T) {
	c := NewChecker()
	c.RegisterReadinessCheck("probe", fixed(StatusHealthy))

	before := time.Now()
	resp := c.CheckReadiness()
	check := resp.Checks["probe"]
	assert.Equal(t, "probe", check.Name)
	assert.False(t, check.LastChecked.Before(before))
	assert.GreaterOrEqual(t, check.Duration, time.Duration(0))
}

func TestCheck_CombinesSets(t *testing.T) {
	c := NewChecker()
	c.RegisterReadinessCheck("report", fixed(StatusUnhealthy))
	c.RegisterLivenessCheck("memory", fixed(StatusHealthy))

	resp := c.Check()
	assert.Len(t, resp.Checks, 2)
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Equal(t, StatusHealthy, c.CheckLiveness().Status)
}

func TestReportCheck(t *testing.T) {
	var runID string
	analyzedAt := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	check := ReportCheck(func() (string, time.Time) { return runID, analyzedAt })

	got := check()
	assert.Equal(t, StatusUnhealthy, got.Status)
	assert.Equal(t, "Analysis in progress", got.Message)

	runID = "run-1"
	got = check()
	assert.Equal(t, StatusHealthy, got.Status)
	assert.Equal(t, "run-1", got.Details["run_id"])
	assert.Equal(t, analyzedAt, got.Details["analyzed_at"])
}

func TestShutdownCheck(t *testing.T) {
	draining := false
	check := ShutdownCheck(func() bool { return draining })
	assert.Equal(t, StatusHealthy, check().Status)
	draining = true
	assert.Equal(t, StatusUnhealthy, check().Status)
}

func TestMemoryCheck(t *testing.T) {
	tests := []struct {
		name       string
		alloc, sys uint64
		want       Status
	}{
		{"normal", 50, 100, StatusHealthy},
		{"high", 95, 100, StatusDegraded},
		{"no sys reading", 10, 0, StatusHealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := MemoryCheck(func() (uint64, uint64) { return tt.alloc, tt.sys })()
			assert.Equal(t, tt.want, check.Status)
			assert.Equal(t, tt.alloc, check.Details["alloc_bytes"])
		})
	}
}

func TestRuntimeMemory(t *testing.T) {
	alloc, sys := RuntimeMemory()
	assert.Positive(t, alloc)
	assert.GreaterOrEqual(t, sys, alloc)
}

func TestHandlers(t *testing.T) {
	c := NewChecker()
	c.RegisterReadinessCheck("report", fixed(StatusDegraded))
	c.RegisterLivenessCheck("memory", fixed(StatusHealthy))

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
		status  Status
	}{
		{"combined degraded is ok", c.HTTPHandler(), http.StatusOK, StatusDegraded},
		{"readiness is binary", c.ReadinessHandler(), http.StatusServiceUnavailable, StatusDegraded},
		{"liveness healthy", c.LivenessHandler(), http.StatusOK, StatusHealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
		})
	}
}

func TestConcurrentRegistration(t *testing.T) {
	c := NewChecker()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			c.RegisterLivenessCheck(string(rune('a'+i)), fixed(StatusHealthy))
		}(i)
		go func() {
			defer wg.Done()
			_ = c.Check()
		}()
	}
	wg.Wait()
	assert.Len(t, c.CheckLiveness().Checks, 20)
}
