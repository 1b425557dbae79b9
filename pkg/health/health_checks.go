package health

import (
	"runtime"
	"time"
)

// ReportCheck reports unhealthy until an analysis has been published.
// current returns the run ID of the published report and when it was
// produced, or an empty ID while the first analysis is still running.
func ReportCheck(current func() (runID string, analyzedAt time.Time)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "report",
			Details: make(map[string]any),
		}

		runID, analyzedAt := current()
		if runID == "" {
			check.Status = StatusUnhealthy
			check.Message = "Analysis in progress"
			return check
		}

		check.Details["run_id"] = runID
		check.Details["analyzed_at"] = analyzedAt
		check.Status = StatusHealthy
		check.Message = "Report available"
		return check
	}
}

// ShutdownCheck reports unhealthy once the server has started draining.
func ShutdownCheck(isShuttingDown func() bool) CheckFunc {
	return func() Check {
		check := Check{Name: "shutdown"}
		if isShuttingDown() {
			check.Status = StatusUnhealthy
			check.Message = "Shutting down"
		} else {
			check.Status = StatusHealthy
			check.Message = "Serving"
		}
		return check
	}
}

// MemoryCheck reports degraded when more than 90% of the memory obtained
// from the OS is allocated to live heap objects.
func MemoryCheck(getUsage func() (alloc, sys uint64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    "memory",
			Details: make(map[string]any),
		}

		alloc, sys := getUsage()
		check.Details["alloc_bytes"] = alloc
		check.Details["sys_bytes"] = sys

		if sys > 0 && float64(alloc)/float64(sys)*100 > 90 {
			check.Status = StatusDegraded
			check.Message = "High memory usage"
		} else {
			check.Status = StatusHealthy
			check.Message = "Memory usage normal"
		}
		return check
	}
}

// RuntimeMemory reads heap usage from the Go runtime for MemoryCheck.
func RuntimeMemory() (alloc, sys uint64) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return m.Alloc, m.Sys
}
