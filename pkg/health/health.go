// Package health aggregates readiness and liveness probes for the report
// server.
package health

import (
	"time"
)

// NewChecker creates a Checker with no probes registered.
func NewChecker() *Checker {
	return &Checker{
		started:     time.Now(),
		readyChecks: make(map[string]CheckFunc),
		liveChecks:  make(map[string]CheckFunc),
	}
}

// RegisterReadinessCheck registers a probe that must pass before the server
// accepts report queries.
func (c *Checker) RegisterReadinessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readyChecks[name] = check
}

// RegisterLivenessCheck registers a probe that reports whether the process
// should be restarted.
func (c *Checker) RegisterLivenessCheck(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.liveChecks[name] = check
}

// CheckReadiness runs the readiness probes.
func (c *Checker) CheckReadiness() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.performChecks(c.readyChecks)
}

// CheckLiveness runs the liveness probes.
func (c *Checker) CheckLiveness() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.performChecks(c.liveChecks)
}

// Check runs every probe. A name registered in both sets is run once, as
// its readiness probe.
func (c *Checker) Check() Response {
	c.mu.RLock()
	defer c.mu.RUnlock()

	all := make(map[string]CheckFunc, len(c.readyChecks)+len(c.liveChecks))
	for name, fn := range c.liveChecks {
		all[name] = fn
	}
	for name, fn := range c.readyChecks {
		all[name] = fn
	}
	return c.performChecks(all)
}

func (c *Checker) performChecks(checks map[string]CheckFunc) Response {
	response := Response{
		Status:    StatusHealthy,
		Timestamp: time.Now(),
		Checks:    make(map[string]Check, len(checks)),
		Uptime:    time.Since(c.started),
	}

	for name, checkFunc := range checks {
		start := time.Now()
		check := checkFunc()
		check.Duration = time.Since(start)
		check.LastChecked = start
		if check.Name == "" {
			check.Name = name
		}
		response.Checks[name] = check

		// worst status wins
		switch {
		case check.Status == StatusUnhealthy:
			response.Status = StatusUnhealthy
		case check.Status == StatusDegraded && response.Status != StatusUnhealthy:
			response.Status = StatusDegraded
		}
	}

	return response
}
