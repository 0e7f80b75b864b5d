package httpx

import (
	"context"
	"net/http"
	"sort"
	"time"
)

// readinessTimeout bounds the whole readiness probe.
const readinessTimeout = 3 * time.Second

// HealthChecker is satisfied by any infrastructure dependency that exposes
// a Ping method (mongo client, database pool, RedisClient, EventBus all qualify).
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks maps a dependency name to its checker. Nil checkers are
// reported as "disabled" and do not affect the overall status.
type HealthChecks map[string]HealthChecker

type healthResponse struct {
	Status string        `json:"status"`
	Checks []checkResult `json:"checks,omitempty"`
}

type checkResult struct {
	Name     string `json:"name"`
	Status   string `json:"status"`
	Error    string `json:"error,omitempty"`
	Duration string `json:"duration"`
}

// LivenessHandler reports that the process is up. It never touches dependencies.
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		JSON(w, http.StatusOK, healthResponse{Status: "ok"})
	}
}

// ReadinessHandler returns an http.HandlerFunc that probes all registered
// HealthCheckers and reports 503 with status "degraded" if any of them fail.
func ReadinessHandler(checks HealthChecks) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		resp := healthResponse{Status: "ok", Checks: make([]checkResult, 0, len(names))}
		for _, name := range names {
			res := checkResult{Name: name, Status: "ok"}
			start := time.Now()
			switch c := checks[name]; {
			case c == nil:
				res.Status = "disabled"
			default:
				if err := c.Ping(ctx); err != nil {
					resp.Status = "degraded"
					res.Status = "unreachable"
					res.Error = err.Error()
				}
			}
			res.Duration = time.Since(start).String()
			resp.Checks = append(resp.Checks, res)
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}
