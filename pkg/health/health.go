package health

import (
	"context"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/uditmishra03/carthub/pkg/httputil"
)

// DefaultTimeout bounds a full readiness probe.
const DefaultTimeout = 3 * time.Second

// Checker reports whether a dependency is reachable.
type Checker func(ctx context.Context) error

// Status represents the health status of a component.
type Status string

const (
	StatusUp       Status = "up"
	StatusDown     Status = "down"
	StatusDegraded Status = "degraded"
)

// Response is the JSON body of both probes.
type Response struct {
	Status    Status                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]CheckResult `json:"checks,omitempty"`
}

// CheckResult is the result of a single dependency check.
type CheckResult struct {
	Status   Status `json:"status"`
	Optional bool   `json:"optional,omitempty"`
}

type check struct {
	name     string
	fn       Checker
	optional bool
}

// Handler serves liveness and readiness probes.
type Handler struct {
	mu      sync.RWMutex
	checks  []check
	timeout time.Duration
	logger  *slog.Logger
}

// NewHandler creates a health handler. Failed checks are logged to logger;
// the response only carries their status.
func NewHandler(logger *slog.Logger) *Handler {
	return &Handler{timeout: DefaultTimeout, logger: logger}
}

// Register adds a dependency the service cannot serve requests without.
func (h *Handler) Register(name string, fn Checker) {
	h.add(check{name: name, fn: fn})
}

// RegisterOptional adds a dependency whose failure degrades the service but
// does not make it unready.
func (h *Handler) RegisterOptional(name string, fn Checker) {
	h.add(check{name: name, fn: fn, optional: true})
}

func (h *Handler) add(c check) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks = append(h.checks, c)
	sort.Slice(h.checks, func(i, j int) bool { return h.checks[i].name < h.checks[j].name })
}

// LivenessHandler reports 200 while the process is serving.
func (h *Handler) LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, Response{
			Status:    StatusUp,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadinessHandler runs every registered check. Any failing required check
// yields 503; failing optional checks yield 200 with status "degraded".
func (h *Handler) ReadinessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := h.Check(r.Context())

		status := http.StatusOK
		if resp.Status == StatusDown {
			status = http.StatusServiceUnavailable
		}
		httputil.WriteJSON(w, status, resp)
	}
}

// Check runs all checks and aggregates their results.
func (h *Handler) Check(ctx context.Context) Response {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	h.mu.RLock()
	checks := make([]check, len(h.checks))
	copy(checks, h.checks)
	h.mu.RUnlock()

	resp := Response{
		Status:    StatusUp,
		Timestamp: time.Now().UTC(),
		Checks:    make(map[string]CheckResult, len(checks)),
	}

	for _, c := range checks {
		result := CheckResult{Status: StatusUp, Optional: c.optional}
		if err := c.fn(ctx); err != nil {
			result.Status = StatusDown
			h.logger.WarnContext(ctx, "health check failed",
				slog.String("check", c.name),
				slog.Bool("optional", c.optional),
				slog.String("error", err.Error()),
			)
			switch {
			case !c.optional:
				resp.Status = StatusDown
			case resp.Status == StatusUp:
				resp.Status = StatusDegraded
			}
		}
		resp.Checks[c.name] = result
	}

	return resp
}
