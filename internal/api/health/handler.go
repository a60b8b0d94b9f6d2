package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"

	redisadapter "hermes/internal/adapters/redis"
	"hermes/pkg/logger"
)

// Handler provides health check endpoints
type Handler struct {
	log         *logger.Logger
	postgres    *sqlx.DB
	redis       *redisadapter.Client
	startTime   time.Time
	serviceName string
	version     string
}

// New creates a new health check handler. postgres and redis may be nil
// when the deployment runs without them.
func New(log *logger.Logger, postgres *sqlx.DB, redis *redisadapter.Client, serviceName, version string) *Handler {
	return &Handler{
		log:         log,
		postgres:    postgres,
		redis:       redis,
		startTime:   time.Now(),
		serviceName: serviceName,
		version:     version,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string                     `json:"status"` // "healthy", "degraded"
	Service   string                     `json:"service"`
	Version   string                     `json:"version"`
	Uptime    string                     `json:"uptime"`
	Timestamp string                     `json:"timestamp"`
	Checks    map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents health of a single component
type ComponentHealth struct {
	Status       string `json:"status"`
	ResponseTime string `json:"response_time,omitempty"`
	Error        string `json:"error,omitempty"`
}

// HandleLiveness returns 200 OK if the process is running.
func (h *Handler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
}

// HandleReadiness checks dependencies before accepting traffic.
func (h *Handler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, checks := h.runChecks(ctx)

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"checks": checks,
	})
}

// HandleHealth reports full service health with per-dependency detail.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status, checks := h.runChecks(ctx)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(HealthStatus{
		Status:    status,
		Service:   h.serviceName,
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

func (h *Handler) runChecks(ctx context.Context) (string, map[string]ComponentHealth) {
	checks := make(map[string]ComponentHealth)
	status := "healthy"

	if h.postgres != nil {
		check := h.checkPostgres(ctx)
		checks["postgres"] = check
		if check.Status != "healthy" {
			status = "degraded"
		}
	}

	if h.redis != nil {
		check := h.checkRedis(ctx)
		checks["redis"] = check
		if check.Status != "healthy" {
			status = "degraded"
		}
	}

	return status, checks
}

func (h *Handler) checkPostgres(ctx context.Context) ComponentHealth {
	started := time.Now()
	if err := h.postgres.PingContext(ctx); err != nil {
		h.log.Warnw("postgres health check failed", "error", err)
		return ComponentHealth{Status: "unhealthy", Error: err.Error()}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: time.Since(started).String()}
}

func (h *Handler) checkRedis(ctx context.Context) ComponentHealth {
	started := time.Now()
	if err := h.redis.Health(ctx); err != nil {
		h.log.Warnw("redis health check failed", "error", err)
		return ComponentHealth{Status: "unhealthy", Error: err.Error()}
	}
	return ComponentHealth{Status: "healthy", ResponseTime: time.Since(started).String()}
}
