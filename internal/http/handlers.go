package http

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"
)

const readyTimeout = 5 * time.Second

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().
		Body(map[string]any{
			"status":    "ok",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"uptime":    uptime(s.appMetrics.started).String(),
		}).
		Write(w)
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.chat == nil {
		checks["chat"] = "not_configured"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["chat"] = "ok"
	}

	checks["backend"] = "ok"
	if s.ready != nil {
		if err := s.ready(ctx); err != nil {
			checks["backend"] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
		}
	}

	if s.cacheSize != nil {
		checks["snapshot_cache"] = map[string]any{
			"entries": s.cacheSize(),
			"status":  "ok",
		}
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.rateLimiter.ActiveClients(),
		"status":         "ok",
	}

	NewJSONResponse().
		Status(httpStatus).
		Body(map[string]any{
			"status":        status,
			"identity_mode": string(s.identity.Mode()),
			"timestamp":     time.Now().UTC().Format(time.RFC3339),
			"checks":        checks,
		}).
		Write(w)
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	securityMetrics := s.securityDetector.GetMetrics()
	rateLimitMetrics := s.rateLimiter.GetMetrics()
	traceMetrics := s.traceMiddleware.GetMetrics()

	cacheEntries := 0
	if s.cacheSize != nil {
		cacheEntries = s.cacheSize()
	}

	w.WriteHeader(http.StatusOK)

	writeMetric(w, "http_requests_total", "counter", "Total number of HTTP requests", traceMetrics.TotalRequests)
	writeMetric(w, "http_server_errors_total", "counter", "Responses with a 5xx status", traceMetrics.ServerErrors)
	writeMetric(w, "chat_replies_total", "counter", "Chat messages answered", atomic.LoadInt64(&s.appMetrics.chatReplies))
	writeMetric(w, "chat_rejected_total", "counter", "Chat requests rejected as invalid", atomic.LoadInt64(&s.appMetrics.chatRejected))
	writeMetric(w, "chat_failures_total", "counter", "Chat requests that failed internally", atomic.LoadInt64(&s.appMetrics.chatFailures))
	writeMetric(w, "snapshot_cache_entries", "gauge", "Current snapshot cache entries", int64(cacheEntries))
	writeMetric(w, "rate_limit_hits_total", "counter", "Total rate limit hits", rateLimitMetrics.TotalHits)
	writeMetric(w, "active_rate_limit_clients", "gauge", "Currently tracked rate limit clients", rateLimitMetrics.ClientCount)
	writeMetric(w, "suspicious_requests_total", "counter", "Total suspicious requests detected", securityMetrics.SuspiciousRequests)
	writeMetric(w, "uptime_seconds", "gauge", "Application uptime in seconds", int64(uptime(s.appMetrics.started).Seconds()))
}
