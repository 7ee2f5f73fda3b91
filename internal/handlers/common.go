package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Health check endpoint
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

// Ready check endpoint
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	checks := map[string]bool{
		"postgres": h.pg != nil && h.pg.Ping(ctx) == nil,
		"redis":    h.redis != nil && h.redis.Ping(ctx).Err() == nil,
	}

	allHealthy := true
	for _, ok := range checks {
		if !ok {
			allHealthy = false
			break
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if !allHealthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(map[string]interface{}{
		"ready":  allHealthy,
		"checks": checks,
	})
}

func (h *Handler) jsonResponse(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (h *Handler) errorResponse(w http.ResponseWriter, status int, message string) {
	h.jsonResponse(w, status, map[string]string{"error": message})
}

// cachedJSON serves a hot read endpoint through the redis response cache. A
// cache failure falls through to the fetch; the cache is an optimization,
// never a dependency.
func (h *Handler) cachedJSON(w http.ResponseWriter, r *http.Request, key string, fetch func(ctx context.Context) (interface{}, error)) {
	ctx := r.Context()

	if h.redis != nil {
		if raw, err := h.redis.Get(ctx, key).Bytes(); err == nil {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(raw)
			return
		}
	}

	data, err := fetch(ctx)
	if err != nil {
		h.logger.Errorw("Failed to build report", "error", err, "cache_key", key)
		h.errorResponse(w, http.StatusInternalServerError, "Failed to build report")
		return
	}

	raw, err := json.Marshal(data)
	if err != nil {
		h.errorResponse(w, http.StatusInternalServerError, "Failed to encode report")
		return
	}
	if h.redis != nil && h.cacheTTL > 0 {
		if err := h.redis.Set(ctx, key, raw, h.cacheTTL).Err(); err != nil {
			h.logger.Warnw("Failed to cache report", "error", err, "cache_key", key)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Cache", "MISS")
	w.Write(raw)
}
