package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/store"
)

type readyzResponse struct {
	Ready       bool   `json:"ready"`
	Store       string `json:"store"`
	CacheLoaded bool   `json:"cache_loaded"`
}

// Readyz reports readiness: the store answers pings and the cache
// has completed its first load.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		storeStatus := "ok"
		if p, ok := d.Store.(store.Pinger); ok {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := p.Ping(ctx); err != nil {
				storeStatus = "unreachable"
			}
		}

		loaded := d.CacheLoaded != nil && d.CacheLoaded()
		ready := storeStatus == "ok" && loaded

		w.Header().Set("Content-Type", "application/json")
		if !ready {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		_ = json.NewEncoder(w).Encode(readyzResponse{
			Ready:       ready,
			Store:       storeStatus,
			CacheLoaded: loaded,
		})
	}
}
