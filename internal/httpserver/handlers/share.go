package handlers

import (
	"errors"
	"net/http"

	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/logger"
)

// Share is the deep-link entry point: a share sheet hands over a raw
// URL as a query parameter and expects nothing back but success.
func Share(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := r.URL.Query().Get("url")
		if rawURL == "" {
			writeError(w, http.StatusBadRequest, "missing url parameter")
			return
		}

		if _, err := d.Links.Add(r.Context(), rawURL, nil); err != nil {
			if errors.Is(err, domain.ErrInvalidURL) {
				writeError(w, http.StatusBadRequest, "invalid url")
				return
			}
			d.Logger.Error("failed to save shared link",
				logger.String("url", rawURL),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save link")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
