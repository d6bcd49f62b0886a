package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/logger"
)

type addLinkRequest struct {
	URL  string   `json:"url"`
	Tags []string `json:"tags,omitempty"`
}

type updateLinkRequest struct {
	Memo *string   `json:"memo,omitempty"`
	Tags *[]string `json:"tags,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// ListLinks returns the active reading list from the cache mirror.
func ListLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := d.Links.State()
		if state.Err != nil {
			// Stale lists are still served; the error rides along in
			// a header so clients can show a sync warning.
			w.Header().Set("X-Linkd-Sync-Error", "true")
		}
		writeJSON(w, http.StatusOK, state.Links)
	}
}

// ListArchivedLinks returns the archive from the cache mirror.
func ListArchivedLinks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := d.Links.State()
		if state.Err != nil {
			w.Header().Set("X-Linkd-Sync-Error", "true")
		}
		writeJSON(w, http.StatusOK, state.ArchivedLinks)
	}
}

// ListLinksByTag queries the store for links carrying a tag.
func ListLinksByTag(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := chi.URLParam(r, "tag")
		links, err := d.Links.ByTag(r.Context(), tag)
		if err != nil {
			d.Logger.Error("tag query failed",
				logger.String("tag", tag),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to query links")
			return
		}
		writeJSON(w, http.StatusOK, links)
	}
}

// AddLink saves a submitted URL through the full add flow.
func AddLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req addLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		link, err := d.Links.Add(r.Context(), req.URL, req.Tags)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidURL) {
				writeError(w, http.StatusBadRequest, "invalid url")
				return
			}
			d.Logger.Error("failed to save link",
				logger.String("url", req.URL),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to save link")
			return
		}

		writeJSON(w, http.StatusCreated, link)
	}
}

// UpdateLink patches a link's memo and/or tags.
func UpdateLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req updateLinkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Memo == nil && req.Tags == nil {
			writeError(w, http.StatusBadRequest, "nothing to update")
			return
		}

		if req.Memo != nil {
			if err := d.Links.UpdateMemo(r.Context(), id, *req.Memo); err != nil {
				respondUpdateError(w, d, id, err)
				return
			}
		}
		if req.Tags != nil {
			if err := d.Links.UpdateTags(r.Context(), id, *req.Tags); err != nil {
				respondUpdateError(w, d, id, err)
				return
			}
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func respondUpdateError(w http.ResponseWriter, d deps.Deps, id string, err error) {
	if errors.Is(err, domain.ErrNotFound) {
		writeError(w, http.StatusNotFound, "link not found")
		return
	}
	d.Logger.Error("failed to update link",
		logger.String("id", id),
		logger.Error(err))
	writeError(w, http.StatusInternalServerError, "failed to update link")
}

// ArchiveLink moves a link to the archive.
func ArchiveLink(d deps.Deps) http.HandlerFunc {
	return setArchivedHandler(d, true)
}

// UnarchiveLink moves a link back to the active list.
func UnarchiveLink(d deps.Deps) http.HandlerFunc {
	return setArchivedHandler(d, false)
}

func setArchivedHandler(d deps.Deps, archived bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var err error
		if archived {
			err = d.Links.Archive(r.Context(), id)
		} else {
			err = d.Links.Unarchive(r.Context(), id)
		}
		if err != nil {
			d.Logger.Error("failed to toggle archive",
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to update link")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// DeleteLink removes a link. Missing IDs still return 204.
func DeleteLink(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Links.Delete(r.Context(), id); err != nil {
			d.Logger.Error("failed to delete link",
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "failed to delete link")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
