package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacknscroll/linkd/internal/cache"
	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/httpserver/deps"
	"github.com/stacknscroll/linkd/internal/httpserver/routes"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/preview"
	"github.com/stacknscroll/linkd/internal/service"
	badgerstore "github.com/stacknscroll/linkd/internal/store/badger"
)

const pageHTML = `<html><head>
<meta property="og:title" content="Why Goroutines Scale" />
<meta property="og:description" content="A long-form look at scheduler internals and what it costs to park a goroutine." />
<meta property="og:site_name" content="Gopher Weekly" />
<meta property="og:image" content="/cover.png" />
<title>fallback title</title>
</head><body><p>body</p></body></html>`

// newTestRouter wires the full HTTP surface over a real badger store
// and an httptest page server, so requests run the same path as
// production: normalize, fetch, extract, persist, mirror.
func newTestRouter(t *testing.T) (*chi.Mux, *httptest.Server) {
	t.Helper()
	log := logger.New("error", false)

	pages := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, pageHTML)
	}))
	t.Cleanup(pages.Close)

	repo, err := badgerstore.Open(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repo.Close()) })

	c := cache.New(repo, "user1", log)
	require.NoError(t, c.Load(context.Background()))

	extractor := preview.NewClient(preview.Options{Timeout: 5 * time.Second}, log)
	links := service.New(repo, c, extractor, "user1", log)

	d := deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		Version:       "test",
		Links:         links,
		Store:         repo,
		CacheLoaded:   c.Loaded,
		ReloadTrigger: make(chan struct{}, 1),
	}

	r := chi.NewRouter()
	routes.RegisterAll(r, d)
	return r, pages
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeLinks(t *testing.T, rec *httptest.ResponseRecorder) []*domain.Link {
	t.Helper()
	var links []*domain.Link
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&links))
	return links
}

func TestLinkLifecycleOverHTTP(t *testing.T) {
	router, pages := newTestRouter(t)

	// Save a link; the preview comes from the test page server.
	rec := doJSON(t, router, http.MethodPost, "/api/links", map[string]any{
		"url":  pages.URL + "/article",
		"tags": []string{"go", "runtime"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created domain.Link
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Why Goroutines Scale", created.Title)
	assert.Equal(t, "Gopher Weekly", created.SiteName)
	assert.Equal(t, pages.URL+"/cover.png", created.ImageURL)
	assert.Equal(t, []string{"go", "runtime"}, created.Tags)
	assert.Nil(t, created.Memo)

	// It shows up on the active list.
	rec = doJSON(t, router, http.MethodGet, "/api/links", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	active := decodeLinks(t, rec)
	require.Len(t, active, 1)
	assert.Equal(t, created.ID, active[0].ID)

	// Attach a memo.
	memo := "read before the talk"
	rec = doJSON(t, router, http.MethodPatch, "/api/links/"+created.ID, map[string]any{
		"memo": memo,
	})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/links", nil)
	annotated := decodeLinks(t, rec)
	require.Len(t, annotated, 1)
	require.NotNil(t, annotated[0].Memo)
	assert.Equal(t, memo, *annotated[0].Memo)

	// Archive it: gone from active, present in the archive.
	rec = doJSON(t, router, http.MethodPost, "/api/links/"+created.ID+"/archive", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/links", nil)
	assert.Empty(t, decodeLinks(t, rec))

	rec = doJSON(t, router, http.MethodGet, "/api/links/archived", nil)
	archived := decodeLinks(t, rec)
	require.Len(t, archived, 1)
	assert.True(t, archived[0].Archived)
	require.NotNil(t, archived[0].ArchivedAt)
	require.NotNil(t, archived[0].Memo)
	assert.Equal(t, memo, *archived[0].Memo)

	// Tag search spans the archive.
	rec = doJSON(t, router, http.MethodGet, "/api/links/tag/runtime", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decodeLinks(t, rec), 1)

	// Back to the reading list.
	rec = doJSON(t, router, http.MethodPost, "/api/links/"+created.ID+"/unarchive", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/links", nil)
	restored := decodeLinks(t, rec)
	require.Len(t, restored, 1)
	assert.False(t, restored[0].Archived)
	assert.Nil(t, restored[0].ArchivedAt)

	// Delete for good.
	rec = doJSON(t, router, http.MethodDelete, "/api/links/"+created.ID, nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/links", nil)
	assert.Empty(t, decodeLinks(t, rec))
	rec = doJSON(t, router, http.MethodGet, "/api/links/archived", nil)
	assert.Empty(t, decodeLinks(t, rec))
}

func TestShareEndpointSavesLink(t *testing.T) {
	router, pages := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/share?url="+pages.URL+"/shared", nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = doJSON(t, router, http.MethodGet, "/api/links", nil)
	saved := decodeLinks(t, rec)
	require.Len(t, saved, 1)
	assert.Equal(t, "Why Goroutines Scale", saved[0].Title)
}

func TestShareEndpointRejectsBadInput(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/share", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/share?url=%20", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddRejectsInvalidURL(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/links", map[string]any{"url": "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchUnknownLinkReturns404(t *testing.T) {
	router, _ := newTestRouter(t)

	memo := "nope"
	rec := doJSON(t, router, http.MethodPatch, "/api/links/does-not-exist", map[string]any{
		"memo": memo,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthAndReadiness(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/readyz", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var ready struct {
		Ready       bool   `json:"ready"`
		Store       string `json:"store"`
		CacheLoaded bool   `json:"cache_loaded"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&ready))
	assert.True(t, ready.Ready)
	assert.Equal(t, "ok", ready.Store)
	assert.True(t, ready.CacheLoaded)
}

func TestManualReloadTrigger(t *testing.T) {
	router, _ := newTestRouter(t)

	// Nothing drains the trigger channel here, so the first request
	// is accepted and the second reports a reload in flight.
	rec := doJSON(t, router, http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/reload", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}
