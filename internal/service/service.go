// Package service wires the add-link flow together: normalize the
// raw URL, extract a preview, persist, mirror.
package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/stacknscroll/linkd/internal/cache"
	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/preview"
	"github.com/stacknscroll/linkd/internal/store"
)

// Extractor is the preview contract the service depends on. The
// concrete implementation lives in the preview package.
type Extractor interface {
	Extract(ctx context.Context, rawURL string) preview.Preview
}

// Links fronts every link operation for one owner.
type Links struct {
	repo      store.Repository
	cache     *cache.Cache
	extractor Extractor
	owner     string
	logger    logger.Logger
}

// New creates the link service.
func New(repo store.Repository, c *cache.Cache, ex Extractor, owner string, log logger.Logger) *Links {
	return &Links{
		repo:      repo,
		cache:     c,
		extractor: ex,
		owner:     owner,
		logger:    log,
	}
}

// Add saves a raw URL: validate, fetch a preview (degraded on fetch
// failure, never fatal), persist, prepend to the active view.
func (l *Links) Add(ctx context.Context, rawURL string, tags []string) (*domain.Link, error) {
	if _, err := preview.Normalize(rawURL); err != nil {
		return nil, err
	}

	p := l.extractor.Extract(ctx, rawURL)

	link := &domain.Link{
		ID:          uuid.New().String(),
		Owner:       l.owner,
		URL:         p.URL,
		Title:       p.Title,
		Description: p.Description,
		SiteName:    p.SiteName,
		ImageURL:    p.ImageURL,
		Tags:        domain.NormalizeTags(tags),
	}

	if err := l.cache.Add(ctx, link); err != nil {
		return nil, err
	}

	l.logger.Info("link saved",
		logger.String("id", link.ID),
		logger.String("url", link.URL),
		logger.String("title", link.Title))
	return link, nil
}

// State returns the current cached reading list.
func (l *Links) State() cache.State {
	return l.cache.Snapshot()
}

// Reload refreshes the cache from the store.
func (l *Links) Reload(ctx context.Context) error {
	return l.cache.Load(ctx)
}

// UpdateMemo sets the note on a link.
func (l *Links) UpdateMemo(ctx context.Context, id, memo string) error {
	return l.cache.UpdateMemo(ctx, id, memo)
}

// UpdateTags replaces the tag list on a link.
func (l *Links) UpdateTags(ctx context.Context, id string, tags []string) error {
	return l.cache.UpdateTags(ctx, id, tags)
}

// Archive moves a link to the archive.
func (l *Links) Archive(ctx context.Context, id string) error {
	return l.cache.Archive(ctx, id)
}

// Unarchive moves a link back to the active list.
func (l *Links) Unarchive(ctx context.Context, id string) error {
	return l.cache.Unarchive(ctx, id)
}

// Delete removes a link entirely.
func (l *Links) Delete(ctx context.Context, id string) error {
	return l.cache.Remove(ctx, id)
}

// ByTag queries the store for links carrying the tag, across both
// the active list and the archive.
func (l *Links) ByTag(ctx context.Context, tag string) ([]*domain.Link, error) {
	return l.repo.ListByTag(ctx, l.owner, tag)
}
