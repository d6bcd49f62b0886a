// Package cache keeps an in-memory mirror of a user's reading list
// so reads never hit the store. Every mutation writes through to the
// repository first and only updates the mirror once the write lands,
// so the mirror can trail the store but never contradict it.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/store"
)

// State is a point-in-time snapshot of the mirror.
type State struct {
	Links         []*domain.Link // active, newest saved first
	ArchivedLinks []*domain.Link // most recently archived first
	Loading       bool
	Err           error
}

// Cache mirrors one owner's links. It is safe for concurrent use.
type Cache struct {
	repo   store.Repository
	owner  string
	logger logger.Logger

	mu       sync.RWMutex
	links    []*domain.Link
	archived []*domain.Link
	loading  bool
	loaded   bool
	err      error
}

// New creates a cache for one owner.
func New(repo store.Repository, owner string, log logger.Logger) *Cache {
	return &Cache{
		repo:   repo,
		owner:  owner,
		logger: log,
	}
}

// Snapshot returns a copy of the current state. The slices are fresh
// but share link pointers with the mirror; callers must not mutate
// the records.
func (c *Cache) Snapshot() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State{
		Links:         append([]*domain.Link(nil), c.links...),
		ArchivedLinks: append([]*domain.Link(nil), c.archived...),
		Loading:       c.loading,
		Err:           c.err,
	}
}

// Loaded reports whether at least one Load has completed.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Load fetches both views concurrently and swaps them in as a unit.
// If either fetch fails the mirror is left untouched and the error is
// surfaced in the state, so a flaky store never blanks the screen.
func (c *Cache) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.mu.Unlock()

	var (
		links    []*domain.Link
		archived []*domain.Link
	)
	errCh := make(chan error, 2)

	go func() {
		var err error
		links, err = c.repo.ListActive(ctx, c.owner)
		errCh <- err
	}()
	go func() {
		var err error
		archived, err = c.repo.ListArchived(ctx, c.owner)
		errCh <- err
	}()

	var loadErr error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil && loadErr == nil {
			loadErr = err
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if loadErr != nil {
		c.err = loadErr
		c.logger.Error("failed to load links", logger.Error(loadErr))
		return loadErr
	}
	c.links = links
	c.archived = archived
	c.loaded = true
	c.err = nil
	return nil
}

// Add writes the link to the store and prepends it to the active view.
func (c *Cache) Add(ctx context.Context, link *domain.Link) error {
	if err := c.repo.Create(ctx, link); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = append([]*domain.Link{link}, c.links...)
	c.err = nil
	return nil
}

// Archive moves the link to the front of the archived view.
func (c *Cache) Archive(ctx context.Context, id string) error {
	return c.setArchived(ctx, id, true)
}

// Unarchive moves the link back to the front of the active view.
func (c *Cache) Unarchive(ctx context.Context, id string) error {
	return c.setArchived(ctx, id, false)
}

func (c *Cache) setArchived(ctx context.Context, id string, archived bool) error {
	if err := c.repo.SetArchived(ctx, c.owner, id, archived); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Mirror the store's transition locally: pull the record out of
	// its current view and put it at the front of the destination.
	var link *domain.Link
	if archived {
		c.links, link = remove(c.links, id)
		if link != nil {
			link.SetArchived(true, time.Now())
			c.archived = append([]*domain.Link{link}, c.archived...)
		}
	} else {
		c.archived, link = remove(c.archived, id)
		if link != nil {
			link.SetArchived(false, time.Now())
			c.links = append([]*domain.Link{link}, c.links...)
		}
	}
	c.err = nil
	return nil
}

// UpdateMemo writes the memo through the store and patches the
// record in place, wherever it currently sits. The record keeps its
// position; annotating is not recency.
func (c *Cache) UpdateMemo(ctx context.Context, id, memo string) error {
	updated, err := c.repo.Update(ctx, c.owner, id, domain.LinkPatch{Memo: &memo})
	if err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	replace(c.links, updated)
	replace(c.archived, updated)
	c.err = nil
	return nil
}

// UpdateTags writes the tag list through the store and patches the
// record in place.
func (c *Cache) UpdateTags(ctx context.Context, id string, tags []string) error {
	updated, err := c.repo.Update(ctx, c.owner, id, domain.LinkPatch{Tags: &tags})
	if err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	replace(c.links, updated)
	replace(c.archived, updated)
	c.err = nil
	return nil
}

// Remove deletes the link from the store and both views.
func (c *Cache) Remove(ctx context.Context, id string) error {
	if err := c.repo.Delete(ctx, c.owner, id); err != nil {
		c.fail(err)
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.links, _ = remove(c.links, id)
	c.archived, _ = remove(c.archived, id)
	c.err = nil
	return nil
}

func (c *Cache) fail(err error) {
	c.mu.Lock()
	c.err = err
	c.mu.Unlock()
}

func remove(links []*domain.Link, id string) ([]*domain.Link, *domain.Link) {
	for i, l := range links {
		if l.ID == id {
			return append(links[:i:i], links[i+1:]...), l
		}
	}
	return links, nil
}

func replace(links []*domain.Link, updated *domain.Link) {
	for i, l := range links {
		if l.ID == updated.ID {
			links[i] = updated
			return
		}
	}
}
