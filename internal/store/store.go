// Package store defines the persistence contract for links.
//
// Two backends implement it: an embedded BadgerDB store for
// on-device use and a Redis store for a remote per-user setup. Both
// keep a single record per link and derive the active and archived
// views from the Archived flag, so a link can never appear in both.
package store

import (
	"context"
	"sort"

	"github.com/stacknscroll/linkd/internal/domain"
)

// Repository is the persistence contract for links.
type Repository interface {
	// Create persists a new link. CreatedAt and UpdatedAt are
	// stamped when zero.
	Create(ctx context.Context, link *domain.Link) error

	// Update applies a partial update and returns the new record.
	// Returns domain.ErrNotFound when the ID does not exist.
	Update(ctx context.Context, owner, id string, patch domain.LinkPatch) (*domain.Link, error)

	// SetArchived flips the archive flag. Missing IDs and
	// same-value calls are silent no-ops.
	SetArchived(ctx context.Context, owner, id string, archived bool) error

	// Delete removes a link. Missing IDs are a silent no-op.
	Delete(ctx context.Context, owner, id string) error

	// ListActive returns unarchived links, newest saved first.
	ListActive(ctx context.Context, owner string) ([]*domain.Link, error)

	// ListArchived returns archived links, most recently archived first.
	ListArchived(ctx context.Context, owner string) ([]*domain.Link, error)

	// ListByTag returns links carrying the tag across both views,
	// newest saved first.
	ListByTag(ctx context.Context, owner, tag string) ([]*domain.Link, error)

	Close() error
}

// Pinger is implemented by backends that can report liveness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// SortActive orders links for the active view, newest saved first.
func SortActive(links []*domain.Link) {
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].CreatedAt.After(links[j].CreatedAt)
	})
}

// SortArchived orders links for the archive view, most recently
// archived first. Records missing ArchivedAt sort last.
func SortArchived(links []*domain.Link) {
	sort.SliceStable(links, func(i, j int) bool {
		ai, aj := links[i].ArchivedAt, links[j].ArchivedAt
		switch {
		case ai == nil:
			return false
		case aj == nil:
			return true
		default:
			return ai.After(*aj)
		}
	})
}
