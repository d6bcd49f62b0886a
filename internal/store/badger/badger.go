// Package badger provides the embedded on-device link store.
package badger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/store"
)

// Store implements store.Repository on top of BadgerDB.
type Store struct {
	db     *badger.DB
	logger logger.Logger
}

// Open opens (or creates) the database at dir.
func Open(dir string, log logger.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{log}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db at %s: %w", dir, err)
	}
	log.Info("badger store opened", logger.String("dir", dir))

	return &Store{db: db, logger: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping reports whether the database is still open.
func (s *Store) Ping(_ context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return nil
}

// linkKey is owner/{owner}/link/{id}.
func linkKey(owner, id string) []byte {
	return []byte(fmt.Sprintf("owner/%s/link/%s", owner, id))
}

// ownerPrefix scans all links belonging to one owner.
func ownerPrefix(owner string) []byte {
	return []byte(fmt.Sprintf("owner/%s/link/", owner))
}

// Create persists a new link.
func (s *Store) Create(_ context.Context, link *domain.Link) error {
	now := time.Now()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = now
	}
	link.Tags = domain.NormalizeTags(link.Tags)

	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(linkKey(link.Owner, link.ID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save link %s: %w", link.ID, err)
	}
	return nil
}

// Update applies the patch inside a single read-modify-write txn.
func (s *Store) Update(_ context.Context, owner, id string, patch domain.LinkPatch) (*domain.Link, error) {
	var updated *domain.Link

	err := s.db.Update(func(txn *badger.Txn) error {
		link, err := getLink(txn, owner, id)
		if err != nil {
			return err
		}

		link.Apply(patch, time.Now())

		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal link: %w", err)
		}
		if err := txn.Set(linkKey(owner, id), data); err != nil {
			return err
		}
		updated = link
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to update link %s: %w", id, err)
	}
	return updated, nil
}

// SetArchived flips the archive flag. Missing IDs are a no-op, as is
// setting the flag to its current value.
func (s *Store) SetArchived(_ context.Context, owner, id string, archived bool) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		link, err := getLink(txn, owner, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil
			}
			return err
		}

		if !link.SetArchived(archived, time.Now()) {
			return nil
		}

		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal link: %w", err)
		}
		return txn.Set(linkKey(owner, id), data)
	})
	if err != nil {
		return fmt.Errorf("failed to set archived on link %s: %w", id, err)
	}
	return nil
}

// Delete removes a link. Badger deletes are idempotent so missing
// IDs need no special casing.
func (s *Store) Delete(_ context.Context, owner, id string) error {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(linkKey(owner, id))
	})
	if err != nil {
		return fmt.Errorf("failed to delete link %s: %w", id, err)
	}
	return nil
}

// ListActive returns unarchived links, newest saved first.
func (s *Store) ListActive(ctx context.Context, owner string) ([]*domain.Link, error) {
	links, err := s.scan(ctx, owner, func(l *domain.Link) bool { return !l.Archived })
	if err != nil {
		return nil, err
	}
	store.SortActive(links)
	return links, nil
}

// ListArchived returns archived links, most recently archived first.
func (s *Store) ListArchived(ctx context.Context, owner string) ([]*domain.Link, error) {
	links, err := s.scan(ctx, owner, func(l *domain.Link) bool { return l.Archived })
	if err != nil {
		return nil, err
	}
	store.SortArchived(links)
	return links, nil
}

// ListByTag returns links carrying the tag, newest saved first.
func (s *Store) ListByTag(ctx context.Context, owner, tag string) ([]*domain.Link, error) {
	links, err := s.scan(ctx, owner, func(l *domain.Link) bool { return l.HasTag(tag) })
	if err != nil {
		return nil, err
	}
	store.SortActive(links)
	return links, nil
}

// scan iterates the owner's prefix and keeps links matching keep.
func (s *Store) scan(_ context.Context, owner string, keep func(*domain.Link) bool) ([]*domain.Link, error) {
	links := make([]*domain.Link, 0)

	err := s.db.View(func(txn *badger.Txn) error {
		prefix := ownerPrefix(owner)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			err := item.Value(func(val []byte) error {
				var link domain.Link
				if err := json.Unmarshal(val, &link); err != nil {
					return fmt.Errorf("failed to unmarshal link at key %s: %w", item.Key(), err)
				}
				if keep(&link) {
					links = append(links, &link)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list links for %s: %w", owner, err)
	}
	return links, nil
}

// getLink reads and unmarshals one link inside a transaction.
func getLink(txn *badger.Txn, owner, id string) (*domain.Link, error) {
	item, err := txn.Get(linkKey(owner, id))
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil, err
	}

	var link domain.Link
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &link)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal link %s: %w", id, err)
	}
	return &link, nil
}
