// Package redis implements the remote per-user link store.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/store"
)

// Store handles Redis operations for links.
type Store struct {
	client *redis.Client
}

// NewStore creates a new Redis link store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Create persists a new link and registers it in the owner's ID set.
func (s *Store) Create(ctx context.Context, link *domain.Link) error {
	now := time.Now()
	if link.CreatedAt.IsZero() {
		link.CreatedAt = now
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = now
	}
	link.Tags = domain.NormalizeTags(link.Tags)

	if err := s.save(ctx, link); err != nil {
		return err
	}
	if err := s.client.SAdd(ctx, OwnerSetKey(link.Owner), link.ID).Err(); err != nil {
		return fmt.Errorf("failed to add link to owner set: %w", err)
	}
	return nil
}

// Update applies the patch and writes the record back.
func (s *Store) Update(ctx context.Context, owner, id string, patch domain.LinkPatch) (*domain.Link, error) {
	link, err := s.get(ctx, owner, id)
	if err != nil {
		return nil, err
	}

	link.Apply(patch, time.Now())

	if err := s.save(ctx, link); err != nil {
		return nil, err
	}
	return link, nil
}

// SetArchived flips the archive flag. Missing IDs are a no-op, as is
// setting the flag to its current value.
func (s *Store) SetArchived(ctx context.Context, owner, id string, archived bool) error {
	link, err := s.get(ctx, owner, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}

	if !link.SetArchived(archived, time.Now()) {
		return nil
	}
	return s.save(ctx, link)
}

// Delete removes a link and its set entry. Both operations are
// idempotent so missing IDs need no special casing.
func (s *Store) Delete(ctx context.Context, owner, id string) error {
	if err := s.client.Del(ctx, LinkKey(owner, id)).Err(); err != nil {
		return fmt.Errorf("failed to delete link: %w", err)
	}
	if err := s.client.SRem(ctx, OwnerSetKey(owner), id).Err(); err != nil {
		return fmt.Errorf("failed to remove link from owner set: %w", err)
	}
	return nil
}

// ListActive returns unarchived links, newest saved first.
func (s *Store) ListActive(ctx context.Context, owner string) ([]*domain.Link, error) {
	links, err := s.listAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	active := links[:0]
	for _, l := range links {
		if !l.Archived {
			active = append(active, l)
		}
	}
	store.SortActive(active)
	return active, nil
}

// ListArchived returns archived links, most recently archived first.
func (s *Store) ListArchived(ctx context.Context, owner string) ([]*domain.Link, error) {
	links, err := s.listAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	archived := links[:0]
	for _, l := range links {
		if l.Archived {
			archived = append(archived, l)
		}
	}
	store.SortArchived(archived)
	return archived, nil
}

// ListByTag returns links carrying the tag across both views.
func (s *Store) ListByTag(ctx context.Context, owner, tag string) ([]*domain.Link, error) {
	links, err := s.listAll(ctx, owner)
	if err != nil {
		return nil, err
	}
	tagged := links[:0]
	for _, l := range links {
		if l.HasTag(tag) {
			tagged = append(tagged, l)
		}
	}
	store.SortActive(tagged)
	return tagged, nil
}

// listAll fetches every record in the owner's set with one pipeline.
// IDs whose record expired or vanished are skipped.
func (s *Store) listAll(ctx context.Context, owner string) ([]*domain.Link, error) {
	ids, err := s.client.SMembers(ctx, OwnerSetKey(owner)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get link IDs: %w", err)
	}
	if len(ids) == 0 {
		return []*domain.Link{}, nil
	}

	pipe := s.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(ids))
	for i, id := range ids {
		cmds[i] = pipe.Get(ctx, LinkKey(owner, id))
	}
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to fetch links: %w", err)
	}

	links := make([]*domain.Link, 0, len(ids))
	for _, cmd := range cmds {
		data, err := cmd.Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("failed to fetch link: %w", err)
		}
		var link domain.Link
		if err := json.Unmarshal(data, &link); err != nil {
			return nil, fmt.Errorf("failed to unmarshal link: %w", err)
		}
		links = append(links, &link)
	}
	return links, nil
}

func (s *Store) get(ctx context.Context, owner, id string) (*domain.Link, error) {
	data, err := s.client.Get(ctx, LinkKey(owner, id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get link: %w", err)
	}

	var link domain.Link
	if err := json.Unmarshal(data, &link); err != nil {
		return nil, fmt.Errorf("failed to unmarshal link: %w", err)
	}
	return &link, nil
}

func (s *Store) save(ctx context.Context, link *domain.Link) error {
	data, err := json.Marshal(link)
	if err != nil {
		return fmt.Errorf("failed to marshal link: %w", err)
	}
	if err := s.client.Set(ctx, LinkKey(link.Owner, link.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save link: %w", err)
	}
	return nil
}
