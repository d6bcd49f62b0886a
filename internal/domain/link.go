package domain

import (
	"strings"
	"time"
)

// Link represents a saved page in a user's reading list.
//
// A Link lives in exactly one of two views, active or archived,
// derived from the Archived flag. It is never stored twice.
type Link struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is the canonical unique identifier (UUID v4).
	// Assigned once at creation, never reused.
	ID string `json:"id"`

	// Owner namespaces the link to a single user.
	Owner string `json:"owner"`

	// ─────────────────────────────
	// Page data
	// ─────────────────────────────

	// URL is the canonical (normalized) page URL.
	URL string `json:"url"`

	// Title, Description, SiteName and ImageURL come from preview
	// extraction and may be empty on degraded fetches.
	Title       string `json:"title"`
	Description string `json:"description"`
	SiteName    string `json:"site_name,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	// ─────────────────────────────
	// User annotations
	// ─────────────────────────────

	// Memo is the user's note. nil means never set; an empty
	// string is a deliberate blank note.
	Memo *string `json:"memo,omitempty"`

	// Tags are trimmed, deduplicated and keep insertion order.
	Tags []string `json:"tags,omitempty"`

	// ─────────────────────────────
	// Lifecycle
	// ─────────────────────────────

	// Archived moves the link from the active view to the archive.
	Archived bool `json:"archived"`

	// CreatedAt is when the link was first saved.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on any mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// ArchivedAt is set on archive and cleared on unarchive.
	// It is non-nil exactly when Archived is true.
	ArchivedAt *time.Time `json:"archived_at,omitempty"`
}

// LinkPatch is a partial update. nil fields are left unchanged.
type LinkPatch struct {
	Memo        *string
	Tags        *[]string
	Title       *string
	Description *string
	SiteName    *string
	ImageURL    *string
}

// IsZero reports whether the patch changes nothing.
func (p LinkPatch) IsZero() bool {
	return p.Memo == nil && p.Tags == nil && p.Title == nil &&
		p.Description == nil && p.SiteName == nil && p.ImageURL == nil
}

// Apply mutates the link with the patch's non-nil fields and bumps
// UpdatedAt. Tags are normalized on the way in.
func (l *Link) Apply(p LinkPatch, now time.Time) {
	if p.Memo != nil {
		m := *p.Memo
		l.Memo = &m
	}
	if p.Tags != nil {
		l.Tags = NormalizeTags(*p.Tags)
	}
	if p.Title != nil {
		l.Title = *p.Title
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.SiteName != nil {
		l.SiteName = *p.SiteName
	}
	if p.ImageURL != nil {
		l.ImageURL = *p.ImageURL
	}
	l.UpdatedAt = now
}

// SetArchived flips the archive flag and keeps ArchivedAt in sync.
// Calling it with the current value is a no-op; it reports whether
// the link actually transitioned.
func (l *Link) SetArchived(archived bool, now time.Time) bool {
	if l.Archived == archived {
		return false
	}
	l.Archived = archived
	if archived {
		at := now
		l.ArchivedAt = &at
	} else {
		l.ArchivedAt = nil
	}
	l.UpdatedAt = now
	return true
}

// HasTag reports whether the link carries the given tag (exact match
// after trimming).
func (l *Link) HasTag(tag string) bool {
	tag = strings.TrimSpace(tag)
	for _, t := range l.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// NormalizeTags trims each tag, drops empties and exact duplicates,
// and preserves first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Clone returns a deep copy so cached snapshots cannot alias store
// state through pointer fields.
func (l *Link) Clone() *Link {
	c := *l
	if l.Memo != nil {
		m := *l.Memo
		c.Memo = &m
	}
	if l.ArchivedAt != nil {
		at := *l.ArchivedAt
		c.ArchivedAt = &at
	}
	if l.Tags != nil {
		c.Tags = append([]string(nil), l.Tags...)
	}
	return &c
}
