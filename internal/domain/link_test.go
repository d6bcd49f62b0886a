package domain

import (
	"testing"
	"time"
)

func TestNormalizeTags(t *testing.T) {
	tests := []struct {
		name     string
		tags     []string
		expected []string
	}{
		{
			name:     "trims whitespace",
			tags:     []string{" go ", "reading"},
			expected: []string{"go", "reading"},
		},
		{
			name:     "drops duplicates keeping first",
			tags:     []string{"go", "news", "go"},
			expected: []string{"go", "news"},
		},
		{
			name:     "drops empties",
			tags:     []string{"", "  ", "go"},
			expected: []string{"go"},
		},
		{
			name:     "preserves insertion order",
			tags:     []string{"c", "a", "b"},
			expected: []string{"c", "a", "b"},
		},
		{
			name:     "nil input",
			tags:     nil,
			expected: nil,
		},
		{
			name:     "all empty becomes nil",
			tags:     []string{"", " "},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NormalizeTags(tt.tags)
			if len(result) != len(tt.expected) {
				t.Fatalf("NormalizeTags() = %v, want %v", result, tt.expected)
			}
			for i := range result {
				if result[i] != tt.expected[i] {
					t.Errorf("NormalizeTags()[%d] = %v, want %v", i, result[i], tt.expected[i])
				}
			}
		})
	}
}

func TestSetArchived(t *testing.T) {
	now := time.Now()
	link := &Link{ID: "1", CreatedAt: now, UpdatedAt: now}

	later := now.Add(time.Minute)
	if !link.SetArchived(true, later) {
		t.Fatal("SetArchived(true) on active link should report a transition")
	}
	if !link.Archived {
		t.Error("link should be archived")
	}
	if link.ArchivedAt == nil || !link.ArchivedAt.Equal(later) {
		t.Errorf("ArchivedAt = %v, want %v", link.ArchivedAt, later)
	}
	if !link.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", link.UpdatedAt, later)
	}

	// Same-value call must not touch anything.
	evenLater := later.Add(time.Minute)
	if link.SetArchived(true, evenLater) {
		t.Error("SetArchived(true) on archived link should be a no-op")
	}
	if !link.ArchivedAt.Equal(later) {
		t.Error("ArchivedAt should not change on a no-op")
	}
	if !link.UpdatedAt.Equal(later) {
		t.Error("UpdatedAt should not change on a no-op")
	}

	if !link.SetArchived(false, evenLater) {
		t.Fatal("SetArchived(false) on archived link should report a transition")
	}
	if link.ArchivedAt != nil {
		t.Error("ArchivedAt should be cleared on unarchive")
	}
}

func TestApplyPatch(t *testing.T) {
	now := time.Now()
	link := &Link{
		ID:        "1",
		Title:     "old title",
		Tags:      []string{"go"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	memo := "read this on the train"
	tags := []string{" go ", "go", "trains"}
	later := now.Add(time.Minute)
	link.Apply(LinkPatch{Memo: &memo, Tags: &tags}, later)

	if link.Memo == nil || *link.Memo != memo {
		t.Errorf("Memo = %v, want %q", link.Memo, memo)
	}
	if len(link.Tags) != 2 || link.Tags[0] != "go" || link.Tags[1] != "trains" {
		t.Errorf("Tags = %v, want [go trains]", link.Tags)
	}
	if link.Title != "old title" {
		t.Error("nil patch field should leave Title unchanged")
	}
	if !link.UpdatedAt.Equal(later) {
		t.Errorf("UpdatedAt = %v, want %v", link.UpdatedAt, later)
	}
}

func TestApplyPatchEmptyMemo(t *testing.T) {
	link := &Link{ID: "1"}
	if link.Memo != nil {
		t.Fatal("memo should start nil")
	}

	empty := ""
	link.Apply(LinkPatch{Memo: &empty}, time.Now())
	if link.Memo == nil || *link.Memo != "" {
		t.Error("empty memo is a deliberate blank note, not nil")
	}
}

func TestClone(t *testing.T) {
	memo := "note"
	at := time.Now()
	link := &Link{ID: "1", Memo: &memo, Tags: []string{"a"}, Archived: true, ArchivedAt: &at}

	c := link.Clone()
	*c.Memo = "changed"
	c.Tags[0] = "changed"
	*c.ArchivedAt = at.Add(time.Hour)

	if *link.Memo != "note" {
		t.Error("Clone() must not alias Memo")
	}
	if link.Tags[0] != "a" {
		t.Error("Clone() must not alias Tags")
	}
	if !link.ArchivedAt.Equal(at) {
		t.Error("Clone() must not alias ArchivedAt")
	}
}

func TestHasTag(t *testing.T) {
	link := &Link{Tags: []string{"go", "reading list"}}
	if !link.HasTag("go") {
		t.Error("HasTag(go) should be true")
	}
	if !link.HasTag(" go ") {
		t.Error("HasTag should trim its argument")
	}
	if link.HasTag("GO") {
		t.Error("tag match is case sensitive")
	}
	if link.HasTag("rust") {
		t.Error("HasTag(rust) should be false")
	}
}
