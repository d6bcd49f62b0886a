package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacknscroll/linkd/internal/cache"
	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/preview"
	badgerstore "github.com/stacknscroll/linkd/internal/store/badger"
)

// stubExtractor avoids network fetches in tests.
type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, rawURL string) preview.Preview {
	norm, err := preview.Normalize(rawURL)
	if err != nil {
		return preview.Preview{URL: rawURL}
	}
	return preview.Preview{
		URL:         norm.URL,
		Domain:      norm.Domain,
		Title:       "Title of " + norm.Domain,
		Description: "Stub description",
		SiteName:    norm.Domain,
	}
}

func setupService(t *testing.T) *Links {
	t.Helper()
	log := logger.New("error", false)

	repo, err := badgerstore.Open(t.TempDir(), log)
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, repo.Close()) })

	c := cache.New(repo, "user1", log)
	require.NoError(t, c.Load(context.Background()))
	return New(repo, c, stubExtractor{}, "user1", log)
}

func TestAddAssignsIDAndPreview(t *testing.T) {
	svc := setupService(t)

	link, err := svc.Add(context.Background(), "example.com/post", []string{" go ", "go"})
	require.NoError(t, err)

	assert.NotEmpty(t, link.ID)
	assert.Equal(t, "user1", link.Owner)
	assert.Equal(t, "https://example.com/post", link.URL)
	assert.Equal(t, "Title of example.com", link.Title)
	assert.Equal(t, []string{"go"}, link.Tags)
	assert.False(t, link.Archived)

	state := svc.State()
	require.Len(t, state.Links, 1)
	assert.Equal(t, link.ID, state.Links[0].ID)
}

func TestAddUniqueIDs(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	a, err := svc.Add(ctx, "example.com/a", nil)
	require.NoError(t, err)
	b, err := svc.Add(ctx, "example.com/a", nil)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID, "saving the same URL twice creates two links")
}

func TestAddInvalidURL(t *testing.T) {
	svc := setupService(t)

	_, err := svc.Add(context.Background(), "   ", nil)
	assert.ErrorIs(t, err, domain.ErrInvalidURL)
	assert.Empty(t, svc.State().Links, "nothing is saved on invalid input")
}

func TestLifecycleThroughService(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	link, err := svc.Add(ctx, "example.com/read", nil)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateMemo(ctx, link.ID, "worth a second read"))
	require.NoError(t, svc.Archive(ctx, link.ID))

	state := svc.State()
	assert.Empty(t, state.Links)
	require.Len(t, state.ArchivedLinks, 1)
	require.NotNil(t, state.ArchivedLinks[0].Memo)
	assert.Equal(t, "worth a second read", *state.ArchivedLinks[0].Memo)

	// A fresh load from the store must agree with the mirror.
	require.NoError(t, svc.Reload(ctx))
	state = svc.State()
	assert.Empty(t, state.Links)
	assert.Len(t, state.ArchivedLinks, 1)

	require.NoError(t, svc.Delete(ctx, link.ID))
	assert.Empty(t, svc.State().ArchivedLinks)
}

func TestByTag(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	tagged, err := svc.Add(ctx, "example.com/go", []string{"go"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "example.com/other", []string{"misc"})
	require.NoError(t, err)
	require.NoError(t, svc.Archive(ctx, tagged.ID))

	links, err := svc.ByTag(ctx, "go")
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, tagged.ID, links[0].ID)
}
