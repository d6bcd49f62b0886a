package scheduler

import (
	"context"
	"time"

	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/preview"
	"github.com/stacknscroll/linkd/internal/service"
	"github.com/stacknscroll/linkd/internal/store"
)

// PreviewRefresher periodically re-extracts previews for links whose
// earlier fetch came back degraded, so a page that was down when it
// was saved eventually gets a real title.
type PreviewRefresher struct {
	repo      store.Repository
	extractor service.Extractor
	owner     string
	batch     int
	logger    logger.Logger
	interval  time.Duration
	stopCh    chan struct{}
}

// NewPreviewRefresher creates a preview refresher.
func NewPreviewRefresher(
	repo store.Repository,
	ex service.Extractor,
	owner string,
	batch int,
	log logger.Logger,
	interval time.Duration,
) *PreviewRefresher {
	if batch < 1 {
		batch = 1
	}
	return &PreviewRefresher{
		repo:      repo,
		extractor: ex,
		owner:     owner,
		batch:     batch,
		logger:    log,
		interval:  interval,
		stopCh:    make(chan struct{}),
	}
}

// Start begins the periodic refresh sweeps.
func (pr *PreviewRefresher) Start(ctx context.Context) {
	ticker := time.NewTicker(pr.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := pr.Sweep(ctx); err != nil {
					pr.logger.Error("preview refresh sweep failed", logger.Error(err))
				}
			case <-pr.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the refresher.
func (pr *PreviewRefresher) Stop() {
	close(pr.stopCh)
}

// Sweep re-extracts up to batch degraded previews and writes any
// improvement back to the store.
func (pr *PreviewRefresher) Sweep(ctx context.Context) error {
	active, err := pr.repo.ListActive(ctx, pr.owner)
	if err != nil {
		return err
	}
	archived, err := pr.repo.ListArchived(ctx, pr.owner)
	if err != nil {
		return err
	}

	refreshed := 0
	for _, link := range append(active, archived...) {
		if refreshed >= pr.batch {
			break
		}
		if !needsRefresh(link) {
			continue
		}

		p := pr.extractor.Extract(ctx, link.URL)
		if p.Title == "" || p.Title == p.Domain {
			// Still degraded, try again next sweep.
			continue
		}

		patch := domain.LinkPatch{
			Title:       &p.Title,
			Description: &p.Description,
			SiteName:    &p.SiteName,
			ImageURL:    &p.ImageURL,
		}
		if _, err := pr.repo.Update(ctx, pr.owner, link.ID, patch); err != nil {
			pr.logger.Warn("failed to store refreshed preview",
				logger.String("id", link.ID),
				logger.Error(err))
			continue
		}
		refreshed++
	}

	if refreshed > 0 {
		pr.logger.Info("refreshed degraded previews", logger.Int("count", refreshed))
	}
	return nil
}

// needsRefresh spots the degraded-preview signature: no title, or a
// title that is just the bare domain.
func needsRefresh(link *domain.Link) bool {
	if link.Title == "" {
		return true
	}
	norm, err := preview.Normalize(link.URL)
	if err != nil {
		return false
	}
	return link.Title == norm.Domain
}
