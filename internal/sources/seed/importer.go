package seed

import (
	"context"
	"fmt"

	"github.com/stacknscroll/linkd/internal/logger"
	"github.com/stacknscroll/linkd/internal/service"
)

// Importer runs seed candidates through the normal add flow.
type Importer struct {
	loader *Loader
	mapper *Mapper
	links  *service.Links
	logger logger.Logger
}

// NewImporter creates an importer for the given seed file.
func NewImporter(seedFile string, links *service.Links, log logger.Logger) *Importer {
	return &Importer{
		loader: NewLoader(seedFile),
		mapper: NewMapper(),
		links:  links,
		logger: log,
	}
}

// Run imports the seed file. URLs already present in the reading
// list are skipped so repeated startups stay idempotent. Returns the
// number of links imported.
func (i *Importer) Run(ctx context.Context) (int, error) {
	config, err := i.loader.Load()
	if err != nil {
		return 0, fmt.Errorf("seed import failed: %w", err)
	}

	candidates, invalid := i.mapper.Map(config)
	if invalid > 0 {
		i.logger.Warn("seed file contains unusable urls",
			logger.Int("skipped", invalid))
	}

	state := i.links.State()
	existing := make(map[string]bool, len(state.Links)+len(state.ArchivedLinks))
	for _, l := range state.Links {
		existing[l.URL] = true
	}
	for _, l := range state.ArchivedLinks {
		existing[l.URL] = true
	}

	imported := 0
	for _, c := range candidates {
		if existing[c.URL] {
			continue
		}

		link, err := i.links.Add(ctx, c.URL, c.Tags)
		if err != nil {
			i.logger.Warn("failed to import seed link",
				logger.String("url", c.URL),
				logger.Error(err))
			continue
		}
		if c.Memo != "" {
			if err := i.links.UpdateMemo(ctx, link.ID, c.Memo); err != nil {
				i.logger.Warn("failed to set memo on seed link",
					logger.String("url", c.URL),
					logger.Error(err))
			}
		}
		existing[c.URL] = true
		imported++
	}

	i.logger.Info("seed import finished",
		logger.Int("imported", imported),
		logger.Int("already_present", len(candidates)-imported))
	return imported, nil
}
