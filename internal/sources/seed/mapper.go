package seed

import (
	"github.com/stacknscroll/linkd/internal/domain"
	"github.com/stacknscroll/linkd/internal/preview"
)

// Candidate is a seed entry that passed validation, carrying its
// canonical URL.
type Candidate struct {
	URL  string
	Memo string
	Tags []string
}

// Mapper validates seed entries and canonicalizes their URLs.
type Mapper struct{}

// NewMapper creates a seed mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// Map filters the config down to importable candidates. Entries with
// unusable URLs are dropped and counted rather than failing the whole
// import; a seed file is best effort by nature.
func (m *Mapper) Map(config Config) (candidates []Candidate, skipped int) {
	for _, entry := range config.Links {
		norm, err := preview.Normalize(entry.URL)
		if err != nil {
			skipped++
			continue
		}
		candidates = append(candidates, Candidate{
			URL:  norm.URL,
			Memo: entry.Memo,
			Tags: domain.NormalizeTags(entry.Tags),
		})
	}
	return candidates, skipped
}
