package preview

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/stacknscroll/linkd/internal/domain"
)

// Normalized is the canonical form of a user-submitted URL.
type Normalized struct {
	// URL is the full canonical address, always carrying a scheme.
	URL string

	// Domain is the host without a leading "www.". It doubles as the
	// display fallback when a page yields no usable title.
	Domain string
}

// Normalize canonicalizes a raw URL string.
//
// Input is trimmed and, unless it already starts with http:// or
// https://, prefixed with https:// so bare hosts like "example.com/a"
// are accepted. Non-HTTP schemes pick up the prefix too and end up
// with a mangled host, so only fetchable links survive. Anything that
// fails to parse, or parses without a usable host, is rejected with
// domain.ErrInvalidURL.
func Normalize(raw string) (Normalized, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Normalized{}, fmt.Errorf("%w: empty input", domain.ErrInvalidURL)
	}

	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return Normalized{}, fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}
	if parsed.Host == "" {
		return Normalized{}, fmt.Errorf("%w: %q has no host", domain.ErrInvalidURL, raw)
	}
	// A prefixed non-HTTP scheme leaves its colon in the host part
	// ("https://ftp://..." parses with host "ftp:"). net/url tolerates
	// the empty port, so catch it here.
	if strings.HasSuffix(parsed.Host, ":") {
		return Normalized{}, fmt.Errorf("%w: %q", domain.ErrInvalidURL, raw)
	}

	return Normalized{
		URL:    parsed.String(),
		Domain: strings.TrimPrefix(parsed.Host, "www."),
	}, nil
}
