package preview

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/stacknscroll/linkd/internal/logger"
)

const (
	// maxBodyBytes caps how much of a page is read for extraction.
	maxBodyBytes = 512 << 10

	// minArticleLen discards article snippets too short to be useful.
	minArticleLen = 30

	// minMetaDescLen is the threshold below which a meta description
	// is considered thin and the article heuristic kicks in.
	minMetaDescLen = 50

	// maxDescLen is the hard cap on a description before truncation.
	maxDescLen = 200
)

// Preview holds everything extracted from a page.
type Preview struct {
	URL         string
	Domain      string
	Title       string
	Description string
	SiteName    string
	ImageURL    string
}

// Client fetches pages and extracts previews. Extraction is regex
// over raw HTML: meta tags in the wild are malformed often enough
// that a strict parser loses more than it wins.
type Client struct {
	http      *http.Client
	userAgent string
	logger    logger.Logger
}

// Options configures a preview Client.
type Options struct {
	Timeout   time.Duration
	UserAgent string
}

// NewClient creates a preview client.
func NewClient(opts Options, log logger.Logger) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "linkd/dev (+https://github.com/stacknscroll/linkd)"
	}
	return &Client{
		http:      &http.Client{Timeout: opts.Timeout},
		userAgent: opts.UserAgent,
		logger:    log,
	}
}

// Extract fetches rawURL and builds a Preview. It never fails: an
// unreachable or unparseable page yields a degraded preview with the
// domain as title and the canonical URL as description, so a link can
// always be saved.
func (c *Client) Extract(ctx context.Context, rawURL string) Preview {
	norm, err := Normalize(rawURL)
	if err != nil {
		return Preview{URL: rawURL}
	}

	page, err := c.fetch(ctx, norm.URL)
	if err != nil {
		c.logger.Warn("preview fetch failed, saving degraded link",
			logger.String("url", norm.URL),
			logger.Error(err))
		return degraded(norm)
	}

	return FromHTML(norm, page)
}

// FromHTML extracts a preview from already-fetched page HTML.
func FromHTML(norm Normalized, page string) Preview {
	p := Preview{URL: norm.URL, Domain: norm.Domain}

	p.Title = firstMeta(page,
		metaKey{"property", "og:title"},
		metaKey{"name", "twitter:title"},
	)
	if p.Title == "" {
		p.Title = titleTag(page)
	}
	if p.Title == "" {
		p.Title = norm.Domain
	}

	p.Description = firstMeta(page,
		metaKey{"property", "og:description"},
		metaKey{"name", "twitter:description"},
		metaKey{"name", "description"},
	)
	if len([]rune(p.Description)) < minMetaDescLen {
		if article := articleText(page); article != "" {
			p.Description = article
		}
	}

	p.SiteName = firstMeta(page, metaKey{"property", "og:site_name"})
	if p.SiteName == "" {
		p.SiteName = norm.Domain
	}

	image := firstMeta(page,
		metaKey{"property", "og:image"},
		metaKey{"name", "twitter:image"},
	)
	p.ImageURL = resolveImage(norm.URL, image)

	return p
}

func degraded(norm Normalized) Preview {
	return Preview{
		URL:         norm.URL,
		Domain:      norm.Domain,
		Title:       norm.Domain,
		Description: norm.URL,
		SiteName:    norm.Domain,
	}
}

// ─────────────────────────────────────────────────────────────────
// Meta tag extraction
// ─────────────────────────────────────────────────────────────────

type metaKey struct {
	attr  string // "property" or "name"
	value string // ex: "og:title"
}

// firstMeta tries each key with the attribute before content, then
// each key again with the attributes reversed. Real pages emit both
// orders.
func firstMeta(page string, keys ...metaKey) string {
	for _, k := range keys {
		if v := metaForward(page, k); v != "" {
			return v
		}
	}
	for _, k := range keys {
		if v := metaReversed(page, k); v != "" {
			return v
		}
	}
	return ""
}

func metaForward(page string, k metaKey) string {
	re := regexp.MustCompile(`(?i)<meta[^>]*\b` + k.attr + `\s*=\s*["']` +
		regexp.QuoteMeta(k.value) + `["'][^>]*\bcontent\s*=\s*["']([^"']*)["']`)
	if m := re.FindStringSubmatch(page); m != nil {
		return decodeEntities(strings.TrimSpace(m[1]))
	}
	return ""
}

func metaReversed(page string, k metaKey) string {
	re := regexp.MustCompile(`(?i)<meta[^>]*\bcontent\s*=\s*["']([^"']*)["'][^>]*\b` +
		k.attr + `\s*=\s*["']` + regexp.QuoteMeta(k.value) + `["']`)
	if m := re.FindStringSubmatch(page); m != nil {
		return decodeEntities(strings.TrimSpace(m[1]))
	}
	return ""
}

var titleRe = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)

func titleTag(page string) string {
	if m := titleRe.FindStringSubmatch(page); m != nil {
		return collapseSpace(decodeEntities(m[1]))
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────
// Article text heuristic
// ─────────────────────────────────────────────────────────────────

var contentBlockRes = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<article[^>]*>(.*?)</article>`),
	regexp.MustCompile(`(?is)<main[^>]*>(.*?)</main>`),
	regexp.MustCompile(`(?is)<div[^>]*class\s*=\s*["'][^"']*content[^"']*["'][^>]*>(.*?)</div>`),
	regexp.MustCompile(`(?is)<div[^>]*class\s*=\s*["'][^"']*article[^"']*["'][^>]*>(.*?)</div>`),
	regexp.MustCompile(`(?is)<div[^>]*class\s*=\s*["'][^"']*post[^"']*["'][^>]*>(.*?)</div>`),
	regexp.MustCompile(`(?is)<div[^>]*class\s*=\s*["'][^"']*entry[^"']*["'][^>]*>(.*?)</div>`),
}

var (
	scriptRe    = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleRe     = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	tagRe       = regexp.MustCompile(`<[^>]+>`)
	spaceRe     = regexp.MustCompile(`\s+`)
	sentEndRe   = regexp.MustCompile(`[.!?]\s`)
	paragraphRe = regexp.MustCompile(`(?is)<p[^>]*>(.*?)</p>`)
)

// articleText pulls a short readable snippet out of the page body.
// It consults each content-block pattern until one yields usable
// text, then falls back to the first substantial paragraph. A block
// that matches but cleans down to nothing does not stop the search.
func articleText(page string) string {
	for _, re := range contentBlockRes {
		m := re.FindStringSubmatch(page)
		if m == nil {
			continue
		}
		if snippet := snippetFrom(m[1]); snippet != "" {
			return snippet
		}
	}

	for _, m := range paragraphRe.FindAllStringSubmatch(page, -1) {
		if snippet := snippetFrom(m[1]); snippet != "" {
			return snippet
		}
	}
	return ""
}

func snippetFrom(block string) string {
	text := cleanHTML(block)
	text = firstSentences(text, 2)
	if runes := []rune(text); len(runes) > maxDescLen {
		text = string(runes[:maxDescLen-3]) + "..."
	}
	if len([]rune(text)) <= minArticleLen {
		return ""
	}
	return text
}

func cleanHTML(s string) string {
	s = scriptRe.ReplaceAllString(s, " ")
	s = styleRe.ReplaceAllString(s, " ")
	s = tagRe.ReplaceAllString(s, " ")
	s = decodeEntities(s)
	return collapseSpace(s)
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// firstSentences cuts text after n sentence boundaries. Text with
// fewer boundaries is returned whole.
func firstSentences(text string, n int) string {
	ends := sentEndRe.FindAllStringIndex(text, n)
	if len(ends) < n {
		return text
	}
	return strings.TrimSpace(text[:ends[n-1][0]+1])
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
	"&#x27;", "'",
	"&nbsp;", " ",
)

func decodeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// resolveImage makes a relative image URL absolute against the page.
func resolveImage(pageURL, image string) string {
	if image == "" {
		return ""
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return image
	}
	ref, err := url.Parse(image)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
