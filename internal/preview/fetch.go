package preview

import (
	"context"
	"io"
	"net/http"

	"github.com/stacknscroll/linkd/internal/utils"
)

func (c *Client) fetch(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{Code: resp.StatusCode, URL: pageURL}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// StatusError reports a non-2xx response during a preview fetch.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return "unexpected status " + http.StatusText(e.Code) + " fetching " + e.URL
}
