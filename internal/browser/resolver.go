package browser

import (
	"context"
	"log"
	"net/http"
)

// DefaultMirrors is the ordered list of radio-browser mirrors probed during
// resolution. DefaultFallback is returned when every probe fails, so
// resolution never surfaces an error to the caller.
var DefaultMirrors = []string{
	"https://de1.api.radio-browser.info",
	"https://at1.api.radio-browser.info",
	"https://nl1.api.radio-browser.info",
	"https://fr1.api.radio-browser.info",
}

// DefaultFallback is the mirror used when all probes fail.
const DefaultFallback = "https://at1.api.radio-browser.info"

// resolveMirror probes the configured mirrors in order and returns the first
// one that answers 200 within the probe timeout. The resolved mirror is not
// cached: every call re-probes from the top of the list.
func (c *Client) resolveMirror(ctx context.Context) string {
	for _, mirror := range c.mirrors {
		if c.probe(ctx, mirror) {
			return mirror
		}
	}
	log.Printf("browser: all mirrors failed probes, using fallback %s", c.fallback)
	return c.fallback
}

func (c *Client) probe(ctx context.Context, mirror string) bool {
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror+"/json/stations", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", c.userAgent)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	// Body is not needed for a liveness check.
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}
