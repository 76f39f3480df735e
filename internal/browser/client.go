// Package browser is a client for the radio-browser.info directory API.
// It resolves a live mirror, fetches stations by tag or by name, and applies
// the service's quality filters. Upstream failures are deliberately swallowed
// and reported as empty result sets: the directory is a best-effort public
// service and callers treat "unreachable" the same as "no matches".
package browser

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/dialwave/radiodex/internal/models"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultProbeTimeout = 5 * time.Second
)

// Client talks to a radio-browser mirror. The zero value is not usable;
// construct with NewClient.
type Client struct {
	httpClient   *http.Client
	mirrors      []string
	fallback     string
	userAgent    string
	fetchTimeout time.Duration
	probeTimeout time.Duration
}

// Options configures a Client. Zero-value fields fall back to defaults.
type Options struct {
	Mirrors      []string
	Fallback     string
	UserAgent    string
	FetchTimeout time.Duration
	ProbeTimeout time.Duration
}

// NewClient creates a radio-browser client.
func NewClient(opts Options) *Client {
	c := &Client{
		httpClient:   &http.Client{},
		mirrors:      opts.Mirrors,
		fallback:     opts.Fallback,
		userAgent:    opts.UserAgent,
		fetchTimeout: opts.FetchTimeout,
		probeTimeout: opts.ProbeTimeout,
	}
	if len(c.mirrors) == 0 {
		c.mirrors = DefaultMirrors
	}
	if c.fallback == "" {
		c.fallback = DefaultFallback
	}
	if c.userAgent == "" {
		c.userAgent = "RadioDex/1.0"
	}
	if c.fetchTimeout <= 0 {
		c.fetchTimeout = defaultFetchTimeout
	}
	if c.probeTimeout <= 0 {
		c.probeTimeout = defaultProbeTimeout
	}
	return c
}

// StationsByTag fetches stations for a single genre tag, ordered by
// clickcount descending upstream, and keeps only usable ones: bitrate at
// least MinBitrate and both url and url_resolved present.
func (c *Client) StationsByTag(ctx context.Context, tag string, limit int) []models.Station {
	return c.fetch(ctx, "/json/stations/bytag/"+url.PathEscape(tag), limit, func(s models.Station) bool {
		return s.Bitrate >= models.MinBitrate && s.URL != "" && s.URLResolved != ""
	})
}

// StationsByName searches stations by free-text name and keeps only those
// that are usable and whose tags match the supported genre vocabulary.
func (c *Client) StationsByName(ctx context.Context, query string, limit int) []models.Station {
	return c.fetch(ctx, "/json/stations/byname/"+url.PathEscape(query), limit, func(s models.Station) bool {
		return s.Bitrate >= models.MinBitrate && s.URLResolved != "" && models.HasGenreTag(s.Tags)
	})
}

// fetch resolves a mirror, issues the listing request, decodes the response,
// and applies keep to each station. Every failure mode degrades to an empty
// result; this method never returns an error.
func (c *Client) fetch(ctx context.Context, path string, limit int, keep func(models.Station) bool) []models.Station {
	mirror := c.resolveMirror(ctx)

	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("hidebroken", "true")
	params.Set("order", "clickcount")
	params.Set("reverse", "true")

	ctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mirror+path+"?"+params.Encode(), nil)
	if err != nil {
		log.Printf("browser: build request %s: %v", path, err)
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("browser: fetch %s: %v", path, err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("browser: fetch %s: HTTP %d", path, resp.StatusCode)
		return nil
	}

	var all []models.Station
	if err := json.NewDecoder(resp.Body).Decode(&all); err != nil {
		log.Printf("browser: decode %s: %v", path, err)
		return nil
	}

	stations := make([]models.Station, 0, len(all))
	for _, s := range all {
		if keep(s) {
			stations = append(stations, s)
		}
	}
	if limit > 0 && len(stations) > limit {
		stations = stations[:limit]
	}
	return stations
}
