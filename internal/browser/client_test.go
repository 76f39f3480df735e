package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dialwave/radiodex/internal/models"
)

// mockMirror serves the probe path and both listing paths from a canned
// station set, recording the query parameters of the last listing request.
type mockMirror struct {
	*httptest.Server
	stations  []models.Station
	lastPath  string
	lastQuery map[string]string
}

func newMockMirror(stations []models.Station) *mockMirror {
	m := &mockMirror{stations: stations}
	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/json/stations":
			w.WriteHeader(http.StatusOK)
		case strings.HasPrefix(r.URL.Path, "/json/stations/bytag/"),
			strings.HasPrefix(r.URL.Path, "/json/stations/byname/"):
			m.lastPath = r.URL.Path
			m.lastQuery = map[string]string{}
			for k := range r.URL.Query() {
				m.lastQuery[k] = r.URL.Query().Get(k)
			}
			_ = json.NewEncoder(w).Encode(m.stations)
		default:
			http.NotFound(w, r)
		}
	}))
	return m
}

func newTestClient(mirrors []string, fallback string) *Client {
	return NewClient(Options{
		Mirrors:      mirrors,
		Fallback:     fallback,
		FetchTimeout: 2 * time.Second,
		ProbeTimeout: 200 * time.Millisecond,
	})
}

func usableStation(uuid string, bitrate int, tags string) models.Station {
	return models.Station{
		StationUUID: uuid,
		Name:        "station " + uuid,
		URL:         "http://stream.example/" + uuid,
		URLResolved: "http://stream.example/" + uuid,
		Tags:        tags,
		Bitrate:     bitrate,
	}
}

func TestStationsByTagFiltersAndTruncates(t *testing.T) {
	// 15 stations, 5 below the bitrate floor: asking for 10 must return
	// exactly the 10 qualifying ones in upstream order.
	var stations []models.Station
	for i := 0; i < 10; i++ {
		stations = append(stations, usableStation(fmt.Sprintf("ok-%d", i), 128, "techno"))
	}
	for i := 0; i < 5; i++ {
		stations = append(stations, usableStation(fmt.Sprintf("low-%d", i), 32, "techno"))
	}
	mirror := newMockMirror(stations)
	defer mirror.Close()

	c := newTestClient([]string{mirror.URL}, mirror.URL)
	got := c.StationsByTag(context.Background(), "techno", 10)

	if len(got) != 10 {
		t.Fatalf("got %d stations, want 10", len(got))
	}
	for i, s := range got {
		if s.Bitrate < models.MinBitrate {
			t.Errorf("station %d has bitrate %d below floor", i, s.Bitrate)
		}
		if s.URLResolved == "" {
			t.Errorf("station %d has no resolved url", i)
		}
		if want := fmt.Sprintf("ok-%d", i); s.StationUUID != want {
			t.Errorf("station %d = %s, want %s (upstream order must be preserved)", i, s.StationUUID, want)
		}
	}
}

func TestStationsByTagRequestShape(t *testing.T) {
	mirror := newMockMirror(nil)
	defer mirror.Close()

	c := newTestClient([]string{mirror.URL}, mirror.URL)
	c.StationsByTag(context.Background(), "deep house", 20)

	if want := "/json/stations/bytag/deep house"; mirror.lastPath != want {
		t.Errorf("path = %s, want %s", mirror.lastPath, want)
	}
	for k, want := range map[string]string{
		"limit":      "20",
		"hidebroken": "true",
		"order":      "clickcount",
		"reverse":    "true",
	} {
		if got := mirror.lastQuery[k]; got != want {
			t.Errorf("query %s = %q, want %q", k, got, want)
		}
	}
}

func TestStationsByTagDropsMissingURLs(t *testing.T) {
	stations := []models.Station{
		usableStation("keep", 128, "techno"),
		{StationUUID: "no-url", URLResolved: "http://x", Bitrate: 128},
		{StationUUID: "no-resolved", URL: "http://x", Bitrate: 128},
	}
	mirror := newMockMirror(stations)
	defer mirror.Close()

	c := newTestClient([]string{mirror.URL}, mirror.URL)
	got := c.StationsByTag(context.Background(), "techno", 10)

	if len(got) != 1 || got[0].StationUUID != "keep" {
		t.Fatalf("got %v, want only the station with both urls", got)
	}
}

func TestStationsByNameVocabularyFilter(t *testing.T) {
	stations := []models.Station{
		usableStation("t1", 128, "Detroit Techno"),
		usableStation("t2", 128, "jazz,swing"),
		usableStation("t3", 192, "dance,pop"),
		usableStation("t4", 128, ""),
	}
	mirror := newMockMirror(stations)
	defer mirror.Close()

	c := newTestClient([]string{mirror.URL}, mirror.URL)
	got := c.StationsByName(context.Background(), "radio", 30)

	if len(got) != 2 {
		t.Fatalf("got %d stations, want 2", len(got))
	}
	if got[0].StationUUID != "t1" || got[1].StationUUID != "t3" {
		t.Errorf("got %s,%s want t1,t3", got[0].StationUUID, got[1].StationUUID)
	}
}

func TestFetchFailuresReturnEmpty(t *testing.T) {
	t.Run("upstream 500", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/json/stations" {
				w.WriteHeader(http.StatusOK) // probe passes
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		c := newTestClient([]string{srv.URL}, srv.URL)
		if got := c.StationsByTag(context.Background(), "techno", 10); len(got) != 0 {
			t.Errorf("got %d stations, want empty on upstream error", len(got))
		}
	})

	t.Run("malformed payload", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/json/stations" {
				w.WriteHeader(http.StatusOK)
				return
			}
			fmt.Fprint(w, `{"not":"a list"}`)
		}))
		defer srv.Close()

		c := newTestClient([]string{srv.URL}, srv.URL)
		if got := c.StationsByName(context.Background(), "radio", 10); len(got) != 0 {
			t.Errorf("got %d stations, want empty on malformed payload", len(got))
		}
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		dead.Close()

		c := newTestClient([]string{dead.URL}, dead.URL)
		if got := c.StationsByTag(context.Background(), "techno", 10); len(got) != 0 {
			t.Errorf("got %d stations, want empty when nothing is reachable", len(got))
		}
	})
}

func TestResolverFallsBackWhenAllMirrorsFail(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close() // connection refused from now on

	failing := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failing.Close()

	fallback := newMockMirror([]models.Station{usableStation("via-fallback", 128, "techno")})
	defer fallback.Close()

	c := newTestClient([]string{dead.URL, failing.URL}, fallback.URL)
	got := c.StationsByTag(context.Background(), "techno", 10)

	if len(got) != 1 || got[0].StationUUID != "via-fallback" {
		t.Fatalf("got %v, want the station served by the fallback mirror", got)
	}
}

func TestResolverShortCircuitsOnFirstHealthyMirror(t *testing.T) {
	probed := 0
	second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probed++
		w.WriteHeader(http.StatusOK)
	}))
	defer second.Close()

	first := newMockMirror([]models.Station{usableStation("s1", 128, "techno")})
	defer first.Close()

	c := newTestClient([]string{first.URL, second.URL}, second.URL)
	c.StationsByTag(context.Background(), "techno", 10)

	if probed != 0 {
		t.Errorf("second mirror was probed %d times, want 0 (first mirror is healthy)", probed)
	}
}
