package playback

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/lab-control/lcc/config"
	"github.com/lab-control/lcc/protocol"
)

// Fetcher retrieves a recorded session from the historical-data endpoint.
// The fetch happens once per replay session; the result is immutable.
type Fetcher struct {
	endpoint string
	token    string
	client   *http.Client
}

// NewFetcher creates a fetcher against the given REST endpoint base URL.
func NewFetcher(endpoint, token string, timing *config.Timing) *Fetcher {
	if timing == nil {
		timing = config.Baseline()
	}
	return &Fetcher{
		endpoint: strings.TrimRight(endpoint, "/"),
		token:    token,
		client:   &http.Client{Timeout: timing.FetchTimeout},
	}
}

// Fetch retrieves the recording for one session. The speed parameter is an
// advisory hint the server may ignore; events are always fetched at the
// canonical 1.0 scale and all speed scaling happens client-side, so the hint
// is pinned to 1.
func (f *Fetcher) Fetch(ctx context.Context, sessionID string) (*protocol.SessionMeta, *EventLog, error) {
	reqURL := fmt.Sprintf("%s/api/v1/sessions/%s/playback?speed=1", f.endpoint, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build playback request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+f.token)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("playback fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("playback fetch returned status %d", resp.StatusCode)
	}

	var recording protocol.Recording
	if err := json.NewDecoder(resp.Body).Decode(&recording); err != nil {
		return nil, nil, fmt.Errorf("failed to decode playback response: %w", err)
	}

	log, err := NewEventLog(recording.Events)
	if err != nil {
		return nil, nil, fmt.Errorf("playback data for session %s is corrupt: %w", sessionID, err)
	}

	return &recording.Session, log, nil
}
