// Package zenodo talks to the archive service's public API. Only the
// community-membership check lives here; downloads and authentication
// are handled by the operator outside this tool.
package zenodo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// RecordFile is the conventional file holding the archive URL of the
// package's current deposit.
const RecordFile = ".zenodo"

var recordIDPattern = regexp.MustCompile(`/(\d+)`)

// ExtractRecordID pulls the numeric record id out of a Zenodo URL.
func ExtractRecordID(url string) (string, error) {
	m := recordIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", fmt.Errorf("no record id in url: %s", url)
	}
	return m[1], nil
}

// Client queries the archive API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for the given API base URL, e.g.
// "https://zenodo.org".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

type communitiesResponse struct {
	Hits struct {
		Hits []struct {
			Slug string `json:"slug"`
		} `json:"hits"`
	} `json:"hits"`
}

// InCommunity reports whether a record belongs to the named community.
// No retries: a failed check is surfaced and the operator runs it again.
func (c *Client) InCommunity(ctx context.Context, recordID, community string) (bool, error) {
	url := fmt.Sprintf("%s/api/records/%s/communities", c.baseURL, recordID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("query communities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("query communities: unexpected status %d", resp.StatusCode)
	}

	var body communitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, fmt.Errorf("decode communities response: %w", err)
	}

	for _, hit := range body.Hits.Hits {
		if hit.Slug == community {
			return true, nil
		}
	}
	return false, nil
}
