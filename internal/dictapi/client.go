// internal/dictapi/client.go
//
// Client for the free dictionary API (dictionaryapi.dev), used as the
// last-resort existence check for words missing from the local dictionary.
//
// A word "exists" when GET {base}/{word} returns a body that decodes as a
// non-empty JSON array whose first element is an object. The API answers
// unknown words with 404 and an object body; that is a plain "no", not an
// error. Transport failures and bodies that are not JSON are errors.

package dictapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the public English entries endpoint.
const DefaultBaseURL = "https://api.dictionaryapi.dev/api/v2/entries/en"

// Client performs remote word lookups.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for baseURL (DefaultBaseURL if empty) with the given timeout.
// A zero timeout leaves the request bounded only by its context.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Exists reports whether the API knows word. The word is sent lowercased.
// A non-nil error always comes with false.
func (c *Client) Exists(ctx context.Context, word string) (bool, error) {
	u := c.baseURL + "/" + url.PathEscape(strings.ToLower(word))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("lookup %q: %w", word, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return false, nil
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return false, fmt.Errorf("decode %q (status %d): %w", word, resp.StatusCode, err)
	}
	// {"title":"No Definitions Found",...}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return false, nil
	}
	var entries []map[string]any
	if err := json.Unmarshal(raw, &entries); err != nil {
		return false, fmt.Errorf("decode %q (status %d): %w", word, resp.StatusCode, err)
	}
	return len(entries) > 0 && entries[0] != nil, nil
}
