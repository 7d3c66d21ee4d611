package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// Indices with these prefixes are internal to Elasticsearch and never
// suggested.
var hiddenIndexPrefixes = []string{".internal", ".ds"}

const maxErrorBody = 512

// Source identifies the Elasticsearch cluster to read from.
type Source struct {
	URL     string
	APIKey  string
	Timeout time.Duration
}

// Enabled reports whether both the URL and the API key are set.
func (s Source) Enabled() bool {
	return s.URL != "" && s.APIKey != ""
}

// Fetcher reads a complete schema snapshot.
type Fetcher interface {
	Fetch(ctx context.Context) (*Snapshot, error)
}

// Client fetches index mappings over the Elasticsearch REST API.
type Client struct {
	source Source
	http   *resty.Client
	now    func() time.Time
}

// NewClient creates a client for source.
func NewClient(source Source) *Client {
	c := resty.New().
		SetBaseURL(strings.TrimRight(source.URL, "/")).
		SetHeader("Authorization", "ApiKey "+source.APIKey).
		SetHeader("Accept", "application/json")
	if source.Timeout > 0 {
		c.SetTimeout(source.Timeout)
	}
	return &Client{source: source, http: c, now: time.Now}
}

type indexMapping struct {
	Mappings struct {
		Properties map[string]any `json:"properties"`
	} `json:"mappings"`
}

// Fetch reads GET /_mapping and returns the top-level properties of every
// visible index.
func (c *Client) Fetch(ctx context.Context) (*Snapshot, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		Get("/_mapping")
	if err != nil {
		return nil, &FetchError{URL: c.source.URL, Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		text := resp.String()
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &StatusError{URL: c.source.URL, StatusCode: resp.StatusCode(), Body: text}
	}

	var body map[string]indexMapping
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &FetchError{URL: c.source.URL, Err: fmt.Errorf("decode mapping: %w", err)}
	}

	fields := make(map[string][]string, len(body))
	for index, mapping := range body {
		if hidden(index) {
			continue
		}
		names := make([]string, 0, len(mapping.Mappings.Properties))
		for name := range mapping.Mappings.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		fields[index] = names
	}
	return &Snapshot{Fields: fields, FetchedAt: c.now()}, nil
}

func hidden(index string) bool {
	for _, p := range hiddenIndexPrefixes {
		if strings.HasPrefix(index, p) {
			return true
		}
	}
	return false
}
