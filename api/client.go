package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ramedia/lovescroll/model"
	"github.com/ramedia/lovescroll/store"
)

// Client fetches experience records from a Server
type Client struct {
	base string
	http *http.Client
}

// NewClient creates a client for base, e.g. "http://localhost:8080"; a nil hc uses a 10s timeout client
func NewClient(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

// Experience fetches and validates the record for slug with photos sorted by order
// Status 404 maps to store.ErrNotFound and 410 to store.ErrExpired
func (c *Client) Experience(ctx context.Context, slug string) (*model.Experience, error) {
	endpoint := c.base + "/api/experience/" + url.PathEscape(slug)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", slug, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("%s: %w", slug, store.ErrNotFound)
	case http.StatusGone:
		return nil, fmt.Errorf("%s: %w", slug, store.ErrExpired)
	default:
		return nil, fmt.Errorf("fetch %s: %s: %s", slug, resp.Status, readError(resp.Body))
	}

	var exp model.Experience
	if err := json.NewDecoder(resp.Body).Decode(&exp); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", model.ErrInvalidRecord, slug, err)
	}
	if exp.Features.Tier == "" && exp.Tier != "" {
		features, err := model.FeaturesFor(exp.Tier)
		if err != nil {
			return nil, err
		}
		exp.Features = features
	}
	exp.SortPhotos()
	if err := exp.Validate(); err != nil {
		return nil, err
	}
	return &exp, nil
}

func readError(r io.Reader) string {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(r, 4096)).Decode(&body); err != nil || body.Error == "" {
		return "unexpected response"
	}
	return body.Error
}
