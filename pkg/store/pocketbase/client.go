// Package pocketbase reads record collections from a PocketBase REST API
package pocketbase

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/de-tools/pulse-atlas/pkg/models/domain"
	"github.com/de-tools/pulse-atlas/pkg/models/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
)

const (
	defaultPerPage = 200
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 512
)

type Settings struct {
	URL     string
	Token   string
	PerPage int
	Timeout time.Duration
	// MaxConcurrentRequests bounds in-flight requests, 0 means unbounded
	MaxConcurrentRequests int
}

type Client struct {
	baseURL    string
	authToken  string
	perPage    int
	httpClient *http.Client
	sem        *semaphore.Weighted
}

type listResponse struct {
	Page       int              `json:"page"`
	PerPage    int              `json:"perPage"`
	TotalItems int              `json:"totalItems"`
	TotalPages int              `json:"totalPages"`
	Items      []store.Document `json:"items"`
}

func NewClient(settings Settings) (*Client, error) {
	if settings.URL == "" {
		return nil, fmt.Errorf("pocketbase url is required")
	}
	if _, err := url.Parse(settings.URL); err != nil {
		return nil, fmt.Errorf("invalid pocketbase url: %w", err)
	}

	perPage := settings.PerPage
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	timeout := settings.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	var sem *semaphore.Weighted
	if settings.MaxConcurrentRequests > 0 {
		sem = semaphore.NewWeighted(int64(settings.MaxConcurrentRequests))
	}

	return &Client{
		baseURL:    strings.TrimRight(settings.URL, "/"),
		authToken:  settings.Token,
		perPage:    perPage,
		httpClient: &http.Client{Timeout: timeout},
		sem:        sem,
	}, nil
}

// Fetch returns every record of the collection, following pagination
func (c *Client) Fetch(ctx context.Context, collection domain.Collection) ([]store.Document, error) {
	logger := zerolog.Ctx(ctx).With().Str("collection", string(collection)).Logger()

	documents := make([]store.Document, 0)
	for page := 1; ; page++ {
		resp, err := c.listPage(ctx, collection, page)
		if err != nil {
			return nil, err
		}
		documents = append(documents, resp.Items...)

		logger.Debug().
			Int("page", page).
			Int("total_pages", resp.TotalPages).
			Int("items", len(resp.Items)).
			Msg("fetched records page")

		if page >= resp.TotalPages || len(resp.Items) == 0 {
			break
		}
	}

	logger.Info().Int("records", len(documents)).Msg("collection fetched")
	return documents, nil
}

func (c *Client) listPage(ctx context.Context, collection domain.Collection, page int) (*listResponse, error) {
	if c.sem != nil {
		if err := c.sem.Acquire(ctx, 1); err != nil {
			return nil, fmt.Errorf("failed to acquire request slot: %w", err)
		}
		defer c.sem.Release(1)
	}

	query := url.Values{}
	query.Set("page", strconv.Itoa(page))
	query.Set("perPage", strconv.Itoa(c.perPage))
	apiURL := fmt.Sprintf("%s/api/collections/%s/records?%s", c.baseURL, url.PathEscape(string(collection)), query.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if c.authToken != "" {
		req.Header.Set("Authorization", c.authToken)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s records: %w", collection, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("list %s records: %s - %s", collection, resp.Status, strings.TrimSpace(string(body)))
	}

	var result listResponse
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&result); err != nil {
		return nil, fmt.Errorf("decode %s records: %w", collection, err)
	}
	return &result, nil
}
