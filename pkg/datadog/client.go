// Package datadog is a thin typed client for the parts of the Datadog
// management API that ddsnap exports. Responses are kept as raw JSON;
// the client only decodes the envelope far enough to enumerate items
// and paginate.
package datadog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// Auth headers expected by the Datadog API.
const (
	APIKeyHeader = "DD-API-KEY"
	AppKeyHeader = "DD-APPLICATION-KEY"
)

// API provides access to the Datadog management endpoints used by the
// export fetchers.
type API interface {
	// ListMonitors returns one page of monitors (flat objects with
	// top-level id and name).
	ListMonitors(page, pageSize int) ([]Item, error)
	// ListDashboards returns all dashboard summaries.
	ListDashboards() ([]Item, error)
	// GetDashboard returns the full dashboard payload.
	GetDashboard(id string) (json.RawMessage, error)
	// ListNotebooks returns all notebook summaries.
	ListNotebooks() ([]Item, error)
	// GetNotebook returns the full notebook payload.
	GetNotebook(id string) (json.RawMessage, error)
	// SearchSLOs returns all SLOs, falling back to the plain list
	// endpoint when search is unavailable.
	SearchSLOs() ([]Item, error)
	// ListHostTags returns the org-wide host tag mapping.
	ListHostTags() (json.RawMessage, error)
	// ListRoles returns one page of roles.
	ListRoles(pageNumber, pageSize int) ([]Item, error)
	// ListUsers returns one page of users.
	ListUsers(pageNumber, pageSize int) ([]Item, error)
	// ListTeams returns one page of teams.
	ListTeams(pageNumber, pageSize int) ([]Item, error)
	// GetTeamRoutingRules returns the on-call routing rules for a team.
	GetTeamRoutingRules(teamID string) (json.RawMessage, error)
	// GetTeamOnCallUsers returns the users currently on call for a team.
	GetTeamOnCallUsers(teamID string) (json.RawMessage, error)
	// GetRestrictionPolicy returns the restriction policy for a
	// "type:id" resource identifier. Absence is reported as a 404
	// APIError, distinguishable with IsNotFound.
	GetRestrictionPolicy(resourceID string) (json.RawMessage, error)
	// ListCatalogEntities returns all software catalog entities.
	ListCatalogEntities() ([]Item, error)
}

// APIError represents an error response from the Datadog API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// client implements API over HTTP.
type client struct {
	baseURL    string
	apiKey     string
	appKey     string
	httpClient *http.Client
}

// Option configures a client.
type Option func(*client)

// WithTimeout sets the HTTP timeout for the client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *client) {
		c.httpClient = hc
	}
}

// WithBaseURL overrides the API base URL. Used by tests and by
// proxied setups.
func WithBaseURL(baseURL string) Option {
	return func(c *client) {
		c.baseURL = baseURL
	}
}

// NewClient creates a Datadog API client for the given site domain
// (e.g. "datadoghq.com", "us5.datadoghq.com").
func NewClient(site, apiKey, appKey string, opts ...Option) API {
	c := &client{
		baseURL: "https://api." + site,
		apiKey:  apiKey,
		appKey:  appKey,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// getRaw performs a GET and returns the response body unparsed.
func (c *client) getRaw(path string, params url.Values) (json.RawMessage, error) {
	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	req, err := http.NewRequest(http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(APIKeyHeader, c.apiKey)
	req.Header.Set(AppKeyHeader, c.appKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{
			StatusCode: 0,
			Message:    fmt.Sprintf("cannot reach Datadog API at %s: %v", c.baseURL, err),
		}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, parseError(resp.StatusCode, body)
	}
	return body, nil
}

// parseError extracts an error message from a Datadog error body, which
// is usually {"errors": ["..."]}.
func parseError(status int, body []byte) error {
	var errResp struct {
		Errors []string `json:"errors"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && len(errResp.Errors) > 0 {
		return &APIError{StatusCode: status, Message: errResp.Errors[0]}
	}
	return &APIError{
		StatusCode: status,
		Message:    fmt.Sprintf("Datadog API returned status %d", status),
	}
}
