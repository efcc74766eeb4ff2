package datadog

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// ListMonitors returns one page of monitors. The endpoint returns a
// flat JSON array; a page shorter than pageSize is the last one.
func (c *client) ListMonitors(page, pageSize int) ([]Item, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("page_size", strconv.Itoa(pageSize))

	body, err := c.getRaw("/api/v1/monitor", params)
	if err != nil {
		return nil, err
	}

	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to parse monitor list: %w", err)
	}
	return items, nil
}

// ListDashboards returns all dashboard summaries. The full definition
// must be fetched per id with GetDashboard.
func (c *client) ListDashboards() ([]Item, error) {
	body, err := c.getRaw("/api/v1/dashboard", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Dashboards []Item `json:"dashboards"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse dashboard list: %w", err)
	}
	return resp.Dashboards, nil
}

// GetDashboard returns the full dashboard payload.
func (c *client) GetDashboard(id string) (json.RawMessage, error) {
	return c.getRaw("/api/v1/dashboard/"+url.PathEscape(id), nil)
}

// ListNotebooks returns all notebook summaries. Depending on the API
// version the payload is either a data envelope or a bare array.
func (c *client) ListNotebooks() ([]Item, error) {
	body, err := c.getRaw("/api/v1/notebooks", nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeItemList(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse notebook list: %w", err)
	}
	return items, nil
}

// GetNotebook returns the full notebook payload.
func (c *client) GetNotebook(id string) (json.RawMessage, error) {
	return c.getRaw("/api/v1/notebooks/"+url.PathEscape(id), nil)
}

// SearchSLOs returns all SLOs. The search endpoint nests results under
// data.attributes; older deployments only expose the plain list
// endpoint, so a 404 or 400 falls back to ListSLOs.
func (c *client) SearchSLOs() ([]Item, error) {
	params := url.Values{}
	params.Set("query", "")

	body, err := c.getRaw("/api/v1/slo/search", params)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.StatusCode == 404 || apiErr.StatusCode == 400) {
			return c.listSLOs()
		}
		return nil, err
	}

	items, err := decodeSLOSearch(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SLO search response: %w", err)
	}
	return items, nil
}

// listSLOs is the fallback for accounts without the search endpoint.
func (c *client) listSLOs() ([]Item, error) {
	body, err := c.getRaw("/api/v1/slo", nil)
	if err != nil {
		return nil, err
	}
	items, err := decodeItemList(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse SLO list: %w", err)
	}
	return items, nil
}

// ListHostTags returns the org-wide host tag mapping as a single
// snapshot payload.
func (c *client) ListHostTags() (json.RawMessage, error) {
	return c.getRaw("/api/v1/tags/hosts", nil)
}

// decodeItemList handles the two shapes list endpoints come in: a
// {"data": [...]} envelope or a bare array. An envelope with a null or
// missing data key is an empty org, not a decode failure.
func decodeItemList(body []byte) ([]Item, error) {
	var envelope struct {
		Data []Item `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil {
		return envelope.Data, nil
	}

	var items []Item
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeSLOSearch digs the SLO list out of the search envelope:
// data as a bare list, or data.attributes.slos / data.attributes.slo_data.
func decodeSLOSearch(body []byte) ([]Item, error) {
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Data) == 0 {
		return nil, nil
	}

	// data is a plain list on some API versions.
	var items []Item
	if err := json.Unmarshal(envelope.Data, &items); err == nil {
		return items, nil
	}

	var nested struct {
		Attributes struct {
			Slos    []Item `json:"slos"`
			SloData []Item `json:"slo_data"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal(envelope.Data, &nested); err != nil {
		return nil, err
	}
	if nested.Attributes.Slos != nil {
		return nested.Attributes.Slos, nil
	}
	return nested.Attributes.SloData, nil
}
