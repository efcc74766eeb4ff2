package datadog

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// catalogPageLimit is the page size used when walking the software
// catalog with offset pagination.
const catalogPageLimit = 100

// listV2Page fetches one page of a v2 collection endpoint using the
// page[size]/page[number] convention.
func (c *client) listV2Page(path string, pageNumber, pageSize int) ([]Item, error) {
	params := url.Values{}
	params.Set("page[size]", strconv.Itoa(pageSize))
	params.Set("page[number]", strconv.Itoa(pageNumber))

	body, err := c.getRaw(path, params)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data []Item `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", path, err)
	}
	return envelope.Data, nil
}

// ListRoles returns one page of roles.
func (c *client) ListRoles(pageNumber, pageSize int) ([]Item, error) {
	return c.listV2Page("/api/v2/roles", pageNumber, pageSize)
}

// ListUsers returns one page of users.
func (c *client) ListUsers(pageNumber, pageSize int) ([]Item, error) {
	return c.listV2Page("/api/v2/users", pageNumber, pageSize)
}

// ListTeams returns one page of teams.
func (c *client) ListTeams(pageNumber, pageSize int) ([]Item, error) {
	return c.listV2Page("/api/v2/team", pageNumber, pageSize)
}

// GetTeamRoutingRules returns the on-call routing rules for a team.
func (c *client) GetTeamRoutingRules(teamID string) (json.RawMessage, error) {
	return c.getRaw("/api/v2/on-call/teams/"+url.PathEscape(teamID)+"/routing-rules", nil)
}

// GetTeamOnCallUsers returns the users currently on call for a team.
func (c *client) GetTeamOnCallUsers(teamID string) (json.RawMessage, error) {
	return c.getRaw("/api/v2/on-call/teams/"+url.PathEscape(teamID)+"/on-call-users", nil)
}

// GetRestrictionPolicy returns the restriction policy attached to a
// "type:id" resource identifier. Most resources have none; that comes
// back as a 404 APIError.
func (c *client) GetRestrictionPolicy(resourceID string) (json.RawMessage, error) {
	return c.getRaw("/api/v2/restriction_policy/"+url.PathEscape(resourceID), nil)
}

// ListCatalogEntities walks the software catalog with offset
// pagination and returns all entities.
func (c *client) ListCatalogEntities() ([]Item, error) {
	var all []Item
	offset := 0
	for {
		params := url.Values{}
		params.Set("page[limit]", strconv.Itoa(catalogPageLimit))
		params.Set("page[offset]", strconv.Itoa(offset))

		body, err := c.getRaw("/api/v2/catalog/entity", params)
		if err != nil {
			return nil, err
		}

		var envelope struct {
			Data []Item `json:"data"`
		}
		if err := json.Unmarshal(body, &envelope); err != nil {
			return nil, fmt.Errorf("failed to parse catalog response: %w", err)
		}

		all = append(all, envelope.Data...)
		if len(envelope.Data) < catalogPageLimit {
			return all, nil
		}
		offset += catalogPageLimit
	}
}
