package api

import (
	"context"
	"maps"
	"net/url"
	"slices"
)

const (
	cacheRoomTypes = "roomtypes"
	cacheMappings  = "mappings"
)

// RoomTypes returns the server's room types. The first successful fetch is
// cached; later calls do no I/O.
func (c *Client) RoomTypes(ctx context.Context) ([]string, error) {
	if rt, ok := c.CachedRoomTypes(); ok {
		return rt, nil
	}
	return c.RefreshRoomTypes(ctx)
}

// RefreshRoomTypes fetches the room types and replaces the cached value.
func (c *Client) RefreshRoomTypes(ctx context.Context) ([]string, error) {
	var rt []string
	if err := c.getJSON(ctx, c.cfg.GameHTTPURL+"/listroomtypes", false, &rt); err != nil {
		return nil, err
	}
	c.cache.Add(cacheRoomTypes, rt)
	return slices.Clone(rt), nil
}

// CachedRoomTypes returns the cached room types, if any were fetched.
func (c *Client) CachedRoomTypes() ([]string, bool) {
	v, ok := c.cache.Get(cacheRoomTypes)
	if !ok {
		return nil, false
	}
	rt := v.([]string)
	return slices.Clone(rt), len(rt) > 0
}

// Mappings returns the block name to block id table.
func (c *Client) Mappings(ctx context.Context) (map[string]int, error) {
	if v, ok := c.cache.Get(cacheMappings); ok {
		return maps.Clone(v.(map[string]int)), nil
	}
	var m map[string]int
	if err := c.getJSON(ctx, c.cfg.GameHTTPURL+"/mappings", false, &m); err != nil {
		return nil, err
	}
	c.cache.Add(cacheMappings, m)
	return maps.Clone(m), nil
}

// VisibleWorlds returns the lobby listing for the first room type. Room types
// must have been fetched before.
func (c *Client) VisibleWorlds(ctx context.Context) (*LobbyResult, error) {
	rt, ok := c.CachedRoomTypes()
	if !ok {
		return nil, ErrNoRoomTypes
	}
	var res LobbyResult
	if err := c.getJSON(ctx, c.cfg.GameHTTPURL+"/room/list/"+url.PathEscape(rt[0]), false, &res); err != nil {
		return nil, err
	}
	return &res, nil
}
