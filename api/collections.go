package api

import (
	"context"
	"fmt"
)

func pageURL(base, collection string, page, perPage int, q *Query) string {
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = 10
	}
	return fmt.Sprintf("%s/api/collections/%s/records?page=%d&perPage=%d%s", base, collection, page, perPage, q.Encode())
}

// OwnedWorlds lists the authenticated account's worlds.
func (c *Client) OwnedWorlds(ctx context.Context, page, perPage int, q *Query) (*CollectionResult[World], error) {
	var res CollectionResult[World]
	if err := c.getJSON(ctx, pageURL(c.cfg.APIURL, "worlds", page, perPage, q), true, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PublicWorlds lists public worlds.
func (c *Client) PublicWorlds(ctx context.Context, page, perPage int, q *Query) (*CollectionResult[World], error) {
	var res CollectionResult[World]
	if err := c.getJSON(ctx, pageURL(c.cfg.APIURL, "public_worlds", page, perPage, q), false, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Players lists public player profiles.
func (c *Client) Players(ctx context.Context, page, perPage int, q *Query) (*CollectionResult[Player], error) {
	var res CollectionResult[Player]
	if err := c.getJSON(ctx, pageURL(c.cfg.APIURL, "public_profiles", page, perPage, q), false, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// PublicWorld returns the public world with the given id, or ErrNotFound.
func (c *Client) PublicWorld(ctx context.Context, id string) (*World, error) {
	res, err := c.PublicWorlds(ctx, 1, 1, &Query{Filter: map[string]any{"id": id}})
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("world %s: %w", id, ErrNotFound)
	}
	return &res.Items[0], nil
}

// PlayerByName returns the profile with the given username, or ErrNotFound.
// Usernames are case sensitive and usually upper case.
func (c *Client) PlayerByName(ctx context.Context, username string) (*Player, error) {
	res, err := c.Players(ctx, 1, 1, &Query{Filter: map[string]any{"username": username}})
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, fmt.Errorf("player %s: %w", username, ErrNotFound)
	}
	return &res.Items[0], nil
}
