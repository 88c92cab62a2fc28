package api

import (
	"context"
	"errors"
	"net/url"
)

// minimapCollection is the storage collection id holding world minimaps.
const minimapCollection = "rhrbt6wqhc4s0cp"

// MinimapURL returns the URL of a world's minimap image.
func (c *Client) MinimapURL(worldID, minimap string) string {
	return c.cfg.APIURL + "/api/files/" + minimapCollection + "/" + url.PathEscape(worldID) + "/" + url.PathEscape(minimap)
}

// Minimap downloads a world's minimap image.
func (c *Client) Minimap(ctx context.Context, w *World) ([]byte, error) {
	data, err := c.getBytes(ctx, c.MinimapURL(w.ID, w.Minimap), false)
	var f *Failure
	if errors.As(err, &f) {
		return nil, ErrNoMinimap
	}
	return data, err
}

// SpritesJSON returns the atlas for auras, smileys and other sprites.
func (c *Client) SpritesJSON(ctx context.Context) (*AtlasResult, error) {
	return c.atlas(ctx, "/atlases/sprites.json")
}

// BlocksJSON returns the atlas for blocks.
func (c *Client) BlocksJSON(ctx context.Context) (*AtlasResult, error) {
	return c.atlas(ctx, "/atlases/blocks.json")
}

// SpritesPNG returns the sprite sheet matching SpritesJSON.
func (c *Client) SpritesPNG(ctx context.Context) ([]byte, error) {
	return c.getBytes(ctx, c.cfg.ClientURL+"/atlases/sprites.png", false)
}

// BlocksPNG returns the sprite sheet matching BlocksJSON.
func (c *Client) BlocksPNG(ctx context.Context) ([]byte, error) {
	return c.getBytes(ctx, c.cfg.ClientURL+"/atlases/blocks.png", false)
}

func (c *Client) atlas(ctx context.Context, path string) (*AtlasResult, error) {
	if v, ok := c.cache.Get(path); ok {
		return v.(*AtlasResult), nil
	}
	var res AtlasResult
	if err := c.getJSON(ctx, c.cfg.ClientURL+path, false, &res); err != nil {
		return nil, err
	}
	c.cache.Add(path, &res)
	return &res, nil
}
