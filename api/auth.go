package api

import (
	"context"
	"net/url"
)

// Authenticate logs in with the account details given to NewWithAccount.
func (c *Client) Authenticate(ctx context.Context) (*AuthResult, error) {
	c.mu.RLock()
	email, password := c.email, c.password
	c.mu.RUnlock()

	if email == "" || password == "" {
		return nil, ErrNoCredentials
	}
	return c.AuthenticateWith(ctx, email, password)
}

// AuthenticateWith logs in with the given account details, replacing any
// stored ones.
func (c *Client) AuthenticateWith(ctx context.Context, email, password string) (*AuthResult, error) {
	if email == "" || password == "" {
		return nil, ErrNoCredentials
	}
	c.mu.Lock()
	c.email, c.password = email, password
	c.mu.Unlock()

	var res AuthResult
	body := map[string]string{"identity": email, "password": password}
	if err := c.postJSON(ctx, c.cfg.APIURL+"/api/collections/users/auth-with-password", body, false, &res); err != nil {
		return nil, err
	}

	if res.Token != "" {
		c.mu.Lock()
		c.token = res.Token
		c.loggedIn = true
		c.mu.Unlock()
	}
	return &res, nil
}

// JoinKey requests a join token for roomID. The client must be authenticated.
func (c *Client) JoinKey(ctx context.Context, roomType, roomID string) (JoinKeyResult, error) {
	if !c.LoggedIn() {
		return JoinKeyResult{}, ErrNotAuthenticated
	}
	var res JoinKeyResult
	u := c.cfg.APIURL + "/api/joinkey/" + url.PathEscape(roomType) + "/" + url.PathEscape(roomID)
	err := c.getJSON(ctx, u, true, &res)
	return res, err
}
