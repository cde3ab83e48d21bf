package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mergington/internal/domain/activity"
)

// Client is the HTTP gateway to the activities server. All methods return
// a *ServerError for non-2xx responses and a wrapped transport error when
// the request never completed.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway for the server at baseURL.
// PRE: baseURL is a valid http(s) URL
// POST: Returns a ready-to-use client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
	}
}

// envelope is the server's response body for mutating calls: message on
// success, detail on rejection.
type envelope struct {
	Message string `json:"message"`
	Detail  string `json:"detail"`
}

// LoginResult carries the credentials issued by a successful login.
type LoginResult struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// StatusResult carries the server's view of a session token.
type StatusResult struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
}

// FetchActivities retrieves the full activity catalog.
// PRE: none
// POST: Returns the complete catalog or an error; never a partial catalog
func (c *Client) FetchActivities(ctx context.Context) (activity.Catalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/activities", nil)
	if err != nil {
		return nil, fmt.Errorf("build activities request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch activities: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, serverError(resp)
	}

	var catalog activity.Catalog
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return catalog, nil
}

// SignUp registers an email for an activity.
// PRE: name and email are non-empty
// POST: Returns the server's confirmation message on success
func (c *Client) SignUp(ctx context.Context, name, email, token string) (string, error) {
	u := fmt.Sprintf("%s/activities/%s/signup?email=%s",
		c.baseURL, url.PathEscape(name), url.QueryEscape(email))
	return c.mutate(ctx, http.MethodPost, u, token)
}

// Unregister removes an email from an activity. Requires a session token.
// PRE: name and email are non-empty, token is non-empty
// POST: Returns the server's confirmation message on success
func (c *Client) Unregister(ctx context.Context, name, email, token string) (string, error) {
	u := fmt.Sprintf("%s/activities/%s/unregister?email=%s",
		c.baseURL, url.PathEscape(name), url.QueryEscape(email))
	return c.mutate(ctx, http.MethodDelete, u, token)
}

// Login exchanges credentials for a session token.
// PRE: username and password are non-empty
// POST: Returns token and username on success; *ServerError carries the
// rejection detail otherwise
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	if err != nil {
		return LoginResult{}, fmt.Errorf("encode login request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return LoginResult{}, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LoginResult{}, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return LoginResult{}, serverError(resp)
	}

	var result LoginResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return LoginResult{}, fmt.Errorf("decode login response: %w", err)
	}
	return result, nil
}

// Logout notifies the server that the session is over. The response body
// is ignored; callers treat failures as non-fatal.
// PRE: token is non-empty
// POST: Server has been notified, or an error is returned
func (c *Client) Logout(ctx context.Context, token string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/logout", nil)
	if err != nil {
		return fmt.Errorf("build logout request: %w", err)
	}
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp)
	}
	return nil
}

// Status asks the server whether a token is still valid.
// PRE: token is non-empty
// POST: Returns the server's authentication verdict
func (c *Client) Status(ctx context.Context, token string) (StatusResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/auth/status", nil)
	if err != nil {
		return StatusResult{}, fmt.Errorf("build status request: %w", err)
	}
	req.Header.Set("Authorization", token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return StatusResult{}, fmt.Errorf("check status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return StatusResult{}, serverError(resp)
	}

	var result StatusResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return StatusResult{}, fmt.Errorf("decode status response: %w", err)
	}
	return result, nil
}

// mutate issues a signup/unregister call and decodes the message envelope.
func (c *Client) mutate(ctx context.Context, method, u, token string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", serverError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return env.Message, nil
}

// serverError builds a *ServerError from a non-2xx response, decoding the
// detail field when the server supplied one.
func serverError(resp *http.Response) error {
	var env envelope
	_ = json.NewDecoder(resp.Body).Decode(&env)
	return &ServerError{StatusCode: resp.StatusCode, Detail: env.Detail}
}
