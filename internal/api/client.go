// Copyright (c) 2025 Driftwatch
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package api is the HTTP client for the driftwatch backend. It covers the
// credential sign-in/sign-out pair the session depends on, plus account
// and drift-status lookups. Endpoints come from the server manifest.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"driftwatch/cli/internal/manifest"

	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized is returned when the backend rejects the token.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInvalidCredentials is returned when sign-in is rejected.
var ErrInvalidCredentials = errors.New("invalid email or password")

// Client talks to the driftwatch HTTP API.
type Client struct {
	http      *resty.Client
	endpoints manifest.HTTPEndpoints
}

// New creates a Client for the given base URL and endpoint paths.
func New(baseURL string, endpoints manifest.HTTPEndpoints) *Client {
	hc := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(15 * time.Second).
		SetHeader("User-Agent", "driftwatch-cli/1.0").
		SetHeader("Accept", "application/json")

	return &Client{http: hc, endpoints: endpoints}
}

// Account describes the authenticated user as reported by the backend.
type Account struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// DriftStatus is the drift summary for the linked database.
type DriftStatus struct {
	Database     string    `json:"database"`
	Fingerprint  string    `json:"fingerprint"`
	LastSnapshot time.Time `json:"last_snapshot"`
	Drifted      bool      `json:"drifted"`
	Findings     []Finding `json:"findings"`
}

// Finding is a single detected schema change.
type Finding struct {
	Object   string `json:"object"`
	Change   string `json:"change"` // added|removed|altered
	Detail   string `json:"detail"`
	Severity string `json:"severity"`
}

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signInResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

type apiError struct {
	Error string `json:"error"`
}

// SignIn posts credentials and returns the issued token and user id.
// A rejected sign-in surfaces as ErrInvalidCredentials; the caller's
// session stays untouched.
func (c *Client) SignIn(ctx context.Context, email, password string) (token, userID string, err error) {
	var out signInResponse
	var apiErr apiError

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(signInRequest{Email: email, Password: password}).
		SetResult(&out).
		SetError(&apiErr).
		Post(c.endpoints.SignIn)
	if err != nil {
		return "", "", err
	}

	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return "", "", ErrInvalidCredentials
	case resp.IsError():
		return "", "", fmt.Errorf("sign-in failed: %s", errorDetail(resp, apiErr))
	}

	if out.Token == "" {
		return "", "", errors.New("sign-in response missing token")
	}
	return out.Token, out.UserID, nil
}

// SignOut invalidates the token server-side. Callers treat this as
// fire-and-forget: local session state clears regardless of the outcome.
func (c *Client) SignOut(ctx context.Context, token string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		Post(c.endpoints.SignOut)
	if err != nil {
		return err
	}
	if resp.IsError() && resp.StatusCode() != http.StatusUnauthorized {
		return fmt.Errorf("sign-out failed: status %d", resp.StatusCode())
	}
	return nil
}

// Me returns the account for the given token.
func (c *Client) Me(ctx context.Context, token string) (*Account, error) {
	var out Account

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetResult(&out).
		Get(c.endpoints.Me)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.IsError() {
		return nil, fmt.Errorf("me failed: status %d", resp.StatusCode())
	}
	return &out, nil
}

// Status returns the drift status for the linked database.
func (c *Client) Status(ctx context.Context, token, database string) (*DriftStatus, error) {
	var out DriftStatus

	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetQueryParam("database", database).
		SetResult(&out).
		Get(c.endpoints.Status)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return nil, ErrUnauthorized
	}
	if resp.IsError() {
		return nil, fmt.Errorf("status failed: status %d", resp.StatusCode())
	}
	return &out, nil
}

// Version returns the backend version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		Version string `json:"version"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		Get(c.endpoints.Version)
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", fmt.Errorf("version failed: status %d", resp.StatusCode())
	}
	return out.Version, nil
}

func errorDetail(resp *resty.Response, apiErr apiError) string {
	if apiErr.Error != "" {
		return apiErr.Error
	}
	return fmt.Sprintf("status %d", resp.StatusCode())
}
