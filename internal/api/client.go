package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jask/sitepatrol/internal/patrol"
	"github.com/jask/sitepatrol/internal/service"
)

// Client talks to a remote sitepatrol server.
type Client struct {
	baseURL string
	http    *http.Client
}

var _ Service = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() { c.http.CloseIdleConnections() }

func (c *Client) Sites(ctx context.Context) ([]patrol.SiteSummary, error) {
	var out []patrol.SiteSummary
	err := c.do(ctx, http.MethodGet, "/api/sites", nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) Site(ctx context.Context, siteID string) (patrol.SiteAggregate, error) {
	var out patrol.SiteAggregate
	err := c.do(ctx, http.MethodGet, sitePath(siteID), nil, http.StatusOK, &out)
	return out, err
}

func (c *Client) CreateRoute(ctx context.Context, siteID string, req patrol.RouteRequest) (patrol.RouteRecord, error) {
	var out patrol.RouteRecord
	err := c.do(ctx, http.MethodPost, sitePath(siteID)+"/routes", req, http.StatusCreated, &out)
	return out, err
}

func (c *Client) UpdateRoute(ctx context.Context, siteID, routeID string, req patrol.RouteRequest) (patrol.RouteRecord, error) {
	var out patrol.RouteRecord
	err := c.do(ctx, http.MethodPut, routePath(siteID, routeID), req, http.StatusOK, &out)
	return out, err
}

func (c *Client) DeleteRoute(ctx context.Context, siteID, routeID string) error {
	return c.do(ctx, http.MethodDelete, routePath(siteID, routeID), nil, http.StatusNoContent, nil)
}

func (c *Client) Revisions(ctx context.Context, siteID, routeID string) ([]patrol.RouteRevision, error) {
	var out []patrol.RouteRevision
	err := c.do(ctx, http.MethodGet, routePath(siteID, routeID)+"/revisions", nil, http.StatusOK, &out)
	return out, err
}

func sitePath(siteID string) string {
	return "/api/sites/" + url.PathEscape(siteID)
}

func routePath(siteID, routeID string) string {
	return sitePath(siteID) + "/routes/" + url.PathEscape(routeID)
}

func (c *Client) do(ctx context.Context, method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// decodeError turns an error response back into the service sentinels.
func decodeError(resp *http.Response) error {
	var body errorBody
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err := json.Unmarshal(data, &body); err != nil || body.Error == "" {
		body.Error = strings.TrimSpace(string(data))
		if body.Error == "" {
			body.Error = resp.Status
		}
	}
	switch body.Code {
	case codeSiteNotFound:
		return rewrap(service.ErrSiteNotFound, body.Error)
	case codeRouteNotFound:
		return rewrap(service.ErrRouteNotFound, body.Error)
	case codeInvalidRoute:
		return rewrap(service.ErrInvalidRoute, body.Error)
	}
	return fmt.Errorf("server returned %d: %s", resp.StatusCode, body.Error)
}

func rewrap(sentinel error, msg string) error {
	detail := strings.TrimPrefix(msg, sentinel.Error())
	detail = strings.TrimPrefix(detail, ": ")
	if detail == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, detail)
}
