package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sternrassler/medshield-admin/pkg/cache"
	"github.com/Sternrassler/medshield-admin/pkg/model"
	"golang.org/x/sync/singleflight"
)

// Endpoints of the compliance API.
const (
	EndpointCount      = "/proc/count"
	EndpointList       = "/proc/list"
	EndpointMatrix     = "/proc/matrix"
	EndpointStandards  = "/proc/standards"
	EndpointCategories = "/proc/categories"
	EndpointMe         = "/me"
)

const maxBodyBytes = 32 << 20

// CountClusters returns the number of clusters matching f.
func (c *Client) CountClusters(ctx context.Context, f model.FilterCriteria) (int, error) {
	var count int
	if err := c.getJSON(ctx, EndpointCount, f.Values(), &count); err != nil {
		return 0, err
	}
	return count, nil
}

// ListClusters returns at most limit clusters matching f, starting at skip.
func (c *Client) ListClusters(ctx context.Context, f model.FilterCriteria, skip, limit int) ([]model.DocumentCluster, error) {
	query := f.Values()
	query.Set("skip", strconv.Itoa(skip))
	query.Set("limit", strconv.Itoa(limit))

	var clusters []model.DocumentCluster
	if err := c.getJSON(ctx, EndpointList, query, &clusters); err != nil {
		return nil, err
	}
	return clusters, nil
}

// Matrix returns cluster counts per phase and role. Only the subject,
// category, standard and priority of f are sent.
func (c *Client) Matrix(ctx context.Context, f model.FilterCriteria) (model.Matrix, error) {
	f.Phase, f.Role = "", ""

	var matrix model.Matrix
	if err := c.getJSON(ctx, EndpointMatrix, f.Values(), &matrix); err != nil {
		return nil, err
	}
	return matrix, nil
}

// Standards returns the distinct standards known to the API.
func (c *Client) Standards(ctx context.Context) ([]string, error) {
	var standards []string
	if err := c.getJSON(ctx, EndpointStandards, nil, &standards); err != nil {
		return nil, err
	}
	return standards, nil
}

// Categories returns the distinct categories known to the API.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if err := c.getJSON(ctx, EndpointCategories, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// Me resolves the token in ctx to its user. A missing or rejected token
// yields an error wrapping ErrUnauthorized.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.getJSON(ctx, EndpointMe, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// getJSON fetches endpoint and decodes the body into out. Identical
// concurrent calls for the same caller share one request. The shared
// request ignores the cancellation of whichever caller started it; each
// caller stops waiting when its own context ends. Attempts stay bounded
// by the HTTP client timeout.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	key := endpoint + "?" + query.Encode() + "#" + cache.PrincipalFromToken(TokenFromContext(ctx))

	ch := c.group.DoChan(key, func() (any, error) {
		return c.fetchBody(context.WithoutCancel(ctx), endpoint, query)
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrContextCancelled, ctx.Err())
	case res = <-ch:
	}
	if res.Shared {
		sharedRequestsTotal.Inc()
	}
	if res.Err != nil {
		return res.Err
	}

	if err := json.Unmarshal(res.Val.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", endpoint, err)
	}
	return nil
}

func (c *Client) fetchBody(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	resp, err := c.Get(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", endpoint, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			ErrorClass: c.classifyError(resp, nil),
			Message:    detailMessage(body, resp.Status),
		}
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			apiErr.Err = ErrUnauthorized
		}
		return nil, apiErr
	}

	return body, nil
}

// detailMessage extracts the "detail" field of an error body.
func detailMessage(body []byte, fallback string) string {
	var payload struct {
		Detail any `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err != nil || payload.Detail == nil {
		return fallback
	}
	if s, ok := payload.Detail.(string); ok {
		return s
	}
	return fallback
}
