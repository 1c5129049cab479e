package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/cardsync/internal/client/models"
	"github.com/dmitrijs2005/cardsync/internal/common"
)

// HTTPClient implements Client over the server's JSON endpoints.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient constructs a client for the given base URL (scheme://host[:port]).
// Every call is bounded by timeout; a timeout surfaces as ErrUnavailable, not
// distinguished from a connection refusal.
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// do performs one JSON round-trip. A non-empty token is attached as a bearer
// header. Responses outside 2xx are mapped to sentinel errors; a 2xx body
// that fails to decode into out is reported as ErrMalformedResponse.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthHeaderName, common.AuthSchemePrefix+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapStatus(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

func (c *HTTPClient) mapStatus(resp *http.Response) error {
	var er errorResponse
	_ = json.NewDecoder(resp.Body).Decode(&er)

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return ErrUnauthenticated
	case http.StatusForbidden:
		return ErrForbidden
	default:
		if er.Error != "" {
			return fmt.Errorf("%w: %s", ErrServerRejected, er.Error)
		}
		return fmt.Errorf("%w: %s", ErrServerRejected, resp.Status)
	}
}

// requireToken is the fail-fast guard of authenticated calls: a blank token
// never reaches the network.
func requireToken(token string) error {
	if token == "" {
		return ErrUnauthenticated
	}
	return nil
}

func (c *HTTPClient) Login(ctx context.Context, username, password string) (string, string, string, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/api/sync/login", "", loginRequest{Username: username, Password: password}, &resp)
	if err != nil {
		if errors.Is(err, ErrUnauthenticated) {
			return "", "", "", ErrInvalidCredentials
		}
		return "", "", "", err
	}
	if resp.Token == "" {
		return "", "", "", fmt.Errorf("%w: empty token", ErrMalformedResponse)
	}
	return resp.Token, resp.UserID, resp.Username, nil
}

func (c *HTTPClient) Register(ctx context.Context, username, password string) error {
	return c.do(ctx, http.MethodPost, "/api/sync/register", "", loginRequest{Username: username, Password: password}, nil)
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	var resp pingResponse
	if err := c.do(ctx, http.MethodGet, "/api/ping", "", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (c *HTTPClient) PushProgress(ctx context.Context, token string, entries models.ProgressLedger) (*PushAck, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}

	var resp pushResponse
	req := pushRequest{Progress: encodeLedger(entries)}
	if err := c.do(ctx, http.MethodPost, "/api/sync/push", token, req, &resp); err != nil {
		return nil, err
	}

	rejected, err := decodeLedger(resp.Rejected)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &PushAck{Accepted: resp.Accepted, Rejected: rejected}, nil
}

func (c *HTTPClient) PullProgress(ctx context.Context, token string) (models.ProgressLedger, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}

	var resp pullResponse
	if err := c.do(ctx, http.MethodGet, "/api/sync/pull", token, nil, &resp); err != nil {
		return nil, err
	}

	ledger, err := decodeLedger(resp.Progress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return ledger, nil
}

func (c *HTTPClient) PullBreakdowns(ctx context.Context) (map[string]models.TermBreakdown, error) {
	var resp breakdownsResponse
	if err := c.do(ctx, http.MethodGet, "/api/sync/breakdowns", "", nil, &resp); err != nil {
		return nil, err
	}

	out := make(map[string]models.TermBreakdown, len(resp.Breakdowns))
	for id, b := range resp.Breakdowns {
		out[id] = models.TermBreakdown{
			CardID:             id,
			Term:               b.Term,
			Parts:              b.Parts,
			LiteralTranslation: b.Literal,
			Notes:              b.Notes,
			UpdatedAt:          b.Updated,
			UpdatedBy:          b.By,
		}
	}
	return out, nil
}

func (c *HTTPClient) SaveBreakdown(ctx context.Context, token string, b models.TermBreakdown) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req := saveBreakdownRequest{
		ID:      b.CardID,
		Term:    b.Term,
		Parts:   b.Parts,
		Literal: b.LiteralTranslation,
		Notes:   b.Notes,
	}
	return c.do(ctx, http.MethodPost, "/api/breakdowns", token, req, nil)
}

func (c *HTTPClient) PullServerConfig(ctx context.Context, token string) (*models.ServerConfig, error) {
	if err := requireToken(token); err != nil {
		return nil, err
	}

	var resp serverConfigPayload
	if err := c.do(ctx, http.MethodGet, "/api/config", token, nil, &resp); err != nil {
		return nil, err
	}
	return &models.ServerConfig{
		ManagedServerURL: resp.ManagedServerURL,
		SharedAPIKeys:    resp.SharedAPIKeys,
	}, nil
}

func (c *HTTPClient) PushServerConfig(ctx context.Context, token string, cfg models.ServerConfig) error {
	if err := requireToken(token); err != nil {
		return err
	}
	req := serverConfigPayload{
		ManagedServerURL: cfg.ManagedServerURL,
		SharedAPIKeys:    cfg.SharedAPIKeys,
	}
	return c.do(ctx, http.MethodPost, "/api/config", token, req, nil)
}

func (c *HTTPClient) PullAdminUsers(ctx context.Context) ([]string, error) {
	var resp adminUsersResponse
	if err := c.do(ctx, http.MethodGet, "/api/admin/users", "", nil, &resp); err != nil {
		return nil, err
	}
	return resp.AdminUsernames, nil
}
