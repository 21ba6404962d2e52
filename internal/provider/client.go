package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// HTTPClientOptions configures the HTTP booking-provider client.
type HTTPClientOptions struct {
	// BaseURL of the provider API, e.g. "https://api.booking.example".
	BaseURL string
	// PartnerToken authenticates this integration with the provider.
	PartnerToken string
	// UserToken authenticates the salon account used for staff-scoped reads.
	UserToken string
	// CompanyID is the salon identifier all requests are scoped to.
	CompanyID int64
	// HTTPClient overrides the default client (20s timeout) when set.
	HTTPClient *http.Client
}

// HTTPClient is the production implementation of Client. It speaks the
// provider's JSON envelope ({success, data, meta}) and surfaces envelope-level
// failures as errors.
type HTTPClient struct {
	baseURL      string
	partnerToken string
	userToken    string
	companyID    int64
	httpClient   *http.Client
}

// envelope is the provider's uniform response wrapper.
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Meta    struct {
		TotalCount int `json:"total_count"`
	} `json:"meta"`
}

// NewHTTPClient builds an HTTPClient with sane defaults.
func NewHTTPClient(opts HTTPClientOptions) *HTTPClient {
	base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 20 * time.Second}
	}
	return &HTTPClient{
		baseURL:      base,
		partnerToken: opts.PartnerToken,
		userToken:    opts.UserToken,
		companyID:    opts.CompanyID,
		httpClient:   hc,
	}
}

// FetchRecords returns one page of booking records matching the filter.
func (c *HTTPClient) FetchRecords(ctx context.Context, f RecordsFilter) (*RecordsPage, error) {
	q := url.Values{}
	if f.StaffID != 0 {
		q.Set("staff_id", strconv.FormatInt(f.StaffID, 10))
	}
	if f.ClientID != 0 {
		q.Set("client_id", strconv.FormatInt(f.ClientID, 10))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.PageSize > 0 {
		q.Set("count", strconv.Itoa(f.PageSize))
	}
	if f.IncludeDeleted {
		q.Set("with_deleted", "1")
	}

	env, err := c.get(ctx, fmt.Sprintf("/records/%d", c.companyID), q)
	if err != nil {
		return nil, err
	}

	var records []Record
	if err := json.Unmarshal(env.Data, &records); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}
	return &RecordsPage{Records: records, TotalCount: env.Meta.TotalCount}, nil
}

// FetchStaff returns all staff members of the configured salon.
func (c *HTTPClient) FetchStaff(ctx context.Context) ([]Staff, error) {
	env, err := c.get(ctx, fmt.Sprintf("/staff/%d", c.companyID), nil)
	if err != nil {
		return nil, err
	}
	var staff []Staff
	if err := json.Unmarshal(env.Data, &staff); err != nil {
		return nil, fmt.Errorf("decode staff: %w", err)
	}
	return staff, nil
}

// AuthenticateByCode exchanges a phone number and SMS code for a session.
func (c *HTTPClient) AuthenticateByCode(ctx context.Context, phone, code string) (*Session, error) {
	return c.auth(ctx, "/user/auth", map[string]string{"phone": phone, "code": code})
}

// AuthenticateByPassword exchanges login credentials for a session.
func (c *HTTPClient) AuthenticateByPassword(ctx context.Context, login, password string) (*Session, error) {
	return c.auth(ctx, "/auth", map[string]string{"login": login, "password": password})
}

func (c *HTTPClient) auth(ctx context.Context, path string, creds map[string]string) (*Session, error) {
	body, err := json.Marshal(creds)
	if err != nil {
		return nil, err
	}
	env, err := c.do(ctx, http.MethodPost, path, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(env.Data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}

func (c *HTTPClient) get(ctx context.Context, path string, q url.Values) (*envelope, error) {
	return c.do(ctx, http.MethodGet, path, q, nil)
}

func (c *HTTPClient) do(ctx context.Context, method, path string, q url.Values, body *bytes.Reader) (*envelope, error) {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, u, body)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, u, nil)
	}
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if c.userToken != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s, User %s", c.partnerToken, c.userToken))
	} else {
		req.Header.Set("Authorization", "Bearer "+c.partnerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("provider %s %s: status %d: %w", method, path, resp.StatusCode, err)
	}
	if !env.Success {
		return nil, fmt.Errorf("provider %s %s: status %d: request rejected", method, path, resp.StatusCode)
	}
	return &env, nil
}
