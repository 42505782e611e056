package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	appErr "hwbot/pkg/errors"
)

const (
	DefaultEndpoint = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultTimeout  = 10 * time.Second
	// MaxBodySize caps the response body read from the API.
	MaxBodySize = 4 << 20
)

// ResponseInfo carries response details of the last fetch.
type ResponseInfo struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// StatusClient queries the homework status API.
type StatusClient struct {
	endpoint   string
	token      string
	httpClient *http.Client
	now        func() time.Time
}

// Config holds client settings.
type Config struct {
	Endpoint string
	Token    string
	Timeout  time.Duration
	// HTTPClient overrides the transport; Timeout is ignored when set.
	HTTPClient *http.Client
}

// New creates a status client.
func New(cfg Config) (*StatusClient, error) {
	if cfg.Token == "" {
		return nil, appErr.New(appErr.ConfigMissing).WithMessage("practicum token is required")
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, appErr.Wrapf(err, appErr.ConfigInvalid, "invalid practicum endpoint %q", endpoint)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &StatusClient{
		endpoint:   endpoint,
		token:      cfg.Token,
		httpClient: httpClient,
		now:        time.Now,
	}, nil
}

// Fetch requests statuses changed since fromDate (epoch seconds). Zero means now.
// The decoded body is returned as a generic JSON value; shape checks are left
// to the caller.
func (c *StatusClient) Fetch(ctx context.Context, fromDate int64) (interface{}, ResponseInfo, error) {
	var info ResponseInfo
	if fromDate == 0 {
		fromDate = c.now().Unix()
	}

	u, err := url.Parse(c.endpoint)
	if err != nil {
		return nil, info, appErr.Wrap(err, appErr.RequestFailed)
	}
	query := u.Query()
	query.Set("from_date", strconv.FormatInt(fromDate, 10))
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, info, appErr.Wrap(err, appErr.RequestFailed)
	}
	req.Header.Set("Authorization", "OAuth "+c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	info.Duration = time.Since(start)
	if err != nil {
		return nil, info, appErr.Wrap(err, appErr.RequestFailed).WithDetail("endpoint", c.endpoint)
	}
	defer func() { _ = resp.Body.Close() }()

	info.StatusCode = resp.StatusCode
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodySize+1))
	if err != nil {
		return nil, info, appErr.Wrap(err, appErr.RequestFailed)
	}
	if len(bodyBytes) > MaxBodySize {
		return nil, info, appErr.Newf(appErr.PropertyError, "%s: размер ответа превышает %d байт", appErr.PropertyError.Message(), MaxBodySize).
			WithDetail("limit", MaxBodySize)
	}
	info.Body = bodyBytes

	if resp.StatusCode != http.StatusOK {
		return nil, info, appErr.Newf(appErr.ServerError, "%s: код ответа %d", appErr.ServerError.Message(), resp.StatusCode).
			WithDetail("status_code", resp.StatusCode)
	}

	decoder := json.NewDecoder(bytes.NewReader(bodyBytes))
	decoder.UseNumber()
	var body interface{}
	if err := decoder.Decode(&body); err != nil {
		return nil, info, appErr.Wrap(err, appErr.PropertyError)
	}
	return body, info, nil
}

// Endpoint returns the configured endpoint.
func (c *StatusClient) Endpoint() string {
	return c.endpoint
}
