package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// ClientConfig holds the settings for talking to the CRM API
type ClientConfig struct {
	Endpoint string
	Timeout  time.Duration
	// Retries is the number of extra attempts after the first failure
	Retries int
	// Backoff is the base delay; attempt n waits n*Backoff
	Backoff time.Duration
}

// Client is a small HTTP client for the CRM API used by the scheduled jobs
type Client struct {
	cfg  ClientConfig
	http *http.Client
}

// NewClient creates a new API client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retries < 0 {
		cfg.Retries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = 500 * time.Millisecond
	}
	cfg.Endpoint = strings.TrimRight(cfg.Endpoint, "/")

	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
	}
}

// APIError is a non-2xx reply from the CRM API
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("api returned %d %s: %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api returned %d", e.Status)
}

// ProductReply is the part of a product the jobs care about
type ProductReply struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Stock int    `json:"stock"`
}

// LowStockReply is the replenishment outcome
type LowStockReply struct {
	UpdatedProducts []ProductReply `json:"updated_products"`
	Message         string         `json:"message"`
}

// OrderReply is the part of an order the jobs care about
type OrderReply struct {
	ID       int64 `json:"id"`
	Customer struct {
		Email string `json:"email"`
	} `json:"customer"`
	OrderDate time.Time `json:"order_date"`
}

type orderPage struct {
	Data       []OrderReply `json:"data"`
	Pagination struct {
		Page       int `json:"page"`
		TotalPages int `json:"total_pages"`
	} `json:"pagination"`
}

// Hello calls the liveness query and returns its greeting
func (c *Client) Hello(ctx context.Context) (string, error) {
	var reply struct {
		Hello string `json:"hello"`
	}
	if err := c.do(ctx, http.MethodGet, "/hello", &reply); err != nil {
		return "", err
	}
	return reply.Hello, nil
}

// ReplenishLowStock runs the replenishment policy
func (c *Client) ReplenishLowStock(ctx context.Context) (*LowStockReply, error) {
	var reply LowStockReply
	if err := c.do(ctx, http.MethodPost, "/products/low-stock/replenish", &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// OrdersSince returns every order placed at or after since, following
// pagination to the last page.
func (c *Client) OrdersSince(ctx context.Context, since time.Time) ([]OrderReply, error) {
	orders := []OrderReply{}

	for page := 1; ; page++ {
		query := url.Values{}
		query.Set("order_date_gte", since.UTC().Format(time.RFC3339))
		query.Set("page", strconv.Itoa(page))
		query.Set("page_size", "100")

		var reply orderPage
		if err := c.do(ctx, http.MethodGet, "/orders?"+query.Encode(), &reply); err != nil {
			return nil, err
		}
		orders = append(orders, reply.Data...)

		if len(reply.Data) == 0 || page >= reply.Pagination.TotalPages {
			return orders, nil
		}
	}
}

// do sends one request, retrying transport errors and 5xx replies
func (c *Client) do(ctx context.Context, method, path string, out any) error {
	operation := func() (struct{}, error) {
		return struct{}{}, c.attempt(ctx, method, path, out)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(&linearBackOff{step: c.cfg.Backoff}),
		backoff.WithMaxTries(uint(c.cfg.Retries+1)),
	)
	return err
}

func (c *Client) attempt(ctx context.Context, method, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.Endpoint+path, nil)
	if err != nil {
		return backoff.Permanent(fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return backoff.Permanent(ctx.Err())
		}
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var envelope struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &envelope) == nil {
			apiErr.Code = envelope.Error.Code
			apiErr.Message = envelope.Error.Message
		}
		if resp.StatusCode >= 500 {
			return apiErr
		}
		return backoff.Permanent(apiErr)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return backoff.Permanent(fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// linearBackOff waits step, 2*step, 3*step, ... between attempts
type linearBackOff struct {
	step time.Duration
	n    int
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() {
	b.n = 0
}

// IsAPIError reports whether err is a reply from the API rather than a
// transport failure
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}
