package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sorgulen/tjenesteportal/internal/config"
	"github.com/sorgulen/tjenesteportal/internal/domain"
)

var (
	// ErrNoToken is returned when a privileged call is attempted without a
	// bearer token. No request is issued.
	ErrNoToken = errors.New("no access token for order api call")
	// ErrNotFound is returned when the order API reports an unknown order id
	ErrNotFound = errors.New("order not found")
)

// StatusError is returned when the order API answers with a non-success
// status code
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("order api returned status %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("order api returned status %d", e.StatusCode)
}

// Client calls the upstream order API. All order storage lives upstream;
// this client is the only path orders travel through.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates an order API client from config
func NewClient(cfg *config.OrderAPIConfig) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.TimeoutDuration(),
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

// Create submits a new order. No authentication is required; the public
// order form posts through this path.
func (c *Client) Create(ctx context.Context, req *domain.CreateOrderRequest) (*domain.Order, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode order: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call order api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var order domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("failed to decode order response: %w", err)
	}
	return &order, nil
}

// List fetches all orders. Requires a bearer token.
func (c *Client) List(ctx context.Context, token string) ([]domain.Order, error) {
	if token == "" {
		return nil, ErrNoToken
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/orders", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to call order api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var orders []domain.Order
	if err := json.NewDecoder(resp.Body).Decode(&orders); err != nil {
		return nil, fmt.Errorf("failed to decode order list: %w", err)
	}
	return orders, nil
}

// UpdateStatus changes the status of one order. Requires a bearer token.
func (c *Client) UpdateStatus(ctx context.Context, token, id string, status domain.OrderStatus) error {
	if token == "" {
		return ErrNoToken
	}

	body, err := json.Marshal(map[string]domain.OrderStatus{"status": status})
	if err != nil {
		return fmt.Errorf("failed to encode status update: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.baseURL+"/v1/orders/"+id, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to call order api: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return ErrNotFound
	default:
		return statusError(resp)
	}
}

// Ping checks upstream reachability for the readiness probe
func (c *Client) Ping(ctx context.Context) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach order api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return statusError(resp)
	}
	return nil
}

// statusError extracts any error message from a non-success response body
func statusError(resp *http.Response) error {
	var errorResp struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	se := &StatusError{StatusCode: resp.StatusCode}
	if err := json.NewDecoder(resp.Body).Decode(&errorResp); err == nil {
		if errorResp.Message != "" {
			se.Message = errorResp.Message
		} else {
			se.Message = errorResp.Error
		}
	}
	return se
}
