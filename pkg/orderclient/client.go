// Package orderclient клиент HTTP API заказов и опрос статуса заказа
// с фиксированным интервалом.
package orderclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/shopspring/decimal"
)

const defaultHTTPTimeout = 10 * time.Second

// Action путь PUT запроса действия над заказом.
type Action string

const (
	ActionClaim           Action = "/claim-order"
	ActionPickup          Action = "/order/pickup"
	ActionNearby          Action = "/order/nearby"
	ActionAtExchangePoint Action = "/order/at-exchange-point"
	ActionDropoff         Action = "/order/dropoff"
	ActionHandoff         Action = "/order/handoff"
	ActionConfirmReceived Action = "/order/confirm-received"
	ActionCancel          Action = "/order/cancel"
)

type Status struct {
	OrderStatus         string `json:"orderStatus"`
	ExchangeType        string `json:"exchangeType"`
	ProceedToDropoff    bool   `json:"proceedToDropoff"`
	ExchangeSecondsLeft *int   `json:"exchangeSecondsLeft,omitempty"`
}

// IsTerminal delivered и cancelled больше не меняются.
func (s Status) IsTerminal() bool {
	return s.OrderStatus == "delivered" || s.OrderStatus == "cancelled"
}

type AvailableOrder struct {
	ID             string          `json:"id"`
	RestaurantName string          `json:"restaurantName"`
	Summary        string          `json:"summary"`
	CarrierPayout  decimal.Decimal `json:"carrierPayout"`
	Building       string          `json:"building"`
	Location       string          `json:"location"`
	DeliveryMethod string          `json:"deliveryMethod"`
	CreatedAt      time.Time       `json:"createdAt"`
}

type TransitionRequest struct {
	UserID    string `json:"userId"`
	OrderID   string `json:"orderId,omitempty"`
	PhotoURL  string `json:"photoUrl,omitempty"`
	OrderCode string `json:"orderCode,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

type TransitionResult struct {
	Message     string `json:"message"`
	OrderStatus string `json:"orderStatus"`
	Notified    bool   `json:"notified"`
	Code        string `json:"code,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithToken Bearer токен для сервиса с включенной проверкой.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

func New(baseURL string, opts ...Option) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("base url must be absolute: %w", ErrInvalidInput)
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// GetStatus с непустым carrierID сервис отвечает ErrOrderAlreadyComplete
// для завершенного заказа.
func (c *Client) GetStatus(ctx context.Context, orderID, carrierID string) (*Status, error) {
	if orderID == "" {
		return nil, fmt.Errorf("order id is required: %w", ErrInvalidInput)
	}

	query := url.Values{}
	if carrierID != "" {
		query.Set("carrier_id", carrierID)
	}

	var status Status
	if err := c.do(ctx, http.MethodGet, c.endpoint(query, "/get-order-status", orderID), nil, &status); err != nil {
		return nil, fmt.Errorf("get order status: %w", err)
	}
	return &status, nil
}

// ListAvailable 404 считается пустым списком.
func (c *Client) ListAvailable(ctx context.Context, userID string) ([]AvailableOrder, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}

	var resp struct {
		Orders []AvailableOrder `json:"orders"`
	}
	err := c.do(ctx, http.MethodGet, c.endpoint(nil, "/available-orders", userID), nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return []AvailableOrder{}, nil
		}
		return nil, fmt.Errorf("list available orders: %w", err)
	}
	return resp.Orders, nil
}

// Transition выполняет действие. Переход применен, но получатель не
// уведомлен: вернется результат вместе с ErrNotificationDeliveryFailed.
func (c *Client) Transition(ctx context.Context, action Action, req TransitionRequest) (*TransitionResult, error) {
	if req.UserID == "" {
		return nil, fmt.Errorf("user id is required: %w", ErrInvalidInput)
	}

	elems := []string{string(action)}
	if req.OrderID != "" {
		elems = append(elems, req.OrderID)
	} else if action != ActionNearby {
		return nil, fmt.Errorf("order id is required: %w", ErrInvalidInput)
	}

	var result TransitionResult
	if err := c.do(ctx, http.MethodPut, c.endpoint(nil, elems...), req, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	if !result.Notified {
		return &result, ErrNotificationDeliveryFailed
	}
	return &result, nil
}

func (c *Client) endpoint(query url.Values, elems ...string) string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(append([]string{endpoint.Path}, elems...)...)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String()
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(raw, &eb) == nil {
			apiErr.Code = eb.Code
			apiErr.Message = eb.Message
		}
		return apiErr
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
