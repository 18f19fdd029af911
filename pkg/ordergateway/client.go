package ordergateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopmicro/storefront-backend/pkg/config"
	pkgerrors "github.com/shopmicro/storefront-backend/pkg/errors"
	"github.com/shopmicro/storefront-backend/pkg/types"
)

const (
	submitPath                  = "api/v1/orders"
	responseBodyReadLimit int64 = 1024
)

// OrderItem is a product/quantity pair submitted to the remote order service.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId"`
	Quantity  int       `json:"quantity"`
}

// OrderRequest is the wire payload submitted when placing an order.
type OrderRequest struct {
	CustomerID    uuid.UUID             `json:"customerId"`
	Items         []OrderItem           `json:"products"`
	Amount        float64               `json:"amount"`
	PaymentMethod string                `json:"paymentMethod"`
	Reference     string                `json:"reference"`
	Shipping      types.ShippingAddress `json:"address"`
}

// OrderConfirmation holds the remote service's acknowledgement.
type OrderConfirmation struct {
	OrderID   string `json:"orderId"`
	Reference string `json:"reference"`
	Status    string `json:"status"`
}

// Accepted reports whether the remote service settled the order. Any other
// status leaves the order pending on our side.
func (c OrderConfirmation) Accepted() bool {
	switch strings.ToUpper(strings.TrimSpace(c.Status)) {
	case "ACCEPTED", "COMPLETED", "CONFIRMED":
		return true
	}
	return false
}

// Gateway submits orders to the remote order/payment service.
type Gateway interface {
	Submit(ctx context.Context, req OrderRequest) (*OrderConfirmation, error)
}

// Client is the HTTP implementation of Gateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the order gateway client from configuration.
func NewClient(cfg config.OrderGatewayConfig, opts ...Option) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("order gateway base url is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Submit posts the order payload and returns the confirmation on 2xx.
func (c *Client) Submit(ctx context.Context, req OrderRequest) (*OrderConfirmation, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "order gateway client not configured")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal order request")
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.baseURL, "/"), submitPath)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build order request")
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute order request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(
			pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"order submission failed",
		)
	}

	var confirmation OrderConfirmation
	if err := json.NewDecoder(resp.Body).Decode(&confirmation); err != nil && err != io.EOF {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode order confirmation")
	}
	if confirmation.Reference == "" {
		confirmation.Reference = req.Reference
	}

	return &confirmation, nil
}
