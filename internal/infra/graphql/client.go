package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	domcatalog "example.com/storefront/internal/domain/catalog"
	domorder "example.com/storefront/internal/domain/order"
)

const (
	listEggsQuery = `query GetEggs {
  eggs {
    id
    type
    price
    quantityAvailable
    description
  }
}`

	getEggQuery = `query GetEgg($id: ID!) {
  egg(id: $id) {
    id
    type
    price
    quantityAvailable
    description
  }
}`

	purchaseEggMutation = `mutation PurchaseEgg($id: ID!, $quantity: Int!, $paymentMethod: String, $pickupTime: String) {
  purchaseEgg(id: $id, quantity: $quantity, paymentMethod: $paymentMethod, pickupTime: $pickupTime) {
    success
    message
    remainingQuantity
  }
}`
)

// Client talks to the order-fulfillment GraphQL API. It serves as both the
// catalog gateway and the purchaser.
type Client struct {
	endpoint       string
	queryClient    *http.Client
	purchaseClient *http.Client
	logger         *zap.Logger
}

type Option func(*Client)

// WithHTTPClient replaces both underlying HTTP clients.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.queryClient = hc
		c.purchaseClient = hc
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient builds a client for endpoint. Catalog queries are bounded by
// queryTimeout; purchase calls are not bounded.
func NewClient(endpoint string, queryTimeout time.Duration, opts ...Option) *Client {
	transport := otelhttp.NewTransport(http.DefaultTransport)
	c := &Client{
		endpoint:       endpoint,
		queryClient:    &http.Client{Transport: transport, Timeout: queryTimeout},
		purchaseClient: &http.Client{Transport: transport},
		logger:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type request struct {
	OperationName string         `json:"operationName,omitempty"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type gqlError struct {
	Message string `json:"message"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors []gqlError      `json:"errors"`
}

type eggDTO struct {
	ID                string          `json:"id"`
	Type              string          `json:"type"`
	Price             decimal.Decimal `json:"price"`
	QuantityAvailable int64           `json:"quantityAvailable"`
	Description       *string         `json:"description"`
}

func (e eggDTO) toDomain() domcatalog.Item {
	item := domcatalog.Item{
		ID:                e.ID,
		Label:             e.Type,
		UnitPrice:         e.Price,
		AvailableQuantity: e.QuantityAvailable,
	}
	if e.Description != nil {
		item.Description = *e.Description
	}
	return item
}

type purchaseDTO struct {
	Success           bool   `json:"success"`
	Message           string `json:"message"`
	RemainingQuantity int64  `json:"remainingQuantity"`
}

func (c *Client) ListItems(ctx context.Context) ([]domcatalog.Item, error) {
	var data struct {
		Eggs []eggDTO `json:"eggs"`
	}
	if err := c.do(ctx, c.queryClient, request{OperationName: "GetEggs", Query: listEggsQuery}, &data); err != nil {
		return nil, err
	}

	items := make([]domcatalog.Item, 0, len(data.Eggs))
	for _, e := range data.Eggs {
		items = append(items, e.toDomain())
	}
	return items, nil
}

func (c *Client) GetItem(ctx context.Context, id string) (*domcatalog.Item, error) {
	var data struct {
		Egg *eggDTO `json:"egg"`
	}
	req := request{
		OperationName: "GetEgg",
		Query:         getEggQuery,
		Variables:     map[string]any{"id": id},
	}
	if err := c.do(ctx, c.queryClient, req, &data); err != nil {
		return nil, err
	}
	if data.Egg == nil {
		return nil, domcatalog.ErrItemNotFound
	}
	item := data.Egg.toDomain()
	return &item, nil
}

func (c *Client) Purchase(ctx context.Context, in domorder.CheckoutRequest) (*domorder.PurchaseResult, error) {
	vars := map[string]any{
		"id":            in.ItemID,
		"quantity":      in.Quantity,
		"paymentMethod": string(in.PaymentMode),
	}
	if in.PaymentMode == domorder.PaymentCash {
		vars["pickupTime"] = in.PickupTime
	}

	var data struct {
		PurchaseEgg *purchaseDTO `json:"purchaseEgg"`
	}
	req := request{OperationName: "PurchaseEgg", Query: purchaseEggMutation, Variables: vars}
	if err := c.do(ctx, c.purchaseClient, req, &data); err != nil {
		return nil, err
	}
	if data.PurchaseEgg == nil {
		return nil, fmt.Errorf("%w: empty purchaseEgg payload", domorder.ErrTransport)
	}

	c.logger.Debug("purchase settled",
		zap.String("checkout_id", domorder.CheckoutIDFromContext(ctx)),
		zap.String("item_id", in.ItemID),
		zap.Bool("success", data.PurchaseEgg.Success),
		zap.Int64("remaining_quantity", data.PurchaseEgg.RemainingQuantity))

	return &domorder.PurchaseResult{
		Success:           data.PurchaseEgg.Success,
		Message:           data.PurchaseEgg.Message,
		RemainingQuantity: data.PurchaseEgg.RemainingQuantity,
	}, nil
}

// do posts one GraphQL operation and decodes its data into out. Every failure
// that leaves no usable data is wrapped with ErrTransport.
func (c *Client) do(ctx context.Context, hc *http.Client, in request, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", domorder.ErrTransport, in.OperationName, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: build %s: %v", domorder.ErrTransport, in.OperationName, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	if id := domorder.CheckoutIDFromContext(ctx); id != "" {
		httpReq.Header.Set("X-Request-ID", id)
	}

	resp, err := hc.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", domorder.ErrTransport, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %v", domorder.ErrTransport, in.OperationName, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s returned status %d", domorder.ErrTransport, in.OperationName, resp.StatusCode)
	}

	var envelope response
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domorder.ErrTransport, in.OperationName, err)
	}
	if len(envelope.Errors) > 0 && isNull(envelope.Data) {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, e.Message)
		}
		return fmt.Errorf("%w: %s", domorder.ErrTransport, strings.Join(msgs, "; "))
	}
	if isNull(envelope.Data) {
		return fmt.Errorf("%w: %s returned no data", domorder.ErrTransport, in.OperationName)
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: decode %s data: %v", domorder.ErrTransport, in.OperationName, err)
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s == "" || s == "null"
}
