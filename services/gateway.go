package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Gateway opens an order with the external payment provider and returns the
// session handle the client uses to complete checkout.
type Gateway interface {
	CreateOrder(ctx context.Context, orderID string, amount float64, customerEmail string) (string, error)
}

// HTTPGateway talks to a Cashfree-style REST API: order create via POST with
// client credentials in headers, payment_session_id in the response.
type HTTPGateway struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
	ReturnURL    string
	Client       *http.Client
}

func NewHTTPGateway(baseURL, clientID, clientSecret, returnURL string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL:      baseURL,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		ReturnURL:    returnURL,
		Client:       &http.Client{Timeout: 10 * time.Second},
	}
}

type gatewayCustomer struct {
	CustomerID    string `json:"customer_id"`
	CustomerEmail string `json:"customer_email"`
}

type gatewayOrderMeta struct {
	ReturnURL string `json:"return_url"`
}

type gatewayOrderRequest struct {
	OrderID         string           `json:"order_id"`
	OrderAmount     float64          `json:"order_amount"`
	OrderCurrency   string           `json:"order_currency"`
	CustomerDetails gatewayCustomer  `json:"customer_details"`
	OrderMeta       gatewayOrderMeta `json:"order_meta"`
}

type gatewayOrderResponse struct {
	PaymentSessionID string `json:"payment_session_id"`
	Message          string `json:"message"`
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, orderID string, amount float64, customerEmail string) (string, error) {
	payload := gatewayOrderRequest{
		OrderID:       orderID,
		OrderAmount:   amount,
		OrderCurrency: "INR",
		CustomerDetails: gatewayCustomer{
			CustomerID:    orderID,
			CustomerEmail: customerEmail,
		},
		OrderMeta: gatewayOrderMeta{ReturnURL: g.ReturnURL},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/orders", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-version", "2022-09-01")
	req.Header.Set("x-client-id", g.ClientID)
	req.Header.Set("x-client-secret", g.ClientSecret)

	resp, err := g.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out gatewayOrderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("gateway: decoding response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("gateway: order create failed: status %d: %s", resp.StatusCode, out.Message)
	}
	if out.PaymentSessionID == "" {
		return "", fmt.Errorf("gateway: response missing payment_session_id")
	}

	return out.PaymentSessionID, nil
}
