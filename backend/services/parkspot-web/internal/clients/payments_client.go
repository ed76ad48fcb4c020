package clients

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"
)

// CheckoutRequest opens a card checkout session for one line item.
type CheckoutRequest struct {
	BookingID int64           `json:"bookingId"`
	Amount    decimal.Decimal `json:"amount"`
	Quantity  int             `json:"quantity"`
	Name      string          `json:"name"`
	Currency  string          `json:"currency"`
}

// CheckoutSession is the processor session the browser is sent to.
type CheckoutSession struct {
	SessionID  string `json:"sessionId"`
	SessionURL string `json:"sessionUrl"`
}

// MobileMoneyRequest asks the backend to push a mobile-money charge to a phone.
type MobileMoneyRequest struct {
	PhoneNumber string `json:"phoneNumber"`
	Amount      string `json:"amount"`
}

// MobileMoneyResult is the synchronous outcome of a mobile-money charge.
type MobileMoneyResult struct {
	OK      bool
	Message string
}

// PaymentsClient covers both payment rails.
type PaymentsClient struct {
	base *BaseClient
}

// NewPaymentsClient returns client.
func NewPaymentsClient(base *BaseClient) *PaymentsClient {
	return &PaymentsClient{base: base}
}

// CreateCheckoutSession succeeds only for a SUCCESS-tagged response carrying a session URL.
func (c *PaymentsClient) CreateCheckoutSession(ctx context.Context, req CheckoutRequest) (CheckoutSession, string, error) {
	const name = "payments.checkout"
	env, err := fetch[CheckoutSession](ctx, c.base, Request{
		Name:   name,
		Method: http.MethodPost,
		Path:   "/checkout",
		Body:   req,
	})
	if err != nil {
		return CheckoutSession{}, "", err
	}
	if strings.TrimSpace(env.Body.SessionURL) == "" {
		return CheckoutSession{}, "", &AppError{Endpoint: name, Code: int(env.Code), Message: env.Message}
	}
	return env.Body, env.Message, nil
}

// ProcessMobileMoney charges bookingID. A transport or HTTP failure is an error; a processed call
// that the backend did not accept is reported through MobileMoneyResult.
func (c *PaymentsClient) ProcessMobileMoney(ctx context.Context, bookingID int64, req MobileMoneyRequest) (MobileMoneyResult, error) {
	var env Envelope[map[string]any]
	err := c.base.JSON(ctx, Request{
		Name:   "payments.mobile_money",
		Method: http.MethodPost,
		Path:   fmt.Sprintf("/mpayments/process/%d", bookingID),
		Body:   req,
	}, &env)
	if err != nil {
		return MobileMoneyResult{}, err
	}
	return MobileMoneyResult{OK: env.Code == http.StatusOK, Message: env.Message}, nil
}
