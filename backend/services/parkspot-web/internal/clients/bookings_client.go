package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"parkspot/backend/services/parkspot-web/internal/models"
)

// AmountQuery are the inputs the backend prices a booking from.
type AmountQuery struct {
	UserID      int64
	VehicleType string
	StartTime   string
	EndTime     string
}

// BookingsClient covers booking and fine endpoints.
type BookingsClient struct {
	base *BaseClient
}

// NewBookingsClient returns client.
func NewBookingsClient(base *BaseClient) *BookingsClient {
	return &BookingsClient{base: base}
}

// CalculateAmount asks the backend for the price of a booking. The endpoint returns a bare number;
// an enveloped answer is accepted as well.
func (c *BookingsClient) CalculateAmount(ctx context.Context, q AmountQuery) (decimal.Decimal, error) {
	query := url.Values{}
	query.Set("userId", strconv.FormatInt(q.UserID, 10))
	query.Set("vehicleType", q.VehicleType)
	query.Set("startTime", q.StartTime)
	query.Set("endTime", q.EndTime)

	const name = "bookings.calculate_amount"
	body, err := c.base.Do(ctx, Request{Name: name, Path: "/bookings/calculate-amount", Query: query})
	if err != nil {
		return decimal.Zero, err
	}
	return decodeAmount(name, body)
}

// Create submits a booking and returns the created id and final amount.
func (c *BookingsClient) Create(ctx context.Context, req models.NewBookingRequest) (models.CreatedBooking, error) {
	env, err := fetch[models.CreatedBooking](ctx, c.base, Request{
		Name:   "bookings.create",
		Method: http.MethodPost,
		Path:   "/bookings/create",
		Body:   req,
	})
	return env.Body, err
}

// Mine lists the bookings of userID.
func (c *BookingsClient) Mine(ctx context.Context, userID int64, page, size int) (models.Page[models.Booking], error) {
	q := pageQuery(page, size)
	q.Set("userId", strconv.FormatInt(userID, 10))
	env, err := fetch[[]models.Booking](ctx, c.base, Request{
		Name:  "bookings.mine",
		Path:  "/bookings/my-bookings",
		Query: q,
	})
	if err != nil {
		return models.Page[models.Booking]{}, err
	}
	return pageOf(env), nil
}

// All lists every booking for administrators.
func (c *BookingsClient) All(ctx context.Context, page, size int) (models.Page[models.Booking], error) {
	env, err := fetch[[]models.Booking](ctx, c.base, Request{
		Name:  "bookings.all",
		Path:  "/bookings/all",
		Query: pageQuery(page, size),
	})
	if err != nil {
		return models.Page[models.Booking]{}, err
	}
	return pageOf(env), nil
}

// Get fetches one booking.
func (c *BookingsClient) Get(ctx context.Context, id int64) (models.Booking, error) {
	env, err := fetch[models.Booking](ctx, c.base, Request{
		Name: "bookings.get",
		Path: fmt.Sprintf("/bookings/%d", id),
	})
	return env.Body, err
}

// Exit ends an active, paid booking and returns the backend message.
func (c *BookingsClient) Exit(ctx context.Context, id int64) (string, error) {
	env, err := fetch[json.RawMessage](ctx, c.base, Request{
		Name:   "bookings.exit",
		Method: http.MethodPut,
		Path:   fmt.Sprintf("/bookings/exit/%d", id),
	})
	return env.Message, err
}

// Fines lists every fine of userID. The endpoint is not paged.
func (c *BookingsClient) Fines(ctx context.Context, userID int64) ([]models.Fine, error) {
	env, err := fetch[[]models.Fine](ctx, c.base, Request{
		Name: "fines.user",
		Path: fmt.Sprintf("/fines/%d", userID),
	})
	return env.Body, err
}

func decodeAmount(name string, body []byte) (decimal.Decimal, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return decimal.Zero, nil
	}
	var amount decimal.Decimal
	if body[0] != '{' {
		if err := json.Unmarshal(body, &amount); err != nil {
			return decimal.Zero, fmt.Errorf("clients: %s: decode: %w", name, err)
		}
		return amount, nil
	}
	var env Envelope[decimal.Decimal]
	if err := json.Unmarshal(body, &env); err != nil {
		return decimal.Zero, fmt.Errorf("clients: %s: decode: %w", name, err)
	}
	if env.Code != 0 {
		if err := env.Err(name); err != nil {
			return decimal.Zero, err
		}
	}
	return env.Body, nil
}
