package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// SpotSelection carries the spot picked on the available spots page into the booking form.
type SpotSelection struct {
	SpotID       int64  `json:"spotId"`
	SpotLocation string `json:"spotLocation"`
	VehicleType  string `json:"vehicleType"`
}

// PaymentHandoff carries a payable item into the payment page.
type PaymentHandoff struct {
	BookingID           int64           `json:"bookingId"`
	Amount              decimal.Decimal `json:"amount"`
	VehicleRegistration string          `json:"vehicleRegistration,omitempty"`
	Name                string          `json:"name"`
}

// MobileMoneyHandoff carries a payable item into the mobile money checkout page.
type MobileMoneyHandoff struct {
	BookingID int64           `json:"bookingId"`
	Amount    decimal.Decimal `json:"amount"`
	Name      string          `json:"name"`
}

// Quote is the last price the backend computed for a set of booking inputs.
type Quote struct {
	Key    string          `json:"key"`
	Amount decimal.Decimal `json:"amount"`
}

const (
	handoffSpot        = "spot"
	handoffPayment     = "payment"
	handoffMobileMoney = "mobile-money"
	handoffQuote       = "quote"
)

// Handoffs stores navigation payloads. A spot selection is deleted by its first read; payment
// payloads and quotes stay until the flow that needs them finishes or the ttl runs out.
type Handoffs struct {
	store Store
	ttl   time.Duration
}

// NewHandoffs returns hand-off storage with payload ttl.
func NewHandoffs(store Store, ttl time.Duration) *Handoffs {
	return &Handoffs{store: store, ttl: ttl}
}

// PutSpot stores a spot selection.
func (h *Handoffs) PutSpot(ctx context.Context, sid string, v SpotSelection) error {
	return put(ctx, h, sid, handoffSpot, v)
}

// TakeSpot consumes the spot selection.
func (h *Handoffs) TakeSpot(ctx context.Context, sid string) (SpotSelection, bool, error) {
	return take[SpotSelection](ctx, h, sid, handoffSpot)
}

// PutPayment stores a payment hand-off.
func (h *Handoffs) PutPayment(ctx context.Context, sid string, v PaymentHandoff) error {
	return put(ctx, h, sid, handoffPayment, v)
}

// Payment reads the payment hand-off.
func (h *Handoffs) Payment(ctx context.Context, sid string) (PaymentHandoff, bool, error) {
	return peek[PaymentHandoff](ctx, h, sid, handoffPayment)
}

// PutMobileMoney stores a mobile money hand-off.
func (h *Handoffs) PutMobileMoney(ctx context.Context, sid string, v MobileMoneyHandoff) error {
	return put(ctx, h, sid, handoffMobileMoney, v)
}

// MobileMoney reads the mobile money hand-off.
func (h *Handoffs) MobileMoney(ctx context.Context, sid string) (MobileMoneyHandoff, bool, error) {
	return peek[MobileMoneyHandoff](ctx, h, sid, handoffMobileMoney)
}

// FinishPayment drops the payment and mobile money hand-offs.
func (h *Handoffs) FinishPayment(ctx context.Context, sid string) error {
	return drop(ctx, h, sid, handoffPayment, handoffMobileMoney)
}

// PutQuote remembers the last computed price.
func (h *Handoffs) PutQuote(ctx context.Context, sid string, v Quote) error {
	return put(ctx, h, sid, handoffQuote, v)
}

// Quote reads the last computed price.
func (h *Handoffs) Quote(ctx context.Context, sid string) (Quote, bool, error) {
	return peek[Quote](ctx, h, sid, handoffQuote)
}

// DropQuote forgets the last computed price.
func (h *Handoffs) DropQuote(ctx context.Context, sid string) error {
	return drop(ctx, h, sid, handoffQuote)
}

func put[T any](ctx context.Context, h *Handoffs, sid, kind string, v T) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode %s handoff: %w", kind, err)
	}
	return h.store.PutValue(ctx, ValueKey(sid, "handoff", kind), string(data), h.ttl)
}

func take[T any](ctx context.Context, h *Handoffs, sid, kind string) (T, bool, error) {
	raw, ok, err := h.store.TakeValue(ctx, ValueKey(sid, "handoff", kind))
	return decode[T](kind, raw, ok, err)
}

func peek[T any](ctx context.Context, h *Handoffs, sid, kind string) (T, bool, error) {
	raw, ok, err := h.store.GetValue(ctx, ValueKey(sid, "handoff", kind))
	return decode[T](kind, raw, ok, err)
}

func drop(ctx context.Context, h *Handoffs, sid string, kinds ...string) error {
	for _, kind := range kinds {
		if _, _, err := h.store.TakeValue(ctx, ValueKey(sid, "handoff", kind)); err != nil {
			return fmt.Errorf("session: drop %s handoff: %w", kind, err)
		}
	}
	return nil
}

func decode[T any](kind, raw string, ok bool, err error) (T, bool, error) {
	var v T
	if err != nil || !ok {
		return v, false, err
	}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return v, false, fmt.Errorf("session: decode %s handoff: %w", kind, err)
	}
	return v, true, nil
}
