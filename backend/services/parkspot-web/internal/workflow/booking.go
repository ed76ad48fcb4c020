package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
)

// Booking form messages.
const (
	MsgSpotRequired         = "Parking spot is required"
	MsgVehicleTypeRequired  = "Vehicle type is required"
	MsgAmountRequired       = "Amount is required"
	MsgRegistrationRequired = "Vehicle registration is required"
	MsgStartRequired        = "Start time is required"
	MsgEndRequired          = "End time is required"
	MsgEndBeforeStart       = "End time must be after start time"
)

// BookingAPI is the part of the bookings API the booking workflow calls.
type BookingAPI interface {
	CalculateAmount(ctx context.Context, q clients.AmountQuery) (decimal.Decimal, error)
	Create(ctx context.Context, req models.NewBookingRequest) (models.CreatedBooking, error)
}

// BookingForm is the Book Parking form. Times use the datetime-local layout. Amount is only
// set by Refresh.
type BookingForm struct {
	UserID              int64
	SpotID              string
	VehicleType         string
	VehicleRegistration string
	StartTime           string
	EndTime             string
	Amount              decimal.Decimal
}

// QuoteKey identifies the price inputs. It is empty until user, vehicle type and both times are set.
func (f BookingForm) QuoteKey() string {
	if f.UserID == 0 || strings.TrimSpace(f.VehicleType) == "" ||
		strings.TrimSpace(f.StartTime) == "" || strings.TrimSpace(f.EndTime) == "" {
		return ""
	}
	return fmt.Sprintf("%d|%s|%s|%s", f.UserID, f.VehicleType, f.StartTime, f.EndTime)
}

// Validate checks the form before submission.
func (f BookingForm) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if strings.TrimSpace(f.SpotID) == "" {
		errs["spotId"] = MsgSpotRequired
	}
	if strings.TrimSpace(f.VehicleType) == "" {
		errs["vehicleType"] = MsgVehicleTypeRequired
	}
	if f.Amount.IsZero() {
		errs["amount"] = MsgAmountRequired
	}
	if strings.TrimSpace(f.VehicleRegistration) == "" {
		errs["vehicleRegistration"] = MsgRegistrationRequired
	}
	if strings.TrimSpace(f.StartTime) == "" {
		errs["startTime"] = MsgStartRequired
	}
	if strings.TrimSpace(f.EndTime) == "" {
		errs["endTime"] = MsgEndRequired
	}

	start, startErr := models.ParseLocal(f.StartTime)
	end, endErr := models.ParseLocal(f.EndTime)
	if startErr == nil && endErr == nil && !end.After(start) {
		errs["endTime"] = MsgEndBeforeStart
	}
	return errs
}

// Booking runs the price lookup and booking submission.
type Booking struct {
	api BookingAPI
}

// NewBooking returns booking workflow.
func NewBooking(api BookingAPI) *Booking {
	return &Booking{api: api}
}

// Refresh sets the form amount from the backend. The price is requested when the quote inputs
// are complete and differ from those of last; otherwise the stored amount is reused. Refresh
// returns the quote to remember and whether a lookup was made. A failed lookup clears the amount
// and returns an empty quote so the next refresh asks again.
func (b *Booking) Refresh(ctx context.Context, form *BookingForm, last session.Quote) (session.Quote, bool, error) {
	key := form.QuoteKey()
	if key == "" {
		form.Amount = decimal.Zero
		return session.Quote{}, false, nil
	}
	if key == last.Key {
		form.Amount = last.Amount
		return last, false, nil
	}

	amount, err := b.api.CalculateAmount(ctx, clients.AmountQuery{
		UserID:      form.UserID,
		VehicleType: form.VehicleType,
		StartTime:   form.StartTime,
		EndTime:     form.EndTime,
	})
	if err != nil {
		form.Amount = decimal.Zero
		return session.Quote{}, true, fmt.Errorf("workflow: calculate amount: %w", err)
	}
	form.Amount = amount
	return session.Quote{Key: key, Amount: amount}, true, nil
}

// Submit validates and creates the booking. The backend is never called for an invalid form.
func (b *Booking) Submit(ctx context.Context, form BookingForm) (session.PaymentHandoff, error) {
	if err := form.Validate().orNil(); err != nil {
		return session.PaymentHandoff{}, err
	}

	created, err := b.api.Create(ctx, models.NewBookingRequest{
		UserID:              form.UserID,
		SpotID:              form.SpotID,
		VehicleRegistration: form.VehicleRegistration,
		VehicleType:         form.VehicleType,
		StartTime:           form.StartTime,
		EndTime:             form.EndTime,
		Amount:              form.Amount,
		PaymentStatus:       models.PaymentPending,
	})
	if err != nil {
		return session.PaymentHandoff{}, err
	}

	reg := created.VehicleRegistration
	if reg == "" {
		reg = form.VehicleRegistration
	}
	return session.PaymentHandoff{
		BookingID:           created.BookingID,
		Amount:              created.Amount,
		VehicleRegistration: reg,
		Name:                "Parking payment for " + reg,
	}, nil
}
