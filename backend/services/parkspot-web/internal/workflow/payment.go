package workflow

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
)

// Payment messages.
const (
	MsgBookingIDRequired   = "Booking ID is required"
	MsgMobileMoneyRequired = "Please provide all the required fields."
	MsgPhoneInvalid        = "Please enter a valid phone number."
	MsgMobileMoneyFailed   = "Payment failed. Please try again."
)

const (
	defaultQuantity = 1
	defaultCurrency = "USD"
)

var phonePattern = regexp.MustCompile(`^\+?\d{9,15}$`)

// PaymentAPI is the part of the payments API the payment workflow calls.
type PaymentAPI interface {
	CreateCheckoutSession(ctx context.Context, req clients.CheckoutRequest) (clients.CheckoutSession, string, error)
	ProcessMobileMoney(ctx context.Context, bookingID int64, req clients.MobileMoneyRequest) (clients.MobileMoneyResult, error)
}

// PaymentForm describes the item being paid.
type PaymentForm struct {
	BookingID int64
	Amount    decimal.Decimal
	Name      string
	Quantity  int
	Currency  string
}

// PaymentFormFrom builds the form for a hand-off. Name defaults to "Parking fee for <reg>".
func PaymentFormFrom(h session.PaymentHandoff, currency string) PaymentForm {
	name := h.Name
	if name == "" {
		name = "Parking fee for " + h.VehicleRegistration
	}
	if currency == "" {
		currency = defaultCurrency
	}
	return PaymentForm{
		BookingID: h.BookingID,
		Amount:    h.Amount,
		Name:      name,
		Quantity:  defaultQuantity,
		Currency:  currency,
	}
}

// Validate checks the fields required by the card rail.
func (f PaymentForm) Validate() ValidationErrors {
	errs := ValidationErrors{}
	if f.BookingID == 0 {
		errs["bookingId"] = MsgBookingIDRequired
	}
	if f.Amount.IsZero() {
		errs["amount"] = MsgAmountRequired
	}
	return errs
}

// MobileMoneyForm is the mobile money checkout form.
type MobileMoneyForm struct {
	BookingID   int64
	Amount      decimal.Decimal
	PhoneNumber string
}

// Validate checks presence first, then the phone format.
func (f MobileMoneyForm) Validate() ValidationErrors {
	phone := strings.TrimSpace(f.PhoneNumber)
	if phone == "" || f.Amount.IsZero() || f.BookingID == 0 {
		return ValidationErrors{"form": MsgMobileMoneyRequired}
	}
	if !phonePattern.MatchString(phone) {
		return ValidationErrors{"phoneNumber": MsgPhoneInvalid}
	}
	return ValidationErrors{}
}

// MobileMoneyError is a charge the backend processed but did not accept.
type MobileMoneyError struct {
	Message string
}

func (e *MobileMoneyError) Error() string {
	return "workflow: mobile money rejected: " + e.Message
}

// Payment runs both payment rails.
type Payment struct {
	api PaymentAPI
}

// NewPayment returns payment workflow.
func NewPayment(api PaymentAPI) *Payment {
	return &Payment{api: api}
}

// Card opens a checkout session and returns the URL to send the browser to.
func (p *Payment) Card(ctx context.Context, form PaymentForm) (string, string, error) {
	if err := form.Validate().orNil(); err != nil {
		return "", "", err
	}
	if form.Quantity <= 0 {
		form.Quantity = defaultQuantity
	}
	if form.Currency == "" {
		form.Currency = defaultCurrency
	}

	checkout, msg, err := p.api.CreateCheckoutSession(ctx, clients.CheckoutRequest{
		BookingID: form.BookingID,
		Amount:    form.Amount,
		Quantity:  form.Quantity,
		Name:      form.Name,
		Currency:  form.Currency,
	})
	if err != nil {
		return "", "", err
	}
	return checkout.SessionURL, msg, nil
}

// MobileMoney validates and charges. Only a 200 response code succeeds; any other code is a
// *MobileMoneyError carrying the backend message.
func (p *Payment) MobileMoney(ctx context.Context, form MobileMoneyForm) error {
	if err := form.Validate().orNil(); err != nil {
		return err
	}

	result, err := p.api.ProcessMobileMoney(ctx, form.BookingID, clients.MobileMoneyRequest{
		PhoneNumber: strings.TrimSpace(form.PhoneNumber),
		Amount:      form.Amount.String(),
	})
	if err != nil {
		return fmt.Errorf("workflow: mobile money: %w", err)
	}
	if !result.OK {
		msg := result.Message
		if msg == "" {
			msg = MsgMobileMoneyFailed
		}
		return &MobileMoneyError{Message: msg}
	}
	return nil
}

// FineHandoff hands a fine over to the payment page.
func FineHandoff(fine models.Fine) session.PaymentHandoff {
	return session.PaymentHandoff{
		BookingID: fine.BookingID(),
		Amount:    fine.Amount,
		Name:      fmt.Sprintf("Fine Payment for ID %d", fine.BookingID()),
	}
}

// BookingHandoff hands an unpaid booking over to the payment page.
func BookingHandoff(b models.Booking) session.PaymentHandoff {
	return session.PaymentHandoff{
		BookingID:           b.BookingID,
		Amount:              b.Amount,
		VehicleRegistration: b.VehicleRegistration,
		Name:                "Parking fee for " + b.VehicleRegistration,
	}
}
