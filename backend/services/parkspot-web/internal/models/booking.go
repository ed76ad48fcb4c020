package models

import "github.com/shopspring/decimal"

// PaymentStatus tracks a booking through payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "PENDING"
	PaymentInitiated PaymentStatus = "INITIATED"
	PaymentPaid      PaymentStatus = "PAID"
)

// BookingStatus is the lifecycle state of a reservation.
type BookingStatus string

const (
	BookingActive BookingStatus = "ACTIVE"
)

// Booking mirrors the backend booking payload. Amount is always computed by the backend.
type Booking struct {
	BookingID           int64           `json:"bookingId"`
	User                *User           `json:"user,omitempty"`
	ParkingSpot         *ParkingSpot    `json:"parkingSpot,omitempty"`
	VehicleRegistration string          `json:"vehicleRegistration"`
	VehicleType         string          `json:"vehicleType,omitempty"`
	StartTime           DateTime        `json:"startTime"`
	EndTime             DateTime        `json:"endTime"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentStatus       PaymentStatus   `json:"paymentStatus"`
	BookingStatus       BookingStatus   `json:"bookingStatus"`
}

// CanPay reports whether the booking still needs a payment.
func (b Booking) CanPay() bool {
	return b.PaymentStatus == PaymentPending || b.PaymentStatus == PaymentInitiated
}

// CanExit reports whether the exit action applies.
func (b Booking) CanExit() bool {
	return b.PaymentStatus == PaymentPaid && b.BookingStatus == BookingActive
}

// CreatedBooking is the body returned by booking creation.
type CreatedBooking struct {
	BookingID           int64           `json:"bookingId"`
	Amount              decimal.Decimal `json:"amount"`
	VehicleRegistration string          `json:"vehicleRegistration"`
}

// NewBookingRequest is the booking creation payload. Times are the datetime-local strings the
// user entered; the backend owns their interpretation and the amount.
type NewBookingRequest struct {
	UserID              int64           `json:"userId"`
	SpotID              string          `json:"spotId"`
	VehicleRegistration string          `json:"vehicleRegistration"`
	VehicleType         string          `json:"vehicleType"`
	StartTime           string          `json:"startTime"`
	EndTime             string          `json:"endTime"`
	Amount              decimal.Decimal `json:"amount"`
	PaymentStatus       PaymentStatus   `json:"paymentStatus"`
}

// Fine is a penalty linked to a booking, paid through the payment workflow.
type Fine struct {
	ID       int64           `json:"id"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
	Status   string          `json:"status"`
	IssuedAt DateTime        `json:"issuedAt"`
	Booking  *Booking        `json:"booking,omitempty"`
}

// BookingID returns the id of the linked booking or zero.
func (f Fine) BookingID() int64 {
	if f.Booking == nil {
		return 0
	}
	return f.Booking.BookingID
}
