package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeFromArray(t *testing.T) {
	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`[2024, 11, 5, 14, 30]`), &d))

	assert.Equal(t, 2024, d.Year())
	assert.Equal(t, time.November, d.Month())
	assert.Equal(t, "02:30 PM", d.Clock())
	assert.Equal(t, "2024-11-05", d.Date())
	assert.Equal(t, "November 05, 2024, 02:30 PM", d.Long())
}

func TestDateTimeWithSecondsAndMorning(t *testing.T) {
	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`[2025,1,9,9,5,45]`), &d))
	assert.Equal(t, "09:05 AM", d.Clock())
	assert.Equal(t, 45, d.Second())
}

func TestDateTimeFromString(t *testing.T) {
	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2024-03-01T08:15:00"`), &d))
	assert.Equal(t, "08:15 AM", d.Clock())
	assert.Equal(t, "2024-03-01", d.Date())
}

func TestDateTimeNullAndInvalid(t *testing.T) {
	var d DateTime
	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.Equal(t, "Invalid Date", d.Clock())
	assert.Equal(t, "Invalid Date", d.Date())

	assert.Error(t, json.Unmarshal([]byte(`[2024, 11]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`[2024, 13, 1, 0, 0]`), &d))
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`17`), &d))
}

func TestDateTimeRoundTripArray(t *testing.T) {
	d := NewDateTime(time.Date(2024, 6, 7, 18, 45, 0, 0, time.Local))
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `[2024,6,7,18,45]`, string(data))
}

func TestBookingDecodesBackendPayload(t *testing.T) {
	payload := `{
		"bookingId": 42,
		"parkingSpot": {"spotId": 3, "spotLocation": "Westlands", "vehicleType": "CAR", "status": "BOOKED"},
		"vehicleRegistration": "KAA123",
		"startTime": [2024, 11, 5, 8, 0],
		"endTime": [2024, 11, 5, 10, 30],
		"amount": 150,
		"paymentStatus": "PAID",
		"bookingStatus": "ACTIVE"
	}`

	var b Booking
	require.NoError(t, json.Unmarshal([]byte(payload), &b))

	assert.Equal(t, int64(42), b.BookingID)
	assert.Equal(t, "Westlands", b.ParkingSpot.SpotLocation)
	assert.True(t, b.Amount.Equal(decimal.NewFromInt(150)))
	assert.Equal(t, "10:30 AM", b.EndTime.Clock())
	assert.True(t, b.CanExit())
	assert.False(t, b.CanPay())
}

func TestBookingActions(t *testing.T) {
	assert.True(t, Booking{PaymentStatus: PaymentPending}.CanPay())
	assert.True(t, Booking{PaymentStatus: PaymentInitiated}.CanPay())
	assert.False(t, Booking{PaymentStatus: PaymentPaid, BookingStatus: "EXITED"}.CanExit())
}

func TestSpotOptionID(t *testing.T) {
	assert.Equal(t, "12", SpotOption{SpotInfo: "12 Westlands Mall"}.SpotID())
	assert.Equal(t, "", SpotOption{SpotInfo: "  "}.SpotID())
}

func TestHasAdminRole(t *testing.T) {
	assert.True(t, HasAdminRole([]string{"ROLE_USER", "ROLE_ADMIN"}))
	assert.True(t, HasAdminRole([]string{"admin"}))
	assert.False(t, HasAdminRole([]string{"ROLE_USER"}))
	assert.False(t, User{}.IsAdmin())
}

func TestFineBookingID(t *testing.T) {
	assert.Equal(t, int64(0), Fine{}.BookingID())
	assert.Equal(t, int64(9), Fine{Booking: &Booking{BookingID: 9}}.BookingID())
}
