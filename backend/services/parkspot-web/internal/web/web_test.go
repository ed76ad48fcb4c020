package web

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
)

func TestAmount(t *testing.T) {
	cases := map[string]string{
		"0":       "0",
		"150":     "150",
		"1500":    "1,500",
		"1234.5":  "1,234.5",
		"9876.54": "9,876.54",
		"10.129":  "10.13",
	}
	for raw, want := range cases {
		assert.Equal(t, want, Amount(decimal.RequireFromString(raw)), raw)
	}
	assert.Equal(t, "KES 1,500", Money("KES", decimal.NewFromInt(1500)))
}

func TestRendererParsesEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	for _, name := range []string{
		"home", "about", "contact", "login", "signup", "access_denied", "not_found", "error",
		"available_spots", "book_parking", "make_payment", "mpesa_checkout", "payment_success",
		"my_bookings", "booking_details", "my_fines", "admin_dashboard", "admin_bookings",
		"admin_spots", "admin_audit_logs", "admin_audit_log",
	} {
		assert.Contains(t, r.pages, name)
	}
}

func TestRenderUnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	assert.Error(t, r.Render(rec, http.StatusOK, "missing", Page{}))
}

func TestRenderLayout(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusTeapot, "home", Page{
		Title: "Smart parking",
		Flash: &session.Flash{Kind: session.FlashSuccess, Text: "Login successful"},
		Identity: session.Identity{
			Token: "tok",
			User:  &models.User{ID: 1, Username: "jane"},
		},
	}))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	body := rec.Body.String()
	assert.Contains(t, body, "<title>Smart parking · ParkSpot</title>")
	assert.Contains(t, body, `flash-success`)
	assert.Contains(t, body, "Login successful")
	assert.Contains(t, body, "jane")
}

func TestRenderDateTimes(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, r.Render(rec, http.StatusOK, "booking_details", Page{
		Currency: "KES",
		Data: models.Booking{
			BookingID:           5,
			VehicleRegistration: "KAA123",
			Amount:              decimal.NewFromInt(2500),
			PaymentStatus:       models.PaymentPending,
		},
	}))
	body := rec.Body.String()
	assert.Contains(t, body, "Invalid Date")
	assert.Contains(t, body, "KES 2,500")
	assert.Contains(t, body, "badge-warn")
}

func TestStatic(t *testing.T) {
	rec := httptest.NewRecorder()
	Static().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), ".navbar")
}
