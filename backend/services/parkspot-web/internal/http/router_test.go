package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/http/handlers"
	"parkspot/backend/services/parkspot-web/internal/http/middleware"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/views"
	"parkspot/backend/services/parkspot-web/internal/web"
	"parkspot/backend/services/parkspot-web/internal/workflow"
)

const testSID = "0b6f7c8e-2d7a-4a53-9a57-3f1d0c2b9e11"

type harness struct {
	t        *testing.T
	api      *http.ServeMux
	store    *session.MemoryStore
	router   http.Handler
	cookies  session.Cookies
	handoffs *session.Handoffs

	mu    sync.Mutex
	calls map[string]int
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		api:     http.NewServeMux(),
		store:   session.NewMemoryStore(),
		cookies: session.Cookies{Name: "parkspot_session"},
		calls:   map[string]int{},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.mu.Lock()
		h.calls[r.URL.Path]++
		h.mu.Unlock()
		h.api.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := zap.NewNop()
	renderer, err := web.NewRenderer()
	require.NoError(t, err)

	flashes := session.NewFlashes(h.store, 0)
	handoffs := session.NewHandoffs(h.store, 0)
	h.handoffs = handoffs
	viewStore := views.NewStateStore(h.store, 0)

	var manager *session.Manager
	apiClient := clients.NewBaseClient(srv.URL, "/api/v1", srv.Client(),
		clients.WithUnauthorizedHandler(clients.UnauthorizedFunc(func(ctx context.Context) {
			manager.OnUnauthorized(ctx)
		})),
	)
	auth := clients.NewAuthClient(apiClient)
	parking := clients.NewParkingClient(apiClient)
	bookings := clients.NewBookingsClient(apiClient)
	payments := clients.NewPaymentsClient(apiClient)
	admin := clients.NewAdminClient(apiClient)
	manager = session.NewManager(h.store, flashes, auth, logger)

	base := handlers.NewBase(renderer, flashes, "KES", logger)
	h.router = NewRouter(RouterDeps{
		PublicHandlers:   handlers.NewPublicHandlers(base),
		AuthHandlers:     handlers.NewAuthHandlers(base, manager, auth),
		SpotsHandlers:    handlers.NewSpotsHandlers(base, parking, handoffs, viewStore, 7),
		BookingHandlers:  handlers.NewBookingHandlers(base, parking, workflow.NewBooking(bookings), handoffs),
		PaymentHandlers:  handlers.NewPaymentHandlers(base, workflow.NewPayment(payments), handoffs, "USD"),
		BookingsHandlers: handlers.NewBookingsHandlers(base, bookings, handoffs, viewStore, 5, 5),
		AdminHandlers: handlers.NewAdminHandlers(base, admin, bookings, parking, viewStore, handlers.AdminPageSizes{
			Bookings: 5, Spots: 7, AuditLogs: 5,
		}),
		HealthHandler: handlers.NewHealthHandler(),
		StaticHandler: web.Static(),
	}, RouterMiddleware{
		Session: middleware.Session(h.cookies, manager, logger),
	})
	return h
}

func (h *harness) signIn(admin bool) {
	h.t.Helper()
	user, err := json.Marshal(models.User{ID: 7, Username: "jane"})
	require.NoError(h.t, err)
	require.NoError(h.t, h.store.Save(context.Background(), testSID, map[string]string{
		session.KeyToken: "token-7",
		session.KeyUser:  string(user),
		session.KeyCSRF:  "xsrf-7",
		session.KeyAdmin: strconv.FormatBool(admin),
	}))
}

func (h *harness) handle(pattern, body string) {
	h.handleStatus(pattern, http.StatusOK, body)
}

func (h *harness) handleStatus(pattern string, status int, body string) {
	h.api.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

func (h *harness) callCount(path string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.calls[path]
}

func (h *harness) get(target string) *httptest.ResponseRecorder {
	return h.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (h *harness) post(target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) do(req *http.Request) *httptest.ResponseRecorder {
	req.AddCookie(&http.Cookie{Name: h.cookies.Name, Value: testSID})
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	rec := h.get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSessionCookieIssuedForNewVisitor(t *testing.T) {
	h := newHarness(t)
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "parkspot_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)
}

func TestNavigationGatedByIdentity(t *testing.T) {
	h := newHarness(t)

	body := h.get("/").Body.String()
	assert.Contains(t, body, `href="/login"`)
	assert.NotContains(t, body, `href="/my-bookings"`)
	assert.NotContains(t, body, `href="/admin/dashboard"`)

	h.signIn(false)
	body = h.get("/").Body.String()
	assert.Contains(t, body, `href="/my-bookings"`)
	assert.Contains(t, body, "jane")
	assert.NotContains(t, body, `href="/admin/dashboard"`)
	assert.NotContains(t, body, `href="/signup"`)

	h.signIn(true)
	body = h.get("/").Body.String()
	assert.Contains(t, body, `href="/admin/dashboard"`)
}

func TestGuards(t *testing.T) {
	h := newHarness(t)

	rec := h.get("/my-bookings")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = h.get("/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	h.signIn(false)
	rec = h.get("/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/access-denied", rec.Header().Get("Location"))
}

func TestNotFoundPage(t *testing.T) {
	h := newHarness(t)
	rec := h.get("/no-such-page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestUnauthorizedClearsIdentityAndRedirects(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handleStatus("/api/v1/bookings/my-bookings", http.StatusUnauthorized, `{"message":"token expired"}`)

	rec := h.get("/my-bookings")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	fields, err := h.store.Load(context.Background(), testSID)
	require.NoError(t, err)
	for _, key := range []string{session.KeyToken, session.KeyUser, session.KeyCSRF, session.KeyAdmin} {
		assert.NotContains(t, fields, key)
	}

	body := h.get("/login").Body.String()
	assert.Contains(t, body, session.SessionEndedMessage)
}

func TestLoginStoresIdentity(t *testing.T) {
	h := newHarness(t)
	h.handle("/api/v1/auth/public/signin", `{"jwtToken":"tok","username":"jane","roles":["ROLE_ADMIN"]}`)
	h.handle("/api/v1/auth/user", `{"id":7,"username":"jane","email":"jane@example.com"}`)
	h.handle("/api/v1/csrf-token", `{"token":"xsrf"}`)

	rec := h.post("/login", url.Values{"username": {"jane"}, "password": {"pw"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	fields, err := h.store.Load(context.Background(), testSID)
	require.NoError(t, err)
	assert.Equal(t, "tok", fields[session.KeyToken])
	assert.Equal(t, "true", fields[session.KeyAdmin])
}

func TestLoginRequiresCredentials(t *testing.T) {
	h := newHarness(t)
	rec := h.post("/login", url.Values{"username": {"jane"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, 0, h.callCount("/api/v1/auth/public/signin"))
}

func bookingForm(intent string) url.Values {
	return url.Values{
		"spotId":              {"12"},
		"vehicleRegistration": {"KAA123"},
		"startTime":           {"2026-03-01T10:00"},
		"endTime":             {"2026-03-01T12:00"},
		"intent":              {intent},
	}
}

func TestBookingHandsOffToPayment(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/parking/spots/with-location", `{"responseCode":"200","body":[{"spotInfo":"12 Westlands","vehicleType":"Car"}]}`)
	h.handle("/api/v1/bookings/calculate-amount", `150`)
	h.handle("/api/v1/bookings/create", `{"responseCode":"201","body":{"bookingId":42,"amount":150,"vehicleRegistration":"KAA123"}}`)

	rec := h.post("/book-parking", bookingForm("book"))
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/make-payment", rec.Header().Get("Location"))
	assert.Equal(t, 1, h.callCount("/api/v1/bookings/calculate-amount"))

	rec = h.get("/make-payment")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Parking payment for KAA123")
	assert.Contains(t, body, "#42")
	assert.Contains(t, body, "Parking booked successfully")
	assert.NotContains(t, body, `name="amount"`)

	rec = h.get("/make-payment")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "Parking booked successfully")
}

func TestBookingAmountComesFromBackend(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/parking/spots/with-location", `{"responseCode":"200","body":[{"spotInfo":"12 Westlands","vehicleType":"Car"}]}`)
	h.handle("/api/v1/bookings/calculate-amount", `150`)
	var created []models.NewBookingRequest
	h.api.HandleFunc("/api/v1/bookings/create", func(w http.ResponseWriter, r *http.Request) {
		var req models.NewBookingRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		created = append(created, req)
		_, _ = w.Write([]byte(`{"responseCode":"201","body":{"bookingId":42,"amount":150,"vehicleRegistration":"KAA123"}}`))
	})

	quote := bookingForm("quote")
	rec := h.post("/book-parking", quote)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "KES 150")
	assert.NotContains(t, rec.Body.String(), `name="amount"`)
	require.Equal(t, 1, h.callCount("/api/v1/bookings/calculate-amount"))

	book := bookingForm("book")
	book.Set("quoteKey", "7|Car|2026-03-01T10:00|2026-03-01T12:00")
	book.Set("amount", "1")
	rec = h.post("/book-parking", book)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, 1, h.callCount("/api/v1/bookings/calculate-amount"))

	require.Len(t, created, 1)
	assert.True(t, created[0].Amount.Equal(decimal.NewFromInt(150)), created[0].Amount.String())
}

func TestBookingTamperedAmountWithoutQuoteIsRequoted(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/parking/spots/with-location", `{"responseCode":"200","body":[{"spotInfo":"12 Westlands","vehicleType":"Car"}]}`)
	h.handle("/api/v1/bookings/calculate-amount", `150`)
	var sent models.NewBookingRequest
	h.api.HandleFunc("/api/v1/bookings/create", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"responseCode":"201","body":{"bookingId":42,"amount":150,"vehicleRegistration":"KAA123"}}`))
	})

	form := bookingForm("book")
	form.Set("quoteKey", "7|Car|2026-03-01T10:00|2026-03-01T12:00")
	form.Set("amount", "1")
	rec := h.post("/book-parking", form)
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, 1, h.callCount("/api/v1/bookings/calculate-amount"))
	assert.True(t, sent.Amount.Equal(decimal.NewFromInt(150)), sent.Amount.String())
}

func TestBookingEndBeforeStartNeverCreates(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/parking/spots/with-location", `{"responseCode":"200","body":[{"spotInfo":"12 Westlands","vehicleType":"Car"}]}`)
	h.handle("/api/v1/bookings/calculate-amount", `150`)

	rec := h.post("/book-parking", url.Values{
		"spotId":              {"12"},
		"vehicleRegistration": {"KAA123"},
		"startTime":           {"2026-03-01T12:00"},
		"endTime":             {"2026-03-01T10:00"},
		"intent":              {"book"},
	})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), workflow.MsgEndBeforeStart)
	assert.Equal(t, 0, h.callCount("/api/v1/bookings/create"))
}

func TestPaymentPageWithoutHandoff(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)

	rec := h.get("/make-payment")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
}

func (h *harness) handOffPayment() {
	h.t.Helper()
	require.NoError(h.t, h.handoffs.PutPayment(context.Background(), testSID, session.PaymentHandoff{
		BookingID: 42, Amount: decimal.NewFromInt(150), VehicleRegistration: "KAA123", Name: "Parking payment for KAA123",
	}))
}

func startMobileMoney(t *testing.T, h *harness) {
	t.Helper()
	h.handOffPayment()
	rec := h.post("/make-payment/mpesa", url.Values{"bookingId": {"1"}, "amount": {"1"}, "name": {"cheap"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/mpesa-checkout", rec.Header().Get("Location"))

	rec = h.get("/mpesa-checkout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "KES 150")
	assert.Contains(t, rec.Body.String(), "Parking payment for KAA123")
}

func TestCardCheckoutUsesHandoff(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handOffPayment()
	var sent clients.CheckoutRequest
	h.api.HandleFunc("/api/v1/checkout", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"status":"SUCCESS","sessionUrl":"https://pay.example/cs_1"}`))
	})

	rec := h.post("/make-payment/card", url.Values{"bookingId": {"1"}, "amount": {"1"}, "name": {"cheap"}})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "https://pay.example/cs_1", rec.Header().Get("Location"))
	assert.Equal(t, int64(42), sent.BookingID)
	assert.True(t, sent.Amount.Equal(decimal.NewFromInt(150)), sent.Amount.String())
	assert.Equal(t, "Parking payment for KAA123", sent.Name)
	assert.Equal(t, "USD", sent.Currency)

	rec = h.get("/make-payment")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
}

func TestCardCheckoutWithoutHandoff(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)

	rec := h.post("/make-payment/card", url.Values{"bookingId": {"42"}, "amount": {"150"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
	assert.Equal(t, 0, h.callCount("/api/v1/checkout"))
}

func TestMobileMoneySuccess(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	var sent clients.MobileMoneyRequest
	h.api.HandleFunc("/api/v1/mpayments/process/42", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&sent))
		_, _ = w.Write([]byte(`{"responseCode":"200","responseMessage":"queued"}`))
	})
	startMobileMoney(t, h)

	rec := h.post("/mpesa-checkout", url.Values{"bookingId": {"1"}, "amount": {"1"}, "phoneNumber": {"254712345678"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/payment-success", rec.Header().Get("Location"))
	assert.Equal(t, clients.MobileMoneyRequest{PhoneNumber: "254712345678", Amount: "150"}, sent)
	assert.Equal(t, 0, h.callCount("/api/v1/mpayments/process/1"))

	rec = h.get("/payment-success")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/my-bookings"`)

	for _, page := range []string{"/make-payment", "/mpesa-checkout"} {
		rec = h.get(page)
		assert.Equal(t, http.StatusSeeOther, rec.Code, page)
		assert.Equal(t, "/my-bookings", rec.Header().Get("Location"), page)
	}
}

func TestMobileMoneyFailureStaysOnCheckout(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/mpayments/process/42", `{"responseCode":"500","responseMessage":"Payment failed. Please try again."}`)
	startMobileMoney(t, h)

	rec := h.post("/mpesa-checkout", url.Values{"phoneNumber": {"254712345678"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Payment failed. Please try again.")

	assert.Equal(t, http.StatusOK, h.get("/mpesa-checkout").Code)
}

func TestMobileMoneyEmptyPhoneNeverCalls(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	startMobileMoney(t, h)

	rec := h.post("/mpesa-checkout", url.Values{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), workflow.MsgMobileMoneyRequired)
	assert.Equal(t, 0, h.callCount("/api/v1/mpayments/process/42"))
}

func TestMobileMoneyWithoutHandoff(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)

	rec := h.post("/mpesa-checkout", url.Values{"bookingId": {"42"}, "amount": {"150"}, "phoneNumber": {"254712345678"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
	assert.Equal(t, 0, h.callCount("/api/v1/mpayments/process/42"))
}

func TestOutOfRangePageDoesNotFetch(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/bookings/my-bookings", `{"responseCode":"200","body":[{"bookingId":1,"vehicleRegistration":"KAA123","paymentStatus":"PAID"}],"currentPage":1,"totalPages":2,"totalElements":6}`)

	require.Equal(t, http.StatusOK, h.get("/my-bookings").Code)
	require.Equal(t, 1, h.callCount("/api/v1/bookings/my-bookings"))

	rec := h.get("/my-bookings?page=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.callCount("/api/v1/bookings/my-bookings"))
	assert.Contains(t, rec.Body.String(), "Page 1 of 2")

	rec = h.get("/my-bookings?page=0")
	assert.Equal(t, 1, h.callCount("/api/v1/bookings/my-bookings"))
	assert.Contains(t, rec.Body.String(), "Page 1 of 2")
}

func TestAdminSpotsFilterNarrowsLoadedPage(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)
	h.handle("/api/v1/parking/spots", `{"responseCode":"200","body":[{"spotId":1,"spotLocation":"Westlands","status":"AVAILABLE"},{"spotId":2,"spotLocation":"Kilimani","status":"BOOKED"}],"currentPage":1,"totalPages":1,"totalElements":2}`)

	require.Equal(t, http.StatusOK, h.get("/admin/parking-spots").Code)
	rec := h.get("/admin/parking-spots?filter=AVAILABLE")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.callCount("/api/v1/parking/spots"))
	body := rec.Body.String()
	assert.Contains(t, body, "Westlands")
	assert.NotContains(t, body, "Kilimani")
}

func TestAdminCreateSpotValidation(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)
	h.handle("/api/v1/parking/spots", `{"responseCode":"200","body":[],"currentPage":1,"totalPages":0,"totalElements":0}`)

	rec := h.post("/admin/parking-spots", url.Values{"vehicleType": {"Car"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), workflow.MsgLocationRequired)
	assert.Equal(t, 0, h.callCount("/api/v1/admin/parking/spots"))
}

func TestAdminCreateSpot(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)
	var got models.NewSpotRequest
	h.api.HandleFunc("/api/v1/admin/parking/spots", func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"responseCode":"201","body":{"spotId":9}}`))
	})

	rec := h.post("/admin/parking-spots", url.Values{"spotLocation": {"Westlands"}, "vehicleType": {"Car"}})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/parking-spots", rec.Header().Get("Location"))
	assert.Equal(t, models.NewSpotRequest{SpotLocation: "Westlands", VehicleType: "Car", Status: models.SpotAvailable}, got)
}

func TestAdminAuditLogsDateRange(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)
	h.handle("/api/v1/admin/audit/logs", `{"responseCode":"200","body":[
		{"id":1,"action":"CREATE","username":"alice-early","changeTimestamp":"2026-01-01T09:00:00"},
		{"id":2,"action":"UPDATE","username":"bob-inside","changeTimestamp":"2026-01-05T23:30:00"},
		{"id":3,"action":"DELETE","username":"carol-late","changeTimestamp":"2026-01-09T08:00:00"}
	]}`)

	rec := h.get("/admin/audit-logs?from=2026-01-02&to=2026-01-05")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "bob-inside")
	assert.NotContains(t, body, "alice-early")
	assert.NotContains(t, body, "carol-late")
}

func TestFinePayNowHandsOff(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/fines/7", `{"responseCode":"200","body":[{"id":3,"amount":500,"reason":"Overstay","status":"UNPAID","booking":{"bookingId":42}}]}`)

	rec := h.post("/my-fines/3/pay", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/make-payment", rec.Header().Get("Location"))

	body := h.get("/make-payment").Body.String()
	assert.Contains(t, body, "Fine Payment for ID 42")
}

func numbered(field string, n int) string {
	items := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		items = append(items, `{"id":`+strconv.Itoa(i)+`,"`+field+`":"entry-`+strconv.Itoa(i)+`"}`)
	}
	return `{"responseCode":"200","body":[` + strings.Join(items, ",") + `]}`
}

func TestAuditLogsPageLocallyWithoutRefetch(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)
	h.handle("/api/v1/admin/audit/logs", numbered("username", 6))

	rec := h.get("/admin/audit-logs")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page 1 of 2")
	require.Equal(t, 1, h.callCount("/api/v1/admin/audit/logs"))

	rec = h.get("/admin/audit-logs?page=2")
	assert.Contains(t, rec.Body.String(), "Page 2 of 2")
	assert.Contains(t, rec.Body.String(), "entry-6")
	assert.NotContains(t, rec.Body.String(), "entry-1<")

	for _, page := range []string{"99", "0"} {
		rec = h.get("/admin/audit-logs?page=" + page)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "Page 2 of 2", page)
	}
	assert.Equal(t, 1, h.callCount("/api/v1/admin/audit/logs"))
}

func TestAuditLogsRangeResetsToFirstPageAndPersists(t *testing.T) {
	h := newHarness(t)
	h.signIn(true)
	h.handle("/api/v1/admin/audit/logs", `{"responseCode":"200","body":[
		{"id":1,"username":"alice-early","changeTimestamp":"2026-01-01T09:00:00"},
		{"id":2,"username":"bob-inside","changeTimestamp":"2026-01-05T23:30:00"},
		{"id":3,"username":"carol-late","changeTimestamp":"2026-01-09T08:00:00"},
		{"id":4,"username":"dave-late","changeTimestamp":"2026-01-10T08:00:00"},
		{"id":5,"username":"erin-late","changeTimestamp":"2026-01-11T08:00:00"},
		{"id":6,"username":"frank-late","changeTimestamp":"2026-01-12T08:00:00"}
	]}`)

	require.Equal(t, http.StatusOK, h.get("/admin/audit-logs").Code)
	require.Contains(t, h.get("/admin/audit-logs?page=2").Body.String(), "Page 2 of 2")

	rec := h.get("/admin/audit-logs?from=2026-01-02&to=2026-01-05")
	assert.Contains(t, rec.Body.String(), "Page 1 of 1")
	assert.Contains(t, rec.Body.String(), "bob-inside")

	rec = h.get("/admin/audit-logs?page=1")
	assert.Contains(t, rec.Body.String(), "bob-inside")
	assert.NotContains(t, rec.Body.String(), "carol-late")
	assert.Equal(t, 1, h.callCount("/api/v1/admin/audit/logs"))
}

func TestFinesPageLocallyWithoutRefetch(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/fines/7", numbered("reason", 6))

	require.Contains(t, h.get("/my-fines").Body.String(), "Page 1 of 2")
	rec := h.get("/my-fines?page=2")
	assert.Contains(t, rec.Body.String(), "Page 2 of 2")
	assert.Contains(t, rec.Body.String(), "entry-6")

	rec = h.get("/my-fines?page=3")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page 2 of 2")
	assert.Equal(t, 1, h.callCount("/api/v1/fines/7"))
}

func TestExitRequiresActivePaidBooking(t *testing.T) {
	h := newHarness(t)
	h.signIn(false)
	h.handle("/api/v1/bookings/5", `{"responseCode":"200","body":{"bookingId":5,"paymentStatus":"PENDING","bookingStatus":"ACTIVE"}}`)
	h.handle("/api/v1/bookings/6", `{"responseCode":"200","body":{"bookingId":6,"paymentStatus":"PAID","bookingStatus":"ACTIVE"}}`)
	h.handle("/api/v1/bookings/exit/6", `{"responseCode":200,"responseMessage":"Exited parking successfully"}`)
	h.handle("/api/v1/bookings/my-bookings", `{"responseCode":"200","body":[],"currentPage":1,"totalPages":1,"totalElements":0}`)

	rec := h.post("/my-bookings/exit/5", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/my-bookings", rec.Header().Get("Location"))
	assert.Equal(t, 0, h.callCount("/api/v1/bookings/exit/5"))
	assert.Contains(t, h.get("/my-bookings").Body.String(), "Only active paid bookings can be exited")

	rec = h.post("/my-bookings/exit/6", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, 1, h.callCount("/api/v1/bookings/exit/6"))
}
