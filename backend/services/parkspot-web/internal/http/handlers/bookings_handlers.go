package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/views"
	"parkspot/backend/services/parkspot-web/internal/workflow"
)

const (
	viewMyBookings = "my-bookings"
	viewMyFines    = "my-fines"

	msgExited       = "Exited parking successfully"
	msgExitFailed   = "Unable to exit parking"
	msgNotPayable   = "This booking cannot be paid"
	msgNotExitable  = "Only active paid bookings can be exited"
	msgBookingFetch = "Error fetching booking details"
	msgFinesFetch   = "Error fetching fines"
	msgFineNotFound = "Fine not found"
)

// BookingsHandlers serves the signed-in user's bookings and fines.
type BookingsHandlers struct {
	*Base
	bookings     *clients.BookingsClient
	handoffs     *session.Handoffs
	views        *views.StateStore
	pageSize     int
	finePageSize int
}

// NewBookingsHandlers builds handler.
func NewBookingsHandlers(base *Base, bookings *clients.BookingsClient, handoffs *session.Handoffs, store *views.StateStore, pageSize, finePageSize int) *BookingsHandlers {
	return &BookingsHandlers{
		Base:         base,
		bookings:     bookings,
		handoffs:     handoffs,
		views:        store,
		pageSize:     pageSize,
		finePageSize: finePageSize,
	}
}

type bookingListData struct {
	Bookings   []models.Booking
	Pagination views.Pagination
	Filter     string
	Filters    []string
	Error      string
}

// Mine lists the user's bookings. Changing the filter returns to page 1 and the filter narrows
// the loaded page.
func (h *BookingsHandlers) Mine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := session.IdentityFromContext(ctx).UserID()
	fetch := func(ctx context.Context, page, size int, _ string) (models.Page[models.Booking], error) {
		return h.bookings.Mine(ctx, userID, page, size)
	}

	state := loadState(ctx, h.Base, h.views, viewMyBookings, views.NewState[models.Booking](h.pageSize, views.FilterAll))
	list := views.NewList(state, fetch, views.MatchPaymentStatus)

	var err error
	if filter := r.URL.Query().Get("filter"); filter != "" {
		list.SetFilter(filter)
		err = list.Reset(ctx)
	} else {
		err = navigate(ctx, r, list)
	}

	data := bookingListData{Filters: views.MyBookingFilters}
	if err != nil {
		msg, handled := h.apiError(w, r, err, msgFetchFailed)
		if handled {
			return
		}
		data.Error = msg
	}
	saveState(ctx, h.Base, h.views, viewMyBookings, list.State)

	data.Bookings = list.Visible()
	data.Pagination = list.State.Pagination
	data.Filter = list.State.Filter
	h.render(w, r, http.StatusOK, "my_bookings", "My bookings", data)
}

// Exit ends an active paid booking.
func (h *BookingsHandlers) Exit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}

	booking, err := h.bookings.Get(ctx, id)
	if err != nil {
		notice, handled := h.apiError(w, r, err, msgBookingFetch)
		if handled {
			return
		}
		h.flash(ctx, session.FlashError, notice)
		redirect(w, r, "/my-bookings")
		return
	}
	if !booking.CanExit() {
		h.flash(ctx, session.FlashError, msgNotExitable)
		redirect(w, r, "/my-bookings")
		return
	}

	msg, err := h.bookings.Exit(ctx, id)
	if err != nil {
		notice, handled := h.apiError(w, r, err, msgExitFailed)
		if handled {
			return
		}
		h.flash(ctx, session.FlashError, notice)
		redirect(w, r, "/my-bookings")
		return
	}
	if msg == "" {
		msg = msgExited
	}
	h.flash(ctx, session.FlashSuccess, msg)
	redirect(w, r, "/my-bookings")
}

// Details renders one booking.
func (h *BookingsHandlers) Details(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	booking, err := h.bookings.Get(r.Context(), id)
	if err != nil {
		h.failPage(w, r, err, msgBookingFetch)
		return
	}
	h.render(w, r, http.StatusOK, "booking_details", "Booking details", booking)
}

// Pay hands an unpaid booking to the payment page.
func (h *BookingsHandlers) Pay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	booking, err := h.bookings.Get(ctx, id)
	if err != nil {
		notice, handled := h.apiError(w, r, err, msgBookingFetch)
		if handled {
			return
		}
		h.flash(ctx, session.FlashError, notice)
		redirect(w, r, "/my-bookings")
		return
	}
	if !booking.CanPay() {
		h.flash(ctx, session.FlashError, msgNotPayable)
		redirect(w, r, "/my-bookings")
		return
	}
	h.handoff(w, r, workflow.BookingHandoff(booking))
}

func (h *BookingsHandlers) handoff(w http.ResponseWriter, r *http.Request, handoff session.PaymentHandoff) {
	ctx := r.Context()
	if err := h.handoffs.PutPayment(ctx, sessionID(ctx), handoff); err != nil {
		h.logger.Error("store payment handoff failed", zap.Error(err))
		h.flash(ctx, session.FlashError, msgUnexpected)
		redirect(w, r, "/my-bookings")
		return
	}
	redirect(w, r, "/make-payment")
}

type finesData struct {
	Fines      []models.Fine
	Pagination views.Pagination
	Error      string
}

// Fines lists the user's fines, paged locally.
func (h *BookingsHandlers) Fines(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := session.IdentityFromContext(ctx).UserID()
	load := func(ctx context.Context) ([]models.Fine, error) {
		return h.bookings.Fines(ctx, userID)
	}

	state := loadState(ctx, h.Base, h.views, viewMyFines, views.NewLocalState[models.Fine](h.finePageSize))
	list := views.NewLocal(state, load, nil)
	err := navigateLocal(ctx, r, list)

	data := finesData{}
	if err != nil {
		msg, handled := h.apiError(w, r, err, msgFinesFetch)
		if handled {
			return
		}
		data.Error = msg
	}
	saveState(ctx, h.Base, h.views, viewMyFines, list.State)

	data.Fines = list.Visible()
	data.Pagination = list.State.Pagination
	h.render(w, r, http.StatusOK, "my_fines", "My fines", data)
}

// PayFine hands a fine to the payment page.
func (h *BookingsHandlers) PayFine(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	fines, err := h.bookings.Fines(ctx, session.IdentityFromContext(ctx).UserID())
	if err != nil {
		notice, handled := h.apiError(w, r, err, msgFinesFetch)
		if handled {
			return
		}
		h.flash(ctx, session.FlashError, notice)
		redirect(w, r, "/my-fines")
		return
	}
	for _, fine := range fines {
		if fine.ID == id {
			h.handoff(w, r, workflow.FineHandoff(fine))
			return
		}
	}
	h.flash(ctx, session.FlashError, msgFineNotFound)
	redirect(w, r, "/my-fines")
}
