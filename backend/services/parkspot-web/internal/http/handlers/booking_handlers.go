package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/workflow"
)

const (
	msgSpotsUnavailable = "Unable to load parking spots"
	msgAmountFailed     = "Unable to calculate the amount"
	msgBooked           = "Parking booked successfully"
	msgBookingFailed    = "Error booking parking"
)

// BookingHandlers serves the Book Parking form.
type BookingHandlers struct {
	*Base
	parking  *clients.ParkingClient
	booking  *workflow.Booking
	handoffs *session.Handoffs
}

// NewBookingHandlers builds handler.
func NewBookingHandlers(base *Base, parking *clients.ParkingClient, booking *workflow.Booking, handoffs *session.Handoffs) *BookingHandlers {
	return &BookingHandlers{Base: base, parking: parking, booking: booking, handoffs: handoffs}
}

type bookingFormData struct {
	Form    workflow.BookingForm
	Options []models.SpotOption
	Errors  workflow.ValidationErrors
	Notice  string
}

// Form renders the booking form, prefilled from a spot selection when one was handed over.
func (h *BookingHandlers) Form(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := workflow.BookingForm{UserID: session.IdentityFromContext(ctx).UserID()}

	spot, ok, err := h.handoffs.TakeSpot(ctx, sessionID(ctx))
	if err != nil {
		h.logger.Warn("take spot selection failed", zap.Error(err))
	}
	if ok {
		form.SpotID = strconv.FormatInt(spot.SpotID, 10)
		form.VehicleType = spot.VehicleType
	}

	data := bookingFormData{Form: form}
	options, err := h.parking.SpotsWithLocation(ctx)
	if err != nil {
		msg, handled := h.apiError(w, r, err, msgSpotsUnavailable)
		if handled {
			return
		}
		data.Notice = msg
	}
	data.Options = options
	h.render(w, r, http.StatusOK, "book_parking", "Book parking", data)
}

// Submit handles both form intents. intent=quote only refreshes the amount; any other intent
// refreshes the amount and then books. The amount always comes from the backend: the quote of
// the session is reused while its inputs match and requested again otherwise.
func (h *BookingHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	options, err := h.parking.SpotsWithLocation(ctx)
	if err != nil {
		if _, handled := h.apiError(w, r, err, msgSpotsUnavailable); handled {
			return
		}
	}

	form := parseBookingForm(r, session.IdentityFromContext(ctx).UserID(), options)
	data := bookingFormData{Form: form, Options: options}

	sid := sessionID(ctx)
	last, _, err := h.handoffs.Quote(ctx, sid)
	if err != nil {
		h.logger.Warn("load quote failed", zap.Error(err))
	}
	quote, fetched, err := h.booking.Refresh(ctx, &data.Form, last)
	if fetched {
		if perr := h.handoffs.PutQuote(ctx, sid, quote); perr != nil {
			h.logger.Warn("store quote failed", zap.Error(perr))
		}
	}
	if err != nil {
		msg, handled := h.apiError(w, r, err, msgAmountFailed)
		if handled {
			return
		}
		data.Notice = msg
	}

	if r.PostFormValue("intent") == "quote" {
		h.render(w, r, http.StatusOK, "book_parking", "Book parking", data)
		return
	}

	handoff, err := h.booking.Submit(ctx, data.Form)
	if err != nil {
		var verrs workflow.ValidationErrors
		if errors.As(err, &verrs) {
			data.Errors = verrs
			h.render(w, r, http.StatusUnprocessableEntity, "book_parking", "Book parking", data)
			return
		}
		msg, handled := h.apiError(w, r, err, msgBookingFailed)
		if handled {
			return
		}
		data.Notice = msg
		h.render(w, r, http.StatusOK, "book_parking", "Book parking", data)
		return
	}

	if err := h.handoffs.DropQuote(ctx, sid); err != nil {
		h.logger.Warn("drop quote failed", zap.Error(err))
	}
	if err := h.handoffs.PutPayment(ctx, sid, handoff); err != nil {
		h.logger.Error("store payment handoff failed", zap.Error(err))
		data.Notice = msgUnexpected
		h.render(w, r, http.StatusInternalServerError, "book_parking", "Book parking", data)
		return
	}
	h.flash(ctx, session.FlashSuccess, msgBooked)
	redirect(w, r, "/make-payment")
}

// parseBookingForm reads the posted form. Choosing a spot sets the vehicle type of that spot. A
// posted amount is never read.
func parseBookingForm(r *http.Request, userID int64, options []models.SpotOption) workflow.BookingForm {
	form := workflow.BookingForm{
		UserID:              userID,
		SpotID:              strings.TrimSpace(r.PostFormValue("spotId")),
		VehicleType:         strings.TrimSpace(r.PostFormValue("vehicleType")),
		VehicleRegistration: strings.TrimSpace(r.PostFormValue("vehicleRegistration")),
		StartTime:           strings.TrimSpace(r.PostFormValue("startTime")),
		EndTime:             strings.TrimSpace(r.PostFormValue("endTime")),
	}
	for _, opt := range options {
		if opt.SpotID() == form.SpotID && opt.VehicleType != "" {
			form.VehicleType = opt.VehicleType
			break
		}
	}
	return form
}
