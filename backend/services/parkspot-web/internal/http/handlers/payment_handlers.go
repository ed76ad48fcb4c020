package handlers

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/workflow"
)

const (
	msgCheckoutFailed = "Error creating payment session"
	msgSomethingWrong = "Something went wrong. Please try again."
)

// PaymentHandlers serves the payment page, mobile money checkout and the success page.
type PaymentHandlers struct {
	*Base
	payment      *workflow.Payment
	handoffs     *session.Handoffs
	cardCurrency string
}

// NewPaymentHandlers builds handler. cardCurrency is sent with card checkouts.
func NewPaymentHandlers(base *Base, payment *workflow.Payment, handoffs *session.Handoffs, cardCurrency string) *PaymentHandlers {
	return &PaymentHandlers{Base: base, payment: payment, handoffs: handoffs, cardCurrency: cardCurrency}
}

type paymentData struct {
	Form   workflow.PaymentForm
	Errors workflow.ValidationErrors
	Notice string
}

type mobileMoneyData struct {
	Form  workflow.MobileMoneyForm
	Name  string
	Error string
}

// Show renders the payment page for the handed over item. Without one the user goes back to
// their bookings. The hand-off stays until the payment goes through.
func (h *PaymentHandlers) Show(w http.ResponseWriter, r *http.Request) {
	handoff, ok := h.paymentHandoff(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "make_payment", "Make payment", paymentData{
		Form: workflow.PaymentFormFrom(handoff, h.cardCurrency),
	})
}

// paymentHandoff reads the payment hand-off of the session, or sends the browser to the bookings when
// there is none.
func (h *PaymentHandlers) paymentHandoff(w http.ResponseWriter, r *http.Request) (session.PaymentHandoff, bool) {
	ctx := r.Context()
	handoff, ok, err := h.handoffs.Payment(ctx, sessionID(ctx))
	if err != nil {
		h.logger.Warn("load payment handoff failed", zap.Error(err))
	}
	if !ok {
		redirect(w, r, "/my-bookings")
	}
	return handoff, ok
}

func (h *PaymentHandlers) mobileMoneyHandoff(w http.ResponseWriter, r *http.Request) (session.MobileMoneyHandoff, bool) {
	ctx := r.Context()
	handoff, ok, err := h.handoffs.MobileMoney(ctx, sessionID(ctx))
	if err != nil {
		h.logger.Warn("load mobile money handoff failed", zap.Error(err))
	}
	if !ok {
		redirect(w, r, "/my-bookings")
	}
	return handoff, ok
}

func (h *PaymentHandlers) finish(r *http.Request) {
	ctx := r.Context()
	if err := h.handoffs.FinishPayment(ctx, sessionID(ctx)); err != nil {
		h.logger.Warn("drop payment handoff failed", zap.Error(err))
	}
}

// Card opens a card checkout session for the handed over item and sends the browser to the
// processor.
func (h *PaymentHandlers) Card(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handoff, ok := h.paymentHandoff(w, r)
	if !ok {
		return
	}
	form := workflow.PaymentFormFrom(handoff, h.cardCurrency)

	url, msg, err := h.payment.Card(ctx, form)
	if err != nil {
		data := paymentData{Form: form}
		var verrs workflow.ValidationErrors
		if errors.As(err, &verrs) {
			data.Errors = verrs
			h.render(w, r, http.StatusUnprocessableEntity, "make_payment", "Make payment", data)
			return
		}
		notice, handled := h.apiError(w, r, err, msgCheckoutFailed)
		if handled {
			return
		}
		data.Notice = notice
		h.render(w, r, http.StatusOK, "make_payment", "Make payment", data)
		return
	}

	h.finish(r)
	h.logger.Info("checkout session created", zap.Int64("booking_id", form.BookingID), zap.String("message", msg))
	http.Redirect(w, r, url, http.StatusSeeOther)
}

// StartMobileMoney hands the item being paid to the mobile money checkout.
func (h *PaymentHandlers) StartMobileMoney(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handoff, ok := h.paymentHandoff(w, r)
	if !ok {
		return
	}
	form := workflow.PaymentFormFrom(handoff, h.cardCurrency)
	err := h.handoffs.PutMobileMoney(ctx, sessionID(ctx), session.MobileMoneyHandoff{
		BookingID: form.BookingID,
		Amount:    form.Amount,
		Name:      form.Name,
	})
	if err != nil {
		h.logger.Error("store mobile money handoff failed", zap.Error(err))
		h.render(w, r, http.StatusInternalServerError, "make_payment", "Make payment", paymentData{Form: form, Notice: msgUnexpected})
		return
	}
	redirect(w, r, "/mpesa-checkout")
}

// MobileMoneyForm renders the mobile money checkout.
func (h *PaymentHandlers) MobileMoneyForm(w http.ResponseWriter, r *http.Request) {
	handoff, ok := h.mobileMoneyHandoff(w, r)
	if !ok {
		return
	}
	h.render(w, r, http.StatusOK, "mpesa_checkout", "Checkout", mobileMoneyData{
		Form: workflow.MobileMoneyForm{BookingID: handoff.BookingID, Amount: handoff.Amount},
		Name: handoff.Name,
	})
}

// MobileMoney charges the phone for the handed over item. Success moves on to the success page;
// anything else stays on the checkout with a message.
func (h *PaymentHandlers) MobileMoney(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	handoff, ok := h.mobileMoneyHandoff(w, r)
	if !ok {
		return
	}
	data := mobileMoneyData{
		Form: workflow.MobileMoneyForm{
			BookingID:   handoff.BookingID,
			Amount:      handoff.Amount,
			PhoneNumber: strings.TrimSpace(r.PostFormValue("phoneNumber")),
		},
		Name: handoff.Name,
	}

	err := h.payment.MobileMoney(ctx, data.Form)
	if err == nil {
		h.finish(r)
		redirect(w, r, "/payment-success")
		return
	}

	var verrs workflow.ValidationErrors
	var rejected *workflow.MobileMoneyError
	switch {
	case errors.As(err, &verrs):
		for _, msg := range verrs {
			data.Error = msg
		}
		h.render(w, r, http.StatusUnprocessableEntity, "mpesa_checkout", "Checkout", data)
		return
	case errors.As(err, &rejected):
		data.Error = rejected.Message
	default:
		if _, handled := h.apiError(w, r, err, msgSomethingWrong); handled {
			return
		}
		data.Error = msgSomethingWrong
	}
	h.render(w, r, http.StatusOK, "mpesa_checkout", "Checkout", data)
}

// Success renders the confirmation page. It links back to the bookings and never redirects.
func (h *PaymentHandlers) Success(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "payment_success", "Payment successful", nil)
}
