package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/views"
)

const (
	viewAvailableSpots = "available-spots"

	filterByLocation   = "Location"
	msgLocationMissing = "Please enter a valid location to search."
	msgSpotMissing     = "Spot information is missing."
)

// SpotsHandlers serves the available spots list.
type SpotsHandlers struct {
	*Base
	parking  *clients.ParkingClient
	handoffs *session.Handoffs
	views    *views.StateStore
	pageSize int
}

// NewSpotsHandlers builds handler.
func NewSpotsHandlers(base *Base, parking *clients.ParkingClient, handoffs *session.Handoffs, store *views.StateStore, pageSize int) *SpotsHandlers {
	return &SpotsHandlers{Base: base, parking: parking, handoffs: handoffs, views: store, pageSize: pageSize}
}

type availableSpotsData struct {
	Spots      []models.ParkingSpot
	Pagination views.Pagination
	Filter     string
	Location   string
	Filters    []string
	Error      string
}

// Available lists bookable spots. action=search applies the filter: "All" clears the location,
// "Location" searches on the server and needs a non-empty term.
func (h *SpotsHandlers) Available(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := loadState(ctx, h.Base, h.views, viewAvailableSpots, views.NewState[models.ParkingSpot](h.pageSize, "All"))
	list := views.NewList(state, h.parking.AvailableSpots, nil)

	q := r.URL.Query()
	var err error
	var notice string
	if q.Get("action") == "search" {
		filter := q.Get("filter")
		location := strings.TrimSpace(q.Get("location"))
		if filter == filterByLocation {
			list.State.Filter = filterByLocation
			if location == "" {
				notice = msgLocationMissing
			} else {
				err = list.Search(ctx, location)
			}
		} else {
			list.State.Filter = "All"
			err = list.Search(ctx, "")
		}
	} else {
		err = navigate(ctx, r, list)
	}

	if err != nil {
		msg, handled := h.apiError(w, r, err, msgFetchFailed)
		if handled {
			return
		}
		notice = msg
	}
	saveState(ctx, h.Base, h.views, viewAvailableSpots, list.State)

	h.render(w, r, http.StatusOK, "available_spots", "Available parking spots", availableSpotsData{
		Spots:      list.Visible(),
		Pagination: list.State.Pagination,
		Filter:     list.State.Filter,
		Location:   list.State.Query,
		Filters:    views.AvailableSpotFilters,
		Error:      notice,
	})
}

// Book hands the chosen spot to the booking form.
func (h *SpotsHandlers) Book(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	spotID := formInt(r, "spotId")
	if spotID == 0 {
		h.flash(ctx, session.FlashError, msgSpotMissing)
		redirect(w, r, "/available-spots")
		return
	}

	err := h.handoffs.PutSpot(ctx, sessionID(ctx), session.SpotSelection{
		SpotID:       spotID,
		SpotLocation: r.PostFormValue("spotLocation"),
		VehicleType:  r.PostFormValue("vehicleType"),
	})
	if err != nil {
		h.logger.Error("store spot selection failed", zap.Error(err))
	}
	redirect(w, r, "/book-parking")
}
