package handlers

import (
	"context"
	"net/http"
	"strings"

	"parkspot/backend/services/parkspot-web/internal/clients"
	"parkspot/backend/services/parkspot-web/internal/models"
	"parkspot/backend/services/parkspot-web/internal/session"
	"parkspot/backend/services/parkspot-web/internal/views"
	"parkspot/backend/services/parkspot-web/internal/workflow"
)

const (
	viewAdminBookings = "admin-bookings"
	viewAdminSpots    = "admin-spots"
	viewAuditLogs     = "admin-audit-logs"

	msgStatsFailed  = "Error fetching dashboard statistics"
	msgSpotAdded    = "Parking spot added successfully"
	msgSpotFailed   = "Error adding parking spot"
	msgAuditFetch   = "Error fetching audit logs"
	msgAuditMissing = "Audit log not found"
)

// AdminPageSizes are the page sizes of the admin lists.
type AdminPageSizes struct {
	Bookings  int
	Spots     int
	AuditLogs int
}

// AdminHandlers serves the admin area.
type AdminHandlers struct {
	*Base
	admin    *clients.AdminClient
	bookings *clients.BookingsClient
	parking  *clients.ParkingClient
	views    *views.StateStore
	sizes    AdminPageSizes
}

// NewAdminHandlers builds handler.
func NewAdminHandlers(base *Base, admin *clients.AdminClient, bookings *clients.BookingsClient, parking *clients.ParkingClient, store *views.StateStore, sizes AdminPageSizes) *AdminHandlers {
	return &AdminHandlers{
		Base:     base,
		admin:    admin,
		bookings: bookings,
		parking:  parking,
		views:    store,
		sizes:    sizes,
	}
}

// Dashboard renders the counters.
func (h *AdminHandlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		h.failPage(w, r, err, msgStatsFailed)
		return
	}
	h.render(w, r, http.StatusOK, "admin_dashboard", "Dashboard", stats)
}

// Bookings lists every booking. The payment status filter narrows the loaded page only.
func (h *AdminHandlers) Bookings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := loadState(ctx, h.Base, h.views, viewAdminBookings, views.NewState[models.Booking](h.sizes.Bookings, views.FilterAll))
	list := views.NewList(state, func(ctx context.Context, page, size int, _ string) (models.Page[models.Booking], error) {
		return h.bookings.All(ctx, page, size)
	}, views.MatchPaymentStatus)

	data := bookingListData{Filters: views.AdminBookingFilters}
	if err := applyListQuery(ctx, r, list); err != nil {
		msg, handled := h.apiError(w, r, err, msgFetchFailed)
		if handled {
			return
		}
		data.Error = msg
	}
	saveState(ctx, h.Base, h.views, viewAdminBookings, list.State)

	data.Bookings = list.Visible()
	data.Pagination = list.State.Pagination
	data.Filter = list.State.Filter
	h.render(w, r, http.StatusOK, "admin_bookings", "All bookings", data)
}

type adminSpotsData struct {
	Spots      []models.ParkingSpot
	Pagination views.Pagination
	Filter     string
	Filters    []string
	Error      string
	Form       workflow.SpotForm
	FormErrors workflow.ValidationErrors
	ShowForm   bool
}

// Spots lists every spot. The status filter narrows the loaded page only.
func (h *AdminHandlers) Spots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	list := h.spotList(ctx)

	data := adminSpotsData{Filters: views.SpotStatusFilters, ShowForm: r.URL.Query().Get("new") == "1"}
	if err := applyListQuery(ctx, r, list); err != nil {
		msg, handled := h.apiError(w, r, err, msgFetchFailed)
		if handled {
			return
		}
		data.Error = msg
	}
	saveState(ctx, h.Base, h.views, viewAdminSpots, list.State)
	h.renderSpots(w, r, http.StatusOK, list, data)
}

// CreateSpot adds a spot and reloads the list.
func (h *AdminHandlers) CreateSpot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	form := workflow.SpotForm{
		SpotLocation: r.PostFormValue("spotLocation"),
		VehicleType:  r.PostFormValue("vehicleType"),
		Status:       models.SpotStatus(strings.ToUpper(strings.TrimSpace(r.PostFormValue("status")))),
	}

	if errs := form.Validate(); len(errs) > 0 {
		list := h.spotList(ctx)
		h.renderSpots(w, r, http.StatusUnprocessableEntity, list, adminSpotsData{
			Filters: views.SpotStatusFilters, Form: form, FormErrors: errs, ShowForm: true,
		})
		return
	}

	if err := h.parking.CreateSpot(ctx, form.Request()); err != nil {
		msg, handled := h.apiError(w, r, err, msgSpotFailed)
		if handled {
			return
		}
		list := h.spotList(ctx)
		h.renderSpots(w, r, http.StatusOK, list, adminSpotsData{
			Filters: views.SpotStatusFilters, Form: form, Error: msg, ShowForm: true,
		})
		return
	}

	h.flash(ctx, session.FlashSuccess, msgSpotAdded)
	redirect(w, r, "/admin/parking-spots")
}

func (h *AdminHandlers) spotList(ctx context.Context) *views.List[models.ParkingSpot] {
	state := loadState(ctx, h.Base, h.views, viewAdminSpots, views.NewState[models.ParkingSpot](h.sizes.Spots, "All"))
	return views.NewList(state, func(ctx context.Context, page, size int, _ string) (models.Page[models.ParkingSpot], error) {
		return h.parking.AllSpots(ctx, page, size)
	}, views.MatchSpotStatus)
}

func (h *AdminHandlers) renderSpots(w http.ResponseWriter, r *http.Request, status int, list *views.List[models.ParkingSpot], data adminSpotsData) {
	data.Spots = list.Visible()
	data.Pagination = list.State.Pagination
	data.Filter = list.State.Filter
	h.render(w, r, status, "admin_spots", "All parking spots", data)
}

// applyListQuery changes only the local filter when one is given and a page is loaded; otherwise
// it navigates.
func applyListQuery[T any](ctx context.Context, r *http.Request, list *views.List[T]) error {
	if filter := r.URL.Query().Get("filter"); filter != "" {
		list.SetFilter(filter)
		if list.State.Loaded {
			return nil
		}
	}
	return navigate(ctx, r, list)
}

type auditLogsData struct {
	Entries    []models.AuditLogEntry
	Pagination views.Pagination
	From       string
	To         string
	Error      string
}

type auditLogsState struct {
	List views.LocalState[models.AuditLogEntry] `json:"list"`
	From string                                 `json:"from"`
	To   string                                 `json:"to"`
}

// AuditLogs lists the audit trail filtered by an inclusive date range and paged locally. A new
// range starts at page 1.
func (h *AdminHandlers) AuditLogs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	state := loadState(ctx, h.Base, h.views, viewAuditLogs, auditLogsState{
		List: views.NewLocalState[models.AuditLogEntry](h.sizes.AuditLogs),
	})
	list := views.NewLocal(state.List, h.admin.AuditLogs, auditRange(state.From, state.To))

	q := r.URL.Query()
	_, hasFrom := q["from"]
	_, hasTo := q["to"]

	var err error
	if (hasFrom || hasTo) && (q.Get("from") != state.From || q.Get("to") != state.To) {
		state.From, state.To = q.Get("from"), q.Get("to")
		list.Refilter(auditRange(state.From, state.To))
		if !list.State.Loaded {
			err = list.Load(ctx)
		}
	} else {
		err = navigateLocal(ctx, r, list)
	}

	data := auditLogsData{From: state.From, To: state.To}
	if err != nil {
		msg, handled := h.apiError(w, r, err, msgAuditFetch)
		if handled {
			return
		}
		data.Error = msg
	}
	state.List = list.State
	saveState(ctx, h.Base, h.views, viewAuditLogs, state)

	data.Entries = list.Visible()
	data.Pagination = list.State.Pagination
	h.render(w, r, http.StatusOK, "admin_audit_logs", "Audit logs", data)
}

func auditRange(from, to string) func(models.AuditLogEntry) bool {
	return views.AuditLogsWithin(views.ParseDateRange(from, to))
}

// AuditLog renders one entry.
func (h *AdminHandlers) AuditLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	entry, err := h.admin.AuditLog(r.Context(), id)
	if err != nil {
		h.failPage(w, r, err, msgAuditFetch)
		return
	}
	if entry == nil {
		h.render(w, r, http.StatusNotFound, "error", "Audit log", errorData{Message: msgAuditMissing})
		return
	}
	h.render(w, r, http.StatusOK, "admin_audit_log", "Audit log details", entry)
}
