package httpx

import (
	"errors"
	"net/http"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/service"
)

// AdvisoryHandlers provides HTTP handlers for advisory-session bookings.
type AdvisoryHandlers struct {
	Svc *service.AdvisoryService
}

const maxAdvisoryListLimit = 100

// Book handles HTTP requests to book an advisory session for the signed-in
// account.
func (h *AdvisoryHandlers) Book(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.BookAdvisoryRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	booking, err := h.Svc.Book(r.Context(), sess.UserID, &req)
	if err != nil {
		WriteServiceError(w, err, "book_failed")
		return
	}

	WriteJSON(w, http.StatusCreated, booking)
}

// ListMine handles HTTP requests for the signed-in account's bookings.
func (h *AdvisoryHandlers) ListMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	bookings, err := h.Svc.ListMine(r.Context(), sess.UserID)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"bookings": bookings})
}

// List handles review-side HTTP requests for bookings in a given status.
func (h *AdvisoryHandlers) List(w http.ResponseWriter, r *http.Request) {
	status, ok := model.ParseAdvisoryStatus(r.URL.Query().Get("status"))
	if !ok {
		status = model.AdvisoryStatusPending
	}
	limit, offset := ParseLimitOffset(r, 50, maxAdvisoryListLimit)

	bookings, err := h.Svc.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"bookings": bookings,
		"status":   status,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetByID handles HTTP requests to get a booking by ID.
func (h *AdvisoryHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("booking id is required")},
		)
		return
	}

	booking, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, "get_failed")
		return
	}

	WriteJSON(w, http.StatusOK, booking)
}

// Transition handles HTTP requests to move a booking through its workflow.
// PUT /api/advisory-sessions/{id}/status.
func (h *AdvisoryHandlers) Transition(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("booking id is required")},
		)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	status, ok := model.ParseAdvisoryStatus(req.Status)
	if !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_status", Err: errors.New("unknown status")},
		)
		return
	}

	booking, err := h.Svc.Transition(r.Context(), id, status)
	if err != nil {
		WriteServiceError(w, err, "transition_failed")
		return
	}

	WriteJSON(w, http.StatusOK, booking)
}
