package httpx

import (
	"errors"
	"net/http"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/service"
)

// ApplicationHandlers provides HTTP handlers for membership applications.
type ApplicationHandlers struct {
	Svc *service.ApplicationService
}

const maxApplicationListLimit = 100

// Submit handles HTTP requests to submit a membership application for the
// signed-in account.
func (h *ApplicationHandlers) Submit(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	var req model.SubmitApplicationRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	app, err := h.Svc.Submit(r.Context(), sess.UserID, &req)
	if err != nil {
		if errors.Is(err, service.ErrApplicationPending) {
			WriteError(w, ErrorParams{Code: http.StatusConflict, ErrCode: "application_pending", Err: err})
			return
		}
		WriteServiceError(w, err, "submit_failed")
		return
	}

	WriteJSON(w, http.StatusCreated, app)
}

// GetMine handles HTTP requests for the signed-in account's open application.
func (h *ApplicationHandlers) GetMine(w http.ResponseWriter, r *http.Request) {
	sess, ok := GetUserSessionFromContext(r.Context())
	if !ok {
		WriteError(w, ErrorParams{
			Code:    http.StatusUnauthorized,
			ErrCode: "authentication_required",
			Err:     errors.New("authentication required"),
		})
		return
	}

	app, err := h.Svc.GetMine(r.Context(), sess.UserID)
	if err != nil {
		WriteServiceError(w, err, "get_failed")
		return
	}

	WriteJSON(w, http.StatusOK, app)
}

// List handles review-side HTTP requests for applications in a given status.
func (h *ApplicationHandlers) List(w http.ResponseWriter, r *http.Request) {
	status, ok := model.ParseApplicationStatus(r.URL.Query().Get("status"))
	if !ok {
		status = model.ApplicationStatusPending
	}
	limit, offset := ParseLimitOffset(r, 50, maxApplicationListLimit)

	apps, err := h.Svc.ListByStatus(r.Context(), status, limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"applications": apps,
		"status":       status,
		"limit":        limit,
		"offset":       offset,
	})
}

// Decide handles HTTP requests to accept or reject a pending application.
// PUT /api/applications/{id}/decision.
func (h *ApplicationHandlers) Decide(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("application id is required")},
		)
		return
	}

	var req struct {
		Decision string `json:"decision"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	decision, ok := model.ParseApplicationStatus(req.Decision)
	if !ok || decision == model.ApplicationStatusPending {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_decision", Err: errors.New("decision must be accepted or rejected")},
		)
		return
	}

	app, err := h.Svc.Decide(r.Context(), id, decision)
	if err != nil {
		WriteServiceError(w, err, "decide_failed")
		return
	}

	WriteJSON(w, http.StatusOK, app)
}
