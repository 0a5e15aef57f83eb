package httpx

import (
	"errors"
	"net/http"

	"github.com/teamdesk/teamdesk/internal/domain/model"
	"github.com/teamdesk/teamdesk/internal/service"
)

// MemberHandlers provides HTTP handlers for the public team roster.
type MemberHandlers struct {
	Svc *service.MemberService
}

// Create handles HTTP requests to add a roster member.
func (h *MemberHandlers) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateMemberRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	member, err := h.Svc.Create(r.Context(), &req)
	if err != nil {
		WriteServiceError(w, err, "create_failed")
		return
	}

	WriteJSON(w, http.StatusCreated, member)
}

// List handles HTTP requests for the roster in display order.
func (h *MemberHandlers) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.Svc.List(r.Context())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"members": members})
}

// GetByID handles HTTP requests to get a member by ID.
func (h *MemberHandlers) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("member id is required")},
		)
		return
	}

	member, err := h.Svc.GetByID(r.Context(), id)
	if err != nil {
		WriteServiceError(w, err, "get_failed")
		return
	}

	WriteJSON(w, http.StatusOK, member)
}

// Update handles HTTP requests to update a member.
func (h *MemberHandlers) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("member id is required")},
		)
		return
	}

	var req model.UpdateMemberRequest
	if !DecodeJSON(w, r, &req) {
		return
	}

	member, err := h.Svc.Update(r.Context(), id, &req)
	if err != nil {
		WriteServiceError(w, err, "update_failed")
		return
	}

	WriteJSON(w, http.StatusOK, member)
}

// Delete handles HTTP requests to remove a member.
func (h *MemberHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("member id is required")},
		)
		return
	}

	deleted, err := h.Svc.Delete(r.Context(), id)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "delete_failed", Err: err})
		return
	}
	if !deleted {
		WriteError(
			w,
			ErrorParams{Code: http.StatusNotFound, ErrCode: "member_not_found", Err: errors.New("member not found")},
		)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
