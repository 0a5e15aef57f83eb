package httpx

import (
	"errors"
	"net/http"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
)

// AccountHandlers provides admin HTTP handlers for account management.
type AccountHandlers struct {
	Svc AuthServiceInterface
}

const maxAccountListLimit = 200

// List handles HTTP requests to list accounts with pagination.
func (h *AccountHandlers) List(w http.ResponseWriter, r *http.Request) {
	limit, offset := ParseLimitOffset(r, 50, maxAccountListLimit)

	accounts, err := h.Svc.ListAccounts(r.Context(), limit, offset)
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "list_failed", Err: err})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"accounts": accounts,
		"limit":    limit,
		"offset":   offset,
	})
}

// SetRole handles HTTP requests to change an account's role.
// PUT /api/accounts/{id}/role.
func (h *AccountHandlers) SetRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_path", Err: errors.New("account id is required")},
		)
		return
	}

	var req struct {
		Role string `json:"role"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}
	if _, ok := domainauth.ParseRole(req.Role); !ok {
		WriteError(
			w,
			ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_role", Err: errors.New("unknown role")},
		)
		return
	}

	if err := h.Svc.SetRole(r.Context(), id, req.Role); err != nil {
		WriteServiceError(w, err, "set_role_failed")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// Provision handles admin-side programmer provisioning: the created account
// carries a temporary password and the must-change-password flag.
// POST /api/accounts/provision.
func (h *AccountHandlers) Provision(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email        string `json:"email"`
		DisplayName  string `json:"display_name"`
		TempPassword string `json:"temp_password"`
	}
	if !DecodeJSON(w, r, &req) {
		return
	}

	acct, err := h.Svc.ProvisionProgrammer(r.Context(), req.Email, req.DisplayName, req.TempPassword)
	if err != nil {
		WriteServiceError(w, err, "provision_failed")
		return
	}

	WriteJSON(w, http.StatusCreated, acct)
}
