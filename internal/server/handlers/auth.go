package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/escuadron-404/sitio/internal/auth"
	siteerr "github.com/escuadron-404/sitio/internal/errors"
	"github.com/escuadron-404/sitio/internal/logfields"
)

// AuthHandlers serves the sign-in API backed by the configured provider.
type AuthHandlers struct {
	provider     auth.Provider
	errorAdapter *siteerr.HTTPErrorAdapter
}

// NewAuthHandlers creates the auth handlers.
func NewAuthHandlers(provider auth.Provider) *AuthHandlers {
	return &AuthHandlers{
		provider:     provider,
		errorAdapter: siteerr.NewHTTPErrorAdapter(slog.Default()),
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User *auth.User `json:"user"`
}

// HandleLogin handles POST /api/login.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.errorAdapter.WriteErrorResponse(w, methodNotAllowed(r.Method, http.MethodPost))
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.errorAdapter.WriteErrorResponse(w,
			siteerr.ValidationFailed("Invalid request body."))
		return
	}

	user, err := h.provider.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		var authErr *auth.AuthError
		if errors.As(err, &authErr) {
			slog.Info("sign-in rejected", slog.String("provider", h.provider.Name()))
			h.errorAdapter.WriteErrorResponse(w,
				siteerr.New(siteerr.CategoryAuth, siteerr.SeverityWarning, authErr.Reason))
			return
		}
		h.errorAdapter.WriteErrorResponse(w,
			siteerr.Wrap(err, siteerr.CategoryInternal, siteerr.SeverityError, "sign-in failed"))
		return
	}

	slog.Info("sign-in succeeded", slog.String("provider", h.provider.Name()))
	if err := writeJSON(w, http.StatusOK, loginResponse{User: user}); err != nil {
		slog.Error("failed writing login response", logfields.Error(err))
	}
}
