package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/sorgulen/tjenesteportal/internal/domain"
	"github.com/sorgulen/tjenesteportal/internal/http/middleware"
	"github.com/sorgulen/tjenesteportal/internal/identity"
)

// AuthHandler exposes the operator sign-in gate over HTTP
type AuthHandler struct {
	gate   *identity.Gate
	logger *zap.Logger
}

func NewAuthHandler(gate *identity.Gate, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		gate:   gate,
		logger: logger,
	}
}

// Login signs an operator in. Accounts without the admin flag are signed
// out at the provider and rejected with 403.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		respondValidationError(w, err)
		return
	}

	session, err := h.gate.SignIn(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, identity.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Feil e-post eller passord")
		return
	case errors.Is(err, identity.ErrNotAdmin):
		respondWithError(w, http.StatusForbidden, "Kontoen har ikke admin-tilgang")
		return
	case err != nil:
		h.logger.Error("sign-in failed", zap.Error(err))
		respondJSON(w, http.StatusBadGateway, domain.ErrorResponse{
			Error:   "Bad Gateway",
			Message: "Innlogging er ikke tilgjengelig",
		})
		return
	}

	respondJSON(w, http.StatusOK, domain.SessionResponse{
		AccessToken: session.AccessToken,
		TokenType:   session.TokenType,
		ExpiresIn:   session.ExpiresIn,
		User: &domain.UserResponse{
			ID:      session.User.ID,
			Email:   session.User.Email,
			IsAdmin: session.User.IsAdmin(),
		},
	})
}

// Logout drops the gate session
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.gate.SignOut(r.Context()); err != nil {
		h.logger.Warn("provider sign-out failed", zap.Error(err))
	}
	respondJSON(w, http.StatusNoContent, nil)
}

// Me describes the authenticated caller from its token claims
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Not signed in")
		return
	}
	respondJSON(w, http.StatusOK, domain.UserResponse{
		ID:      claims.UserID,
		Email:   claims.Email,
		IsAdmin: claims.IsAdmin,
	})
}
