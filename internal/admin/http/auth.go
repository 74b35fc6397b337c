package http

import (
	"net/http"

	"github.com/freehekimteam/quietvector/internal/admin/domain"
	"github.com/freehekimteam/quietvector/internal/admin/service"
	"github.com/freehekimteam/quietvector/pkg/adminsdk"
	"github.com/freehekimteam/quietvector/pkg/httpx"
)

const minCredentialLen = 3

type AuthHandler struct {
	AuthService *service.AuthService
}

// HandleLogin exchanges admin credentials for an access token.
//
//	@Summary		Log in
//	@Description	Verifies the admin username, password and, when configured, TOTP code.
//	@Description	Sets the csrf_token cookie whose value must be echoed in X-CSRF-Token on state-changing requests.
//	@Tags			Auth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		adminsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	adminsdk.TokenResponse
//	@Failure		400		{object}	adminsdk.ErrorResponse	"Invalid request"
//	@Failure		401		{object}	adminsdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	adminsdk.ErrorResponse	"Too many login attempts"
//	@Failure		500		{object}	adminsdk.ErrorResponse	"Admin password not configured"
//	@Router			/api/auth/login [post].
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req adminsdk.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if len(req.Username) < minCredentialLen || len(req.Password) < minCredentialLen {
		writeError(w, r, domain.Validation("username and password must be at least %d characters", minCredentialLen))
		return
	}

	res, err := h.AuthService.Login(r.Context(), req.Username, req.Password, req.TOTPCode)
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.SetCSRFCookie(w, res.CSRFToken, res.ExpiresIn)
	httpx.WriteJSON(w, http.StatusOK, adminsdk.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   "bearer",
		CSRFToken:   res.CSRFToken,
		ExpiresIn:   int(res.ExpiresIn.Seconds()),
	})
}
