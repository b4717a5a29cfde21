package authhandlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	authservice "github.com/Protea-Shooting-Federation/psf-backend/app/modules/auth/application"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/httputils"
	"github.com/Protea-Shooting-Federation/psf-backend/app/shared/observability/attr"
)

const (
	RefreshTokenCookie = "refresh_token"

	refreshCookieLifetime = 30 * 24 * time.Hour
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	AccessToken  string `json:"access_token"`
	MemberID     string `json:"member_id"`
	MemberNumber string `json:"member_number,omitempty"`
	Role         string `json:"role"`
}

func (h *AuthHandlers) setRefreshCookie(w http.ResponseWriter, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
		Expires:  time.Now().Add(refreshCookieLifetime),
	})
}

func (h *AuthHandlers) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshTokenCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
	})
}

func (h *AuthHandlers) respondSession(w http.ResponseWriter, session *authservice.Session) {
	h.setRefreshCookie(w, session.RefreshToken)
	httputils.RespondJSON(w, http.StatusOK, sessionResponse{
		AccessToken:  session.AccessToken,
		MemberID:     session.Claims.MemberID.String(),
		MemberNumber: session.Claims.MemberNumber,
		Role:         string(session.Claims.Role),
	})
}

// HandleLogin authenticates an email+password pair.
func (h *AuthHandlers) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "AuthHandlers.HandleLogin")
	defer span.End()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputils.RespondError(w, http.StatusBadRequest, httputils.ErrorBody{Error: "invalid request body"})
		return
	}

	session, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, authservice.ErrInvalidCredentials) {
			httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "invalid credentials"})
			return
		}
		h.logger.ErrorContext(ctx, "Login failed", attr.Error(err))
		httputils.RespondError(w, http.StatusInternalServerError, httputils.ErrorBody{Error: "authentication failed"})
		return
	}

	h.respondSession(w, session)
}

// HandleCallback exchanges the one-time login code issued at registration for a
// session and redirects to the requested in-app path. Absolute or
// protocol-relative next values are rejected to keep redirects on-site.
func (h *AuthHandlers) HandleCallback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "AuthHandlers.HandleCallback")
	defer span.End()

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	session, err := h.service.ExchangeLoginCode(ctx, code)
	if err != nil {
		if !errors.Is(err, authservice.ErrInvalidLoginCode) {
			h.logger.ErrorContext(ctx, "Login code exchange failed", attr.Error(err))
		}
		http.Redirect(w, r, "/auth/error", http.StatusSeeOther)
		return
	}

	h.setRefreshCookie(w, session.RefreshToken)
	http.Redirect(w, r, safeNextPath(r.URL.Query().Get("next")), http.StatusSeeOther)
}

// safeNextPath keeps callback redirects on-site. Anything that is not a plain
// absolute path falls back to the root.
func safeNextPath(next string) string {
	if next == "" {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(u.Path, "//") {
		return "/"
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

// HandleRefresh rotates the refresh token cookie and returns a fresh access token.
func (h *AuthHandlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "AuthHandlers.HandleRefresh")
	defer span.End()

	cookie, err := r.Cookie(RefreshTokenCookie)
	if err != nil || cookie.Value == "" {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing refresh token"})
		return
	}

	session, err := h.service.Refresh(ctx, cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, authservice.ErrSessionRevoked), errors.Is(err, authservice.ErrSessionExpired):
			h.clearRefreshCookie(w)
			httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "session expired, sign in again"})
		default:
			h.logger.ErrorContext(ctx, "Refresh failed", attr.Error(err))
			httputils.RespondError(w, http.StatusInternalServerError, httputils.ErrorBody{Error: "refresh failed"})
		}
		return
	}

	h.respondSession(w, session)
}

// HandleLogout revokes the refresh token and clears the cookie.
func (h *AuthHandlers) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ctx, span := h.tracer.Start(ctx, "AuthHandlers.HandleLogout")
	defer span.End()

	if cookie, err := r.Cookie(RefreshTokenCookie); err == nil && cookie.Value != "" {
		if err := h.service.Logout(ctx, cookie.Value); err != nil {
			h.logger.WarnContext(ctx, "Logout revoke failed", attr.Error(err))
		}
	}

	h.clearRefreshCookie(w)
	w.WriteHeader(http.StatusOK)
}

// HandleMe returns the claims of the authenticated session.
func (h *AuthHandlers) HandleMe(w http.ResponseWriter, r *http.Request) {
	claims := ClaimsFromContext(r.Context())
	if claims == nil {
		httputils.RespondError(w, http.StatusUnauthorized, httputils.ErrorBody{Error: "missing bearer token"})
		return
	}

	httputils.RespondJSON(w, http.StatusOK, sessionResponse{
		MemberID:     claims.MemberID.String(),
		MemberNumber: claims.MemberNumber,
		Role:         string(claims.Role),
	})
}
