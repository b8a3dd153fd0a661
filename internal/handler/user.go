package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/videotube/internal/auth"
	"github.com/sakif/videotube/internal/media"
	"github.com/sakif/videotube/internal/model"
	"github.com/sakif/videotube/internal/service"
)

// AccountService is what UserHandler needs from service.AuthService.
type AccountService interface {
	Register(ctx context.Context, in service.RegisterInput) (*model.Account, error)
	Login(ctx context.Context, in service.LoginInput) (*service.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*service.Session, error)
	Logout(ctx context.Context, caller string) error
	ChangePassword(ctx context.Context, caller, oldPassword, newPassword string) error
	CurrentUser(ctx context.Context, caller string) (*model.Account, error)
	UpdateDetails(ctx context.Context, caller, fullName, email string) (*model.Account, error)
	UpdateAvatar(ctx context.Context, caller string, f *media.File) (*model.Account, error)
	UpdateCover(ctx context.Context, caller string, f *media.File) (*model.Account, error)
	ChannelProfile(ctx context.Context, caller, username string) (*model.ChannelProfile, error)
	WatchHistory(ctx context.Context, caller string) ([]model.VideoListItem, error)
}

// CookieOptions controls the auth cookies set on login and refresh.
type CookieOptions struct {
	Secure     bool
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// UserHandler serves /users: registration, the session lifecycle and the
// caller's own profile.
//
// COOKIES:
// Login and refresh set both tokens as HttpOnly cookies and also return
// them in the body for clients that cannot use cookies. Logout clears both.
type UserHandler struct {
	accounts       AccountService
	cookies        CookieOptions
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewUserHandler(accounts AccountService, cookies CookieOptions, maxUploadBytes int64, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, cookies: cookies, maxUploadBytes: maxUploadBytes, logger: logger}
}

// HandleRegister creates an account.
//
// HTTP: POST /api/v1/users/register
// BODY: multipart form with fullName, email, username, password and the
// files avatar (required) and coverImage (optional).
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	avatar, err := formFile(r, "avatar")
	if err != nil {
		cleanupMultipart(r)
		writeError(w, r, h.logger, err)
		return
	}
	cover, err := formFile(r, "coverImage")
	defer cleanupMultipart(r, avatar, cover)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	account, err := h.accounts.Register(r.Context(), service.RegisterInput{
		Username: r.FormValue("username"),
		Email:    r.FormValue("email"),
		Password: r.FormValue("password"),
		FullName: r.FormValue("fullName"),
		Avatar:   avatar,
		Cover:    cover,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusCreated, account, "User registered Successfully")
}

type loginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin starts a session.
//
// HTTP: POST /api/v1/users/login
// BODY: {"username": "...", "email": "...", "password": "..."} (username or email)
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	session, err := h.accounts.Login(r.Context(), service.LoginInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.setSessionCookies(w, session)
	writeSuccess(w, http.StatusOK, session, "User logged In Successfully")
}

// HandleRefresh rotates the token pair.
//
// HTTP: POST /api/v1/users/refresh-token
// The refresh token is read from the refreshToken cookie, falling back to
// the JSON body field of the same name.
func (h *UserHandler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(auth.RefreshCookie); err == nil {
		token = c.Value
	}
	if token == "" {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			writeError(w, r, h.logger, err)
			return
		}
		token = body.RefreshToken
	}

	session, err := h.accounts.Refresh(r.Context(), token)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.setSessionCookies(w, session)
	writeSuccess(w, http.StatusOK, map[string]string{
		"accessToken":  session.AccessToken,
		"refreshToken": session.RefreshToken,
	}, "Access token refreshed")
}

// HandleLogout revokes the refresh token and clears both cookies.
//
// HTTP: POST /api/v1/users/logout
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.accounts.Logout(r.Context(), caller(r)); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	h.clearSessionCookies(w)
	writeSuccess(w, http.StatusOK, nil, "User logged Out")
}

// HandleChangePassword
//
// HTTP: POST /api/v1/users/change-password
// BODY: {"oldPassword": "...", "newPassword": "..."}
func (h *UserHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"oldPassword"`
		NewPassword string `json:"newPassword"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	if err := h.accounts.ChangePassword(r.Context(), caller(r), req.OldPassword, req.NewPassword); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, nil, "Password changed successfully")
}

// HandleCurrentUser
//
// HTTP: GET /api/v1/users/current-user
func (h *UserHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.CurrentUser(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, account, "User fetched successfully")
}

// HandleUpdateAccount
//
// HTTP: PATCH /api/v1/users/update-account
// BODY: {"fullName": "...", "email": "..."}
func (h *UserHandler) HandleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	account, err := h.accounts.UpdateDetails(r.Context(), caller(r), req.FullName, req.Email)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, account, "Account details updated successfully")
}

// HandleUpdateAvatar
//
// HTTP: PATCH /api/v1/users/avatar (multipart: avatar)
func (h *UserHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "avatar", h.accounts.UpdateAvatar, "Avatar image updated successfully")
}

// HandleUpdateCover
//
// HTTP: PATCH /api/v1/users/cover-image (multipart: coverImage)
func (h *UserHandler) HandleUpdateCover(w http.ResponseWriter, r *http.Request) {
	h.replaceImage(w, r, "coverImage", h.accounts.UpdateCover, "Cover image updated successfully")
}

func (h *UserHandler) replaceImage(
	w http.ResponseWriter,
	r *http.Request,
	field string,
	update func(context.Context, string, *media.File) (*model.Account, error),
	message string,
) {
	if err := parseMultipart(w, r, h.maxUploadBytes); err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	f, err := formFile(r, field)
	defer cleanupMultipart(r, f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}

	account, err := update(r.Context(), caller(r), f)
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, account, message)
}

// HandleChannelProfile
//
// HTTP: GET /api/v1/users/c/{username}
func (h *UserHandler) HandleChannelProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := h.accounts.ChannelProfile(r.Context(), caller(r), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, profile, "User channel fetched successfully")
}

// HandleWatchHistory
//
// HTTP: GET /api/v1/users/history
func (h *UserHandler) HandleWatchHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.accounts.WatchHistory(r.Context(), caller(r))
	if err != nil {
		writeError(w, r, h.logger, err)
		return
	}
	writeSuccess(w, http.StatusOK, history, "Watch history fetched successfully")
}

// setSessionCookies stores both tokens as HttpOnly cookies.
//
//   - HttpOnly: JavaScript can't read them (XSS protection)
//   - SameSite=Lax: not sent on cross-site POSTs
//   - Secure: HTTPS only, unless disabled for local development
func (h *UserHandler) setSessionCookies(w http.ResponseWriter, s *service.Session) {
	http.SetCookie(w, h.cookie(auth.AccessCookie, s.AccessToken, int(h.cookies.AccessTTL.Seconds())))
	http.SetCookie(w, h.cookie(auth.RefreshCookie, s.RefreshToken, int(h.cookies.RefreshTTL.Seconds())))
}

func (h *UserHandler) clearSessionCookies(w http.ResponseWriter) {
	http.SetCookie(w, h.cookie(auth.AccessCookie, "", -1))
	http.SetCookie(w, h.cookie(auth.RefreshCookie, "", -1))
}

func (h *UserHandler) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookies.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
