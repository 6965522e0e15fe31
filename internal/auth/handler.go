package auth

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/huntboard/huntboard/internal/platform/httpx"
	"github.com/huntboard/huntboard/internal/token"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger        *slog.Logger
	service       *Service
	tokens        *token.Service
	middleware    *Middleware
	validator     *validator.Validate
	secureCookies bool
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, tokens *token.Service, middleware *Middleware, secureCookies bool) *Handler {
	return &Handler{
		logger:        logger,
		service:       service,
		tokens:        tokens,
		middleware:    middleware,
		validator:     validator.New(),
		secureCookies: secureCookies,
	}
}

// MountRoutes registers auth routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.register)
	r.Post("/verify-email", h.verifyEmail)
	r.Post("/resend-verification", h.resendVerification)
	r.Post("/request-password-reset", h.requestPasswordReset)
	r.Post("/reset-password", h.resetPassword)
	r.Post("/login", h.login)
	r.Get("/logout", h.logout)

	r.Group(func(r chi.Router) {
		r.Use(h.middleware.Authenticate)
		r.Get("/dashboard", h.dashboard)
	})
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "all fields are required")
		return
	}

	user, err := h.service.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.logger.Warn("register failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, map[string]any{
		"user":    user.Profile(),
		"message": "registration successful, please check your email to verify your account",
	})
}

type verifyEmailRequest struct {
	Token string `json:"token" validate:"required"`
}

func (h *Handler) verifyEmail(w http.ResponseWriter, r *http.Request) {
	var req verifyEmailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Token == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "verification token is required")
		return
	}

	user, session, err := h.service.VerifyEmail(r.Context(), req.Token)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.attachSessionCookie(w, session)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "email verified successfully",
		"user":    map[string]string{"username": user.Username, "email": user.Email},
	})
}

type emailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handler) resendVerification(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Email == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email is required")
		return
	}

	if err := h.service.ResendVerification(r.Context(), req.Email); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "verification email resent, please check your email to verify your account",
	})
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req emailRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Email == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email is required")
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), req.Email); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{
		"message": "password reset email sent, please check your email",
	})
}

type resetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=6"`
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	resetToken := r.URL.Query().Get("token")

	var req resetPasswordRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || resetToken == "" || req.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "token and new password are required")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "password must be at least 6 characters")
		return
	}

	if err := h.service.ResetPassword(r.Context(), resetToken, req.Password); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "password has been reset"})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Email == "" || req.Password == "" {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "email and password are required")
		return
	}

	user, session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	h.attachSessionCookie(w, session)
	httpx.JSON(w, http.StatusOK, map[string]any{
		"message": "user logged in",
		"user":    map[string]string{"username": user.Username, "email": user.Email},
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "user logged out"})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "welcome to the dashboard"})
}

// TestCookie issues a throwaway session cookie. Mounted outside production
// only; used to exercise the cookie round trip from a browser.
func (h *Handler) TestCookie(w http.ResponseWriter, r *http.Request) {
	session, err := h.tokens.Issue(0, RoleUser)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	h.attachSessionCookie(w, session)
	httpx.JSON(w, http.StatusOK, map[string]string{"message": "cookie set successfully"})
}

func (h *Handler) attachSessionCookie(w http.ResponseWriter, session string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    session,
		Path:     "/",
		Expires:  time.Now().Add(h.tokens.TTL()),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
