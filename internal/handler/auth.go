package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/auth-flow-api/internal/auth"
	"github.com/vasapolrittideah/auth-flow-api/internal/middleware"
	"github.com/vasapolrittideah/auth-flow-api/internal/payload"
	"github.com/vasapolrittideah/auth-flow-api/internal/usecase"
	"github.com/vasapolrittideah/auth-flow-api/internal/validation"
)

// CookieSettings controls how the session cookie is written.
type CookieSettings struct {
	Secure bool
	MaxAge int
}

// AuthHandler serves the authentication endpoints.
type AuthHandler struct {
	authUsecase          usecase.AuthUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	sessions             middleware.SessionResolver
	validator            *validation.Validator
	cookie               CookieSettings
	logger               *zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(
	authUsecase usecase.AuthUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	sessions middleware.SessionResolver,
	validator *validation.Validator,
	cookie CookieSettings,
	logger *zerolog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase:          authUsecase,
		passwordResetUsecase: passwordResetUsecase,
		sessions:             sessions,
		validator:            validator,
		cookie:               cookie,
		logger:               logger,
	}
}

// RegisterRoutes mounts the authentication routes on the given router.
func (h *AuthHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/verify-email", h.VerifyEmail)
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password/{token}", h.ResetPassword)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(h.sessions, h.unauthorized))
			r.Get("/check-auth", h.CheckAuth)
		})
	})
}

func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req payload.SignUpRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, sessionToken, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil && !errors.Is(err, usecase.ErrNotification) {
		switch {
		case errors.Is(err, usecase.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "Please fill in all fields.")
		case errors.Is(err, usecase.ErrEmailAlreadyExists):
			respondError(w, http.StatusBadRequest, "Email already exists.")
		default:
			h.internalError(w, r, err, "failed to sign up")
		}
		return
	}

	// A notification failure surfaces as an error but the created account
	// stays; the user can still verify once the email goes through on retry.
	if err != nil {
		h.internalError(w, r, err, "verification email not sent")
		return
	}

	h.setSessionCookie(w, sessionToken)
	respondJSON(w, http.StatusCreated, response{
		Success: true,
		Message: "User created successfully",
		User:    payload.NewUserResponse(user),
	})
}

func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyEmailRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	_, err := h.authUsecase.VerifyEmail(r.Context(), req.Code)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOrExpiredCode):
			respondError(w, http.StatusBadRequest, "Invalid or expired verification code.")
		case errors.Is(err, usecase.ErrNotification):
			h.internalError(w, r, err, "failed to send welcome email")
		default:
			h.internalError(w, r, err, "failed to verify email")
		}
		return
	}

	respondJSON(w, http.StatusOK, response{Success: true, Message: "Email verification successful"})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, sessionToken, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondError(w, http.StatusBadRequest, "Invalid credentials")
			return
		}
		h.internalError(w, r, err, "failed to log in")
		return
	}

	h.setSessionCookie(w, sessionToken)
	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Logged in successfully",
		User:    payload.NewUserResponse(user),
	})
}

// Logout clears the session cookie. Session tokens are self-contained, so
// there is no server-side record to invalidate.
func (h *AuthHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.clearSessionCookie(w)
	respondJSON(w, http.StatusOK, response{Success: true, Message: "Logged out successfully"})
}

func (h *AuthHandler) CheckAuth(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err != nil || cookie.Value == "" {
		h.unauthorized(w, r)
		return
	}

	user, err := h.authUsecase.CheckAuth(r.Context(), cookie.Value)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidSession), errors.Is(err, usecase.ErrUserNotFound):
			h.unauthorized(w, r)
		default:
			h.internalError(w, r, err, "failed to check authentication")
		}
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "User authenticated successfully",
		User:    payload.NewUserResponse(user),
	})
}

func (h *AuthHandler) unauthorized(w http.ResponseWriter, _ *http.Request) {
	respondError(w, http.StatusUnauthorized, "You are not authorized")
}

func (h *AuthHandler) internalError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	h.logger.Error().
		Err(err).
		Str("request_id", r.Header.Get("X-Request-ID")).
		Str("path", r.URL.Path).
		Msg(msg)

	respondError(w, http.StatusInternalServerError, "Something went wrong")
}

func (h *AuthHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if err := h.validator.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   h.cookie.MaxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
