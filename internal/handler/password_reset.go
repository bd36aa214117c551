package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/auth-flow-api/internal/payload"
	"github.com/vasapolrittideah/auth-flow-api/internal/usecase"
)

func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.passwordResetUsecase.RequestPasswordReset(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrUserNotFound):
			respondError(w, http.StatusBadRequest, "User not found")
		case errors.Is(err, usecase.ErrNotification):
			h.internalError(w, r, err, "password reset email not sent")
		default:
			h.internalError(w, r, err, "failed to request password reset")
		}
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Reset password link sent to your email",
	})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")

	var req payload.ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	err := h.passwordResetUsecase.ResetPassword(r.Context(), token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOrExpiredToken), errors.Is(err, usecase.ErrMissingFields):
			respondError(w, http.StatusBadRequest, "Invalid or expired reset token")
		case errors.Is(err, usecase.ErrNotification):
			h.internalError(w, r, err, "password reset confirmation email not sent")
		default:
			h.internalError(w, r, err, "failed to reset password")
		}
		return
	}

	respondJSON(w, http.StatusOK, response{
		Success: true,
		Message: "Password updated successfully",
	})
}
