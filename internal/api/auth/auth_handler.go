package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

type AuthHandler struct {
	authService AuthService
	logger      *slog.Logger
}

func NewAuthHandler(authService AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Register godoc
// @Summary      Register user
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Register"))

	var req RegisterRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.WarnContext(ctx, "Failed to decode request", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	summary, err := h.authService.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, api.ErrConflict):
			api.ErrorResponse(w, r, http.StatusBadRequest, "User with this email or username already exists")
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Please provide username, password, email, and a valid role")
		default:
			l.ErrorContext(ctx, "Registration failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error during registration")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: "User registered successfully. Please check your email for verification.",
		Data:    summary,
	})
}

// Login godoc
// @Summary      Login user
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "Login"))

	var req LoginRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.authService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrAccountDeactivated):
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Account is deactivated. Please contact support.")
		case errors.Is(err, api.ErrUnauthenticated):
			// Unknown email and wrong password produce this same response.
			api.ErrorResponse(w, r, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Please provide email and password")
		default:
			l.ErrorContext(ctx, "Login failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error during login")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Login successful",
		Data:    resp,
	})
}

// Logout godoc
// @Summary      Logout user
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error during logout")
		return
	}
	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Logout successful",
	})
}

// VerifyEmail godoc
// @Summary      Verify email
// @Router       /auth/verify/{token} [get]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	if err := h.authService.VerifyEmail(ctx, token); err != nil {
		if errors.Is(err, api.ErrBadRequest) {
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid or expired verification token")
			return
		}
		h.logger.ErrorContext(ctx, "Email verification failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error during email verification")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Email verified successfully",
	})
}

// ResendVerification godoc
// @Summary      Resend verification email
// @Router       /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ResendVerification"))

	var req EmailRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ResendVerification(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrAlreadyVerified):
			api.ErrorResponse(w, r, http.StatusBadRequest, "User is already verified")
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Please provide email address")
		default:
			l.ErrorContext(ctx, "Resend verification failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error while sending verification email")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Verification email sent successfully",
	})
}

// ForgotPassword godoc
// @Summary      Request a password reset link
// @Router       /auth/forgot-password [post]
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ForgotPassword"))

	var req EmailRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ForgotPassword(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Please provide email address")
		default:
			l.ErrorContext(ctx, "Forgot password failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error while processing forgot password request")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Password reset email sent successfully",
	})
}

// ResetPassword godoc
// @Summary      Reset password with a token
// @Router       /auth/reset-password/{token} [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token := chi.URLParam(r, "token")

	var req ResetPasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ResetPassword(ctx, token, req.Password); err != nil {
		switch {
		case errors.Is(err, ErrInvalidOrExpiredToken):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid or expired reset token")
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Please provide new password")
		default:
			h.logger.ErrorContext(ctx, "Password reset failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error while resetting password")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Password reset successfully",
	})
}

// ChangePassword godoc
// @Summary      Change password for the authenticated user
// @Security     BearerAuth
// @Router       /auth/change-password [post]
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	l := h.logger.With(slog.String("handler", "ChangePassword"))

	accountID, ok := authenticatedAccountID(w, r)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.ChangePassword(ctx, accountID, req.CurrentPassword, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, ErrIncorrectPassword):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, api.ErrNotFound):
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
		case errors.Is(err, api.ErrBadRequest):
			api.ErrorResponse(w, r, http.StatusBadRequest, "Please provide current password and new password")
		default:
			l.ErrorContext(ctx, "Change password failed", slog.Any("error", err))
			api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error while changing password")
		}
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Password changed successfully",
	})
}

// GetCurrentUser godoc
// @Summary      Get current user
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) GetCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := authenticatedAccountID(w, r)
	if !ok {
		return
	}

	account, err := h.authService.GetCurrentUser(ctx, accountID)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Get current user failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error while fetching user data")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Data:    account,
	})
}

// DeactivateAccount godoc
// @Summary      Deactivate the authenticated user's account
// @Security     BearerAuth
// @Router       /auth/deactivate [post]
func (h *AuthHandler) DeactivateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	accountID, ok := authenticatedAccountID(w, r)
	if !ok {
		return
	}

	if err := h.authService.DeactivateAccount(ctx, accountID); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			api.ErrorResponse(w, r, http.StatusNotFound, "User not found")
			return
		}
		h.logger.ErrorContext(ctx, "Deactivate account failed", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Server error while deactivating account")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Account deactivated successfully",
	})
}

// authenticatedAccountID pulls the user id the Authenticate middleware stored
// in the context. Writes the error response itself when absent or malformed.
func authenticatedAccountID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userIDStr, ok := GetUserIDFromContext(r.Context())
	if !ok || userIDStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	accountID, err := uuid.Parse(userIDStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return accountID, true
}
