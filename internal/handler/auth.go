package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/animula-auth/internal/logging"
	"github.com/iliyamo/animula-auth/internal/middleware"
	"github.com/iliyamo/animula-auth/internal/model"
	"github.com/iliyamo/animula-auth/internal/service"
	"github.com/iliyamo/animula-auth/internal/utils"
)

// Authenticator is the slice of service.AuthService the handlers use.
type Authenticator interface {
	Register(ctx context.Context, email, password, fullName string) (string, error)
	Authenticate(ctx context.Context, email, password string) (service.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (utils.SignedToken, error)
	FetchProfile(ctx context.Context, accessToken string) (model.Profile, error)
	Logout(ctx context.Context) error
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth Authenticator
	Log  logging.Logger
}

func NewAuthHandler(a Authenticator, log logging.Logger) *AuthHandler {
	if log == nil {
		log = logging.Nop()
	}
	return &AuthHandler{Auth: a, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RefreshToken string `json:"refreshToken"`
}

type loginResp struct {
	Message      string `json:"message"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
type refreshResp struct {
	AccessToken string `json:"accessToken"`
}
type profileResp struct {
	Profile model.Profile `json:"profile"`
}

// Register: create user.  Duplicate emails and bad input share one
// response so the endpoint says no more than that registration failed.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Registration failed"})
	}
	_, err := h.Auth.Register(c.Request().Context(), req.Email, req.Password, req.FullName)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, echo.Map{"message": "User registered successfully"})
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrDuplicateEmail):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Registration failed"})
	}
	return h.internalError(c, "register", err)
}

// Login: verify credentials and return a new token pair.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	pair, err := h.Auth.Authenticate(c.Request().Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, loginResp{
			Message:      "Login successful",
			AccessToken:  pair.Access.Token,
			RefreshToken: pair.Refresh.Token,
		})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Email or password is incorrect"})
	}
	return h.internalError(c, "login", err)
}

// Logout: acknowledge only.  Tokens are stateless and stay valid until
// they expire; the client is expected to discard them.
func (h *AuthHandler) Logout(c echo.Context) error {
	if err := h.Auth.Logout(c.Request().Context()); err != nil {
		return h.internalError(c, "logout", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logout successful"})
}

// Refresh: exchange a refresh token for a new access token.  The refresh
// token is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		// an unreadable body carries no token
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Refresh token missing"})
	}
	access, err := h.Auth.Refresh(c.Request().Context(), req.RefreshToken)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, refreshResp{AccessToken: access.Token})
	case errors.Is(err, service.ErrMissingToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Refresh token missing"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid refresh token"})
	}
	return h.internalError(c, "refresh", err)
}

// Profile: return the caller's profile.  Expects middleware.BearerToken
// to have run.
func (h *AuthHandler) Profile(c echo.Context) error {
	p, err := h.Auth.FetchProfile(c.Request().Context(), middleware.AccessToken(c))
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, profileResp{Profile: p})
	case errors.Is(err, service.ErrMissingToken):
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Access token required"})
	case errors.Is(err, service.ErrInvalidToken):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "Invalid token"})
	case errors.Is(err, service.ErrProfileUnavailable):
		h.Log.Warn(c.Request().Context(), "profile lookup failed", "err", err)
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Unable to fetch profile"})
	}
	return h.internalError(c, "profile", err)
}

// internalError logs err and answers with a uniform 500.
func (h *AuthHandler) internalError(c echo.Context, op string, err error) error {
	h.Log.Error(c.Request().Context(), op+" failed", "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
}
