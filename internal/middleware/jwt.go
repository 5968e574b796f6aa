package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"strings"

	"github.com/labstack/echo/v4"
)

// AccessTokenKey is the echo context key BearerToken stores the raw token under.
const AccessTokenKey = "access_token"

// BearerToken returns an Echo middleware that extracts the token from an
// "Authorization: Bearer <token>" header and stores it in the context under
// AccessTokenKey.  It never rejects a request: a missing or malformed
// header yields an empty string, and verification is left to the auth
// service so that missing and invalid tokens map to distinct responses.
func BearerToken() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(AccessTokenKey, ExtractBearer(c.Request().Header.Get(echo.HeaderAuthorization)))
			return next(c)
		}
	}
}

// ExtractBearer returns the token of a Bearer authorization header value,
// or "" when the header is absent or uses another scheme.
func ExtractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// AccessToken reads the token stored by BearerToken.
func AccessToken(c echo.Context) string {
	s, _ := c.Get(AccessTokenKey).(string)
	return s
}
