package handler // declare the package name; contains HTTP handlers

import (
	"net/http" // status codes

	"github.com/labstack/echo/v4" // web framework
)

// Health is a simple health-check endpoint used by load balancers and
// monitoring systems.  It returns a plain text "ok" with status 200.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok") // no dependency checks; liveness only
}
