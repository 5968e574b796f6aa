package handler

import (
	"bytes"
	"html/template"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Route describes one public endpoint on the index page.
type Route struct {
	Method      string
	Path        string
	Description string
}

// Routes lists the endpoints shown on the index page, relative to the
// public base URL.
var Routes = []Route{
	{http.MethodPost, "/auth/register", "Register a new user with email, password and full name."},
	{http.MethodPost, "/auth/login", "Log in and receive an access token and a refresh token."},
	{http.MethodPost, "/auth/logout", "Log out. The client discards its tokens; nothing is revoked server-side."},
	{http.MethodPost, "/auth/refresh", "Exchange a refresh token for a new access token."},
	{http.MethodGet, "/user/profile", "Return the profile of the logged-in user (Bearer access token required)."},
}

var indexTmpl = template.Must(template.New("index").Parse(`<!DOCTYPE html>
<html lang="en">
  <head>
    <title>Animula Auth API</title>
  </head>
  <body>
    <h1>Animula Auth API</h1>
    <h2>Available routes</h2>
    <ul>
{{- range .Routes}}
      <li><a href="{{$.BaseURL}}{{.Path}}" target="_blank"><strong>{{.Method}} {{.Path}}</strong></a> {{.Description}}</li>
{{- end}}
    </ul>
  </body>
</html>
`))

// Index returns a handler serving the self-description page.  The page is
// rendered once, since BaseURL does not change at runtime.
func Index(baseURL string) echo.HandlerFunc {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, struct {
		BaseURL string
		Routes  []Route
	}{strings.TrimRight(baseURL, "/"), Routes})
	if err != nil {
		panic("render index page: " + err.Error())
	}
	page := buf.Bytes()
	return func(c echo.Context) error {
		return c.HTMLBlob(http.StatusOK, page)
	}
}
