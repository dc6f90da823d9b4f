package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Route access runs ahead of everything else on page navigation and decides
// purely on path and session-cookie presence. It never validates the cookie
// and never consults the role; any error reading cookies fails open to
// continue.

// Protected path prefixes require a session cookie.
var protectedPrefixes = []string{"/dashboard", "/patients", "/appointments", "/prescriptions"}

// Public-only paths bounce already signed-in users to the dashboard.
var publicOnlyPaths = []string{"/login", "/signup"}

// Session cookie names checked in order.
var sessionCookies = []string{"token", "__session"}

// Decision is the outcome of the route access check.
type Decision struct {
	Redirect bool
	Target   string
}

// Decide is the pure routing rule: protected path without a session cookie
// redirects to login with the original path preserved; public-only path with
// a session cookie redirects to the dashboard root; everything else
// continues.
func Decide(path string, hasSession bool) Decision {
	if matchesPrefix(path, protectedPrefixes) && !hasSession {
		return Decision{Redirect: true, Target: "/login?redirect=" + url.QueryEscape(path)}
	}
	if matchesPrefix(path, publicOnlyPaths) && hasSession {
		return Decision{Redirect: true, Target: "/dashboard"}
	}
	return Decision{}
}

func matchesPrefix(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

// RouteAccess applies Decide to incoming navigation.
func RouteAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := Decide(c.Request.URL.Path, hasSessionCookie(c))
		if decision.Redirect {
			c.Redirect(http.StatusTemporaryRedirect, decision.Target)
			c.Abort()
			return
		}
		c.Next()
	}
}

// hasSessionCookie reports cookie presence only; parse errors fail open.
func hasSessionCookie(c *gin.Context) bool {
	for _, name := range sessionCookies {
		if cookie, err := c.Request.Cookie(name); err == nil && cookie.Value != "" {
			return true
		}
	}
	return false
}
