package leadpress

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName       = "admin_session"
	secureSessionName = "__Secure-admin_session"
)

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)

	e.HTTPErrorHandler = a.httpErrorHandler

	// The gate runs before routing: it only needs the raw request cookies.
	e.Pre(a.sessionGate)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			c.Logger().Infof("%s %s -> %d (%s)", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))

	e.Use(session.Middleware(a.newSessionStore()))
}

// sessionGate redirects based purely on session cookie presence. It never
// decodes the cookie: a request carrying any recognized session cookie name
// passes, and the admin guard below does the actual verification.
func (a *App) sessionGate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path
		present := hasSessionCookie(c.Request())

		if isAdminPath(path) && !present {
			return c.Redirect(http.StatusFound, "/login?callbackUrl="+url.QueryEscape(path))
		}
		if path == "/login" && present {
			return c.Redirect(http.StatusFound, "/admin")
		}
		return next(c)
	}
}

func isAdminPath(path string) bool {
	return path == "/admin" || strings.HasPrefix(path, "/admin/")
}

func hasSessionCookie(r *http.Request) bool {
	for _, name := range []string{sessionName, secureSessionName} {
		if _, err := r.Cookie(name); err == nil {
			return true
		}
	}
	return false
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   60 * 60 * 24,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

func (a *App) sessionCookieName() string {
	if a.Config.CookieSecure {
		return secureSessionName
	}
	return sessionName
}

// isAdmin reports whether the request carries a verified admin session. This
// is the trust decision the gate delegates: here the cookie is decoded and
// its signature checked by the session store.
func (a *App) isAdmin(c echo.Context) bool {
	sess, err := session.Get(a.sessionCookieName(), c)
	if err != nil {
		return false
	}
	auth, ok := sess.Values["authenticated"].(bool)
	return ok && auth
}

// requireAdmin guards the admin API, answering 401 instead of redirecting.
func (a *App) requireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !a.isAdmin(c) {
			return respondError(c, http.StatusUnauthorized, "Unauthorized")
		}
		return next(c)
	}
}

func (a *App) setAdminSession(c echo.Context, adminID string) error {
	sess, err := session.Get(a.sessionCookieName(), c)
	if err != nil {
		return err
	}
	sess.Values["authenticated"] = true
	sess.Values["adminID"] = adminID
	return sess.Save(c.Request(), c.Response())
}

func (a *App) clearAdminSession(c echo.Context) error {
	sess, err := session.Get(a.sessionCookieName(), c)
	if err != nil {
		return err
	}
	sess.Options.MaxAge = -1
	return sess.Save(c.Request(), c.Response())
}
