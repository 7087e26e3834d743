// Package leadpress is a content-managed blog site with lead capture, built
// with Go and Echo. It serves a public JSON API for blog posts and lead
// submission plus a session-gated admin API for managing both, all backed by
// flat JSON and MDX files on disk.
package leadpress

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nomadic/leadpress/content"
	"github.com/nomadic/leadpress/credentials"
	"github.com/nomadic/leadpress/leads"
	"github.com/nomadic/leadpress/toast"
)

// App is the central leadpress application. It wires together the stores,
// cache, event emitter, middleware, and routes.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Posts  *content.Store
	Leads  *leads.Store
	Admins *credentials.Store
	Cache  *postCache
	Events *toast.Emitter

	loginLimiter *loginLimiter
}

// New creates a new leadpress App with the given configuration.
func New(cfg SiteConfig) *App {
	cfg.setDefaults()
	return &App{
		Config: cfg,
		Echo:   echo.New(),
		Events: toast.NewEmitter(),
	}
}

// Start initializes the stores, seeds the default admin, registers middleware
// and routes, and starts the server.
func (a *App) Start() error {
	if err := a.initialize(); err != nil {
		return err
	}
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) initialize() error {
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("leadpress: SessionSecret is required")
	}

	a.Posts = content.NewStore(a.Config.PostsDir)
	a.Leads = leads.NewStore(filepath.Join(a.Config.DataDir, "leads.json"))
	a.Admins = credentials.NewStore(filepath.Join(a.Config.DataDir, "admin.json"))

	if err := a.Admins.InitializeDefault(a.Config.AdminEmail, a.Config.AdminPassword); err != nil {
		return fmt.Errorf("leadpress: seed default admin: %w", err)
	}

	a.Cache = newPostCache(a.Posts, 5*time.Minute)
	a.loginLimiter = newLoginLimiter(5, time.Minute)

	a.Echo.Validator = newValidator()
	a.setupMiddleware()
	a.setupRoutes()
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Public surface
	e.GET("/api/posts", a.handleListPosts)
	e.GET("/api/posts/:slug", a.handleGetPost)
	e.POST("/api/leads", a.handleCaptureLead)

	// Login flow. GET /login exists so the session gate has somewhere to
	// redirect unauthenticated admin traffic.
	e.GET("/login", a.handleLoginPage)
	e.POST("/login", a.handleLogin)
	e.POST("/logout", a.handleLogout)

	// Admin landing, protected by the session gate.
	e.GET("/admin", a.handleAdminHome)

	// Admin API, guarded by real session verification.
	api := e.Group("/api/admin", a.requireAdmin)
	api.GET("/stats", a.handleAdminStats)
	api.GET("/leads", a.handleAdminListLeads)
	api.GET("/leads/:id", a.handleAdminGetLead)
	api.PATCH("/leads/:id", a.handleAdminUpdateLead)
	api.DELETE("/leads/:id", a.handleAdminDeleteLead)
	api.GET("/posts", a.handleAdminListPosts)
	api.POST("/posts", a.handleAdminCreatePost)
	api.GET("/posts/:slug", a.handleAdminGetPost)
	api.PUT("/posts/:slug", a.handleAdminUpdatePost)
	api.DELETE("/posts/:slug", a.handleAdminDeletePost)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Events != nil {
		a.Events.Close()
	}
	return nil
}
