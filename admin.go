package leadpress

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nomadic/leadpress/content"
	"github.com/nomadic/leadpress/credentials"
	"github.com/nomadic/leadpress/leads"
)

func (a *App) handleLoginPage(c echo.Context) error {
	// The UI is rendered client-side; this endpoint just confirms where the
	// gate sent the visitor and echoes the callback target.
	return respondData(c, http.StatusOK, map[string]string{
		"message":     "Login required",
		"callbackUrl": c.QueryParam("callbackUrl"),
	})
}

func (a *App) handleLogin(c echo.Context) error {
	if !a.loginLimiter.Check(c.RealIP()) {
		return respondError(c, http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	email := strings.TrimSpace(c.FormValue("email"))
	password := c.FormValue("password")

	admin, err := a.Admins.Validate(email, password)
	if err != nil {
		if errors.Is(err, credentials.ErrInvalidCredentials) {
			a.loginLimiter.Record(c.RealIP())
			return respondError(c, http.StatusUnauthorized, "Invalid email or password")
		}
		return err
	}
	if err := a.setAdminSession(c, admin.ID); err != nil {
		return err
	}
	callback := c.FormValue("callbackUrl")
	if callback == "" {
		callback = c.QueryParam("callbackUrl")
	}
	return c.Redirect(http.StatusSeeOther, safeCallback(callback))
}

func (a *App) handleLogout(c echo.Context) error {
	if err := a.clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/login")
}

// safeCallback keeps post-login redirects on-site.
func safeCallback(target string) string {
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") {
		return target
	}
	return "/admin"
}

func (a *App) handleAdminHome(c echo.Context) error {
	if !a.isAdmin(c) {
		// Cookie was present (the gate let the request through) but did not
		// verify as an admin session.
		return respondError(c, http.StatusUnauthorized, "Unauthorized")
	}
	stats, err := a.Leads.CountByStatus()
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, stats)
}

func (a *App) handleAdminStats(c echo.Context) error {
	stats, err := a.Leads.CountByStatus()
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, stats)
}

func (a *App) handleAdminListLeads(c echo.Context) error {
	all, err := a.Leads.ListAll()
	if err != nil {
		return err
	}
	if all == nil {
		all = []leads.Lead{}
	}
	return respondData(c, http.StatusOK, all)
}

func (a *App) handleAdminGetLead(c echo.Context) error {
	lead, err := a.Leads.GetByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "Lead not found")
		}
		return err
	}
	return respondData(c, http.StatusOK, lead)
}

type updateLeadRequest struct {
	Email   *string `json:"email" validate:"omitempty,email"`
	Name    *string `json:"name" validate:"omitempty,min=2"`
	Phone   *string `json:"phone" validate:"omitempty,phonechars"`
	Company *string `json:"company"`
	Message *string `json:"message"`
	Status  *string `json:"status" validate:"omitempty,oneof=new contacted converted"`
}

func (a *App) handleAdminUpdateLead(c echo.Context) error {
	var req updateLeadRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, validationMessage(err))
	}
	input := leads.UpdateInput{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Company: req.Company,
		Message: req.Message,
	}
	if req.Status != nil {
		status := leads.Status(*req.Status)
		input.Status = &status
	}
	lead, err := a.Leads.Update(c.Param("id"), input)
	if err != nil {
		if errors.Is(err, leads.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "Lead not found")
		}
		return err
	}
	a.Events.Info("Lead updated: " + lead.Email)
	return respondData(c, http.StatusOK, lead)
}

func (a *App) handleAdminDeleteLead(c echo.Context) error {
	removed, err := a.Leads.Delete(c.Param("id"))
	if err != nil {
		return err
	}
	if !removed {
		return respondError(c, http.StatusNotFound, "Lead not found")
	}
	return respondData(c, http.StatusOK, map[string]bool{"deleted": true})
}

func (a *App) handleAdminListPosts(c echo.Context) error {
	posts, err := a.Posts.ListAll()
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, summarize(posts))
}

type createPostRequest struct {
	Title       string `json:"title" validate:"required"`
	Date        string `json:"date" validate:"required,isodate"`
	Description string `json:"description" validate:"required"`
	Content     string `json:"content" validate:"required"`
}

func (a *App) handleAdminCreatePost(c echo.Context) error {
	var req createPostRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, validationMessage(err))
	}
	slug, post, err := a.Posts.Create(content.CreateInput{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		if errors.Is(err, content.ErrExists) {
			return respondError(c, http.StatusBadRequest, "A post with slug \""+content.TitleToSlug(req.Title)+"\" already exists")
		}
		return err
	}
	a.Cache.Invalidate()
	a.Events.Success("Post created: " + slug)
	return respondData(c, http.StatusCreated, post)
}

func (a *App) handleAdminGetPost(c echo.Context) error {
	post, err := a.Posts.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "Post not found")
		}
		return err
	}
	return respondData(c, http.StatusOK, post)
}

type updatePostRequest struct {
	Title       *string `json:"title"`
	Date        *string `json:"date" validate:"omitempty,isodate"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
}

func (a *App) handleAdminUpdatePost(c echo.Context) error {
	var req updatePostRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, validationMessage(err))
	}
	post, err := a.Posts.Update(c.Param("slug"), content.UpdateInput{
		Title:       req.Title,
		Date:        req.Date,
		Description: req.Description,
		Content:     req.Content,
	})
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "Post not found")
		}
		return err
	}
	a.Cache.Invalidate()
	a.Events.Success("Post updated: " + post.Slug)
	return respondData(c, http.StatusOK, post)
}

func (a *App) handleAdminDeletePost(c echo.Context) error {
	slug := c.Param("slug")
	if err := a.Posts.Delete(slug); err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "Post not found")
		}
		return err
	}
	a.Cache.Invalidate()
	a.Events.Success("Post deleted: " + slug)
	return respondData(c, http.StatusOK, map[string]bool{"deleted": true})
}
