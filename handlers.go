package leadpress

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/nomadic/leadpress/content"
	"github.com/nomadic/leadpress/leads"
)

// envelope is the JSON shape of every API response.
type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondData(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

func respondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: false, Error: msg})
}

// postSummary is a post without its body, for list responses.
type postSummary struct {
	Slug        string `json:"slug"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Description string `json:"description"`
}

func summarize(posts []*content.BlogPost) []postSummary {
	out := make([]postSummary, 0, len(posts))
	for _, p := range posts {
		out = append(out, postSummary{
			Slug:        p.Slug,
			Title:       p.Frontmatter.Title,
			Date:        p.Frontmatter.Date,
			Description: p.Frontmatter.Description,
		})
	}
	return out
}

func (a *App) handleListPosts(c echo.Context) error {
	posts, err := a.Cache.ListAll()
	if err != nil {
		return err
	}
	return respondData(c, http.StatusOK, summarize(posts))
}

func (a *App) handleGetPost(c echo.Context) error {
	post, err := a.Cache.GetBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, content.ErrNotFound) {
			return respondError(c, http.StatusNotFound, "Post not found")
		}
		return err
	}
	return respondData(c, http.StatusOK, post)
}

type captureLeadRequest struct {
	Email   string `json:"email" validate:"required,email"`
	Name    string `json:"name" validate:"required,min=2"`
	Phone   string `json:"phone" validate:"omitempty,phonechars"`
	Company string `json:"company"`
	Message string `json:"message"`
	Source  string `json:"source"`
}

func (a *App) handleCaptureLead(c echo.Context) error {
	var req captureLeadRequest
	if err := c.Bind(&req); err != nil {
		return respondError(c, http.StatusBadRequest, "Invalid JSON")
	}
	if err := c.Validate(&req); err != nil {
		return respondError(c, http.StatusBadRequest, validationMessage(err))
	}
	lead, err := a.Leads.Create(leads.CreateInput{
		Email:   req.Email,
		Name:    req.Name,
		Phone:   req.Phone,
		Company: req.Company,
		Message: req.Message,
		Source:  req.Source,
	})
	if err != nil {
		if errors.Is(err, leads.ErrExists) {
			return respondError(c, http.StatusBadRequest, "Email already exists")
		}
		return err
	}
	a.Events.Success("New lead captured: " + lead.Email)
	return respondData(c, http.StatusCreated, map[string]string{"id": lead.ID})
}

// httpErrorHandler translates uncaught errors into the JSON envelope. Store
// errors mapped by handlers never reach here; this is the 404/500 backstop.
func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		}
	}
	if code == http.StatusNotFound {
		msg = "Not found"
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		msg = "Internal server error"
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		code = http.StatusBadRequest
		msg = validationMessage(err)
	}
	_ = respondError(c, code, msg)
}
