package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/pagecheck/pageanalyzer/internal/app/repository"
	"github.com/pagecheck/pageanalyzer/internal/app/service"
	"github.com/pagecheck/pageanalyzer/internal/http/view"
	"github.com/pagecheck/pageanalyzer/internal/urlutil"
	"go.uber.org/zap"
)

// WebDeps groups dependencies required by the HTML page handlers.
type WebDeps struct {
	Logger *zap.Logger
	URLs   service.URLService
	Checks service.CheckService
}

// WebHandler serves the HTML pages: the add form, the catalog listing and the
// per-URL check history.
type WebHandler struct {
	logger *zap.Logger
	urls   service.URLService
	checks service.CheckService
}

// NewWebHandler creates a web handler with the provided dependencies.
func NewWebHandler(deps WebDeps) *WebHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebHandler{
		logger: logger,
		urls:   deps.URLs,
		checks: deps.Checks,
	}
}

// Register wires the page routes onto the provided router.
func (h *WebHandler) Register(router fiber.Router) {
	router.Get("/", h.Index)
	router.Get("/urls", h.ListURLs)
	router.Post("/urls", h.AddURL)
	router.Get("/urls/:id", h.ShowURL)
	router.Post("/urls/:id/checks", h.RunCheck)
}

// Feedback banners are carried across the post-redirect-get hop as a short
// code in the query string; no session state is involved.
var flashByCode = map[string]view.Flash{
	"added":         {Level: "success", Message: "Page registered"},
	"exists":        {Level: "warning", Message: "Page is already registered"},
	"check_ok":      {Level: "success", Message: "Page checked successfully"},
	"check_dns":     {Level: "danger", Message: "Site is unreachable"},
	"check_missing": {Level: "warning", Message: "The remote page was not found (404)"},
	"check_server":  {Level: "warning", Message: "The remote server returned an error"},
	"check_client":  {Level: "warning", Message: "The remote server rejected the request"},
	"check_failed":  {Level: "danger", Message: "Could not record the check, try again"},
}

var flashByClass = map[model.CheckClass]string{
	model.ClassOK:             "check_ok",
	model.ClassTransportError: "check_dns",
	model.ClassRemoteNotFound: "check_missing",
	model.ClassServerError:    "check_server",
	model.ClassClientError:    "check_client",
}

func flashFromQuery(c *fiber.Ctx) *view.Flash {
	if code := c.Query("flash"); code != "" {
		if f, ok := flashByCode[code]; ok {
			return &f
		}
	}
	return nil
}

// Index handles GET /
func (h *WebHandler) Index(c *fiber.Ctx) error {
	return h.renderIndex(c, fiber.StatusOK, view.IndexData{Flash: flashFromQuery(c)})
}

// AddURL handles POST /urls
func (h *WebHandler) AddURL(c *fiber.Ctx) error {
	raw := c.FormValue("url")

	url, err := h.urls.AddURL(h.ctx(c), raw)
	switch {
	case err == nil:
		return c.Redirect(fmt.Sprintf("/urls/%d?flash=added", url.ID), fiber.StatusFound)
	case errors.Is(err, repository.ErrURLExists):
		return c.Redirect(fmt.Sprintf("/urls/%d?flash=exists", url.ID), fiber.StatusFound)
	case errors.Is(err, urlutil.ErrEmptyURL):
		return h.renderIndex(c, fiber.StatusUnprocessableEntity, view.IndexData{
			Flash: &view.Flash{Level: "danger", Message: "URL is required"},
			Value: raw,
		})
	case errors.Is(err, urlutil.ErrInvalidURL):
		return h.renderIndex(c, fiber.StatusUnprocessableEntity, view.IndexData{
			Flash: &view.Flash{Level: "danger", Message: "Invalid URL"},
			Value: raw,
		})
	case errors.Is(err, urlutil.ErrURLTooLong):
		return h.renderIndex(c, fiber.StatusUnprocessableEntity, view.IndexData{
			Flash: &view.Flash{Level: "danger", Message: "URL must not exceed 255 characters"},
			Value: raw,
		})
	default:
		h.logger.Error("failed to register url", zap.Error(err))
		return h.renderIndex(c, fiber.StatusInternalServerError, view.IndexData{
			Flash: &view.Flash{Level: "danger", Message: "Something went wrong, try again"},
			Value: raw,
		})
	}
}

// ListURLs handles GET /urls
func (h *WebHandler) ListURLs(c *fiber.Ctx) error {
	urls, err := h.urls.ListURLs(h.ctx(c))
	if err != nil {
		h.logger.Error("failed to list urls", zap.Error(err))
		return fiber.ErrInternalServerError
	}

	html, err := view.RenderURLList(view.URLListData{Flash: flashFromQuery(c), URLs: urls})
	if err != nil {
		h.logger.Error("failed to render url list", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return c.Type("html", "utf-8").SendString(html)
}

// ShowURL handles GET /urls/:id
func (h *WebHandler) ShowURL(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	ctx := h.ctx(c)
	url, err := h.urls.GetURL(ctx, int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return fiber.ErrNotFound
		}
		h.logger.Error("failed to load url", zap.Int("id", id), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	checks, err := h.checks.ListChecks(ctx, url.ID)
	if err != nil {
		h.logger.Error("failed to list checks", zap.Int64("url_id", url.ID), zap.Error(err))
		return fiber.ErrInternalServerError
	}

	html, err := view.RenderURLDetail(view.URLDetailData{
		Flash:  flashFromQuery(c),
		URL:    url,
		Checks: checks,
	})
	if err != nil {
		h.logger.Error("failed to render url page", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return c.Type("html", "utf-8").SendString(html)
}

// RunCheck handles POST /urls/:id/checks
func (h *WebHandler) RunCheck(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.ErrNotFound
	}

	result, err := h.checks.RunCheck(h.ctx(c), int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return fiber.ErrNotFound
		}
		h.logger.Error("failed to run check", zap.Int("url_id", id), zap.Error(err))
		return c.Redirect(fmt.Sprintf("/urls/%d?flash=check_failed", id), fiber.StatusFound)
	}

	return c.Redirect(fmt.Sprintf("/urls/%d?flash=%s", id, flashByClass[result.Class]), fiber.StatusFound)
}

func (h *WebHandler) renderIndex(c *fiber.Ctx, status int, data view.IndexData) error {
	html, err := view.RenderIndex(data)
	if err != nil {
		h.logger.Error("failed to render index", zap.Error(err))
		return fiber.ErrInternalServerError
	}
	return c.Status(status).Type("html", "utf-8").SendString(html)
}

func (h *WebHandler) ctx(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
