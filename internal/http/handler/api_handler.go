package handler

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pagecheck/pageanalyzer/internal/app/model"
	"github.com/pagecheck/pageanalyzer/internal/app/repository"
	"github.com/pagecheck/pageanalyzer/internal/app/service"
	"github.com/pagecheck/pageanalyzer/internal/urlutil"
	"go.uber.org/zap"
)

// APIDeps groups dependencies required by API handlers.
type APIDeps struct {
	Logger *zap.Logger
	URLs   service.URLService
	Checks service.CheckService
}

// APIHandler implements the JSON management API.
type APIHandler struct {
	logger *zap.Logger
	urls   service.URLService
	checks service.CheckService
}

// NewAPIHandler creates an API handler with the provided dependencies.
func NewAPIHandler(deps APIDeps) *APIHandler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &APIHandler{
		logger: logger,
		urls:   deps.URLs,
		checks: deps.Checks,
	}
}

// Register wires API routes onto the provided router.
func (h *APIHandler) Register(router fiber.Router) {
	api := router.Group("/api")
	{
		urls := api.Group("/urls")
		{
			urls.Post("/", h.AddURL)
			urls.Get("/", h.ListURLs)
			urls.Get("/:id", h.GetURL)
			urls.Get("/:id/checks", h.ListChecks)
			urls.Post("/:id/checks", h.RunCheck)
		}
	}
}

// AddURLRequest represents the request body for registering a URL.
type AddURLRequest struct {
	URL string `json:"url"`
}

// URLResponse represents one catalog entry.
type URLResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckResponse represents one persisted check with its classification.
type CheckResponse struct {
	ID          int64     `json:"id"`
	URLID       int64     `json:"url_id"`
	StatusCode  int       `json:"status_code"`
	H1          *string   `json:"h1"`
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Class       string    `json:"class"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddURL handles POST /api/urls
func (h *APIHandler) AddURL(c *fiber.Ctx) error {
	var req AddURLRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	url, err := h.urls.AddURL(h.ctx(c), req.URL)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(urlResponse(url))
	case errors.Is(err, repository.ErrURLExists):
		// Conflict still reports the surviving record so clients can follow it.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "url already exists",
			"url":   urlResponse(url),
		})
	case errors.Is(err, urlutil.ErrEmptyURL),
		errors.Is(err, urlutil.ErrInvalidURL),
		errors.Is(err, urlutil.ErrURLTooLong):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	default:
		h.logger.Error("failed to register url", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to register url",
		})
	}
}

// ListURLs handles GET /api/urls
func (h *APIHandler) ListURLs(c *fiber.Ctx) error {
	urls, err := h.urls.ListURLs(h.ctx(c))
	if err != nil {
		h.logger.Error("failed to list urls", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list urls",
		})
	}

	return c.JSON(fiber.Map{
		"urls":  urls,
		"count": len(urls),
	})
}

// GetURL handles GET /api/urls/:id
func (h *APIHandler) GetURL(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid url id",
		})
	}

	url, err := h.urls.GetURL(h.ctx(c), int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "url not found",
			})
		}
		h.logger.Error("failed to get url", zap.Int("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to get url",
		})
	}

	return c.JSON(urlResponse(url))
}

// ListChecks handles GET /api/urls/:id/checks
func (h *APIHandler) ListChecks(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid url id",
		})
	}

	checks, err := h.checks.ListChecks(h.ctx(c), int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "url not found",
			})
		}
		h.logger.Error("failed to list checks", zap.Int("url_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to list checks",
		})
	}

	response := make([]CheckResponse, len(checks))
	for i, check := range checks {
		response[i] = checkResponse(check)
	}

	return c.JSON(fiber.Map{
		"checks": response,
		"count":  len(response),
	})
}

// RunCheck handles POST /api/urls/:id/checks
func (h *APIHandler) RunCheck(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid url id",
		})
	}

	result, err := h.checks.RunCheck(h.ctx(c), int64(id))
	if err != nil {
		if errors.Is(err, repository.ErrURLNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "url not found",
			})
		}
		h.logger.Error("failed to run check", zap.Int("url_id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to run check",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(checkResponse(result.Check))
}

func urlResponse(url *model.URL) URLResponse {
	return URLResponse{
		ID:        url.ID,
		Name:      url.Name,
		CreatedAt: url.CreatedAt,
	}
}

func checkResponse(check model.URLCheck) CheckResponse {
	return CheckResponse{
		ID:          check.ID,
		URLID:       check.URLID,
		StatusCode:  check.StatusCode,
		H1:          check.H1,
		Title:       check.Title,
		Description: check.Description,
		Class:       string(model.ClassifyStatus(check.StatusCode)),
		CreatedAt:   check.CreatedAt,
	}
}

func (h *APIHandler) ctx(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
