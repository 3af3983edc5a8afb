package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"newsdeck/internal/auth"
	"newsdeck/internal/domain"
	"newsdeck/internal/feed"
	"newsdeck/internal/ingest"
	"newsdeck/internal/share"
)

// NewsService is the aggregation surface the handlers call.
type NewsService interface {
	AddSource(ctx context.Context, sess auth.Session, name, rawURL, category string) (*domain.Source, error)
	ListSources(ctx context.Context, sess auth.Session) ([]domain.Source, error)
	DeactivateSource(ctx context.Context, sess auth.Session, sourceID string) error
	ListArticles(ctx context.Context, sess auth.Session, category string, limit int) ([]domain.Article, error)
	RefreshSource(ctx context.Context, sess auth.Session, sourceID string) ingest.Result
	RefreshAll(ctx context.Context, sess auth.Session) ([]ingest.Result, error)
	ToggleBookmark(ctx context.Context, sess auth.Session, articleID string) error
	MarkRead(ctx context.Context, sess auth.Session, articleID string) error
	SearchArticles(ctx context.Context, sess auth.Session, query string) ([]domain.Article, error)
}

// ShareService builds share links and serves share analytics.
type ShareService interface {
	Share(ctx context.Context, sess auth.Session, articleID string, platform share.Platform) (string, error)
	Stats(ctx context.Context, sess auth.Session) (*domain.ShareStats, error)
}

type Handler struct {
	news   NewsService
	shares ShareService
	log    *slog.Logger
}

func NewHandler(news NewsService, shares ShareService, log *slog.Logger) *Handler {
	return &Handler{
		news:   news,
		shares: shares,
		log:    log,
	}
}

type addSourceRequest struct {
	Name     string `json:"name"     validate:"required"`
	URL      string `json:"url"      validate:"required"`
	Category string `json:"category"`
}

type shareRequest struct {
	Platform string `json:"platform" validate:"required"`
}

func (h *Handler) AddSource(c echo.Context) error {
	var req addSourceRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("name and url are required"))
	}

	ctx := c.Request().Context()

	src, err := h.news.AddSource(ctx, sessionFrom(c), req.Name, req.URL, req.Category)
	if err != nil {
		if errors.Is(err, feed.ErrFeedNotFound) {
			return c.JSON(http.StatusUnprocessableEntity, errorBody("feed not found"))
		}

		h.log.ErrorContext(ctx, "Failed to add source",
			"error", err,
			"url", req.URL)

		return c.JSON(http.StatusInternalServerError, errorBody("failed to add source"))
	}

	return c.JSON(http.StatusCreated, src)
}

func (h *Handler) ListSources(c echo.Context) error {
	ctx := c.Request().Context()

	sources, err := h.news.ListSources(ctx, sessionFrom(c))
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to list sources",
			"error", err)

		return c.JSON(http.StatusInternalServerError, errorBody("failed to list sources"))
	}

	if sources == nil {
		sources = []domain.Source{}
	}

	return c.JSON(http.StatusOK, sources)
}

func (h *Handler) DeactivateSource(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.news.DeactivateSource(ctx, sessionFrom(c), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorBody("source not found"))
		}

		h.log.ErrorContext(ctx, "Failed to deactivate source",
			"error", err,
			"sourceID", c.Param("id"))

		return c.JSON(http.StatusInternalServerError, errorBody("failed to deactivate source"))
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) RefreshSource(c echo.Context) error {
	res := h.news.RefreshSource(c.Request().Context(), sessionFrom(c), c.Param("id"))
	if res.Status == ingest.StatusFailed {
		return c.JSON(http.StatusBadGateway, errorBody("refresh failed"))
	}

	return c.JSON(http.StatusOK, res)
}

func (h *Handler) RefreshAll(c echo.Context) error {
	ctx := c.Request().Context()

	results, err := h.news.RefreshAll(ctx, sessionFrom(c))
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to refresh sources",
			"error", err)

		return c.JSON(http.StatusBadGateway, errorBody("refresh failed"))
	}

	if results == nil {
		results = []ingest.Result{}
	}

	return c.JSON(http.StatusOK, results)
}

func (h *Handler) ListArticles(c echo.Context) error {
	ctx := c.Request().Context()

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, errorBody("limit must be an integer"))
		}
		limit = parsed
	}

	articles, err := h.news.ListArticles(ctx, sessionFrom(c), c.QueryParam("category"), limit)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to list articles",
			"error", err)

		return c.JSON(http.StatusInternalServerError, errorBody("failed to list articles"))
	}

	if articles == nil {
		articles = []domain.Article{}
	}

	return c.JSON(http.StatusOK, articles)
}

func (h *Handler) SearchArticles(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return c.JSON(http.StatusBadRequest, errorBody("search query must not be empty"))
	}

	ctx := c.Request().Context()

	articles, err := h.news.SearchArticles(ctx, sessionFrom(c), query)
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to search articles",
			"error", err,
			"query", query)

		return c.JSON(http.StatusBadGateway, errorBody("search failed"))
	}

	if articles == nil {
		articles = []domain.Article{}
	}

	return c.JSON(http.StatusOK, articles)
}

func (h *Handler) ToggleBookmark(c echo.Context) error {
	return h.toggleFlag(c, h.news.ToggleBookmark, "bookmark")
}

func (h *Handler) MarkRead(c echo.Context) error {
	return h.toggleFlag(c, h.news.MarkRead, "read")
}

func (h *Handler) toggleFlag(
	c echo.Context,
	toggle func(context.Context, auth.Session, string) error,
	flag string,
) error {
	ctx := c.Request().Context()

	if err := toggle(ctx, sessionFrom(c), c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.JSON(http.StatusNotFound, errorBody("article not found"))
		}

		// Toggles are optimistic on the client; log and report success.
		h.log.ErrorContext(ctx, "Failed to toggle article flag",
			"error", err,
			"articleID", c.Param("id"),
			"flag", flag)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ShareArticle(c echo.Context) error {
	var req shareRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("invalid request body"))
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("platform is required"))
	}

	ctx := c.Request().Context()

	link, err := h.shares.Share(ctx, sessionFrom(c), c.Param("id"), share.Platform(req.Platform))
	if err != nil {
		switch {
		case errors.Is(err, share.ErrInvalidPlatform):
			return c.JSON(http.StatusBadRequest, errorBody("unsupported platform"))
		case errors.Is(err, domain.ErrNotFound):
			return c.JSON(http.StatusNotFound, errorBody("article not found"))
		}

		h.log.ErrorContext(ctx, "Failed to share article",
			"error", err,
			"articleID", c.Param("id"),
			"platform", req.Platform)

		return c.JSON(http.StatusInternalServerError, errorBody("failed to share article"))
	}

	return c.JSON(http.StatusCreated, map[string]string{"url": link})
}

func (h *Handler) ShareStats(c echo.Context) error {
	ctx := c.Request().Context()

	stats, err := h.shares.Stats(ctx, sessionFrom(c))
	if err != nil {
		h.log.ErrorContext(ctx, "Failed to fetch share stats",
			"error", err)

		return c.JSON(http.StatusInternalServerError, errorBody("failed to fetch share stats"))
	}

	return c.JSON(http.StatusOK, stats)
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}
