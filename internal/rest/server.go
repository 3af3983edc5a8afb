package rest

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsdeck/internal/auth"
)

const sessionKey = "session"

type requestValidator struct {
	validate *validator.Validate
}

func (v *requestValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return nil
}

// NewRouter wires middleware and routes. Everything under /v1 except
// /v1/health requires a bearer token.
func NewRouter(h *Handler, verifier *auth.Verifier, corsOrigins []string, log *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &requestValidator{validate: validator.New()}

	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: corsOrigins,
		AllowMethods: []string{echo.GET, echo.POST, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, "Authorization"},
	}))
	e.Use(loggingMiddleware(log))

	e.GET("/v1/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := e.Group("/v1", authMiddleware(verifier))

	v1.POST("/sources", h.AddSource)
	v1.GET("/sources", h.ListSources)
	v1.POST("/sources/:id/deactivate", h.DeactivateSource)
	v1.POST("/sources/:id/refresh", h.RefreshSource)
	v1.POST("/refresh", h.RefreshAll)

	v1.GET("/articles", h.ListArticles)
	v1.GET("/articles/search", h.SearchArticles)
	v1.POST("/articles/:id/bookmark", h.ToggleBookmark)
	v1.POST("/articles/:id/read", h.MarkRead)
	v1.POST("/articles/:id/share", h.ShareArticle)

	v1.GET("/shares/stats", h.ShareStats)

	return e
}

func authMiddleware(verifier *auth.Verifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}

			sess, err := verifier.Verify(token)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			}

			c.Set(sessionKey, sess)

			return next(c)
		}
	}
}

func sessionFrom(c echo.Context) auth.Session {
	sess, ok := c.Get(sessionKey).(auth.Session)
	if !ok {
		return auth.Session{}
	}

	return sess
}

func loggingMiddleware(log *slog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			log.InfoContext(c.Request().Context(), "Request handled",
				"method", c.Request().Method,
				"path", c.Request().URL.Path,
				"status", c.Response().Status,
				"durationMs", time.Since(start).Milliseconds())

			return err
		}
	}
}
