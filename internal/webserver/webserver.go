// Package webserver hosts the echo admin API shell: request logging,
// panic recovery, payload validation and the /api/v1 route registry.
package webserver

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/openshelf/openshelf/config"
)

type payloadValidator struct {
	validate *validator.Validate
}

func (v *payloadValidator) Validate(i interface{}) error {
	if err := v.validate.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

type WebServer struct {
	cfg  *config.AppConfig
	root *echo.Echo
	api  *echo.Group
}

func New(cfg *config.AppConfig) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &payloadValidator{validate: validator.New()}
	e.Use(middleware.Recover())
	e.Use(zapLogger())

	return &WebServer{
		cfg:  cfg,
		root: e,
		api:  e.Group("/api/v1"),
	}
}

func zapLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			zap.L().Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("latency", time.Since(start)),
				zap.String("remote_ip", c.RealIP()),
			)
			return err
		}
	}
}

// Use appends middleware to the API group, ahead of route registration.
func (s *WebServer) Use(mw ...echo.MiddlewareFunc) {
	s.api.Use(mw...)
}

func (s *WebServer) ApiGET(path string, h echo.HandlerFunc) {
	s.api.GET(path, h)
}

func (s *WebServer) ApiPOST(path string, h echo.HandlerFunc) {
	s.api.POST(path, h)
}

func (s *WebServer) ApiPUT(path string, h echo.HandlerFunc) {
	s.api.PUT(path, h)
}

func (s *WebServer) ApiDELETE(path string, h echo.HandlerFunc) {
	s.api.DELETE(path, h)
}

// Echo exposes the underlying engine (tests drive handlers through it).
func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

// Start blocks serving until Shutdown or a listener error.
func (s *WebServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.S().Infof("admin api listening on %s", addr)
	return s.root.Start(addr)
}

func (s *WebServer) Shutdown(ctx context.Context) error {
	return s.root.Shutdown(ctx)
}
