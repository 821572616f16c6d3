package router

import (
	"path/filepath"

	"github.com/deppfellow/askmate/internal/handler"
	"github.com/deppfellow/askmate/internal/lib/storage"
	"github.com/deppfellow/askmate/internal/server"
	"github.com/labstack/echo/v4"
)

func registerSystemRoutes(r *echo.Echo, h *handler.Handlers, s *server.Server) {
	r.GET("/status", h.Health.CheckHealth)
	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))

	// Uploads may live outside ./static, so they get their own mount.
	r.Static("/static/"+storage.PublicPrefix, filepath.Clean(s.Config.Uploads.Dir))
	r.Static("/static", "static")
}
