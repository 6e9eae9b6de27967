package service

import (
	"github.com/labstack/echo/v4"
	"github.com/loganlanou/prjimages/internal/auth"
	"github.com/loganlanou/prjimages/internal/handlers"
	"github.com/loganlanou/prjimages/internal/updater"
)

type Service struct {
	config        *Config
	imagesHandler *handlers.ImagesHandler
}

// New wires the admin handlers to table, which is either the Supabase
// client or the local SQLite storage.
func New(table updater.Table, config *Config) *Service {
	return &Service{
		config:        config,
		imagesHandler: handlers.NewImagesHandler(table),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handlers.HandleHealth)

	admin := e.Group("/api/admin", auth.APIKeyAuth(s.config.Admin.APIKey))
	admin.POST("/update-image-urls", s.imagesHandler.HandleUpdateImageURLs)
	admin.POST("/update-featured-images", s.imagesHandler.HandleUpdateFeaturedImages)
}
