package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/prjimages/internal/updater"
)

type ImagesHandler struct {
	table updater.Table
}

func NewImagesHandler(table updater.Table) *ImagesHandler {
	return &ImagesHandler{table: table}
}

type UpdateError struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type UpdateImagesResponse struct {
	Success      bool          `json:"success"`
	UpdatedCount int           `json:"updatedCount"`
	TotalImages  int           `json:"totalImages"`
	Errors       []UpdateError `json:"errors,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// HandleUpdateImageURLs rewrites project_images.image_url.
func (h *ImagesHandler) HandleUpdateImageURLs(c echo.Context) error {
	return h.run(c, updater.ProjectImages)
}

// HandleUpdateFeaturedImages rewrites projects.featured_image_url.
func (h *ImagesHandler) HandleUpdateFeaturedImages(c echo.Context) error {
	return h.run(c, updater.FeaturedImages)
}

func (h *ImagesHandler) run(c echo.Context, target updater.Target) error {
	ctx := c.Request().Context()
	dryRun := c.QueryParam("dry_run") == "true"

	result, err := updater.New(h.table, updater.WithDryRun(dryRun)).Run(ctx, target)
	if err != nil {
		slog.Error("failed to fetch images", "table", target.Table, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "Failed to fetch images",
			Details: err.Error(),
		})
	}

	resp := UpdateImagesResponse{
		Success:      true,
		UpdatedCount: result.Updated,
		TotalImages:  result.Total,
	}
	for _, e := range result.Errors {
		resp.Errors = append(resp.Errors, UpdateError{ID: e.ID, Error: e.Err.Error()})
	}

	slog.Info("image urls updated",
		"table", target.Table,
		"updated", result.Updated,
		"total", result.Total,
		"errors", len(result.Errors),
		"dry_run", dryRun,
	)

	return c.JSON(http.StatusOK, resp)
}

// HandleHealth reports that the server is up.
func HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
