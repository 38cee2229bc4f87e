package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/damacus/bucket-search/internal/logger"
	"github.com/damacus/bucket-search/internal/models"
	"github.com/damacus/bucket-search/internal/services"
	"github.com/labstack/echo/v4"
)

const noFoldersWarning = "No folders found in the bucket."

// Browser is the part of services.BrowserService the handlers use.
type Browser interface {
	Bucket() string
	Folders() []string
	Search(ctx context.Context, folder, query string) (*models.SearchResult, error)
	Fetch(ctx context.Context, key string) (*models.Download, error)
}

var _ Browser = (*services.BrowserService)(nil)

type BrowserHandler struct {
	browser Browser
	log     *logger.Logger
}

func NewBrowserHandler(browser Browser, log *logger.Logger) *BrowserHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BrowserHandler{
		browser: browser,
		log:     log.With().Str("component", "handlers").Logger(),
	}
}

func noMatchWarning(query string) string {
	return fmt.Sprintf("No files found matching %q.", query)
}

// Index renders the search page. A search runs once the form has been
// submitted, i.e. when the q parameter is present, even if empty.
func (h *BrowserHandler) Index(c echo.Context) error {
	folders := h.browser.Folders()
	data := map[string]interface{}{
		"Bucket":  h.browser.Bucket(),
		"Folders": folders,
	}
	if len(folders) == 0 {
		data["Warning"] = noFoldersWarning
		return c.Render(http.StatusOK, "browser", data)
	}

	folder := c.QueryParam("folder")
	if folder == "" {
		folder = folders[0]
	}
	query := c.QueryParam("q")
	data["Folder"] = folder
	data["Query"] = query

	if _, submitted := c.QueryParams()["q"]; !submitted {
		return c.Render(http.StatusOK, "browser", data)
	}

	result, err := h.browser.Search(c.Request().Context(), folder, query)
	switch {
	case errors.Is(err, services.ErrNoMatch):
		data["Warning"] = noMatchWarning(query)
	case err != nil:
		return HTTPError(err, "Failed to list files")
	default:
		data["Files"] = result.Files
	}

	return c.Render(http.StatusOK, "browser", data)
}

// Download sends the whole object as an attachment named after its key.
func (h *BrowserHandler) Download(c echo.Context) error {
	key := c.QueryParam("key")

	dl, err := h.browser.Fetch(c.Request().Context(), key)
	if err != nil {
		return HTTPError(err, "Failed to download file")
	}
	h.log.InfoWith("download", map[string]interface{}{"key": dl.Key, "bytes": len(dl.Data)})

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", dl.Key))
	return c.Blob(http.StatusOK, echo.MIMEOctetStream, dl.Data)
}

// APIFolders returns the discovered folders as JSON.
func (h *BrowserHandler) APIFolders(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"bucket":  h.browser.Bucket(),
		"folders": h.browser.Folders(),
	})
}

// APISearch returns the matching files as JSON. No match answers 404.
func (h *BrowserHandler) APISearch(c echo.Context) error {
	folder := c.QueryParam("folder")
	if folder == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "folder is required")
	}
	query := c.QueryParam("q")

	result, err := h.browser.Search(c.Request().Context(), folder, query)
	if errors.Is(err, services.ErrNoMatch) {
		return echo.NewHTTPError(http.StatusNotFound, noMatchWarning(query))
	}
	if err != nil {
		return HTTPError(err, "Failed to list files")
	}
	return c.JSON(http.StatusOK, result)
}

func (h *BrowserHandler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}
