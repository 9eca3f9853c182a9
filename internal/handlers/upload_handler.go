package handlers

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const maxImagesPerUpload = 5

// Uploader writes an object to storage and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, objectName, contentType string, r io.Reader) (string, error)
}

// UploadHandler accepts image and video uploads
type UploadHandler struct {
	uploader Uploader
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(uploader Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// RegisterUploadRoutes registers upload routes. The group is expected to be protected.
func (h *UploadHandler) RegisterUploadRoutes(g *echo.Group) {
	g.POST("/image", h.UploadImage)
	g.POST("/images", h.UploadImages)
	g.POST("/video", h.UploadVideo)
}

// store sniffs the file's content type, checks it against kind ("image" or
// "video") and uploads it under a random name.
func (h *UploadHandler) store(ctx context.Context, fh *multipart.FileHeader, kind string) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid file")
	}
	defer f.Close()

	mtype, err := mimetype.DetectReader(f)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Invalid file")
	}
	if !strings.HasPrefix(mtype.String(), kind+"/") {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Only images and videos are allowed")
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	objectName := path.Join("hackmate", kind+"s", uuid.NewString()+mtype.Extension())
	url, err := h.uploader.Upload(ctx, objectName, mtype.String(), f)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return url, nil
}

// UploadImage stores a single image sent as the "image" form field
func (h *UploadHandler) UploadImage(c echo.Context) error {
	fh, err := c.FormFile("image")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	url, err := h.store(c.Request().Context(), fh, "image")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url})
}

// UploadImages stores up to five images sent as "images" form fields
func (h *UploadHandler) UploadImages(c echo.Context) error {
	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No files uploaded")
	}
	files := form.File["images"]
	if len(files) == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "No files uploaded")
	}
	if len(files) > maxImagesPerUpload {
		return echo.NewHTTPError(http.StatusBadRequest, "Too many files")
	}

	urls := make([]string, 0, len(files))
	for _, fh := range files {
		url, err := h.store(c.Request().Context(), fh, "image")
		if err != nil {
			return err
		}
		urls = append(urls, url)
	}
	return c.JSON(http.StatusOK, echo.Map{"urls": urls})
}

// UploadVideo stores a video sent as the "video" form field
func (h *UploadHandler) UploadVideo(c echo.Context) error {
	fh, err := c.FormFile("video")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "No file uploaded")
	}
	url, err := h.store(c.Request().Context(), fh, "video")
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"url": url, "size": fh.Size})
}
