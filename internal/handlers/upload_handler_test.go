package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// pngHeader is enough of a PNG for content sniffing.
var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

type storedObject struct {
	Name        string
	ContentType string
	Size        int
}

type memUploader struct {
	objects []storedObject
}

func (m *memUploader) Upload(_ context.Context, objectName, contentType string, r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.objects = append(m.objects, storedObject{Name: objectName, ContentType: contentType, Size: len(data)})
	return "https://storage.test/" + objectName, nil
}

type formFile struct {
	field string
	name  string
	data  []byte
}

func uploadRequest(t *testing.T, e *echo.Echo, target string, files ...formFile) response {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := w.CreateFormFile(f.field, f.name)
		require.NoError(t, err)
		_, err = part.Write(f.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set("X-Test-User", "1")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	res := response{Code: rec.Code, Raw: rec.Body.Bytes()}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res.Body))
	return res
}

func newUploadEcho(uploader Uploader) *echo.Echo {
	e := newTestEcho()
	NewUploadHandler(uploader).RegisterUploadRoutes(e.Group("/api/upload", asUser, requireUser))
	return e
}

func TestUploadImage(t *testing.T) {
	store := &memUploader{}
	e := newUploadEcho(store)

	res := uploadRequest(t, e, "/api/upload/image", formFile{field: "image", name: "avatar.png", data: pngHeader})
	require.Equal(t, http.StatusOK, res.Code)

	require.Len(t, store.objects, 1)
	obj := store.objects[0]
	assert.True(t, strings.HasPrefix(obj.Name, "hackmate/images/"))
	assert.True(t, strings.HasSuffix(obj.Name, ".png"))
	assert.Equal(t, "image/png", obj.ContentType)
	assert.Equal(t, len(pngHeader), obj.Size, "the sniffed bytes are uploaded too")
	assert.Equal(t, "https://storage.test/"+obj.Name, res.Body["url"])
}

func TestUploadRejectsNonMedia(t *testing.T) {
	store := &memUploader{}
	e := newUploadEcho(store)

	res := uploadRequest(t, e, "/api/upload/image", formFile{field: "image", name: "notes.png", data: []byte("just some text")})
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "Only images and videos are allowed", messageOf(res))
	assert.Empty(t, store.objects)
}

func TestUploadMissingFile(t *testing.T) {
	e := newUploadEcho(&memUploader{})

	res := uploadRequest(t, e, "/api/upload/image")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "No file uploaded", messageOf(res))

	res = uploadRequest(t, e, "/api/upload/images")
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Equal(t, "No files uploaded", messageOf(res))
}

func TestUploadImagesLimit(t *testing.T) {
	store := &memUploader{}
	e := newUploadEcho(store)

	var files []formFile
	for i := 0; i < 2; i++ {
		files = append(files, formFile{field: "images", name: "shot.png", data: pngHeader})
	}
	res := uploadRequest(t, e, "/api/upload/images", files...)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.Body["urls"], 2)

	for i := 0; i < 4; i++ {
		files = append(files, formFile{field: "images", name: "shot.png", data: pngHeader})
	}
	res = uploadRequest(t, e, "/api/upload/images", files...)
	assert.Equal(t, http.StatusBadRequest, res.Code)
	assert.Len(t, store.objects, 2)
}
