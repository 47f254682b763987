package handler

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/juntape/junta/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	uploaded []string
	err      error
}

func (f *fakeStore) Upload(ctx context.Context, up media.Upload) (*media.Asset, error) {
	if err := up.Validate(); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	data, _ := io.ReadAll(up.Body)
	f.uploaded = append(f.uploaded, string(data))
	return &media.Asset{URL: "https://res.cloudinary.com/demo/image/upload/v1/junta/events/" + up.Filename}, nil
}

func (f *fakeStore) Delete(ctx context.Context, imageURL string) error { return nil }

func multipartRequest(t *testing.T, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serveMedia(store media.Store, req *http.Request) *httptest.ResponseRecorder {
	r := gin.New()
	r.POST("/media", NewMediaHandler(store, nil).Upload)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestMediaHandler_NotConfigured(t *testing.T) {
	w := serveMedia(nil, multipartRequest(t, "a.png", "image/png", []byte("png")))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMediaHandler_Upload(t *testing.T) {
	store := &fakeStore{}
	w := serveMedia(store, multipartRequest(t, "cartel.jpg", "image/jpeg", []byte("jpeg-bytes")))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, []string{"jpeg-bytes"}, store.uploaded)
	assert.Contains(t, string(decode(w).Data), "cartel.jpg")
}

func TestMediaHandler_Rejects(t *testing.T) {
	w := serveMedia(&fakeStore{}, multipartRequest(t, "doc.pdf", "application/pdf", []byte("pdf")))
	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/media", nil)
	assert.Equal(t, http.StatusBadRequest, serveMedia(&fakeStore{}, req).Code)

	w = serveMedia(&fakeStore{err: context.DeadlineExceeded}, multipartRequest(t, "a.webp", "image/webp", []byte("w")))
	assert.Equal(t, http.StatusBadGateway, w.Code)
}
