package upload

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

var testCfg = config.CloudinaryConfig{CloudName: "demo", UploadPreset: "unsigned_vision"}

func TestMimeType(t *testing.T) {
	cases := map[string]string{
		"photo.PNG":    "image/png",
		"anim.gif":     "image/gif",
		"pic.webp":     "image/webp",
		"shot.jpeg":    "image/jpeg",
		"no-extension": "image/jpeg",
	}
	for name, want := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, MimeType(name))
		})
	}
}

func TestUpload(t *testing.T) {
	t.Run("sends unsigned multipart form", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/demo/image/upload", r.URL.Path)
			assert.NoError(t, r.ParseMultipartForm(1<<20))
			assert.Equal(t, "unsigned_vision", r.FormValue("upload_preset"))

			file, header, err := r.FormFile("file")
			if assert.NoError(t, err) {
				defer file.Close()
				assert.Equal(t, "board.png", header.Filename)
				assert.Equal(t, "image/png", header.Header.Get("Content-Type"))
				data, _ := io.ReadAll(file)
				assert.Equal(t, "pixels", string(data))
			}

			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"secure_url":"https://res.cloudinary.com/demo/board.png","public_id":"board"}`))
		}))
		defer server.Close()

		u := newCloudinaryUploader(testCfg, server.URL, server.Client())
		url, err := u.Upload(context.Background(), "/tmp/photos/board.png", strings.NewReader("pixels"))
		require.NoError(t, err)
		assert.Equal(t, "https://res.cloudinary.com/demo/board.png", url)
	})

	t.Run("surfaces remote error message", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			io.Copy(io.Discard, r.Body)
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"message":"Upload preset not found"}}`))
		}))
		defer server.Close()

		u := newCloudinaryUploader(testCfg, server.URL, server.Client())
		_, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
		require.ErrorIs(t, err, ErrUploadFailed)
		assert.Contains(t, err.Error(), "Upload preset not found")
	})

	t.Run("requires configuration", func(t *testing.T) {
		u := newCloudinaryUploader(config.CloudinaryConfig{CloudName: "demo"}, defaultBaseURL, http.DefaultClient)
		assert.False(t, u.Configured())

		_, err := u.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrNotConfigured)
	})
}

type stubUploader struct {
	configured bool
	got        string
}

func (s *stubUploader) Configured() bool { return s.configured }

func (s *stubUploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	data, _ := io.ReadAll(body)
	s.got = filename + ":" + string(data)
	return "https://cdn.example/" + filename, nil
}

func TestHandler(t *testing.T) {
	form := func() (*bytes.Buffer, string) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, _ := mw.CreateFormFile("file", "goal.webp")
		part.Write([]byte("img"))
		mw.Close()
		return &buf, mw.FormDataContentType()
	}

	t.Run("uploads file field", func(t *testing.T) {
		stub := &stubUploader{configured: true}
		body, contentType := form()
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()

		Routes(NewHandler(stub)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, `{"url":"https://cdn.example/goal.webp"}`, rec.Body.String())
		assert.Equal(t, "goal.webp:img", stub.got)
	})

	t.Run("missing file", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		rec := httptest.NewRecorder()
		Routes(NewHandler(&stubUploader{configured: true})).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not configured", func(t *testing.T) {
		body, contentType := form()
		req := httptest.NewRequest(http.MethodPost, "/", body)
		req.Header.Set("Content-Type", contentType)
		rec := httptest.NewRecorder()
		Routes(NewHandler(&stubUploader{})).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
