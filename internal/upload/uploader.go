package upload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
)

const defaultBaseURL = "https://api.cloudinary.com/v1_1"

var (
	ErrNotConfigured = errors.New("cloudinary credentials missing: set CLOUDINARY_CLOUD_NAME and CLOUDINARY_UPLOAD_PRESET")
	ErrUploadFailed  = errors.New("cloudinary upload failed")
)

type Uploader interface {
	Upload(ctx context.Context, filename string, body io.Reader) (string, error)
	Configured() bool
}

type cloudinaryUploader struct {
	cloudName string
	preset    string
	baseURL   string
	client    *http.Client
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) Uploader {
	return newCloudinaryUploader(cfg, defaultBaseURL, &http.Client{Timeout: 60 * time.Second})
}

func newCloudinaryUploader(cfg config.CloudinaryConfig, baseURL string, client *http.Client) *cloudinaryUploader {
	return &cloudinaryUploader{
		cloudName: cfg.CloudName,
		preset:    cfg.UploadPreset,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    client,
	}
}

func (u *cloudinaryUploader) Configured() bool {
	return u.cloudName != "" && u.preset != ""
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// MimeType guesses the image type from the file extension, defaulting to jpeg.
func MimeType(filename string) string {
	switch strings.ToLower(strings.TrimPrefix(path.Ext(filename), ".")) {
	case "png":
		return "image/png"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

func (u *cloudinaryUploader) Upload(ctx context.Context, filename string, body io.Reader) (string, error) {
	log := config.WithContext(ctx)

	if !u.Configured() {
		return "", ErrNotConfigured
	}
	if filename = path.Base(filename); filename == "." || filename == "/" {
		filename = "image.jpg"
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, filename, u.preset, body))
	}()

	endpoint := fmt.Sprintf("%s/%s/image/upload", u.baseURL, u.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, pr)
	if err != nil {
		pr.Close()
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	resp, err := u.client.Do(req)
	if err != nil {
		log.WithError(err).Error("Cloudinary request failed")
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: unreadable response (status %d)", ErrUploadFailed, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := "Upload failed"
		if out.Error != nil && out.Error.Message != "" {
			msg = out.Error.Message
		}
		log.WithField("status", resp.StatusCode).Warnf("Cloudinary rejected upload: %s", msg)
		return "", fmt.Errorf("%w: %s", ErrUploadFailed, msg)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("%w: response has no secure_url", ErrUploadFailed)
	}

	log.WithField("public_id", out.PublicID).Info("Image uploaded")
	return out.SecureURL, nil
}

func writeForm(mw *multipart.Writer, filename, preset string, body io.Reader) error {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, strings.ReplaceAll(filename, `"`, "")))
	header.Set("Content-Type", MimeType(filename))

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, body); err != nil {
		return err
	}
	if err := mw.WriteField("upload_preset", preset); err != nil {
		return err
	}
	return mw.Close()
}
