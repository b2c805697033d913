package upload

import "github.com/saulo-duarte/visionboard-lambda/internal/config"

type Container struct {
	Handler  *Handler
	Uploader Uploader
}

func NewContainer(cfg config.CloudinaryConfig) *Container {
	uploader := NewCloudinaryUploader(cfg)
	if !uploader.Configured() {
		config.Logger().Warn("Cloudinary not configured, uploads disabled")
	}

	return &Container{
		Handler:  NewHandler(uploader),
		Uploader: uploader,
	}
}
