package completion

import "github.com/saulo-duarte/visionboard-lambda/internal/kvstore"

type Container struct {
	Handler *Handler
	Service *Service
}

func NewContainer(store kvstore.Store, visions VisionLister) *Container {
	service := NewService(store, visions)

	return &Container{
		Handler: NewHandler(service),
		Service: service,
	}
}
