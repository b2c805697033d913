package settings

import "github.com/saulo-duarte/visionboard-lambda/internal/kvstore"

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(store kvstore.Store, canceller Canceller) *Container {
	service := NewService(store, canceller)

	return &Container{
		Handler: NewHandler(service),
		Service: service,
	}
}
