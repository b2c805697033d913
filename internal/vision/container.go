package vision

import "gorm.io/gorm"

type Container struct {
	Handler *Handler
	Service Service
}

func NewContainer(db *gorm.DB, reminders Reminders, o MilestoneOracle) *Container {
	repo := NewRepository(db)
	service := NewService(repo, reminders, o)
	handler := NewHandler(service)

	return &Container{
		Handler: handler,
		Service: service,
	}
}
