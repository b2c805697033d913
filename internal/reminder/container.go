package reminder

import (
	"gorm.io/gorm"

	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
)

type Container struct {
	Scheduler *Scheduler
	Handler   *Handler
}

func NewContainer(db *gorm.DB, cfg *config.Config, m *metrics.Collector) *Container {
	registrar := NewDeviceRegistrar()
	if cfg.Calendar.Enabled() {
		registrar = NewCalendarRegistrar(cfg.Calendar)
	}
	config.Logger().WithField("registrar", registrar.Name()).Info("Reminder backend selected")

	scheduler := NewScheduler(NewRepository(db), registrar, Platform(cfg.ReminderPlatform), m)

	return &Container{
		Scheduler: scheduler,
		Handler:   NewHandler(scheduler),
	}
}
