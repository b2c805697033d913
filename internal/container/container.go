package container

import (
	"context"
	"fmt"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"github.com/saulo-duarte/visionboard-lambda/internal/auth"
	"github.com/saulo-duarte/visionboard-lambda/internal/completion"
	"github.com/saulo-duarte/visionboard-lambda/internal/config"
	"github.com/saulo-duarte/visionboard-lambda/internal/interview"
	"github.com/saulo-duarte/visionboard-lambda/internal/kvstore"
	"github.com/saulo-duarte/visionboard-lambda/internal/metrics"
	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/reminder"
	"github.com/saulo-duarte/visionboard-lambda/internal/router"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
	"github.com/saulo-duarte/visionboard-lambda/internal/settings"
	"github.com/saulo-duarte/visionboard-lambda/internal/upload"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
	"github.com/saulo-duarte/visionboard-lambda/internal/vision"
	"github.com/saulo-duarte/visionboard-lambda/internal/voice"
)

type Container struct {
	Config  *config.Config
	DB      *gorm.DB
	Metrics *metrics.Collector

	OracleContainer     *oracle.OracleContainer
	ReminderContainer   *reminder.Container
	SettingsContainer   *settings.Container
	VisionContainer     *vision.Container
	CompletionContainer *completion.Container
	InterviewContainer  *interview.Container
	UploadContainer     *upload.Container
	VoiceContainer      *voice.Container
}

func New(ctx context.Context) (*Container, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	if err := util.SetLocation(cfg.Timezone); err != nil {
		config.Logger().WithError(err).Warnf("Unknown timezone %q, using default", cfg.Timezone)
	}
	if cfg.CryptoKey != "" {
		if err := config.InitCrypto(cfg.CryptoKey); err != nil {
			return nil, err
		}
	}
	auth.Init()

	db, err := config.Connect(ctx, cfg.DatabaseDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).AutoMigrate(&vision.Vision{}, &kvstore.Entry{}, &reminder.Reminder{}, &interview.Session{}); err != nil {
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	m := metrics.NewCollector("visionboard")

	oracleContainer, err := oracle.NewOracleContainer(ctx, cfg.Oracle, m)
	if err != nil {
		return nil, err
	}
	client := oracleContainer.Client

	store := kvstore.NewStore(db)
	reminderContainer := reminder.NewContainer(db, cfg, m)
	settingsContainer := settings.NewContainer(store, reminderContainer.Scheduler)
	reminderContainer.Scheduler.SetPreferences(settingsContainer.Service)

	visionContainer := vision.NewContainer(db, reminderContainer.Scheduler, client)
	completionContainer := completion.NewContainer(store, visionContainer.Service)
	interviewContainer := interview.NewContainer(
		db,
		client,
		schedule.NewSynthesizer(client),
		visionContainer.Service,
		reminderContainer.Scheduler,
		cfg.InterviewMaxTurns,
	)

	return &Container{
		Config:              cfg,
		DB:                  db,
		Metrics:             m,
		OracleContainer:     oracleContainer,
		ReminderContainer:   reminderContainer,
		SettingsContainer:   settingsContainer,
		VisionContainer:     visionContainer,
		CompletionContainer: completionContainer,
		InterviewContainer:  interviewContainer,
		UploadContainer:     upload.NewContainer(cfg.Cloudinary),
		VoiceContainer:      voice.NewContainer(interviewContainer.Engine),
	}, nil
}

func (c *Container) Router() *chi.Mux {
	return router.New(router.RouterConfig{
		AllowedOrigins: c.Config.CORSAllowedOrigins,
		SwaggerEnabled: c.Config.SwaggerEnabled,
		Metrics:        c.Metrics,

		AuthHandler:       auth.NewHandler(c.Config.CookieDomain, c.Config.Environment == "production"),
		InterviewHandler:  c.InterviewContainer.Handler,
		VisionHandler:     c.VisionContainer.Handler,
		CompletionHandler: c.CompletionContainer.Handler,
		SettingsHandler:   c.SettingsContainer.Handler,
		ReminderHandler:   c.ReminderContainer.Handler,
		UploadHandler:     c.UploadContainer.Handler,
		VoiceHandler:      c.VoiceContainer.Handler,
	})
}

func (c *Container) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
