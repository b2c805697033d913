package interview

import (
	"time"

	"gorm.io/gorm"
)

const sessionTTL = 24 * time.Hour

type Container struct {
	Engine  *Engine
	Handler *Handler
}

func NewContainer(db *gorm.DB, o Interviewer, s Synthesizer, v VisionCreator, r ReminderScheduler, maxTurns int) *Container {
	engine := NewEngine(NewSessionStore(db, sessionTTL), o, s, v, r, maxTurns)

	return &Container{
		Engine:  engine,
		Handler: NewHandler(engine),
	}
}
