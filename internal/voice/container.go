package voice

type Container struct {
	Handler *Handler
	Tracker *Tracker
}

func NewContainer(engine Engine) *Container {
	tracker := NewTracker()

	return &Container{
		Handler: NewHandler(engine, tracker),
		Tracker: tracker,
	}
}
