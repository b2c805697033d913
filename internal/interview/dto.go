package interview

type CreateInterviewDTO struct {
	Goal     string `json:"goal" validate:"required,max=500"`
	ImageURI string `json:"image_uri" validate:"omitempty,url"`
}

type AnswerDTO struct {
	Answer string `json:"answer" validate:"required"`
}

type AttachImageDTO struct {
	ImageURI string `json:"image_uri" validate:"required,url"`
}

// ConfirmDTO picks the device platform reminders are built for. The body is
// optional; an X-Platform header is read when the body names none.
type ConfirmDTO struct {
	Platform string `json:"platform" validate:"omitempty,oneof=android ios"`
}
