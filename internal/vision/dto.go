package vision

import "github.com/saulo-duarte/visionboard-lambda/internal/schedule"

type CreateVisionDTO struct {
	Text             string            `json:"text" validate:"required,max=500"`
	ImageURI         string            `json:"image_uri" validate:"omitempty,url"`
	Interview        []TranscriptEntry `json:"interview"`
	InterviewSummary string            `json:"interview_summary"`
	Schedule         []schedule.Item   `json:"schedule" validate:"omitempty,dive"`
	Motivations      []string          `json:"motivations"`
}

// UpdateVisionDTO merges only the fields that are present. An empty schedule
// clears the plan.
type UpdateVisionDTO struct {
	Text        *string          `json:"text" validate:"omitempty,min=1,max=500"`
	ImageURI    *string          `json:"image_uri" validate:"omitempty,url"`
	Schedule    *[]schedule.Item `json:"schedule"`
	Motivations *[]string        `json:"motivations"`
	Milestones  *[]Milestone     `json:"milestones"`
}
