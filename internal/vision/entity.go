package vision

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
)

type TranscriptEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type Milestone struct {
	ID        string `json:"id"`
	Month     string `json:"month"`
	Target    string `json:"target"`
	Completed bool   `json:"completed"`
	Snark     string `json:"snark,omitempty"`
}

// Vision is one goal on the board. Schedule is either nil or non-empty, and
// StartedAt is only set while a schedule exists.
type Vision struct {
	ID               uuid.UUID                            `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           string                               `gorm:"column:user_id;index;not null" json:"user_id"`
	Text             string                               `gorm:"not null" json:"text"`
	ImageURI         string                               `json:"image_uri"`
	Interview        datatypes.JSONSlice[TranscriptEntry] `json:"interview,omitempty"`
	InterviewSummary string                               `json:"interview_summary,omitempty"`
	Schedule         datatypes.JSONSlice[schedule.Item]   `json:"schedule,omitempty"`
	Motivations      datatypes.JSONSlice[string]          `json:"motivations,omitempty"`
	Milestones       datatypes.JSONSlice[Milestone]       `json:"milestones"`
	StartedAt        *time.Time                           `json:"started_at,omitempty"`
	CreatedAt        time.Time                            `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt        time.Time                            `json:"updated_at"`
}

func (v *Vision) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	if v.Milestones == nil {
		v.Milestones = datatypes.JSONSlice[Milestone]{}
	}
	return nil
}

func (v *Vision) HasSchedule() bool {
	return len(v.Schedule) > 0
}

func (v *Vision) Started() bool {
	return v.StartedAt != nil && v.HasSchedule()
}
