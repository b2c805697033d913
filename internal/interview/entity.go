package interview

import (
	"time"

	"gorm.io/datatypes"

	"github.com/saulo-duarte/visionboard-lambda/internal/oracle"
	"github.com/saulo-duarte/visionboard-lambda/internal/reminder"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
	"github.com/saulo-duarte/visionboard-lambda/internal/vision"
)

type Stage string

const (
	StageSetup        Stage = "SETUP"
	StageInterviewing Stage = "INTERVIEWING"
	StageProposal     Stage = "PROPOSAL"
)

const (
	redoQuestion     = "Fine. Tell me what was wrong with the plan and we'll try again."
	interviewSummary = "AI Generated"
)

// Session is one goal interview. Rows are shared by every server process;
// InFlight is the turn guard and is only flipped by SessionStore.
type Session struct {
	ID        string                                        `gorm:"primaryKey;size:36" json:"id"`
	Owner     string                                        `gorm:"index;not null" json:"owner"`
	Goal      string                                        `gorm:"not null" json:"goal"`
	ImageURI  string                                        `json:"image_uri,omitempty"`
	Stage     Stage                                         `gorm:"size:16;not null" json:"stage"`
	History   datatypes.JSONSlice[oracle.Turn]              `json:"history"`
	Question  datatypes.JSONType[*oracle.ContinueInterview] `json:"question"`
	Proposal  datatypes.JSONType[*schedule.Proposal]        `json:"proposal"`
	Round     int                                           `gorm:"not null;default:0" json:"round"`
	InFlight  bool                                          `gorm:"not null;default:false;index" json:"in_flight"`
	CreatedAt time.Time                                     `json:"created_at"`
	UpdatedAt time.Time                                     `gorm:"index" json:"updated_at"`
}

func (Session) TableName() string {
	return "interview_sessions"
}

// View is a consistent copy of a session.
type View struct {
	ID        string                    `json:"id"`
	Owner     string                    `json:"owner"`
	Goal      string                    `json:"goal"`
	ImageURI  string                    `json:"image_uri,omitempty"`
	Stage     Stage                     `json:"stage"`
	History   []oracle.Turn             `json:"history"`
	Question  *oracle.ContinueInterview `json:"question,omitempty"`
	Proposal  *schedule.Proposal        `json:"proposal,omitempty"`
	Turns     int                       `json:"turns"`
	MaxTurns  int                       `json:"max_turns"`
	Busy      bool                      `json:"busy"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

type Confirmation struct {
	Vision    *vision.Vision   `json:"vision"`
	Reminders reminder.Outcome `json:"reminders"`
}
