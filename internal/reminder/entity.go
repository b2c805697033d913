package reminder

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
)

type Platform string

const (
	PlatformAndroid Platform = "android"
	PlatformIOS     Platform = "ios"
)

func (p Platform) Valid() bool {
	return p == PlatformAndroid || p == PlatformIOS
}

type TriggerKind string

const (
	// TriggerInterval fires once after Seconds.
	TriggerInterval TriggerKind = "interval"
	// TriggerWeekly repeats on Weekday (1 = Sunday) at Hour:Minute.
	TriggerWeekly TriggerKind = "weekly"
)

type Trigger struct {
	Kind    TriggerKind `json:"kind"`
	Seconds int64       `json:"seconds,omitempty"`
	Repeats bool        `json:"repeats"`
	Weekday int         `json:"weekday,omitempty"`
	Hour    int         `json:"hour"`
	Minute  int         `json:"minute"`
}

// Reminder is one registered notification. Rows double as the delivery queue
// read by devices.
type Reminder struct {
	ID         uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	Owner      string      `gorm:"index;not null" json:"owner"`
	VisionID   string      `gorm:"index;not null" json:"vision_id"`
	ItemID     string      `json:"item_id"`
	Title      string      `json:"title"`
	Body       string      `json:"body"`
	Kind       TriggerKind `json:"kind"`
	Seconds    int64       `json:"seconds,omitempty"`
	Repeats    bool        `json:"repeats"`
	Weekday    int         `json:"weekday,omitempty"`
	Hour       int         `json:"hour"`
	Minute     int         `json:"minute"`
	FireAt     *time.Time  `json:"fire_at,omitempty"`
	ExternalID string      `json:"external_id,omitempty"`
	CreatedAt  time.Time   `json:"created_at"`
}

func (r *Reminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

func (r Reminder) Trigger() Trigger {
	return Trigger{
		Kind:    r.Kind,
		Seconds: r.Seconds,
		Repeats: r.Repeats,
		Weekday: r.Weekday,
		Hour:    r.Hour,
		Minute:  r.Minute,
	}
}

// Plan is the slice of a vision the scheduler needs. An empty Platform means
// the scheduler's default.
type Plan struct {
	Owner       string
	VisionID    string
	Platform    Platform
	Motivations []string
	Items       []schedule.Item
}

type Outcome struct {
	Scheduled        int  `json:"scheduled"`
	Skipped          int  `json:"skipped"`
	Errors           int  `json:"errors"`
	Disabled         bool `json:"disabled"`
	PermissionDenied bool `json:"permission_denied"`
}
