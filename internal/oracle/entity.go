package oracle

type InputKind string

const (
	InputText           InputKind = "text"
	InputSingleChoice   InputKind = "single_choice"
	InputMultipleChoice InputKind = "multiple_choice"
	InputDate           InputKind = "date"
)

// Turn is one answered interview question. The short json keys are what the
// prompts embed as history.
type Turn struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// Step is the result of one interview round-trip: either ContinueInterview or
// CompleteInterview.
type Step interface {
	isStep()
}

type ContinueInterview struct {
	Question string    `json:"question"`
	Input    InputKind `json:"input_type"`
	Options  []string  `json:"options,omitempty"`
}

type CompleteInterview struct{}

func (ContinueInterview) isStep() {}
func (CompleteInterview) isStep() {}

type DraftItem struct {
	Type       string `json:"type"`
	Time       string `json:"time"`
	Task       string `json:"task"`
	ActiveDays []int  `json:"activeDays"`
}

type ScheduleDraft struct {
	Schedule    []DraftItem `json:"schedule"`
	Motivations []string    `json:"motivations"`
}

type MilestoneDraft struct {
	Month  string `json:"month"`
	Target string `json:"target"`
	Snark  string `json:"snark"`
}

// interviewPayload is the untyped shape the model is asked to emit.
type interviewPayload struct {
	Question  string   `json:"question"`
	InputType string   `json:"inputType"`
	Options   []string `json:"options"`
	Final     bool     `json:"final"`
}
