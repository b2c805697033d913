package schedule

type Cadence string

const (
	CadenceDaily  Cadence = "daily"
	CadenceWeekly Cadence = "weekly"
	CadenceCustom Cadence = "custom"
)

type Item struct {
	ID         string  `json:"id"`
	Type       Cadence `json:"type"`
	Time       string  `json:"time"`
	Task       string  `json:"task"`
	ActiveDays []int   `json:"active_days"`
}

// ActiveOn reports whether the item runs on weekday (0 = Sunday).
func (i Item) ActiveOn(weekday int) bool {
	for _, d := range i.ActiveDays {
		if d == weekday {
			return true
		}
	}
	return false
}

type Proposal struct {
	Items       []Item   `json:"schedule"`
	Motivations []string `json:"motivations"`
}
