package oracle

const (
	confusedQuestion = "I got confused. What exactly do you want to achieve?"
	failedQuestion   = "Failed to think. Just tell me what you want."
)

func FallbackQuestion() ContinueInterview {
	return ContinueInterview{Question: confusedQuestion, Input: InputText}
}

func providerFailureQuestion() ContinueInterview {
	return ContinueInterview{Question: failedQuestion, Input: InputText}
}

func FallbackSchedule() ScheduleDraft {
	return ScheduleDraft{
		Schedule: []DraftItem{
			{Type: "daily", Time: "08:00", Task: "Work on your goal", ActiveDays: []int{1, 2, 3, 4, 5}},
		},
		Motivations: []string{"Because you said so"},
	}
}

func providerFailureSchedule() ScheduleDraft {
	return ScheduleDraft{
		Schedule: []DraftItem{
			{Type: "daily", Time: "08:00", Task: "Do the thing", ActiveDays: []int{0, 1, 2, 3, 4, 5, 6}},
		},
		Motivations: []string{"Because you said so"},
	}
}

func FallbackMilestones() []MilestoneDraft {
	return []MilestoneDraft{
		{Month: "Month 1", Target: "Start trying (maybe)", Snark: "This is the easy part."},
		{Month: "Month 2", Target: "Don't quit yet", Snark: "Most people give up by now. Following the trend?"},
		{Month: "Month 3", Target: "Actually do something", Snark: "Shocking you made it this far."},
	}
}
