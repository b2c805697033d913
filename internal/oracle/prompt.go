package oracle

import (
	"encoding/json"
	"fmt"
)

const interviewPrompt = `You are a sarcastic life coach interviewing a user about their goal: "%s".

Your task: Get enough info to build them a rigid daily/weekly schedule.
You need: 1) Time they can dedicate, 2) Preferred time of day, 3) Why they want this.

History: %s

RULES:
- If you have enough info to build a schedule, respond ONLY with: {"final": true}
- Otherwise respond ONLY with valid JSON (no text before or after):
{"question": "Your sarcastic question here", "inputType": "text"}
- inputType may be "text", "select" (one option) or "chips" (several options); when it is "select" or "chips" include "options": ["..."].

RESPOND WITH JSON ONLY. NO TEXT, NO EXPLANATION.`

const schedulePrompt = `Create a schedule for the goal: "%s".
Based on this interview: %s

RESPOND WITH VALID JSON ONLY. NO TEXT BEFORE OR AFTER.
Use this exact format:
{
  "schedule": [
    {"type": "daily", "time": "08:00", "task": "Specific task", "activeDays": [0,1,2,3,4,5,6]}
  ],
  "motivations": ["Reason 1", "Reason 2"]
}

Notes:
- type: "daily" or "weekly"
- time: 24hr format "HH:mm"
- activeDays: 0=Sunday, 1=Monday, ..., 6=Saturday

RESPOND WITH JSON ONLY.`

const milestonesPrompt = `You are a cynical, sarcastic life coach who thinks the user is probably going to fail, but you are obligated to give them a plan anyway.
The user's goal is: "%s".

Generate a 12-month breakdown (Milestones) for this goal.
For each month, provide:
1. A concrete action (target).
2. A biting, sarcastic comment or reality check (snark) about why this is hard or why they might quit.

Return the response as a valid JSON array of objects with keys: "month" (e.g., "Month 1"), "target", "snark".
Do NOT wrap the JSON in markdown code blocks. Just return the JSON string.`

func historyJSON(history []Turn) string {
	if history == nil {
		history = []Turn{}
	}
	b, err := json.Marshal(history)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func BuildInterviewPrompt(goal string, history []Turn) string {
	return fmt.Sprintf(interviewPrompt, goal, historyJSON(history))
}

func BuildSchedulePrompt(goal string, history []Turn) string {
	return fmt.Sprintf(schedulePrompt, goal, historyJSON(history))
}

func BuildMilestonesPrompt(goal string) string {
	return fmt.Sprintf(milestonesPrompt, goal)
}
