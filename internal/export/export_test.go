package export_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/saulo-duarte/visionboard-lambda/internal/export"
	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
)

func samplePlan() export.PlanData {
	return export.PlanData{
		Title:       "Run a <Marathon>",
		Motivations: []string{"Because future-you is watching"},
		Items: []schedule.Item{
			{ID: "a", Type: schedule.CadenceDaily, Time: "06:00", Task: "Run 2 miles", ActiveDays: []int{1, 3, 5}},
			{ID: "b", Type: schedule.CadenceWeekly, Time: "09:00", Task: "Long run", ActiveDays: []int{6}},
		},
		CreatedAt: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}
}

func TestRenderHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.RenderHTML(&buf, samplePlan()))
	html := buf.String()

	assert.Contains(t, html, "Run a &lt;Marathon&gt;")
	assert.NotContains(t, html, "<Marathon>")
	assert.Contains(t, html, "Why You're Doing This")
	assert.Contains(t, html, "Because future-you is watching")
	assert.Contains(t, html, "Run 2 miles")
	assert.Equal(t, 2, strings.Count(html, `class="schedule-card"`))
	assert.Equal(t, 4, strings.Count(html, "day active"))
	assert.Equal(t, 30, strings.Count(html, `class="tracker-circle"`))
	assert.Contains(t, html, "Week 5")
}

func TestRenderHTMLWithoutScheduleStillHasTracker(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.RenderHTML(&buf, export.PlanData{Title: "Read more"}))

	assert.NotContains(t, buf.String(), "The Regimen")
	assert.Equal(t, 30, strings.Count(buf.String(), `class="tracker-circle"`))
}

func TestRenderXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.RenderXLSX(&buf, samplePlan()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Regimen", "Tracker"}, f.GetSheetList())

	title, err := f.GetCellValue("Regimen", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Run a <Marathon>", title)

	days, err := f.GetCellValue("Regimen", "D4")
	require.NoError(t, err)
	assert.Equal(t, "Mon, Wed, Fri", days)

	rows, err := f.GetRows("Tracker")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Len(t, rows[0], 31)
	assert.Equal(t, "Long run", rows[2][0])
}

func TestFilenameAndFormat(t *testing.T) {
	assert.Equal(t, "run-a-marathon-plan.html", export.Filename("Run a Marathon!", export.FormatHTML))
	assert.Equal(t, "vision-plan.xlsx", export.Filename("???", export.FormatXLSX))

	f, err := export.ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, export.FormatHTML, f)

	_, err = export.ParseFormat("pdf")
	assert.Error(t, err)
}
