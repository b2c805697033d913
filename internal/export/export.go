package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"regexp"
	"strings"
	"time"

	"github.com/saulo-duarte/visionboard-lambda/internal/schedule"
	util "github.com/saulo-duarte/visionboard-lambda/internal/utils"
)

//go:embed templates/plan.html
var templateFS embed.FS

var planTemplate = template.Must(template.ParseFS(templateFS, "templates/plan.html"))

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// trackerWeeks covers 30 days: four full weeks plus two days.
var trackerWeeks = []int{7, 7, 7, 7, 2}

type PlanData struct {
	Title       string
	Motivations []string
	Items       []schedule.Item
	CreatedAt   time.Time
}

type Format string

const (
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

func ParseFormat(v string) (Format, error) {
	switch Format(strings.ToLower(v)) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported export format %q", v)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/html; charset=utf-8"
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives an attachment name from the plan title.
func Filename(title string, f Format) string {
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if slug == "" {
		slug = "vision"
	}
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	return fmt.Sprintf("%s-plan.%s", slug, f)
}

func Render(w io.Writer, f Format, data PlanData) error {
	if f == FormatXLSX {
		return RenderXLSX(w, data)
	}
	return RenderHTML(w, data)
}

type dayView struct {
	Initial string
	Active  bool
}

type itemView struct {
	Time string
	Type schedule.Cadence
	Task string
	Days []dayView
}

type weekView struct {
	Number  int
	Circles []struct{}
}

type pageView struct {
	Title        string
	CreatedLabel string
	Motivations  []string
	Items        []itemView
	Tracker      []weekView
}

func RenderHTML(w io.Writer, data PlanData) error {
	created := data.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	view := pageView{
		Title:        data.Title,
		CreatedLabel: created.In(util.Location()).Format("Monday, January 2, 2006"),
		Motivations:  data.Motivations,
	}
	for _, item := range data.Items {
		iv := itemView{Time: item.Time, Type: item.Type, Task: item.Task}
		for idx, name := range dayNames {
			iv.Days = append(iv.Days, dayView{Initial: name[:1], Active: item.ActiveOn(idx)})
		}
		view.Items = append(view.Items, iv)
	}
	for i, n := range trackerWeeks {
		view.Tracker = append(view.Tracker, weekView{Number: i + 1, Circles: make([]struct{}, n)})
	}

	return planTemplate.Execute(w, view)
}
