package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	regimenSheet = "Regimen"
	trackerSheet = "Tracker"
)

func RenderXLSX(w io.Writer, data PlanData) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", regimenSheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(trackerSheet); err != nil {
		return err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	if err := writeRegimen(f, data, bold); err != nil {
		return err
	}
	if err := writeTracker(f, data, bold); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	_, err = f.WriteTo(w)
	return err
}

func writeRegimen(f *excelize.File, data PlanData, bold int) error {
	rows := [][]any{
		{data.Title},
		{},
		{"Time", "Type", "Task", "Days"},
	}
	for _, item := range data.Items {
		rows = append(rows, []any{item.Time, string(item.Type), item.Task, dayList(item.ActiveDays)})
	}
	if len(data.Motivations) > 0 {
		rows = append(rows, []any{}, []any{"Why You're Doing This"})
		for _, m := range data.Motivations {
			rows = append(rows, []any{m})
		}
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(regimenSheet, cell, &row); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(regimenSheet, "A1", "A1", bold); err != nil {
		return err
	}
	if err := f.SetCellStyle(regimenSheet, "A3", "D3", bold); err != nil {
		return err
	}
	return f.SetColWidth(regimenSheet, "C", "C", 48)
}

// writeTracker lays out one row per task and one column per day of the
// 30-day tracker.
func writeTracker(f *excelize.File, data PlanData, bold int) error {
	header := []any{"Task"}
	for week, n := range trackerWeeks {
		for d := 1; d <= n; d++ {
			header = append(header, fmt.Sprintf("W%d D%d", week+1, d))
		}
	}
	if err := f.SetSheetRow(trackerSheet, "A1", &header); err != nil {
		return err
	}

	for i, item := range data.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(trackerSheet, cell, item.Task); err != nil {
			return err
		}
	}

	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(trackerSheet, "A1", last, bold)
}

func dayList(days []int) string {
	names := make([]string, 0, len(days))
	for _, d := range days {
		if d >= 0 && d < len(dayNames) {
			names = append(names, dayNames[d])
		}
	}
	return strings.Join(names, ", ")
}
