package export

import (
	"fmt"
	"io"
	"strings"

	"talent-match/internal/domain/matching"

	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet    = "Summary"
	CandidatesSheet = "Candidates"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var candidateHeaders = []string{
	"Rank", "Name", "Email", "Score", "Recommendation", "Shortlisted",
	"Skills", "Experience", "Education", "Resume",
	"Strengths", "Weaknesses", "Reasoning",
}

// WriteReport renders report as an XLSX workbook.
func WriteReport(w io.Writer, report matching.EvaluationReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return err
	}
	if _, err := f.NewSheet(CandidatesSheet); err != nil {
		return err
	}

	if err := writeSummary(f, report); err != nil {
		return fmt.Errorf("write summary sheet: %w", err)
	}
	if err := writeCandidates(f, report); err != nil {
		return fmt.Errorf("write candidates sheet: %w", err)
	}

	return f.Write(w)
}

func writeSummary(f *excelize.File, report matching.EvaluationReport) error {
	titleStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	labelStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}

	rows := [][]any{
		{"Job", report.JobTitle},
		{"Total candidates", report.TotalCandidates},
		{"Shortlisted", len(report.Shortlisted)},
		{"Not shortlisted", len(report.NotShortlisted)},
		{"Shortlist threshold", report.ShortlistThreshold},
		{},
		{"Weights"},
		{"Skills", report.CriteriaWeights.Skills},
		{"Experience", report.CriteriaWeights.Experience},
		{"Education", report.CriteriaWeights.Education},
		{"Resume", report.CriteriaWeights.Resume},
	}

	if err := f.SetCellValue(SummarySheet, "A1", "Evaluation Report"); err != nil {
		return err
	}
	if err := f.MergeCell(SummarySheet, "A1", "B1"); err != nil {
		return err
	}
	if err := f.SetCellStyle(SummarySheet, "A1", "B1", titleStyle); err != nil {
		return err
	}

	for i, r := range rows {
		row := i + 3
		if len(r) == 0 {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(SummarySheet, cell, &r); err != nil {
			return err
		}
		if err := f.SetCellStyle(SummarySheet, cell, cell, labelStyle); err != nil {
			return err
		}
	}

	return f.SetColWidth(SummarySheet, "A", "A", 22)
}

func writeCandidates(f *excelize.File, report matching.EvaluationReport) error {
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	shortlistStyle, err := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"C6EFCE"}, Pattern: 1},
	})
	if err != nil {
		return err
	}

	header := make([]any, len(candidateHeaders))
	for i, h := range candidateHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(CandidatesSheet, "A1", &header); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(CandidatesSheet, "A1", last, headerStyle); err != nil {
		return err
	}

	row := 2
	write := func(b matching.ScoreBreakdown, shortlisted bool) error {
		values := []any{
			row - 1,
			b.Name,
			b.Email,
			b.Score,
			string(b.Recommendation),
			yesNo(shortlisted),
			b.Components.Skills,
			b.Components.Experience,
			b.Components.Education,
			b.Components.Resume,
			strings.Join(b.Strengths, "; "),
			strings.Join(b.Weaknesses, "; "),
			b.Reasoning,
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(CandidatesSheet, start, &values); err != nil {
			return err
		}
		if shortlisted {
			end, _ := excelize.CoordinatesToCellName(len(values), row)
			if err := f.SetCellStyle(CandidatesSheet, start, end, shortlistStyle); err != nil {
				return err
			}
		}
		row++
		return nil
	}

	for _, b := range report.Shortlisted {
		if err := write(b, true); err != nil {
			return err
		}
	}
	for _, b := range report.NotShortlisted {
		if err := write(b, false); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(CandidatesSheet, "B", "C", 24); err != nil {
		return err
	}
	if err := f.SetColWidth(CandidatesSheet, "K", "M", 48); err != nil {
		return err
	}
	return f.SetPanes(CandidatesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
