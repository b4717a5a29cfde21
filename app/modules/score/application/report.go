package scoreservice

import (
	"context"
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/xuri/excelize/v2"

	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
)

// BuildReport aggregates a competition's score statuses and registration counts.
func (s *ScoreService) BuildReport(ctx context.Context, competitionID uuid.UUID) (*Report, error) {
	return withTelemetry(s, ctx, "BuildReport", func(ctx context.Context) (*Report, error) {
		byStatus, err := s.repo.CountByStatus(ctx, nil, competitionID)
		if err != nil {
			return nil, err
		}
		perDiscipline, err := s.competitionRepo.CountRegistrationsPerDiscipline(ctx, nil, competitionID)
		if err != nil {
			return nil, err
		}
		total, err := s.competitionRepo.CountRegistrations(ctx, nil, competitionID)
		if err != nil {
			return nil, err
		}

		return &Report{
			CompetitionID:      competitionID,
			ScoresByStatus:     byStatus,
			PerDiscipline:      perDiscipline,
			TotalRegistrations: total,
		}, nil
	})
}

// ExportReportXLSX writes a two-sheet workbook: the score rows and the
// aggregate summary.
func (s *ScoreService) ExportReportXLSX(ctx context.Context, competitionID uuid.UUID, w io.Writer) error {
	_, err := withTelemetry(s, ctx, "ExportReportXLSX", func(ctx context.Context) (struct{}, error) {
		rows, err := s.repo.ListExportRows(ctx, nil, scoredb.Filter{CompetitionID: competitionID})
		if err != nil {
			return struct{}{}, err
		}
		report, err := s.BuildReport(ctx, competitionID)
		if err != nil {
			return struct{}{}, err
		}

		f := excelize.NewFile()
		defer f.Close()

		const scoresSheet = "Scores"
		f.SetSheetName("Sheet1", scoresSheet)

		for col, title := range csvHeader {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return struct{}{}, fmt.Errorf("failed to build header cell: %w", err)
			}
			if err := f.SetCellValue(scoresSheet, cell, title); err != nil {
				return struct{}{}, fmt.Errorf("failed to write header: %w", err)
			}
		}
		for i := range rows {
			record := csvRecord(&rows[i])
			for col, value := range record {
				cell, err := excelize.CoordinatesToCellName(col+1, i+2)
				if err != nil {
					return struct{}{}, fmt.Errorf("failed to build cell: %w", err)
				}
				if err := f.SetCellValue(scoresSheet, cell, value); err != nil {
					return struct{}{}, fmt.Errorf("failed to write row: %w", err)
				}
			}
		}

		const summarySheet = "Summary"
		if _, err := f.NewSheet(summarySheet); err != nil {
			return struct{}{}, fmt.Errorf("failed to create summary sheet: %w", err)
		}
		f.SetCellValue(summarySheet, "A1", "Total registrations")
		f.SetCellValue(summarySheet, "B1", report.TotalRegistrations)
		f.SetCellValue(summarySheet, "A2", "Pending scores")
		f.SetCellValue(summarySheet, "B2", report.ScoresByStatus[scoredb.ScorePending])
		f.SetCellValue(summarySheet, "A3", "Verified scores")
		f.SetCellValue(summarySheet, "B3", report.ScoresByStatus[scoredb.ScoreVerified])
		f.SetCellValue(summarySheet, "A4", "Rejected scores")
		f.SetCellValue(summarySheet, "B4", report.ScoresByStatus[scoredb.ScoreRejected])

		row := 6
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), "Registrations per discipline")
		for _, name := range sortedKeys(report.PerDiscipline) {
			row++
			f.SetCellValue(summarySheet, fmt.Sprintf("A%d", row), name)
			f.SetCellValue(summarySheet, fmt.Sprintf("B%d", row), report.PerDiscipline[name])
		}

		if _, err := f.WriteTo(w); err != nil {
			return struct{}{}, fmt.Errorf("failed to write workbook: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

// RenderDisciplineChart writes a PNG bar chart of registrations per discipline.
func (s *ScoreService) RenderDisciplineChart(ctx context.Context, competitionID uuid.UUID, w io.Writer) error {
	_, err := withTelemetry(s, ctx, "RenderDisciplineChart", func(ctx context.Context) (struct{}, error) {
		perDiscipline, err := s.competitionRepo.CountRegistrationsPerDiscipline(ctx, nil, competitionID)
		if err != nil {
			return struct{}{}, err
		}

		bars := make([]chart.Value, 0, len(perDiscipline))
		for _, name := range sortedKeys(perDiscipline) {
			bars = append(bars, chart.Value{
				Label: name,
				Value: float64(perDiscipline[name]),
			})
		}
		if len(bars) == 0 {
			bars = append(bars, chart.Value{Label: "none", Value: 0})
		}

		graph := chart.BarChart{
			Title:    "Registrations per discipline",
			Height:   512,
			BarWidth: 60,
			Bars:     bars,
		}
		if err := graph.Render(chart.PNG, w); err != nil {
			return struct{}{}, fmt.Errorf("failed to render chart: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
