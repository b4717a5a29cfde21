package scoreservice

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
)

// csvHeader is the fixed export column set.
var csvHeader = []string{
	"entry_number",
	"shooter_name",
	"member_number",
	"competition",
	"discipline",
	"stage",
	"score",
	"x_count",
	"v_count",
	"status",
	"submitted_at",
	"verified_at",
	"notes",
}

// ExportCSV writes the filtered scores as RFC 4180 CSV. A non-empty Filter.IDs
// exports only the selected rows; otherwise the whole filtered set goes out.
func (s *ScoreService) ExportCSV(ctx context.Context, filter scoredb.Filter, w io.Writer) error {
	_, err := withTelemetry(s, ctx, "ExportCSV", func(ctx context.Context) (struct{}, error) {
		rows, err := s.repo.ListExportRows(ctx, nil, filter)
		if err != nil {
			return struct{}{}, err
		}

		cw := csv.NewWriter(w)
		if err := cw.Write(csvHeader); err != nil {
			return struct{}{}, fmt.Errorf("failed to write csv header: %w", err)
		}

		for i := range rows {
			if err := cw.Write(csvRecord(&rows[i])); err != nil {
				return struct{}{}, fmt.Errorf("failed to write csv row: %w", err)
			}
		}

		cw.Flush()
		if err := cw.Error(); err != nil {
			return struct{}{}, fmt.Errorf("failed to flush csv: %w", err)
		}
		return struct{}{}, nil
	})
	return err
}

func csvRecord(row *scoredb.ExportRow) []string {
	return []string{
		strconv.Itoa(row.EntryNumber),
		row.FirstName + " " + row.LastName,
		row.MemberNumber,
		row.Competition,
		row.Discipline,
		row.Stage,
		scoreCell(row),
		strconv.Itoa(row.XCount),
		strconv.Itoa(row.VCount),
		string(row.Status()),
		row.SubmittedAt.UTC().Format(time.RFC3339),
		timestampCell(row.VerifiedAt),
		row.Notes,
	}
}

// scoreCell renders DNF/DQ instead of the number when either flag is set.
func scoreCell(row *scoredb.ExportRow) string {
	switch {
	case row.DQ:
		return "DQ"
	case row.DNF:
		return "DNF"
	default:
		return strconv.Itoa(row.Score)
	}
}

func timestampCell(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
