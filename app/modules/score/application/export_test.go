package scoreservice

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	competitiondb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/competition/infrastructure/repositories"
	scoredb "github.com/Protea-Shooting-Federation/psf-backend/app/modules/score/infrastructure/repositories"
)

func TestExportCSV(t *testing.T) {
	verifier := uuid.New()
	verifiedAt := time.Date(2026, time.June, 14, 9, 30, 0, 0, time.UTC)

	rows := []scoredb.ExportRow{
		{
			EntryNumber:  1,
			FirstName:    "Anna",
			LastName:     `Smith, "Junior"`,
			MemberNumber: "PSF10001",
			Competition:  "Free State Open",
			Discipline:   "Air Rifle",
			Stage:        "Stage 1",
			Score:        587,
			XCount:       12,
			VCount:       3,
			SubmittedAt:  time.Date(2026, time.June, 13, 16, 0, 0, 0, time.UTC),
			VerifiedAt:   &verifiedAt,
			VerifiedBy:   &verifier,
			Notes:        "clean run",
		},
		{
			EntryNumber:  2,
			FirstName:    "Pieter",
			LastName:     "Botha",
			MemberNumber: "PSF10002",
			Competition:  "Free State Open",
			Discipline:   "Air Rifle",
			Stage:        "Stage 1",
			Score:        0,
			DNF:          true,
			SubmittedAt:  time.Date(2026, time.June, 13, 16, 5, 0, 0, time.UTC),
		},
		{
			EntryNumber:  3,
			FirstName:    "Lindiwe",
			LastName:     "Dlamini",
			MemberNumber: "PSF10003",
			Competition:  "Free State Open",
			Discipline:   "Air Rifle",
			Stage:        "Stage 1",
			Score:        590,
			DQ:           true,
			SubmittedAt:  time.Date(2026, time.June, 13, 16, 10, 0, 0, time.UTC),
		},
	}

	var gotFilter scoredb.Filter
	repo := &scoredb.FakeRepository{
		ListExportRowsFn: func(ctx context.Context, db bun.IDB, filter scoredb.Filter) ([]scoredb.ExportRow, error) {
			gotFilter = filter
			return rows, nil
		},
	}
	svc := newTestService(repo, &competitiondb.FakeRepository{})

	var buf bytes.Buffer
	filter := scoredb.Filter{CompetitionID: uuid.New()}
	if err := svc.ExportCSV(context.Background(), filter, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	if gotFilter.CompetitionID != filter.CompetitionID {
		t.Errorf("filter passed to repository = %v, want %v", gotFilter.CompetitionID, filter.CompetitionID)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("records = %d, want header plus 3 rows", len(records))
	}
	if diff := cmp.Diff(csvHeader, records[0]); diff != "" {
		t.Errorf("header mismatch (-want +got):\n%s", diff)
	}

	first := records[1]
	if first[1] != `Anna Smith, "Junior"` {
		t.Errorf("shooter_name = %q, quoting was not round-tripped", first[1])
	}
	if first[6] != "587" {
		t.Errorf("score cell = %q, want 587", first[6])
	}
	if first[9] != "verified" {
		t.Errorf("status cell = %q, want verified", first[9])
	}
	if first[10] != "2026-06-13T16:00:00Z" {
		t.Errorf("submitted_at = %q, want RFC 3339 UTC", first[10])
	}
	if first[11] != "2026-06-14T09:30:00Z" {
		t.Errorf("verified_at = %q, want RFC 3339 UTC", first[11])
	}

	dnf := records[2]
	if dnf[6] != "DNF" {
		t.Errorf("DNF score cell = %q, want DNF", dnf[6])
	}
	if dnf[9] != "pending" {
		t.Errorf("DNF status = %q, want pending", dnf[9])
	}
	if dnf[11] != "" {
		t.Errorf("unverified verified_at = %q, want empty", dnf[11])
	}

	// DQ wins over the recorded number even when one exists.
	if records[3][6] != "DQ" {
		t.Errorf("DQ score cell = %q, want DQ", records[3][6])
	}
}

func TestExportCSVEmptySet(t *testing.T) {
	svc := newTestService(&scoredb.FakeRepository{}, &competitiondb.FakeRepository{})

	var buf bytes.Buffer
	if err := svc.ExportCSV(context.Background(), scoredb.Filter{}, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("records = %d, want header only", len(records))
	}
}
