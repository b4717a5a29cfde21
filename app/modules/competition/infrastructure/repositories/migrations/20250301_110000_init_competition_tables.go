package competitionmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating competition tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS competitions (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				venue TEXT NOT NULL DEFAULT '',
				starts_at TIMESTAMPTZ NOT NULL,
				ends_at TIMESTAMPTZ NOT NULL,
				registration_opens TIMESTAMPTZ NOT NULL,
				registration_closes TIMESTAMPTZ,
				capacity INTEGER,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS disciplines (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL UNIQUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS competition_disciplines (
				id UUID PRIMARY KEY,
				competition_id UUID NOT NULL REFERENCES competitions(id),
				discipline_id UUID NOT NULL REFERENCES disciplines(id),
				fee_open_cents BIGINT NOT NULL DEFAULT 0,
				fee_under_19_cents BIGINT NOT NULL DEFAULT 0,
				fee_under_25_cents BIGINT NOT NULL DEFAULT 0,
				fee_veteran_60_cents BIGINT NOT NULL DEFAULT 0,
				fee_veteran_70_cents BIGINT NOT NULL DEFAULT 0,
				max_entries INTEGER,
				CONSTRAINT competition_disciplines_pair_key UNIQUE (competition_id, discipline_id)
			);

			CREATE TABLE IF NOT EXISTS matches (
				id UUID PRIMARY KEY,
				competition_id UUID NOT NULL REFERENCES competitions(id),
				name TEXT NOT NULL,
				entry_fee_cents BIGINT NOT NULL DEFAULT 0,
				optional BOOLEAN NOT NULL DEFAULT FALSE
			);

			CREATE TABLE IF NOT EXISTS stages (
				id UUID PRIMARY KEY,
				competition_id UUID NOT NULL REFERENCES competitions(id),
				name TEXT NOT NULL,
				round_count INTEGER NOT NULL,
				distance_meters INTEGER NOT NULL DEFAULT 0,
				match_type TEXT NOT NULL DEFAULT '',
				max_score INTEGER NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS competition_registrations (
				id UUID PRIMARY KEY,
				member_id UUID NOT NULL REFERENCES member_profiles(id),
				competition_id UUID NOT NULL REFERENCES competitions(id),
				discipline_id UUID NOT NULL REFERENCES disciplines(id),
				match_ids UUID[] NOT NULL DEFAULT '{}',
				status TEXT NOT NULL DEFAULT 'pending',
				payment_status TEXT NOT NULL DEFAULT 'unpaid',
				entry_number INTEGER NOT NULL,
				squad_number INTEGER,
				target_number INTEGER,
				total_fee_cents BIGINT NOT NULL DEFAULT 0,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT competition_registrations_member_key UNIQUE (member_id, competition_id, discipline_id)
			);

			CREATE INDEX IF NOT EXISTS idx_registrations_competition ON competition_registrations(competition_id);
			CREATE INDEX IF NOT EXISTS idx_registrations_member ON competition_registrations(member_id);
			CREATE INDEX IF NOT EXISTS idx_stages_competition ON stages(competition_id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create competition tables: %w", err)
		}

		fmt.Println("Competition tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping competition tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS competition_registrations;
			DROP TABLE IF EXISTS stages;
			DROP TABLE IF EXISTS matches;
			DROP TABLE IF EXISTS competition_disciplines;
			DROP TABLE IF EXISTS disciplines;
			DROP TABLE IF EXISTS competitions;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop competition tables: %w", err)
		}
		return nil
	})
}
