package scoremigrations

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
		fmt.Println("Creating score tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS scores (
				id UUID PRIMARY KEY,
				registration_id UUID NOT NULL REFERENCES competition_registrations(id),
				stage_id UUID NOT NULL REFERENCES stages(id),
				score INTEGER NOT NULL,
				x_count INTEGER NOT NULL DEFAULT 0,
				v_count INTEGER NOT NULL DEFAULT 0,
				dnf BOOLEAN NOT NULL DEFAULT FALSE,
				dq BOOLEAN NOT NULL DEFAULT FALSE,
				notes TEXT NOT NULL DEFAULT '',
				rejection_reason TEXT,
				submitted_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				submitted_by UUID NOT NULL,
				verified_at TIMESTAMPTZ,
				verified_by UUID,
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS score_status_history (
				id UUID PRIMARY KEY,
				score_id UUID NOT NULL REFERENCES scores(id),
				from_status TEXT NOT NULL,
				to_status TEXT NOT NULL,
				reason TEXT,
				actor_id UUID NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_scores_registration ON scores(registration_id);
			CREATE INDEX IF NOT EXISTS idx_scores_stage ON scores(stage_id);
			CREATE INDEX IF NOT EXISTS idx_scores_pending ON scores(verified_at) WHERE verified_at IS NULL;
			CREATE INDEX IF NOT EXISTS idx_score_history_score ON score_status_history(score_id);
		`)
		if err != nil {
			return fmt.Errorf("failed to create score tables: %w", err)
		}

		fmt.Println("Score tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping score tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS score_status_history;
			DROP TABLE IF EXISTS scores;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop score tables: %w", err)
		}
		return nil
	})
}
