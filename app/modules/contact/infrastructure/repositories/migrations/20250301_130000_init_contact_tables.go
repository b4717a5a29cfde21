package contactmigrations

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
		fmt.Println("Creating contact tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS contact_submissions (
				id UUID PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT,
				subject TEXT NOT NULL,
				message TEXT NOT NULL,
				unread BOOLEAN NOT NULL DEFAULT TRUE,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE INDEX IF NOT EXISTS idx_contact_unread ON contact_submissions(created_at) WHERE unread;
		`)
		if err != nil {
			return fmt.Errorf("failed to create contact tables: %w", err)
		}

		fmt.Println("Contact tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping contact tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS contact_submissions;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop contact tables: %w", err)
		}
		return nil
	})
}
