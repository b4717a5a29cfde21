package membermigrations

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
		fmt.Println("Creating identity and member profile tables...")

		_, err := db.ExecContext(ctx, `
			CREATE TABLE IF NOT EXISTS identities (
				id UUID PRIMARY KEY,
				email TEXT NOT NULL UNIQUE,
				password_hash TEXT NOT NULL,
				email_verified_at TIMESTAMPTZ,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS member_profiles (
				id UUID PRIMARY KEY REFERENCES identities(id),
				member_number TEXT NOT NULL,
				first_name TEXT NOT NULL,
				last_name TEXT NOT NULL,
				gender TEXT NOT NULL,
				citizen BOOLEAN NOT NULL DEFAULT FALSE,
				national_id TEXT NOT NULL,
				date_of_birth DATE NOT NULL,
				phone TEXT NOT NULL,
				alternate_phone TEXT,
				email TEXT NOT NULL,
				address_line1 TEXT NOT NULL DEFAULT '',
				address_line2 TEXT,
				city TEXT NOT NULL DEFAULT '',
				postal_code TEXT NOT NULL DEFAULT '',
				club TEXT NOT NULL DEFAULT '',
				emergency_name TEXT NOT NULL DEFAULT '',
				emergency_phone TEXT NOT NULL DEFAULT '',
				preferred_disciplines TEXT[] NOT NULL DEFAULT '{}',
				dominant_hand TEXT NOT NULL DEFAULT '',
				dominant_eye TEXT NOT NULL DEFAULT '',
				firearm_licence TEXT,
				role TEXT NOT NULL DEFAULT 'shooter',
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				CONSTRAINT member_profiles_member_number_key UNIQUE (member_number)
			);

			CREATE TABLE IF NOT EXISTS registration_drafts (
				token UUID PRIMARY KEY,
				form JSONB NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			);

			CREATE TABLE IF NOT EXISTS login_codes (
				code TEXT PRIMARY KEY,
				identity_id UUID NOT NULL REFERENCES identities(id),
				expires_at TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				used BOOLEAN NOT NULL DEFAULT FALSE,
				used_at TIMESTAMPTZ
			);

			CREATE TABLE IF NOT EXISTS refresh_tokens (
				hash TEXT PRIMARY KEY,
				identity_id UUID NOT NULL REFERENCES identities(id),
				token_family TEXT NOT NULL,
				expires_at TIMESTAMPTZ NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
				last_used_at TIMESTAMPTZ,
				revoked BOOLEAN NOT NULL DEFAULT FALSE,
				revoked_at TIMESTAMPTZ,
				revoked_by TEXT
			);

			CREATE INDEX IF NOT EXISTS idx_login_codes_identity ON login_codes(identity_id);
			CREATE INDEX IF NOT EXISTS idx_refresh_tokens_family ON refresh_tokens(token_family);
		`)
		if err != nil {
			return fmt.Errorf("failed to create member tables: %w", err)
		}

		fmt.Println("Member tables created successfully!")
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping member tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS refresh_tokens;
			DROP TABLE IF EXISTS login_codes;
			DROP TABLE IF EXISTS registration_drafts;
			DROP TABLE IF EXISTS member_profiles;
			DROP TABLE IF EXISTS identities;
		`)
		if err != nil {
			return fmt.Errorf("failed to drop member tables: %w", err)
		}
		return nil
	})
}
