package repository

import "github.com/juntape/junta/pkg/database"

// Migrations creates the schema in order. Names are recorded in
// _migrations, so entries must never be edited once released.
var Migrations = []database.Migration{
	{
		Name: "001_create_users",
		Up: `CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	},
	{
		Name: "002_create_sessions",
		Up: `CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			refresh_token TEXT NOT NULL UNIQUE,
			user_agent TEXT NOT NULL DEFAULT '',
			ip TEXT NOT NULL DEFAULT '',
			expires_at TIMESTAMPTZ NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
	},
	{
		Name: "003_create_events",
		Up: `CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			slug TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			subtitle TEXT,
			description TEXT,
			full_description TEXT,
			category TEXT NOT NULL,
			date TEXT,
			time TEXT,
			location TEXT,
			image TEXT,
			video_url TEXT,
			goal NUMERIC(12,2) NOT NULL DEFAULT 0,
			raised NUMERIC(12,2) NOT NULL DEFAULT 0,
			donors INTEGER NOT NULL DEFAULT 0,
			days_left INTEGER,
			status TEXT NOT NULL DEFAULT 'draft' CHECK (status IN ('draft', 'published', 'archived')),
			is_featured BOOLEAN NOT NULL DEFAULT FALSE,
			created_by UUID NOT NULL REFERENCES users(id),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			deleted_at TIMESTAMPTZ
		);
		CREATE INDEX IF NOT EXISTS idx_events_status ON events(status) WHERE deleted_at IS NULL;
		CREATE INDEX IF NOT EXISTS idx_events_created_by ON events(created_by)`,
	},
	{
		Name: "004_create_donations",
		Up: `CREATE TABLE IF NOT EXISTS donations (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL REFERENCES events(id),
			donor_id UUID NOT NULL REFERENCES users(id),
			amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
			currency TEXT NOT NULL DEFAULT 'PEN',
			method TEXT NOT NULL,
			status TEXT NOT NULL CHECK (status IN ('pending', 'succeeded', 'failed')),
			transaction_id TEXT,
			failure_reason TEXT,
			message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_donations_donor_id ON donations(donor_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_donations_event_id ON donations(event_id)`,
	},
}
