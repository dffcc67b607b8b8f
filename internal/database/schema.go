package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is executed at startup. The CHECK constraints are a backstop;
// the repository's allocation transaction is what actually enforces the
// occupancy invariants.
const schema = `
CREATE TABLE IF NOT EXISTS rooms (
	room_number    INT PRIMARY KEY CHECK (room_number > 0),
	gender         TEXT NOT NULL CHECK (gender IN ('Male', 'Female')),
	total_capacity INT NOT NULL CHECK (total_capacity > 0),
	occupied_count INT NOT NULL DEFAULT 0
	               CHECK (occupied_count >= 0 AND occupied_count <= total_capacity),
	block          TEXT NOT NULL DEFAULT '',
	floor          TEXT NOT NULL DEFAULT '',
	location       TEXT NOT NULL DEFAULT '',
	created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_rooms_gender_occupancy
	ON rooms (gender, occupied_count);

CREATE TABLE IF NOT EXISTS participants (
	mhid              TEXT PRIMARY KEY,
	name              TEXT NOT NULL,
	gender            TEXT NOT NULL CHECK (gender IN ('Male', 'Female')),
	contact_number    TEXT NOT NULL,
	email             TEXT NOT NULL DEFAULT '',
	payment_status    TEXT NOT NULL DEFAULT 'Unpaid'
	                  CHECK (payment_status IN ('Paid', 'Unpaid')),
	allocation_status TEXT NOT NULL DEFAULT 'NotAllocated'
	                  CHECK (allocation_status IN ('Allocated', 'NotAllocated')),
	room_number       INT NULL REFERENCES rooms (room_number),
	allocated_by      TEXT NOT NULL DEFAULT '',
	created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CHECK ((allocation_status = 'Allocated') = (room_number IS NOT NULL))
);

CREATE INDEX IF NOT EXISTS idx_participants_room ON participants (room_number);
CREATE INDEX IF NOT EXISTS idx_participants_payment ON participants (payment_status);
CREATE INDEX IF NOT EXISTS idx_participants_allocation ON participants (allocation_status);

CREATE TABLE IF NOT EXISTS users (
	id            UUID PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	name          TEXT NOT NULL,
	role          TEXT NOT NULL CHECK (role IN ('ADMIN', 'COORDINATOR')),
	is_active     BOOLEAN NOT NULL DEFAULT TRUE,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
