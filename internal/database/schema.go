package database

// schema.go creates the tables this service needs when they do not exist
// yet.  The DDL is shared between the MySQL deployment and the SQLite
// databases the tests run against; the only dialect difference is the
// auto-increment primary key column.

import (
	"context"
	"database/sql"
	"fmt"
)

// Dialect selects the DDL variant used by Migrate.
type Dialect string

const (
	DialectMySQL  Dialect = "mysql"
	DialectSQLite Dialect = "sqlite"
)

// serialPK returns the auto-increment primary key column definition for the
// dialect.
func serialPK(d Dialect) string {
	if d == DialectSQLite {
		return "INTEGER PRIMARY KEY AUTOINCREMENT"
	}
	return "BIGINT PRIMARY KEY AUTO_INCREMENT"
}

// Migrate creates all tables if they are missing.  Statements run one at a
// time so a failure reports the offending table.
func Migrate(ctx context.Context, db *sql.DB, d Dialect) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS participants (
			id         VARCHAR(255) PRIMARY KEY,
			name       VARCHAR(255) NOT NULL,
			created_at VARCHAR(32)  NOT NULL
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS registrations (
			id               %s,
			participant_id   VARCHAR(255) NOT NULL,
			participant_name VARCHAR(255) NOT NULL,
			activity         VARCHAR(100) NOT NULL,
			timeslot         VARCHAR(50)  NOT NULL,
			passphrase       VARCHAR(255) NOT NULL,
			created_at       VARCHAR(32)  NOT NULL,
			checked_in       INTEGER      NOT NULL DEFAULT 0,
			FOREIGN KEY (participant_id) REFERENCES participants (id),
			CONSTRAINT uq_registration_passphrase UNIQUE (passphrase),
			CONSTRAINT uq_participant_activity_timeslot UNIQUE (participant_id, activity, timeslot)
		)`, serialPK(d)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS competitive_games (
			id   %s,
			name VARCHAR(255) NOT NULL UNIQUE
		)`, serialPK(d)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS teams (
			id   %s,
			name VARCHAR(255) NOT NULL UNIQUE
		)`, serialPK(d)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS game_scores (
			id              %s,
			game_id         BIGINT      NOT NULL,
			team_id         BIGINT      NOT NULL,
			score           INTEGER     NOT NULL DEFAULT 0,
			last_updated_at VARCHAR(32) NOT NULL,
			FOREIGN KEY (game_id) REFERENCES competitive_games (id) ON DELETE CASCADE,
			FOREIGN KEY (team_id) REFERENCES teams (id) ON DELETE CASCADE,
			CONSTRAINT uq_game_team UNIQUE (game_id, team_id)
		)`, serialPK(d)),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_sessions (
			id         %s,
			subject    VARCHAR(255) NOT NULL,
			token_hash VARCHAR(64)  NOT NULL,
			expires_at VARCHAR(32)  NOT NULL,
			revoked_at VARCHAR(32),
			created_at VARCHAR(32)  NOT NULL
		)`, serialPK(d)),
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
