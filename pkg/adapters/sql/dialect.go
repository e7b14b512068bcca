package sql

import (
	"strconv"
)

// Dialect captures the differences between the supported SQL databases.
type Dialect struct {
	// Name is the database/sql driver name.
	Name string

	schema      []string
	placeholder func(n int) string
}

// Postgres targets PostgreSQL through lib/pq.
var Postgres = Dialect{
	Name: "postgres",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS applications (
			id BIGSERIAL PRIMARY KEY,
			current_step TEXT NOT NULL,
			submitted INTEGER NOT NULL DEFAULT 0,
			age_bracket TEXT,
			gender_identity TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS application_competences (
			application_id BIGINT NOT NULL REFERENCES applications(id),
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (application_id, name)
		)`,
	},
	placeholder: func(n int) string { return "$" + strconv.Itoa(n) },
}

// SQLite targets a local database file through modernc.org/sqlite.
var SQLite = Dialect{
	Name: "sqlite",
	schema: []string{
		`CREATE TABLE IF NOT EXISTS applications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			current_step TEXT NOT NULL,
			submitted INTEGER NOT NULL DEFAULT 0,
			age_bracket TEXT,
			gender_identity TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS application_competences (
			application_id INTEGER NOT NULL REFERENCES applications(id),
			name TEXT NOT NULL,
			position INTEGER NOT NULL,
			PRIMARY KEY (application_id, name)
		)`,
	},
	placeholder: func(int) string { return "?" },
}

// DialectFor resolves a dialect by driver name.
func DialectFor(name string) (Dialect, bool) {
	switch name {
	case Postgres.Name, "postgresql":
		return Postgres, true
	case SQLite.Name, "sqlite3":
		return SQLite, true
	}
	return Dialect{}, false
}
