package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// OpenSQL abre una conexion database/sql. Con SQLite crea el esquema del
// almacen de respuestas si no existe; con Postgres asume el esquema de produccion.
func OpenSQL(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite"
		if dsn == "" {
			dsn = "file:vidaplena.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx"
		if dsn == "" {
			return nil, fmt.Errorf("postgres dsn is required")
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	conn, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if driver == DriverSQLite {
		// una sola conexion: con ":memory:" cada conexion es otra base
		conn.SetMaxOpenConns(1)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, err
	}
	if driver == DriverSQLite {
		if _, err := conn.ExecContext(ctx, SchemaSQLite); err != nil {
			conn.Close()
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
	}
	return conn, nil
}

// SchemaSQLite replica las tablas que lee el generador de reportes.
const SchemaSQLite = `
CREATE TABLE IF NOT EXISTS users (
  id INTEGER PRIMARY KEY,
  username TEXT NOT NULL UNIQUE,
  name TEXT,
  role TEXT NOT NULL DEFAULT 'client',
  password TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS tests (
  id INTEGER PRIMARY KEY,
  testname TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
  id INTEGER PRIMARY KEY,
  testid INTEGER NOT NULL REFERENCES tests(id),
  section INTEGER,
  chatype TEXT,
  dat_type TEXT
);

CREATE TABLE IF NOT EXISTS answeroptions (
  id INTEGER PRIMARY KEY,
  questionid INTEGER NOT NULL REFERENCES questions(id),
  answer TEXT,
  dat_info TEXT
);

CREATE TABLE IF NOT EXISTS testsanswers (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  clientid INTEGER NOT NULL,
  testid INTEGER NOT NULL,
  questionid INTEGER NOT NULL,
  answerid INTEGER,
  details TEXT
);

CREATE TABLE IF NOT EXISTS maci_key (
  questionid INTEGER NOT NULL,
  scale TEXT NOT NULL,
  scale_label TEXT,
  keyed_direction INTEGER NOT NULL,
  weight REAL NOT NULL DEFAULT 1
);
`
