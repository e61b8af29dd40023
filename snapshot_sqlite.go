package geostd

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLite snapshot layout. Row order (rowid) is load order.
const sqliteSnapshotSchema = `
CREATE TABLE IF NOT EXISTS countries (
	id           INTEGER NOT NULL,
	iso2         TEXT NOT NULL DEFAULT '',
	iso3         TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS states (
	id           INTEGER NOT NULL,
	code         TEXT NOT NULL DEFAULT '',
	iso3166_2    TEXT NOT NULL DEFAULT '',
	display_name TEXT NOT NULL,
	country_code TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS cities (
	code         TEXT NOT NULL,
	display_name TEXT NOT NULL,
	country_code TEXT NOT NULL DEFAULT '',
	state_code   TEXT NOT NULL DEFAULT '',
	country_id   INTEGER NOT NULL DEFAULT 0,
	state_id     INTEGER NOT NULL DEFAULT 0,
	country_name TEXT NOT NULL DEFAULT '',
	state_name   TEXT NOT NULL DEFAULT '',
	population   INTEGER NOT NULL DEFAULT 0,
	latitude     REAL,
	longitude    REAL
);
`

const (
	selectCountries = `SELECT id, iso2, iso3, display_name FROM countries ORDER BY rowid`
	selectStates    = `SELECT id, code, iso3166_2, display_name, country_code FROM states ORDER BY rowid`
	selectCities    = `SELECT code, display_name, country_code, state_code, country_id, state_id,
		country_name, state_name, population, latitude, longitude FROM cities ORDER BY rowid`
)

func openSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, eris.Wrap(err, "open sqlite")
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// ReadSQLiteSnapshot reads the three tables from a SQLite snapshot file.
func ReadSQLiteSnapshot(path string) (*Snapshot, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, missingTable("countries", err)
	}
	db, err := openSQLite(path)
	if err != nil {
		return nil, missingTable("countries", err)
	}
	defer db.Close()

	snap := &Snapshot{}
	if err := db.Select(&snap.Countries, selectCountries); err != nil {
		return nil, missingTable("countries", err)
	}
	if err := db.Select(&snap.States, selectStates); err != nil {
		return nil, missingTable("states", err)
	}
	if err := db.Select(&snap.Cities, selectCities); err != nil {
		return nil, missingTable("cities", err)
	}
	return snap, nil
}

// WriteSQLiteSnapshot stores snap in a SQLite file, creating the tables if
// needed. Rows are appended in snapshot order.
func WriteSQLiteSnapshot(path string, snap *Snapshot) error {
	if snap == nil {
		return eris.New("nil snapshot")
	}
	db, err := openSQLite(path)
	if err != nil {
		return err
	}
	defer db.Close()

	if _, err := db.Exec(sqliteSnapshotSchema); err != nil {
		return eris.Wrap(err, "create schema")
	}

	tx, err := db.Beginx()
	if err != nil {
		return eris.Wrap(err, "begin")
	}
	defer tx.Rollback()

	for _, c := range snap.Countries {
		if _, err := tx.NamedExec(`INSERT INTO countries (id, iso2, iso3, display_name)
			VALUES (:id, :iso2, :iso3, :display_name)`, c); err != nil {
			return eris.Wrapf(err, "insert country %d", c.ID)
		}
	}
	for _, s := range snap.States {
		if _, err := tx.NamedExec(`INSERT INTO states (id, code, iso3166_2, display_name, country_code)
			VALUES (:id, :code, :iso3166_2, :display_name, :country_code)`, s); err != nil {
			return eris.Wrapf(err, "insert state %d", s.ID)
		}
	}
	for _, c := range snap.Cities {
		if _, err := tx.NamedExec(`INSERT INTO cities (code, display_name, country_code, state_code,
			country_id, state_id, country_name, state_name, population, latitude, longitude)
			VALUES (:code, :display_name, :country_code, :state_code, :country_id, :state_id,
			:country_name, :state_name, :population, :latitude, :longitude)`, c); err != nil {
			return eris.Wrapf(err, "insert city %s", c.Code)
		}
	}
	return eris.Wrap(tx.Commit(), "commit")
}
