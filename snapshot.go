package geostd

import (
	"bytes"
	"compress/bzip2"
	"encoding/gob"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
)

// Snapshot is the logical content of a reference snapshot: the three
// tables, each in load order.
type Snapshot struct {
	Countries []Country
	States    []State
	Cities    []City
}

// Snapshot file names inside a snapshot directory. Each may also be stored
// bzip2-compressed with a ".bz2" suffix.
const (
	countriesFile = "countries.dmp"
	statesFile    = "states.dmp"
	citiesFile    = "cities.dmp"
)

// ReadSnapshot decodes a gob snapshot directory. Any missing or corrupt
// table fails the whole read with ErrMissingReferenceData.
func ReadSnapshot(dir string) (*Snapshot, error) {
	snap := &Snapshot{}
	if err := decodeTable(dir, countriesFile, &snap.Countries); err != nil {
		return nil, missingTable("countries", err)
	}
	if err := decodeTable(dir, statesFile, &snap.States); err != nil {
		return nil, missingTable("states", err)
	}
	if err := decodeTable(dir, citiesFile, &snap.Cities); err != nil {
		return nil, missingTable("cities", err)
	}
	return snap, nil
}

func decodeTable(dir, name string, v any) error {
	r, cleanup, err := openOptionallyBzippedFile(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer cleanup()

	if err := gob.NewDecoder(r).Decode(v); err != nil {
		return eris.Wrapf(err, "decoding %s", name)
	}
	return nil
}

// openOptionallyBzippedFile prefers file+".bz2" and falls back to the
// uncompressed file.
func openOptionallyBzippedFile(file string) (io.Reader, func() error, error) {
	fh, err := os.Open(file + ".bz2")
	if err != nil {
		fh, err = os.Open(file)
		if err != nil {
			return nil, nil, eris.Wrapf(err, "opening %s", file)
		}
		return fh, fh.Close, nil
	}
	return bzip2.NewReader(fh), fh.Close, nil
}

// WriteSnapshot stores snap as an uncompressed gob snapshot directory
// readable by ReadSnapshot. Compress the files afterwards with
//
//	bzip2 -f DIR/*.dmp
func WriteSnapshot(dir string, snap *Snapshot) error {
	if snap == nil {
		return eris.New("nil snapshot")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return eris.Wrap(err, "creating snapshot directory")
	}

	tables := []struct {
		name string
		v    any
	}{
		{countriesFile, snap.Countries},
		{statesFile, snap.States},
		{citiesFile, snap.Cities},
	}
	for _, t := range tables {
		b := new(bytes.Buffer)
		if err := gob.NewEncoder(b).Encode(t.v); err != nil {
			return eris.Wrapf(err, "encoding %s", t.name)
		}
		if err := os.WriteFile(filepath.Join(dir, t.name), b.Bytes(), 0644); err != nil {
			return eris.Wrapf(err, "writing %s", t.name)
		}
	}
	return nil
}

// isSQLiteLocation reports whether a snapshot location names a SQLite
// database file rather than a gob directory.
func isSQLiteLocation(location string) bool {
	switch strings.ToLower(filepath.Ext(location)) {
	case ".db", ".sqlite", ".sqlite3":
		return true
	}
	return false
}

// readSnapshotAt dispatches on the location kind.
func readSnapshotAt(location string) (*Snapshot, error) {
	if isSQLiteLocation(location) {
		return ReadSQLiteSnapshot(location)
	}
	return ReadSnapshot(location)
}

// ReadSnapshotAt reads the snapshot at location, a gob directory or a
// SQLite file.
func ReadSnapshotAt(location string) (*Snapshot, error) {
	return readSnapshotAt(location)
}

// WriteSnapshotAt writes snap to a gob directory or, for a .db, .sqlite or
// .sqlite3 location, a SQLite file.
func WriteSnapshotAt(location string, snap *Snapshot) error {
	if isSQLiteLocation(location) {
		return WriteSQLiteSnapshot(location, snap)
	}
	return WriteSnapshot(location, snap)
}
