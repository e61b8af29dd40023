package geostd

import "github.com/rotisserie/eris"

var (
	// ErrMissingReferenceData is returned when a required snapshot table
	// is absent, unreadable, corrupt or empty. The engine cannot start
	// without all three tables.
	ErrMissingReferenceData = eris.New("missing reference data")

	// ErrInvalidConfig is returned for out-of-range configuration values.
	ErrInvalidConfig = eris.New("invalid config")
)

// missingTable wraps err (which may be nil) as ErrMissingReferenceData for
// the named table.
func missingTable(table string, err error) error {
	if err != nil {
		return eris.Wrapf(ErrMissingReferenceData, "%s table: %v", table, err)
	}
	return eris.Wrapf(ErrMissingReferenceData, "%s table is empty", table)
}
