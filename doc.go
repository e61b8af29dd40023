// Package geostd standardizes free-text country, state and city values
// into canonical codes and display names, using an in-memory reference
// snapshot.
//
// A Store is loaded once and shared. A Standardizer resolves each record
// city first, then country, then state. Each field is tried by exact
// lookup, then by fuzzy match, then by falling back to the geography of
// the resolved city:
//
//	store, err := geostd.Load("./snapshot")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	std, err := geostd.New(store)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	diag := std.NewDiagnostics()
//	out, _ := std.Standardize(geostd.Record{
//	    City:    geostd.Some("Rio de Janero"),
//	    Country: geostd.Some("Brazil"),
//	}, diag)
//
// Fields that cannot be resolved stay nil; Standardize never fails.
package geostd
