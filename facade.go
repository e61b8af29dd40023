package geostd

import (
	"context"
	"maps"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Standardizer is the entry point of the ingestion pipeline. It resolves
// the geographic fields of records against one Store and writes the
// code/display pairs back. A Standardizer is safe for concurrent use.
type Standardizer struct {
	store    *Store
	resolver *Resolver
	cfg      Config
	log      *zap.Logger
}

// New returns a Standardizer over store.
//
// Example:
//
//	std, err := geostd.New(store, geostd.WithThresholds(90, 85, 80))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, _ := std.Standardize(geostd.Record{City: geostd.Some("Austin")}, nil)
func New(store *Store, opts ...Option) (*Standardizer, error) {
	if store == nil {
		return nil, eris.Wrap(ErrMissingReferenceData, "nil store")
	}
	o := buildOptions(opts)
	r, err := NewResolver(store, opts...)
	if err != nil {
		return nil, err
	}
	o.logger.Debug("standardizer ready",
		zap.Int("countryCorpus", r.fuzzy.CorpusSize(ClassCountry)),
		zap.Int("stateCorpus", r.fuzzy.CorpusSize(ClassState)),
		zap.Int("cityCorpus", r.fuzzy.CorpusSize(ClassCity)),
		zap.String("scorer", o.config.Scorer))
	return &Standardizer{store: store, resolver: r, cfg: o.config, log: o.logger}, nil
}

// Store returns the reference data the Standardizer resolves against.
func (s *Standardizer) Store() *Store {
	return s.store
}

// Config returns the effective configuration.
func (s *Standardizer) Config() Config {
	return s.cfg
}

// NewDiagnostics returns a collector sized by the configuration.
func (s *Standardizer) NewDiagnostics() *Diagnostics {
	return NewDiagnostics(s.cfg.MaxUnknownValues)
}

// Standardize resolves rec and returns a copy with its output fields set.
// Output fields of unresolved classes are nil, even if rec carried values
// in them. diag may be nil.
func (s *Standardizer) Standardize(rec Record, diag *Diagnostics) (Record, Resolution) {
	res := s.resolver.Resolve(rec)

	out := rec
	out.Extra = maps.Clone(rec.Extra)
	out.CountryCode, out.CountryDisplay = outputPair(res.Country)
	out.StateCode, out.StateDisplay = outputPair(res.State)
	out.CityCode, out.CityDisplay = outputPair(res.City)

	if diag != nil {
		diag.Observe(res)
	}
	return out, res
}

func outputPair(f FieldResolution) (code, display *string) {
	if !f.Resolved() {
		return nil, nil
	}
	c, d := f.Code, f.Display
	if d == "" {
		return &c, nil
	}
	return &c, &d
}

// StandardizeBatch standardizes recs across Config.Workers goroutines.
// Results are in input order. Each worker counts into its own Diagnostics,
// merged into diag once the batch completes; diag may be nil. The only
// error is ctx's, in which case no results are returned.
func (s *Standardizer) StandardizeBatch(ctx context.Context, recs []Record, diag *Diagnostics) ([]Record, []Resolution, error) {
	out := make([]Record, len(recs))
	res := make([]Resolution, len(recs))

	workers := min(max(s.cfg.Workers, 1), max(len(recs), 1))
	locals := make([]*Diagnostics, workers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		w := w // per-iteration copy; go.mod targets go1.21 loop semantics
		local := s.NewDiagnostics()
		locals[w] = local
		g.Go(func() error {
			for i := w; i < len(recs); i += workers {
				if err := ctx.Err(); err != nil {
					return err
				}
				out[i], res[i] = s.Standardize(recs[i], local)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if diag != nil {
		for _, local := range locals {
			diag.Merge(local)
		}
	}
	s.log.Debug("batch standardized", zap.Int("records", len(recs)), zap.Int("workers", workers))
	return out, res, nil
}
