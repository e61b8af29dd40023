package geostd

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Counter labels that are not outcomes.
const (
	// LabelUnknown counts fields whose input text resolved to nothing.
	LabelUnknown = "unknown"
	// LabelAbsent counts fields with no input and no fallback value.
	LabelAbsent = "absent"
)

// Diagnostics accumulates per-class outcome counters and the distinct raw
// values that could not be resolved. It is observational only and safe
// for concurrent use. Batch workers each use their own Diagnostics and
// Merge them at the end.
type Diagnostics struct {
	mu         sync.Mutex
	runID      string
	started    time.Time
	maxUnknown int
	records    int
	counts     [3]map[string]int
	unknown    [3]map[string]struct{}
	dropped    [3]int
}

// NewDiagnostics returns an empty collector keeping at most maxUnknown
// distinct unknown values per class. Values past the cap are counted as
// dropped.
func NewDiagnostics(maxUnknown int) *Diagnostics {
	d := &Diagnostics{
		runID:      uuid.NewString(),
		started:    time.Now().UTC(),
		maxUnknown: max(maxUnknown, 0),
	}
	for i := range d.counts {
		d.counts[i] = make(map[string]int)
		d.unknown[i] = make(map[string]struct{})
	}
	return d
}

// label returns the counter a field resolution falls under.
func label(f FieldResolution) string {
	if f.Outcome != Unresolved {
		return f.Outcome.String()
	}
	if f.Raw != "" {
		return LabelUnknown
	}
	return LabelAbsent
}

// Observe records the outcome of one record.
func (d *Diagnostics) Observe(res Resolution) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.records++
	for _, class := range Classes {
		f := res.Field(class)
		l := label(f)
		d.counts[class][l]++
		if l == LabelUnknown {
			d.addUnknown(class, strings.TrimSpace(f.Raw))
		}
	}
}

func (d *Diagnostics) addUnknown(class Class, raw string) {
	if _, ok := d.unknown[class][raw]; ok {
		return
	}
	if len(d.unknown[class]) >= d.maxUnknown {
		d.dropped[class]++
		return
	}
	d.unknown[class][raw] = struct{}{}
}

// Merge adds the counters and unknown values of other into d.
func (d *Diagnostics) Merge(other *Diagnostics) {
	if other == nil || other == d {
		return
	}
	other.mu.Lock()
	records := other.records
	var counts [3]map[string]int
	var unknown [3][]string
	var dropped [3]int
	for i := range other.counts {
		counts[i] = make(map[string]int, len(other.counts[i]))
		for k, v := range other.counts[i] {
			counts[i][k] = v
		}
		for v := range other.unknown[i] {
			unknown[i] = append(unknown[i], v)
		}
		sort.Strings(unknown[i])
		dropped[i] = other.dropped[i]
	}
	other.mu.Unlock()

	d.mu.Lock()
	defer d.mu.Unlock()
	d.records += records
	for i := range counts {
		for k, v := range counts[i] {
			d.counts[i][k] += v
		}
		for _, v := range unknown[i] {
			d.addUnknown(Class(i), v)
		}
		d.dropped[i] += dropped[i]
	}
}

// Count returns the counter for class under label, which is an outcome
// name, LabelUnknown or LabelAbsent.
func (d *Diagnostics) Count(class Class, label string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.counts[class][label]
}

// Report is a point-in-time view of a Diagnostics.
type Report struct {
	RunID       string                 `json:"runId"`
	StartedAt   time.Time              `json:"startedAt"`
	GeneratedAt time.Time              `json:"generatedAt"`
	Records     int                    `json:"records"`
	Classes     map[string]ClassReport `json:"classes"`
}

// ClassReport holds the counters of one entity class.
type ClassReport struct {
	Counts         map[string]int `json:"counts"`
	Unknown        []string       `json:"unknown"`
	UnknownDropped int            `json:"unknownDropped"`
}

// Report snapshots the collector. Every outcome label appears in Counts,
// zero or not, and Unknown is sorted.
func (d *Diagnostics) Report() Report {
	d.mu.Lock()
	defer d.mu.Unlock()

	r := Report{
		RunID:       d.runID,
		StartedAt:   d.started,
		GeneratedAt: time.Now().UTC(),
		Records:     d.records,
		Classes:     make(map[string]ClassReport, len(Classes)),
	}
	for _, class := range Classes {
		counts := make(map[string]int, len(Outcomes)+1)
		for _, o := range Outcomes {
			if o != Unresolved {
				counts[o.String()] = d.counts[class][o.String()]
			}
		}
		counts[LabelUnknown] = d.counts[class][LabelUnknown]
		counts[LabelAbsent] = d.counts[class][LabelAbsent]

		unknown := make([]string, 0, len(d.unknown[class]))
		for v := range d.unknown[class] {
			unknown = append(unknown, v)
		}
		sort.Strings(unknown)

		r.Classes[class.String()] = ClassReport{
			Counts:         counts,
			Unknown:        unknown,
			UnknownDropped: d.dropped[class],
		}
	}
	return r
}
