package pipeline

import (
	"encoding/json"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// ReportEntry lists the units one record received.
type ReportEntry struct {
	FormKey    types.FormKey  `json:"form_key"`
	EditorID   string         `json:"editor_id,omitempty"`
	RecordType string         `json:"record_type"`
	Units      []patcher.Unit `json:"units"`
}

// Skip describes a source record the pipeline could not process.
type Skip struct {
	FormKey  types.FormKey `json:"form_key"`
	EditorID string        `json:"editor_id,omitempty"`
	Reason   string        `json:"reason"`
}

// Report accumulates what a Base changed. Entries keep first-patch order.
// Only the pipeline mutates a Report; callers read it after Run.
type Report struct {
	id        string
	startedAt time.Time
	entries   map[types.FormKey]*ReportEntry
	order     []types.FormKey
	skipped   []Skip
	patches   int
}

// NewReport returns an empty report with a fresh UUID v7 identifier.
func NewReport() *Report {
	return &Report{
		id:        generateUUID(),
		startedAt: time.Now().UTC(),
		entries:   make(map[types.FormKey]*ReportEntry),
	}
}

// generateUUID generates a UUID v7, falling back to v4.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ID returns the report identifier.
func (r *Report) ID() string { return r.id }

// StartedAt returns when the report was created.
func (r *Report) StartedAt() time.Time { return r.startedAt }

// RecordCount returns the number of distinct records patched.
func (r *Report) RecordCount() int { return len(r.order) }

// UnitCount returns the number of units patched across all records.
func (r *Report) UnitCount() int {
	n := 0
	for _, e := range r.entries {
		n += len(e.Units)
	}
	return n
}

// PatchCount returns the number of Patch calls made. It exceeds RecordCount
// when several policies patch the same record.
func (r *Report) PatchCount() int { return r.patches }

// Entries returns a copy of every entry in first-patch order.
func (r *Report) Entries() []ReportEntry {
	out := make([]ReportEntry, 0, len(r.order))
	for _, key := range r.order {
		out = append(out, copyEntry(r.entries[key]))
	}
	return out
}

// Entry returns a copy of the entry for key.
func (r *Report) Entry(key types.FormKey) (ReportEntry, bool) {
	e, ok := r.entries[key]
	if !ok {
		return ReportEntry{}, false
	}
	return copyEntry(e), true
}

// Skipped returns the records that were skipped, in input order.
func (r *Report) Skipped() []Skip {
	return slices.Clone(r.skipped)
}

func copyEntry(e *ReportEntry) ReportEntry {
	cp := *e
	cp.Units = slices.Clone(e.Units)
	return cp
}

func (r *Report) add(rec types.Record, units []patcher.Unit) {
	r.patches++
	key := rec.Key()
	e, ok := r.entries[key]
	if !ok {
		e = &ReportEntry{FormKey: key, EditorID: rec.Editor(), RecordType: rec.RecordType()}
		r.entries[key] = e
		r.order = append(r.order, key)
	}
	e.Units = append(e.Units, units...)
}

func (r *Report) addSkip(rec types.Record, reason string) {
	r.skipped = append(r.skipped, Skip{FormKey: rec.Key(), EditorID: rec.Editor(), Reason: reason})
}

// reportJSON is the persisted form of a Report.
type reportJSON struct {
	ID        string        `json:"report_id"`
	StartedAt time.Time     `json:"started_at"`
	Records   int           `json:"records"`
	Units     int           `json:"units"`
	Patches   int           `json:"patches"`
	Entries   []ReportEntry `json:"entries"`
	Skipped   []Skip        `json:"skipped,omitempty"`
}

// MarshalJSON implements json.Marshaler.
func (r *Report) MarshalJSON() ([]byte, error) {
	return json.Marshal(reportJSON{
		ID:        r.id,
		StartedAt: r.startedAt,
		Records:   r.RecordCount(),
		Units:     r.UnitCount(),
		Patches:   r.patches,
		Entries:   r.Entries(),
		Skipped:   r.skipped,
	})
}
