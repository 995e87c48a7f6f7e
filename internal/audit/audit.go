// Package audit renders line diffs between winning records and the
// overrides a run produced.
package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Line prefixes used in rendered diffs.
const (
	PrefixEqual  = "  "
	PrefixDelete = "- "
	PrefixInsert = "+ "
)

// RecordDiff is the diff of one override against its winning record.
type RecordDiff struct {
	FormKey  types.FormKey
	EditorID string
	// Lines holds the rendered diff, one prefixed line per entry.
	Lines []string
}

// Changed reports whether any line was inserted or deleted.
func (d RecordDiff) Changed() bool {
	for _, l := range d.Lines {
		if !strings.HasPrefix(l, PrefixEqual) {
			return true
		}
	}
	return false
}

// String joins the diff lines.
func (d RecordDiff) String() string {
	return strings.Join(d.Lines, "\n")
}

func render(r types.Record) (string, error) {
	data, err := types.MarshalRecord(r)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return "", err
	}
	buf.WriteByte('\n')
	return buf.String(), nil
}

// Diff compares the indented JSON forms of before and after line by line.
func Diff(before, after types.Record) (RecordDiff, error) {
	oldText, err := render(before)
	if err != nil {
		return RecordDiff{}, fmt.Errorf("render %s: %w", before.Key(), err)
	}
	newText, err := render(after)
	if err != nil {
		return RecordDiff{}, fmt.Errorf("render %s: %w", after.Key(), err)
	}

	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldText, newText)
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	out := RecordDiff{FormKey: after.Key(), EditorID: after.Editor()}
	for _, d := range diffs {
		prefix := PrefixEqual
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = PrefixDelete
		case diffmatchpatch.DiffInsert:
			prefix = PrefixInsert
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.Lines = append(out.Lines, prefix+strings.TrimSuffix(line, "\n"))
		}
	}
	return out, nil
}

// ModDiff diffs every record of patch against its winning version in
// cache. Records the cache cannot resolve are diffed against nothing and
// come out as pure insertions.
func ModDiff(cache types.LinkCache, patch *types.Mod) ([]RecordDiff, error) {
	var out []RecordDiff
	for _, rec := range patch.Records() {
		winning, _, err := cache.Lookup(rec.Key())
		if err != nil && !errors.Is(err, types.ErrNotFound) {
			return nil, err
		}
		if err != nil {
			text, rerr := render(rec)
			if rerr != nil {
				return nil, rerr
			}
			d := RecordDiff{FormKey: rec.Key(), EditorID: rec.Editor()}
			for _, line := range strings.Split(strings.TrimSuffix(text, "\n"), "\n") {
				d.Lines = append(d.Lines, PrefixInsert+line)
			}
			out = append(out, d)
			continue
		}
		d, err := Diff(winning, rec)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
