// Tests for JSONL persistence.
package sqlite

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

func TestReadJSONL_SkipsBlankAndMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mixed.jsonl")
	data := "{\"a\":1}\n\n{broken\n{\"b\":2}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	records, err := readJSONL(path)
	if err != nil {
		t.Fatalf("readJSONL failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if string(records[1]) != `{"b":2}` {
		t.Errorf("unexpected second record %s", records[1])
	}
}

func TestWriteJSONL_LeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jsonl")
	if err := writeJSONL(path, []json.RawMessage{json.RawMessage(`{"a":1}`)}); err != nil {
		t.Fatalf("writeJSONL failed: %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "out.jsonl" {
		t.Errorf("expected only out.jsonl, got %v", entries)
	}
}

func TestBackend_WriteModRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeDataDir(t, dir, sampleLoadOrder, sampleMods())
	b := attach(t, dir, "Patch.esp")

	fl := types.NewFormKey(0x800, "Skyrim.esm")
	patch := types.NewMod("Patch.esp")
	patch.Quests().Set(&types.Quest{
		FormKey:  types.NewFormKey(0xD62, "Skyrim.esm"),
		EditorID: "DialogueQuest",
		Aliases: []*types.QuestAlias{{
			ID:   1,
			Name: "Target",
			Conditions: []*types.Condition{{
				Function: types.FunctionGetInCurrentLocFormList,
				Operator: "==",
				Value:    1,
				FormList: &fl,
			}},
		}},
	})

	out := filepath.Join(dir, "output")
	if err := b.WriteMod(out, patch); err != nil {
		t.Fatalf("WriteMod failed: %v", err)
	}

	raw, err := readJSONL(filepath.Join(out, "Patch.esp.jsonl"))
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if len(raw) != 1 {
		t.Fatalf("expected 1 record, got %d", len(raw))
	}
	rec, err := types.UnmarshalRecord(raw[0])
	if err != nil {
		t.Fatalf("UnmarshalRecord failed: %v", err)
	}
	got, ok := rec.(*types.Quest)
	if !ok {
		t.Fatalf("expected *types.Quest, got %T", rec)
	}
	if diff := cmp.Diff(patch.Quests().All()[0], got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestBackend_WriteModRejectsPathKeys(t *testing.T) {
	dir := t.TempDir()
	writeDataDir(t, dir, sampleLoadOrder, sampleMods())
	b := attach(t, dir, "")

	if err := b.WriteMod(dir, types.NewMod("../escape.esp")); err == nil {
		t.Error("expected error for mod key with path separator")
	}
}

type fakeReport struct {
	ID string `json:"report_id"`
}

func (r fakeReport) MarshalJSON() ([]byte, error) {
	return json.MarshalIndent(struct {
		ID string `json:"report_id"`
	}{r.ID}, "", "  ")
}

func TestBackend_SaveReportAppends(t *testing.T) {
	dir := t.TempDir()
	writeDataDir(t, dir, sampleLoadOrder, sampleMods())
	b := attach(t, dir, "")

	for _, id := range []string{"first", "second"} {
		if err := b.SaveReport(fakeReport{ID: id}); err != nil {
			t.Fatalf("SaveReport failed: %v", err)
		}
	}

	raw, err := readJSONL(filepath.Join(dir, reportsJSONL))
	if err != nil {
		t.Fatalf("reading reports: %v", err)
	}
	if len(raw) != 2 {
		t.Fatalf("expected 2 reports, got %d", len(raw))
	}
	var got fakeReport
	if err := json.Unmarshal(raw[1], &got); err != nil {
		t.Fatal(err)
	}
	if got.ID != "second" {
		t.Errorf("expected second report last, got %q", got.ID)
	}
}

func TestBackend_SaveReportKeepsExistingLines(t *testing.T) {
	dir := t.TempDir()
	writeDataDir(t, dir, sampleLoadOrder, sampleMods())
	path := filepath.Join(dir, reportsJSONL)
	if err := os.WriteFile(path, []byte("{\"report_id\":\"old\"}\n{truncated\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	b := attach(t, dir, "")

	if err := b.SaveReport(fakeReport{ID: "new"}); err != nil {
		t.Fatalf("SaveReport failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	want := "{\"report_id\":\"old\"}\n{truncated\n{\"report_id\":\"new\"}\n"
	if string(data) != want {
		t.Errorf("reports.jsonl = %q, want %q", data, want)
	}
}
