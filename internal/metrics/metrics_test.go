package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/loadpatch/internal/pipeline"
	"github.com/mesh-intelligence/loadpatch/pkg/patcher"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// renamer sets every quest's name and reports one unit.
type renamer struct{}

func (renamer) Filter(*types.Quest) bool { return true }

func (renamer) Apply(*types.Quest) (string, error) { return "renamed", nil }

func (renamer) Patch(q *types.Quest, name string) ([]patcher.Unit, error) {
	q.Name = name
	return []patcher.Unit{{Name: "name"}}, nil
}

func runReport(t *testing.T) *pipeline.Report {
	t.Helper()
	b := pipeline.NewBase(types.NewMod("Patch.esp"))
	quests := []types.ModContext[*types.Quest]{
		types.NewModContext(&types.Quest{FormKey: types.NewFormKey(1, "Skyrim.esm")}, "Skyrim.esm"),
		types.NewModContext(&types.Quest{FormKey: types.NewFormKey(2, "Skyrim.esm")}, "Skyrim.esm"),
	}
	require.NoError(t, pipeline.NewTransform[*types.Quest, string](b).Run(renamer{}, quests))

	missing := []*types.Quest{{FormKey: types.NewFormKey(3, "Other.esp")}}
	_, err := pipeline.Resolve(b, types.NewMemoryLinkCache(types.LoadOrder{}), missing)
	require.NoError(t, err)
	return b.Report()
}

func TestObserve(t *testing.T) {
	r := NewRecorder()
	r.Observe(runReport(t))
	r.SetPlugins(2)

	assert.Equal(t, float64(2), testutil.ToFloat64(r.records.WithLabelValues(types.RecordTypeQuest)))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.units))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.patches))
	assert.Equal(t, float64(1), testutil.ToFloat64(r.skipped.WithLabelValues(pipeline.ReasonUnresolved)))
	assert.Equal(t, float64(2), testutil.ToFloat64(r.plugins))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(runReport(t))
	r.SetDuration(1500 * time.Millisecond)

	path := filepath.Join(t.TempDir(), "loadpatch.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.True(t, strings.Contains(text, `loadpatch_records_patched_total{record_type="quest"} 2`), text)
	assert.Contains(t, text, "loadpatch_run_duration_seconds 1.5")
}

func TestRecordersAreIndependent(t *testing.T) {
	a, b := NewRecorder(), NewRecorder()
	a.Observe(runReport(t))

	assert.Equal(t, float64(2), testutil.ToFloat64(a.units))
	assert.Equal(t, float64(0), testutil.ToFloat64(b.units))
}
