// Package job implements the quests-in-location job: it restores a
// location condition that a source mod adds to quest aliases whenever a
// later mod's override of the quest drops it.
package job

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/internal/matcher"
	"github.com/mesh-intelligence/loadpatch/internal/pipeline"
	"github.com/mesh-intelligence/loadpatch/internal/plugins"
	"github.com/mesh-intelligence/loadpatch/internal/quest"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// Settings errors.
var (
	ErrNoSourceMods = errors.New("job requires at least one source mod")
	ErrNoFormList   = errors.New("job requires a form list editor ID")
)

// Settings configures one job.
type Settings struct {
	// Name labels the job in logs.
	Name string `json:"name" yaml:"name"`

	// SourceMods are alternative versions of the source mod, most
	// preferred first.
	SourceMods []types.ModKey `json:"source_mods" yaml:"source_mods"`

	// FormList is the editor ID of the form list the condition refers to.
	FormList string `json:"form_list" yaml:"form_list"`

	// Match is an optional matcher expression. Empty means
	// matcher.DefaultExpression.
	Match string `json:"match,omitempty" yaml:"match,omitempty"`
}

// Validate checks that the settings can drive a run.
func (s Settings) Validate() error {
	if len(s.SourceMods) == 0 {
		return ErrNoSourceMods
	}
	if s.FormList == "" {
		return ErrNoFormList
	}
	return nil
}

// Job is a configured quests-in-location job.
type Job struct {
	settings Settings
}

// New validates s and returns a job.
func New(s Settings) (*Job, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.SourceMods = append([]types.ModKey(nil), s.SourceMods...)
	return &Job{settings: s}, nil
}

// Name returns the job name.
func (j *Job) Name() string { return j.settings.Name }

// Check fails with a *types.MissingModError when no source mod
// alternative is usable. Hosts call it before any patching.
func (j *Job) Check(lo types.LoadOrder) error {
	return lo.AssertListsAnyMod(j.settings.SourceMods)
}

// Run resolves the preferred source mod from the load order and runs the
// job against it.
func (j *Job) Run(state plugins.State) error {
	mod, err := state.LoadOrder.ResolvePluginVersion(j.settings.SourceMods)
	if err != nil {
		return err
	}
	return j.RunMod(mod, state)
}

// RunMod runs the job with mod as the source layer. Every quest in mod is
// resolved to its winning version and forwarded through state.Pipeline.
func (j *Job) RunMod(mod *types.Mod, state plugins.State) error {
	logger := state.Pipeline.Logger().With(zap.String("job", j.settings.Name), zap.Stringer("source", mod.ModKey))

	formList, ok := mod.FormListByEditorID(j.settings.FormList)
	if !ok {
		return fmt.Errorf("%w: %s in %s", types.ErrFormListNotFound, j.settings.FormList, mod.ModKey)
	}

	m, err := matcher.Compile(j.settings.Match, &formList.FormKey)
	if err != nil {
		return err
	}
	match := m.Func()

	quests := mod.Quests().All()
	canonical, err := quest.FindAliasCondition(quests, matcher.Canonical(match))
	if err != nil {
		return fmt.Errorf("%s: %w", mod.ModKey, err)
	}

	forwarder, err := quest.NewConditionForwarder(canonical, match, quest.WithLogger(logger))
	if err != nil {
		return err
	}

	report := state.Pipeline.Report()
	records, units := report.RecordCount(), report.UnitCount()

	err = pipeline.NewForward[*types.Quest, []uint32](state.Pipeline).RunSources(forwarder, state.LinkCache, quests)
	if err != nil {
		return err
	}

	logger.Info(fmt.Sprintf("patched %d aliases across %d quests",
		report.UnitCount()-units, report.RecordCount()-records))
	return nil
}

// Plugin adapts a job to the plugins registry: once activated it runs
// against the plugin's target mod.
type Plugin struct {
	job    *Job
	target *types.Mod
}

// Name implements plugins.Plugin.
func (p *Plugin) Name() string { return p.job.Name() }

// Run implements plugins.Plugin.
func (p *Plugin) Run(state plugins.State) error {
	return p.job.RunMod(p.target, state)
}

// Factory returns a plugin factory that runs a job built from s against
// the plugin's target mod. s.SourceMods is ignored.
func Factory(s Settings) (plugins.Factory, error) {
	if s.FormList == "" {
		return nil, ErrNoFormList
	}
	j := &Job{settings: s}
	return func(target *types.Mod) (plugins.Plugin, error) {
		return &Plugin{job: j, target: target}, nil
	}, nil
}
