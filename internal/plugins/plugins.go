// Package plugins registers optional patch extensions that activate when
// the load order contains the mods they depend on.
package plugins

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/internal/pipeline"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// ErrDuplicatePlugin is returned when the same PluginData is registered twice.
var ErrDuplicatePlugin = errors.New("plugin already registered")

// PluginData identifies a plugin. Sentinel is the mod whose presence
// activates the plugin; Target is the mod whose data it uses. Target
// defaults to Sentinel.
type PluginData struct {
	Name     string       `json:"name" yaml:"name"`
	Sentinel types.ModKey `json:"sentinel" yaml:"sentinel"`
	Target   types.ModKey `json:"target,omitempty" yaml:"target,omitempty"`
}

// NewPluginData returns plugin data whose target is the sentinel itself.
func NewPluginData(name string, sentinel types.ModKey) PluginData {
	return PluginData{Name: name, Sentinel: sentinel, Target: sentinel}
}

func (d PluginData) target() types.ModKey {
	if d.Target.IsNull() {
		return d.Sentinel
	}
	return d.Target
}

// State is what a plugin sees when it runs: the same load order, link
// cache and pipeline base as the main job.
type State struct {
	LoadOrder types.LoadOrder
	LinkCache types.LinkCache
	Pipeline  *pipeline.Base
}

// Plugin is an activated extension.
type Plugin interface {
	Name() string
	Run(state State) error
}

// Factory creates a plugin from its target mod.
type Factory func(target *types.Mod) (Plugin, error)

type registration struct {
	data    PluginData
	factory Factory
}

// Loader holds registered plugins in registration order.
type Loader struct {
	registry []registration
	logger   *zap.Logger
}

// NewLoader returns an empty loader. A nil logger discards output.
func NewLoader(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{logger: logger}
}

// Register adds a plugin. Registering the same data twice fails.
func (l *Loader) Register(data PluginData, factory Factory) error {
	if factory == nil {
		return fmt.Errorf("register %s: nil factory", data.Name)
	}
	if data.Target.IsNull() {
		data.Target = data.Sentinel
	}
	for _, r := range l.registry {
		if r.data == data {
			return fmt.Errorf("%w: %s", ErrDuplicatePlugin, data.Name)
		}
	}
	l.registry = append(l.registry, registration{data: data, factory: factory})
	return nil
}

// Registered returns the data of every registered plugin.
func (l *Loader) Registered() []PluginData {
	out := make([]PluginData, len(l.registry))
	for i, r := range l.registry {
		out[i] = r.data
	}
	return out
}

// Scan creates every plugin whose sentinel is enabled in lo and whose
// target is enabled and present. A plugin with a present sentinel but no
// usable target is skipped with a warning.
func (l *Loader) Scan(lo types.LoadOrder) ([]Plugin, error) {
	var loaded []Plugin
	var names []string
	for _, r := range l.registry {
		if !lo.ModExists(r.data.Sentinel, true) {
			continue
		}
		target, ok := lo.TryGetIfEnabledAndExists(r.data.target())
		if !ok {
			l.logger.Warn(fmt.Sprintf("Found %s in load order, but not %s used by plugin: %s, skipping",
				r.data.Sentinel, r.data.target(), r.data.Name),
				zap.String("plugin", r.data.Name),
				zap.Stringer("sentinel", r.data.Sentinel),
				zap.Stringer("target", r.data.target()),
			)
			continue
		}
		p, err := r.factory(target)
		if err != nil {
			return nil, fmt.Errorf("create plugin %s: %w", r.data.Name, err)
		}
		loaded = append(loaded, p)
		names = append(names, p.Name())
	}
	l.logger.Info("loaded plugins", zap.Strings("plugins", names))
	return loaded, nil
}
