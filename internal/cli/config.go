package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/loadpatch/internal/job"
	"github.com/mesh-intelligence/loadpatch/internal/paths"
	"github.com/mesh-intelligence/loadpatch/internal/plugins"
	"github.com/mesh-intelligence/loadpatch/pkg/sqlite"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	envPrefix      = "LOADPATCH"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyOutputDir  = "output_dir"
	cfgKeyPatchName  = "patch_name"
	cfgKeySourceMods = "source_mods"
	cfgKeyFormList   = "form_list"
	cfgKeyMatch      = "match"
	cfgKeyLogLevel   = "log_level"
	cfgKeyPlugins    = "plugins"
)

// Defaults for the bundled quests-in-location job.
const (
	defaultBackend   = types.BackendSQLite
	defaultPatchName = "loadpatch.esp"
	defaultFormList  = "SkyrimHoldsFList"
	defaultLogLevel  = "info"
	defaultJobName   = "quests-in-location"
)

var defaultSourceMods = []string{"QuestsAreInSkyrimUSSEP.esp", "QuestsAreInSkyrim.esp"}

// pluginConfig is one entry of the plugins list.
type pluginConfig struct {
	Name     string `mapstructure:"name" yaml:"name"`
	Sentinel string `mapstructure:"sentinel" yaml:"sentinel"`
	Target   string `mapstructure:"target" yaml:"target,omitempty"`
	FormList string `mapstructure:"form_list" yaml:"form_list"`
	Match    string `mapstructure:"match" yaml:"match,omitempty"`
}

// runConfig is the decoded configuration of a run.
type runConfig struct {
	Backend    string         `mapstructure:"backend"`
	DataDir    string         `mapstructure:"data_dir"`
	OutputDir  string         `mapstructure:"output_dir"`
	PatchName  string         `mapstructure:"patch_name"`
	SourceMods []string       `mapstructure:"source_mods"`
	FormList   string         `mapstructure:"form_list"`
	Match      string         `mapstructure:"match"`
	LogLevel   string         `mapstructure:"log_level"`
	Plugins    []pluginConfig `mapstructure:"plugins"`
}

// loadConfig reads config.yaml from configDir using Viper. A missing file
// is not an error; defaults apply. Scalar keys can be overridden with
// LOADPATCH_<KEY> environment variables.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyPatchName, defaultPatchName)
	v.SetDefault(cfgKeySourceMods, defaultSourceMods)
	v.SetDefault(cfgKeyFormList, defaultFormList)
	v.SetDefault(cfgKeyLogLevel, defaultLogLevel)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{cfgKeyBackend, cfgKeyPatchName, cfgKeySourceMods, cfgKeyFormList, cfgKeyMatch, cfgKeyLogLevel} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("read config %s: %w", filepath.Join(configDir, paths.ConfigFileName), err)
	}
	return v, nil
}

// decodeRunConfig unmarshals v into a runConfig.
func decodeRunConfig(v *viper.Viper) (runConfig, error) {
	var cfg runConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

// backendConfig returns the backend configuration for dataDir.
func (c runConfig) backendConfig(dataDir string) types.Config {
	return types.Config{
		Backend:  c.Backend,
		DataDir:  dataDir,
		PatchMod: types.ModKey(c.PatchName),
	}
}

// attach opens the configured backend over dataDir. The caller detaches it.
func (a *app) attach(c runConfig, dataDir string) (types.Backend, error) {
	config := c.backendConfig(dataDir)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("backend %q: %w", config.Backend, err)
	}
	backend := sqlite.NewBackend(a.logger)
	if err := backend.Attach(config); err != nil {
		return nil, fmt.Errorf("attach %s: %w", dataDir, err)
	}
	return backend, nil
}

// jobSettings returns the settings of the main job.
func (c runConfig) jobSettings() job.Settings {
	mods := make([]types.ModKey, len(c.SourceMods))
	for i, m := range c.SourceMods {
		mods[i] = types.ModKey(m)
	}
	return job.Settings{
		Name:       defaultJobName,
		SourceMods: mods,
		FormList:   c.FormList,
		Match:      c.Match,
	}
}

// registerPlugins adds every configured plugin to loader.
func (c runConfig) registerPlugins(loader *plugins.Loader) error {
	for _, p := range c.Plugins {
		factory, err := job.Factory(job.Settings{Name: p.Name, FormList: p.FormList, Match: p.Match})
		if err != nil {
			return fmt.Errorf("plugin %s: %w", p.Name, err)
		}
		data := plugins.PluginData{
			Name:     p.Name,
			Sentinel: types.ModKey(p.Sentinel),
			Target:   types.ModKey(p.Target),
		}
		if err := loader.Register(data, factory); err != nil {
			return err
		}
	}
	return nil
}
