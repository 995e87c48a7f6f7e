package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/loadpatch/internal/paths"
	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Backend    string         `yaml:"backend"`
	DataDir    string         `yaml:"data_dir,omitempty"`
	PatchName  string         `yaml:"patch_name"`
	SourceMods []string       `yaml:"source_mods"`
	FormList   string         `yaml:"form_list"`
	LogLevel   string         `yaml:"log_level"`
	Plugins    []pluginConfig `yaml:"plugins,omitempty"`
}

const pluginsTxtTemplate = `# Load order, lowest priority first. Prefix enabled mods with "*".
# Each mod's records live next to this file as <ModKey>.jsonl.
`

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the configuration file and data directory",
		Long: "Write config.yaml with default settings and create the data directory\n" +
			"with an empty plugins.txt. Existing files are left untouched.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.dataDir()
			if err != nil {
				return err
			}

			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			configPath := filepath.Join(a.configDir, paths.ConfigFileName)
			if err := writeConfigIfMissing(configPath, dataDir); err != nil {
				return fmt.Errorf("write config: %w", err)
			}

			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return fmt.Errorf("create data directory: %w", err)
			}
			if err := writeFileIfMissing(filepath.Join(dataDir, "plugins.txt"), []byte(pluginsTxtTemplate)); err != nil {
				return fmt.Errorf("write load order: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized loadpatch\nconfig: %s\ndata:   %s\n", configPath, dataDir)
			return nil
		},
	}
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. If it already exists, the function returns nil.
func writeConfigIfMissing(path, dataDir string) error {
	cfg := configFile{
		Backend:    types.BackendSQLite,
		DataDir:    dataDir,
		PatchName:  defaultPatchName,
		SourceMods: defaultSourceMods,
		FormList:   defaultFormList,
		LogLevel:   defaultLogLevel,
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return writeFileIfMissing(path, data)
}

func writeFileIfMissing(path string, data []byte) error {
	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
