// This file reads the load order list.
package sqlite

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// ErrInvalidModKey is returned for load order entries that cannot name a
// file inside the data directory.
var ErrInvalidModKey = errors.New("invalid mod key")

// pluginEntry is one line of plugins.txt.
type pluginEntry struct {
	key     types.ModKey
	enabled bool
}

// readPluginsTxt parses a load order list, lowest priority first. A leading
// "*" marks an enabled mod; blank lines and lines starting with "#" are
// ignored. Repeated entries, compared without regard to case, keep their
// first position and spelling.
func readPluginsTxt(path string) ([]pluginEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var entries []pluginEntry
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		enabled := strings.HasPrefix(line, "*")
		key := types.ModKey(strings.TrimSpace(strings.TrimPrefix(line, "*")))
		if err := validateModKey(key); err != nil {
			return nil, err
		}
		folded := strings.ToLower(key.String())
		if seen[folded] {
			continue
		}
		seen[folded] = true
		entries = append(entries, pluginEntry{key: key, enabled: enabled})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", path, err)
	}
	return entries, nil
}

func validateModKey(key types.ModKey) error {
	s := key.String()
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidModKey, s)
	}
	return nil
}
