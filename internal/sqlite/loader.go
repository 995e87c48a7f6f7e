// This file implements loading mods into the index on Attach.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/loadpatch/pkg/types"
)

// loadMods reads every mod listed in entries from dataDir, decodes its
// records and inserts them into the index. Loading is transactional: all
// succeed or the database remains empty. Lines that do not decode to a
// known record are skipped. A listed mod without a file is recorded as
// not present.
func loadMods(db *sql.DB, dataDir string, entries []pluginEntry, logger *zap.Logger) (types.LoadOrder, error) {
	var lo types.LoadOrder

	tx, err := db.Begin()
	if err != nil {
		return lo, fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	modStmt, err := tx.Prepare("INSERT INTO mods (mod_key, priority, enabled, present) VALUES (?, ?, ?, ?)")
	if err != nil {
		return lo, fmt.Errorf("preparing insert for mods: %w", err)
	}
	defer modStmt.Close()

	recStmt, err := tx.Prepare("INSERT OR REPLACE INTO records (form_key, mod_key, record_type, editor_id, data) VALUES (?, ?, ?, ?, ?)")
	if err != nil {
		return lo, fmt.Errorf("preparing insert for records: %w", err)
	}
	defer recStmt.Close()

	for priority, entry := range entries {
		listing := types.ModListing{Key: entry.key, Enabled: entry.enabled}

		raw, err := readJSONL(modPath(dataDir, entry.key))
		switch {
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("mod listed without data", zap.Stringer("mod", entry.key))
		case err != nil:
			return lo, fmt.Errorf("reading %s: %w", entry.key, err)
		default:
			mod := types.NewMod(entry.key)
			for i, line := range raw {
				rec, err := types.UnmarshalRecord(line)
				if err != nil {
					logger.Warn("skipping malformed record",
						zap.Stringer("mod", entry.key), zap.Int("record", i), zap.Error(err))
					continue
				}
				if err := mod.AddRecord(rec); err != nil {
					return lo, err
				}
				if _, err := recStmt.Exec(rec.Key().String(), entry.key.String(), rec.RecordType(), nullString(rec.Editor()), string(line)); err != nil {
					return lo, fmt.Errorf("indexing %s from %s: %w", rec.Key(), entry.key, err)
				}
			}
			listing.Mod = mod
		}

		if _, err := modStmt.Exec(entry.key.String(), priority, entry.enabled, listing.Exists()); err != nil {
			return lo, fmt.Errorf("indexing mod %s: %w", entry.key, err)
		}
		lo.Listings = append(lo.Listings, listing)
	}

	if err := tx.Commit(); err != nil {
		return types.LoadOrder{}, fmt.Errorf("committing load transaction: %w", err)
	}
	return lo, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
