package sqlite

// Schema DDL. The index is rebuilt from the data directory on every Attach.
const (
	createMods = `CREATE TABLE mods (
    mod_key TEXT PRIMARY KEY,
    priority INTEGER NOT NULL,
    enabled INTEGER NOT NULL,
    present INTEGER NOT NULL
);`

	createRecords = `CREATE TABLE records (
    form_key TEXT NOT NULL,
    mod_key TEXT NOT NULL,
    record_type TEXT NOT NULL,
    editor_id TEXT,
    data TEXT NOT NULL,
    PRIMARY KEY (form_key, mod_key),
    FOREIGN KEY (mod_key) REFERENCES mods(mod_key)
);`
)

// Index DDL for lookups.
const (
	idxRecordsFormKey  = `CREATE INDEX idx_records_form_key ON records(form_key);`
	idxRecordsEditorID = `CREATE INDEX idx_records_editor_id ON records(editor_id);`
	idxModsPriority    = `CREATE INDEX idx_mods_priority ON mods(priority);`
)

// schemaDDL lists all CREATE TABLE statements in dependency order.
var schemaDDL = []string{
	createMods,
	createRecords,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxRecordsFormKey,
	idxRecordsEditorID,
	idxModsPriority,
}

// lookupWinning selects the highest-priority enabled version of a record.
const lookupWinning = `SELECT r.mod_key, r.data
FROM records r
JOIN mods m ON m.mod_key = r.mod_key
WHERE r.form_key = ? AND m.enabled = 1
ORDER BY m.priority DESC
LIMIT 1`
