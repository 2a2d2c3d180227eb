package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS feed_snapshot (
	user_id   TEXT NOT NULL,
	position  INTEGER NOT NULL,
	id        TEXT NOT NULL,
	type      TEXT NOT NULL,
	content   TEXT NOT NULL DEFAULT '',
	timestamp TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (user_id, position)
);

CREATE TABLE IF NOT EXISTS snapshot_meta (
	user_id    TEXT PRIMARY KEY,
	fetched_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_feed_snapshot_id ON feed_snapshot(id);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS submissions (
	id             TEXT PRIMARY KEY,
	type           TEXT NOT NULL,
	target_user_id TEXT NOT NULL,
	content        TEXT NOT NULL DEFAULT '',
	status_code    INTEGER NOT NULL DEFAULT 0,
	message        TEXT NOT NULL DEFAULT '',
	succeeded      INTEGER NOT NULL DEFAULT 0,
	submitted_at   DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_submissions_submitted_at
	ON submissions(submitted_at);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
