// CLAUDE:SUMMARY SQLite schema for the decision log.
package decisionlog

// Schema is the decision log DDL, suitable for dbopen.WithSchema.
const Schema = `
CREATE TABLE IF NOT EXISTS decisions (
    id             TEXT PRIMARY KEY,
    candidate_id   TEXT NOT NULL UNIQUE,
    title          TEXT NOT NULL,
    strength       TEXT NOT NULL,
    category       TEXT NOT NULL,
    decision       TEXT NOT NULL,
    evidence_file  TEXT NOT NULL DEFAULT '',
    evidence_page  INTEGER NOT NULL DEFAULT 0,
    evidence_quote TEXT NOT NULL DEFAULT '',
    evidence_hint  TEXT NOT NULL DEFAULT '',
    tags           TEXT NOT NULL DEFAULT '[]',
    extract_score  INTEGER NOT NULL DEFAULT 0,
    impact         INTEGER NOT NULL,
    cost           INTEGER NOT NULL,
    risk           INTEGER NOT NULL,
    urgency        INTEGER NOT NULL,
    confidence     INTEGER NOT NULL,
    created_at     TEXT NOT NULL,
    updated_at     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_category ON decisions(category);
CREATE INDEX IF NOT EXISTS idx_decisions_created  ON decisions(created_at);
`
