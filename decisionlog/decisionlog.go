// CLAUDE:SUMMARY Decision log service: promote, list, get, rescore, delete over SQLite.
// Package decisionlog persists reviewed decision candidates with their
// score variables.
//
// The review flow promotes a subset of extracted candidates into the log,
// attaching Impact/Cost/Risk/Urgency/Confidence. Derived metrics (Return,
// Pressure, Stability, D-NAV) are recomputed on read, never stored.
//
// Usage:
//
//	db, _ := dbopen.Open("dnav.db", dbopen.WithSchema(decisionlog.Schema))
//	log := decisionlog.New(db, decisionlog.Config{})
//	entry, err := log.Promote(ctx, candidate, vars)
package decisionlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hazyhaar/dnav/dbopen"
	"github.com/hazyhaar/dnav/distill"
	"github.com/hazyhaar/dnav/idgen"
)

// Config configures the decision log service.
type Config struct {
	// IDs generates entry ids. Default: "dec_"-prefixed UUIDv7.
	IDs idgen.Generator

	// Logger for debug messages.
	Logger *slog.Logger

	// Now supplies timestamps; overridable in tests.
	Now func() time.Time
}

func (c *Config) defaults() {
	if c.IDs == nil {
		c.IDs = idgen.Prefixed("dec_", idgen.UUIDv7())
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Now == nil {
		c.Now = time.Now
	}
}

// Service is the decision log, backed by SQLite.
type Service struct {
	db     *sql.DB
	ids    idgen.Generator
	logger *slog.Logger
	now    func() time.Time
}

// New creates a Service on an open database. The caller applies Schema
// (typically via dbopen.WithSchema).
func New(db *sql.DB, cfg Config) *Service {
	cfg.defaults()
	return &Service{
		db:     db,
		ids:    cfg.IDs,
		logger: cfg.Logger,
		now:    cfg.Now,
	}
}

// Promote inserts an extracted candidate into the log with the reviewer's
// score variables. Promoting the same candidate id twice returns
// ErrDuplicate.
func (s *Service) Promote(ctx context.Context, cand distill.Candidate, vars ScoreVars) (*Entry, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	if cand.ID == "" {
		return nil, fmt.Errorf("decisionlog: candidate has no id")
	}

	tags, err := json.Marshal(cand.Tags)
	if err != nil {
		return nil, fmt.Errorf("decisionlog: encode tags: %w", err)
	}
	now := s.now().UTC()
	entry := &Entry{
		ID:           s.ids(),
		CandidateID:  cand.ID,
		Title:        cand.Title,
		Strength:     cand.Strength,
		Category:     cand.Category,
		Decision:     cand.Decision,
		Evidence:     cand.Evidence,
		Tags:         cand.Tags,
		ExtractScore: cand.Score,
		Vars:         vars,
		Metrics:      Compute(vars),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = dbopen.RunTx(ctx, s.db, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx,
			`SELECT 1 FROM decisions WHERE candidate_id = ?`, cand.ID).Scan(&exists)
		switch {
		case err == nil:
			return ErrDuplicate
		case !errors.Is(err, sql.ErrNoRows):
			return fmt.Errorf("decisionlog: check duplicate: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO decisions (
				id, candidate_id, title, strength, category, decision,
				evidence_file, evidence_page, evidence_quote, evidence_hint,
				tags, extract_score,
				impact, cost, risk, urgency, confidence,
				created_at, updated_at
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			entry.ID, entry.CandidateID, entry.Title, string(entry.Strength),
			string(entry.Category), entry.Decision,
			entry.Evidence.File, entry.Evidence.Page, entry.Evidence.Quote,
			entry.Evidence.LocationHint,
			string(tags), entry.ExtractScore,
			vars.Impact, vars.Cost, vars.Risk, vars.Urgency, vars.Confidence,
			now.Format(time.RFC3339Nano), now.Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("decisionlog: insert: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("candidate promoted", "entry", entry.ID, "candidate", cand.ID)
	return entry, nil
}

// List returns all entries, newest first.
func (s *Service) List(ctx context.Context) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		selectColumns+` FROM decisions ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("decisionlog: list: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("decisionlog: list: %w", err)
	}
	return entries, nil
}

// Get returns one entry by id.
func (s *Service) Get(ctx context.Context, id string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		selectColumns+` FROM decisions WHERE id = ?`, id)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return e, err
}

// Rescore replaces the score variables of an entry; the derived metrics
// follow automatically.
func (s *Service) Rescore(ctx context.Context, id string, vars ScoreVars) (*Entry, error) {
	if err := vars.Validate(); err != nil {
		return nil, err
	}
	res, err := dbopen.Exec(ctx, s.db, `
		UPDATE decisions
		SET impact = ?, cost = ?, risk = ?, urgency = ?, confidence = ?, updated_at = ?
		WHERE id = ?`,
		vars.Impact, vars.Cost, vars.Risk, vars.Urgency, vars.Confidence,
		s.now().UTC().Format(time.RFC3339Nano), id)
	if err != nil {
		return nil, fmt.Errorf("decisionlog: rescore: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s.Get(ctx, id)
}

// Delete removes an entry by id.
func (s *Service) Delete(ctx context.Context, id string) error {
	res, err := dbopen.Exec(ctx, s.db, `DELETE FROM decisions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("decisionlog: delete: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

const selectColumns = `
	SELECT id, candidate_id, title, strength, category, decision,
	       evidence_file, evidence_page, evidence_quote, evidence_hint,
	       tags, extract_score,
	       impact, cost, risk, urgency, confidence,
	       created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var e Entry
	var strength, category, tags, createdAt, updatedAt string
	err := row.Scan(
		&e.ID, &e.CandidateID, &e.Title, &strength, &category, &e.Decision,
		&e.Evidence.File, &e.Evidence.Page, &e.Evidence.Quote,
		&e.Evidence.LocationHint,
		&tags, &e.ExtractScore,
		&e.Vars.Impact, &e.Vars.Cost, &e.Vars.Risk, &e.Vars.Urgency,
		&e.Vars.Confidence,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("decisionlog: scan: %w", err)
	}

	e.Strength = distill.Strength(strength)
	e.Category = distill.Category(category)
	if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
		return nil, fmt.Errorf("decisionlog: decode tags: %w", err)
	}
	if e.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("decisionlog: parse created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("decisionlog: parse updated_at: %w", err)
	}
	e.Metrics = Compute(e.Vars)
	return &e, nil
}
