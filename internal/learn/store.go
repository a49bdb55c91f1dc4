// Package learn is the correction memory: an append-only log of
// (source, field) fixes plus a derived most-recent-wins view applied to
// future extractions from the same source.
package learn

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/textutil"
)

// Store persists learning patterns in the engine's sqlite database. Rows are
// immutable once written; newer rows supersede older ones per (source, field).
// Concurrent readers and appenders are safe: no row is ever updated in place.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append writes one pattern. The insert is atomic per record, which is the
// only side effect unsafe to abandon mid-flight on cancellation.
func (s *Store) Append(ctx context.Context, p domain.LearningPattern) error {
	if p.Source == "" || p.Field == "" || strings.TrimSpace(p.CorrectValue) == "" {
		return fmt.Errorf("learn: pattern needs source, field, and correct value")
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO learning_patterns(source, field, original_value, correct_value, parser_used, parser_version, reason, corrected_by, created_at)
VALUES(?,?,?,?,?,?,?,?,?);`,
		p.Source,
		p.Field,
		p.OriginalValue,
		p.CorrectValue,
		p.ParserUsed,
		p.ParserVersion,
		p.Reason,
		p.CorrectedBy,
		p.CreatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("learn append: %w", err)
	}
	return nil
}

// RecordCorrection splits a feedback submission into per-field patterns and
// appends each. Returns how many patterns were written.
func (s *Store) RecordCorrection(ctx context.Context, c domain.Correction) (int, error) {
	source := textutil.SourceKey(c.SourceURL)
	if source == "" {
		return 0, fmt.Errorf("learn: correction needs a source url")
	}
	if c.CorrectedBy == "" {
		return 0, fmt.Errorf("learn: correction needs correctedBy")
	}

	type fix struct{ field, orig, correct string }
	fixes := []fix{
		{"title", c.OriginalTitle, c.CorrectTitle},
		{"company", c.OriginalCompany, c.CorrectCompany},
		{"location", c.OriginalLocation, c.CorrectLocation},
	}

	added := 0
	for _, f := range fixes {
		if strings.TrimSpace(f.correct) == "" {
			continue
		}
		err := s.Append(ctx, domain.LearningPattern{
			Source:        source,
			Field:         f.field,
			OriginalValue: f.orig,
			CorrectValue:  strings.TrimSpace(f.correct),
			ParserUsed:    c.ParserUsed,
			ParserVersion: c.ParserVersion,
			Reason:        c.Reason,
			CorrectedBy:   c.CorrectedBy,
		})
		if err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Latest returns the current pattern per field for an exact source match:
// the most recent correction wins, no blending of history.
func (s *Store) Latest(ctx context.Context, source string) (map[string]domain.LearningPattern, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT p.id, p.source, p.field, p.original_value, p.correct_value, p.parser_used, p.parser_version, p.reason, p.corrected_by, p.created_at
FROM learning_patterns p
JOIN (
  SELECT field, MAX(id) AS max_id
  FROM learning_patterns
  WHERE source = ?
  GROUP BY field
) latest ON latest.max_id = p.id;`, source)
	if err != nil {
		return nil, fmt.Errorf("learn latest: %w", err)
	}
	defer rows.Close()

	out := map[string]domain.LearningPattern{}
	for rows.Next() {
		var p domain.LearningPattern
		var created string
		if err := rows.Scan(&p.ID, &p.Source, &p.Field, &p.OriginalValue, &p.CorrectValue,
			&p.ParserUsed, &p.ParserVersion, &p.Reason, &p.CorrectedBy, &created); err != nil {
			return nil, err
		}
		p.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out[p.Field] = p
	}
	return out, rows.Err()
}

// Count reports the size of the full log, for stats surfaces.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM learning_patterns;`).Scan(&n)
	return n, err
}
