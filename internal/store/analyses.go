package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Analysis is one stored pipeline run: the parsed fields plus the ghost
// score. Re-analyzing the same canonical URL replaces the earlier row.
type Analysis struct {
	ID                string    `json:"id"`
	URL               string    `json:"url"`
	CanonicalURL      string    `json:"canonicalUrl"`
	Title             string    `json:"title"`
	Company           string    `json:"company"`
	Location          string    `json:"location,omitempty"`
	Description       string    `json:"-"`
	Salary            string    `json:"salary,omitempty"`
	Platform          string    `json:"platform"`
	ExtractionMethod  string    `json:"extractionMethod"`
	ParsingConfidence float64   `json:"parsingConfidence"`
	GhostProbability  float64   `json:"ghostProbability"`
	RiskLevel         string    `json:"riskLevel"`
	PostedAt          string    `json:"postedAt,omitempty"`
	CreatedAt         time.Time `json:"createdAt"`
}

// KeyFactor mirrors ghost.Factor for persistence.
type KeyFactor struct {
	FactorType  string  `json:"factor_type"`
	Description string  `json:"description"`
	Severity    float64 `json:"severity"`
	Weight      float64 `json:"weight"`
}

// SaveAnalysis upserts by canonical URL and replaces the factor rows. The
// returned id is the surviving row's id, which on a re-analysis is the
// original one.
func SaveAnalysis(ctx context.Context, db *sql.DB, a Analysis, factors []KeyFactor) (string, error) {
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO analyses(id, url, canonical_url, title, company, location, description, salary,
  platform, extraction_method, parsing_confidence, ghost_probability, risk_level, posted_at, created_at)
VALUES(?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
ON CONFLICT(canonical_url) DO UPDATE SET
  url = excluded.url,
  title = excluded.title,
  company = excluded.company,
  location = excluded.location,
  description = excluded.description,
  salary = excluded.salary,
  platform = excluded.platform,
  extraction_method = excluded.extraction_method,
  parsing_confidence = excluded.parsing_confidence,
  ghost_probability = excluded.ghost_probability,
  risk_level = excluded.risk_level,
  posted_at = excluded.posted_at,
  created_at = excluded.created_at;`,
		a.ID, a.URL, a.CanonicalURL, a.Title, a.Company, a.Location, a.Description, a.Salary,
		a.Platform, a.ExtractionMethod, a.ParsingConfidence, a.GhostProbability, a.RiskLevel,
		a.PostedAt, a.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return "", fmt.Errorf("save analysis: %w", err)
	}

	var id string
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM analyses WHERE canonical_url = ?;`, a.CanonicalURL).Scan(&id); err != nil {
		return "", err
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM key_factors WHERE analysis_id = ?;`, id); err != nil {
		return "", err
	}
	for _, f := range factors {
		if _, err := tx.ExecContext(ctx, `
INSERT INTO key_factors(analysis_id, factor_type, description, severity, weight)
VALUES(?,?,?,?,?);`, id, f.FactorType, f.Description, f.Severity, f.Weight); err != nil {
			return "", fmt.Errorf("save factor: %w", err)
		}
	}

	return id, tx.Commit()
}

// History lists recent analyses, newest first.
func History(ctx context.Context, db *sql.DB, limit int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 200
	}
	rows, err := db.QueryContext(ctx, `
SELECT id, url, canonical_url, title, company, location, salary, platform,
  extraction_method, parsing_confidence, ghost_probability, risk_level, posted_at, created_at
FROM analyses
ORDER BY created_at DESC, id DESC
LIMIT ?;`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		var a Analysis
		var created string
		if err := rows.Scan(&a.ID, &a.URL, &a.CanonicalURL, &a.Title, &a.Company, &a.Location,
			&a.Salary, &a.Platform, &a.ExtractionMethod, &a.ParsingConfidence,
			&a.GhostProbability, &a.RiskLevel, &a.PostedAt, &created); err != nil {
			return nil, err
		}
		a.CreatedAt, _ = time.Parse(time.RFC3339, created)
		out = append(out, a)
	}
	return out, rows.Err()
}

// Factors returns the stored key factors for one analysis.
func Factors(ctx context.Context, db *sql.DB, analysisID string) ([]KeyFactor, error) {
	rows, err := db.QueryContext(ctx, `
SELECT factor_type, description, severity, weight
FROM key_factors
WHERE analysis_id = ?
ORDER BY id;`, analysisID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []KeyFactor
	for rows.Next() {
		var f KeyFactor
		if err := rows.Scan(&f.FactorType, &f.Description, &f.Severity, &f.Weight); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// CleanupOldAnalyses drops runs older than three months; cascades take the
// key factors with them.
func CleanupOldAnalyses(ctx context.Context, db *sql.DB) (deleted int64, err error) {
	res, err := db.ExecContext(ctx, `
DELETE FROM analyses
WHERE created_at < datetime('now', '-3 months');
`)
	if err != nil {
		return 0, fmt.Errorf("cleanup old analyses: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats is the aggregate view over all stored analyses.
type Stats struct {
	TotalAnalyses       int            `json:"totalAnalyses"`
	AvgGhostProbability float64        `json:"avgGhostProbability"`
	RiskTiers           map[string]int `json:"riskTiers"`
	TopPlatforms        map[string]int `json:"topPlatforms"`
}

func LoadStats(ctx context.Context, db *sql.DB) (Stats, error) {
	s := Stats{RiskTiers: map[string]int{}, TopPlatforms: map[string]int{}}

	err := db.QueryRowContext(ctx, `
SELECT COUNT(*), COALESCE(AVG(ghost_probability), 0) FROM analyses;`).
		Scan(&s.TotalAnalyses, &s.AvgGhostProbability)
	if err != nil {
		return s, err
	}

	rows, err := db.QueryContext(ctx, `
SELECT risk_level, COUNT(*) FROM analyses GROUP BY risk_level;`)
	if err != nil {
		return s, err
	}
	for rows.Next() {
		var tier string
		var n int
		if err := rows.Scan(&tier, &n); err != nil {
			rows.Close()
			return s, err
		}
		s.RiskTiers[tier] = n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return s, err
	}

	rows, err = db.QueryContext(ctx, `
SELECT platform, COUNT(*) FROM analyses GROUP BY platform ORDER BY COUNT(*) DESC LIMIT 10;`)
	if err != nil {
		return s, err
	}
	defer rows.Close()
	for rows.Next() {
		var platform string
		var n int
		if err := rows.Scan(&platform, &n); err != nil {
			return s, err
		}
		s.TopPlatforms[platform] = n
	}
	return s, rows.Err()
}
