// Package app composes the pipeline into the engine's one real use case:
// analyze a posting URL, score it, persist the run, and report duplicates.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"ghostjob-engine/internal/dedupe"
	"ghostjob-engine/internal/domain"
	"ghostjob-engine/internal/events"
	"ghostjob-engine/internal/fetch"
	"ghostjob-engine/internal/ghost"
	"ghostjob-engine/internal/parse"
	"ghostjob-engine/internal/store"
	"ghostjob-engine/internal/textutil"
)

type Analyzer struct {
	DB       *sql.DB
	Fetcher  *fetch.Fetcher
	Pipeline *parse.Coordinator
	Scorer   ghost.Scorer
	Detector dedupe.Detector
	Hub      *events.Hub

	// RecentLimit bounds how much history the duplicate pass compares against.
	RecentLimit int
}

// Result is the full analyze response: the stored record, the score factors,
// the per-field confidence, and any duplicate groups found.
type Result struct {
	Analysis   store.Analysis          `json:"analysis"`
	Factors    []store.KeyFactor       `json:"keyFactors"`
	Confidence domain.ConfidenceScores `json:"confidence"`
	Duplicates []dedupe.DuplicateGroup `json:"duplicates,omitempty"`
	Notes      []string                `json:"notes,omitempty"`
}

// Analyze runs the whole chain for one URL. Content may be supplied by the
// caller (extension capture); otherwise the page is fetched. Parse itself
// never fails, so errors here are fetch or persistence problems only.
func (a *Analyzer) Analyze(ctx context.Context, reqID, rawURL, content string) (Result, error) {
	start := time.Now()
	a.emit(reqID, events.TypeAnalysisStarted, map[string]string{"url": rawURL})

	if content == "" {
		var err error
		content, err = a.Fetcher.Fetch(ctx, rawURL)
		if err != nil {
			return Result{}, err
		}
	} else if err := fetch.ValidateURL(rawURL); err != nil {
		return Result{}, err
	}

	job := a.Pipeline.Parse(ctx, rawURL, content)
	a.emit(reqID, events.TypeParseDone, map[string]any{
		"title":      job.Title,
		"company":    job.Company,
		"method":     job.Method.String(),
		"confidence": job.Confidence.Overall,
	})
	if job.Method.LearningApplied {
		a.emit(reqID, events.TypeLearningApplied, nil)
	}
	if job.Metadata["ai_verified"] == "true" {
		a.emit(reqID, events.TypeEscalated, nil)
	}
	if job.Metadata["fallback"] == "true" {
		a.emit(reqID, events.TypeFallback, nil)
	}

	p, factors := a.Scorer.Score(job, time.Now().UTC())

	rec := a.toRecord(rawURL, job, p)
	kf := make([]store.KeyFactor, 0, len(factors))
	for _, f := range factors {
		kf = append(kf, store.KeyFactor{
			FactorType:  f.Type,
			Description: f.Description,
			Severity:    f.Severity,
			Weight:      f.Weight,
		})
	}

	id, err := store.SaveAnalysis(ctx, a.DB, rec, kf)
	if err != nil {
		return Result{}, fmt.Errorf("persist analysis: %w", err)
	}
	rec.ID = id

	dups := a.duplicates(ctx, job, id)

	a.emit(reqID, events.TypeAnalysisComplete, map[string]any{
		"id":               id,
		"ghostProbability": p,
		"riskLevel":        rec.RiskLevel,
		"durMs":            time.Since(start).Milliseconds(),
	})

	return Result{
		Analysis:   rec,
		Factors:    kf,
		Confidence: job.Confidence,
		Duplicates: dups,
		Notes:      job.Notes,
	}, nil
}

func (a *Analyzer) toRecord(rawURL string, job domain.ParsedJob, p float64) store.Analysis {
	rec := store.Analysis{
		ID:                uuid.NewString(),
		URL:               rawURL,
		CanonicalURL:      textutil.CanonicalizeURL(rawURL),
		Title:             job.Title,
		Company:           job.Company,
		Platform:          textutil.DetectPlatform(rawURL),
		ExtractionMethod:  job.Method.String(),
		ParsingConfidence: job.Confidence.Overall,
		GhostProbability:  p,
		RiskLevel:         ghost.Tier(p),
		CreatedAt:         time.Now().UTC(),
	}
	if job.Location != nil {
		rec.Location = *job.Location
	}
	if job.Description != nil {
		rec.Description = *job.Description
	}
	if job.Salary != nil {
		rec.Salary = *job.Salary
	}
	if job.PostedAt != nil {
		rec.PostedAt = job.PostedAt.Format(time.RFC3339)
	}
	return rec
}

// duplicates compares against recent history; failure here degrades to "no
// duplicates" rather than failing the analysis.
func (a *Analyzer) duplicates(ctx context.Context, job domain.ParsedJob, id string) []dedupe.DuplicateGroup {
	limit := a.RecentLimit
	if limit <= 0 {
		limit = 200
	}
	history, err := store.History(ctx, a.DB, limit)
	if err != nil {
		log.Printf("[analyze] duplicate lookup failed: %v", err)
		return nil
	}
	recent := make([]dedupe.Listing, 0, len(history))
	for _, h := range history {
		recent = append(recent, dedupe.Listing{
			ID:       h.ID,
			Title:    h.Title,
			Company:  h.Company,
			Location: h.Location,
			URL:      h.URL,
		})
	}
	return a.Detector.Group(job, id, recent)
}

func (a *Analyzer) emit(reqID, typ string, data any) {
	if a.Hub != nil {
		a.Hub.Emit(reqID, typ, data)
	}
}
