package core

import (
	"context"
	"fmt"
	"log"
	"time"

	"avyna.com/backend/internal/store"
)

// RecommendationStore is the persistence port the orchestrator writes
// through. Saves are best effort: a failure is logged and does not change
// the payload the caller receives.
type RecommendationStore interface {
	CreateRecommendation(rec *store.Recommendation) error
}

// RecommendationPayload is the caller-facing result shape: the three
// bullet-text fields, their combined markdown rendering, and the
// generation timestamp.
type RecommendationPayload struct {
	Diet        string    `json:"diet"`
	Exercise    string    `json:"exercise"`
	Wellness    string    `json:"wellness"`
	Markdown    string    `json:"markdown"`
	GeneratedAt time.Time `json:"generated_at"`
}

type RecommendationService struct {
	dbStore RecommendationStore
	model   ModelClient
	now     func() time.Time
}

func NewRecommendationService(db RecommendationStore, model ModelClient) *RecommendationService {
	return &RecommendationService{
		dbStore: db,
		model:   model,
		now:     time.Now,
	}
}

// GenerateForLog runs the pipeline for one symptom log: build the prompt,
// call the model, parse the response, fall back to deterministic content
// on any failure. The bool records provenance only (true when the content
// came from the model); the payload is complete either way.
func (s *RecommendationService) GenerateForLog(ctx context.Context, logEntry *store.SymptomLog, user *store.User) (bool, RecommendationPayload) {
	prompt := BuildPrompt(logEntry, user)

	raw, err := s.model.Generate(ctx, prompt)
	if err != nil {
		log.Printf("Model generation failed for log %s: %v", logEntry.ID, err)
		return false, s.persist(logEntry.ID, FallbackSections(logEntry, user))
	}

	sections := ParseModelResponse(raw)
	if sections.Diet == "" || sections.Exercise == "" || sections.Wellness == "" {
		// The parser fills defaults, so this is a defensive invariant
		// rather than an expected path.
		log.Printf("Parsed model response for log %s left empty sections, using fallback", logEntry.ID)
		return false, s.persist(logEntry.ID, FallbackSections(logEntry, user))
	}

	return true, s.persist(logEntry.ID, sections)
}

func (s *RecommendationService) persist(logID string, sections Sections) RecommendationPayload {
	generatedAt := s.now().UTC()

	rec := &store.Recommendation{
		LogID:       logID,
		Diet:        sections.Diet,
		Exercise:    sections.Exercise,
		Wellness:    sections.Wellness,
		GeneratedAt: generatedAt,
	}
	if err := s.dbStore.CreateRecommendation(rec); err != nil {
		log.Printf("Failed to save recommendation for log %s: %v", logID, err)
	}

	return RecommendationPayload{
		Diet:        sections.Diet,
		Exercise:    sections.Exercise,
		Wellness:    sections.Wellness,
		Markdown:    RenderMarkdown(sections),
		GeneratedAt: generatedAt,
	}
}

// RenderMarkdown assembles the three sections under fixed headings, in
// fixed order, separated by blank lines.
func RenderMarkdown(sections Sections) string {
	return fmt.Sprintf("### 🥗 Diet\n%s\n\n### 🏃 Exercise\n%s\n\n### 🧘 Wellness\n%s",
		sections.Diet, sections.Exercise, sections.Wellness)
}
