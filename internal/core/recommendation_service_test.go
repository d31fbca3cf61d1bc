package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"avyna.com/backend/internal/store"
)

type stubModel struct {
	text string
	err  error
}

func (stub *stubModel) Generate(context.Context, string) (string, error) {
	return stub.text, stub.err
}

type stubRecommendationStore struct {
	saved []*store.Recommendation
	err   error
}

func (stub *stubRecommendationStore) CreateRecommendation(rec *store.Recommendation) error {
	stub.saved = append(stub.saved, rec)
	return stub.err
}

func serviceFixtures() (*store.SymptomLog, *store.User) {
	logEntry := &store.SymptomLog{
		ID:        "log-1",
		Condition: "PCOS",
		Symptoms:  "cramps",
		PainLevel: intPtr(5),
		Mood:      "tired",
	}
	user := &store.User{Age: intPtr(28), SubscriptionPlan: store.PlanFree}
	return logEntry, user
}

func TestGenerateForLogModelSuccess(t *testing.T) {
	recStore := &stubRecommendationStore{}
	model := &stubModel{text: "## Diet\n- eat greens\n## Exercise\n- walk\n## Wellness Tips\n- rest"}
	service := NewRecommendationService(recStore, model)
	logEntry, user := serviceFixtures()

	fromModel, payload := service.GenerateForLog(context.Background(), logEntry, user)

	if !fromModel {
		t.Error("expected model provenance")
	}
	if payload.Diet != "- eat greens" || payload.Exercise != "- walk" || payload.Wellness != "- rest" {
		t.Errorf("unexpected payload sections: %+v", payload)
	}
	if len(recStore.saved) != 1 {
		t.Fatalf("expected one persisted recommendation, got %d", len(recStore.saved))
	}
	if recStore.saved[0].LogID != "log-1" {
		t.Errorf("persisted against log %q, want log-1", recStore.saved[0].LogID)
	}
	if payload.GeneratedAt.IsZero() {
		t.Error("payload missing generation timestamp")
	}
}

func TestGenerateForLogModelErrorFallsBack(t *testing.T) {
	recStore := &stubRecommendationStore{}
	model := &stubModel{err: errors.New("dial tcp: connection refused")}
	service := NewRecommendationService(recStore, model)
	logEntry, user := serviceFixtures()

	fromModel, payload := service.GenerateForLog(context.Background(), logEntry, user)

	if fromModel {
		t.Error("expected fallback provenance")
	}
	if payload.Diet == "" || payload.Exercise == "" || payload.Wellness == "" {
		t.Errorf("fallback payload has empty sections: %+v", payload)
	}
	if !strings.Contains(payload.Diet, "low-glycemic foods") {
		t.Errorf("expected PCOS fallback track, got %q", payload.Diet)
	}
	if len(recStore.saved) != 1 {
		t.Errorf("expected fallback to be persisted, got %d saves", len(recStore.saved))
	}
}

func TestGenerateForLogEmptyResponseFallsBack(t *testing.T) {
	recStore := &stubRecommendationStore{}
	model := &stubModel{err: ErrEmptyModelResponse}
	service := NewRecommendationService(recStore, model)
	logEntry, user := serviceFixtures()

	fromModel, payload := service.GenerateForLog(context.Background(), logEntry, user)

	if fromModel {
		t.Error("expected fallback provenance for empty model response")
	}
	if payload.Diet == "" || payload.Exercise == "" || payload.Wellness == "" {
		t.Errorf("fallback payload has empty sections: %+v", payload)
	}
}

func TestGenerateForLogUnstructuredTextStillSucceeds(t *testing.T) {
	recStore := &stubRecommendationStore{}
	model := &stubModel{text: "Just take care of yourself and rest."}
	service := NewRecommendationService(recStore, model)
	logEntry, user := serviceFixtures()

	fromModel, payload := service.GenerateForLog(context.Background(), logEntry, user)

	// Parser defaults keep the payload complete, so provenance stays model.
	if !fromModel {
		t.Error("expected model provenance: parser defaults cover unstructured text")
	}
	if payload.Diet == "" || payload.Exercise == "" || payload.Wellness == "" {
		t.Errorf("payload has empty sections: %+v", payload)
	}
}

func TestGenerateForLogPersistenceFailureKeepsPayload(t *testing.T) {
	recStore := &stubRecommendationStore{err: errors.New("database is locked")}
	model := &stubModel{text: "## Diet\n- eat greens\n## Exercise\n- walk\n## Wellness Tips\n- rest"}
	service := NewRecommendationService(recStore, model)
	logEntry, user := serviceFixtures()

	fromModel, payload := service.GenerateForLog(context.Background(), logEntry, user)

	if !fromModel {
		t.Error("persistence failure must not change provenance")
	}
	if payload.Diet != "- eat greens" {
		t.Errorf("persistence failure altered the payload: %+v", payload)
	}
}

func TestRenderMarkdownSectionOrder(t *testing.T) {
	markdown := RenderMarkdown(Sections{Diet: "- a", Exercise: "- b", Wellness: "- c"})

	want := "### 🥗 Diet\n- a\n\n### 🏃 Exercise\n- b\n\n### 🧘 Wellness\n- c"
	if markdown != want {
		t.Errorf("RenderMarkdown = %q, want %q", markdown, want)
	}
}
