package core

import (
	"reflect"
	"testing"

	"avyna.com/backend/internal/store"
)

func TestBuildAnalyticsAggregates(t *testing.T) {
	logs := []store.SymptomLog{
		{PainLevel: intPtr(4), Mood: "tired", Condition: "PCOS", Symptoms: "cramps, bloating"},
		{PainLevel: intPtr(7), Mood: "tired", Condition: "PCOS", Symptoms: "Cramps; headache"},
		{Mood: "ok", Condition: "fatigue", Symptoms: "cramps"},
	}

	analytics := BuildAnalytics(logs, 30)

	if analytics.TotalLogs != 3 {
		t.Errorf("TotalLogs = %d, want 3", analytics.TotalLogs)
	}
	if analytics.PainAnalytics.AveragePain != 5.5 {
		t.Errorf("AveragePain = %v, want 5.5", analytics.PainAnalytics.AveragePain)
	}
	if analytics.PainAnalytics.MaxPain != 7 {
		t.Errorf("MaxPain = %d, want 7", analytics.PainAnalytics.MaxPain)
	}
	if analytics.PainAnalytics.TotalPainEntries != 2 {
		t.Errorf("TotalPainEntries = %d, want 2", analytics.PainAnalytics.TotalPainEntries)
	}
	if analytics.MoodDistribution["tired"] != 2 || analytics.MoodDistribution["ok"] != 1 {
		t.Errorf("MoodDistribution = %v", analytics.MoodDistribution)
	}
	if analytics.ConditionDistribution["PCOS"] != 2 {
		t.Errorf("ConditionDistribution = %v", analytics.ConditionDistribution)
	}
	if analytics.LoggingFrequency != 0.1 {
		t.Errorf("LoggingFrequency = %v, want 0.1", analytics.LoggingFrequency)
	}
}

func TestBuildAnalyticsTopSymptoms(t *testing.T) {
	logs := []store.SymptomLog{
		{Symptoms: "cramps, bloating, headache"},
		{Symptoms: "CRAMPS; nausea"},
		{Symptoms: "cramps, bloating"},
		{Symptoms: "fatigue; insomnia; acne"},
	}

	analytics := BuildAnalytics(logs, 7)

	if len(analytics.TopSymptoms) != 5 {
		t.Fatalf("TopSymptoms length = %d, want 5", len(analytics.TopSymptoms))
	}
	want := []SymptomCount{
		{Symptom: "cramps", Count: 3},
		{Symptom: "bloating", Count: 2},
		{Symptom: "acne", Count: 1},
		{Symptom: "fatigue", Count: 1},
		{Symptom: "headache", Count: 1},
	}
	if !reflect.DeepEqual(analytics.TopSymptoms, want) {
		t.Errorf("TopSymptoms = %v, want %v", analytics.TopSymptoms, want)
	}
}

func TestBuildAnalyticsEmptyLogs(t *testing.T) {
	analytics := BuildAnalytics(nil, 30)

	if analytics.TotalLogs != 0 {
		t.Errorf("TotalLogs = %d, want 0", analytics.TotalLogs)
	}
	if analytics.PainAnalytics.AveragePain != 0 {
		t.Errorf("AveragePain = %v, want 0", analytics.PainAnalytics.AveragePain)
	}
	if len(analytics.TopSymptoms) != 0 {
		t.Errorf("TopSymptoms = %v, want empty", analytics.TopSymptoms)
	}
}
