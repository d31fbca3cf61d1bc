package core

import (
	"math"
	"sort"
	"strings"

	"avyna.com/backend/internal/store"
)

type PainAnalytics struct {
	AveragePain      float64 `json:"average_pain"`
	MaxPain          int     `json:"max_pain"`
	TotalPainEntries int     `json:"total_pain_entries"`
}

type SymptomCount struct {
	Symptom string `json:"symptom"`
	Count   int    `json:"count"`
}

type Analytics struct {
	PeriodDays            int            `json:"period_days"`
	TotalLogs             int            `json:"total_logs"`
	PainAnalytics         PainAnalytics  `json:"pain_analytics"`
	MoodDistribution      map[string]int `json:"mood_distribution"`
	ConditionDistribution map[string]int `json:"condition_distribution"`
	TopSymptoms           []SymptomCount `json:"top_symptoms"`
	LoggingFrequency      float64        `json:"logging_frequency"` // logs per day
}

const topSymptomCount = 5

// BuildAnalytics aggregates a user's symptom logs over a period into
// pain, mood, condition, and symptom-frequency summaries.
func BuildAnalytics(logs []store.SymptomLog, days int) Analytics {
	analytics := Analytics{
		PeriodDays:            days,
		TotalLogs:             len(logs),
		MoodDistribution:      map[string]int{},
		ConditionDistribution: map[string]int{},
		TopSymptoms:           []SymptomCount{},
	}

	var painSum, painCount int
	symptomCounts := map[string]int{}

	for _, logEntry := range logs {
		if logEntry.PainLevel != nil {
			painSum += *logEntry.PainLevel
			painCount++
			if *logEntry.PainLevel > analytics.PainAnalytics.MaxPain {
				analytics.PainAnalytics.MaxPain = *logEntry.PainLevel
			}
		}
		if logEntry.Mood != "" {
			analytics.MoodDistribution[logEntry.Mood]++
		}
		if logEntry.Condition != "" {
			analytics.ConditionDistribution[logEntry.Condition]++
		}
		// Symptoms are free text separated by commas or semicolons.
		for _, symptom := range strings.Split(strings.ReplaceAll(logEntry.Symptoms, ",", ";"), ";") {
			symptom = strings.ToLower(strings.TrimSpace(symptom))
			if symptom != "" {
				symptomCounts[symptom]++
			}
		}
	}

	analytics.PainAnalytics.TotalPainEntries = painCount
	if painCount > 0 {
		analytics.PainAnalytics.AveragePain = roundTo(float64(painSum)/float64(painCount), 1)
	}
	if days > 0 {
		analytics.LoggingFrequency = roundTo(float64(len(logs))/float64(days), 2)
	}

	for symptom, count := range symptomCounts {
		analytics.TopSymptoms = append(analytics.TopSymptoms, SymptomCount{Symptom: symptom, Count: count})
	}
	sort.Slice(analytics.TopSymptoms, func(i, j int) bool {
		if analytics.TopSymptoms[i].Count != analytics.TopSymptoms[j].Count {
			return analytics.TopSymptoms[i].Count > analytics.TopSymptoms[j].Count
		}
		return analytics.TopSymptoms[i].Symptom < analytics.TopSymptoms[j].Symptom
	})
	if len(analytics.TopSymptoms) > topSymptomCount {
		analytics.TopSymptoms = analytics.TopSymptoms[:topSymptomCount]
	}

	return analytics
}

func roundTo(value float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Round(value*factor) / factor
}
