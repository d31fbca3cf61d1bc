package core

import (
	"fmt"
	"strings"

	"avyna.com/backend/internal/store"
)

// BuildPrompt assembles the instruction string sent to the generative
// model from a symptom log and the owning user's health profile. It is a
// pure function: identical inputs produce identical prompts.
func BuildPrompt(logEntry *store.SymptomLog, user *store.User) string {
	var b strings.Builder

	b.WriteString("You are a medical assistant specializing in women's health, particularly PCOS and endometriosis.\n\n")

	b.WriteString("SYMPTOM LOG INFORMATION:\n")
	fmt.Fprintf(&b, "- Condition: %s\n", logEntry.Condition)
	fmt.Fprintf(&b, "- Symptoms: %s\n", logEntry.Symptoms)
	fmt.Fprintf(&b, "- Pain level: %s\n", describePainLevel(logEntry.PainLevel))
	fmt.Fprintf(&b, "- Mood: %s\n", logEntry.Mood)
	fmt.Fprintf(&b, "- Cycle day: %s\n", describeCycleDay(logEntry.CycleDay))
	fmt.Fprintf(&b, "- Additional notes: %s\n", orNone(logEntry.Notes))

	b.WriteString("\nUSER PROFILE INFORMATION:\n")

	if user.Age != nil {
		fmt.Fprintf(&b, "- Age: %d years\n", *user.Age)
		if *user.Age < 20 {
			b.WriteString("  -> Focus on gentle, age-appropriate recommendations for teenage health\n")
		} else if *user.Age >= 40 {
			b.WriteString("  -> Consider perimenopause/menopause factors and age-related health needs\n")
		}
	} else {
		b.WriteString("- Age: Not specified\n")
	}

	switch {
	case user.HasPCOS != nil && *user.HasPCOS:
		b.WriteString("- CONFIRMED PCOS diagnosis\n")
		b.WriteString("  -> Prioritize insulin resistance management, anti-inflammatory approaches\n")
	case user.HasPCOS != nil:
		b.WriteString("- No PCOS diagnosis\n")
	default:
		b.WriteString("- PCOS status: Unknown/Not specified\n")
	}

	switch {
	case user.HasEndometriosis != nil && *user.HasEndometriosis:
		b.WriteString("- CONFIRMED Endometriosis diagnosis\n")
		b.WriteString("  -> Focus on anti-inflammatory diet, pain management, gentle exercise\n")
	case user.HasEndometriosis != nil:
		b.WriteString("- No Endometriosis diagnosis\n")
	default:
		b.WriteString("- Endometriosis status: Unknown/Not specified\n")
	}

	if user.SubscriptionPlan == store.PlanPaid {
		b.WriteString("- Subscription: Premium user\n")
		b.WriteString("  -> Provide detailed, comprehensive recommendations with advanced tips\n")
	} else {
		b.WriteString("- Subscription: Free user\n")
		b.WriteString("  -> Provide helpful but concise recommendations\n")
	}

	b.WriteString("\nPERSONALIZATION REQUIREMENTS:\n")
	b.WriteString("- Tailor all recommendations based on the user's age, medical conditions, and symptoms\n")
	b.WriteString("- If PCOS is confirmed, emphasize insulin sensitivity, low-glycemic foods, and hormone balance\n")
	b.WriteString("- If Endometriosis is confirmed, prioritize anti-inflammatory approaches and pain management\n")
	fmt.Fprintf(&b, "- Consider the user's current pain level (%s) when suggesting exercise intensity\n", describePainLevel(logEntry.PainLevel))
	fmt.Fprintf(&b, "- Account for the reported mood (%s) in wellness recommendations\n", logEntry.Mood)
	fmt.Fprintf(&b, "- If cycle day is provided (%s), consider menstrual cycle phase in recommendations\n", describeCycleDay(logEntry.CycleDay))

	b.WriteString("\nBased on this comprehensive information, provide personalized recommendations in three categories with clear markdown formatting:\n\n")
	b.WriteString("## Diet\n")
	b.WriteString("[Provide specific dietary recommendations tailored to the user's conditions, age, and current symptoms - use bullet points]\n\n")
	b.WriteString("## Exercise\n")
	b.WriteString("[Provide specific exercise recommendations considering pain level, age, conditions, and current symptoms - use bullet points]\n\n")
	b.WriteString("## Wellness Tips\n")
	b.WriteString("[Provide specific wellness recommendations based on mood, conditions, age, and overall health profile - use bullet points]\n\n")
	b.WriteString("Please format your response using proper markdown with headers (##) and bullet points (-) for each recommendation. Make the advice specific and actionable based on the user's individual profile and current symptoms.")

	return b.String()
}

func describePainLevel(painLevel *int) string {
	if painLevel == nil {
		return "Not specified"
	}
	return fmt.Sprintf("%d/10", *painLevel)
}

func describeCycleDay(cycleDay *int) string {
	if cycleDay == nil {
		return "None"
	}
	return fmt.Sprintf("%d", *cycleDay)
}

func orNone(value string) string {
	if strings.TrimSpace(value) == "" {
		return "None"
	}
	return value
}
