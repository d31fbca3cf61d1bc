package core

import (
	"strings"
	"testing"
)

func TestParseModelResponseHeadedMarkdown(t *testing.T) {
	raw := "## Diet\n- eat greens\n## Exercise\n1. walk daily\n## Wellness Tips\nsleep well"

	sections := ParseModelResponse(raw)

	if sections.Diet != "- eat greens" {
		t.Errorf("Diet = %q, want %q", sections.Diet, "- eat greens")
	}
	if sections.Exercise != "- walk daily" {
		t.Errorf("Exercise = %q, want %q", sections.Exercise, "- walk daily")
	}
	if sections.Wellness != "- sleep well" {
		t.Errorf("Wellness = %q, want %q", sections.Wellness, "- sleep well")
	}
}

func TestParseModelResponseHeadingsCaseInsensitive(t *testing.T) {
	raw := "## DIET\neat oats\n## exercise\nswim\n## WELLNESS TIPS\nrest"

	sections := ParseModelResponse(raw)

	if sections.Diet != "- eat oats" {
		t.Errorf("Diet = %q, want %q", sections.Diet, "- eat oats")
	}
	if sections.Exercise != "- swim" {
		t.Errorf("Exercise = %q, want %q", sections.Exercise, "- swim")
	}
	if sections.Wellness != "- rest" {
		t.Errorf("Wellness = %q, want %q", sections.Wellness, "- rest")
	}
}

func TestParseModelResponseWellnessHeadingWithoutTips(t *testing.T) {
	sections := ParseModelResponse("## Wellness\nbreathe deeply")

	if sections.Wellness != "- breathe deeply" {
		t.Errorf("Wellness = %q, want %q", sections.Wellness, "- breathe deeply")
	}
}

func TestParseModelResponseKeywordFallback(t *testing.T) {
	raw := "Diet: eat well\nExercise: walk\nWellness: relax"

	sections := ParseModelResponse(raw)

	if sections.Diet != "- eat well" {
		t.Errorf("Diet = %q, want %q", sections.Diet, "- eat well")
	}
	if sections.Exercise != "- walk" {
		t.Errorf("Exercise = %q, want %q", sections.Exercise, "- walk")
	}
	if sections.Wellness != "- relax" {
		t.Errorf("Wellness = %q, want %q", sections.Wellness, "- relax")
	}
}

func TestParseModelResponseKeywordNonASCII(t *testing.T) {
	// Lowercasing "Ⱦ" (U+023E) grows it from 2 to 3 bytes, and "İ"
	// (U+0130) shrinks when folded. The keyword scan must stay within the
	// original line's bounds and slice the remainder at the right offset.
	sections := ParseModelResponse("ȾȾdiet:")
	if sections.Diet != defaultDietAdvice {
		t.Errorf("Diet = %q, want category default", sections.Diet)
	}

	sections = ParseModelResponse("Ⱦ Diet: eat well\nİ Exercise: walk daily")
	if sections.Diet != "- eat well" {
		t.Errorf("Diet = %q, want %q", sections.Diet, "- eat well")
	}
	if sections.Exercise != "- walk daily" {
		t.Errorf("Exercise = %q, want %q", sections.Exercise, "- walk daily")
	}
}

func TestParseModelResponseKeywordSectionAccumulatesLines(t *testing.T) {
	raw := "1. Nutrition advice\neat more fiber\ndrink water\n2. Physical activity\nstretch daily"

	sections := ParseModelResponse(raw)

	if sections.Diet != "- eat more fiber\n- drink water" {
		t.Errorf("Diet = %q", sections.Diet)
	}
	if sections.Exercise != "- stretch daily" {
		t.Errorf("Exercise = %q", sections.Exercise)
	}
}

func TestParseModelResponseTotalCoverage(t *testing.T) {
	inputs := map[string]string{
		"empty":          "",
		"whitespace":     "   \n\n  ",
		"plain prose":    "Here is some advice with no structure at all.\nJust be healthy.",
		"headed":         "## Diet\n- greens\n## Exercise\n- walk\n## Wellness Tips\n- rest",
		"partial headed": "## Diet\n- greens only",
		"keyword only":   "Diet: something",
	}

	for name, raw := range inputs {
		sections := ParseModelResponse(raw)
		if sections.Diet == "" || sections.Exercise == "" || sections.Wellness == "" {
			t.Errorf("%s: expected all sections populated, got %+v", name, sections)
		}
	}
}

func TestParseModelResponseEmptySectionsGetDefaults(t *testing.T) {
	sections := ParseModelResponse("## Diet\n- greens only")

	if sections.Diet != "- greens only" {
		t.Errorf("Diet = %q, want parsed content", sections.Diet)
	}
	if sections.Exercise != defaultExerciseAdvice {
		t.Errorf("Exercise = %q, want category default", sections.Exercise)
	}
	if sections.Wellness != defaultWellnessAdvice {
		t.Errorf("Wellness = %q, want category default", sections.Wellness)
	}
}

func TestParseModelResponseDropsPreambleBeforeFirstHeading(t *testing.T) {
	raw := "Here are your recommendations!\n## Diet\n- greens"

	sections := ParseModelResponse(raw)

	if strings.Contains(sections.Diet, "recommendations") {
		t.Errorf("Diet includes preamble text: %q", sections.Diet)
	}
	if sections.Diet != "- greens" {
		t.Errorf("Diet = %q, want %q", sections.Diet, "- greens")
	}
}

func TestParseModelResponseNumberedAndStarredLists(t *testing.T) {
	raw := "## Diet\n1. oats\n2.  lentils\n* berries\n\n## Exercise\n- walk\n## Wellness Tips\n- rest"

	sections := ParseModelResponse(raw)

	want := "- oats\n- lentils\n* berries"
	if sections.Diet != want {
		t.Errorf("Diet = %q, want %q", sections.Diet, want)
	}
}

func TestFormatBulletsIdempotent(t *testing.T) {
	inputs := []string{
		"- eat greens\n- walk daily",
		"plain line\nanother line",
		"1. first\n2. second",
		"* starred\n- dashed",
	}

	for _, input := range inputs {
		once := formatBullets(input)
		twice := formatBullets(once)
		if once != twice {
			t.Errorf("formatBullets not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestBulletLineDoesNotDoublePrefix(t *testing.T) {
	if got := bulletLine("- already bulleted"); got != "- already bulleted" {
		t.Errorf("bulletLine = %q", got)
	}
	if got := bulletLine("3. numbered"); got != "- numbered" {
		t.Errorf("bulletLine = %q", got)
	}
}
