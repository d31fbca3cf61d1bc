package core

import (
	"regexp"
	"strings"
)

// section is the parser's current-section state while scanning model
// output line by line.
type section int

const (
	sectionNone section = iota
	sectionDiet
	sectionExercise
	sectionWellness
)

// Sections holds the three-part recommendation. Every field is non-empty
// bullet text once ParseModelResponse or FallbackSections returns.
type Sections struct {
	Diet     string
	Exercise string
	Wellness string
}

var numberedItem = regexp.MustCompile(`^\d+\.\s*`)

// ParseModelResponse splits raw model output into diet/exercise/wellness
// bullet text. Headed markdown is handled by the primary scan; prose
// without recognizable headings falls through to a keyword scan; anything
// still empty is filled with a category default, so all three fields are
// always populated.
func ParseModelResponse(raw string) Sections {
	parsed := headingParse(raw)

	if len(parsed) == 0 {
		parsed = keywordParse(raw)
	}

	return Sections{
		Diet:     finalizeSection(parsed[sectionDiet], defaultDietAdvice),
		Exercise: finalizeSection(parsed[sectionExercise], defaultExerciseAdvice),
		Wellness: finalizeSection(parsed[sectionWellness], defaultWellnessAdvice),
	}
}

// headingParse assigns lines to the section opened by the most recent
// recognized "## Diet" / "## Exercise" / "## Wellness [Tips]" heading.
// Lines before the first recognized heading are dropped.
func headingParse(raw string) map[section][]string {
	parsed := map[section][]string{}
	current := sectionNone

	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if sec, remainder := headingSection(line); sec != sectionNone {
			current = sec
			if remainder != "" {
				parsed[current] = append(parsed[current], bulletLine(remainder))
			}
			continue
		}

		if current != sectionNone {
			parsed[current] = append(parsed[current], bulletLine(line))
		}
	}

	return parsed
}

// headingSection recognizes a markdown heading opening one of the three
// sections. Trailing text on the heading line, e.g. "## Diet Suggestions",
// is returned as remainder content. Case-insensitive.
func headingSection(line string) (section, string) {
	if !strings.HasPrefix(line, "##") {
		return sectionNone, ""
	}
	text := strings.TrimSpace(strings.TrimLeft(line, "#"))
	lower := strings.ToLower(text)

	for _, name := range []string{"wellness tips", "wellness tip", "wellness"} {
		if strings.HasPrefix(lower, name) {
			return sectionWellness, headingRemainder(text, name)
		}
	}
	if strings.HasPrefix(lower, "diet") {
		return sectionDiet, headingRemainder(text, "diet")
	}
	if strings.HasPrefix(lower, "exercise") {
		return sectionExercise, headingRemainder(text, "exercise")
	}
	return sectionNone, ""
}

func headingRemainder(text, matched string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(text[len(matched):]), ":"))
}

type keywordRule struct {
	sec        section
	keywords   []string
	numStarter string
	colonRe    *regexp.Regexp
}

// The colon starters are matched case-insensitively on the original line
// so the match bounds are valid byte offsets into it. Lowercasing the
// whole line first can change byte lengths for some characters and shift
// every offset after them.
var keywordRules = []keywordRule{
	{sectionDiet, []string{"diet", "dietary", "nutrition"}, "1.", regexp.MustCompile(`(?i)diet:`)},
	{sectionExercise, []string{"exercise", "physical", "activity"}, "2.", regexp.MustCompile(`(?i)exercise:`)},
	{sectionWellness, []string{"wellness", "well-being", "wellbeing"}, "3.", regexp.MustCompile(`(?i)wellness:`)},
}

// keywordParse is the secondary strategy for output with no recognizable
// headings: a line carrying a topical keyword plus a section-starter token
// (numeric prefix, heading marker, or "keyword:") switches the current
// section, and following lines accumulate into it. Content after a
// "keyword:" starter on the switching line is kept as that section's
// first line.
func keywordParse(raw string) map[section][]string {
	parsed := map[section][]string{}
	current := sectionNone

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		switched := false
		for _, r := range keywordRules {
			if !containsAny(lower, r.keywords) {
				continue
			}
			if loc := r.colonRe.FindStringIndex(line); loc != nil {
				current = r.sec
				if remainder := strings.TrimSpace(line[loc[1]:]); remainder != "" {
					parsed[current] = append(parsed[current], bulletLine(remainder))
				}
				switched = true
			} else if strings.Contains(lower, r.numStarter) || strings.Contains(lower, "##") {
				current = r.sec
				switched = true
			}
			// First keyword match decides; a keyword without a starter
			// token leaves the line as ordinary content.
			break
		}
		if switched {
			continue
		}

		if current != sectionNone {
			parsed[current] = append(parsed[current], bulletLine(line))
		}
	}

	return parsed
}

func containsAny(line string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(line, keyword) {
			return true
		}
	}
	return false
}

// bulletLine rewrites a numeric list marker to a bullet and prefixes
// "- " unless the line already carries a bullet or asterisk marker.
func bulletLine(line string) string {
	line = numberedItem.ReplaceAllString(line, "- ")
	if !strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "*") {
		line = "- " + line
	}
	return line
}

// formatBullets applies the bullet normalization pass to a block of text.
// Applying it twice yields the same result: already-bulleted lines and
// heading lines pass through untouched.
func formatBullets(content string) string {
	var formatted []string
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "#") {
			line = bulletLine(line)
		}
		formatted = append(formatted, line)
	}
	return strings.Join(formatted, "\n")
}

func finalizeSection(lines []string, categoryDefault string) string {
	if len(lines) == 0 {
		return categoryDefault
	}
	formatted := formatBullets(strings.Join(lines, "\n"))
	if formatted == "" {
		return categoryDefault
	}
	return formatted
}

// Category defaults used when a section is empty after both parse passes.
const (
	defaultDietAdvice = `- Focus on anti-inflammatory foods like leafy greens, fatty fish, and nuts
- Limit processed foods and added sugars
- Include complex carbohydrates and lean proteins
- Stay hydrated with plenty of water`

	defaultExerciseAdvice = `- Engage in gentle activities like walking, yoga, or swimming
- Aim for 20-30 minutes of daily movement
- Listen to your body and adjust intensity as needed
- Include both cardio and strength training when possible`

	defaultWellnessAdvice = `- Maintain a regular sleep schedule (7-8 hours nightly)
- Practice stress management techniques like meditation
- Consider mindfulness and relaxation exercises
- Keep a symptom diary to track patterns`
)
