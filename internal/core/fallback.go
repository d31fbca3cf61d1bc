package core

import (
	"strings"

	"avyna.com/backend/internal/store"
)

// FallbackSections produces deterministic, profile-aware guidance when the
// model path fails. Track selection: PCOS first, then endometriosis, then
// general; a confirmed profile flag and a condition-text match are each
// sufficient on their own. Output depends only on (track, age, pain level).
func FallbackSections(logEntry *store.SymptomLog, user *store.User) Sections {
	condition := strings.ToLower(logEntry.Condition)

	var age *int
	var hasPCOS, hasEndo bool
	if user != nil {
		age = user.Age
		hasPCOS = user.HasPCOS != nil && *user.HasPCOS
		hasEndo = user.HasEndometriosis != nil && *user.HasEndometriosis
	}

	switch {
	case hasPCOS || strings.Contains(condition, "pcos"):
		return pcosSections(age, logEntry.PainLevel)
	case hasEndo || strings.Contains(condition, "endometriosis"):
		return endometriosisSections(age, logEntry.PainLevel)
	default:
		return generalSections(age, logEntry.PainLevel)
	}
}

func pcosSections(age, painLevel *int) Sections {
	diet := `- Focus on low-glycemic foods like quinoa, sweet potatoes, and oats
- Include lean proteins such as chicken, fish, and legumes
- Add anti-inflammatory foods like berries, leafy greens, and nuts
- Limit refined sugars and processed foods
- Consider cinnamon and spearmint tea for hormonal balance`

	if age != nil && *age < 25 {
		diet += "\n- Ensure adequate calcium and iron for young adult development"
	} else if age != nil && *age > 35 {
		diet += "\n- Focus on bone health with calcium-rich foods and vitamin D"
	}

	exercise := `- Combine cardio with strength training for insulin sensitivity
- Try brisk walking, cycling, or swimming for 30 minutes daily
- Include resistance exercises 2-3 times per week
- Practice yoga for stress reduction and flexibility`

	if painLevel != nil && *painLevel > 7 {
		exercise += "\n- Focus on gentle stretching and restorative yoga during high pain days"
	}

	wellness := `- Manage stress through meditation and deep breathing
- Ensure 7-8 hours of quality sleep nightly
- Consider supplements like inositol and vitamin D (consult doctor first)
- Track your menstrual cycle and symptoms
- Build a support network of friends, family, or support groups`

	return Sections{Diet: diet, Exercise: exercise, Wellness: wellness}
}

func endometriosisSections(age, painLevel *int) Sections {
	diet := `- Emphasize omega-3 rich foods like salmon, walnuts, and flaxseeds
- Include high-fiber foods to support hormone balance
- Add antioxidant-rich foods like berries, dark chocolate, and green tea
- Limit red meat and processed foods which may increase inflammation
- Consider an anti-inflammatory diet approach`

	if age != nil && *age < 25 {
		diet += "\n- Ensure adequate nutrition for energy and healing"
	} else if age != nil && *age > 35 {
		diet += "\n- Focus on foods that support hormonal balance during potential perimenopause"
	}

	exercise := `- Practice gentle yoga and stretching during flare-ups
- Try low-impact activities like swimming or walking
- Include pelvic floor exercises and core strengthening
- Listen to your body and rest when needed`

	// Severe pain replaces the exercise block entirely with gentler guidance.
	if painLevel != nil && *painLevel > 7 {
		exercise = `- Focus on very gentle movement like stretching or short walks
- Practice restorative yoga poses
- Avoid high-intensity workouts during severe pain
- Consider physical therapy for pelvic floor support`
	}

	wellness := `- Use heat therapy for pain relief (heating pad, warm baths)
- Practice stress reduction techniques like meditation
- Ensure adequate rest and sleep
- Consider acupuncture or massage therapy
- Connect with endometriosis support groups for emotional support`

	return Sections{Diet: diet, Exercise: exercise, Wellness: wellness}
}

func generalSections(age, painLevel *int) Sections {
	diet := `- Maintain a balanced diet rich in fruits and vegetables
- Include whole grains and lean proteins
- Limit processed foods and excessive sugar
- Stay hydrated throughout the day
- Consider consulting a nutritionist for personalized advice`

	if age != nil && *age < 25 {
		diet += "\n- Focus on nutrients important for development and energy"
	} else if age != nil && *age > 35 {
		diet += "\n- Include foods rich in antioxidants and anti-inflammatory properties"
	}

	exercise := `- Engage in regular physical activity suitable for your comfort level
- Start with gentle activities like walking or stretching
- Gradually increase intensity as tolerated
- Include both cardio and strength training
- Make movement enjoyable by choosing activities you like`

	if painLevel != nil && *painLevel > 6 {
		exercise += "\n- Adjust exercise intensity based on pain levels\n- Focus on gentle stretching and movement on difficult days"
	}

	wellness := `- Prioritize sleep hygiene and consistent sleep schedule
- Practice stress management techniques
- Maintain regular medical check-ups
- Keep a health journal to track symptoms and triggers
- Build a strong support system`

	return Sections{Diet: diet, Exercise: exercise, Wellness: wellness}
}
