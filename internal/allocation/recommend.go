package allocation

const (
	largeGuestList = 120
	maxSavingsTips = 3
)

// Recommend produces rule-based advice for an input. The output depends only
// on its arguments and is never empty.
func Recommend(t Tables, in Input, perGuest *float64, categories []CategoryResult) (recommendations, savingsTips []string) {
	switch {
	case perGuest == nil:
		recommendations = append(recommendations,
			"Add your guest count to see guidance on your budget per guest.")
	case *perGuest < t.Efficiency.Tight:
		recommendations = append(recommendations,
			"Your budget per guest is tight. Consider trimming the guest list or choosing a buffet over a plated dinner.",
			"Friday and Sunday dates often come with noticeably lower venue rates.")
	case *perGuest <= t.Efficiency.Generous:
		recommendations = append(recommendations,
			"Your budget per guest is balanced. Prioritise the two or three categories that matter most to you.")
	default:
		recommendations = append(recommendations,
			"Your budget per guest is generous. There is room for upgrades such as live music or a photo booth.")
	}

	switch normalizeKey(in.Season) {
	case "summer":
		recommendations = append(recommendations,
			"Summer is peak season. Book your venue and photographer at least 12 months ahead.")
	case "winter":
		recommendations = append(recommendations,
			"Winter dates are off-peak. Ask venues about seasonal discounts.")
	case "spring", "autumn":
		recommendations = append(recommendations,
			"Shoulder-season dates balance weather and price. Lock in key vendors early.")
	}

	switch normalizeKey(in.Style) {
	case "rustic", "boho":
		recommendations = append(recommendations,
			"DIY decorations and seasonal local flowers suit your style and keep costs down.")
	case "elegant", "luxury":
		recommendations = append(recommendations,
			"Formal styles add up quickly. Ask for itemised quotes for attire and florals.")
	case "modern", "minimalist":
		recommendations = append(recommendations,
			"A clean setting needs less decoration, so consider shifting budget to photography.")
	}

	if in.GuestCount > largeGuestList {
		recommendations = append(recommendations,
			"With a large guest list the catering cost per head drives the total. Compare per-person menus carefully.")
	}

	recommendations = append(recommendations,
		"Keep 5 to 10 percent of the budget in reserve for unexpected costs.")

	tips := make(map[string]string, len(t.Categories))
	for _, c := range t.Categories {
		tips[c.ID] = c.SavingsTip
	}
	for _, c := range categories {
		if len(savingsTips) == maxSavingsTips {
			break
		}
		if c.Amount <= 0 || tips[c.ID] == "" {
			continue
		}
		savingsTips = append(savingsTips, tips[c.ID])
	}

	return recommendations, savingsTips
}
