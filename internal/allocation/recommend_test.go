package allocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommend_BalancedSummerElegant(t *testing.T) {
	tables := DefaultTables()
	in := Input{TotalBudget: 15000, GuestCount: 80, VenueType: "hotel", Style: "elegant", Season: "summer"}
	perGuest := 187.5
	m, err := tables.Resolve(in.VenueType, in.Style, in.Season)
	require.NoError(t, err)
	cats := Allocate(tables.Categories, in.TotalBudget, m, tables.Normalization)

	recs, tips := Recommend(tables, in, &perGuest, cats)

	assert.Equal(t, []string{
		"Your budget per guest is balanced. Prioritise the two or three categories that matter most to you.",
		"Summer is peak season. Book your venue and photographer at least 12 months ahead.",
		"Formal styles add up quickly. Ask for itemised quotes for attire and florals.",
		"Keep 5 to 10 percent of the budget in reserve for unexpected costs.",
	}, recs)
	assert.Equal(t, []string{
		tables.Categories[0].SavingsTip,
		tables.Categories[1].SavingsTip,
		tables.Categories[2].SavingsTip,
	}, tips)
}

func TestRecommend_TightLargeWinterRustic(t *testing.T) {
	tables := DefaultTables()
	in := Input{TotalBudget: 12000, GuestCount: 150, VenueType: "barn", Style: "rustic", Season: "winter"}
	perGuest := 80.0

	recs, _ := Recommend(tables, in, &perGuest, nil)

	assert.Equal(t, []string{
		"Your budget per guest is tight. Consider trimming the guest list or choosing a buffet over a plated dinner.",
		"Friday and Sunday dates often come with noticeably lower venue rates.",
		"Winter dates are off-peak. Ask venues about seasonal discounts.",
		"DIY decorations and seasonal local flowers suit your style and keep costs down.",
		"With a large guest list the catering cost per head drives the total. Compare per-person menus carefully.",
		"Keep 5 to 10 percent of the budget in reserve for unexpected costs.",
	}, recs)
}

func TestRecommend_GenerousAndUndefined(t *testing.T) {
	tables := DefaultTables()
	in := Input{TotalBudget: 60000, GuestCount: 60, VenueType: "castle", Style: "classic", Season: "autumn"}

	perGuest := 1000.0
	recs, _ := Recommend(tables, in, &perGuest, nil)
	require.NotEmpty(t, recs)
	assert.Contains(t, recs[0], "generous")

	recs, _ = Recommend(tables, Input{}, nil, nil)
	assert.Equal(t, []string{
		"Add your guest count to see guidance on your budget per guest.",
		"Keep 5 to 10 percent of the budget in reserve for unexpected costs.",
	}, recs)
}

func TestRecommend_TipsSkipEmptyCategories(t *testing.T) {
	tables := DefaultTables()
	cats := Allocate(tables.Categories, 0, NeutralMultipliers(), tables.Normalization)

	_, tips := Recommend(tables, Input{}, nil, cats)
	assert.Empty(t, tips)
}
