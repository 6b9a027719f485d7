/*
catalog.go - Built-in achievement catalog

PURPOSE:
  The fixed set of achievements the app ships with. Hosts may replace or
  extend it via factory.ParseCatalog (custom JSON catalogs); evaluation
  treats any []Definition the same way.

POINT VALUES / RARITY:
  Display metadata only. Evaluation ignores both.
*/
package achievements

// DefaultCatalog returns the built-in catalog. The slice is freshly
// allocated per call so callers can append without aliasing surprises.
func DefaultCatalog() []Definition {
	return []Definition{
		{
			ID:          "first-contribution",
			Name:        "First Step",
			Description: "Make your first contribution",
			Category:    CategoryContribution,
			Points:      10,
			Rarity:      RarityCommon,
			Requirements: []Requirement{
				{Counter: CounterContributionCount, Target: 1},
			},
		},
		{
			ID:          "ten-contributions",
			Name:        "Regular",
			Description: "Make ten contributions",
			Category:    CategoryContribution,
			Points:      25,
			Rarity:      RarityCommon,
			Requirements: []Requirement{
				{Counter: CounterContributionCount, Target: 10},
			},
		},
		{
			ID:          "thousand-club",
			Name:        "Thousand Club",
			Description: "Contribute a total of 1,000",
			Category:    CategoryContribution,
			Points:      50,
			Rarity:      RarityUncommon,
			Requirements: []Requirement{
				{Counter: CounterContributionAmount, Target: 1000},
			},
		},
		{
			ID:          "first-goal",
			Name:        "Goal Getter",
			Description: "Fully fund a shared goal",
			Category:    CategoryGoals,
			Points:      50,
			Rarity:      RarityUncommon,
			Requirements: []Requirement{
				{Counter: CounterGoalCompletion, Target: 1},
			},
		},
		{
			ID:          "three-goals",
			Name:        "Serial Saver",
			Description: "Fully fund three shared goals",
			Category:    CategoryGoals,
			Points:      100,
			Rarity:      RarityRare,
			Requirements: []Requirement{
				{Counter: CounterGoalCompletion, Target: 3},
			},
		},
		{
			ID:          "quarter-streak",
			Name:        "Quarter Streak",
			Description: "Contribute three months in a row",
			Category:    CategoryStreaks,
			Points:      30,
			Rarity:      RarityCommon,
			Requirements: []Requirement{
				{Counter: CounterStreakLength, Target: 3},
			},
		},
		{
			ID:          "year-streak",
			Name:        "Twelve Strong",
			Description: "Contribute twelve months in a row",
			Category:    CategoryStreaks,
			Points:      150,
			Rarity:      RarityLegendary,
			Requirements: []Requirement{
				{Counter: CounterStreakLength, Target: 12},
			},
		},
		{
			ID:          "anniversary",
			Name:        "Anniversary",
			Description: "Track finances together for a year",
			Category:    CategoryPartnership,
			Points:      75,
			Rarity:      RarityRare,
			Requirements: []Requirement{
				{Counter: CounterPartnershipDuration, Target: 12},
			},
		},
		{
			ID:          "safety-first",
			Name:        "Safety First",
			Description: "Build a 5,000 safety pot",
			Category:    CategorySafetyNet,
			Points:      100,
			Rarity:      RarityRare,
			Requirements: []Requirement{
				{Counter: CounterSafetyPotAmount, Target: 5000},
			},
		},
		{
			// Multi-requirement: both legs must land (min semantics).
			ID:          "committed",
			Name:        "Committed",
			Description: "Six-month streak and 5,000 contributed",
			Category:    CategoryPartnership,
			Points:      200,
			Rarity:      RarityLegendary,
			Requirements: []Requirement{
				{Counter: CounterStreakLength, Target: 6},
				{Counter: CounterContributionAmount, Target: 5000},
			},
		},
	}
}
