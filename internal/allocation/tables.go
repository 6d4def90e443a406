// Package allocation implements the wedding budget allocation engine: factor
// resolution, category allocation, per-guest efficiency classification and
// rule-based recommendations. It performs no I/O; all lookup data is carried
// by an immutable Tables value injected at construction.
package allocation

import (
	"fmt"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Normalization selects how adjusted category shares are turned into amounts.
type Normalization string

const (
	// NormalizationLegacy applies adjusted shares to the total as-is and
	// rounds each displayed percentage independently. Amounts may add up to
	// more or less than the total. This is the default.
	NormalizationLegacy Normalization = "legacy"
	// NormalizationProportional rescales adjusted shares to sum to 100 and
	// apportions amounts and displayed percentages by largest remainder.
	// Venue and season multipliers scale every category alike, so they
	// cancel out in this mode and only style changes the breakdown.
	NormalizationProportional Normalization = "proportional"
)

// CategoryWeight is a spending bucket with its default share of the budget.
type CategoryWeight struct {
	ID             string  `yaml:"id" json:"id"`
	Name           string  `yaml:"name" json:"name"`
	BasePercentage float64 `yaml:"base_percentage" json:"base_percentage"`
	SavingsTip     string  `yaml:"savings_tip" json:"savings_tip,omitempty"`
}

// StyleProfile maps category IDs to the multiplier a wedding style applies.
// Categories absent from the profile use 1.0.
type StyleProfile map[string]float64

// Multiplier returns the style multiplier for a category.
func (p StyleProfile) Multiplier(categoryID string) float64 {
	if m, ok := p[categoryID]; ok {
		return m
	}
	return 1.0
}

// Thresholds are the per-guest amounts separating efficiency tiers.
type Thresholds struct {
	Tight    float64 `yaml:"tight" json:"tight"`
	Generous float64 `yaml:"generous" json:"generous"`
}

// Tables is the complete lookup configuration for the engine.
type Tables struct {
	Categories    []CategoryWeight        `yaml:"categories" json:"categories"`
	VenueTypes    map[string]float64      `yaml:"venue_types" json:"venue_types"`
	Styles        map[string]StyleProfile `yaml:"styles" json:"styles"`
	Seasons       map[string]float64      `yaml:"seasons" json:"seasons"`
	Efficiency    Thresholds              `yaml:"efficiency" json:"efficiency"`
	Normalization Normalization           `yaml:"normalization" json:"normalization"`
}

// DefaultTables returns the built-in category weights and multipliers.
func DefaultTables() Tables {
	return Tables{
		Categories: []CategoryWeight{
			{ID: "venue", Name: "Venue", BasePercentage: 40,
				SavingsTip: "Ask venues for off-peak or weekday pricing and check which extras are already included."},
			{ID: "catering", Name: "Catering", BasePercentage: 15,
				SavingsTip: "A buffet or family-style service is usually cheaper per head than a plated dinner."},
			{ID: "photography", Name: "Photography & Video", BasePercentage: 10,
				SavingsTip: "Book the photographer for the key hours only instead of full-day coverage."},
			{ID: "dress", Name: "Attire", BasePercentage: 8,
				SavingsTip: "Sample sales, rentals and pre-owned gowns cut attire costs considerably."},
			{ID: "flowers", Name: "Flowers", BasePercentage: 6,
				SavingsTip: "Seasonal, locally grown flowers cost far less than imported blooms."},
			{ID: "music", Name: "Music & Entertainment", BasePercentage: 6,
				SavingsTip: "A DJ for the party and a playlist for dinner is cheaper than a band for the whole evening."},
			{ID: "rings", Name: "Rings", BasePercentage: 5,
				SavingsTip: "Consider alternative metals or lab-grown stones."},
			{ID: "decoration", Name: "Decoration", BasePercentage: 5,
				SavingsTip: "Reuse ceremony decorations at the reception and borrow items from recent couples."},
			{ID: "other", Name: "Other & Buffer", BasePercentage: 5,
				SavingsTip: "Digital invitations save on printing and postage."},
		},
		VenueTypes: map[string]float64{
			"community_hall": 0.7,
			"barn":           0.85,
			"garden":         0.9,
			"restaurant":     1.0,
			"beach":          1.1,
			"hotel":          1.2,
			"castle":         1.5,
			"destination":    1.8,
		},
		Styles: map[string]StyleProfile{
			"classic":    {},
			"elegant":    {"venue": 1.2, "dress": 1.3, "flowers": 1.1, "photography": 1.1},
			"rustic":     {"venue": 0.9, "flowers": 0.9, "decoration": 0.8},
			"boho":       {"flowers": 1.2, "decoration": 1.1, "dress": 0.9},
			"modern":     {"photography": 1.2, "music": 1.1, "decoration": 0.9},
			"minimalist": {"venue": 0.9, "flowers": 0.8, "decoration": 0.7},
			"luxury":     {"venue": 1.3, "catering": 1.2, "dress": 1.4, "rings": 1.3, "flowers": 1.3},
		},
		Seasons: map[string]float64{
			"spring": 1.0,
			"summer": 1.2,
			"autumn": 1.05,
			"winter": 0.85,
		},
		Efficiency:    Thresholds{Tight: 120, Generous: 250},
		Normalization: NormalizationLegacy,
	}
}

// LoadTables reads a YAML file over the default tables. Lists in the file
// replace the defaults; map entries are merged key by key.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()

	data, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read allocation tables: %w", err)
	}
	if err := yaml.Unmarshal(data, &tables); err != nil {
		return Tables{}, fmt.Errorf("parse allocation tables: %w", err)
	}
	tables = tables.normalized()

	if err := tables.Validate(); err != nil {
		return Tables{}, fmt.Errorf("invalid allocation tables: %w", err)
	}
	return tables, nil
}

// Validate checks that base percentages sum to 100 and that no weight or
// multiplier is negative.
func (t Tables) Validate() error {
	if len(t.Categories) == 0 {
		return fmt.Errorf("no categories configured")
	}

	seen := make(map[string]bool, len(t.Categories))
	var sum float64
	for _, c := range t.Categories {
		if c.ID == "" {
			return fmt.Errorf("category with empty id")
		}
		if seen[c.ID] {
			return fmt.Errorf("duplicate category %q", c.ID)
		}
		seen[c.ID] = true
		if c.BasePercentage < 0 {
			return fmt.Errorf("negative base percentage for %q: %f", c.ID, c.BasePercentage)
		}
		sum += c.BasePercentage
	}
	if math.Abs(sum-100) > 0.001 {
		return fmt.Errorf("base percentages sum to %.4f, must sum to 100", sum)
	}

	for key, m := range t.VenueTypes {
		if m < 0 {
			return fmt.Errorf("negative venue multiplier for %q: %f", key, m)
		}
	}
	for key, m := range t.Seasons {
		if m < 0 {
			return fmt.Errorf("negative season multiplier for %q: %f", key, m)
		}
	}
	for key, profile := range t.Styles {
		for cat, m := range profile {
			if !seen[cat] {
				return fmt.Errorf("style %q references unknown category %q", key, cat)
			}
			if m < 0 {
				return fmt.Errorf("negative style multiplier for %q/%q: %f", key, cat, m)
			}
		}
	}

	if t.Efficiency.Tight <= 0 || t.Efficiency.Tight >= t.Efficiency.Generous {
		return fmt.Errorf("efficiency thresholds must satisfy 0 < tight < generous, got %.2f/%.2f",
			t.Efficiency.Tight, t.Efficiency.Generous)
	}

	switch t.Normalization {
	case NormalizationProportional, NormalizationLegacy:
	default:
		return fmt.Errorf("unknown normalization %q", t.Normalization)
	}
	return nil
}

// Clone returns a deep copy so callers cannot mutate an engine's tables.
func (t Tables) Clone() Tables {
	out := Tables{
		Categories:    append([]CategoryWeight(nil), t.Categories...),
		VenueTypes:    make(map[string]float64, len(t.VenueTypes)),
		Styles:        make(map[string]StyleProfile, len(t.Styles)),
		Seasons:       make(map[string]float64, len(t.Seasons)),
		Efficiency:    t.Efficiency,
		Normalization: t.Normalization,
	}
	for k, v := range t.VenueTypes {
		out.VenueTypes[k] = v
	}
	for k, v := range t.Seasons {
		out.Seasons[k] = v
	}
	for k, profile := range t.Styles {
		p := make(StyleProfile, len(profile))
		for cat, m := range profile {
			p[cat] = m
		}
		out.Styles[k] = p
	}
	return out
}

// normalized lower-cases lookup keys and fills an empty normalization mode.
func (t Tables) normalized() Tables {
	out := t.Clone()
	out.VenueTypes = lowerKeys(t.VenueTypes)
	out.Seasons = lowerKeys(t.Seasons)
	out.Styles = make(map[string]StyleProfile, len(t.Styles))
	for k, v := range t.Styles {
		out.Styles[normalizeKey(k)] = v
	}
	if out.Normalization == "" {
		out.Normalization = NormalizationLegacy
	}
	return out
}

func lowerKeys(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[normalizeKey(k)] = v
	}
	return out
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
