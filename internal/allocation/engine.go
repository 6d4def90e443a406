package allocation

import (
	"fmt"

	"go.uber.org/zap"
)

// Recommendation sources.
const (
	SourceRules     = "rules"
	SourceGenerated = "generated"
)

// Result is the full output of one calculation.
type Result struct {
	Categories           []CategoryResult `json:"categories"`
	TotalBudget          int64            `json:"total_budget"`
	GuestCount           int              `json:"guest_count"`
	PerGuestAmount       *float64         `json:"per_guest_amount"`
	Efficiency           Tier             `json:"efficiency"`
	Recommendations      []string         `json:"recommendations"`
	SavingsTips          []string         `json:"savings_tips"`
	RecommendationSource string           `json:"recommendation_source"`
	Warnings             []string         `json:"warnings,omitempty"`
}

// Engine runs calculations against a fixed set of tables.
type Engine struct {
	tables Tables
	log    *zap.SugaredLogger
}

// NewEngine validates tables and returns an engine holding a private copy.
// A nil logger discards output.
func NewEngine(tables Tables, log *zap.SugaredLogger) (*Engine, error) {
	tables = tables.normalized()
	if err := tables.Validate(); err != nil {
		return nil, fmt.Errorf("invalid allocation tables: %w", err)
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Engine{tables: tables, log: log}, nil
}

// Tables returns a copy of the engine's configuration.
func (e *Engine) Tables() Tables {
	return e.tables.Clone()
}

// Calculate allocates the budget, classifies the per-guest amount and
// attaches rule-based recommendations. It never fails: unknown keys fall
// back to neutral multipliers and a non-positive guest count leaves the
// per-guest amount undefined.
func (e *Engine) Calculate(in Input) *Result {
	result := &Result{
		TotalBudget:          in.TotalBudget,
		GuestCount:           in.GuestCount,
		RecommendationSource: SourceRules,
	}

	multipliers, err := e.tables.Resolve(in.VenueType, in.Style, in.Season)
	if err != nil {
		for _, miss := range unwrapAll(err) {
			e.log.Warnw("allocation lookup miss, using neutral multiplier", "error", miss.Error())
			result.Warnings = append(result.Warnings, miss.Error())
		}
	}

	result.Categories = Allocate(e.tables.Categories, in.TotalBudget, multipliers, e.tables.Normalization)

	if perGuest, err := PerGuestAmount(in.TotalBudget, in.GuestCount); err == nil {
		result.PerGuestAmount = &perGuest
		result.Efficiency = e.tables.Efficiency.Classify(perGuest)
	} else {
		result.Efficiency = TierUndefined
		result.Warnings = append(result.Warnings, err.Error())
	}

	result.Recommendations, result.SavingsTips = Recommend(e.tables, in, result.PerGuestAmount, result.Categories)
	return result
}

func unwrapAll(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}
