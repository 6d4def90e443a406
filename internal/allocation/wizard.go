package allocation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

// StepKey names one page of the budget wizard.
type StepKey string

const (
	StepBudget StepKey = "budget"
	StepGuests StepKey = "guests"
	StepVenue  StepKey = "venue"
	StepStyle  StepKey = "style"
	StepSeason StepKey = "season"
)

// StepOrder is the order in which the wizard presents its steps.
var StepOrder = []StepKey{StepBudget, StepGuests, StepVenue, StepStyle, StepSeason}

// ErrIncompleteDraft is returned by Draft.Build when steps are missing.
var ErrIncompleteDraft = errors.New("budget draft is incomplete")

// ErrUnknownStep is returned by ParseStep for an unrecognised key.
var ErrUnknownStep = errors.New("unknown wizard step")

// Step is one validated piece of a budget input.
type Step interface {
	Key() StepKey
	Validate(t Tables) error
	apply(in *Input)
}

// BudgetStep carries the total budget.
type BudgetStep struct {
	TotalBudget int64 `json:"total_budget"`
}

func (BudgetStep) Key() StepKey { return StepBudget }

func (s BudgetStep) Validate(Tables) error {
	if s.TotalBudget <= 0 {
		return &ValidationError{Field: "total_budget", Message: "must be greater than zero"}
	}
	return nil
}

func (s BudgetStep) apply(in *Input) { in.TotalBudget = s.TotalBudget }

// GuestsStep carries the guest count.
type GuestsStep struct {
	GuestCount int `json:"guest_count"`
}

func (GuestsStep) Key() StepKey { return StepGuests }

func (s GuestsStep) Validate(Tables) error {
	if s.GuestCount <= 0 {
		return &ValidationError{Field: "guest_count", Message: "must be greater than zero"}
	}
	return nil
}

func (s GuestsStep) apply(in *Input) { in.GuestCount = s.GuestCount }

// VenueStep carries the venue type.
type VenueStep struct {
	VenueType string `json:"venue_type"`
}

func (VenueStep) Key() StepKey { return StepVenue }

func (s VenueStep) Validate(t Tables) error {
	if _, err := t.VenueMultiplier(s.VenueType); err != nil {
		return &ValidationError{Field: "venue_type", Message: "must be one of " + joinKeys(t.VenueTypes)}
	}
	return nil
}

func (s VenueStep) apply(in *Input) { in.VenueType = normalizeKey(s.VenueType) }

// StyleStep carries the wedding style.
type StyleStep struct {
	Style string `json:"style"`
}

func (StyleStep) Key() StepKey { return StepStyle }

func (s StyleStep) Validate(t Tables) error {
	if _, err := t.StyleProfile(s.Style); err != nil {
		keys := make(map[string]float64, len(t.Styles))
		for k := range t.Styles {
			keys[k] = 0
		}
		return &ValidationError{Field: "style", Message: "must be one of " + joinKeys(keys)}
	}
	return nil
}

func (s StyleStep) apply(in *Input) { in.Style = normalizeKey(s.Style) }

// SeasonStep carries the season.
type SeasonStep struct {
	Season string `json:"season"`
}

func (SeasonStep) Key() StepKey { return StepSeason }

func (s SeasonStep) Validate(t Tables) error {
	if _, err := t.SeasonMultiplier(s.Season); err != nil {
		return &ValidationError{Field: "season", Message: "must be one of " + joinKeys(t.Seasons)}
	}
	return nil
}

func (s SeasonStep) apply(in *Input) { in.Season = normalizeKey(s.Season) }

// StepsFromInput splits a complete input into its wizard steps.
func StepsFromInput(in Input) []Step {
	return []Step{
		BudgetStep{TotalBudget: in.TotalBudget},
		GuestsStep{GuestCount: in.GuestCount},
		VenueStep{VenueType: in.VenueType},
		StyleStep{Style: in.Style},
		SeasonStep{Season: in.Season},
	}
}

// ParseStep decodes a JSON payload for the given step key.
func ParseStep(key string, payload []byte) (Step, error) {
	var step Step
	switch StepKey(key) {
	case StepBudget:
		var s BudgetStep
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s step: %w", key, err)
		}
		step = s
	case StepGuests:
		var s GuestsStep
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s step: %w", key, err)
		}
		step = s
	case StepVenue:
		var s VenueStep
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s step: %w", key, err)
		}
		step = s
	case StepStyle:
		var s StyleStep
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s step: %w", key, err)
		}
		step = s
	case StepSeason:
		var s SeasonStep
		if err := json.Unmarshal(payload, &s); err != nil {
			return nil, fmt.Errorf("decode %s step: %w", key, err)
		}
		step = s
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStep, key)
	}
	return step, nil
}

// Draft accumulates validated wizard steps until an Input can be built.
// The zero value is ready to use.
type Draft struct {
	steps map[StepKey]Step
}

// Apply validates a step and stores it, replacing any earlier value for the
// same key. Invalid steps leave the draft unchanged.
func (d *Draft) Apply(t Tables, step Step) error {
	if err := step.Validate(t); err != nil {
		return err
	}
	if d.steps == nil {
		d.steps = make(map[StepKey]Step, len(StepOrder))
	}
	d.steps[step.Key()] = step
	return nil
}

// Missing lists the steps not yet applied, in wizard order.
func (d *Draft) Missing() []StepKey {
	var missing []StepKey
	for _, key := range StepOrder {
		if _, ok := d.steps[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// Build assembles the input once every step is present.
func (d *Draft) Build() (Input, error) {
	if missing := d.Missing(); len(missing) > 0 {
		names := make([]string, len(missing))
		for i, k := range missing {
			names[i] = string(k)
		}
		return Input{}, fmt.Errorf("%w: missing %s", ErrIncompleteDraft, strings.Join(names, ", "))
	}
	var in Input
	for _, key := range StepOrder {
		d.steps[key].apply(&in)
	}
	return in, nil
}

func joinKeys(m map[string]float64) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
