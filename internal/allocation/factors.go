package allocation

import (
	"errors"
	"fmt"
)

// Lookup kinds reported by ConfigNotFoundError.
const (
	KindVenueType = "venue_type"
	KindStyle     = "style"
	KindSeason    = "season"
)

// ErrConfigNotFound matches any ConfigNotFoundError via errors.Is.
var ErrConfigNotFound = errors.New("configuration not found")

// ConfigNotFoundError reports a categorical key missing from the tables.
type ConfigNotFoundError struct {
	Kind string
	Key  string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("%s %q: configuration not found", e.Kind, e.Key)
}

// Is makes errors.Is(err, ErrConfigNotFound) hold.
func (e *ConfigNotFoundError) Is(target error) bool {
	return target == ErrConfigNotFound
}

// Multipliers are the resolved factors for one calculation.
type Multipliers struct {
	Venue  float64
	Style  StyleProfile
	Season float64
}

// NeutralMultipliers leaves every base percentage unchanged.
func NeutralMultipliers() Multipliers {
	return Multipliers{Venue: 1.0, Style: StyleProfile{}, Season: 1.0}
}

// VenueMultiplier looks up the multiplier for a venue type.
func (t Tables) VenueMultiplier(key string) (float64, error) {
	m, ok := t.VenueTypes[normalizeKey(key)]
	if !ok {
		return 0, &ConfigNotFoundError{Kind: KindVenueType, Key: key}
	}
	return m, nil
}

// StyleProfile looks up the per-category multipliers for a wedding style.
func (t Tables) StyleProfile(key string) (StyleProfile, error) {
	p, ok := t.Styles[normalizeKey(key)]
	if !ok {
		return nil, &ConfigNotFoundError{Kind: KindStyle, Key: key}
	}
	return p, nil
}

// SeasonMultiplier looks up the multiplier for a season.
func (t Tables) SeasonMultiplier(key string) (float64, error) {
	m, ok := t.Seasons[normalizeKey(key)]
	if !ok {
		return 0, &ConfigNotFoundError{Kind: KindSeason, Key: key}
	}
	return m, nil
}

// Resolve looks up all three factors. Every miss is replaced by the neutral
// multiplier in the returned value and reported in the joined error, so the
// result is always usable.
func (t Tables) Resolve(venueType, style, season string) (Multipliers, error) {
	m := NeutralMultipliers()
	var errs []error

	if v, err := t.VenueMultiplier(venueType); err != nil {
		errs = append(errs, err)
	} else {
		m.Venue = v
	}

	if p, err := t.StyleProfile(style); err != nil {
		errs = append(errs, err)
	} else {
		m.Style = p
	}

	if s, err := t.SeasonMultiplier(season); err != nil {
		errs = append(errs, err)
	} else {
		m.Season = s
	}

	return m, errors.Join(errs...)
}
