package allocation

import (
	"errors"
	"fmt"
)

// Input is the request for one budget calculation.
type Input struct {
	TotalBudget int64  `json:"total_budget"`
	GuestCount  int    `json:"guest_count"`
	VenueType   string `json:"venue_type"`
	Style       string `json:"style"`
	Season      string `json:"season"`
}

// ValidationError is a field-level input problem.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks every field against the tables and returns all problems
// joined, or nil.
func (in Input) Validate(t Tables) error {
	var errs []error
	for _, step := range StepsFromInput(in) {
		if err := step.Validate(t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// FieldErrors flattens an error returned by Validate or Draft.Apply.
func FieldErrors(err error) []*ValidationError {
	if err == nil {
		return nil
	}
	var out []*ValidationError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		out = append(out, ve)
	}
	return out
}
