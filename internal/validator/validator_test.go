package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"weddingbudget/internal/allocation"
)

type wizardRequest struct {
	VenueType string `validate:"venue_type"`
	Style     string `validate:"wedding_style"`
	Season    string `validate:"season"`
	Step      string `validate:"wizard_step"`
}

func TestRegisterWith(t *testing.T) {
	v := validator.New()
	RegisterWith(v, allocation.DefaultTables())

	valid := wizardRequest{VenueType: "castle", Style: "Rustic", Season: "winter", Step: "guests"}

	tests := []struct {
		name      string
		mutate    func(r *wizardRequest)
		wantField string
	}{
		{name: "all valid", mutate: func(*wizardRequest) {}},
		{name: "unknown venue", mutate: func(r *wizardRequest) { r.VenueType = "igloo" }, wantField: "VenueType"},
		{name: "unknown style", mutate: func(r *wizardRequest) { r.Style = "gothic" }, wantField: "Style"},
		{name: "unknown season", mutate: func(r *wizardRequest) { r.Season = "monsoon" }, wantField: "Season"},
		{name: "unknown step", mutate: func(r *wizardRequest) { r.Step = "dessert" }, wantField: "Step"},
		{name: "step keys are case sensitive", mutate: func(r *wizardRequest) { r.Step = "Guests" }, wantField: "Step"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := v.Struct(req)

			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			errs, ok := err.(validator.ValidationErrors)
			if !ok || len(errs) != 1 {
				t.Fatalf("expected one validation error, got %v", err)
			}
			if errs[0].Field() != tt.wantField {
				t.Errorf("expected error on %s, got %s", tt.wantField, errs[0].Field())
			}
		})
	}
}

func TestRegisterWith_CustomTables(t *testing.T) {
	tables := allocation.DefaultTables()
	tables.VenueTypes = map[string]float64{"lighthouse": 1.4}

	v := validator.New()
	RegisterWith(v, tables)

	if err := v.Var("lighthouse", "venue_type"); err != nil {
		t.Errorf("expected configured venue to pass, got %v", err)
	}
	if err := v.Var("hotel", "venue_type"); err == nil {
		t.Error("expected venue missing from the tables to fail")
	}
}
