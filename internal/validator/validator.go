// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"weddingbudget/internal/allocation"
)

// Register registers all custom validators with the Gin binding engine.
// Enum rules accept exactly the keys present in the given tables.
func Register(t allocation.Tables) {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		RegisterWith(v, t)
	}
}

// RegisterWith installs the custom rules on an explicit validator instance.
func RegisterWith(v *validator.Validate, t allocation.Tables) {
	_ = v.RegisterValidation("venue_type", func(fl validator.FieldLevel) bool {
		_, err := t.VenueMultiplier(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("wedding_style", func(fl validator.FieldLevel) bool {
		_, err := t.StyleProfile(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("season", func(fl validator.FieldLevel) bool {
		_, err := t.SeasonMultiplier(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("wizard_step", validateWizardStep)
}

func validateWizardStep(fl validator.FieldLevel) bool {
	key := allocation.StepKey(fl.Field().String())
	for _, step := range allocation.StepOrder {
		if step == key {
			return true
		}
	}
	return false
}
