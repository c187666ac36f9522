package loader

import (
	"fmt"
	"os"
	"strings"

	"github.com/nathoo/pilgrim/engine/state"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

// validate checks the compiled defs for referential integrity and consistency.
func validate(defs *state.Defs) error {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}

	// Recipe costs and results reference known items.
	for name, recipe := range defs.Recipes {
		for ingredient := range recipe.Costs {
			if _, ok := defs.Items[ingredient]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"recipe %q cost %q is not a defined item", name, ingredient))
			}
		}
		if _, ok := defs.Items[recipe.Result]; !ok {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"recipe %q result %q is not a defined item", name, recipe.Result))
		}
		if recipe.Profession != "" {
			if _, ok := defs.Professions[recipe.Profession]; !ok {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"recipe %q requires undefined profession %q", name, recipe.Profession))
			}
		}
	}

	// Item treat lists reference known injury types.
	for name, item := range defs.Items {
		for _, injuryType := range item.Treats {
			if _, ok := defs.Injuries[injuryType]; !ok {
				ve.Warnings = append(ve.Warnings, fmt.Sprintf(
					"item %q treats undefined injury type %q", name, injuryType))
			}
		}
	}

	// Animal odds stay inside percentages, yields inside their range.
	for name, animal := range defs.Animals {
		if animal.SuccessChance < 0 || animal.SuccessChance > 100 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"animal %q chance %d is not a percentage", name, animal.SuccessChance))
		}
		if animal.InjuryRisk < 0 || animal.InjuryRisk > 100 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"animal %q injury_risk %d is not a percentage", name, animal.InjuryRisk))
		}
		if animal.FoodYieldMin > animal.FoodYieldMax {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"animal %q yield_min %d exceeds yield_max %d",
				name, animal.FoodYieldMin, animal.FoodYieldMax))
		}
	}

	// Injury severity ranges ordered.
	for name, injury := range defs.Injuries {
		if injury.MinSeverity > injury.MaxSeverity {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"injury %q min_severity exceeds max_severity", name))
		}
	}

	// Routes have at least one checkpoint with strictly ascending distances.
	for name, route := range defs.Routes {
		if len(route.Checkpoints) == 0 {
			ve.Errors = append(ve.Errors, fmt.Sprintf(
				"route %q has no checkpoints", name))
			continue
		}
		prev := 0
		for _, cp := range route.Checkpoints {
			if cp.Name == "" {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"route %q has an unnamed checkpoint", name))
			}
			if cp.Distance <= prev {
				ve.Errors = append(ve.Errors, fmt.Sprintf(
					"route %q checkpoint %q distance %d is not ascending",
					name, cp.Name, cp.Distance))
			}
			prev = cp.Distance
		}
	}

	// Print warnings to stderr.
	for _, w := range ve.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}

	if len(ve.Errors) > 0 {
		return ve
	}
	return nil
}
