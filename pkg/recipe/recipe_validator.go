package recipe

import (
	"Recipehub-Backend/domain"
	"fmt"
)

// ValidateRecipePayload checks the aggregate invariants of a write payload
// before any storage mutation: non-empty tag and ingredient sets, no repeated
// references, amounts and cooking time within bounds. Name uniqueness per
// author needs the store and is checked by the service on top of this.
func ValidateRecipePayload(req domain.RecipeWriteRequest) *domain.ValidationError {
	validationErr := domain.NewValidationError()

	if req.Name == "" {
		validationErr.Add("name", "name is required")
	}
	if req.Text == "" {
		validationErr.Add("text", "text is required")
	}
	if req.CookingTime < domain.CookingTimeMin || req.CookingTime > domain.CookingTimeMax {
		validationErr.Add("cooking_time", fmt.Sprintf(
			"cooking time must be between %d and %d", domain.CookingTimeMin, domain.CookingTimeMax,
		))
	}

	if len(req.Tags) == 0 {
		validationErr.Add("tags", "at least one tag is required")
	}
	seenTags := make(map[string]bool, len(req.Tags))
	for _, tagID := range req.Tags {
		if seenTags[tagID] {
			validationErr.Add("tags", "tags must not repeat")
			break
		}
		seenTags[tagID] = true
	}

	if len(req.Ingredients) == 0 {
		validationErr.Add("ingredients", "at least one ingredient is required")
	}
	seenIngredients := make(map[string]bool, len(req.Ingredients))
	for _, item := range req.Ingredients {
		if seenIngredients[item.ID] {
			validationErr.Add("ingredients", "ingredients must not repeat")
			break
		}
		seenIngredients[item.ID] = true
	}
	for _, item := range req.Ingredients {
		if item.Amount < domain.AmountMin || item.Amount > domain.AmountMax {
			validationErr.Add("amount", fmt.Sprintf(
				"ingredient amount must be between %d and %d", domain.AmountMin, domain.AmountMax,
			))
			break
		}
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}
