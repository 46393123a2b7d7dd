package recipe

import (
	"Recipehub-Backend/domain"
	"Recipehub-Backend/entities"
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) error
		ReplaceRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) error
		DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error
		GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error)
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) ([]*entities.Recipe, int64, error)
		GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, int64, error)
		CountByAuthorAndName(ctx context.Context, authorID uuid.UUID, name string, excludeID uuid.UUID) (int64, error)

		AddMembership(ctx context.Context, userID, recipeID uuid.UUID, relation domain.MembershipRelation) error
		RemoveMembership(ctx context.Context, userID, recipeID uuid.UUID, relation domain.MembershipRelation) error
		HasMembership(ctx context.Context, userID, recipeID string, relation domain.MembershipRelation) (bool, error)
		IsSubscribed(ctx context.Context, userID, authorID string) (bool, error)

		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	recipeRepository struct {
		db *gorm.DB
	}
)

func NewRecipeRepository(db *gorm.DB) RecipeRepository {
	return &recipeRepository{db: db}
}

// CreateRecipe inserts the recipe row together with its tag and ingredient
// links as one transaction. A missing tag or ingredient reference rolls the
// whole write back.
func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, tagIDs, ingredients); err != nil {
			return err
		}

		if err := tx.Create(recipe).Error; err != nil {
			return err
		}

		return insertLinks(tx, recipe.ID, tagIDs, ingredients)
	})
}

// ReplaceRecipe updates the scalar fields and fully replaces both association
// sets: existing links are deleted and the supplied sets inserted, all inside
// one transaction.
func (r *recipeRepository) ReplaceRecipe(ctx context.Context, recipe *entities.Recipe, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, tagIDs, ingredients); err != nil {
			return err
		}

		if err := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Updates(map[string]any{
				"name":         recipe.Name,
				"text":         recipe.Text,
				"cooking_time": recipe.CookingTime,
				"image_url":    recipe.ImageURL,
			}).Error; err != nil {
			return err
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}

		return insertLinks(tx, recipe.ID, tagIDs, ingredients)
	})
}

func checkReferences(tx *gorm.DB, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) error {
	var tagCount int64
	if err := tx.Model(&entities.Tag{}).Where("id IN ?", tagIDs).Count(&tagCount).Error; err != nil {
		return err
	}
	if tagCount != int64(len(tagIDs)) {
		return domain.ErrTagNotFound
	}

	ingredientIDs := make([]uuid.UUID, 0, len(ingredients))
	for _, item := range ingredients {
		ingredientIDs = append(ingredientIDs, item.IngredientID)
	}
	var ingredientCount int64
	if err := tx.Model(&entities.Ingredient{}).Where("id IN ?", ingredientIDs).Count(&ingredientCount).Error; err != nil {
		return err
	}
	if ingredientCount != int64(len(ingredientIDs)) {
		return domain.ErrIngredientNotFound
	}

	return nil
}

func insertLinks(tx *gorm.DB, recipeID uuid.UUID, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) error {
	tagLinks := make([]entities.RecipeTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		tagLinks = append(tagLinks, entities.RecipeTag{
			ID:       uuid.New(),
			RecipeID: recipeID,
			TagID:    tagID,
		})
	}
	if err := tx.Create(&tagLinks).Error; err != nil {
		return err
	}

	ingredientLinks := make([]entities.RecipeIngredient, 0, len(ingredients))
	for _, item := range ingredients {
		ingredientLinks = append(ingredientLinks, entities.RecipeIngredient{
			ID:           uuid.New(),
			RecipeID:     recipeID,
			IngredientID: item.IngredientID,
			Amount:       item.Amount,
		})
	}
	return tx.Create(&ingredientLinks).Error
}

// DeleteRecipe removes the recipe and cascades its links and membership rows.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, recipeID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipeID).Delete(&entities.ShoppingCart{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", recipeID).Delete(&entities.Recipe{}).Error
	})
}

func (r *recipeRepository) GetRecipeByID(ctx context.Context, id string) (*entities.Recipe, error) {
	var recipe entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient").
		Where("id = ?", id).
		First(&recipe).Error; err != nil {
		return nil, err
	}
	return &recipe, nil
}

func (r *recipeRepository) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64
	offset := (page - 1) * limit

	applyFilter := func(query *gorm.DB) *gorm.DB {
		if len(filter.TagSlugs) > 0 {
			query = query.Where(
				"recipes.id IN (SELECT recipe_tags.recipe_id FROM recipe_tags JOIN tags ON tags.id = recipe_tags.tag_id WHERE tags.slug IN ?)",
				filter.TagSlugs,
			)
		}
		if filter.AuthorID != "" {
			query = query.Where("recipes.author_id = ?", filter.AuthorID)
		}
		if filter.IsFavorited != nil {
			query = applyMembershipFilter(query, "favorites", viewerID, *filter.IsFavorited)
		}
		if filter.IsInShoppingCart != nil {
			query = applyMembershipFilter(query, "shopping_carts", viewerID, *filter.IsInShoppingCart)
		}
		return query
	}

	if err := applyFilter(r.db.WithContext(ctx).Model(&entities.Recipe{})).Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := applyFilter(r.db.WithContext(ctx).Model(&entities.Recipe{})).
		Preload("Author").
		Preload("Tags.Tag").
		Preload("Ingredients.Ingredient").
		Offset(offset).
		Limit(limit).
		Order("recipes.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

// applyMembershipFilter keeps (value 1) or excludes (value 0) recipes present
// in the viewer's membership table.
func applyMembershipFilter(query *gorm.DB, table, viewerID string, value int) *gorm.DB {
	condition := "EXISTS (SELECT 1 FROM " + table + " m WHERE m.recipe_id = recipes.id AND m.user_id = ?)"
	if value == 1 {
		return query.Where(condition, viewerID)
	}
	return query.Where("NOT "+condition, viewerID)
}

func (r *recipeRepository) GetRecipesByAuthor(ctx context.Context, authorID string, limit int) ([]*entities.Recipe, int64, error) {
	var recipes []*entities.Recipe
	var count int64

	if err := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ?", authorID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&recipes).Error; err != nil {
		return nil, 0, err
	}

	return recipes, count, nil
}

func (r *recipeRepository) CountByAuthorAndName(ctx context.Context, authorID uuid.UUID, name string, excludeID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&entities.Recipe{}).
		Where("author_id = ? AND name = ?", authorID, name)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// AddMembership inserts a (user, recipe) row for the given relation. An
// existing pair is reported as a conflict, not silently kept.
func (r *recipeRepository) AddMembership(ctx context.Context, userID, recipeID uuid.UUID, relation domain.MembershipRelation) error {
	exists, err := r.HasMembership(ctx, userID.String(), recipeID.String(), relation)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyInRelation
	}

	if relation == domain.RelationFavorite {
		return r.db.WithContext(ctx).Create(&entities.Favorite{
			ID:       uuid.New(),
			UserID:   userID,
			RecipeID: recipeID,
		}).Error
	}
	return r.db.WithContext(ctx).Create(&entities.ShoppingCart{
		ID:       uuid.New(),
		UserID:   userID,
		RecipeID: recipeID,
	}).Error
}

// RemoveMembership deletes the pair; an absent pair is a conflict so callers
// can distinguish "state changed" from "already in that state".
func (r *recipeRepository) RemoveMembership(ctx context.Context, userID, recipeID uuid.UUID, relation domain.MembershipRelation) error {
	query := r.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID)

	var result *gorm.DB
	if relation == domain.RelationFavorite {
		result = query.Delete(&entities.Favorite{})
	} else {
		result = query.Delete(&entities.ShoppingCart{})
	}
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotInRelation
	}
	return nil
}

func (r *recipeRepository) HasMembership(ctx context.Context, userID, recipeID string, relation domain.MembershipRelation) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Where("user_id = ? AND recipe_id = ?", userID, recipeID)

	var err error
	if relation == domain.RelationFavorite {
		err = query.Model(&entities.Favorite{}).Count(&count).Error
	} else {
		err = query.Model(&entities.ShoppingCart{}).Count(&count).Error
	}
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *recipeRepository) IsSubscribed(ctx context.Context, userID, authorID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Subscription{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetShoppingList sums ingredient amounts across every recipe in the user's
// cart. Ordered by ingredient name so the exported report is deterministic.
func (r *recipeRepository) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	var items []domain.ShoppingListItem
	if err := r.db.WithContext(ctx).
		Model(&entities.RecipeIngredient{}).
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total_amount").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.id, ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name asc").
		Scan(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
