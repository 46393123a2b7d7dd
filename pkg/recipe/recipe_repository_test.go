package recipe

import (
	"Recipehub-Backend/domain"
	"Recipehub-Backend/entities"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entities.User{},
		&entities.Subscription{},
		&entities.Tag{},
		&entities.Ingredient{},
		&entities.Recipe{},
		&entities.RecipeTag{},
		&entities.RecipeIngredient{},
		&entities.Favorite{},
		&entities.ShoppingCart{},
	))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *entities.User {
	t.Helper()
	user := &entities.User{
		ID:       uuid.New(),
		Email:    username + "@example.com",
		Username: username,
		Role:     domain.RoleUser,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func createTestTag(t *testing.T, db *gorm.DB, name, slug string) *entities.Tag {
	t.Helper()
	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  name,
		Slug:  slug,
		Color: "#49B64E",
	}
	require.NoError(t, db.Create(tag).Error)
	return tag
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *entities.Ingredient {
	t.Helper()
	ingredient := &entities.Ingredient{
		ID:              uuid.New(),
		Name:            name,
		MeasurementUnit: unit,
	}
	require.NoError(t, db.Create(ingredient).Error)
	return ingredient
}

func createTestRecipe(t *testing.T, db *gorm.DB, repo RecipeRepository, author *entities.User, name string, tagIDs []uuid.UUID, ingredients []entities.RecipeIngredient) *entities.Recipe {
	t.Helper()
	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        name,
		Text:        "Cook it well.",
		CookingTime: 30,
	}
	require.NoError(t, repo.CreateRecipe(context.Background(), recipe, tagIDs, ingredients))
	return recipe
}

func TestCreateRecipeRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	tag := createTestTag(t, db, "Breakfast", "breakfast")
	flour := createTestIngredient(t, db, "flour", "g")
	milk := createTestIngredient(t, db, "milk", "ml")

	recipe := createTestRecipe(t, db, repo, author, "Pancakes",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{
			{IngredientID: flour.ID, Amount: 200},
			{IngredientID: milk.ID, Amount: 300},
		},
	)

	got, err := repo.GetRecipeByID(ctx, recipe.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Pancakes", got.Name)
	require.NotNil(t, got.Author)
	assert.Equal(t, "alice", got.Author.Username)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "breakfast", got.Tags[0].Tag.Slug)
	require.Len(t, got.Ingredients, 2)

	amounts := map[string]int{}
	for _, link := range got.Ingredients {
		amounts[link.Ingredient.Name] = link.Amount
	}
	assert.Equal(t, map[string]int{"flour": 200, "milk": 300}, amounts)
}

func TestCreateRecipeUnknownReferenceRollsBack(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	tag := createTestTag(t, db, "Dinner", "dinner")

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    author.ID,
		Name:        "Mystery stew",
		Text:        "???",
		CookingTime: 60,
	}
	err := repo.CreateRecipe(ctx, recipe, []uuid.UUID{tag.ID}, []entities.RecipeIngredient{
		{IngredientID: uuid.New(), Amount: 1},
	})
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)

	var recipeCount, linkCount int64
	require.NoError(t, db.Model(&entities.Recipe{}).Count(&recipeCount).Error)
	require.NoError(t, db.Model(&entities.RecipeTag{}).Count(&linkCount).Error)
	assert.Zero(t, recipeCount)
	assert.Zero(t, linkCount)
}

func TestReplaceRecipeReplacesAssociations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	tag := createTestTag(t, db, "Dinner", "dinner")
	lunch := createTestTag(t, db, "Lunch", "lunch")
	potato := createTestIngredient(t, db, "potato", "pcs")
	carrot := createTestIngredient(t, db, "carrot", "pcs")

	recipe := createTestRecipe(t, db, repo, author, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)

	recipe.Text = "Now with carrots."
	require.NoError(t, repo.ReplaceRecipe(ctx, recipe,
		[]uuid.UUID{lunch.ID},
		[]entities.RecipeIngredient{
			{IngredientID: potato.ID, Amount: 3},
			{IngredientID: carrot.ID, Amount: 1},
		},
	))

	got, err := repo.GetRecipeByID(ctx, recipe.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Now with carrots.", got.Text)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "lunch", got.Tags[0].Tag.Slug)
	require.Len(t, got.Ingredients, 2)

	amounts := map[string]int{}
	for _, link := range got.Ingredients {
		amounts[link.Ingredient.Name] = link.Amount
	}
	assert.Equal(t, map[string]int{"potato": 3, "carrot": 1}, amounts)

	var linkCount int64
	require.NoError(t, db.Model(&entities.RecipeIngredient{}).
		Where("recipe_id = ?", recipe.ID).
		Count(&linkCount).Error)
	assert.EqualValues(t, 2, linkCount)
}

func TestReplaceRecipeUnknownTagKeepsOldState(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	tag := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	recipe := createTestRecipe(t, db, repo, author, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)

	err := repo.ReplaceRecipe(ctx, recipe,
		[]uuid.UUID{uuid.New()},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 5}},
	)
	assert.ErrorIs(t, err, domain.ErrTagNotFound)

	got, err := repo.GetRecipeByID(ctx, recipe.ID.String())
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, tag.ID, got.Tags[0].TagID)
	require.Len(t, got.Ingredients, 1)
	assert.Equal(t, 2, got.Ingredients[0].Amount)
}

func TestDeleteRecipeCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	tag := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	recipe := createTestRecipe(t, db, repo, author, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)
	require.NoError(t, repo.AddMembership(ctx, viewer.ID, recipe.ID, domain.RelationFavorite))
	require.NoError(t, repo.AddMembership(ctx, viewer.ID, recipe.ID, domain.RelationShoppingCart))

	require.NoError(t, repo.DeleteRecipe(ctx, recipe.ID))

	_, err := repo.GetRecipeByID(ctx, recipe.ID.String())
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	for _, model := range []any{
		&entities.RecipeTag{}, &entities.RecipeIngredient{},
		&entities.Favorite{}, &entities.ShoppingCart{},
	} {
		var count int64
		require.NoError(t, db.Model(model).Where("recipe_id = ?", recipe.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestAddMembershipDuplicateIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	tag := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	recipe := createTestRecipe(t, db, repo, author, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)

	require.NoError(t, repo.AddMembership(ctx, viewer.ID, recipe.ID, domain.RelationFavorite))
	err := repo.AddMembership(ctx, viewer.ID, recipe.ID, domain.RelationFavorite)
	assert.ErrorIs(t, err, domain.ErrAlreadyInRelation)

	var count int64
	require.NoError(t, db.Model(&entities.Favorite{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// The two relations are independent.
	require.NoError(t, repo.AddMembership(ctx, viewer.ID, recipe.ID, domain.RelationShoppingCart))
}

func TestRemoveMembershipAbsentIsConflict(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	viewer := createTestUser(t, db, "bob")
	tag := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	recipe := createTestRecipe(t, db, repo, author, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)

	err := repo.RemoveMembership(ctx, viewer.ID, recipe.ID, domain.RelationShoppingCart)
	assert.ErrorIs(t, err, domain.ErrNotInRelation)

	require.NoError(t, repo.AddMembership(ctx, viewer.ID, recipe.ID, domain.RelationShoppingCart))
	require.NoError(t, repo.RemoveMembership(ctx, viewer.ID, recipe.ID, domain.RelationShoppingCart))
	err = repo.RemoveMembership(ctx, viewer.ID, recipe.ID, domain.RelationShoppingCart)
	assert.ErrorIs(t, err, domain.ErrNotInRelation)
}

func TestCountByAuthorAndName(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	author := createTestUser(t, db, "alice")
	other := createTestUser(t, db, "bob")
	tag := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	recipe := createTestRecipe(t, db, repo, author, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)

	count, err := repo.CountByAuthorAndName(ctx, author.ID, "Soup", uuid.Nil)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// The recipe itself is excluded when updating in place.
	count, err = repo.CountByAuthorAndName(ctx, author.ID, "Soup", recipe.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Same name under another author does not collide.
	count, err = repo.CountByAuthorAndName(ctx, other.ID, "Soup", uuid.Nil)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestGetRecipesFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast")
	dinner := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	pancakes := createTestRecipe(t, db, repo, alice, "Pancakes",
		[]uuid.UUID{breakfast.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 1}},
	)
	soup := createTestRecipe(t, db, repo, bob, "Soup",
		[]uuid.UUID{dinner.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)
	require.NoError(t, repo.AddMembership(ctx, alice.ID, soup.ID, domain.RelationFavorite))

	recipes, count, err := repo.GetRecipes(ctx, domain.RecipeFilter{}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
	assert.Len(t, recipes, 2)

	recipes, count, err = repo.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"breakfast"}}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, recipes, 1)
	assert.Equal(t, pancakes.ID, recipes[0].ID)

	recipes, count, err = repo.GetRecipes(ctx, domain.RecipeFilter{AuthorID: bob.ID.String()}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, recipes, 1)
	assert.Equal(t, soup.ID, recipes[0].ID)

	keep := 1
	recipes, count, err = repo.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: &keep}, alice.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, recipes, 1)
	assert.Equal(t, soup.ID, recipes[0].ID)

	exclude := 0
	recipes, count, err = repo.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: &exclude}, alice.ID.String(), 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	require.Len(t, recipes, 1)
	assert.Equal(t, pancakes.ID, recipes[0].ID)
}

func TestGetRecipesMatchingAnyOfSeveralTagsOnce(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	breakfast := createTestTag(t, db, "Breakfast", "breakfast")
	dinner := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")

	createTestRecipe(t, db, repo, alice, "All day stew",
		[]uuid.UUID{breakfast.ID, dinner.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)

	// A recipe carrying both requested tags must not be listed twice.
	recipes, count, err := repo.GetRecipes(ctx, domain.RecipeFilter{TagSlugs: []string{"breakfast", "dinner"}}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
	assert.Len(t, recipes, 1)
}

func TestGetShoppingListAggregatesAcrossRecipes(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	ctx := context.Background()

	alice := createTestUser(t, db, "alice")
	bob := createTestUser(t, db, "bob")
	tag := createTestTag(t, db, "Dinner", "dinner")
	potato := createTestIngredient(t, db, "potato", "pcs")
	carrot := createTestIngredient(t, db, "carrot", "pcs")

	stew := createTestRecipe(t, db, repo, alice, "Stew",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{{IngredientID: potato.ID, Amount: 2}},
	)
	soup := createTestRecipe(t, db, repo, alice, "Soup",
		[]uuid.UUID{tag.ID},
		[]entities.RecipeIngredient{
			{IngredientID: potato.ID, Amount: 3},
			{IngredientID: carrot.ID, Amount: 1},
		},
	)
	require.NoError(t, repo.AddMembership(ctx, bob.ID, stew.ID, domain.RelationShoppingCart))
	require.NoError(t, repo.AddMembership(ctx, bob.ID, soup.ID, domain.RelationShoppingCart))

	items, err := repo.GetShoppingList(ctx, bob.ID.String())
	require.NoError(t, err)
	assert.Equal(t, []domain.ShoppingListItem{
		{Name: "carrot", MeasurementUnit: "pcs", TotalAmount: 1},
		{Name: "potato", MeasurementUnit: "pcs", TotalAmount: 5},
	}, items)
}

func TestGetShoppingListEmptyCart(t *testing.T) {
	db := setupTestDB(t)
	repo := NewRecipeRepository(db)

	bob := createTestUser(t, db, "bob")
	items, err := repo.GetShoppingList(context.Background(), bob.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}
