package recipe

import (
	"Recipehub-Backend/domain"
	"Recipehub-Backend/entities"
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubStorage keeps uploads out of the tests without touching the bucket.
type stubStorage struct {
	deleted []string
}

func (s *stubStorage) UploadBase64(fileName string, payload string, dir string, allowTypes ...string) (string, error) {
	return dir + "/" + fileName + ".png", nil
}

func (s *stubStorage) DeleteFile(objectKey string) error {
	s.deleted = append(s.deleted, objectKey)
	return nil
}

func (s *stubStorage) GetObjectKeyFromLink(link string) string {
	return strings.TrimPrefix(link, "https://cdn.test/")
}

func (s *stubStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.test/" + objectKey
}

type recipeServiceFixture struct {
	service RecipeService
	repo    RecipeRepository
	author  *entities.User
	tag     *entities.Tag
	potato  *entities.Ingredient
}

func setupRecipeService(t *testing.T) (*recipeServiceFixture, func() domain.RecipeWriteRequest) {
	t.Helper()

	db := setupTestDB(t)
	repo := NewRecipeRepository(db)
	fixture := &recipeServiceFixture{
		service: NewRecipeService(repo, &stubStorage{}),
		repo:    repo,
		author:  createTestUser(t, db, "alice"),
		tag:     createTestTag(t, db, "Dinner", "dinner"),
		potato:  createTestIngredient(t, db, "potato", "pcs"),
	}

	request := func() domain.RecipeWriteRequest {
		return domain.RecipeWriteRequest{
			Name:        "Soup",
			Text:        "Simmer until tender.",
			CookingTime: 40,
			Tags:        []string{fixture.tag.ID.String()},
			Ingredients: []domain.IngredientAmount{
				{ID: fixture.potato.ID.String(), Amount: 2},
			},
		}
	}
	return fixture, request
}

func TestCreateRecipeProjectsNestedView(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	res, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	assert.Equal(t, "Soup", res.Name)
	assert.Equal(t, "alice", res.Author.Username)
	require.Len(t, res.Tags, 1)
	assert.Equal(t, "dinner", res.Tags[0].Slug)
	require.Len(t, res.Ingredients, 1)
	assert.Equal(t, "potato", res.Ingredients[0].Name)
	assert.Equal(t, "pcs", res.Ingredients[0].MeasurementUnit)
	assert.Equal(t, 2, res.Ingredients[0].Amount)
	assert.False(t, res.IsFavorited)
	assert.False(t, res.IsInShoppingCart)
}

func TestCreateRecipeDuplicateNamePerAuthor(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	_, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	_, err = fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "name")
}

func TestCreateRecipeInvalidPayload(t *testing.T) {
	fixture, request := setupRecipeService(t)

	req := request()
	req.Ingredients = nil
	req.CookingTime = 0

	_, err := fixture.service.CreateRecipe(context.Background(), req, fixture.author.ID.String())
	var validationErr *domain.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Fields, "ingredients")
	assert.Contains(t, validationErr.Fields, "cooking_time")
}

func TestUpdateRecipeOwnership(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	created, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	update := request()
	update.Name = "Better soup"

	_, err = fixture.service.UpdateRecipe(ctx, created.ID, update, uuid.NewString(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	// Admins may edit anyone's recipe.
	res, err := fixture.service.UpdateRecipe(ctx, created.ID, update, uuid.NewString(), domain.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, "Better soup", res.Name)
}

func TestUpdateRecipeKeepsNameWhenUnchanged(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	created, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	// Re-submitting the same name on update is not a uniqueness conflict.
	update := request()
	update.Text = "Season to taste."
	res, err := fixture.service.UpdateRecipe(ctx, created.ID, update, fixture.author.ID.String(), domain.RoleUser)
	require.NoError(t, err)
	assert.Equal(t, "Season to taste.", res.Text)
}

func TestDeleteRecipeByStranger(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	created, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	err = fixture.service.DeleteRecipe(ctx, created.ID, uuid.NewString(), domain.RoleUser)
	assert.ErrorIs(t, err, domain.ErrUnauthorizedRecipeAccess)

	require.NoError(t, fixture.service.DeleteRecipe(ctx, created.ID, fixture.author.ID.String(), domain.RoleUser))
	_, err = fixture.service.GetRecipeDetail(ctx, created.ID, "")
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestGetRecipesAnonymousMembershipFilter(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	_, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	keep := 1
	res, err := fixture.service.GetRecipes(ctx, domain.RecipeFilter{IsFavorited: &keep}, "", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, res.Total)
	assert.Empty(t, res.Recipes)

	res, err = fixture.service.GetRecipes(ctx, domain.RecipeFilter{}, "", 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, res.Total)
}

func TestMembershipFlagsInProjection(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	created, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	minified, err := fixture.service.AddMembership(ctx, created.ID, fixture.author.ID.String(), domain.RelationFavorite)
	require.NoError(t, err)
	assert.Equal(t, created.ID, minified.ID)
	assert.Equal(t, "Soup", minified.Name)
	assert.Equal(t, 40, minified.CookingTime)

	detail, err := fixture.service.GetRecipeDetail(ctx, created.ID, fixture.author.ID.String())
	require.NoError(t, err)
	assert.True(t, detail.IsFavorited)
	assert.False(t, detail.IsInShoppingCart)
}

func TestGetShoppingListEmptyIsAnError(t *testing.T) {
	fixture, _ := setupRecipeService(t)

	_, err := fixture.service.GetShoppingList(context.Background(), fixture.author.ID.String())
	assert.ErrorIs(t, err, domain.ErrShoppingCartEmpty)
}

func TestGetShoppingListThroughService(t *testing.T) {
	fixture, request := setupRecipeService(t)
	ctx := context.Background()

	created, err := fixture.service.CreateRecipe(ctx, request(), fixture.author.ID.String())
	require.NoError(t, err)

	_, err = fixture.service.AddMembership(ctx, created.ID, fixture.author.ID.String(), domain.RelationShoppingCart)
	require.NoError(t, err)

	items, err := fixture.service.GetShoppingList(ctx, fixture.author.ID.String())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "potato", items[0].Name)
	assert.Equal(t, 2, items[0].TotalAmount)
}
