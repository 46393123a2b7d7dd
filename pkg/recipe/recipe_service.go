package recipe

import (
	"Recipehub-Backend/domain"
	"Recipehub-Backend/entities"
	"Recipehub-Backend/internal/utils/storage"
	"context"

	"github.com/google/uuid"
)

type (
	RecipeService interface {
		GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) (domain.RecipeListResponse, error)
		GetRecipeDetail(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error)
		CreateRecipe(ctx context.Context, req domain.RecipeWriteRequest, userID string) (domain.RecipeResponse, error)
		UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeWriteRequest, userID, role string) (domain.RecipeResponse, error)
		DeleteRecipe(ctx context.Context, recipeID, userID, role string) error
		AddMembership(ctx context.Context, recipeID, userID string, relation domain.MembershipRelation) (domain.RecipeMinified, error)
		RemoveMembership(ctx context.Context, recipeID, userID string, relation domain.MembershipRelation) error
		GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error)
	}

	recipeService struct {
		recipeRepository RecipeRepository
		s3               storage.AwsS3
	}
)

func NewRecipeService(recipeRepository RecipeRepository, s3 storage.AwsS3) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		s3:               s3,
	}
}

func (s *recipeService) GetRecipes(ctx context.Context, filter domain.RecipeFilter, viewerID string, page, limit int) (domain.RecipeListResponse, error) {
	// Anonymous callers asking for membership-flag filters get an empty
	// page, not an error.
	if viewerID == "" && (filter.IsFavorited != nil || filter.IsInShoppingCart != nil) {
		return domain.RecipeListResponse{Recipes: []domain.RecipeResponse{}, Total: 0}, nil
	}

	recipes, count, err := s.recipeRepository.GetRecipes(ctx, filter, viewerID, page, limit)
	if err != nil {
		return domain.RecipeListResponse{}, err
	}

	res := make([]domain.RecipeResponse, 0, len(recipes))
	for _, r := range recipes {
		projected, err := s.project(ctx, r, viewerID)
		if err != nil {
			return domain.RecipeListResponse{}, err
		}
		res = append(res, projected)
	}

	return domain.RecipeListResponse{Recipes: res, Total: count}, nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, recipeID, viewerID string) (domain.RecipeResponse, error) {
	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}
	return s.project(ctx, recipe, viewerID)
}

func (s *recipeService) CreateRecipe(ctx context.Context, req domain.RecipeWriteRequest, userID string) (domain.RecipeResponse, error) {
	authorID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeResponse{}, domain.ErrParseUUID
	}

	if validationErr := s.validate(ctx, req, authorID, uuid.Nil); validationErr != nil {
		return domain.RecipeResponse{}, validationErr
	}

	tagIDs, ingredients, err := parseReferences(req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	recipe := &entities.Recipe{
		ID:          uuid.New(),
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
	}

	if req.Image != "" {
		objectKey, uploadErr := s.s3.UploadBase64(recipe.ID.String(), req.Image, "recipes", storage.AllowImage...)
		if uploadErr != nil {
			return domain.RecipeResponse{}, uploadErr
		}
		recipe.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, tagIDs, ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipe.ID.String(), userID)
}

func (s *recipeService) UpdateRecipe(ctx context.Context, recipeID string, req domain.RecipeWriteRequest, userID, role string) (domain.RecipeResponse, error) {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return domain.RecipeResponse{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeResponse{}, err
	}

	if existing.AuthorID.String() != userID && role != domain.RoleAdmin {
		return domain.RecipeResponse{}, domain.ErrUnauthorizedRecipeAccess
	}

	if validationErr := s.validate(ctx, req, existing.AuthorID, existing.ID); validationErr != nil {
		return domain.RecipeResponse{}, validationErr
	}

	tagIDs, ingredients, err := parseReferences(req)
	if err != nil {
		return domain.RecipeResponse{}, err
	}

	updated := &entities.Recipe{
		ID:          existing.ID,
		AuthorID:    existing.AuthorID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		ImageURL:    existing.ImageURL,
	}

	if req.Image != "" {
		if existing.ImageURL != "" {
			_ = s.s3.DeleteFile(s.s3.GetObjectKeyFromLink(existing.ImageURL))
		}
		objectKey, uploadErr := s.s3.UploadBase64(existing.ID.String(), req.Image, "recipes", storage.AllowImage...)
		if uploadErr != nil {
			return domain.RecipeResponse{}, uploadErr
		}
		updated.ImageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	if err := s.recipeRepository.ReplaceRecipe(ctx, updated, tagIDs, ingredients); err != nil {
		return domain.RecipeResponse{}, err
	}

	return s.GetRecipeDetail(ctx, recipeID, userID)
}

func (s *recipeService) DeleteRecipe(ctx context.Context, recipeID, userID, role string) error {
	existing, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return domain.ErrRecipeNotFound
		}
		return err
	}

	if existing.AuthorID.String() != userID && role != domain.RoleAdmin {
		return domain.ErrUnauthorizedRecipeAccess
	}

	if existing.ImageURL != "" {
		_ = s.s3.DeleteFile(s.s3.GetObjectKeyFromLink(existing.ImageURL))
	}

	return s.recipeRepository.DeleteRecipe(ctx, existing.ID)
}

func (s *recipeService) AddMembership(ctx context.Context, recipeID, userID string, relation domain.MembershipRelation) (domain.RecipeMinified, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.RecipeMinified{}, domain.ErrParseUUID
	}

	recipe, err := s.recipeRepository.GetRecipeByID(ctx, recipeID)
	if err != nil {
		if isNotFound(err) {
			return domain.RecipeMinified{}, domain.ErrRecipeNotFound
		}
		return domain.RecipeMinified{}, err
	}

	if err := s.recipeRepository.AddMembership(ctx, userUUID, recipe.ID, relation); err != nil {
		return domain.RecipeMinified{}, err
	}

	return domain.RecipeMinified{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		ImageURL:    recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}, nil
}

func (s *recipeService) RemoveMembership(ctx context.Context, recipeID, userID string, relation domain.MembershipRelation) error {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	recipeUUID, err := uuid.Parse(recipeID)
	if err != nil {
		return domain.ErrParseUUID
	}

	return s.recipeRepository.RemoveMembership(ctx, userUUID, recipeUUID, relation)
}

func (s *recipeService) GetShoppingList(ctx context.Context, userID string) ([]domain.ShoppingListItem, error) {
	items, err := s.recipeRepository.GetShoppingList(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrShoppingCartEmpty
	}
	return items, nil
}

// validate runs the aggregate payload checks plus the store-backed
// name-per-author uniqueness check, merging both into one field-keyed error.
func (s *recipeService) validate(ctx context.Context, req domain.RecipeWriteRequest, authorID, excludeID uuid.UUID) error {
	validationErr := ValidateRecipePayload(req)
	if validationErr == nil {
		validationErr = domain.NewValidationError()
	}

	if req.Name != "" {
		count, err := s.recipeRepository.CountByAuthorAndName(ctx, authorID, req.Name, excludeID)
		if err != nil {
			return err
		}
		if count > 0 {
			validationErr.Add("name", domain.ErrRecipeNameTaken.Error())
		}
	}

	if validationErr.HasErrors() {
		return validationErr
	}
	return nil
}

func parseReferences(req domain.RecipeWriteRequest) ([]uuid.UUID, []entities.RecipeIngredient, error) {
	tagIDs := make([]uuid.UUID, 0, len(req.Tags))
	for _, tagID := range req.Tags {
		parsed, err := uuid.Parse(tagID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		tagIDs = append(tagIDs, parsed)
	}

	ingredients := make([]entities.RecipeIngredient, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		parsed, err := uuid.Parse(item.ID)
		if err != nil {
			return nil, nil, domain.ErrParseUUID
		}
		ingredients = append(ingredients, entities.RecipeIngredient{
			IngredientID: parsed,
			Amount:       item.Amount,
		})
	}

	return tagIDs, ingredients, nil
}

// project assembles the nested read view: expanded tags, expanded ingredients
// with catalog fields plus the link amount, the author profile, and the
// viewer's membership flags. Anonymous viewers get false flags.
func (s *recipeService) project(ctx context.Context, recipe *entities.Recipe, viewerID string) (domain.RecipeResponse, error) {
	res := domain.RecipeResponse{
		ID:          recipe.ID.String(),
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		ImageURL:    recipe.ImageURL,
		CreatedAt:   recipe.CreatedAt,
		Tags:        make([]domain.TagResponse, 0, len(recipe.Tags)),
		Ingredients: make([]domain.RecipeIngredientView, 0, len(recipe.Ingredients)),
	}

	for _, link := range recipe.Tags {
		if link.Tag == nil {
			continue
		}
		res.Tags = append(res.Tags, domain.TagResponse{
			ID:    link.Tag.ID.String(),
			Name:  link.Tag.Name,
			Slug:  link.Tag.Slug,
			Color: link.Tag.Color,
		})
	}

	for _, link := range recipe.Ingredients {
		if link.Ingredient == nil {
			continue
		}
		res.Ingredients = append(res.Ingredients, domain.RecipeIngredientView{
			ID:              link.Ingredient.ID.String(),
			Name:            link.Ingredient.Name,
			MeasurementUnit: link.Ingredient.MeasurementUnit,
			Amount:          link.Amount,
		})
	}

	if recipe.Author != nil {
		res.Author = domain.UserProfile{
			ID:        recipe.Author.ID.String(),
			Email:     recipe.Author.Email,
			Username:  recipe.Author.Username,
			FirstName: recipe.Author.FirstName,
			LastName:  recipe.Author.LastName,
			AvatarURL: recipe.Author.AvatarURL,
		}
	}

	if viewerID != "" {
		isFavorited, err := s.recipeRepository.HasMembership(ctx, viewerID, res.ID, domain.RelationFavorite)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsFavorited = isFavorited

		isInCart, err := s.recipeRepository.HasMembership(ctx, viewerID, res.ID, domain.RelationShoppingCart)
		if err != nil {
			return domain.RecipeResponse{}, err
		}
		res.IsInShoppingCart = isInCart

		if recipe.Author != nil {
			isSubscribed, err := s.recipeRepository.IsSubscribed(ctx, viewerID, res.Author.ID)
			if err != nil {
				return domain.RecipeResponse{}, err
			}
			res.Author.IsSubscribed = isSubscribed
		}
	}

	return res, nil
}
