package tag

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

func setupTagService(t *testing.T) (TagService, *gorm.DB) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.Tag{}))

	return NewTagService(NewTagRepository(db)), db
}

func TestGetTagsOrderedBySlug(t *testing.T) {
	service, db := setupTagService(t)

	for _, slug := range []string{"dinner", "breakfast", "lunch"} {
		require.NoError(t, db.Create(&entities.Tag{
			ID:    uuid.New(),
			Name:  slug,
			Slug:  slug,
			Color: "#49B64E",
		}).Error)
	}

	tags, err := service.GetTags(context.Background())
	require.NoError(t, err)
	require.Len(t, tags, 3)
	assert.Equal(t, "breakfast", tags[0].Slug)
	assert.Equal(t, "dinner", tags[1].Slug)
	assert.Equal(t, "lunch", tags[2].Slug)
}

func TestGetTagDetail(t *testing.T) {
	service, db := setupTagService(t)
	ctx := context.Background()

	tag := &entities.Tag{
		ID:    uuid.New(),
		Name:  "Breakfast",
		Slug:  "breakfast",
		Color: "#E26C2D",
	}
	require.NoError(t, db.Create(tag).Error)

	res, err := service.GetTagDetail(ctx, tag.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Breakfast", res.Name)
	assert.Equal(t, "#E26C2D", res.Color)

	_, err = service.GetTagDetail(ctx, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrTagNotFound)
}
