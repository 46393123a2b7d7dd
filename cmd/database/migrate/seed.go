package migration

import (
	"Recipehub-Backend/entities"
	"encoding/csv"
	"fmt"
	"os"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SeedCatalogs loads the ingredient and tag reference data from CSV files.
// Ingredient rows are "name,measurement_unit"; tag rows are
// "name,slug,color". Rows already present (by name / slug) are skipped so
// seeding is safe to rerun.
func SeedCatalogs(db *gorm.DB, ingredientsPath, tagsPath string) error {
	if ingredientsPath != "" {
		if err := seedIngredients(db, ingredientsPath); err != nil {
			return err
		}
	}
	if tagsPath != "" {
		if err := seedTags(db, tagsPath); err != nil {
			return err
		}
	}
	return nil
}

func seedIngredients(db *gorm.DB, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) < 2 {
			continue
		}

		var count int64
		if err := db.Model(&entities.Ingredient{}).Where("name = ?", row[0]).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := db.Create(&entities.Ingredient{
			ID:              uuid.New(),
			Name:            row[0],
			MeasurementUnit: row[1],
		}).Error; err != nil {
			return err
		}
	}

	fmt.Printf("Seeded ingredients from %s\n", path)
	return nil
}

func seedTags(db *gorm.DB, path string) error {
	rows, err := readCSV(path)
	if err != nil {
		return err
	}

	for _, row := range rows {
		if len(row) < 3 {
			continue
		}

		var count int64
		if err := db.Model(&entities.Tag{}).Where("slug = ?", row[1]).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}

		if err := db.Create(&entities.Tag{
			ID:    uuid.New(),
			Name:  row[0],
			Slug:  row[1],
			Color: row[2],
		}).Error; err != nil {
			return err
		}
	}

	fmt.Printf("Seeded tags from %s\n", path)
	return nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}
