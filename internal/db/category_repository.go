package db

import (
	"github.com/terraincognita07/streaky/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository struct {
	database *gorm.DB
}

func NewCategoryRepository(database *gorm.DB) *CategoryRepository {
	return &CategoryRepository{database: database}
}

func (repo *CategoryRepository) ListByUser(userID uint) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	if err := repo.database.
		Where("user_id = ?", userID).
		Order("name ASC, id ASC").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (repo *CategoryRepository) FindByIDForUser(categoryID uint, userID uint) (models.Category, error) {
	var category models.Category
	if err := repo.database.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		return models.Category{}, err
	}
	return category, nil
}

func (repo *CategoryRepository) ExistsByUserAndName(userID uint, name string, excludeID uint) (bool, error) {
	query := repo.database.Model(&models.Category{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var matched int64
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *CategoryRepository) Create(category *models.Category) error {
	return repo.database.Create(category).Error
}

func (repo *CategoryRepository) UpdateByID(categoryID uint, updates map[string]any) error {
	return repo.database.Model(&models.Category{}).Where("id = ?", categoryID).Updates(updates).Error
}

// DeleteWithLinks removes the category and its habit links. Habits stay.
func (repo *CategoryRepository) DeleteWithLinks(categoryID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", categoryID).Delete(&models.HabitCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, categoryID).Error
	})
}

func (repo *CategoryRepository) AddHabit(categoryID uint, habitID uint) error {
	link := models.HabitCategory{HabitID: habitID, CategoryID: categoryID}
	return repo.database.Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (repo *CategoryRepository) RemoveHabit(categoryID uint, habitID uint) error {
	return repo.database.
		Where("category_id = ? AND habit_id = ?", categoryID, habitID).
		Delete(&models.HabitCategory{}).Error
}

func (repo *CategoryRepository) CountHabits(categoryID uint) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.HabitCategory{}).Where("category_id = ?", categoryID).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
