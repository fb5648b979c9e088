package db

import (
	"github.com/terraincognita07/streaky/internal/models"
	"gorm.io/gorm"
)

type HabitRepository struct {
	database *gorm.DB
}

func NewHabitRepository(database *gorm.DB) *HabitRepository {
	return &HabitRepository{database: database}
}

func preloadCategories(query *gorm.DB) *gorm.DB {
	return query.Order("categories.name ASC, categories.id ASC")
}

func (repo *HabitRepository) ListByUser(userID uint, categoryID *uint) ([]models.Habit, error) {
	query := repo.database.Model(&models.Habit{}).
		Preload("Categories", preloadCategories).
		Where("user_id = ?", userID)
	if categoryID != nil {
		query = query.Where(
			"id IN (?)",
			repo.database.Table("habit_categories").Select("habit_id").Where("category_id = ?", *categoryID),
		)
	}

	habits := make([]models.Habit, 0)
	if err := query.Order("id ASC").Find(&habits).Error; err != nil {
		return nil, err
	}
	return habits, nil
}

// FindByIDForUser returns gorm.ErrRecordNotFound both for unknown ids and for
// habits owned by someone else.
func (repo *HabitRepository) FindByIDForUser(habitID uint, userID uint) (models.Habit, error) {
	var habit models.Habit
	if err := repo.database.
		Preload("Categories", preloadCategories).
		Where("id = ? AND user_id = ?", habitID, userID).
		First(&habit).Error; err != nil {
		return models.Habit{}, err
	}
	return habit, nil
}

func (repo *HabitRepository) ExistsByUserAndName(userID uint, name string, excludeID uint) (bool, error) {
	query := repo.database.Model(&models.Habit{}).Where("user_id = ? AND name = ?", userID, name)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var matched int64
	if err := query.Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *HabitRepository) Create(habit *models.Habit) error {
	return repo.database.Omit("Categories").Create(habit).Error
}

func (repo *HabitRepository) UpdateByID(habitID uint, updates map[string]any) error {
	return repo.database.Model(&models.Habit{}).Where("id = ?", habitID).Updates(updates).Error
}

// DeleteWithRelatedData removes the habit, its entries and its category links
// in one transaction.
func (repo *HabitRepository) DeleteWithRelatedData(habitID uint) error {
	return repo.database.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("habit_id = ?", habitID).Delete(&models.Entry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("habit_id = ?", habitID).Delete(&models.HabitCategory{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Habit{}, habitID).Error
	})
}

func (repo *HabitRepository) CountAll() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Habit{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
