package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/terraincognita07/streaky/internal/models"
	"gorm.io/gorm"
)

var (
	ErrInvalidCategoryName  = newError(KindValidation, "category name must be 1-50 characters")
	ErrInvalidCategoryColor = newError(KindValidation, "color must be #RRGGBB")
	ErrCategoryNotFound     = newError(KindNotFound, "category not found")
	ErrCategoryNameExists   = newError(KindConflict, "category with this name already exists")
	ErrCategoryLoadFailed   = newError(KindInternal, "load category failed")
	ErrCategoryWriteFailed  = newError(KindInternal, "save category failed")
)

const maxCategoryNameLength = 50

var hexCategoryColorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

type CategoryRepository interface {
	ListByUser(userID uint) ([]models.Category, error)
	FindByIDForUser(categoryID uint, userID uint) (models.Category, error)
	ExistsByUserAndName(userID uint, name string, excludeID uint) (bool, error)
	Create(category *models.Category) error
	UpdateByID(categoryID uint, updates map[string]any) error
	DeleteWithLinks(categoryID uint) error
	AddHabit(categoryID uint, habitID uint) error
	RemoveHabit(categoryID uint, habitID uint) error
}

type CategoryInput struct {
	Name  string
	Color string
}

type CategoryUpdate struct {
	Name  *string
	Color *string
}

type CategoryService struct {
	categories CategoryRepository
	habits     HabitOwnershipReader
}

func NewCategoryService(categories CategoryRepository, habits HabitOwnershipReader) *CategoryService {
	return &CategoryService{
		categories: categories,
		habits:     habits,
	}
}

func normalizeCategoryName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if name == "" || utf8.RuneCountInString(name) > maxCategoryNameLength {
		return "", ErrInvalidCategoryName
	}
	return name, nil
}

func normalizeCategoryColor(raw string) (string, error) {
	color := strings.TrimSpace(raw)
	if color == "" {
		return models.DefaultCategoryColor, nil
	}
	if !hexCategoryColorPattern.MatchString(color) {
		return "", ErrInvalidCategoryColor
	}
	return strings.ToLower(color), nil
}

func (service *CategoryService) findOwned(userID uint, categoryID uint) (models.Category, error) {
	category, err := service.categories.FindByIDForUser(categoryID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Category{}, ErrCategoryNotFound
		}
		return models.Category{}, fmt.Errorf("%w: %v", ErrCategoryLoadFailed, err)
	}
	return category, nil
}

func (service *CategoryService) Create(userID uint, input CategoryInput) (models.Category, error) {
	name, err := normalizeCategoryName(input.Name)
	if err != nil {
		return models.Category{}, err
	}
	color, err := normalizeCategoryColor(input.Color)
	if err != nil {
		return models.Category{}, err
	}

	exists, err := service.categories.ExistsByUserAndName(userID, name, 0)
	if err != nil {
		return models.Category{}, fmt.Errorf("%w: %v", ErrCategoryLoadFailed, err)
	}
	if exists {
		return models.Category{}, ErrCategoryNameExists
	}

	category := models.Category{UserID: userID, Name: name, Color: color}
	if err := service.categories.Create(&category); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return models.Category{}, ErrCategoryNameExists
		}
		return models.Category{}, fmt.Errorf("%w: %v", ErrCategoryWriteFailed, err)
	}
	return category, nil
}

func (service *CategoryService) List(userID uint) ([]models.Category, error) {
	categories, err := service.categories.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCategoryLoadFailed, err)
	}
	return categories, nil
}

func (service *CategoryService) Get(userID uint, categoryID uint) (models.Category, error) {
	return service.findOwned(userID, categoryID)
}

func (service *CategoryService) Update(userID uint, categoryID uint, update CategoryUpdate) (models.Category, error) {
	category, err := service.findOwned(userID, categoryID)
	if err != nil {
		return models.Category{}, err
	}

	updates := map[string]any{}
	if update.Name != nil {
		name, err := normalizeCategoryName(*update.Name)
		if err != nil {
			return models.Category{}, err
		}
		if name != category.Name {
			exists, err := service.categories.ExistsByUserAndName(userID, name, category.ID)
			if err != nil {
				return models.Category{}, fmt.Errorf("%w: %v", ErrCategoryLoadFailed, err)
			}
			if exists {
				return models.Category{}, ErrCategoryNameExists
			}
		}
		updates["name"] = name
		category.Name = name
	}
	if update.Color != nil {
		if strings.TrimSpace(*update.Color) == "" {
			return models.Category{}, ErrInvalidCategoryColor
		}
		color, err := normalizeCategoryColor(*update.Color)
		if err != nil {
			return models.Category{}, err
		}
		updates["color"] = color
		category.Color = color
	}

	if len(updates) > 0 {
		if err := service.categories.UpdateByID(category.ID, updates); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.Category{}, ErrCategoryNameExists
			}
			return models.Category{}, fmt.Errorf("%w: %v", ErrCategoryWriteFailed, err)
		}
	}
	return category, nil
}

// Delete removes the category and its habit links. Habits are kept.
func (service *CategoryService) Delete(userID uint, categoryID uint) error {
	category, err := service.findOwned(userID, categoryID)
	if err != nil {
		return err
	}
	if err := service.categories.DeleteWithLinks(category.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrCategoryWriteFailed, err)
	}
	return nil
}

// AssignHabit is idempotent. Both the category and the habit must belong to userID.
func (service *CategoryService) AssignHabit(userID uint, categoryID uint, habitID uint) error {
	category, habit, err := service.findOwnedPair(userID, categoryID, habitID)
	if err != nil {
		return err
	}
	if err := service.categories.AddHabit(category.ID, habit.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrCategoryWriteFailed, err)
	}
	return nil
}

func (service *CategoryService) UnassignHabit(userID uint, categoryID uint, habitID uint) error {
	category, habit, err := service.findOwnedPair(userID, categoryID, habitID)
	if err != nil {
		return err
	}
	if err := service.categories.RemoveHabit(category.ID, habit.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrCategoryWriteFailed, err)
	}
	return nil
}

func (service *CategoryService) findOwnedPair(userID uint, categoryID uint, habitID uint) (models.Category, models.Habit, error) {
	category, err := service.findOwned(userID, categoryID)
	if err != nil {
		return models.Category{}, models.Habit{}, err
	}
	habit, err := findOwnedHabit(service.habits, userID, habitID)
	if err != nil {
		return models.Category{}, models.Habit{}, err
	}
	return category, habit, nil
}
