package db

import (
	"time"

	"github.com/terraincognita07/streaky/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EntryRepository struct {
	database *gorm.DB
}

func NewEntryRepository(database *gorm.DB) *EntryRepository {
	return &EntryRepository{database: database}
}

var entryConflictColumns = []clause.Column{{Name: "habit_id"}, {Name: "date"}}

// Upsert inserts the (habit, date) entry or, when it already exists, keeps the
// row. With replaceJournal the stored journal becomes journal, so a nil
// journal clears it; otherwise the stored text is left alone. The stored row
// is returned.
func (repo *EntryRepository) Upsert(habitID uint, date string, journal *string, replaceJournal bool) (models.Entry, error) {
	var stored models.Entry
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		onConflict := clause.OnConflict{Columns: entryConflictColumns, DoNothing: true}
		if replaceJournal {
			onConflict = clause.OnConflict{
				Columns:   entryConflictColumns,
				DoUpdates: clause.AssignmentColumns([]string{"journal", "updated_at"}),
			}
		}

		entry := models.Entry{HabitID: habitID, Date: date, Journal: journal}
		if err := tx.Clauses(onConflict).Create(&entry).Error; err != nil {
			return err
		}
		return tx.Where("habit_id = ? AND date = ?", habitID, date).First(&stored).Error
	})
	if err != nil {
		return models.Entry{}, err
	}
	return stored, nil
}

func (repo *EntryRepository) FindByHabitAndDate(habitID uint, date string) (models.Entry, bool, error) {
	entry := models.Entry{}
	result := repo.database.
		Where("habit_id = ? AND date = ?", habitID, date).
		Limit(1).
		Find(&entry)
	if result.Error != nil {
		return models.Entry{}, false, result.Error
	}
	if result.RowsAffected == 0 {
		return models.Entry{}, false, nil
	}
	return entry, true, nil
}

// UpdateJournal replaces the journal of an existing entry. A nil journal
// clears it. found is false when the date was never logged.
func (repo *EntryRepository) UpdateJournal(habitID uint, date string, journal *string) (models.Entry, bool, error) {
	var stored models.Entry
	found := false
	err := repo.database.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("habit_id = ? AND date = ?", habitID, date).Limit(1).Find(&stored)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		found = true

		stored.Journal = journal
		stored.UpdatedAt = time.Now().UTC()
		return tx.Model(&models.Entry{}).Where("id = ?", stored.ID).Updates(map[string]any{
			"journal":    journal,
			"updated_at": stored.UpdatedAt,
		}).Error
	})
	if err != nil {
		return models.Entry{}, false, err
	}
	return stored, found, nil
}

func (repo *EntryRepository) ListByHabit(habitID uint) ([]models.Entry, error) {
	entries := make([]models.Entry, 0)
	if err := repo.database.
		Where("habit_id = ?", habitID).
		Order("date DESC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (repo *EntryRepository) ListDatesByHabit(habitID uint) ([]string, error) {
	dates := make([]string, 0)
	if err := repo.database.Model(&models.Entry{}).
		Where("habit_id = ?", habitID).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// ListDatesByHabitRange returns logged dates within the inclusive range.
func (repo *EntryRepository) ListDatesByHabitRange(habitID uint, from string, to string) ([]string, error) {
	dates := make([]string, 0)
	if err := repo.database.Model(&models.Entry{}).
		Where("habit_id = ? AND date >= ? AND date <= ?", habitID, from, to).
		Order("date ASC").
		Pluck("date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

type habitDateRow struct {
	HabitID uint   `gorm:"column:habit_id"`
	Date    string `gorm:"column:date"`
}

func (repo *EntryRepository) ListDatesByHabits(habitIDs []uint) (map[uint][]string, error) {
	datesByHabit := make(map[uint][]string, len(habitIDs))
	if len(habitIDs) == 0 {
		return datesByHabit, nil
	}

	rows := make([]habitDateRow, 0)
	if err := repo.database.Model(&models.Entry{}).
		Select("habit_id", "date").
		Where("habit_id IN ?", habitIDs).
		Order("habit_id ASC, date ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		datesByHabit[row.HabitID] = append(datesByHabit[row.HabitID], row.Date)
	}
	return datesByHabit, nil
}

func (repo *EntryRepository) DeleteByHabitAndDate(habitID uint, date string) (bool, error) {
	result := repo.database.Where("habit_id = ? AND date = ?", habitID, date).Delete(&models.Entry{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (repo *EntryRepository) CountAll() (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Entry{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *EntryRepository) CountByDate(date string) (int64, error) {
	var count int64
	if err := repo.database.Model(&models.Entry{}).Where("date = ?", date).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
