package services

import (
	"fmt"
	"time"
)

var ErrMetricsLoadFailed = newError(KindInternal, "load business metrics failed")

type HabitCounter interface {
	CountAll() (int64, error)
}

type EntryCounter interface {
	CountAll() (int64, error)
	CountByDate(date string) (int64, error)
}

type BusinessMetrics struct {
	TotalHabits  int64
	TotalEntries int64
	EntriesToday int64
}

type MonitoringService struct {
	habits  HabitCounter
	entries EntryCounter
}

func NewMonitoringService(habits HabitCounter, entries EntryCounter) *MonitoringService {
	return &MonitoringService{
		habits:  habits,
		entries: entries,
	}
}

func (service *MonitoringService) BusinessMetrics(today time.Time) (BusinessMetrics, error) {
	totalHabits, err := service.habits.CountAll()
	if err != nil {
		return BusinessMetrics{}, fmt.Errorf("%w: %v", ErrMetricsLoadFailed, err)
	}
	totalEntries, err := service.entries.CountAll()
	if err != nil {
		return BusinessMetrics{}, fmt.Errorf("%w: %v", ErrMetricsLoadFailed, err)
	}
	entriesToday, err := service.entries.CountByDate(FormatDate(today))
	if err != nil {
		return BusinessMetrics{}, fmt.Errorf("%w: %v", ErrMetricsLoadFailed, err)
	}
	return BusinessMetrics{
		TotalHabits:  totalHabits,
		TotalEntries: totalEntries,
		EntriesToday: entriesToday,
	}, nil
}
