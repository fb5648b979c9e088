package services

import (
	"strings"
	"time"

	"github.com/terraincognita07/streaky/internal/models"
)

var (
	ErrInvalidDate = newError(KindValidation, "date must be YYYY-MM-DD")
	ErrFutureDate  = newError(KindValidation, "date must not be in the future")
)

const secondsPerDay = 24 * 60 * 60

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// CivilDate returns the calendar day of value as observed in location,
// represented at UTC midnight.
func CivilDate(value time.Time, location *time.Location) time.Time {
	local := DateAtLocation(value, location)
	year, month, day := local.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(models.DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return parsed, nil
}

func FormatDate(value time.Time) string {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(models.DateLayout)
}

func ParseDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(raw))
	for _, value := range raw {
		parsed, err := ParseDate(value)
		if err != nil {
			return nil, err
		}
		dates = append(dates, parsed)
	}
	return dates, nil
}

// dayIndex counts days since 1970-01-01 using the date's own calendar fields.
func dayIndex(value time.Time) int64 {
	year, month, day := value.Date()
	return floorDiv(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Unix(), secondsPerDay)
}

// isoWeekIndex counts Monday-based weeks since the week containing
// 1970-01-01, which was a Thursday.
func isoWeekIndex(value time.Time) int64 {
	return floorDiv(dayIndex(value)+3, 7)
}

func floorDiv(value int64, divisor int64) int64 {
	quotient := value / divisor
	if value%divisor != 0 && (value < 0) != (divisor < 0) {
		quotient--
	}
	return quotient
}
