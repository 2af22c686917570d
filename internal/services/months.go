package services

import (
	"errors"
	"strings"
	"time"
)

// ErrInvalidMonth is returned for a month name outside the Spanish month table.
var ErrInvalidMonth = errors.New("invalid month name")

var spanishMonths = map[string]time.Month{
	"enero":      time.January,
	"febrero":    time.February,
	"marzo":      time.March,
	"abril":      time.April,
	"mayo":       time.May,
	"junio":      time.June,
	"julio":      time.July,
	"agosto":     time.August,
	"septiembre": time.September,
	"octubre":    time.October,
	"noviembre":  time.November,
	"diciembre":  time.December,
}

// ParseMonth resolves a Spanish month name, ignoring case and surrounding spaces.
func ParseMonth(name string) (time.Month, error) {
	m, ok := spanishMonths[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, ErrInvalidMonth
	}
	return m, nil
}

// MonthRange returns the half-open range [from, to) covering month in now's year and location.
func MonthRange(month time.Month, now time.Time) (from, to time.Time) {
	from = time.Date(now.Year(), month, 1, 0, 0, 0, 0, now.Location())
	return from, from.AddDate(0, 1, 0)
}
