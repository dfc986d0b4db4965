package birthday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	MinYear     = 1900
	unknownYear = "XXXX"
)

var (
	ErrInvalidFormat = errors.New("wrong date format, use YYYY-MM-DD or XXXX-MM-DD")
	ErrInvalidDate   = errors.New("this date does not exist")
	ErrInvalidYear   = fmt.Errorf("the year has to be between %d and the current year", MinYear)
)

// Date is a birthday. A zero Year means the year is unknown.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate validates the given parts against the calendar. now bounds the year.
func NewDate(day int, month time.Month, year int, now time.Time) (Date, error) {
	if month < time.January || month > time.December {
		return Date{}, ErrInvalidDate
	}
	if year != 0 && (year < MinYear || year > now.Year()) {
		return Date{}, ErrInvalidYear
	}
	if day < 1 || day > daysIn(month, year) {
		return Date{}, ErrInvalidDate
	}
	d := Date{Year: year, Month: month, Day: day}
	if year != 0 && d.time(year, time.UTC).After(now) {
		return Date{}, ErrInvalidYear
	}
	return d, nil
}

// ParseDate parses YYYY-MM-DD or XXXX-MM-DD.
func ParseDate(s string, now time.Time) (Date, error) {
	parts := strings.Split(strings.TrimSpace(s), "-")
	if len(parts) != 3 || len(parts[0]) != 4 || len(parts[1]) != 2 || len(parts[2]) != 2 {
		return Date{}, ErrInvalidFormat
	}
	year := 0
	if !strings.EqualFold(parts[0], unknownYear) {
		y, err := strconv.Atoi(parts[0])
		if err != nil {
			return Date{}, ErrInvalidFormat
		}
		year = y
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Date{}, ErrInvalidFormat
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return Date{}, ErrInvalidFormat
	}
	return NewDate(day, time.Month(month), year, now)
}

func (d Date) HasYear() bool {
	return d.Year != 0
}

func (d Date) String() string {
	if !d.HasYear() {
		return fmt.Sprintf("%s-%02d-%02d", unknownYear, d.Month, d.Day)
	}
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Pretty renders the date the way it is shown in embeds, e.g. "5. March 1998".
func (d Date) Pretty() string {
	if !d.HasYear() {
		return fmt.Sprintf("%d. %s", d.Day, d.Month)
	}
	return fmt.Sprintf("%d. %s %d", d.Day, d.Month, d.Year)
}

// OccursOn reports whether the birthday is celebrated on the calendar day of t.
// Birthdays on February 29th are celebrated on February 28th in common years.
func (d Date) OccursOn(t time.Time) bool {
	month, day := d.celebratedIn(t.Year())
	return t.Month() == month && t.Day() == day
}

// Next returns the start of the next celebrated day on or after the calendar day of now,
// in now's location.
func (d Date) Next(now time.Time) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	next := d.time(now.Year(), now.Location())
	if next.Before(today) {
		next = d.time(now.Year()+1, now.Location())
	}
	return next
}

// AgeOn returns the age turned on the birthday in t's year, or 0 if the year is unknown.
func (d Date) AgeOn(t time.Time) int {
	if !d.HasYear() || t.Year() < d.Year {
		return 0
	}
	return t.Year() - d.Year
}

func (d Date) time(year int, loc *time.Location) time.Time {
	month, day := d.celebratedIn(year)
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func (d Date) celebratedIn(year int) (time.Month, int) {
	if d.Month == time.February && d.Day == 29 && !isLeap(year) {
		return time.February, 28
	}
	return d.Month, d.Day
}

func daysIn(month time.Month, year int) int {
	if month == time.February {
		if year == 0 || isLeap(year) {
			return 29
		}
		return 28
	}
	return time.Date(2001, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
