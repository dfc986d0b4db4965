package birthday

import (
	"cmp"
	"slices"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

const DefaultPageSize = 25

type Entry struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
	Date    Date
}

// Upcoming returns a copy of entries ordered by their next occurrence relative to now.
func Upcoming(entries []Entry, now time.Time) []Entry {
	sorted := slices.Clone(entries)
	slices.SortStableFunc(sorted, func(a, b Entry) int {
		if c := a.Date.Next(now).Compare(b.Date.Next(now)); c != 0 {
			return c
		}
		return cmp.Compare(a.UserID, b.UserID)
	})
	return sorted
}

// Today filters the entries celebrated on the calendar day of now.
func Today(entries []Entry, now time.Time) []Entry {
	var today []Entry
	for _, entry := range entries {
		if entry.Date.OccursOn(now) {
			today = append(today, entry)
		}
	}
	return today
}

// Page returns the 1-indexed page of entries, the clamped page number and the page count.
// An empty list has a single empty page.
func Page(entries []Entry, page int, size int) ([]Entry, int, int) {
	if size <= 0 {
		size = DefaultPageSize
	}
	pages := max((len(entries)+size-1)/size, 1)
	page = min(max(page, 1), pages)
	start := (page - 1) * size
	end := min(start+size, len(entries))
	return entries[start:end], page, pages
}
