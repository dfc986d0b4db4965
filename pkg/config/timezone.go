package config

import (
	"fmt"
	"time"
)

const (
	MinTimezone = -11
	MaxTimezone = 12
)

var zones = map[int]string{
	-11: "Pacific/Samoa",
	-10: "Pacific/Honolulu",
	-9:  "America/Anchorage",
	-8:  "America/Los_Angeles",
	-7:  "America/Denver",
	-6:  "America/Chicago",
	-5:  "America/New_York",
	-4:  "America/Caracas",
	-3:  "America/Argentina/Buenos_Aires",
	-2:  "Atlantic/South_Georgia",
	-1:  "Atlantic/Azores",
	0:   "Europe/London",
	1:   "Europe/Paris",
	2:   "Europe/Berlin",
	3:   "Europe/Moscow",
	4:   "Asia/Dubai",
	5:   "Asia/Karachi",
	6:   "Asia/Dhaka",
	7:   "Asia/Jakarta",
	8:   "Asia/Shanghai",
	9:   "Asia/Tokyo",
	10:  "Australia/Brisbane",
	11:  "Pacific/Noumea",
	12:  "Pacific/Fiji",
}

func ValidTimezone(offset int) bool {
	_, ok := zones[offset]
	return ok
}

// Zone returns the IANA zone for a UTC offset, falling back to UTC.
func Zone(offset int) string {
	if zone, ok := zones[offset]; ok {
		return zone
	}
	return "UTC"
}

// Location resolves the offset to a *time.Location. If the zone database is
// unavailable a fixed offset zone is used instead.
func Location(offset int) *time.Location {
	loc, err := time.LoadLocation(Zone(offset))
	if err != nil {
		return time.FixedZone(fmt.Sprintf("UTC%+d", offset), offset*int(time.Hour/time.Second))
	}
	return loc
}

func TimezoneLabel(offset int) string {
	if offset == 0 {
		return "UTC (" + Zone(offset) + ")"
	}
	return fmt.Sprintf("UTC%+d (%s)", offset, Zone(offset))
}
