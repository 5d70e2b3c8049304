package clock

import "fmt"

// Domain bounds of the three rings.
const (
	MinHour   = 1
	MaxHour   = 12
	MinMinute = 0
	MaxMinute = 59
	MinSecond = 0
	MaxSecond = 59
)

// Time is a displayable 12-hour clock reading.
type Time struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
	Second int `json:"second"`
}

// String renders the reading as zero-padded HH:MM:SS.
func (t Time) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Carry reports which coarser units advanced during a tick.
type Carry struct {
	Minute bool
	Hour   bool
}

// To12Hour converts an hour of day (0-23) to its 12-hour display value.
// Both 0 and 12 map to 12.
func To12Hour(hourOfDay int) int {
	h := hourOfDay % 12
	if h == 0 {
		return 12
	}
	return h
}

// ValidHour reports whether h is in the hour ring's domain.
func ValidHour(h int) bool { return h >= MinHour && h <= MaxHour }

// ValidMinute reports whether m is in the minute ring's domain.
func ValidMinute(m int) bool { return m >= MinMinute && m <= MaxMinute }

// ValidSecond reports whether s is in the second ring's domain.
func ValidSecond(s int) bool { return s >= MinSecond && s <= MaxSecond }
