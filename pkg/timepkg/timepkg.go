// Package timepkg pins all ledger timestamps to the bank's reference
// timezone so records do not depend on the host clock's locale.
package timepkg

import "time"

const (
	zoneName   = "Asia/Ulaanbaatar"
	zoneOffset = 8 * 60 * 60 // UTC+8, no DST since 2017

	dateLayout = "2006.01.02"
	timeLayout = "15:04"
	fullLayout = "2006/01/02 15:04"
)

var location = loadLocation()

func loadLocation() *time.Location {
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		// Hosts without tzdata fall back to the fixed offset.
		return time.FixedZone("+08", zoneOffset)
	}

	return loc
}

// Stamp holds the three rendered forms of one instant in the reference zone.
type Stamp struct {
	Date string // 2025.01.05
	Time string // 14:30
	Full string // 2025/01/05 14:30
}

// Clock yields the current instant. The real clock is used everywhere
// outside tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock with the system time.
type RealClock struct{}

// Now returns the current system time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// In converts t to the reference timezone.
func In(t time.Time) time.Time {
	return t.In(location)
}

// StampOf renders t in the reference timezone.
func StampOf(t time.Time) Stamp {
	t = In(t)

	return Stamp{
		Date: t.Format(dateLayout),
		Time: t.Format(timeLayout),
		Full: t.Format(fullLayout),
	}
}
