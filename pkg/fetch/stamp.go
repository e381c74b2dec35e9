package fetch

import (
	"time"
	// version stamps use US/Pacific even where the host has no zoneinfo
	_ "time/tzdata"
)

const stampLayout = "Monday Jan 02 03:04:05 PM MST"

var pacific = mustLocation("US/Pacific")

func mustLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// VersionStamp formats now in US/Pacific for version.txt files.
func VersionStamp(now time.Time) string {
	return now.In(pacific).Format(stampLayout)
}

// VersionLine is the content of a version.txt file. from names the file the
// data was built from and may be empty.
func VersionLine(now time.Time, from string) string {
	line := "Updated at " + VersionStamp(now)
	if from != "" {
		line += " from " + from
	}
	return line + "\n"
}
