package domain

import "time"

// Holiday is one public holiday reported by the authoritative source.
// ExternalID is the source's stable resource identifier; it is what lets a
// sync pass tell "the same holiday moved to another date" apart from "a new
// holiday appeared".
type Holiday struct {
	CountryCode string
	Date        time.Time
	Name        string
	ExternalID  string
}
