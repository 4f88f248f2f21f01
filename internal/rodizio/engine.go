package rodizio

import (
	"strings"
	"time"
)

// Verdict is the result of checking a trip against the restriction.
type Verdict struct {
	Plate      string
	Date       time.Time
	Restricted bool // the plate is barred on Date
	Regulated  bool // the destination is inside the regulated city
	Label      string
	City       string
}

// Blocked reports whether the trip would break the restriction.
func (v Verdict) Blocked() bool {
	return v.Restricted && v.Regulated
}

// Engine checks trips against the restriction of one regulated city.
type Engine struct {
	city string
}

// NewEngine returns an Engine for city.
func NewEngine(city string) *Engine {
	return &Engine{city: city}
}

// City returns the regulated city name as configured.
func (e *Engine) City() string {
	return e.city
}

// InRegulatedCity reports whether destination names the regulated city.
// Matching is case-insensitive, ignores diacritics and accepts the city name
// anywhere in the text, so "Av. Paulista, São Paulo - SP" matches.
func (e *Engine) InRegulatedCity(destination string) bool {
	city := NormalizeCity(e.city)
	if city == "" {
		return false
	}
	return strings.Contains(NormalizeCity(destination), city)
}

// Check evaluates a trip of plate to destination on date.
func (e *Engine) Check(plate, destination string, date time.Time) Verdict {
	return Verdict{
		Plate:      plate,
		Date:       date,
		Restricted: IsRestricted(plate, date),
		Regulated:  e.InRegulatedCity(destination),
		Label:      RestrictionLabel(plate),
		City:       e.city,
	}
}
