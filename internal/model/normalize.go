package model

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizePlate upper-cases a plate and drops separators and spaces.
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(plate)) {
		if r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeUsername lower-cases a username and removes all whitespace.
func NormalizeUsername(username string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(username) {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ParseFuelType matches s case-insensitively against FuelTypes.
// "Eletrico" without the accent is accepted.
func ParseFuelType(s string) (FuelType, error) {
	for _, ft := range FuelTypes {
		if strings.EqualFold(s, string(ft)) {
			return ft, nil
		}
	}
	if strings.EqualFold(s, "eletrico") {
		return FuelEletrico, nil
	}
	return "", fmt.Errorf("unknown fuel type: %q", s)
}

// ParseSeverity accepts low, medium or high in any case.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(s)) {
	case SeverityLow:
		return SeverityLow, nil
	case SeverityMedium:
		return SeverityMedium, nil
	case SeverityHigh:
		return SeverityHigh, nil
	}
	return "", fmt.Errorf("unknown severity: %q", s)
}

// ParseVehicleStatus accepts a status name in any case.
func ParseVehicleStatus(s string) (VehicleStatus, error) {
	switch VehicleStatus(strings.ToUpper(s)) {
	case VehicleAvailable:
		return VehicleAvailable, nil
	case VehicleInUse:
		return VehicleInUse, nil
	case VehicleMaintenance:
		return VehicleMaintenance, nil
	}
	return "", fmt.Errorf("unknown vehicle status: %q", s)
}
