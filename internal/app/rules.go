package app

import (
	"fmt"
	"time"

	"fleet-go/internal/rodizio"
)

// CheckRestriction evaluates the rodízio rule for a plate travelling to place on date.
func (a *FleetApp) CheckRestriction(plate, place string, date time.Time) rodizio.Verdict {
	return a.rules.Check(plate, place, date)
}

// applyRestriction checks a trip against the rodízio rule. The city is checked,
// or the destination text when no city was given. A blocked verdict returns
// ErrRestricted when block is set and is only logged otherwise.
func (a *FleetApp) applyRestriction(plate, city, destination string, date time.Time, block bool) (rodizio.Verdict, error) {
	place := city
	if place == "" {
		place = destination
	}
	verdict := a.rules.Check(plate, place, date)
	if !verdict.Blocked() {
		return verdict, nil
	}
	if block {
		return verdict, fmt.Errorf("%s is %s and %s is inside %s: %w", plate, verdict.Label, place, verdict.City, ErrRestricted)
	}
	a.logger.Warn("vehicle restricted by rodízio", "plate", plate, "date", date.Format(time.DateOnly), "city", verdict.City, "label", verdict.Label)
	return verdict, nil
}

// Today returns the app clock's date at midnight in its location.
func (a *FleetApp) Today() time.Time {
	y, m, d := a.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, a.now().Location())
}
