package app

import (
	"fmt"

	"fleet-go/internal/fleet"
	"fleet-go/internal/model"
)

// Login starts a session. Credentials must match a roster entry exactly.
func (a *FleetApp) Login(username, password string) (model.Driver, error) {
	return a.gateway.Login(username, password)
}

// Logout ends the session.
func (a *FleetApp) Logout() error {
	return a.gateway.Logout()
}

// Current returns the logged-in driver, or ErrNoSession.
func (a *FleetApp) Current() (model.Driver, error) {
	d, ok := a.gateway.Current()
	if !ok {
		return model.Driver{}, fleet.ErrNoSession
	}
	return d, nil
}

// ChangePassword sets a new password for the logged-in driver. The password
// must have at least MinPasswordLength characters and match its confirmation.
func (a *FleetApp) ChangePassword(password, confirm string) error {
	current, err := a.Current()
	if err != nil {
		return err
	}
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must have at least %d characters: %w", MinPasswordLength, fleet.ErrInvalid)
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match: %w", fleet.ErrInvalid)
	}
	return a.mutate(current.ID, func() error {
		return a.gateway.ChangePassword(password)
	})
}

// requireAdmin returns ErrNoSession without a session and ErrProtected when
// the session driver is not the admin.
func (a *FleetApp) requireAdmin(what string) error {
	current, err := a.Current()
	if err != nil {
		return err
	}
	if current.ID != fleet.AdminID {
		return fmt.Errorf("%s is reserved for the admin: %w", what, fleet.ErrProtected)
	}
	return nil
}
