package app

import (
	"fmt"
	"slices"
	"strings"

	"fleet-go/internal/config"
	"fleet-go/internal/fleet"
	"fleet-go/internal/fs"
	"fleet-go/internal/model"
)

// DefaultDriverPassword is given to drivers registered without a password.
const DefaultDriverPassword = "123"

// MinPasswordLength is the shortest password a driver may choose.
const MinPasswordLength = 4

// Drivers returns the roster.
func (a *FleetApp) Drivers() []model.Driver {
	return a.store.Drivers()
}

// Driver returns one driver by id.
func (a *FleetApp) Driver(id string) (model.Driver, error) {
	d, ok := a.store.Driver(id)
	if !ok {
		return model.Driver{}, fmt.Errorf("driver %s: %w", id, fleet.ErrNotFound)
	}
	return d, nil
}

// AddDriver registers a driver. Name, license and username are required and
// the username must be free. New drivers must change their password on first use.
func (a *FleetApp) AddDriver(d model.Driver) (model.Driver, error) {
	d.Username = model.NormalizeUsername(d.Username)
	if strings.TrimSpace(d.Name) == "" || strings.TrimSpace(d.License) == "" || d.Username == "" {
		return model.Driver{}, fmt.Errorf("name, license and username are required: %w", fleet.ErrInvalid)
	}
	if err := a.checkUsername("", d.Username); err != nil {
		return model.Driver{}, err
	}
	if d.Password == "" {
		d.Password = DefaultDriverPassword
	}
	d.PasswordChanged = false

	var added model.Driver
	err := a.mutate(d.Username, func() error {
		var err error
		added, err = a.store.AddDriver(d)
		return err
	})
	return added, err
}

// UpdateDriver edits a driver. An empty password leaves the current one in place.
func (a *FleetApp) UpdateDriver(id string, up fleet.DriverUpdate) error {
	if _, err := a.Driver(id); err != nil {
		return err
	}
	if up.Username != nil {
		username := model.NormalizeUsername(*up.Username)
		if username == "" {
			return fmt.Errorf("username cannot be empty: %w", fleet.ErrInvalid)
		}
		if err := a.checkUsername(id, username); err != nil {
			return err
		}
		up.Username = &username
	}
	if up.Password != nil && *up.Password == "" {
		up.Password = nil
	}
	return a.mutate(id, func() error {
		return a.store.UpdateDriver(id, up)
	})
}

// SetAvatar reads the image at path and stores it as the driver's avatar.
func (a *FleetApp) SetAvatar(id, path string) error {
	if _, err := a.Driver(id); err != nil {
		return err
	}
	maxSize := a.cfg.Avatar.MaxSize
	if maxSize <= 0 {
		maxSize = config.DefaultAvatarMaxSize
	}
	avatar, err := fs.ReadAvatar(a.fsmgr, path, maxSize)
	if err != nil {
		return fmt.Errorf("importing avatar: %w", err)
	}
	return a.UpdateDriver(id, fleet.DriverUpdate{Avatar: &avatar})
}

// DeleteDriver removes a driver. The admin driver cannot be removed; fines of
// the driver stay on record.
func (a *FleetApp) DeleteDriver(id string) error {
	return a.mutate(id, func() error {
		return a.store.DeleteDriver(id)
	})
}

// checkUsername fails if username belongs to a driver other than selfID.
func (a *FleetApp) checkUsername(selfID, username string) error {
	taken := slices.ContainsFunc(a.store.Drivers(), func(d model.Driver) bool {
		return d.Username == username && d.ID != selfID
	})
	if taken {
		return fmt.Errorf("username %s already taken: %w", username, fleet.ErrInvalid)
	}
	return nil
}
