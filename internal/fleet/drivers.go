package fleet

import (
	"fmt"
	"slices"

	"fleet-go/internal/model"
)

// DriverUpdate carries the fields to change on a driver. Nil fields are left as they are.
type DriverUpdate struct {
	Name            *string
	License         *string
	Username        *string
	Password        *string // plaintext, stored through the Hasher
	Avatar          *string
	ActiveVehicleID *string
}

// AddDriver appends a driver to the roster. The password is stored through the Hasher.
func (s *Store) AddDriver(d model.Driver) (model.Driver, error) {
	d.ID = s.newID(d.ID)
	password, err := s.hasher.Hash(d.Password)
	if err != nil {
		return model.Driver{}, fmt.Errorf("hashing password: %w", err)
	}
	d.Password = password

	next := *s.snap
	next.Drivers = appendTo(s.snap.Drivers, d)
	if err := s.commit(&next); err != nil {
		return model.Driver{}, fmt.Errorf("adding driver: %w", err)
	}

	s.logger.Info("driver added", "driver", d.ID, "username", d.Username)
	return d, nil
}

// UpdateDriver merges the non-nil fields of up into the driver. If the driver
// is the one logged in, the session copy is updated too.
func (s *Store) UpdateDriver(id string, up DriverUpdate) error {
	i := slices.IndexFunc(s.snap.Drivers, byDriverID(id))
	if i < 0 {
		s.logger.Debug("update of unknown driver", "driver", id)
		return fmt.Errorf("updating driver %s: %w", id, ErrNotFound)
	}

	d := s.snap.Drivers[i]
	if up.Name != nil {
		d.Name = *up.Name
	}
	if up.License != nil {
		d.License = *up.License
	}
	if up.Username != nil {
		d.Username = *up.Username
	}
	if up.Password != nil {
		password, err := s.hasher.Hash(*up.Password)
		if err != nil {
			return fmt.Errorf("hashing password: %w", err)
		}
		d.Password = password
	}
	if up.Avatar != nil {
		d.Avatar = *up.Avatar
	}
	if up.ActiveVehicleID != nil {
		d.ActiveVehicleID = *up.ActiveVehicleID
	}

	if err := s.putDriver(i, d); err != nil {
		return fmt.Errorf("updating driver %s: %w", id, err)
	}

	s.logger.Info("driver updated", "driver", id)
	return nil
}

// DeleteDriver removes a driver from the roster. The admin driver is refused
// with ErrProtected. Fines and trips that reference the driver are kept.
func (s *Store) DeleteDriver(id string) error {
	if id == AdminID {
		s.logger.Warn("refused to delete admin driver")
		return fmt.Errorf("deleting driver %s: %w", id, ErrProtected)
	}
	if slices.IndexFunc(s.snap.Drivers, byDriverID(id)) < 0 {
		s.logger.Debug("delete of unknown driver", "driver", id)
		return fmt.Errorf("deleting driver %s: %w", id, ErrNotFound)
	}

	next := *s.snap
	next.Drivers = without(s.snap.Drivers, byDriverID(id))
	if err := s.commit(&next); err != nil {
		return fmt.Errorf("deleting driver %s: %w", id, err)
	}
	if s.current != nil && s.current.ID == id {
		if err := s.clearSession(); err != nil {
			return err
		}
	}

	s.logger.Info("driver deleted", "driver", id)
	return nil
}

// putDriver replaces the driver at index i and keeps the session in sync.
func (s *Store) putDriver(i int, d model.Driver) error {
	next := *s.snap
	next.Drivers = slices.Clone(s.snap.Drivers)
	next.Drivers[i] = d
	if err := s.commit(&next); err != nil {
		return err
	}
	if s.current != nil && s.current.ID == d.ID {
		return s.setSession(d)
	}
	return nil
}
