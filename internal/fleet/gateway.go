package fleet

import (
	"fmt"
	"slices"

	"fleet-go/internal/model"
)

// Gateway checks credentials against the driver roster and owns the session.
type Gateway struct {
	store *Store
}

func NewGateway(store *Store) *Gateway {
	return &Gateway{store: store}
}

// Login starts a session for the driver whose username and password both match
// exactly. Any mismatch returns ErrInvalidCredentials and leaves the session as it was.
func (g *Gateway) Login(username, password string) (model.Driver, error) {
	s := g.store
	i := slices.IndexFunc(s.snap.Drivers, func(d model.Driver) bool {
		return d.Username == username && s.hasher.Verify(d.Password, password)
	})
	if i < 0 {
		s.logger.Warn("login failed", "username", username)
		return model.Driver{}, ErrInvalidCredentials
	}

	d := s.snap.Drivers[i]
	if err := s.setSession(d); err != nil {
		return model.Driver{}, fmt.Errorf("starting session: %w", err)
	}

	s.logger.Info("login", "driver", d.ID)
	return d, nil
}

// Logout ends the session. Logging out without a session is not an error.
func (g *Gateway) Logout() error {
	s := g.store
	if s.current == nil {
		return nil
	}
	id := s.current.ID
	if err := s.clearSession(); err != nil {
		return err
	}
	s.logger.Info("logout", "driver", id)
	return nil
}

// ChangePassword replaces the password of the logged-in driver and marks it as
// changed, in the roster and in the session alike.
func (g *Gateway) ChangePassword(newPassword string) error {
	s := g.store
	if s.current == nil {
		return ErrNoSession
	}
	i := slices.IndexFunc(s.snap.Drivers, byDriverID(s.current.ID))
	if i < 0 {
		return fmt.Errorf("changing password for %s: %w", s.current.ID, ErrNotFound)
	}

	password, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}
	d := s.snap.Drivers[i]
	d.Password = password
	d.PasswordChanged = true
	if err := s.putDriver(i, d); err != nil {
		return fmt.Errorf("changing password for %s: %w", d.ID, err)
	}

	s.logger.Info("password changed", "driver", d.ID)
	return nil
}

// Current returns the logged-in driver.
func (g *Gateway) Current() (model.Driver, bool) {
	return g.store.Current()
}

// Current returns the logged-in driver.
func (s *Store) Current() (model.Driver, bool) {
	if s.current == nil {
		return model.Driver{}, false
	}
	return *s.current, true
}

func (s *Store) setSession(d model.Driver) error {
	if err := s.sessions.Save(&d); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	s.current = &d
	return nil
}

func (s *Store) clearSession() error {
	if err := s.sessions.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	s.current = nil
	return nil
}
