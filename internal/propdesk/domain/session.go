package domain

import (
	"errors"
	"time"
)

var ErrInvalidSession = errors.New("invalid session record")

// Session records which identity is currently signed in. ID changes on every
// login so tickets from an earlier session stop matching.
type Session struct {
	ID            string    `json:"id"`
	Identity      Identity  `json:"identity"`
	EstablishedAt time.Time `json:"establishedAt"`
}

// Validate checks the fields a decoded session record must carry.
func (s *Session) Validate() error {
	switch {
	case s.ID == "":
		return errors.Join(ErrInvalidSession, errors.New("missing id"))
	case s.Identity.ID == "":
		return errors.Join(ErrInvalidSession, errors.New("missing identity id"))
	case s.Identity.Email == "":
		return errors.Join(ErrInvalidSession, errors.New("missing identity email"))
	case !s.Identity.Role.Valid():
		return errors.Join(ErrInvalidSession, ErrUnknownRole)
	case s.EstablishedAt.IsZero():
		return errors.Join(ErrInvalidSession, errors.New("missing establishedAt"))
	}
	return nil
}
