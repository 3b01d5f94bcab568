// Package domain contains core concepts of the presence hub.
// This file defines Member entities and their presence states.
package domain

import (
	"d-hub/errors"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Presence is a member's coarse availability state.
type Presence string

const (
	PresenceOnline  Presence = "online"
	PresenceIdle    Presence = "idle"
	PresenceDND     Presence = "dnd"
	PresenceOffline Presence = "offline"
)

// Valid reports whether p is one of the four known states.
func (p Presence) Valid() bool {
	switch p {
	case PresenceOnline, PresenceIdle, PresenceDND, PresenceOffline:
		return true
	}
	return false
}

// Member is one user inside a single Server. Members are owned by the
// roster registry; everything else sees copies.
type Member struct {
	UID       string   `validate:"required"`
	Username  string   `validate:"required"`
	Status    Presence `validate:"required"`
	RoleColor string   `validate:"required,hexcolor"`
}

// Validate checks the member invariants: non-empty identity, a known
// presence state and a #RRGGBB role color.
func (m Member) Validate() error {
	if !m.Status.Valid() {
		return errors.ErrInvalidPresence
	}
	// hexcolor also admits the short #RGB form; the wire format is #RRGGBB only.
	if err := validate.Var(m.RoleColor, "required,hexcolor"); err != nil || len(m.RoleColor) != 7 {
		return errors.ErrInvalidColor
	}
	return validate.Struct(m)
}
