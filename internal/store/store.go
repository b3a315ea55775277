// Package store persists Challenge Mode state: the current opponent, the
// round counters and the genetic memory of opponents that beat the player.
package store

import (
	"errors"
	"regexp"
)

var (
	// ErrNotFound is returned when a challenge does not exist.
	ErrNotFound = errors.New("challenge not found")
	// ErrExists is returned when creating a challenge whose ID is taken.
	ErrExists = errors.New("challenge already exists")
	// ErrInvalidID is returned for IDs that cannot be used as a key.
	ErrInvalidID = errors.New("invalid challenge id")
)

var validID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

func checkID(id string) error {
	if !validID.MatchString(id) {
		return ErrInvalidID
	}
	return nil
}
