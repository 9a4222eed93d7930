// Package store applies settlement deltas to player profiles. It is the only
// place in the module that guards shared player state: every delta is applied
// at most once per event id.
package store

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/ChicagoDave/tourplanner/pkg/economics"
)

var (
	ErrAlreadySettled = errors.New("event already settled")
	ErrPlayerNotFound = errors.New("player not found")
)

const (
	minHealth = 0
	maxHealth = 100
)

// eventNamespace scopes settlement event ids derived from tour and stop ids.
var eventNamespace = uuid.MustParse("6f1c2b1e-6a2d-4f3e-9d0b-4b8e2f7c9a11")

// Profile is a stored player with its optimistic version counter.
type Profile struct {
	economics.PlayerState
	Version int64 `json:"version"`
}

// ProfileStore owns player state.
type ProfileStore interface {
	Get(ctx context.Context, playerID string) (Profile, error)
	Put(ctx context.Context, p economics.PlayerState) (Profile, error)
	// ApplyDelta adds d to the player exactly once per eventID. A replayed
	// event returns ErrAlreadySettled and leaves the profile unchanged.
	ApplyDelta(ctx context.Context, playerID, eventID string, d economics.Deltas) (Profile, error)
}

// EventID derives a stable settlement event id for a stop, so retries of the
// same completion map to the same event.
func EventID(tourID, stopID string) string {
	return uuid.NewSHA1(eventNamespace, []byte(tourID+"/"+stopID)).String()
}

// apply is the in-process form of the clamped update PostgresStore runs in SQL.
func apply(p economics.PlayerState, d economics.Deltas) economics.PlayerState {
	p.Cash += d.CashDelta
	p.Fame += d.FameDelta
	if p.Fame < 0 {
		p.Fame = 0
	}
	p.Health += d.HealthDelta
	if p.Health < minHealth {
		p.Health = minHealth
	}
	if p.Health > maxHealth {
		p.Health = maxHealth
	}
	p.Experience += d.ExperienceDelta
	p.Attributes = p.Attributes.Add(d.AttributeDeltas)
	return p
}
