// Package ride holds the ride lifecycle and request-approval state machines.
// The backend is authoritative for every transition; what lives here is the
// client-side contract: which transitions are worth a network call at all.
package ride

import (
	"errors"
	"fmt"

	"github.com/example/commute-front/internal/models"
)

var (
	// ErrSameStatus marks a no-op selection. Callers drop it silently and
	// must not issue a network call.
	ErrSameStatus = errors.New("status unchanged")

	// ErrTerminal marks a transition out of COMPLETED or CANCELED.
	ErrTerminal = errors.New("ride status is terminal")

	ErrUnknownStatus = errors.New("unknown ride status")
)

// transitions is the full lifecycle: OPEN -> ONGOING -> COMPLETED, with
// cancellation possible from OPEN and ONGOING. Terminal states map to nil.
var transitions = map[models.RideStatus][]models.RideStatus{
	models.RideOpen:      {models.RideOngoing, models.RideCanceled},
	models.RideOngoing:   {models.RideCompleted, models.RideCanceled},
	models.RideCompleted: nil,
	models.RideCanceled:  nil,
}

// Terminal reports whether no further transition is permitted. The status
// control is not rendered at all for terminal rides.
func Terminal(s models.RideStatus) bool {
	next, ok := transitions[s]
	return ok && len(next) == 0
}

// Targets returns the statuses reachable from s, in display order.
func Targets(s models.RideStatus) []models.RideStatus {
	return transitions[s]
}

// CanTransition reports whether from -> to is a defined lifecycle edge.
// Selecting the current status is not a transition.
func CanTransition(from, to models.RideStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// ValidateTransition classifies a requested transition before any network
// traffic. ErrSameStatus is the silent no-op case; everything else is a
// client-side validation failure.
func ValidateTransition(from, to models.RideStatus) error {
	if _, ok := transitions[from]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if _, ok := transitions[to]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	if from == to {
		return ErrSameStatus
	}
	if Terminal(from) {
		return ErrTerminal
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("no transition %s -> %s", from, to)
	}
	return nil
}

// RequestTerminal reports whether a join-request status accepts no further
// change. PENDING is the only live state.
func RequestTerminal(s models.RequestStatus) bool {
	return s == models.RequestAccepted || s == models.RequestRejected
}

// ValidRequestDecision reports whether setting a request to the given status
// is a decision a driver can still make. The control for the current status
// is disabled in the UI; this is the matching server-side check.
func ValidRequestDecision(current, target models.RequestStatus) bool {
	if target != models.RequestAccepted && target != models.RequestRejected {
		return false
	}
	return current != target
}
