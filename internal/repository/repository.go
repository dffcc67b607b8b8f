// Package repository implements all database access for the allocation
// system. It uses pgx directly (no ORM) for transparency over the
// transactional behavior the allocation engine depends on.
package repository

import (
	"errors"

	"github.com/NaiduBugata/MahoAccom/internal/model"
)

// Sentinel errors shared by every store implementation. The service and
// handler layers match on these with errors.Is to pick status codes and
// stable error kinds.
var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrRoomNotFound        = errors.New("room not found")
	ErrUserNotFound        = errors.New("user not found")

	// ErrDuplicateMHID is returned on a participant insert that loses a
	// race against the unique key. Callers resolve it by returning the
	// stored record, never by failing the request.
	ErrDuplicateMHID     = errors.New("participant with this mhid already exists")
	ErrDuplicateRoom     = errors.New("room with this number already exists")
	ErrDuplicateUsername = errors.New("username already exists")

	// Allocation engine preconditions.
	ErrPaymentRequired = errors.New("payment required before allocation")
	ErrGenderMismatch  = errors.New("gender mismatch between participant and room")
	ErrRoomFull        = errors.New("room full")

	// Room inventory preconditions.
	ErrRoomOccupied   = errors.New("room still has occupants")
	ErrCapacityTooLow = errors.New("capacity below current occupied count")
)

// ParticipantFilter narrows participant listings and exports. Nil fields
// match everything.
type ParticipantFilter struct {
	Gender           *model.Gender
	PaymentStatus    *model.PaymentStatus
	AllocationStatus *model.AllocationStatus
}
