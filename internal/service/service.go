// Package service implements business logic, validation, and orchestration
// between HTTP handlers and the storage layer.
package service

import (
	"context"
	"fmt"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
)

// ParticipantStore is the persistence contract for participants, including
// the transactional allocation operation.
type ParticipantStore interface {
	GetByMHID(ctx context.Context, mhid string) (*model.Participant, error)
	Create(ctx context.Context, p *model.Participant) error
	SetPayment(ctx context.Context, mhid string, status model.PaymentStatus) (*model.Participant, error)
	Update(ctx context.Context, mhid string, upd model.UpdateParticipantRequest) (*model.Participant, error)
	ListByRoom(ctx context.Context, roomNumber int) ([]model.Participant, error)
	List(ctx context.Context, filter repository.ParticipantFilter) ([]model.Participant, error)
	Allocate(ctx context.Context, mhid string, roomNumber int, operator string) (*model.AllocationResult, error)
}

// RoomStore is the persistence contract for the room inventory.
type RoomStore interface {
	Create(ctx context.Context, room *model.Room) error
	GetByNumber(ctx context.Context, roomNumber int) (*model.Room, error)
	List(ctx context.Context) ([]model.Room, error)
	ListAvailableByGender(ctx context.Context, gender model.Gender) ([]model.Room, error)
	Delete(ctx context.Context, roomNumber int) error
	UpdateCapacity(ctx context.Context, roomNumber, capacity int) (*model.Room, error)
	Stats(ctx context.Context) (*model.RoomStats, error)
}

// UserStore is the persistence contract for operator accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// ValidationError marks malformed or missing caller input. Handlers map it
// to HTTP 400 with the validation_error kind.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func validationf(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}
