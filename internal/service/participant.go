package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
)

// ParticipantService orchestrates participant registration, payment
// updates, and room allocation.
type ParticipantService struct {
	participants ParticipantStore
	rooms        RoomStore
}

// NewParticipantService constructs a ParticipantService with its dependencies.
func NewParticipantService(participants ParticipantStore, rooms RoomStore) *ParticipantService {
	return &ParticipantService{participants: participants, rooms: rooms}
}

// Check looks up a participant by MHID after normalization. Side-effect-free;
// repeated calls return the identical stored record.
func (s *ParticipantService) Check(ctx context.Context, mhid string) (*model.Participant, error) {
	mhid = model.NormalizeMHID(mhid)
	if mhid == "" {
		return nil, validationf("mhid is required")
	}
	return s.participants.GetByMHID(ctx, mhid)
}

// Create registers a new participant with Unpaid/NotAllocated defaults.
// Idempotent on MHID: an existing record is returned as-is with
// alreadyExisted=true, including when a concurrent insert wins the race
// and the storage layer rejects the duplicate key.
func (s *ParticipantService) Create(ctx context.Context, req model.CreateParticipantRequest) (p *model.Participant, alreadyExisted bool, err error) {
	mhid := model.NormalizeMHID(req.MHID)
	if mhid == "" {
		return nil, false, validationf("mhid is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, false, validationf("name is required")
	}
	contact := strings.TrimSpace(req.ContactNumber)
	if contact == "" {
		return nil, false, validationf("contact number is required")
	}
	gender, err := model.ParseGender(req.Gender)
	if err != nil {
		return nil, false, validationf("%s", err)
	}

	if existing, getErr := s.participants.GetByMHID(ctx, mhid); getErr == nil {
		return existing, true, nil
	} else if !errors.Is(getErr, repository.ErrParticipantNotFound) {
		return nil, false, fmt.Errorf("check existing participant: %w", getErr)
	}

	p = &model.Participant{
		MHID:             mhid,
		Name:             name,
		Gender:           gender,
		ContactNumber:    contact,
		Email:            strings.ToLower(strings.TrimSpace(req.Email)),
		PaymentStatus:    model.Unpaid,
		AllocationStatus: model.NotAllocated,
	}
	if err := s.participants.Create(ctx, p); err != nil {
		if errors.Is(err, repository.ErrDuplicateMHID) {
			// Lost the insert race; the stored record is authoritative.
			existing, getErr := s.participants.GetByMHID(ctx, mhid)
			if getErr != nil {
				return nil, false, fmt.Errorf("refetch after duplicate insert: %w", getErr)
			}
			return existing, true, nil
		}
		return nil, false, fmt.Errorf("create participant: %w", err)
	}
	return p, false, nil
}

// SetPayment updates the payment status. An existing allocation is never
// revoked, even on Paid -> Unpaid; revocation is out of scope.
func (s *ParticipantService) SetPayment(ctx context.Context, mhid, status string) (*model.Participant, error) {
	mhid = model.NormalizeMHID(mhid)
	if mhid == "" {
		return nil, validationf("mhid is required")
	}
	parsed, err := model.ParsePaymentStatus(status)
	if err != nil {
		return nil, validationf("%s", err)
	}
	return s.participants.SetPayment(ctx, mhid, parsed)
}

// Allocate assigns the chosen room to the participant. The precondition
// chain and the paired mutation run atomically in the store; this layer
// only validates the input shape.
func (s *ParticipantService) Allocate(ctx context.Context, req model.AllocateRequest, operator string) (*model.AllocationResult, error) {
	mhid := model.NormalizeMHID(req.MHID)
	if mhid == "" {
		return nil, validationf("mhid is required")
	}
	if req.RoomNumber <= 0 {
		return nil, validationf("roomNumber must be a positive integer")
	}
	return s.participants.Allocate(ctx, mhid, req.RoomNumber, operator)
}

// Update is the admin correction path. It validates any provided enum
// fields and leaves the allocation untouched — changing gender on an
// already-allocated participant does not move or revoke the assignment.
func (s *ParticipantService) Update(ctx context.Context, mhid string, req model.UpdateParticipantRequest) (*model.Participant, error) {
	mhid = model.NormalizeMHID(mhid)
	if mhid == "" {
		return nil, validationf("mhid is required")
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			return nil, validationf("name cannot be empty")
		}
		req.Name = &trimmed
	}
	if req.ContactNumber != nil {
		trimmed := strings.TrimSpace(*req.ContactNumber)
		if trimmed == "" {
			return nil, validationf("contact number cannot be empty")
		}
		req.ContactNumber = &trimmed
	}
	if req.Gender != nil {
		gender, err := model.ParseGender(*req.Gender)
		if err != nil {
			return nil, validationf("%s", err)
		}
		g := string(gender)
		req.Gender = &g
	}
	if req.PaymentStatus != nil {
		status, err := model.ParsePaymentStatus(*req.PaymentStatus)
		if err != nil {
			return nil, validationf("%s", err)
		}
		st := string(status)
		req.PaymentStatus = &st
	}
	return s.participants.Update(ctx, mhid, req)
}

// ListByRoom returns the participants allocated to a room, after checking
// the room exists.
func (s *ParticipantService) ListByRoom(ctx context.Context, roomNumber int) (*model.Room, []model.Participant, error) {
	room, err := s.rooms.GetByNumber(ctx, roomNumber)
	if err != nil {
		return nil, nil, err
	}
	participants, err := s.participants.ListByRoom(ctx, roomNumber)
	if err != nil {
		return nil, nil, err
	}
	return room, participants, nil
}

// parseParticipantFilter turns the optional gender/payment/allocation
// query strings into a repository filter. Shared by listing and export.
func parseParticipantFilter(gender, payment, allocation string) (repository.ParticipantFilter, error) {
	var filter repository.ParticipantFilter
	if gender != "" {
		g, err := model.ParseGender(gender)
		if err != nil {
			return filter, validationf("%s", err)
		}
		filter.Gender = &g
	}
	if payment != "" {
		p, err := model.ParsePaymentStatus(payment)
		if err != nil {
			return filter, validationf("%s", err)
		}
		filter.PaymentStatus = &p
	}
	if allocation != "" {
		switch strings.ToLower(strings.TrimSpace(allocation)) {
		case "allocated":
			a := model.Allocated
			filter.AllocationStatus = &a
		case "notallocated", "not allocated":
			a := model.NotAllocated
			filter.AllocationStatus = &a
		default:
			return filter, validationf("%q is not a valid allocation status", allocation)
		}
	}
	return filter, nil
}

// List returns participants matching the filter strings, each optional.
func (s *ParticipantService) List(ctx context.Context, gender, payment, allocation string) ([]model.Participant, error) {
	filter, err := parseParticipantFilter(gender, payment, allocation)
	if err != nil {
		return nil, err
	}
	return s.participants.List(ctx, filter)
}
