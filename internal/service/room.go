package service

import (
	"context"
	"strings"

	"github.com/NaiduBugata/MahoAccom/internal/model"
)

// RoomService orchestrates room inventory management.
type RoomService struct {
	rooms RoomStore
}

// NewRoomService constructs a RoomService.
func NewRoomService(rooms RoomStore) *RoomService {
	return &RoomService{rooms: rooms}
}

// Create adds a room to the inventory with zero occupancy.
func (s *RoomService) Create(ctx context.Context, req model.CreateRoomRequest) (*model.Room, error) {
	if req.RoomNumber <= 0 {
		return nil, validationf("roomNumber must be a positive integer")
	}
	if req.TotalCapacity <= 0 {
		return nil, validationf("totalCapacity must be a positive integer")
	}
	gender, err := model.ParseGender(req.Gender)
	if err != nil {
		return nil, validationf("%s", err)
	}
	room := &model.Room{
		RoomNumber:    req.RoomNumber,
		Gender:        gender,
		TotalCapacity: req.TotalCapacity,
		Block:         strings.TrimSpace(req.Block),
		Floor:         strings.TrimSpace(req.Floor),
		Location:      strings.TrimSpace(req.Location),
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}
	return room, nil
}

// Get returns a single room.
func (s *RoomService) Get(ctx context.Context, roomNumber int) (*model.Room, error) {
	return s.rooms.GetByNumber(ctx, roomNumber)
}

// List returns the whole inventory ordered by room number.
func (s *RoomService) List(ctx context.Context) ([]model.Room, error) {
	return s.rooms.List(ctx)
}

// ListAvailable returns rooms of the given gender with spare capacity.
// Purely informational: nothing is reserved, and the subsequent allocation
// call re-validates capacity server-side.
func (s *RoomService) ListAvailable(ctx context.Context, gender string) ([]model.Room, error) {
	g, err := model.ParseGender(gender)
	if err != nil {
		return nil, validationf("%s", err)
	}
	return s.rooms.ListAvailableByGender(ctx, g)
}

// Delete removes a room, rejecting the call while anyone still occupies it.
func (s *RoomService) Delete(ctx context.Context, roomNumber int) error {
	if roomNumber <= 0 {
		return validationf("roomNumber must be a positive integer")
	}
	return s.rooms.Delete(ctx, roomNumber)
}

// UpdateCapacity changes a room's capacity, never below its current
// occupancy.
func (s *RoomService) UpdateCapacity(ctx context.Context, roomNumber, capacity int) (*model.Room, error) {
	if roomNumber <= 0 {
		return nil, validationf("roomNumber must be a positive integer")
	}
	if capacity <= 0 {
		return nil, validationf("totalCapacity must be a positive integer")
	}
	return s.rooms.UpdateCapacity(ctx, roomNumber, capacity)
}

// Stats returns the inventory summary split by gender.
func (s *RoomService) Stats(ctx context.Context) (*model.RoomStats, error) {
	return s.rooms.Stats(ctx)
}
