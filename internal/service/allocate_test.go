package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
	"github.com/NaiduBugata/MahoAccom/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFixture(t *testing.T) (*memory.Store, *ParticipantService, *RoomService) {
	t.Helper()
	store := memory.NewStore()
	participants := NewParticipantService(store.Participants(), store.Rooms())
	rooms := NewRoomService(store.Rooms())
	return store, participants, rooms
}

func mustCreateRoom(t *testing.T, rooms *RoomService, number int, gender string, capacity int) {
	t.Helper()
	_, err := rooms.Create(context.Background(), model.CreateRoomRequest{
		RoomNumber:    number,
		Gender:        gender,
		TotalCapacity: capacity,
	})
	require.NoError(t, err)
}

func mustCreateParticipant(t *testing.T, participants *ParticipantService, mhid, gender string) {
	t.Helper()
	_, existed, err := participants.Create(context.Background(), model.CreateParticipantRequest{
		MHID:          mhid,
		Name:          "Participant " + mhid,
		Gender:        gender,
		ContactNumber: "9999999999",
	})
	require.NoError(t, err)
	require.False(t, existed)
}

func mustPay(t *testing.T, participants *ParticipantService, mhid string) {
	t.Helper()
	_, err := participants.SetPayment(context.Background(), mhid, "Paid")
	require.NoError(t, err)
}

// assertOccupancyInvariant checks that every room's occupied count equals
// the number of participants pointing at it and never exceeds capacity.
func assertOccupancyInvariant(t *testing.T, store *memory.Store) {
	t.Helper()
	ctx := context.Background()
	rooms, err := store.Rooms().List(ctx)
	require.NoError(t, err)
	for _, room := range rooms {
		occupants, err := store.Participants().ListByRoom(ctx, room.RoomNumber)
		require.NoError(t, err)
		assert.Equal(t, len(occupants), room.OccupiedCount,
			"room %d occupied count must match its occupants", room.RoomNumber)
		assert.LessOrEqual(t, room.OccupiedCount, room.TotalCapacity,
			"room %d must never exceed capacity", room.RoomNumber)
	}
}

// Full coordinator workflow: create, pay, list available, allocate.
func TestAllocateHappyPath(t *testing.T) {
	store, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Male", 50)
	mustCreateParticipant(t, participants, "X001", "Male")
	mustPay(t, participants, "X001")

	available, err := rooms.ListAvailable(ctx, "Male")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 101, available[0].RoomNumber)

	result, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "x001", RoomNumber: 101}, "frontdesk")
	require.NoError(t, err)
	assert.False(t, result.AlreadyAllocated)
	require.NotNil(t, result.Participant.RoomNumber)
	assert.Equal(t, 101, *result.Participant.RoomNumber)
	assert.Equal(t, model.Allocated, result.Participant.AllocationStatus)
	assert.Equal(t, "frontdesk", result.Participant.AllocatedBy)
	assert.Equal(t, 1, result.Room.OccupiedCount)

	assertOccupancyInvariant(t, store)
}

// Re-allocation with a different room number must return the original
// room and leave all occupancy counts untouched.
func TestAllocateIdempotent(t *testing.T) {
	store, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Male", 50)
	mustCreateRoom(t, rooms, 102, "Male", 50)
	mustCreateParticipant(t, participants, "X001", "Male")
	mustPay(t, participants, "X001")

	first, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "X001", RoomNumber: 101}, "frontdesk")
	require.NoError(t, err)
	require.False(t, first.AlreadyAllocated)

	second, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "X001", RoomNumber: 102}, "frontdesk")
	require.NoError(t, err)
	assert.True(t, second.AlreadyAllocated)
	assert.Equal(t, 101, second.Room.RoomNumber, "must return the existing room, not the requested one")
	require.NotNil(t, second.Participant.RoomNumber)
	assert.Equal(t, 101, *second.Participant.RoomNumber)

	room101, err := store.Rooms().GetByNumber(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 1, room101.OccupiedCount, "occupancy must increment exactly once")

	room102, err := store.Rooms().GetByNumber(ctx, 102)
	require.NoError(t, err)
	assert.Equal(t, 0, room102.OccupiedCount, "the second room must be unaffected")

	assertOccupancyInvariant(t, store)
}

func TestAllocatePaymentGate(t *testing.T) {
	store, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Female", 50)
	mustCreateParticipant(t, participants, "X002", "Female")

	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "X002", RoomNumber: 101}, "frontdesk")
	assert.ErrorIs(t, err, repository.ErrPaymentRequired)

	room, err := store.Rooms().GetByNumber(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 0, room.OccupiedCount, "a rejected allocation must not mutate the room")

	p, err := participants.Check(ctx, "X002")
	require.NoError(t, err)
	assert.Equal(t, model.NotAllocated, p.AllocationStatus)
	assert.Nil(t, p.RoomNumber)
}

func TestAllocateGenderSeparation(t *testing.T) {
	store, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Male", 50)
	mustCreateParticipant(t, participants, "X002", "Female")
	mustPay(t, participants, "X002")

	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "X002", RoomNumber: 101}, "frontdesk")
	assert.ErrorIs(t, err, repository.ErrGenderMismatch)

	assertOccupancyInvariant(t, store)
	room, err := store.Rooms().GetByNumber(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 0, room.OccupiedCount)
}

func TestAllocatePreconditionOrder(t *testing.T) {
	_, participants, _ := newFixture(t)
	ctx := context.Background()

	// Unknown participant wins over unknown room.
	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "NOPE", RoomNumber: 999}, "frontdesk")
	assert.ErrorIs(t, err, repository.ErrParticipantNotFound)

	// Unpaid wins over unknown room.
	mustCreateParticipant(t, participants, "X003", "Male")
	_, err = participants.Allocate(ctx, model.AllocateRequest{MHID: "X003", RoomNumber: 999}, "frontdesk")
	assert.ErrorIs(t, err, repository.ErrPaymentRequired)

	// Paid but the room doesn't exist.
	mustPay(t, participants, "X003")
	_, err = participants.Allocate(ctx, model.AllocateRequest{MHID: "X003", RoomNumber: 999}, "frontdesk")
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

// Two paid participants race for a room with a single remaining slot:
// exactly one wins, the other observes room full, and the final occupancy
// is exactly one.
func TestAllocateLastSlotRace(t *testing.T) {
	store, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 301, "Male", 1)
	mustCreateParticipant(t, participants, "R001", "Male")
	mustCreateParticipant(t, participants, "R002", "Male")
	mustPay(t, participants, "R001")
	mustPay(t, participants, "R002")

	var wins, fulls atomic.Int32
	var wg sync.WaitGroup
	for _, mhid := range []string{"R001", "R002"} {
		wg.Add(1)
		go func(mhid string) {
			defer wg.Done()
			_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: mhid, RoomNumber: 301}, "frontdesk")
			switch {
			case err == nil:
				wins.Add(1)
			case assert.ErrorIs(t, err, repository.ErrRoomFull):
				fulls.Add(1)
			}
		}(mhid)
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load(), "exactly one caller may fill the last slot")
	assert.Equal(t, int32(1), fulls.Load(), "the loser must see room full")

	room, err := store.Rooms().GetByNumber(ctx, 301)
	require.NoError(t, err)
	assert.Equal(t, 1, room.OccupiedCount)
	assertOccupancyInvariant(t, store)
}

func TestAllocateFullRoom(t *testing.T) {
	store, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 301, "Male", 1)
	for _, mhid := range []string{"R001", "R002"} {
		mustCreateParticipant(t, participants, mhid, "Male")
		mustPay(t, participants, mhid)
	}

	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "R001", RoomNumber: 301}, "frontdesk")
	require.NoError(t, err)

	_, err = participants.Allocate(ctx, model.AllocateRequest{MHID: "R002", RoomNumber: 301}, "frontdesk")
	assert.ErrorIs(t, err, repository.ErrRoomFull)

	// Full rooms disappear from the available list.
	available, err := rooms.ListAvailable(ctx, "Male")
	require.NoError(t, err)
	assert.Empty(t, available)

	assertOccupancyInvariant(t, store)
}

func TestAllocateValidation(t *testing.T) {
	_, participants, _ := newFixture(t)
	ctx := context.Background()

	var ve *ValidationError
	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "  ", RoomNumber: 101}, "frontdesk")
	assert.ErrorAs(t, err, &ve)

	_, err = participants.Allocate(ctx, model.AllocateRequest{MHID: "X001", RoomNumber: 0}, "frontdesk")
	assert.ErrorAs(t, err, &ve)
}
