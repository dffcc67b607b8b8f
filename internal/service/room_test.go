package service

import (
	"context"
	"testing"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomCreate(t *testing.T) {
	_, _, rooms := newFixture(t)
	ctx := context.Background()

	room, err := rooms.Create(ctx, model.CreateRoomRequest{
		RoomNumber:    101,
		Gender:        "boys",
		TotalCapacity: 50,
		Block:         "A",
		Floor:         "1",
	})
	require.NoError(t, err)
	assert.Equal(t, model.Male, room.Gender)
	assert.Equal(t, 0, room.OccupiedCount, "new rooms start empty")
	assert.Equal(t, 50, room.AvailableSpots())
	assert.False(t, room.CreatedAt.IsZero(), "a created record carries its timestamps")

	_, err = rooms.Create(ctx, model.CreateRoomRequest{
		RoomNumber:    101,
		Gender:        "Female",
		TotalCapacity: 10,
	})
	assert.ErrorIs(t, err, repository.ErrDuplicateRoom)
}

func TestRoomCreateValidation(t *testing.T) {
	_, _, rooms := newFixture(t)
	ctx := context.Background()
	var ve *ValidationError

	_, err := rooms.Create(ctx, model.CreateRoomRequest{RoomNumber: 0, Gender: "Male", TotalCapacity: 10})
	assert.ErrorAs(t, err, &ve)

	_, err = rooms.Create(ctx, model.CreateRoomRequest{RoomNumber: 101, Gender: "Male", TotalCapacity: 0})
	assert.ErrorAs(t, err, &ve)

	_, err = rooms.Create(ctx, model.CreateRoomRequest{RoomNumber: 101, Gender: "mixed", TotalCapacity: 10})
	assert.ErrorAs(t, err, &ve)
}

func TestRoomListAvailableOrderingAndFiltering(t *testing.T) {
	_, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 202, "Male", 1)
	mustCreateRoom(t, rooms, 101, "Male", 2)
	mustCreateRoom(t, rooms, 301, "Female", 2)

	available, err := rooms.ListAvailable(ctx, "Male")
	require.NoError(t, err)
	require.Len(t, available, 2)
	assert.Equal(t, 101, available[0].RoomNumber, "available rooms come back ordered by room number")
	assert.Equal(t, 202, available[1].RoomNumber)

	// Filling 202 removes it from the list.
	mustCreateParticipant(t, participants, "M100", "Male")
	mustPay(t, participants, "M100")
	_, err = participants.Allocate(ctx, model.AllocateRequest{MHID: "M100", RoomNumber: 202}, "frontdesk")
	require.NoError(t, err)

	available, err = rooms.ListAvailable(ctx, "Male")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, 101, available[0].RoomNumber)

	var ve *ValidationError
	_, err = rooms.ListAvailable(ctx, "mixed")
	assert.ErrorAs(t, err, &ve)
}

func TestRoomDelete(t *testing.T) {
	_, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Male", 5)
	mustCreateParticipant(t, participants, "M200", "Male")
	mustPay(t, participants, "M200")
	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "M200", RoomNumber: 101}, "frontdesk")
	require.NoError(t, err)

	// Occupied rooms cannot be removed.
	err = rooms.Delete(ctx, 101)
	assert.ErrorIs(t, err, repository.ErrRoomOccupied)
	_, err = rooms.Get(ctx, 101)
	assert.NoError(t, err)

	mustCreateRoom(t, rooms, 102, "Male", 5)
	require.NoError(t, rooms.Delete(ctx, 102))
	_, err = rooms.Get(ctx, 102)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)

	err = rooms.Delete(ctx, 999)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestRoomUpdateCapacity(t *testing.T) {
	_, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Female", 2)
	for _, mhid := range []string{"F100", "F101"} {
		mustCreateParticipant(t, participants, mhid, "Female")
		mustPay(t, participants, mhid)
		_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: mhid, RoomNumber: 101}, "frontdesk")
		require.NoError(t, err)
	}

	// Growing is always fine.
	room, err := rooms.UpdateCapacity(ctx, 101, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, room.TotalCapacity)
	assert.Equal(t, 2, room.OccupiedCount)

	// Shrinking below the current occupancy is rejected.
	_, err = rooms.UpdateCapacity(ctx, 101, 1)
	assert.ErrorIs(t, err, repository.ErrCapacityTooLow)

	// Shrinking down to exactly the occupancy is allowed; the room is then full.
	room, err = rooms.UpdateCapacity(ctx, 101, 2)
	require.NoError(t, err)
	assert.True(t, room.IsFull())

	_, err = rooms.UpdateCapacity(ctx, 999, 5)
	assert.ErrorIs(t, err, repository.ErrRoomNotFound)
}

func TestRoomStats(t *testing.T) {
	_, participants, rooms := newFixture(t)
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Male", 10)
	mustCreateRoom(t, rooms, 102, "Male", 10)
	mustCreateRoom(t, rooms, 201, "Female", 8)

	mustCreateParticipant(t, participants, "M300", "Male")
	mustPay(t, participants, "M300")
	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "M300", RoomNumber: 101}, "frontdesk")
	require.NoError(t, err)

	stats, err := rooms.Stats(ctx)
	require.NoError(t, err)

	assert.Equal(t, model.GenderStats{Rooms: 2, Capacity: 20, Occupied: 1, Available: 19}, stats.Male)
	assert.Equal(t, model.GenderStats{Rooms: 1, Capacity: 8, Occupied: 0, Available: 8}, stats.Female)
	assert.Equal(t, model.GenderStats{Rooms: 3, Capacity: 28, Occupied: 1, Available: 27}, stats.Total)
}
