package export

import (
	"testing"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRoomsWorkbook(t *testing.T) {
	f, err := RoomsWorkbook([]model.Room{
		{RoomNumber: 101, Gender: model.Male, TotalCapacity: 4, OccupiedCount: 1, Block: "A"},
		{RoomNumber: 201, Gender: model.Female, TotalCapacity: 2, OccupiedCount: 2},
	})
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Rooms"}, f.GetSheetList())

	rows, err := f.GetRows("Rooms")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus one row per room")
	assert.Equal(t, "Room Number", rows[0][0])
	assert.Equal(t, []string{"101", "Male", "4", "1", "3", "25.00", "A"}, rows[1][:7])
	assert.Equal(t, "100.00", rows[2][5], "a full room reads 100%")
}

func TestOccupancyWorkbook(t *testing.T) {
	rooms := []model.Room{
		{RoomNumber: 101, Gender: model.Male, TotalCapacity: 2, OccupiedCount: 2},
	}
	allocated := []model.Participant{
		{MHID: "X001", Name: "First", Gender: model.Male, PaymentStatus: model.Paid,
			AllocationStatus: model.Allocated, RoomNumber: intPtr(101), AllocatedBy: "frontdesk"},
		{MHID: "X002", Name: "Second", Gender: model.Male, PaymentStatus: model.Paid,
			AllocationStatus: model.Allocated, RoomNumber: intPtr(101), AllocatedBy: "frontdesk"},
	}

	f, err := OccupancyWorkbook(rooms, allocated)
	require.NoError(t, err)
	defer f.Close()

	assert.ElementsMatch(t, []string{"Occupancy", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Occupancy")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"101", "X001", "First", "Male"}, rows[1][:4])

	summary, err := f.GetRows("Summary")
	require.NoError(t, err)
	require.Len(t, summary, 2)
	assert.Equal(t, "YES", summary[1][5], "the full room is flagged")
}

func TestParticipantsWorkbook(t *testing.T) {
	f, err := ParticipantsWorkbook([]model.Participant{
		{MHID: "X001", Name: "Unplaced", Gender: model.Female,
			PaymentStatus: model.Unpaid, AllocationStatus: model.NotAllocated},
		{MHID: "X002", Name: "Placed", Gender: model.Female, PaymentStatus: model.Paid,
			AllocationStatus: model.Allocated, RoomNumber: intPtr(201), AllocatedBy: "frontdesk"},
	})
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Participants")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	// Unallocated participants carry no room number.
	unplaced := rows[1]
	assert.Equal(t, "X001", unplaced[0])
	assert.Equal(t, "NotAllocated", unplaced[6])

	placed := rows[2]
	assert.Equal(t, "201", placed[7])
	assert.Equal(t, "frontdesk", placed[8])
}

func TestEmptyWorkbooksStillHaveHeaders(t *testing.T) {
	f, err := RoomsWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Rooms")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Occupancy %", rows[0][5])
}
