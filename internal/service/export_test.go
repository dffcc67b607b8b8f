package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// sheetRows deserializes an exported workbook and returns one sheet.
func sheetRows(t *testing.T, data []byte, sheet string) [][]string {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheet)
	require.NoError(t, err)
	return rows
}

func TestExportParticipantsFilters(t *testing.T) {
	store, participants, rooms := newFixture(t)
	exports := NewExportService(store.Participants(), store.Rooms())
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Male", 10)
	mustCreateParticipant(t, participants, "M001", "Male")
	mustCreateParticipant(t, participants, "M002", "Male")
	mustCreateParticipant(t, participants, "F001", "Female")
	mustPay(t, participants, "M001")
	mustPay(t, participants, "F001")
	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "M001", RoomNumber: 101}, "frontdesk")
	require.NoError(t, err)

	// Unfiltered: everyone.
	data, err := exports.Participants(ctx, "", "", "")
	require.NoError(t, err)
	assert.Len(t, sheetRows(t, data, "Participants"), 4, "header plus all three participants")

	// Payment filter.
	data, err = exports.Participants(ctx, "", "Paid", "")
	require.NoError(t, err)
	rows := sheetRows(t, data, "Participants")
	require.Len(t, rows, 3)
	for _, row := range rows[1:] {
		assert.Equal(t, "Paid", row[5])
	}

	data, err = exports.Participants(ctx, "", "Unpaid", "")
	require.NoError(t, err)
	rows = sheetRows(t, data, "Participants")
	require.Len(t, rows, 2)
	assert.Equal(t, "M002", rows[1][0])

	// Allocation filter.
	data, err = exports.Participants(ctx, "", "", "Allocated")
	require.NoError(t, err)
	rows = sheetRows(t, data, "Participants")
	require.Len(t, rows, 2)
	assert.Equal(t, "M001", rows[1][0])
	assert.Equal(t, "101", rows[1][7])

	// Filters combine.
	data, err = exports.Participants(ctx, "Male", "Paid", "NotAllocated")
	require.NoError(t, err)
	assert.Len(t, sheetRows(t, data, "Participants"), 1, "header only; no male paid unallocated participant")

	var ve *ValidationError
	_, err = exports.Participants(ctx, "", "maybe", "")
	assert.ErrorAs(t, err, &ve)
	_, err = exports.Participants(ctx, "", "", "somewhere")
	assert.ErrorAs(t, err, &ve)
}

func TestExportOccupancyOnlyAllocated(t *testing.T) {
	store, participants, rooms := newFixture(t)
	exports := NewExportService(store.Participants(), store.Rooms())
	ctx := context.Background()

	mustCreateRoom(t, rooms, 101, "Female", 5)
	mustCreateParticipant(t, participants, "F001", "Female")
	mustCreateParticipant(t, participants, "F002", "Female")
	mustPay(t, participants, "F001")
	_, err := participants.Allocate(ctx, model.AllocateRequest{MHID: "F001", RoomNumber: 101}, "frontdesk")
	require.NoError(t, err)

	data, err := exports.Occupancy(ctx)
	require.NoError(t, err)

	rows := sheetRows(t, data, "Occupancy")
	require.Len(t, rows, 2, "only the allocated participant appears")
	assert.Equal(t, "F001", rows[1][1])

	summary := sheetRows(t, data, "Summary")
	require.Len(t, summary, 2)
	assert.Equal(t, "101", summary[1][0])
	assert.Equal(t, "1", summary[1][3])
}
