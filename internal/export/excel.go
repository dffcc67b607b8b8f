// Package export renders point-in-time xlsx snapshots of the room
// inventory and participant registry. Read-only over the data model.
package export

import (
	"fmt"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/xuri/excelize/v2"
)

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []any, rows [][]any) error {
	if err := writeRow(f, sheet, 1, header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range rows {
		if err := writeRow(f, sheet, i+2, r); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return nil
}

func occupancyPercent(r *model.Room) string {
	return fmt.Sprintf("%.2f", float64(r.OccupiedCount)/float64(r.TotalCapacity)*100)
}

// RoomsWorkbook renders the full room inventory on a single sheet.
func RoomsWorkbook(rooms []model.Room) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Rooms"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []any{"Room Number", "Gender", "Total Capacity", "Occupied",
		"Available", "Occupancy %", "Block", "Floor", "Location"}
	rows := make([][]any, 0, len(rooms))
	for i := range rooms {
		r := &rooms[i]
		rows = append(rows, []any{r.RoomNumber, string(r.Gender), r.TotalCapacity,
			r.OccupiedCount, r.AvailableSpots(), occupancyPercent(r),
			r.Block, r.Floor, r.Location})
	}
	if err := writeSheet(f, sheet, header, rows); err != nil {
		return nil, err
	}
	return f, nil
}

// OccupancyWorkbook renders allocated participants room by room, plus a
// per-room summary sheet.
func OccupancyWorkbook(rooms []model.Room, allocated []model.Participant) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", "Occupancy"); err != nil {
		return nil, err
	}

	header := []any{"Room Number", "MHID", "Name", "Gender", "Contact",
		"Email", "Payment Status", "Allocated By"}
	rows := make([][]any, 0, len(allocated))
	for i := range allocated {
		p := &allocated[i]
		roomNumber := any("N/A")
		if p.RoomNumber != nil {
			roomNumber = *p.RoomNumber
		}
		rows = append(rows, []any{roomNumber, p.MHID, p.Name, string(p.Gender),
			p.ContactNumber, p.Email, string(p.PaymentStatus), p.AllocatedBy})
	}
	if err := writeSheet(f, "Occupancy", header, rows); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet("Summary"); err != nil {
		return nil, err
	}
	summaryHeader := []any{"Room Number", "Gender", "Capacity", "Occupied", "Available", "Full"}
	summaryRows := make([][]any, 0, len(rooms))
	for i := range rooms {
		r := &rooms[i]
		full := "NO"
		if r.IsFull() {
			full = "YES"
		}
		summaryRows = append(summaryRows, []any{r.RoomNumber, string(r.Gender),
			r.TotalCapacity, r.OccupiedCount, r.AvailableSpots(), full})
	}
	if err := writeSheet(f, "Summary", summaryHeader, summaryRows); err != nil {
		return nil, err
	}
	return f, nil
}

// ParticipantsWorkbook renders a participant list (already filtered by the
// caller) on a single sheet.
func ParticipantsWorkbook(participants []model.Participant) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Participants"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	header := []any{"MHID", "Name", "Gender", "Contact", "Email",
		"Payment Status", "Allocation Status", "Room Number", "Allocated By"}
	rows := make([][]any, 0, len(participants))
	for i := range participants {
		p := &participants[i]
		roomNumber := any("")
		if p.RoomNumber != nil {
			roomNumber = *p.RoomNumber
		}
		rows = append(rows, []any{p.MHID, p.Name, string(p.Gender), p.ContactNumber,
			p.Email, string(p.PaymentStatus), string(p.AllocationStatus),
			roomNumber, p.AllocatedBy})
	}
	if err := writeSheet(f, sheet, header, rows); err != nil {
		return nil, err
	}
	return f, nil
}
