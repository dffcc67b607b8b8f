package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/NaiduBugata/MahoAccom/internal/export"
	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
	"github.com/xuri/excelize/v2"
)

// ExportService produces xlsx snapshots. Reads only; never mutates the
// data model.
type ExportService struct {
	participants ParticipantStore
	rooms        RoomStore
}

// NewExportService constructs an ExportService.
func NewExportService(participants ParticipantStore, rooms RoomStore) *ExportService {
	return &ExportService{participants: participants, rooms: rooms}
}

func workbookBytes(f *excelize.File, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Rooms exports the full room inventory.
func (s *ExportService) Rooms(ctx context.Context) ([]byte, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	return workbookBytes(export.RoomsWorkbook(rooms))
}

// Occupancy exports allocated participants with a per-room summary.
func (s *ExportService) Occupancy(ctx context.Context) ([]byte, error) {
	rooms, err := s.rooms.List(ctx)
	if err != nil {
		return nil, err
	}
	allocated := model.Allocated
	participants, err := s.participants.List(ctx, repository.ParticipantFilter{
		AllocationStatus: &allocated,
	})
	if err != nil {
		return nil, err
	}
	return workbookBytes(export.OccupancyWorkbook(rooms, participants))
}

// Participants exports the registry, optionally filtered by gender,
// payment status, and allocation status.
func (s *ExportService) Participants(ctx context.Context, gender, payment, allocation string) ([]byte, error) {
	filter, err := parseParticipantFilter(gender, payment, allocation)
	if err != nil {
		return nil, err
	}
	participants, err := s.participants.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return workbookBytes(export.ParticipantsWorkbook(participants))
}
