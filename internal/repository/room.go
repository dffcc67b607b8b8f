package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const roomColumns = `room_number, gender, total_capacity, occupied_count,
	block, floor, location, created_at, updated_at`

// RoomRepository handles persistence for the room inventory.
type RoomRepository struct {
	db *pgxpool.Pool
}

// NewRoomRepository constructs a RoomRepository.
func NewRoomRepository(db *pgxpool.Pool) *RoomRepository {
	return &RoomRepository{db: db}
}

func scanRoom(row pgx.Row) (*model.Room, error) {
	var r model.Room
	err := row.Scan(&r.RoomNumber, &r.Gender, &r.TotalCapacity, &r.OccupiedCount,
		&r.Block, &r.Floor, &r.Location, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Create inserts a new room with zero occupancy.
func (r *RoomRepository) Create(ctx context.Context, room *model.Room) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO rooms (room_number, gender, total_capacity, occupied_count, block, floor, location)
		 VALUES ($1, $2, $3, 0, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		room.RoomNumber, room.Gender, room.TotalCapacity, room.Block, room.Floor, room.Location,
	).Scan(&room.CreatedAt, &room.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateRoom
		}
		return fmt.Errorf("insert room: %w", err)
	}
	room.OccupiedCount = 0
	return nil
}

// GetByNumber returns a single room or ErrRoomNotFound.
func (r *RoomRepository) GetByNumber(ctx context.Context, roomNumber int) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE room_number = $1`, roomNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("get room: %w", err)
	}
	return room, nil
}

// List returns the whole inventory ordered by room number.
func (r *RoomRepository) List(ctx context.Context) ([]model.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms ORDER BY room_number ASC`)
	if err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	defer rows.Close()
	return collectRooms(rows)
}

// ListAvailableByGender returns rooms of the given gender with spare
// capacity, ordered ascending by room number. Read-only: a returned room
// may fill up before a subsequent allocation call, which re-validates.
func (r *RoomRepository) ListAvailableByGender(ctx context.Context, gender model.Gender) ([]model.Room, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+roomColumns+` FROM rooms
		 WHERE gender = $1 AND occupied_count < total_capacity
		 ORDER BY room_number ASC`,
		gender,
	)
	if err != nil {
		return nil, fmt.Errorf("list available rooms: %w", err)
	}
	defer rows.Close()
	return collectRooms(rows)
}

func collectRooms(rows pgx.Rows) ([]model.Room, error) {
	var rooms []model.Room
	for rows.Next() {
		var r model.Room
		if err := rows.Scan(&r.RoomNumber, &r.Gender, &r.TotalCapacity, &r.OccupiedCount,
			&r.Block, &r.Floor, &r.Location, &r.CreatedAt, &r.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan room: %w", err)
		}
		rooms = append(rooms, r)
	}
	return rooms, rows.Err()
}

// Delete removes an empty room. The conditional delete and the explicit
// re-check keep the operation safe against a concurrent allocation landing
// between the two statements.
func (r *RoomRepository) Delete(ctx context.Context, roomNumber int) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM rooms WHERE room_number = $1 AND occupied_count = 0`, roomNumber)
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish "absent" from "occupied".
		if _, getErr := r.GetByNumber(ctx, roomNumber); getErr != nil {
			return getErr
		}
		return ErrRoomOccupied
	}
	return nil
}

// UpdateCapacity changes total capacity, rejecting values below the
// current occupied count. Conditional update, same pattern as Delete.
func (r *RoomRepository) UpdateCapacity(ctx context.Context, roomNumber, capacity int) (*model.Room, error) {
	room, err := scanRoom(r.db.QueryRow(ctx,
		`UPDATE rooms
		 SET total_capacity = $2, updated_at = NOW()
		 WHERE room_number = $1 AND occupied_count <= $2
		 RETURNING `+roomColumns,
		roomNumber, capacity,
	))
	if err == nil {
		return room, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("update capacity: %w", err)
	}
	if _, getErr := r.GetByNumber(ctx, roomNumber); getErr != nil {
		return nil, getErr
	}
	return nil, ErrCapacityTooLow
}

// Stats aggregates the inventory per gender in a single scan.
func (r *RoomRepository) Stats(ctx context.Context) (*model.RoomStats, error) {
	rooms, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	var stats model.RoomStats
	for i := range rooms {
		room := &rooms[i]
		bucket := &stats.Male
		if room.Gender == model.Female {
			bucket = &stats.Female
		}
		for _, b := range []*model.GenderStats{&stats.Total, bucket} {
			b.Rooms++
			b.Capacity += room.TotalCapacity
			b.Occupied += room.OccupiedCount
			b.Available += room.AvailableSpots()
		}
	}
	return &stats, nil
}
