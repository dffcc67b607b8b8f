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

const participantColumns = `mhid, name, gender, contact_number, email,
	payment_status, allocation_status, room_number, allocated_by,
	created_at, updated_at`

// ParticipantRepository handles persistence for participants and owns the
// allocation transaction that links them to rooms.
type ParticipantRepository struct {
	db *pgxpool.Pool
}

// NewParticipantRepository constructs a ParticipantRepository.
func NewParticipantRepository(db *pgxpool.Pool) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func scanParticipant(row pgx.Row) (*model.Participant, error) {
	var p model.Participant
	err := row.Scan(&p.MHID, &p.Name, &p.Gender, &p.ContactNumber, &p.Email,
		&p.PaymentStatus, &p.AllocationStatus, &p.RoomNumber, &p.AllocatedBy,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByMHID returns the stored record for a normalized MHID, or
// ErrParticipantNotFound. Side-effect-free.
func (r *ParticipantRepository) GetByMHID(ctx context.Context, mhid string) (*model.Participant, error) {
	p, err := scanParticipant(r.db.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE mhid = $1`, mhid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("get participant: %w", err)
	}
	return p, nil
}

// Create inserts a new participant. A unique-key violation is reported as
// ErrDuplicateMHID so the caller can fall back to the existing record.
func (r *ParticipantRepository) Create(ctx context.Context, p *model.Participant) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO participants (mhid, name, gender, contact_number, email, payment_status, allocation_status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at, updated_at`,
		p.MHID, p.Name, p.Gender, p.ContactNumber, p.Email, p.PaymentStatus, p.AllocationStatus,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateMHID
		}
		return fmt.Errorf("insert participant: %w", err)
	}
	return nil
}

// SetPayment updates the payment status. Pure participant-state change:
// an existing allocation is untouched even on Paid -> Unpaid.
func (r *ParticipantRepository) SetPayment(ctx context.Context, mhid string, status model.PaymentStatus) (*model.Participant, error) {
	p, err := scanParticipant(r.db.QueryRow(ctx,
		`UPDATE participants SET payment_status = $2, updated_at = NOW()
		 WHERE mhid = $1
		 RETURNING `+participantColumns,
		mhid, status,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("set payment: %w", err)
	}
	return p, nil
}

// Update applies the admin correction path. It never touches room_number,
// allocation_status, or room occupancy, even when gender changes on an
// already-allocated participant.
func (r *ParticipantRepository) Update(ctx context.Context, mhid string, upd model.UpdateParticipantRequest) (*model.Participant, error) {
	p, err := scanParticipant(r.db.QueryRow(ctx,
		`UPDATE participants SET
			name           = COALESCE($2, name),
			contact_number = COALESCE($3, contact_number),
			gender         = COALESCE($4, gender),
			payment_status = COALESCE($5, payment_status),
			updated_at     = NOW()
		 WHERE mhid = $1
		 RETURNING `+participantColumns,
		mhid, upd.Name, upd.ContactNumber, upd.Gender, upd.PaymentStatus,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrParticipantNotFound
		}
		return nil, fmt.Errorf("update participant: %w", err)
	}
	return p, nil
}

// ListByRoom returns the participants allocated to a room, ordered by name.
func (r *ParticipantRepository) ListByRoom(ctx context.Context, roomNumber int) ([]model.Participant, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+participantColumns+` FROM participants
		 WHERE room_number = $1 AND allocation_status = 'Allocated'
		 ORDER BY name ASC`,
		roomNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("list room participants: %w", err)
	}
	defer rows.Close()
	return collectParticipants(rows)
}

// List returns participants matching the filter, newest first.
func (r *ParticipantRepository) List(ctx context.Context, filter ParticipantFilter) ([]model.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE 1=1`
	args := []any{}
	if filter.Gender != nil {
		args = append(args, *filter.Gender)
		query += fmt.Sprintf(" AND gender = $%d", len(args))
	}
	if filter.PaymentStatus != nil {
		args = append(args, *filter.PaymentStatus)
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if filter.AllocationStatus != nil {
		args = append(args, *filter.AllocationStatus)
		query += fmt.Sprintf(" AND allocation_status = $%d", len(args))
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()
	return collectParticipants(rows)
}

func collectParticipants(rows pgx.Rows) ([]model.Participant, error) {
	var out []model.Participant
	for rows.Next() {
		var p model.Participant
		if err := rows.Scan(&p.MHID, &p.Name, &p.Gender, &p.ContactNumber, &p.Email,
			&p.PaymentStatus, &p.AllocationStatus, &p.RoomNumber, &p.AllocatedBy,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Allocate is the allocation engine. It runs the full precondition chain
// and the paired participant/room mutation inside one transaction so the
// two can never diverge.
//
// Locking: the participant row and the room row are both taken FOR UPDATE,
// which serializes concurrent attempts on the same participant or the same
// room. The occupancy increment is additionally gated on
// occupied_count < total_capacity, so even under concurrent attempts at a
// room's last remaining slot at most one caller can fill it; the loser
// re-reads fresh state inside its own transaction and fails with
// ErrRoomFull rather than overshooting capacity.
//
// Idempotency: an already-allocated participant short-circuits to the
// existing room with alreadyAllocated=true; the requested room number is
// ignored and nothing is mutated. Whichever concurrent request lands the
// Allocated write first wins; the rest collapse to this branch.
func (r *ParticipantRepository) Allocate(ctx context.Context, mhid string, roomNumber int, operator string) (*model.AllocationResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	// Step 1: lock the participant row.
	p, err := scanParticipant(tx.QueryRow(ctx,
		`SELECT `+participantColumns+` FROM participants WHERE mhid = $1 FOR UPDATE`, mhid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrParticipantNotFound
		}
		return nil, err
	}

	// Step 2: idempotent short-circuit. Once allocated, the assignment
	// never changes through this call.
	if p.IsAllocated() {
		existing, getErr := scanRoom(tx.QueryRow(ctx,
			`SELECT `+roomColumns+` FROM rooms WHERE room_number = $1`, *p.RoomNumber))
		if getErr != nil {
			err = fmt.Errorf("load existing room: %w", getErr)
			return nil, err
		}
		if err = tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("commit transaction: %w", err)
		}
		return &model.AllocationResult{Participant: p, Room: existing, AlreadyAllocated: true}, nil
	}

	// Step 3: payment gate.
	if p.PaymentStatus != model.Paid {
		err = ErrPaymentRequired
		return nil, err
	}

	// Step 4: lock the target room row.
	room, err := scanRoom(tx.QueryRow(ctx,
		`SELECT `+roomColumns+` FROM rooms WHERE room_number = $1 FOR UPDATE`, roomNumber))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = ErrRoomNotFound
		}
		return nil, err
	}

	// Step 5: gender separation.
	if room.Gender != p.Gender {
		err = ErrGenderMismatch
		return nil, err
	}

	// Step 6: capacity, with a conditional increment as the authoritative
	// guard even though the row is locked.
	if room.IsFull() {
		err = ErrRoomFull
		return nil, err
	}
	tag, err := tx.Exec(ctx,
		`UPDATE rooms
		 SET occupied_count = occupied_count + 1, updated_at = NOW()
		 WHERE room_number = $1 AND occupied_count < total_capacity`,
		roomNumber,
	)
	if err != nil {
		return nil, fmt.Errorf("increment occupied_count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		err = ErrRoomFull
		return nil, err
	}

	// Paired participant mutation; commits together with the increment or
	// not at all.
	p, err = scanParticipant(tx.QueryRow(ctx,
		`UPDATE participants
		 SET room_number = $2, allocation_status = 'Allocated', allocated_by = $3, updated_at = NOW()
		 WHERE mhid = $1
		 RETURNING `+participantColumns,
		mhid, roomNumber, operator,
	))
	if err != nil {
		return nil, fmt.Errorf("assign participant: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}
	room.OccupiedCount++
	return &model.AllocationResult{Participant: p, Room: room}, nil
}
