// Package memory provides a mutex-guarded in-memory store implementing the
// same contracts as the pgx repositories. It backs the service and handler
// tests so they run without a database, and doubles as an executable model
// of the allocation engine's conditional-update semantics.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/repository"
)

// Store holds all three entity sets behind one mutex. The single lock
// plays the role of the database transaction: the allocation precondition
// chain and the paired mutation are observed atomically.
type Store struct {
	mu           sync.Mutex
	rooms        map[int]*model.Room
	participants map[string]*model.Participant
	users        map[string]*model.User // keyed by ID
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		rooms:        make(map[int]*model.Room),
		participants: make(map[string]*model.Participant),
		users:        make(map[string]*model.User),
	}
}

// Rooms returns the room-inventory view of the store.
func (s *Store) Rooms() *RoomStore { return &RoomStore{s: s} }

// Participants returns the participant-registry view of the store.
func (s *Store) Participants() *ParticipantStore { return &ParticipantStore{s: s} }

// Users returns the operator-account view of the store.
func (s *Store) Users() *UserStore { return &UserStore{s: s} }

func cloneRoom(r *model.Room) *model.Room {
	c := *r
	return &c
}

func cloneParticipant(p *model.Participant) *model.Participant {
	c := *p
	if p.RoomNumber != nil {
		n := *p.RoomNumber
		c.RoomNumber = &n
	}
	return &c
}

// ─── Rooms ───────────────────────────────────────────────────────────────────

// RoomStore implements the room persistence contract over the shared lock.
type RoomStore struct {
	s *Store
}

func (r *RoomStore) Create(_ context.Context, room *model.Room) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.rooms[room.RoomNumber]; ok {
		return repository.ErrDuplicateRoom
	}
	room.OccupiedCount = 0
	now := time.Now().UTC()
	room.CreatedAt, room.UpdatedAt = now, now
	r.s.rooms[room.RoomNumber] = cloneRoom(room)
	return nil
}

func (r *RoomStore) GetByNumber(_ context.Context, roomNumber int) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[roomNumber]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	return cloneRoom(room), nil
}

func (r *RoomStore) List(_ context.Context) ([]model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]model.Room, 0, len(r.s.rooms))
	for _, room := range r.s.rooms {
		out = append(out, *cloneRoom(room))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (r *RoomStore) ListAvailableByGender(_ context.Context, gender model.Gender) ([]model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Room
	for _, room := range r.s.rooms {
		if room.Gender == gender && !room.IsFull() {
			out = append(out, *cloneRoom(room))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RoomNumber < out[j].RoomNumber })
	return out, nil
}

func (r *RoomStore) Delete(_ context.Context, roomNumber int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[roomNumber]
	if !ok {
		return repository.ErrRoomNotFound
	}
	if room.OccupiedCount > 0 {
		return repository.ErrRoomOccupied
	}
	delete(r.s.rooms, roomNumber)
	return nil
}

func (r *RoomStore) UpdateCapacity(_ context.Context, roomNumber, capacity int) (*model.Room, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	room, ok := r.s.rooms[roomNumber]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	if capacity < room.OccupiedCount {
		return nil, repository.ErrCapacityTooLow
	}
	room.TotalCapacity = capacity
	room.UpdatedAt = time.Now().UTC()
	return cloneRoom(room), nil
}

func (r *RoomStore) Stats(_ context.Context) (*model.RoomStats, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var stats model.RoomStats
	for _, room := range r.s.rooms {
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

// ─── Participants ────────────────────────────────────────────────────────────

// ParticipantStore implements the participant persistence contract,
// including the allocation engine, over the shared lock.
type ParticipantStore struct {
	s *Store
}

func (r *ParticipantStore) GetByMHID(_ context.Context, mhid string) (*model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[mhid]
	if !ok {
		return nil, repository.ErrParticipantNotFound
	}
	return cloneParticipant(p), nil
}

func (r *ParticipantStore) Create(_ context.Context, p *model.Participant) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.participants[p.MHID]; ok {
		return repository.ErrDuplicateMHID
	}
	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	r.s.participants[p.MHID] = cloneParticipant(p)
	return nil
}

func (r *ParticipantStore) SetPayment(_ context.Context, mhid string, status model.PaymentStatus) (*model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[mhid]
	if !ok {
		return nil, repository.ErrParticipantNotFound
	}
	p.PaymentStatus = status
	p.UpdatedAt = time.Now().UTC()
	return cloneParticipant(p), nil
}

func (r *ParticipantStore) Update(_ context.Context, mhid string, upd model.UpdateParticipantRequest) (*model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.participants[mhid]
	if !ok {
		return nil, repository.ErrParticipantNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.ContactNumber != nil {
		p.ContactNumber = *upd.ContactNumber
	}
	if upd.Gender != nil {
		p.Gender = model.Gender(*upd.Gender)
	}
	if upd.PaymentStatus != nil {
		p.PaymentStatus = model.PaymentStatus(*upd.PaymentStatus)
	}
	p.UpdatedAt = time.Now().UTC()
	return cloneParticipant(p), nil
}

func (r *ParticipantStore) ListByRoom(_ context.Context, roomNumber int) ([]model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Participant
	for _, p := range r.s.participants {
		if p.RoomNumber != nil && *p.RoomNumber == roomNumber && p.AllocationStatus == model.Allocated {
			out = append(out, *cloneParticipant(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ParticipantStore) List(_ context.Context, filter repository.ParticipantFilter) ([]model.Participant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []model.Participant
	for _, p := range r.s.participants {
		if filter.Gender != nil && p.Gender != *filter.Gender {
			continue
		}
		if filter.PaymentStatus != nil && p.PaymentStatus != *filter.PaymentStatus {
			continue
		}
		if filter.AllocationStatus != nil && p.AllocationStatus != *filter.AllocationStatus {
			continue
		}
		out = append(out, *cloneParticipant(p))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// Allocate mirrors the pgx transaction: the whole precondition chain and
// the paired mutation run under one lock, so either both the occupancy
// increment and the participant pointer land, or neither does.
func (r *ParticipantStore) Allocate(_ context.Context, mhid string, roomNumber int, operator string) (*model.AllocationResult, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.participants[mhid]
	if !ok {
		return nil, repository.ErrParticipantNotFound
	}
	if p.IsAllocated() {
		existing, ok := r.s.rooms[*p.RoomNumber]
		if !ok {
			return nil, repository.ErrRoomNotFound
		}
		return &model.AllocationResult{
			Participant:      cloneParticipant(p),
			Room:             cloneRoom(existing),
			AlreadyAllocated: true,
		}, nil
	}
	if p.PaymentStatus != model.Paid {
		return nil, repository.ErrPaymentRequired
	}
	room, ok := r.s.rooms[roomNumber]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	if room.Gender != p.Gender {
		return nil, repository.ErrGenderMismatch
	}
	if room.IsFull() {
		return nil, repository.ErrRoomFull
	}

	now := time.Now().UTC()
	room.OccupiedCount++
	room.UpdatedAt = now
	n := roomNumber
	p.RoomNumber = &n
	p.AllocationStatus = model.Allocated
	p.AllocatedBy = operator
	p.UpdatedAt = now
	return &model.AllocationResult{
		Participant: cloneParticipant(p),
		Room:        cloneRoom(room),
	}, nil
}

// ─── Users ───────────────────────────────────────────────────────────────────

// UserStore implements the operator-account persistence contract.
type UserStore struct {
	s *Store
}

func (r *UserStore) Create(_ context.Context, u *model.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return repository.ErrDuplicateUsername
		}
	}
	u.CreatedAt = time.Now().UTC()
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *UserStore) GetByUsername(_ context.Context, username string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Username == username {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *UserStore) GetByID(_ context.Context, id string) (*model.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	c := *u
	return &c, nil
}
