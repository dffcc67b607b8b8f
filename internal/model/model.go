// Package model defines the core domain types for the accommodation
// check-in and room-allocation system.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Gender restricts which participants a room may house. Male and female
// rooms are strictly separated.
type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// ParseGender normalizes free-form operator input into a Gender value.
// Accepts the canonical values plus common short and legacy forms
// ("m", "boy", "girls", ...) in any casing.
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m", "boy", "boys":
		return Male, nil
	case "female", "f", "girl", "girls":
		return Female, nil
	default:
		return "", fmt.Errorf("%q is not a valid gender; use Male or Female", s)
	}
}

// PaymentStatus is updated manually by an operator after verifying payment
// proof; there is no gateway integration.
type PaymentStatus string

const (
	Paid   PaymentStatus = "Paid"
	Unpaid PaymentStatus = "Unpaid"
)

// ParsePaymentStatus validates a payment status value.
func ParsePaymentStatus(s string) (PaymentStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "paid":
		return Paid, nil
	case "unpaid":
		return Unpaid, nil
	default:
		return "", fmt.Errorf("%q is not a valid payment status; use Paid or Unpaid", s)
	}
}

// AllocationStatus tracks whether a participant holds a room.
type AllocationStatus string

const (
	Allocated    AllocationStatus = "Allocated"
	NotAllocated AllocationStatus = "NotAllocated"
)

// Role is an operator role. Admins manage the room inventory; coordinators
// register participants, record payment, and allocate rooms.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleCoordinator Role = "COORDINATOR"
)

// ParseRole validates an operator role value.
func ParseRole(s string) (Role, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ADMIN":
		return RoleAdmin, nil
	case "COORDINATOR":
		return RoleCoordinator, nil
	default:
		return "", fmt.Errorf("%q is not a valid role; use ADMIN or COORDINATOR", s)
	}
}

// NormalizeMHID canonicalizes an externally supplied participant identifier.
// MHIDs are stored upper-cased and trimmed so lookups are case- and
// whitespace-insensitive.
func NormalizeMHID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// Room is a dormitory room in the inventory.
//
// OccupiedCount must always equal the number of participants whose
// RoomNumber points at this room; the allocation transaction in the
// repository keeps the two in step.
type Room struct {
	RoomNumber    int       `json:"roomNumber"`
	Gender        Gender    `json:"gender"`
	TotalCapacity int       `json:"totalCapacity"`
	OccupiedCount int       `json:"occupiedCount"`
	Block         string    `json:"block,omitempty"`
	Floor         string    `json:"floor,omitempty"`
	Location      string    `json:"location,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// AvailableSpots returns the number of free beds.
func (r *Room) AvailableSpots() int {
	return r.TotalCapacity - r.OccupiedCount
}

// IsFull returns true when no beds remain.
func (r *Room) IsFull() bool {
	return r.OccupiedCount >= r.TotalCapacity
}

// Participant is an event attendee registered for accommodation.
type Participant struct {
	MHID             string           `json:"mhid"`
	Name             string           `json:"name"`
	Gender           Gender           `json:"gender"`
	ContactNumber    string           `json:"contactNumber"`
	Email            string           `json:"email,omitempty"`
	PaymentStatus    PaymentStatus    `json:"paymentStatus"`
	AllocationStatus AllocationStatus `json:"allocationStatus"`
	RoomNumber       *int             `json:"roomNumber"`
	AllocatedBy      string           `json:"allocatedBy,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	UpdatedAt        time.Time        `json:"updated_at"`
}

// IsAllocated reports whether the participant already holds a room.
func (p *Participant) IsAllocated() bool {
	return p.AllocationStatus == Allocated && p.RoomNumber != nil
}

// User is an operator account (admin or coordinator).
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"created_at"`
}

// ─── Request / response payloads ─────────────────────────────────────────────

// CreateParticipantRequest is the payload for registering a participant.
type CreateParticipantRequest struct {
	MHID          string `json:"mhid"`
	Name          string `json:"name"`
	Gender        string `json:"gender"`
	ContactNumber string `json:"contactNumber"`
	Email         string `json:"email"`
}

// UpdatePaymentRequest marks a participant's payment as verified (or not).
type UpdatePaymentRequest struct {
	MHID          string `json:"mhid"`
	PaymentStatus string `json:"paymentStatus"`
}

// AllocateRequest asks for a specific room chosen by the coordinator from
// the available-rooms list.
type AllocateRequest struct {
	MHID       string `json:"mhid"`
	RoomNumber int    `json:"roomNumber"`
}

// UpdateParticipantRequest is the admin correction path. Nil fields are
// left unchanged. Changing gender or payment status here never revokes an
// existing allocation; that is left to operator judgment.
type UpdateParticipantRequest struct {
	Name          *string `json:"name"`
	ContactNumber *string `json:"contactNumber"`
	Gender        *string `json:"gender"`
	PaymentStatus *string `json:"paymentStatus"`
}

// CreateRoomRequest is the payload for adding a room to the inventory.
type CreateRoomRequest struct {
	RoomNumber    int    `json:"roomNumber"`
	Gender        string `json:"gender"`
	TotalCapacity int    `json:"totalCapacity"`
	Block         string `json:"block"`
	Floor         string `json:"floor"`
	Location      string `json:"location"`
}

// UpdateCapacityRequest changes a room's total capacity.
type UpdateCapacityRequest struct {
	TotalCapacity int `json:"totalCapacity"`
}

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// CreateUserRequest creates an operator account (admin only).
type CreateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// AllocationResult is the outcome of an allocation call. AlreadyAllocated
// is true when the participant held a room before the call; in that case
// Room is the existing room and nothing was mutated.
type AllocationResult struct {
	Participant      *Participant `json:"participant"`
	Room             *Room        `json:"room"`
	AlreadyAllocated bool         `json:"alreadyAllocated"`
}

// GenderStats aggregates room inventory numbers for one gender bucket.
type GenderStats struct {
	Rooms     int `json:"rooms"`
	Capacity  int `json:"capacity"`
	Occupied  int `json:"occupied"`
	Available int `json:"available"`
}

// RoomStats is the inventory summary shown on the admin dashboard.
type RoomStats struct {
	Total  GenderStats `json:"total"`
	Male   GenderStats `json:"male"`
	Female GenderStats `json:"female"`
}
