package handler

import (
	"net/http"
	"strconv"

	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/service"
	"github.com/go-chi/chi/v5"
)

// RoomHandler serves room inventory management and the read projections
// used by both roles.
type RoomHandler struct {
	rooms        *service.RoomService
	participants *service.ParticipantService
}

// NewRoomHandler constructs a RoomHandler.
func NewRoomHandler(rooms *service.RoomService, participants *service.ParticipantService) *RoomHandler {
	return &RoomHandler{rooms: rooms, participants: participants}
}

func roomNumberParam(r *http.Request) (int, error) {
	return strconv.Atoi(chi.URLParam(r, "roomNumber"))
}

// Create handles POST /api/rooms (admin only)
func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateRoomRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	room, err := h.rooms.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusCreated, "room created successfully", room)
}

// List handles GET /api/rooms
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	writeData(w, http.StatusOK, "rooms fetched successfully", rooms)
}

// ListAvailable handles GET /api/rooms/available/{gender}
// Informational only: nothing is reserved, and a room returned here may
// fill before the allocation call, which re-validates server-side.
func (h *RoomHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	rooms, err := h.rooms.ListAvailable(r.Context(), chi.URLParam(r, "gender"))
	if err != nil {
		respondError(w, err)
		return
	}
	if rooms == nil {
		rooms = []model.Room{}
	}
	writeData(w, http.StatusOK, "available rooms fetched successfully", rooms)
}

// Stats handles GET /api/rooms/stats
func (h *RoomHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.rooms.Stats(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "room statistics fetched successfully", stats)
}

type roomParticipantsResponse struct {
	Room         *model.Room         `json:"room"`
	Participants []model.Participant `json:"participants"`
	Count        int                 `json:"count"`
}

// Participants handles GET /api/rooms/{roomNumber}/participants
func (h *RoomHandler) Participants(w http.ResponseWriter, r *http.Request) {
	roomNumber, err := roomNumberParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "roomNumber must be an integer")
		return
	}
	room, participants, err := h.participants.ListByRoom(r.Context(), roomNumber)
	if err != nil {
		respondError(w, err)
		return
	}
	if participants == nil {
		participants = []model.Participant{}
	}
	writeData(w, http.StatusOK, "room participants fetched successfully", roomParticipantsResponse{
		Room:         room,
		Participants: participants,
		Count:        len(participants),
	})
}

// UpdateCapacity handles PUT /api/rooms/{roomNumber}/capacity (admin only)
func (h *RoomHandler) UpdateCapacity(w http.ResponseWriter, r *http.Request) {
	roomNumber, err := roomNumberParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "roomNumber must be an integer")
		return
	}
	var req model.UpdateCapacityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	room, err := h.rooms.UpdateCapacity(r.Context(), roomNumber, req.TotalCapacity)
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "room capacity updated successfully", room)
}

// Delete handles DELETE /api/rooms/{roomNumber} (admin only)
func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	roomNumber, err := roomNumberParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "roomNumber must be an integer")
		return
	}
	if err := h.rooms.Delete(r.Context(), roomNumber); err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "room deleted successfully", nil)
}
