package handler

import (
	"errors"
	"net/http"

	"github.com/NaiduBugata/MahoAccom/internal/directory"
	"github.com/NaiduBugata/MahoAccom/internal/model"
	"github.com/NaiduBugata/MahoAccom/internal/service"
	"github.com/go-chi/chi/v5"
)

// ParticipantHandler serves the coordinator workflow: check, create,
// payment, allocation, and the optional directory pre-fill.
type ParticipantHandler struct {
	svc *service.ParticipantService
	dir *directory.Client // nil when no directory is configured
}

// NewParticipantHandler constructs a ParticipantHandler.
func NewParticipantHandler(svc *service.ParticipantService, dir *directory.Client) *ParticipantHandler {
	return &ParticipantHandler{svc: svc, dir: dir}
}

// Check handles GET /api/participants/check/{mhid}
func (h *ParticipantHandler) Check(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.Check(r.Context(), chi.URLParam(r, "mhid"))
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "participant found", p)
}

type createParticipantResponse struct {
	Participant    *model.Participant `json:"participant"`
	AlreadyExisted bool               `json:"alreadyExisted"`
}

// Create handles POST /api/participants
// Idempotent on MHID: re-posting an existing participant returns the
// stored record with alreadyExisted=true and HTTP 200 instead of 201.
func (h *ParticipantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	p, alreadyExisted, err := h.svc.Create(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}
	status := http.StatusCreated
	message := "participant created successfully"
	if alreadyExisted {
		status = http.StatusOK
		message = "participant already registered"
	}
	writeData(w, status, message, createParticipantResponse{Participant: p, AlreadyExisted: alreadyExisted})
}

// UpdatePayment handles PUT /api/participants/payment
func (h *ParticipantHandler) UpdatePayment(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.SetPayment(r.Context(), req.MHID, req.PaymentStatus)
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "payment status updated", p)
}

// Allocate handles POST /api/participants/allocate
// The coordinator picks a room from the available list; the engine
// verifies legality and applies both mutations atomically.
func (h *ParticipantHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	operator, ok := OperatorFrom(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, kindAuth, "authentication required")
		return
	}
	var req model.AllocateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	result, err := h.svc.Allocate(r.Context(), req, operator.Username)
	if err != nil {
		respondError(w, err)
		return
	}
	message := "room allocated successfully"
	if result.AlreadyAllocated {
		message = "participant already allocated"
	}
	writeData(w, http.StatusOK, message, result)
}

// Update handles PUT /api/participants/{mhid}
// Admin correction path; never touches the allocation even when gender or
// payment status change on an allocated participant.
func (h *ParticipantHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req model.UpdateParticipantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, kindValidation, "invalid request body: "+err.Error())
		return
	}
	p, err := h.svc.Update(r.Context(), chi.URLParam(r, "mhid"), req)
	if err != nil {
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "participant updated", p)
}

// Prefill handles GET /api/participants/prefill/{mhid}
// Queries the external directory for advisory form pre-fill data.
func (h *ParticipantHandler) Prefill(w http.ResponseWriter, r *http.Request) {
	if h.dir == nil {
		writeError(w, http.StatusNotFound, kindNotFound, "directory lookup is not configured")
		return
	}
	mhid := model.NormalizeMHID(chi.URLParam(r, "mhid"))
	if mhid == "" {
		writeError(w, http.StatusBadRequest, kindValidation, "mhid is required")
		return
	}
	profile, err := h.dir.Lookup(r.Context(), mhid)
	if err != nil {
		if errors.Is(err, directory.ErrNotFound) {
			writeError(w, http.StatusNotFound, kindNotFound, err.Error())
			return
		}
		respondError(w, err)
		return
	}
	writeData(w, http.StatusOK, "directory record found", profile)
}
