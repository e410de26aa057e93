package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"equipbook-backend/internal/domain"
	"equipbook-backend/internal/service"

	"github.com/gorilla/mux"
)

// FineHandler exposes the fine and hold ledger over HTTP.
type FineHandler struct {
	ledgerSvc service.LedgerService
}

func NewFineHandler(ledgerSvc service.LedgerService) *FineHandler {
	return &FineHandler{ledgerSvc: ledgerSvc}
}

func (h *FineHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	userID := requester.ID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		// Only authorizers may inspect another user's ledger.
		parsed, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return
		}
		if int32(parsed) != requester.ID && !requester.Role.Authorizer() {
			writeError(w, http.StatusForbidden, "you may only view your own fines")
			return
		}
		userID = int32(parsed)
	}

	fines, err := h.ledgerSvc.ListFines(r.Context(), userID, strings.ToUpper(r.URL.Query().Get("status")))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fines": fines})
}

type resolveFineRequest struct {
	Outcome string `json:"outcome"` // "paid" or "waived"
	Note    string `json:"note"`
}

func (h *FineHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	if !requester.Role.Authorizer() {
		writeError(w, http.StatusForbidden, "only administrators can resolve fines")
		return
	}

	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id in path")
		return
	}
	var req resolveFineRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var outcome domain.FineStatus
	switch strings.ToLower(req.Outcome) {
	case "paid":
		outcome = domain.FineStatusPaid
	case "waived":
		outcome = domain.FineStatusWaived
	default:
		writeError(w, http.StatusBadRequest, "outcome must be 'paid' or 'waived'")
		return
	}

	fine, err := h.ledgerSvc.ResolveFine(r.Context(), int32(id), outcome, requester.ID, req.Note)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"fine": fine})
}

func (h *FineHandler) Standing(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	userID, err := strconv.ParseInt(mux.Vars(r)["userId"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id in path")
		return
	}
	if int32(userID) != requester.ID && !requester.Role.Authorizer() {
		writeError(w, http.StatusForbidden, "you may only view your own standing")
		return
	}

	standing, err := h.ledgerSvc.GetStanding(r.Context(), int32(userID))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standing)
}
