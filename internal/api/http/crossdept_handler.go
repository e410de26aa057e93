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

// CrossDepartmentHandler exposes routing and request lifecycle over HTTP.
type CrossDepartmentHandler struct {
	routingSvc   service.RoutingService
	lifecycleSvc service.RequestLifecycleService
}

func NewCrossDepartmentHandler(routingSvc service.RoutingService, lifecycleSvc service.RequestLifecycleService) *CrossDepartmentHandler {
	return &CrossDepartmentHandler{routingSvc: routingSvc, lifecycleSvc: lifecycleSvc}
}

// RoutePreview answers "where would this request go" without creating
// anything, for the request form.
func (h *CrossDepartmentHandler) RoutePreview(w http.ResponseWriter, r *http.Request) {
	if _, ok := requesterFrom(r); !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	equipmentType := r.URL.Query().Get("equipment_type")
	if equipmentType == "" {
		writeError(w, http.StatusBadRequest, "equipment_type is required")
		return
	}
	quantity, err := strconv.ParseInt(r.URL.Query().Get("quantity"), 10, 32)
	if err != nil || quantity <= 0 {
		writeError(w, http.StatusBadRequest, "quantity must be a positive integer")
		return
	}

	decision, err := h.routingSvc.Route(r.Context(), equipmentType, int32(quantity))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, decision)
}

type createCrossDeptRequest struct {
	EquipmentType string `json:"equipment_type"`
	Quantity      int32  `json:"quantity"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Justification string `json:"justification"`
}

func (h *CrossDepartmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	var req createCrossDeptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.EquipmentType == "" || req.Quantity <= 0 {
		writeError(w, http.StatusBadRequest, "equipment_type and a positive quantity are required")
		return
	}
	start, end, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, rejection, err := h.routingSvc.CreateRequest(r.Context(), requester, req.EquipmentType, req.Quantity, start, end, req.Justification)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if rejection != nil {
		writeRejection(w, rejection)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"routing_type": created[0].RoutingType,
		"requests":     created,
	})
}

// List returns requests targeting the reviewer's unit (?scope=unit) or the
// requester's own requests (default).
func (h *CrossDepartmentHandler) List(w http.ResponseWriter, r *http.Request) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}

	if r.URL.Query().Get("scope") == "unit" {
		if !requester.Role.Authorizer() {
			writeError(w, http.StatusForbidden, "only reviewers can list unit requests")
			return
		}
		reqs, err := h.routingSvc.ListForUnit(r.Context(), requester.UnitID, strings.ToUpper(r.URL.Query().Get("status")))
		if err != nil {
			writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"requests": reqs})
		return
	}

	reqs, err := h.routingSvc.ListByRequester(r.Context(), requester.ID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"requests": reqs})
}

type reviewRequest struct {
	Instructions string `json:"instructions,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

func (h *CrossDepartmentHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(requester domain.Requester, id int32, body reviewRequest) (*domain.CrossDepartmentRequest, error) {
		return h.lifecycleSvc.Approve(r.Context(), requester, id, body.Instructions)
	})
}

func (h *CrossDepartmentHandler) Deny(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(requester domain.Requester, id int32, body reviewRequest) (*domain.CrossDepartmentRequest, error) {
		return h.lifecycleSvc.Deny(r.Context(), requester, id, body.Reason)
	})
}

func (h *CrossDepartmentHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.act(w, r, func(requester domain.Requester, id int32, _ reviewRequest) (*domain.CrossDepartmentRequest, error) {
		return h.lifecycleSvc.Cancel(r.Context(), requester, id)
	})
}

func (h *CrossDepartmentHandler) act(w http.ResponseWriter, r *http.Request, fn func(domain.Requester, int32, reviewRequest) (*domain.CrossDepartmentRequest, error)) {
	requester, ok := requesterFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing identity")
		return
	}
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id in path")
		return
	}

	var body reviewRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
	}

	req, err := fn(requester, int32(id), body)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"request": req})
}
