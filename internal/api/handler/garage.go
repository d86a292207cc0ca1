package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/core"
	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

type Garage struct {
	svc *core.GarageService
}

func NewGarage(svc *core.GarageService) *Garage {
	return &Garage{svc: svc}
}

func (h *Garage) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	if actor.OrgID == "" {
		response.WriteError(w, http.StatusUnprocessableEntity, "actor has no organization yet")
		return
	}

	var req request.CreateGarage
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	bayCount := req.BayCount
	if bayCount == 0 {
		bayCount = 1
	}

	name := req.Name
	if name == "" {
		name = platform.NewName("garage-")
	}

	now := time.Now().UTC()
	garage := &model.Garage{
		ID:        platform.NewID(),
		OrgID:     actor.OrgID,
		Name:      name,
		Address:   req.Address,
		City:      req.City,
		Phone:     req.Phone,
		BayCount:  bayCount,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), garage); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, garage)
}

func (h *Garage) Get(w http.ResponseWriter, r *http.Request) {
	id, err := request.RequireID(chi.URLParam(r, "id"))
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	garage, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, garage)
}

func (h *Garage) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}
	if actor.OrgID == "" {
		response.WriteJSON(w, http.StatusOK, []model.Garage{})
		return
	}

	garages, err := h.svc.ListByOrg(r.Context(), actor.OrgID)
	if err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if garages == nil {
		garages = []model.Garage{}
	}

	response.WriteJSON(w, http.StatusOK, garages)
}
