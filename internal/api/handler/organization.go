package handler

import (
	"net/http"
	"time"

	"github.com/mechanio/garage/internal/api/request"
	"github.com/mechanio/garage/internal/api/response"
	"github.com/mechanio/garage/internal/core"
	"github.com/mechanio/garage/internal/model"
	"github.com/mechanio/garage/internal/platform"
)

type Organization struct {
	svc *core.OrganizationService
}

func NewOrganization(svc *core.OrganizationService) *Organization {
	return &Organization{svc: svc}
}

func (h *Organization) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	var req request.CreateOrganization
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	now := time.Now().UTC()
	org := &model.Organization{
		ID:        platform.NewID(),
		OwnerID:   actor.UserID,
		Name:      req.Name,
		Phone:     req.Phone,
		Address:   req.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := h.svc.Create(r.Context(), org); err != nil {
		response.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusCreated, org)
}

func (h *Organization) GetCurrent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorOr401(w, r)
	if !ok {
		return
	}

	org, err := h.svc.GetByOwner(r.Context(), actor.UserID)
	if err != nil {
		response.WriteError(w, http.StatusNotFound, err.Error())
		return
	}

	response.WriteJSON(w, http.StatusOK, org)
}
